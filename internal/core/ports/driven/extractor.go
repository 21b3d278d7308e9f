package driven

// TextExtractor produces normalised text from a file on disk.
// Per-format extraction (PDF, audio, images) lives behind this narrow
// interface; the core only sees (text, source-file) pairs.
type TextExtractor interface {
	// Supports reports whether the extractor handles the file.
	Supports(path string) bool

	// Extract returns the file's text content.
	Extract(path string) (string, error)
}
