package driving

import "context"

// IngestService turns files into indexed, retrievable chunks.
type IngestService interface {
	// IngestFile extracts, chunks, embeds, and indexes a file.
	IngestFile(ctx context.Context, path string) (*IngestResult, error)

	// IngestText indexes already-extracted text under the given source
	// file identifier.
	IngestText(ctx context.Context, sourceFile, text string) (*IngestResult, error)

	// RemoveFile soft-deletes every chunk from the source file and
	// returns the number of chunks flagged.
	RemoveFile(ctx context.Context, sourceFile string) (int, error)
}

// IngestResult summarises a completed ingestion.
type IngestResult struct {
	SourceFile string `json:"source_file"`
	Chunks     int    `json:"chunks"`
	Positions  []int  `json:"-"`
}
