package services

import "github.com/custodia-labs/recall-cli/internal/core/domain"

// Diversification limits for a given topK.
func diversityLimits(topK int) (maxChunks, maxPerFile int) {
	maxChunks = topK
	maxPerFile = topK / 2
	if maxPerFile < 3 {
		maxPerFile = 3
	}
	return maxChunks, maxPerFile
}

// diversify selects up to maxChunks chunks round-robin across source
// files, capped at maxPerFile per file. Input order (ascending distance)
// determines both per-file ordering and the rotation order of files, so
// the best chunk of every represented file is considered before any
// file's second-best. With a single distinct file there is nothing to
// interleave and the top maxChunks are returned as ranked, without the
// per-file cap.
func diversify(chunks []domain.RetrievedChunk, maxChunks, maxPerFile int) []domain.RetrievedChunk {
	// Group by source file, preserving ascending-distance order within
	// each file and the order files first appear.
	groups := map[string][]domain.RetrievedChunk{}
	var fileOrder []string
	for _, c := range chunks {
		f := c.Chunk.SourceFile
		if _, ok := groups[f]; !ok {
			fileOrder = append(fileOrder, f)
		}
		groups[f] = append(groups[f], c)
	}

	if len(fileOrder) <= 1 {
		if len(chunks) > maxChunks {
			return chunks[:maxChunks]
		}
		return chunks
	}

	selected := make([]domain.RetrievedChunk, 0, maxChunks)
	taken := make(map[string]int, len(fileOrder))

	for round := 0; len(selected) < maxChunks; round++ {
		progressed := false
		for _, f := range fileOrder {
			if len(selected) >= maxChunks {
				break
			}
			if taken[f] >= maxPerFile || round >= len(groups[f]) {
				continue
			}
			selected = append(selected, groups[f][round])
			taken[f]++
			progressed = true
		}
		if !progressed {
			break
		}
	}

	return selected
}
