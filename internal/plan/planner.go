package plan

import "jobsearch-engine/internal/domain"

// DefaultChunkSize mirrors the upstream term-count limit most search
// providers tolerate in a single boolean query.
const DefaultChunkSize = 50

// Chunk is one bounded slice of the criteria's site list, paired with the
// criteria it came from. Consumed immediately by a provider adapter.
type Chunk struct {
	Index    int
	Sites    []string
	Criteria domain.Criteria
}

// Plan splits criteria.Sites into chunks of at most chunkSize, preserving
// the original order. An empty site list still yields exactly one chunk so
// keyword/region-only searches run. Pure; no side effects.
func Plan(c domain.Criteria, chunkSize int) []Chunk {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	if len(c.Sites) == 0 {
		return []Chunk{{Index: 1, Criteria: c}}
	}

	var chunks []Chunk
	for i := 0; i < len(c.Sites); i += chunkSize {
		end := i + chunkSize
		if end > len(c.Sites) {
			end = len(c.Sites)
		}
		chunks = append(chunks, Chunk{
			Index:    len(chunks) + 1,
			Sites:    c.Sites[i:end],
			Criteria: c,
		})
	}
	return chunks
}
