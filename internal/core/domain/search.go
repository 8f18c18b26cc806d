package domain

// Default retrieval parameters applied when a caller passes zero
// values.
const (
	// DefaultMaxResults is the result count used when a query
	// does not specify one.
	DefaultMaxResults = 5

	// DefaultMinScore is the relevance floor below which results
	// are discarded.
	DefaultMinScore = 0.3
)

// SearchOptions configures a retrieval query.
type SearchOptions struct {
	// MaxResults is the maximum number of results to return.
	// Zero means DefaultMaxResults.
	MaxResults int

	// MinScore is the relevance floor in [0, 1]. Results scoring
	// below it are dropped. Zero means DefaultMinScore; pass a
	// negative value to disable the floor.
	MinScore float64
}

// Normalised returns a copy with zero values replaced by defaults
// and a negative MinScore clamped to 0.
func (o SearchOptions) Normalised() SearchOptions {
	if o.MaxResults <= 0 {
		o.MaxResults = DefaultMaxResults
	}
	if o.MinScore == 0 {
		o.MinScore = DefaultMinScore
	} else if o.MinScore < 0 {
		o.MinScore = 0
	}
	return o
}

// SearchResult represents a single retrieval hit.
type SearchResult struct {
	// Document is the matched chunk.
	Document Document

	// Score is the relevance in [0, 1] after distance conversion
	// and keyword boosting, where higher is better.
	Score float64
}

// SearchResponse is the outcome of a retrieval query. An empty
// Results slice with a non-empty Reason is a valid outcome, not an
// error: it means the engine ran the query and found nothing above
// the floor.
type SearchResponse struct {
	// Results are the ranked hits, best first.
	Results []SearchResult

	// Reason explains an empty result set ("no results above
	// minimum score", "index is empty"). Empty when Results is
	// non-empty.
	Reason string
}
