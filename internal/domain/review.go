package domain

// Source records where a candidate item came from.
type Source string

const (
	SourceReorder        Source = "Reorder"
	SourceRecommendation Source = "Recommendation"
	SourceCurated        Source = "Curated"
)

// CandidateItem is a proposed product/quantity pairing inside a review
// session, awaiting user confirmation before it becomes a cart entry.
// Quantity is always >= 1 when produced by the dispatcher or curation engine.
type CandidateItem struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"image_url,omitempty"`
	Quantity int     `json:"quantity"`
	Source   Source  `json:"source,omitempty"`
}
