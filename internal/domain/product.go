package domain

// Product is the denormalized snapshot returned by retrieval. Similarity is
// only populated by ranked search; zero means "no score available".
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url,omitempty"`
	Similarity  float64 `json:"similarity,omitempty"`
}
