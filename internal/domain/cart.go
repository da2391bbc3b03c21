package domain

// CartEntry is one line in a user's temporary cart. EntryID is generated at
// add-time, so the same product can appear as multiple distinct entries.
type CartEntry struct {
	EntryID   string  `json:"entry_id"`
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	ImageURL  string  `json:"image_url,omitempty"`
	Quantity  int     `json:"quantity"`
}
