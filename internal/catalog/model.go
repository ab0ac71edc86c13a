package catalog

import "time"

// Product is a catalog entry.
type Product struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Image       string    `json:"image"`
	ImageKey    string    `json:"-"`
	Category    string    `json:"category"`
	IsFeatured  bool      `json:"isFeatured"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Summary is the projection served by the recommendations endpoint.
type Summary struct {
	ID          string  `json:"_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Price       float64 `json:"price"`
}

// Summary drops the admin-only fields.
func (p Product) Summary() Summary {
	return Summary{ID: p.ID, Name: p.Name, Description: p.Description, Image: p.Image, Price: p.Price}
}
