package models

import "time"

// Cart holds the pending course purchases for exactly one user.
// Total is a derived value: it must always equal the sum of
// quantity x current course price over the items.
type Cart struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Items     []CartItem `json:"items"`
	Total     int64      `json:"total"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// CartItem is a single line in a cart. Course fields are populated
// from the catalog when the cart is read.
type CartItem struct {
	CourseID  string    `json:"courseId"`
	Title     string    `json:"title,omitempty"`
	Price     int64     `json:"price,omitempty"`
	Thumbnail string    `json:"thumbnail,omitempty"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"addedAt"`
}
