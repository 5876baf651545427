package domain

// Cart holds the pending purchase for one user, at most one row per user.
// Items maps a food id to the quantity in the cart.
type Cart struct {
	ID     string         `json:"id" gorm:"primaryKey;size:36"`
	UserID string         `json:"userId" gorm:"size:36;not null;uniqueIndex"`
	Items  map[string]int `json:"items" gorm:"serializer:json"`
}
