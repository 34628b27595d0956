package models

// Item is a thing listed for sharing by its owner. RequestID links the item
// to the item request it was created to satisfy, when there is one.
type Item struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     int64     `json:"ownerId"`
	Available   bool      `json:"available"`
	RequestID   *int64    `json:"requestId,omitempty"`
	Comments    []Comment `json:"comments,omitempty"`
	Bookings    []Booking `json:"bookings,omitempty"`
}

type ItemCreate struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   *bool  `json:"available"`
	RequestID   *int64 `json:"requestId"`
}

// ItemPatch is a null-safe partial update applied by the owner.
type ItemPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}
