package models

import "time"

// ItemRequest records "I need an item like X". Immutable once created;
// reads enrich it with the items whose RequestID points back at it.
type ItemRequest struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	RequesterID int64     `json:"-"`
	Created     time.Time `json:"created"`
	Items       []Item    `json:"items,omitempty"`
}

type ItemRequestCreate struct {
	Description string `json:"description"`
}
