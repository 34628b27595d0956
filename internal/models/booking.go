package models

import "time"

// Booking reserves an item for a time interval. Item and Booker are loaded
// alongside the row so responses can nest them the way clients expect.
type Booking struct {
	ID       int64     `json:"id"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	ItemID   int64     `json:"-"`
	BookerID int64     `json:"-"`
	Status   string    `json:"status"`
	Item     *Item     `json:"item,omitempty"`
	Booker   *User     `json:"booker,omitempty"`
}

// Finished reports whether the rental period ended at or before now.
// Commenting on an item is gated on at least one finished booking.
func (b *Booking) Finished(now time.Time) bool {
	return !b.End.After(now)
}

type BookingCreate struct {
	ItemID int64     `json:"itemId"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
}
