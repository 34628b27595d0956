package models

import "time"

// Comment is post-rental feedback on an item. Created only by users with a
// finished booking of the item; never edited or deleted.
type Comment struct {
	ID         int64     `json:"id"`
	Text       string    `json:"text"`
	ItemID     int64     `json:"-"`
	AuthorID   int64     `json:"-"`
	AuthorName string    `json:"authorName"`
	Created    time.Time `json:"created"`
}

type CommentCreate struct {
	Text string `json:"text"`
}
