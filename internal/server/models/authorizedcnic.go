package models

import "time"

// AuthorizedCnic is one allow-list entry.
type AuthorizedCnic struct {
	ID      int64     `json:"id"`
	CNIC    string    `json:"cnic"`
	AddedBy int64     `json:"addedBy"`
	AddedAt time.Time `json:"addedAt"`
}
