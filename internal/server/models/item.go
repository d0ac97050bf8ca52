package models

import "time"

// Item types.
const (
	ItemTypeLost  = "lost"
	ItemTypeFound = "found"
)

// Item statuses.
const (
	ItemStatusOpen   = "open"
	ItemStatusClosed = "closed"
)

// Categories lists the accepted item categories.
var Categories = []string{"electronics", "clothing", "accessories", "documents", "other"}

// Item is a lost or found report. OwnerCNIC is the reporter's CNIC and is
// what the ownership gate compares against. It is a login credential in CNIC
// mode, so it never leaves the server.
type Item struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"userId"`
	OwnerCNIC     string    `json:"-"`
	Type          string    `json:"type"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	Location      string    `json:"location"`
	ContactNumber string    `json:"contactNumber"`
	Status        string    `json:"status"`
	ImageKey      *string   `json:"-"`
	ImageURL      string    `json:"imageUrl,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ItemFilter narrows a listing. Empty fields match everything.
type ItemFilter struct {
	Type     string
	Category string
}

// PhotoUpload is handed to the client to PUT an item photo directly to object storage.
type PhotoUpload struct {
	Key string `json:"key"`
	URL string `json:"url"`
}
