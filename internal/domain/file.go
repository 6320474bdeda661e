package domain

import "time"

// CustomerFile is an uploaded document whose bytes live in object storage.
type CustomerFile struct {
	ID          int64     `json:"id"`
	CustomerID  string    `json:"customerId"`
	ObjectKey   string    `json:"-"`
	FileName    string    `json:"fileName"`
	Description string    `json:"description"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	UploadedAt  time.Time `json:"uploadedAt"`
}
