package domain

import "time"

// File is a document attached to a product type, such as a brochure or a
// form to print. Content is only filled when the file is downloaded.
type File struct {
	ID            string    `json:"id"`
	ProductTypeID string    `json:"-"`
	Name          string    `json:"name"`
	ContentType   string    `json:"contentType"`
	Size          int64     `json:"size"`
	CreatedAt     time.Time `json:"createdAt"`
	Content       []byte    `json:"-"`
}
