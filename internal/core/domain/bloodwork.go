package domain

import "time"

// MaxBloodworkSize caps uploads at 10 MB.
const MaxBloodworkSize = 10 * 1024 * 1024

// allowedBloodworkTypes lists the MIME types accepted for upload.
var allowedBloodworkTypes = map[string]struct{}{
	"application/pdf": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
	"text/plain": {},
	"image/jpeg": {},
	"image/png":  {},
}

// AllowedBloodworkType reports whether mimeType may be uploaded.
func AllowedBloodworkType(mimeType string) bool {
	_, ok := allowedBloodworkTypes[mimeType]
	return ok
}

// BloodworkDocument is the stored metadata of an uploaded lab report.
// Only a reference URL is kept; raw file bytes never enter the store.
type BloodworkDocument struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	FileName   string    `json:"file_name"`
	FileType   string    `json:"file_type"`
	FileSize   int64     `json:"file_size"`
	UploadDate time.Time `json:"upload_date"`
	FileURL    string    `json:"file_url"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
