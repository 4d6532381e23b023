package model

import "time"

// Document represents a stored file and its metadata. The file content
// lives in object storage under StoragePath; the row only carries the
// reference. AreaID is zero when the document is company-wide.
type Document struct {
	ID            int64     `json:"id"`
	CompanyID     int64     `json:"company_id"`
	AreaID        int64     `json:"area_id,omitempty"`
	UserID        int64     `json:"user_id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	FileName      string    `json:"file_name"`
	FileExtension string    `json:"file_extension"`
	StoragePath   string    `json:"storage_path"`
	Size          int64     `json:"size"`
	ContentType   string    `json:"content_type"`
	StatusID      int64     `json:"status_id"`
	CreatedAt     time.Time `json:"created_at"`
	CreatedBy     string    `json:"created_by"`
	ModifiedAt    time.Time `json:"modified_at"`
	ModifiedBy    string    `json:"modified_by"`
}
