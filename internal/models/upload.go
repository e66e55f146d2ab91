package models

import "io"

// FileUpload is an uploaded file whose content type has already been checked
type FileUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}
