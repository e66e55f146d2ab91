package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"closetrent/internal/common"
	"closetrent/internal/models"

	"github.com/gabriel-vasile/mimetype"
	"github.com/labstack/echo/v4"
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// openedUpload is a validated upload whose file must be closed once the
// request is done with it.
type openedUpload struct {
	upload *models.FileUpload
	file   multipart.File
}

func (o *openedUpload) Close() {
	if o != nil && o.file != nil {
		o.file.Close()
	}
}

// Upload returns the file for the service layer, or nil when no file was sent.
func (o *openedUpload) Upload() *models.FileUpload {
	if o == nil {
		return nil
	}
	return o.upload
}

// readImageUpload opens the named multipart file and checks its size and
// sniffed content type. A missing file returns nil, nil.
func readImageUpload(c echo.Context, field string, maxSize int64) (*openedUpload, error) {
	header, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, common.NewFieldValidationError(field, "invalid multipart upload")
	}

	if header.Size > maxSize {
		return nil, common.NewFieldValidationError(field,
			fmt.Sprintf("file size exceeds maximum limit of %dMB", maxSize/(1024*1024)))
	}

	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open uploaded file: %w", err)
	}

	mtype, err := mimetype.DetectReader(src)
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("read uploaded file: %w", err)
	}
	contentType := strings.SplitN(mtype.String(), ";", 2)[0]
	if !allowedImageTypes[contentType] {
		src.Close()
		return nil, common.NewFieldValidationError(field, "invalid file type, only JPEG, PNG, GIF and WebP images are allowed")
	}

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		src.Close()
		return nil, fmt.Errorf("rewind uploaded file: %w", err)
	}

	return &openedUpload{
		upload: &models.FileUpload{
			Filename:    header.Filename,
			ContentType: contentType,
			Size:        header.Size,
			Content:     src,
		},
		file: src,
	}, nil
}

// formValue returns a form field and whether it was sent at all.
func formValue(c echo.Context, name string) (string, bool) {
	form, err := c.FormParams()
	if err != nil {
		return "", false
	}
	values, ok := form[name]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}
