package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"closetrent/internal/metrics"
	"closetrent/internal/models"
	"closetrent/pkg/logger"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

const (
	// UploadsPrefix is the public path prefix of every stored file.
	UploadsPrefix = "/uploads/"

	NamespaceClothes  = ""
	NamespaceIdentity = "identity"

	maxSlugLength = 60
)

var (
	ErrInvalidMediaPath = errors.New("invalid media path")

	validExtension = regexp.MustCompile(`^\.[a-z0-9]{1,10}$`)
)

// MediaStore persists uploaded files and returns their public relative path.
type MediaStore interface {
	Save(ctx context.Context, namespace string, upload *models.FileUpload) (string, error)
	// Delete removes the file behind a path returned by Save. A file that is
	// already gone is not an error.
	Delete(ctx context.Context, mediaPath string) error
	Ping(ctx context.Context) error
	Backend() string
}

// GenerateFilename builds a collision-resistant name that keeps a readable
// stem and the lowercased extension of the original file.
func GenerateFilename(original string) string {
	base := filepath.Base(strings.ReplaceAll(original, "\\", "/"))
	ext := strings.ToLower(filepath.Ext(base))
	stem := slug.Make(strings.TrimSuffix(base, filepath.Ext(base)))
	if !validExtension.MatchString(ext) {
		ext = ""
	}
	if len(stem) > maxSlugLength {
		stem = strings.Trim(stem[:maxSlugLength], "-")
	}
	if stem == "" {
		stem = "file"
	}
	return uuid.NewString() + "-" + stem + ext
}

func validNamespace(namespace string) bool {
	return namespace == NamespaceClothes || namespace == NamespaceIdentity
}

// mediaPath returns the public path for name inside namespace.
func mediaPath(namespace, name string) string {
	if namespace == "" {
		return UploadsPrefix + name
	}
	return UploadsPrefix + namespace + "/" + name
}

// objectKey converts a public media path to a key relative to the store
// root, rejecting anything that would escape it.
func objectKey(mediaPath string) (string, error) {
	if !strings.HasPrefix(mediaPath, UploadsPrefix) {
		return "", fmt.Errorf("%w: %q", ErrInvalidMediaPath, mediaPath)
	}
	rel := strings.TrimPrefix(mediaPath, UploadsPrefix)
	if rel == "" || strings.Contains(rel, "\\") {
		return "", fmt.Errorf("%w: %q", ErrInvalidMediaPath, mediaPath)
	}
	for _, seg := range strings.Split(rel, "/") {
		if seg == ".." || seg == "." || seg == "" {
			return "", fmt.Errorf("%w: %q", ErrInvalidMediaPath, mediaPath)
		}
	}
	return path.Clean(rel), nil
}

type localMediaStore struct {
	root string
}

// NewLocalMediaStore stores files on the local filesystem below root.
func NewLocalMediaStore(root string) (MediaStore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve upload dir: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(abs, NamespaceIdentity), 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &localMediaStore{root: abs}, nil
}

func (s *localMediaStore) Backend() string {
	return "local"
}

// Root returns the directory files are written to.
func (s *localMediaStore) Root() string {
	return s.root
}

func (s *localMediaStore) Save(ctx context.Context, namespace string, upload *models.FileUpload) (string, error) {
	p, err := s.save(ctx, namespace, upload)
	metrics.MediaOperations.WithLabelValues(s.Backend(), "save", metrics.Result(err)).Inc()
	return p, err
}

func (s *localMediaStore) save(ctx context.Context, namespace string, upload *models.FileUpload) (string, error) {
	if !validNamespace(namespace) {
		return "", fmt.Errorf("unknown media namespace %q", namespace)
	}
	if upload == nil || upload.Content == nil {
		return "", errors.New("no file content")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := GenerateFilename(upload.Filename)
	dir := filepath.Join(s.root, filepath.FromSlash(namespace))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}

	full := filepath.Join(dir, name)
	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create media file: %w", err)
	}

	if _, err := io.Copy(f, upload.Content); err != nil {
		f.Close()
		os.Remove(full)
		return "", fmt.Errorf("write media file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(full)
		return "", fmt.Errorf("close media file: %w", err)
	}

	p := mediaPath(namespace, name)
	logger.WithComponent("media").WithField("path", p).Debug("Stored upload")
	return p, nil
}

func (s *localMediaStore) Delete(ctx context.Context, mediaPath string) error {
	err := s.delete(mediaPath)
	metrics.MediaOperations.WithLabelValues(s.Backend(), "delete", metrics.Result(err)).Inc()
	return err
}

func (s *localMediaStore) delete(mediaPath string) error {
	key, err := objectKey(mediaPath)
	if err != nil {
		return err
	}

	full := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.Remove(full); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("remove media file: %w", err)
	}
	return nil
}

func (s *localMediaStore) Ping(ctx context.Context) error {
	info, err := os.Stat(s.root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", s.root)
	}
	return nil
}
