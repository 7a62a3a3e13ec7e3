package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/yeremiapane/qr-menu-builder/utils"
)

// MaxAssetSize caps logo, favicon and item image uploads.
const MaxAssetSize = 2 << 20

var imageExtensions = []struct {
	mime string
	ext  string
}{
	{"image/png", "png"},
	{"image/jpeg", "jpg"},
	{"image/webp", "webp"},
	{"image/gif", "gif"},
}

// AssetStorage keeps uploaded files under business-namespaced paths such as
// "{businessID}/logo.png".
type AssetStorage interface {
	Upload(ctx context.Context, path string, data []byte) (string, error)
	Delete(ctx context.Context, path string) error
	PathFromURL(url string) (string, bool)
}

// LocalStorage writes assets below Root and serves them under BaseURL.
type LocalStorage struct {
	Root    string
	BaseURL string
}

func NewLocalStorage(root, baseURL string) *LocalStorage {
	return &LocalStorage{Root: root, BaseURL: strings.TrimRight(baseURL, "/")}
}

// Upload overwrites whatever is at p.
func (s *LocalStorage) Upload(ctx context.Context, p string, data []byte) (string, error) {
	full, err := s.resolve(p)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", utils.Transient("upload asset", err)
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", utils.Transient("upload asset", err)
	}

	tmp := full + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", utils.Transient("upload asset", err)
	}
	if err := os.Rename(tmp, full); err != nil {
		os.Remove(tmp)
		return "", utils.Transient("upload asset", err)
	}
	return s.BaseURL + "/" + path.Clean(p), nil
}

func (s *LocalStorage) Delete(ctx context.Context, p string) error {
	full, err := s.resolve(p)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return utils.Transient("delete asset", err)
	}
	return nil
}

func (s *LocalStorage) PathFromURL(url string) (string, bool) {
	prefix := s.BaseURL + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	return strings.TrimPrefix(url, prefix), true
}

func (s *LocalStorage) resolve(p string) (string, error) {
	clean := path.Clean("/" + p)
	if clean == "/" || strings.Contains(p, "..") {
		return "", utils.NewValidationError("path", "invalid asset path")
	}
	return filepath.Join(s.Root, filepath.FromSlash(clean)), nil
}

// readImage reads at most MaxAssetSize bytes and sniffs the content type.
// Only PNG, JPEG, WebP and GIF are accepted.
func readImage(r io.Reader) ([]byte, string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxAssetSize+1))
	if err != nil {
		return nil, "", utils.Transient("read upload", err)
	}
	if len(data) == 0 {
		return nil, "", utils.NewValidationError("file", "is empty")
	}
	if len(data) > MaxAssetSize {
		return nil, "", utils.NewValidationError("file", fmt.Sprintf("must be at most %d bytes", MaxAssetSize))
	}

	detected := mimetype.Detect(data)
	for _, t := range imageExtensions {
		if detected.Is(t.mime) {
			return data, t.ext, nil
		}
	}
	return nil, "", utils.NewValidationError("file", "must be a PNG, JPEG, WebP or GIF image, got "+detected.String())
}
