// Package upload stores user-submitted product images under a fixed
// directory, keyed by collision-resistant names.
package upload

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// ErrUnsupportedType is returned for files outside the allow-list.
var ErrUnsupportedType = errors.New("unsupported file type")

var allowedExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// Store writes uploads into Dir.
type Store struct {
	Dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %q: %w", dir, err)
	}
	return &Store{Dir: dir}, nil
}

// Save writes the stream to disk and returns the stored filename.
// The stored name is "<uuid>_<sanitized original>", so two uploads of
// the same file name never clobber each other.
func (s *Store) Save(r io.Reader, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExts[ext] {
		return "", ErrUnsupportedType
	}

	name := uuid.NewString() + "_" + Sanitize(filename)
	dst := filepath.Join(s.Dir, name)

	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create %q: %w", dst, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(dst)
		return "", fmt.Errorf("write %q: %w", dst, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %q: %w", dst, err)
	}
	return name, nil
}

// Sanitize strips path components and characters unsafe for a filename.
// The extension is cleaned separately so it survives even when the stem
// is stripped entirely and the stored key keeps its type hint.
func Sanitize(filename string) string {
	// uploads may arrive with either separator regardless of server OS
	filename = strings.ReplaceAll(filename, "\\", "/")
	base := filepath.Base(filename)

	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	stem = unsafeChars.ReplaceAllString(stem, "")
	stem = strings.Trim(stem, ".")
	if stem == "" {
		stem = "file"
	}

	ext = unsafeChars.ReplaceAllString(ext, "")
	if len(ext) < 2 { // a bare dot is no extension
		ext = ""
	}
	return stem + ext
}
