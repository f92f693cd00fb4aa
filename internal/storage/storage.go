// Package storage keeps uploaded resumes and company logos. Put hands back
// both the public URL and the object key; the owning record keeps the key so
// that only files it uploaded are ever deleted on its behalf.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

// MaxUploadSize is the largest accepted file, in bytes.
const MaxUploadSize = 5 << 20

// Object key prefixes.
const (
	PrefixResumes = "resumes"
	PrefixLogos   = "logos"
)

var (
	ErrTooLarge        = errors.New("file exceeds the 5 MB limit")
	ErrUnsupportedType = errors.New("unsupported file type")
)

// Object is a stored file.
type Object struct {
	Key string
	URL string
}

// Store persists uploaded files.
type Store interface {
	// Put writes r under prefix and returns the stored object.
	Put(ctx context.Context, prefix, filename, contentType string, r io.Reader) (Object, error)
	// Delete removes the object stored under key. Keys Put could not have
	// produced are ignored.
	Delete(ctx context.Context, key string) error
}

// Kind describes what an upload may contain.
type Kind struct {
	Prefix     string
	Extensions map[string]string // extension -> content type
}

var (
	ResumeKind = Kind{
		Prefix: PrefixResumes,
		Extensions: map[string]string{
			".pdf":  "application/pdf",
			".doc":  "application/msword",
			".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		},
	}
	LogoKind = Kind{
		Prefix: PrefixLogos,
		Extensions: map[string]string{
			".png":  "image/png",
			".jpg":  "image/jpeg",
			".jpeg": "image/jpeg",
			".webp": "image/webp",
		},
	}
)

// Check validates the file name and size against k and returns the content
// type to store it with.
func (k Kind) Check(filename string, size int64) (string, error) {
	if size > MaxUploadSize {
		return "", ErrTooLarge
	}
	ext := strings.ToLower(path.Ext(filename))
	ct, ok := k.Extensions[ext]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, ext)
	}
	return ct, nil
}

// objectKey returns "<prefix>/<uuid><ext>".
func objectKey(prefix, filename string) string {
	return prefix + "/" + uuid.NewString() + strings.ToLower(path.Ext(filename))
}

// validKey reports whether key has the "<prefix>/<name>" shape objectKey
// produces for one of the known prefixes.
func validKey(key string) bool {
	prefix, name, ok := strings.Cut(key, "/")
	if !ok || name == "" || strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
		return false
	}
	return prefix == PrefixResumes || prefix == PrefixLogos
}

// limitedReader fails once more than MaxUploadSize bytes were read.
type limitedReader struct {
	r io.Reader
	n int64
}

func limit(r io.Reader) io.Reader { return &limitedReader{r: r, n: MaxUploadSize + 1} }

func (l *limitedReader) Read(p []byte) (int, error) {
	if l.n <= 0 {
		return 0, ErrTooLarge
	}
	if int64(len(p)) > l.n {
		p = p[:l.n]
	}
	n, err := l.r.Read(p)
	l.n -= int64(n)
	if l.n <= 0 {
		return n, ErrTooLarge
	}
	return n, err
}
