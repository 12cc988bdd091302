// Package media uploads game images to an object store and prepares them for upload.
package media

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// MaxFileSize is the largest accepted upload
	MaxFileSize = 5 * 1024 * 1024
	// DefaultBucket holds every game image
	DefaultBucket = "game-images"
)

// Folder is the top-level prefix inside the bucket
type Folder string

const (
	FolderWords   Folder = "words"
	FolderRewards Folder = "rewards"
)

func (f Folder) Valid() bool {
	return f == FolderWords || f == FolderRewards
}

var (
	// ErrInvalidURL is returned by Delete for URLs outside the bucket
	ErrInvalidURL = errors.New("invalid image url")
	// ErrObjectExists is returned by an ObjectStore when the key is taken
	ErrObjectExists = errors.New("object already exists")
)

// ValidationError is an upload rejected before any network call
type ValidationError struct {
	Reason  string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// File is an image held in memory
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

func (f File) Size() int {
	return len(f.Data)
}

// Extension returns the lower-cased extension of Name, or one derived from
// ContentType when the name has none
func (f File) Extension() string {
	if ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(f.Name)), "."); ext != "" {
		return ext
	}
	if ext, ok := allowedTypes[strings.ToLower(f.ContentType)]; ok {
		return ext
	}
	return ""
}

var allowedTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// ValidateFile checks type and size
func ValidateFile(f File) error {
	if _, ok := allowedTypes[strings.ToLower(f.ContentType)]; !ok {
		return &ValidationError{Reason: "type", Message: "Invalid file type. Please upload JPG, PNG, or WEBP images."}
	}
	if f.Size() > MaxFileSize {
		return &ValidationError{Reason: "size", Message: "File size too large. Maximum size is 5MB."}
	}
	return nil
}

// ToDataURL encodes the file for inline preview
func ToDataURL(f File) string {
	contentType := f.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(f.Data)
}

// ContentTypeForName maps an image file name to its MIME type
func ContentTypeForName(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	default:
		return ""
	}
}

// ReadFile loads a file from disk, inferring its content type from the name
func ReadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("failed to read image: %w", err)
	}
	name := filepath.Base(path)
	return File{Name: name, ContentType: ContentTypeForName(name), Data: data}, nil
}
