package media

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"readinggame/internal/logger"
)

// ObjectStore is a bucket that never overwrites on Put
type ObjectStore interface {
	// Put stores data under key, returning ErrObjectExists if the key is taken
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}

// Gateway validates, names and stores game images
type Gateway struct {
	store  ObjectStore
	bucket string
	log    *logger.Logger
	now    func() time.Time
}

// NewGateway creates a gateway over store. bucket is the segment that public URLs
// carry, "game-images" when empty.
func NewGateway(store ObjectStore, bucket string, log *logger.Logger) *Gateway {
	if bucket == "" {
		bucket = DefaultBucket
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Gateway{
		store:  store,
		bucket: bucket,
		log:    log.With("component", "media"),
		now:    time.Now,
	}
}

// Upload stores the file under folder and returns its public URL. name overrides
// the generated "<folder>-<unix millis>.<ext>" file name.
func (g *Gateway) Upload(ctx context.Context, file File, folder Folder, name string) (string, error) {
	if !folder.Valid() {
		return "", &ValidationError{Reason: "folder", Message: fmt.Sprintf("Invalid folder %q. Use words or rewards.", folder)}
	}
	if err := ValidateFile(file); err != nil {
		return "", err
	}
	if name == "" {
		name = fmt.Sprintf("%s-%d.%s", folder, g.now().UnixMilli(), file.Extension())
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return "", &ValidationError{Reason: "name", Message: "Invalid file name."}
	}

	key := string(folder) + "/" + name
	if err := g.store.Put(ctx, key, file.Data, file.ContentType); err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	g.log.Info("Image uploaded", "key", key, "bytes", file.Size())
	return g.store.PublicURL(key), nil
}

// Delete removes the object a public URL points at
func (g *Gateway) Delete(ctx context.Context, rawURL string) error {
	key, err := g.KeyFromURL(rawURL)
	if err != nil {
		return err
	}
	if err := g.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	g.log.Info("Image deleted", "key", key)
	return nil
}

// KeyFromURL recovers "<folder>/<file>" from a URL containing "/<bucket>/"
func (g *Gateway) KeyFromURL(rawURL string) (string, error) {
	marker := "/" + g.bucket + "/"
	i := strings.Index(rawURL, marker)
	if i < 0 {
		return "", ErrInvalidURL
	}
	key := rawURL[i+len(marker):]
	if j := strings.IndexAny(key, "?#"); j >= 0 {
		key = key[:j]
	}
	if unescaped, err := url.PathUnescape(key); err == nil {
		key = unescaped
	}
	if key == "" || strings.Contains(key, "..") {
		return "", ErrInvalidURL
	}
	return key, nil
}

// IsRemoteURL reports whether rawURL points into this gateway's bucket, as opposed
// to a bundled asset path like /images/bola.png
func (g *Gateway) IsRemoteURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	return strings.Contains(u.Path, "/"+g.bucket+"/")
}
