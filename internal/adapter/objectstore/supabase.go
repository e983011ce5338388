package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"trainhub/internal/config"
	"trainhub/internal/domain"
	"trainhub/internal/logger"

	storage_go "github.com/supabase-community/storage-go"
	"go.uber.org/zap"
)

// SupabaseStore keeps objects in a Supabase Storage bucket. Playback URLs are
// signed by Supabase and served directly from its CDN.
type SupabaseStore struct {
	newClient func() *storage_go.Client
	bucket    string
	ttl       time.Duration
	now       func() time.Time
}

// NewSupabaseStore validates the bucket settings.
func NewSupabaseStore(cfg config.StorageConfig) (*SupabaseStore, error) {
	sb := cfg.Supabase
	if sb.URL == "" || sb.Key == "" || sb.Bucket == "" {
		return nil, errors.New("supabase storage requires url, key and bucket")
	}
	ttl := cfg.URLTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	endpoint := strings.TrimRight(sb.URL, "/") + "/storage/v1"
	return &SupabaseStore{
		// Upload options are set on the client's shared headers, so every
		// call gets its own client.
		newClient: func() *storage_go.Client {
			return storage_go.NewClient(endpoint, sb.Key, nil)
		},
		bucket: sb.Bucket,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

var _ domain.ObjectStore = (*SupabaseStore)(nil)

func isNotFound(err error) bool {
	var storageErr *storage_go.StorageError
	if errors.As(err, &storageErr) {
		if storageErr.Status == http.StatusNotFound {
			return true
		}
		return strings.Contains(strings.ToLower(storageErr.Message), "not found")
	}
	return false
}

func (s *SupabaseStore) GetURL(ctx context.Context, key string) (*domain.PresignedURL, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	expiresAt := s.now().Add(s.ttl)
	resp, err := s.newClient().CreateSignedUrl(s.bucket, key, int(s.ttl.Seconds()))
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrObjectNotFound
		}
		return nil, fmt.Errorf("sign object %s: %w", key, err)
	}
	if resp.SignedURL == "" {
		return nil, fmt.Errorf("sign object %s: empty signed url", key)
	}
	return &domain.PresignedURL{URL: resp.SignedURL, ExpiresAt: expiresAt}, nil
}

func (s *SupabaseStore) Upload(ctx context.Context, key string, r io.Reader, size int64, onProgress domain.ProgressFunc) error {
	contentType := contentTypeFor(key)
	src := &progressReader{ctx: ctx, r: r, total: size, onProgress: onProgress}
	_, err := s.newClient().UploadFile(s.bucket, key, src, storage_go.FileOptions{ContentType: &contentType})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("upload object %s: %w", key, err)
	}
	logger.Get().Debug("Object uploaded",
		zap.String("bucket", s.bucket),
		zap.String("key", key),
		zap.Int64("bytes", src.read))
	return nil
}

// Remove succeeds for keys that are already gone; the bucket API reports
// only the objects it actually deleted.
func (s *SupabaseStore) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := s.newClient().RemoveFile(s.bucket, []string{key}); err != nil && !isNotFound(err) {
		return fmt.Errorf("remove object %s: %w", key, err)
	}
	return nil
}
