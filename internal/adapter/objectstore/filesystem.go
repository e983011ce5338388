package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"trainhub/internal/config"
	"trainhub/internal/domain"
	"trainhub/internal/logger"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// ObjectPath is the route that serves signed object URLs.
const ObjectPath = "/api/storage/objects"

const tokenAudience = "object-read"

// FileStore is the local driver. It keeps objects under a root directory and
// hands out JWT-signed fetch URLs that ObjectPath resolves.
type FileStore struct {
	root       string // absolute
	baseURL    string
	signingKey []byte
	ttl        time.Duration
	now        func() time.Time
}

// NewFileStore creates the root directory if needed.
func NewFileStore(cfg config.StorageConfig) (*FileStore, error) {
	if cfg.RootDir == "" {
		return nil, fmt.Errorf("storage root directory is not configured")
	}
	if cfg.URLSigningKey == "" {
		return nil, fmt.Errorf("storage URL signing key is not configured")
	}
	root, err := filepath.Abs(cfg.RootDir)
	if err != nil {
		return nil, fmt.Errorf("resolve storage root: %w", err)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	ttl := cfg.URLTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &FileStore{
		root:       root,
		baseURL:    strings.TrimRight(cfg.PublicBaseURL, "/"),
		signingKey: []byte(cfg.URLSigningKey),
		ttl:        ttl,
		now:        time.Now,
	}, nil
}

var _ domain.ObjectStore = (*FileStore)(nil)

// resolve maps a key to a path inside root, rejecting traversal.
func (s *FileStore) resolve(key string) (string, error) {
	clean := path.Clean("/" + key)
	if key == "" || clean == "/" || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return filepath.Join(s.root, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}

func (s *FileStore) GetURL(ctx context.Context, key string) (*domain.PresignedURL, error) {
	p, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(p); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrObjectNotFound
		}
		return nil, err
	}

	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   key,
		Audience:  jwt.ClaimStrings{tokenAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		return nil, fmt.Errorf("sign object url: %w", err)
	}

	return &domain.PresignedURL{
		URL:       s.baseURL + ObjectPath + "?token=" + url.QueryEscape(signed),
		ExpiresAt: expiresAt,
	}, nil
}

func (s *FileStore) Upload(ctx context.Context, key string, r io.Reader, size int64, onProgress domain.ProgressFunc) error {
	p, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("create object directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(p), ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp object: %w", err)
	}
	defer os.Remove(tmp.Name())

	src := &progressReader{ctx: ctx, r: r, total: size, onProgress: onProgress}
	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		return fmt.Errorf("write object %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close object %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return fmt.Errorf("commit object %s: %w", key, err)
	}

	logger.Get().Debug("Object stored", zap.String("key", key), zap.Int64("bytes", src.read))
	return nil
}

func (s *FileStore) Remove(ctx context.Context, key string) error {
	p, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove object %s: %w", key, err)
	}
	return nil
}

// Resolve verifies a token issued by GetURL and returns the object's local path.
func (s *FileStore) Resolve(ctx context.Context, token string) (string, *domain.ObjectInfo, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.signingKey, nil
	}, jwt.WithAudience(tokenAudience), jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return "", nil, domain.ErrInvalidObjectToken
	}

	p, err := s.resolve(claims.Subject)
	if err != nil {
		return "", nil, domain.ErrInvalidObjectToken
	}
	st, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil, domain.ErrObjectNotFound
		}
		return "", nil, err
	}
	if st.IsDir() {
		return "", nil, domain.ErrObjectNotFound
	}

	return p, &domain.ObjectInfo{Key: claims.Subject, Size: st.Size(), ContentType: contentTypeFor(p)}, nil
}
