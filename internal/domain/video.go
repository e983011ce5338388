package domain

import (
	"context"
	"io"
	"time"
)

// WatchCompletionRatio is the playback fraction past which a video counts as watched.
const WatchCompletionRatio = 0.9

// IsWatchComplete reports whether playback has finished: the player reported
// end-of-media, or the position is past WatchCompletionRatio of the duration.
// Either condition is sufficient on its own.
func IsWatchComplete(positionSec, durationSec float64, ended bool) bool {
	if ended {
		return true
	}
	if durationSec <= 0 {
		return false
	}
	return positionSec/durationSec > WatchCompletionRatio
}

// PresignedURL is a time-limited fetch URL for an object.
type PresignedURL struct {
	URL       string
	ExpiresAt time.Time
}

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Key         string
	Size        int64
	ContentType string
}

// ProgressFunc receives upload progress in bytes.
type ProgressFunc func(transferred, total int64)

// ObjectStore holds video binaries addressed by key.
type ObjectStore interface {
	// GetURL returns a time-limited URL for key. Missing objects yield ErrObjectNotFound.
	GetURL(ctx context.Context, key string) (*PresignedURL, error)

	// Upload stores r under key. onProgress may be nil.
	Upload(ctx context.Context, key string, r io.Reader, size int64, onProgress ProgressFunc) error

	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
}
