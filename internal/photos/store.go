package photos

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("photo not found")

// Store keeps meal photos as blobs addressed by key.
type Store interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// NewMealPhotoKey returns a fresh key of the form meals/<userID>/<uuid>.jpg.
func NewMealPhotoKey(userID int) string {
	return fmt.Sprintf("meals/%d/%s.jpg", userID, uuid.NewString())
}

// OwnedBy reports whether key was issued for userID by NewMealPhotoKey.
func OwnedBy(key string, userID int) bool {
	return strings.HasPrefix(key, fmt.Sprintf("meals/%d/", userID)) && !strings.Contains(key, "..")
}
