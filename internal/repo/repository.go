package repo

import (
	"context"
	"errors"
	"strings"

	"github.com/hamed0406/pingme/internal/domain"
)

var (
	ErrInvalidTarget = errors.New("name and url are required")
	ErrNotFound      = errors.New("target not found")
)

// Ports. The memory, redis and postgres adapters implement both.

// Registry holds the monitored targets, name -> url.
type Registry interface {
	Add(ctx context.Context, t domain.Target) error
	// Remove returns ErrNotFound when the name is not registered.
	Remove(ctx context.Context, name string) error
	List(ctx context.Context) (map[string]string, error)
}

// StatusStore holds the last encoded status per target name.
// Writes for distinct names may happen concurrently.
type StatusStore interface {
	GetAll(ctx context.Context) (map[string]string, error)
	Set(ctx context.Context, name, record string) error
	Delete(ctx context.Context, name string) error
}

// ValidateTarget rejects targets with an empty name or url.
func ValidateTarget(t domain.Target) error {
	if strings.TrimSpace(t.Name) == "" || strings.TrimSpace(t.URL) == "" {
		return ErrInvalidTarget
	}
	return nil
}
