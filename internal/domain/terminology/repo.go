package terminology

import (
	"context"

	"github.com/google/uuid"
)

// CodeRepository persists the reference vocabulary.
type CodeRepository interface {
	Create(ctx context.Context, c *Code) error
	GetByID(ctx context.Context, id uuid.UUID) (*Code, error)
	GetBySystemAndCode(ctx context.Context, system, code string) (*Code, error)
	Search(ctx context.Context, system, term string, limit int) ([]*Code, error)
	ListChildren(ctx context.Context, parentID uuid.UUID) ([]*Code, error)
}
