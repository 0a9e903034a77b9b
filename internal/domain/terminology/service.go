package terminology

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Service provides vocabulary lookup for reference fields.
type Service struct {
	codes CodeRepository
}

func NewService(codes CodeRepository) *Service {
	return &Service{codes: codes}
}

const defaultSearchLimit = 20

func (s *Service) CreateCode(ctx context.Context, c *Code) error {
	if c.System == "" {
		return fmt.Errorf("system is required")
	}
	if c.Code == "" {
		return fmt.Errorf("code is required")
	}
	if c.Display == "" {
		return fmt.Errorf("display is required")
	}
	return s.codes.Create(ctx, c)
}

func (s *Service) GetCode(ctx context.Context, id uuid.UUID) (*Code, error) {
	return s.codes.GetByID(ctx, id)
}

// ResolveDisplay returns the display label for a selected id. An unknown id
// resolves to the id itself: a stored value must stay renderable even after
// its vocabulary entry is gone.
func (s *Service) ResolveDisplay(ctx context.Context, system, code string) string {
	c, err := s.codes.GetBySystemAndCode(ctx, system, code)
	if err != nil || c == nil {
		return code
	}
	return c.Display
}

func (s *Service) Search(ctx context.Context, system, term string, limit int) ([]*Code, error) {
	if system == "" {
		return nil, fmt.Errorf("system is required")
	}
	if limit <= 0 || limit > 100 {
		limit = defaultSearchLimit
	}
	return s.codes.Search(ctx, system, term, limit)
}

func (s *Service) ListChildren(ctx context.Context, parentID uuid.UUID) ([]*Code, error) {
	return s.codes.ListChildren(ctx, parentID)
}
