package sale

import (
	"context"

	"github.com/fekuna/omnipos-dashboard/internal/model"
	"github.com/fekuna/omnipos-dashboard/internal/sale/dto"
)

type Repository interface {
	// Create inserts the header and every item of s.
	Create(ctx context.Context, s *model.Sale) error
	// FindByID returns the sale with its items and their product summaries,
	// or nil when no sale with id belongs to userID.
	FindByID(ctx context.Context, userID, id string) (*model.Sale, error)
	FindAll(ctx context.Context, filters *dto.SaleFilters) ([]model.Sale, int, error)
	// LockByID is FindByID holding a row lock on the sale header until the
	// surrounding transaction ends.
	LockByID(ctx context.Context, userID, id string) (*model.Sale, error)
	// UpdateItems writes item quantities, prices and subtotals and the sale total.
	UpdateItems(ctx context.Context, s *model.Sale) error
	Delete(ctx context.Context, userID, id string) error
}
