package customer

import (
	"context"

	"github.com/erp/custadmin/internal/domain/shared"
)

// Repository defines the interface for customer persistence
type Repository interface {
	// Create inserts a new customer. A duplicate ID returns shared.ErrAlreadyExists.
	Create(ctx context.Context, c *Customer) error

	// Update replaces an existing customer. A missing ID returns shared.ErrNotFound.
	Update(ctx context.Context, c *Customer) error

	// FindByID finds a customer by its ID
	FindByID(ctx context.Context, id string) (*Customer, error)

	// Delete removes a customer by its ID
	Delete(ctx context.Context, id string) error

	// List returns one page of the directory
	List(ctx context.Context, q NormalizedDirectoryQuery) (shared.Paginated[Customer], error)
}
