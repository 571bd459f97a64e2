package ports

import (
	"context"

	domainauth "github.com/target/placesmap/internal/domain/auth"
	"github.com/target/placesmap/internal/domain/model"
)

// PlaceRepository is the append-only store of saved places. Implementations
// must only ever return places whose owner equals principal.UserID.
type PlaceRepository interface {
	// ListByOwner returns the principal's places, newest first.
	ListByOwner(ctx context.Context, principal domainauth.Principal) ([]*model.Place, error)

	// Create inserts a place; the store assigns ID and CreatedAt.
	Create(ctx context.Context, principal domainauth.Principal, req model.CreatePlaceRequest) (*model.Place, error)
}
