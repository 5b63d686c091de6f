package users

import "context"

type Repository interface {
	Create(ctx context.Context, u User) error
	GetByID(ctx context.Context, uid string) (User, error)
	ListByRole(ctx context.Context, role Role) ([]User, error)
	SetShowInList(ctx context.Context, uid string, show bool) error

	// AppendClaim agrega animalID al set indicado. Idempotente:
	// si ya está en ese set del mismo usuario es no-op. Si está en el
	// otro set o en otro usuario devuelve store.ErrConflict.
	AppendClaim(ctx context.Context, uid, animalID string, set ClaimSet) error
}
