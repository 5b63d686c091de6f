package animals

import "context"

// Repository es el record store de animales.
// Create asigna el ID. Los errores siguen ports/store.
type Repository interface {
	Create(ctx context.Context, a Animal) (Animal, error)
	GetByID(ctx context.Context, id string) (Animal, error)
	ListAvailable(ctx context.Context) ([]Animal, error)
	ListByIDs(ctx context.Context, ids []string) ([]Animal, error)

	// SetClaimed marca el animal como no disponible sin condición.
	// Nunca vuelve a poner IsAvailable en true.
	SetClaimed(ctx context.Context, id, claimedBy string) error
}

// ConditionalClaimer lo implementan los stores con compare-and-set nativo:
// el flip solo aplica si el animal sigue disponible.
//   - disponible            => flip + ClaimedBy, nil
//   - ya tomado por el mismo => no-op, nil
//   - tomado por otro        => store.ErrConditionFailed
type ConditionalClaimer interface {
	ClaimIfAvailable(ctx context.Context, id, claimedBy string) error
}
