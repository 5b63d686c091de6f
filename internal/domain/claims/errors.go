package claims

import (
	"errors"
	"fmt"

	"pet-adoption-hub/internal/domain/animals"
)

var (
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrAlreadyClaimed   = errors.New("animal already claimed")
	ErrInvalidPurpose   = errors.New("purpose must be Adopt or Help")
	ErrNotFound         = errors.New("animal not found")
	ErrStoreUnavailable = errors.New("record store unavailable")
	ErrNotClaimant      = errors.New("animal is not claimed by this user")
	ErrNoProfile        = errors.New("user profile not registered")

	// ErrPartialClaim: el animal quedó marcado como reclamado pero el perfil
	// del usuario no se actualizó. Solo se reintenta el write del perfil.
	ErrPartialClaim = errors.New("partial claim failure")
)

// PartialClaimError lleva lo necesario para reintentar el write del perfil.
type PartialClaimError struct {
	AnimalID string
	UserID   string
	Purpose  animals.Purpose
	Err      error
}

func (e *PartialClaimError) Error() string {
	return fmt.Sprintf("partial claim failure: animal=%s user=%s purpose=%s: %v",
		e.AnimalID, e.UserID, e.Purpose, e.Err)
}

func (e *PartialClaimError) Unwrap() error { return e.Err }

func (e *PartialClaimError) Is(target error) bool { return target == ErrPartialClaim }
