package claims

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-adoption-hub/internal/domain/animals"
	"pet-adoption-hub/internal/domain/users"
	"pet-adoption-hub/internal/platform/logger"
	"pet-adoption-hub/internal/platform/metrics"
	"pet-adoption-hub/internal/ports/auth"
	"pet-adoption-hub/internal/ports/store"
)

// AnimalStore es lo que el coordinator necesita del store de animales.
// Si además implementa animals.ConditionalClaimer, el flip usa el CAS nativo.
type AnimalStore interface {
	GetByID(ctx context.Context, id string) (animals.Animal, error)
	SetClaimed(ctx context.Context, id, claimedBy string) error
}

// ProfileStore es el write 2: append idempotente al set del usuario.
// GetByID se usa antes del write 1 para exigir que el perfil exista.
type ProfileStore interface {
	GetByID(ctx context.Context, uid string) (users.User, error)
	AppendClaim(ctx context.Context, uid, animalID string, set users.ClaimSet) error
}

// LocalView es la vista "disponibles" del caller (ver animals.Snapshot).
type LocalView interface {
	Hide(id string)
	Reveal(id string)
	Forget(id string)
}

type nopView struct{}

func (nopView) Hide(string)   {}
func (nopView) Reveal(string) {}
func (nopView) Forget(string) {}

// Result de un claim exitoso.
type Result struct {
	AnimalID  string          `json:"animal_id"`
	UserID    string          `json:"user_id"`
	Purpose   animals.Purpose `json:"purpose"`
	ClaimedAt time.Time       `json:"claimed_at"`
	Message   string          `json:"message"`
}

// Coordinator ejecuta el protocolo de claim:
//
//	write 1: flip condicional isAvailable true -> false (+ claimedBy)
//	write 2: append idempotente al set del usuario
//
// No hay locks propios: la exclusión la da el write condicional del store.
type Coordinator struct {
	animals AnimalStore
	users   ProfileStore
	view    LocalView
	log     logger.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

type Options struct {
	View    LocalView
	Logger  logger.Logger
	Metrics *metrics.Metrics
}

func NewCoordinator(animalStore AnimalStore, profiles ProfileStore, opts Options) *Coordinator {
	view := opts.View
	if view == nil {
		view = nopView{}
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Coordinator{
		animals: animalStore,
		users:   profiles,
		view:    view,
		log:     log.With(map[string]any{"component": "claims"}),
		metrics: opts.Metrics,
		now:     time.Now,
	}
}

// Claim valida en orden: identidad, disponibilidad, purpose, perfil registrado.
// Hasta el write 1 el caller puede abandonar (ctx); desde ahí corre hasta el final.
func (c *Coordinator) Claim(ctx context.Context, animalID string, who auth.Claims, purpose string) (Result, error) {
	uid := strings.TrimSpace(who.UserID)
	animalID = strings.TrimSpace(animalID)

	if uid == "" {
		c.metrics.ClaimOutcome(metrics.OutcomeRejected, purposeLabel(purpose))
		return Result{}, ErrUnauthenticated
	}

	log := c.log.With(map[string]any{"animal_id": animalID, "uid": uid})

	current, err := c.animals.GetByID(ctx, animalID)
	if err != nil {
		err = storeErr(err)
		c.record(err, purposeLabel(purpose))
		return Result{}, err
	}
	if !current.IsAvailable {
		c.metrics.ClaimOutcome(metrics.OutcomeAlreadyClaimed, purposeLabel(purpose))
		return Result{}, ErrAlreadyClaimed
	}

	p, ok := animals.ParsePurpose(purpose)
	if !ok {
		c.metrics.ClaimOutcome(metrics.OutcomeRejected, "unknown")
		return Result{}, ErrInvalidPurpose
	}

	// El perfil tiene que existir antes del write 1.
	if err := c.requireProfile(ctx, uid); err != nil {
		c.record(err, string(p))
		return Result{}, err
	}

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	wctx := context.WithoutCancel(ctx)

	c.view.Hide(animalID)

	if err := c.flip(wctx, animalID, uid); err != nil {
		c.record(err, string(p))
		if errors.Is(err, ErrAlreadyClaimed) {
			// lo tiene otro: no vuelve a la vista
			c.view.Forget(animalID)
			log.Info("claim lost race", nil)
		} else {
			c.view.Reveal(animalID)
			log.Warn("claim flip failed", map[string]any{"err": err.Error()})
		}
		return Result{}, err
	}

	// El animal ya está reclamado: pase lo que pase con el write 2 no vuelve a la vista.
	c.view.Forget(animalID)

	if err := c.users.AppendClaim(wctx, uid, animalID, setFor(p)); err != nil {
		c.metrics.ClaimOutcome(metrics.OutcomePartial, string(p))
		log.Error("claim profile write failed", map[string]any{"err": err.Error(), "purpose": string(p)})
		return Result{}, &PartialClaimError{AnimalID: animalID, UserID: uid, Purpose: p, Err: err}
	}

	c.metrics.ClaimOutcome(metrics.OutcomeClaimed, string(p))
	log.Info("animal claimed", map[string]any{"purpose": string(p)})
	return c.result(animalID, uid, p), nil
}

// RetryProfile reintenta solo el write 2 de un claim parcial.
// Nunca vuelve a tocar el animal; exige que claimedBy sea el caller.
func (c *Coordinator) RetryProfile(ctx context.Context, animalID string, who auth.Claims, purpose string) (Result, error) {
	uid := strings.TrimSpace(who.UserID)
	animalID = strings.TrimSpace(animalID)
	if uid == "" {
		return Result{}, ErrUnauthenticated
	}
	p, ok := animals.ParsePurpose(purpose)
	if !ok {
		return Result{}, ErrInvalidPurpose
	}

	current, err := c.animals.GetByID(ctx, animalID)
	if err != nil {
		return Result{}, storeErr(err)
	}
	if current.IsAvailable || current.ClaimedBy != uid {
		return Result{}, ErrNotClaimant
	}

	if err := c.users.AppendClaim(ctx, uid, animalID, setFor(p)); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return Result{}, ErrAlreadyClaimed
		}
		c.metrics.ClaimOutcome(metrics.OutcomePartial, string(p))
		return Result{}, &PartialClaimError{AnimalID: animalID, UserID: uid, Purpose: p, Err: err}
	}

	c.metrics.ClaimOutcome(metrics.OutcomeRetried, string(p))
	c.log.Info("claim profile write recovered", map[string]any{"animal_id": animalID, "uid": uid})
	return c.result(animalID, uid, p), nil
}

// Retry es RetryProfile a partir del error devuelto por Claim.
func (c *Coordinator) Retry(ctx context.Context, partial *PartialClaimError) (Result, error) {
	if partial == nil {
		return Result{}, errors.New("nil partial claim")
	}
	return c.RetryProfile(ctx, partial.AnimalID, auth.Claims{UserID: partial.UserID}, string(partial.Purpose))
}

// flip es el write 1. Re-flipear un animal que ya es del mismo uid es no-op.
func (c *Coordinator) flip(ctx context.Context, id, uid string) error {
	if cc, ok := c.animals.(animals.ConditionalClaimer); ok {
		if err := cc.ClaimIfAvailable(ctx, id, uid); err != nil {
			return storeErr(err)
		}
		return nil
	}

	// Sin CAS nativo: re-leer justo antes de escribir y abortar si cambió.
	cur, err := c.animals.GetByID(ctx, id)
	if err != nil {
		return storeErr(err)
	}
	if !cur.IsAvailable {
		if cur.ClaimedBy == uid {
			return nil
		}
		return ErrAlreadyClaimed
	}
	if err := c.animals.SetClaimed(ctx, id, uid); err != nil {
		return storeErr(err)
	}
	return nil
}

func (c *Coordinator) requireProfile(ctx context.Context, uid string) error {
	_, err := c.users.GetByID(ctx, uid)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound), errors.Is(err, users.ErrNotFound):
		return ErrNoProfile
	default:
		return storeErr(err)
	}
}

func (c *Coordinator) record(err error, purpose string) {
	switch {
	case errors.Is(err, ErrAlreadyClaimed):
		c.metrics.ClaimOutcome(metrics.OutcomeAlreadyClaimed, purpose)
	case errors.Is(err, ErrStoreUnavailable):
		c.metrics.ClaimOutcome(metrics.OutcomeStoreUnavailable, purpose)
	default:
		c.metrics.ClaimOutcome(metrics.OutcomeRejected, purpose)
	}
}

func (c *Coordinator) result(animalID, uid string, p animals.Purpose) Result {
	verb := "help"
	if p == animals.PurposeAdopt {
		verb = "adopt"
	}
	return Result{
		AnimalID:  animalID,
		UserID:    uid,
		Purpose:   p,
		ClaimedAt: c.now().UTC(),
		Message:   fmt.Sprintf("Thank you for choosing to %s!", verb),
	}
}

func setFor(p animals.Purpose) users.ClaimSet {
	if p == animals.PurposeAdopt {
		return users.SetAdopted
	}
	return users.SetHelped
}

func purposeLabel(raw string) string {
	if p, ok := animals.ParsePurpose(raw); ok {
		return string(p)
	}
	return "unknown"
}

func storeErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrAlreadyClaimed), errors.Is(err, ErrStoreUnavailable), errors.Is(err, ErrNotFound):
		return err
	case errors.Is(err, store.ErrConditionFailed):
		return ErrAlreadyClaimed
	case errors.Is(err, store.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
}
