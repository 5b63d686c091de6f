package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pet-adoption-hub/internal/domain/animals"
	"pet-adoption-hub/internal/platform/logger"
	"pet-adoption-hub/internal/ports/store"

	"golang.org/x/sync/errgroup"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("user not found")
	ErrAlreadyExists     = errors.New("user already exists")
	ErrNotMedicalContact = errors.New("only Doctor profiles can toggle directory listing")
	ErrStoreUnavailable  = errors.New("record store unavailable")
)

// AnimalLookup resuelve ids de los sets a animales (para el perfil).
type AnimalLookup interface {
	ListByIDs(ctx context.Context, ids []string) ([]animals.Animal, error)
}

type Service struct {
	repo    Repository
	animals AnimalLookup
	log     logger.Logger
}

func NewService(repo Repository, lookup AnimalLookup, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:    repo,
		animals: lookup,
		log:     log.With(map[string]any{"component": "users"}),
	}
}

type RegisterInput struct {
	Name   string
	City   string
	Mobile string
	Role   string
}

// Register crea el documento de usuario para una identidad ya autenticada.
// uid y email vienen del identity provider, no del body.
func (s *Service) Register(ctx context.Context, uid, email string, in RegisterInput) (User, error) {
	uid = strings.TrimSpace(uid)
	email = strings.TrimSpace(email)
	if uid == "" || email == "" {
		return User{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.City) == "" || strings.TrimSpace(in.Mobile) == "" {
		return User{}, ErrInvalidInput
	}
	role, ok := ParseRole(in.Role)
	if !ok {
		return User{}, ErrInvalidInput
	}

	u := User{
		UID:            uid,
		Name:           strings.TrimSpace(in.Name),
		Email:          email,
		City:           strings.TrimSpace(in.City),
		Mobile:         strings.TrimSpace(in.Mobile),
		Role:           role,
		ShowInList:     true,
		AdoptedAnimals: []string{},
		HelpedAnimals:  []string{},
	}

	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return User{}, ErrAlreadyExists
		}
		return User{}, translate(err)
	}

	s.log.Info("user registered", map[string]any{"uid": uid, "role": string(role)})
	return u, nil
}

func (s *Service) Get(ctx context.Context, uid string) (User, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return User{}, ErrNotFound
	}
	u, err := s.repo.GetByID(ctx, uid)
	if err != nil {
		return User{}, translate(err)
	}
	return u, nil
}

// Profile es el usuario con sus animales resueltos.
type Profile struct {
	User    User             `json:"user"`
	Adopted []animals.Animal `json:"adoptedAnimals"`
	Helped  []animals.Animal `json:"helpedAnimals"`
}

// Profile resuelve ambos sets en paralelo. Los ids que ya no existen se omiten.
func (s *Service) Profile(ctx context.Context, uid string) (Profile, error) {
	u, err := s.Get(ctx, uid)
	if err != nil {
		return Profile{}, err
	}

	p := Profile{User: u, Adopted: []animals.Animal{}, Helped: []animals.Animal{}}
	if s.animals == nil {
		return p, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := s.animals.ListByIDs(gctx, u.AdoptedAnimals)
		if err != nil {
			return err
		}
		p.Adopted = items
		return nil
	})
	g.Go(func() error {
		items, err := s.animals.ListByIDs(gctx, u.HelpedAnimals)
		if err != nil {
			return err
		}
		p.Helped = items
		return nil
	})
	if err := g.Wait(); err != nil {
		return Profile{}, translate(err)
	}
	return p, nil
}

// SetShowInDirectory cambia el opt-in del directorio.
// Se refleja recién en el próximo rebuild del índice.
func (s *Service) SetShowInDirectory(ctx context.Context, uid string, show bool) (User, error) {
	u, err := s.Get(ctx, uid)
	if err != nil {
		return User{}, err
	}
	if u.Role != RoleMedicalContact {
		return User{}, ErrNotMedicalContact
	}
	if u.ShowInList == show {
		return u, nil
	}

	if err := s.repo.SetShowInList(ctx, u.UID, show); err != nil {
		return User{}, translate(err)
	}
	u.ShowInList = show

	s.log.Info("directory opt-in changed", map[string]any{"uid": u.UID, "show_in_list": show})
	return u, nil
}

func translate(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, animals.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, store.ErrUnavailable), errors.Is(err, animals.ErrStoreUnavailable):
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	default:
		return err
	}
}
