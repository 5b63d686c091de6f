package animals

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Snapshot es la vista "disponibles" cacheada en memoria.
// Items es una query pura sobre el último fetch: nunca se muta en sitio,
// los claims en vuelo solo se ocultan (Hide) y se revierten (Reveal) o se
// confirman (Forget).
type Snapshot struct {
	catalog *Catalog
	ttl     time.Duration
	now     func() time.Time

	group singleflight.Group

	mu        sync.RWMutex
	items     []Animal
	fetchedAt time.Time
	hidden    map[string]int // claims en vuelo por id
	gone      map[string]struct{}
}

// NewSnapshot crea la vista. ttl <= 0 => cada Items refresca.
func NewSnapshot(catalog *Catalog, ttl time.Duration) *Snapshot {
	return &Snapshot{
		catalog: catalog,
		ttl:     ttl,
		now:     time.Now,
		hidden:  map[string]int{},
		gone:    map[string]struct{}{},
	}
}

// Refresh vuelve a consultar el store. Refresh concurrentes comparten un solo fetch.
func (s *Snapshot) Refresh(ctx context.Context) ([]Animal, error) {
	_, err, _ := s.group.Do("available", func() (any, error) {
		items, err := s.catalog.ListAvailable(ctx)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		s.items = items
		s.fetchedAt = s.now()
		// lo confirmado ya no viene del store; si viene, el fetch es más viejo que el claim
		// y lo seguimos ocultando hasta el próximo refresh.
		next := map[string]struct{}{}
		for _, a := range items {
			if _, ok := s.gone[a.ID]; ok {
				next[a.ID] = struct{}{}
			}
		}
		s.gone = next
		s.mu.Unlock()
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	return s.view(), nil
}

// Items devuelve la vista, refrescando si está vencida.
func (s *Snapshot) Items(ctx context.Context) ([]Animal, error) {
	s.mu.RLock()
	stale := s.fetchedAt.IsZero() || s.ttl <= 0 || s.now().Sub(s.fetchedAt) >= s.ttl
	s.mu.RUnlock()

	if stale {
		return s.Refresh(ctx)
	}
	return s.view(), nil
}

// Invalidate fuerza un fetch en el próximo Items (p.ej. después de un alta).
func (s *Snapshot) Invalidate() {
	s.mu.Lock()
	s.fetchedAt = time.Time{}
	s.mu.Unlock()
}

// Hide saca el animal de la vista mientras el claim está en vuelo.
// Cada Hide se compensa con un Reveal o se cierra con Forget.
func (s *Snapshot) Hide(id string) {
	s.mu.Lock()
	s.hidden[id]++
	s.mu.Unlock()
}

// Reveal revierte un Hide cuando el claim falla. Con otros claims
// en vuelo sobre el mismo id sigue oculto.
func (s *Snapshot) Reveal(id string) {
	s.mu.Lock()
	if n := s.hidden[id]; n > 1 {
		s.hidden[id] = n - 1
	} else {
		delete(s.hidden, id)
	}
	s.mu.Unlock()
}

// Forget confirma la baja: el animal ya no vuelve a la vista.
func (s *Snapshot) Forget(id string) {
	s.mu.Lock()
	delete(s.hidden, id)
	s.gone[id] = struct{}{}
	s.mu.Unlock()
}

func (s *Snapshot) view() []Animal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Animal, 0, len(s.items))
	for _, a := range s.items {
		if _, ok := s.hidden[a.ID]; ok {
			continue
		}
		if _, ok := s.gone[a.ID]; ok {
			continue
		}
		out = append(out, a)
	}
	return out
}
