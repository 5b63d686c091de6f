package memory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

var ErrEmptyBody = errors.New("media: empty body")

type object struct {
	ContentType string
	Body        []byte
}

// Store guarda las imágenes en memoria (dev y tests).
type Store struct {
	mu      sync.RWMutex
	baseURL string
	objects map[string]object
}

func New(baseURL string) *Store {
	if baseURL == "" {
		baseURL = "memory://media"
	}
	return &Store{baseURL: strings.TrimRight(baseURL, "/"), objects: map[string]object{}}
}

func (s *Store) Put(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("read media body: %w", err)
	}
	if len(b) == 0 {
		return "", ErrEmptyBody
	}
	key = strings.TrimLeft(key, "/")

	s.mu.Lock()
	s.objects[key] = object{ContentType: contentType, Body: b}
	s.mu.Unlock()

	return s.baseURL + "/" + key, nil
}

// Get devuelve el objeto guardado (tests).
func (s *Store) Get(key string) ([]byte, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.objects[strings.TrimLeft(key, "/")]
	return o.Body, o.ContentType, ok
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
