package media

import (
	"context"
	"io"
)

// Store guarda bytes de imagen y devuelve la URL pública del objeto.
type Store interface {
	Put(ctx context.Context, key string, contentType string, body io.Reader) (string, error)
}
