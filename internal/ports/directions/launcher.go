package directions

import "errors"

var ErrLocationUnavailable = errors.New("location unavailable")

// Point es un par lat/lng ya capturado.
type Point struct {
	Latitude  float64
	Longitude float64
}

// Launcher arma el destino para la app de mapas externa.
// Si p es nil devuelve ErrLocationUnavailable sin intentar nada.
type Launcher interface {
	URL(p *Point) (string, error)
}
