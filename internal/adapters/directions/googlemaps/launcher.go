package googlemaps

import (
	"fmt"
	"math"
	"strconv"

	"pet-adoption-hub/internal/ports/directions"
)

const baseURL = "https://www.google.com/maps/dir/"

// Launcher arma URLs de "cómo llegar" de Google Maps.
type Launcher struct{}

func New() Launcher { return Launcher{} }

func (Launcher) URL(p *directions.Point) (string, error) {
	if p == nil {
		return "", directions.ErrLocationUnavailable
	}
	if !valid(p.Latitude, 90) || !valid(p.Longitude, 180) {
		return "", fmt.Errorf("%w: coordinates out of range", directions.ErrLocationUnavailable)
	}

	return baseURL + "?api=1&destination=" + format(p.Latitude) + "," + format(p.Longitude), nil
}

func valid(v, limit float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && math.Abs(v) <= limit
}

func format(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
