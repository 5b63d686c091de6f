// Package store define los errores comunes que todo adapter de record store
// debe devolver, para que los servicios no dependan del driver concreto.
package store

import "errors"

var (
	ErrNotFound = errors.New("store: not found")

	// ErrConditionFailed: el write condicional no aplicó porque el valor
	// actual no coincide con el esperado (carrera perdida).
	ErrConditionFailed = errors.New("store: condition failed")

	// ErrConflict: el write viola una restricción de unicidad.
	ErrConflict = errors.New("store: conflict")

	// ErrUnavailable: falla transitoria de infraestructura.
	ErrUnavailable = errors.New("store: unavailable")
)
