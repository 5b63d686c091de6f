package animals

import (
	"strings"
	"time"
)

// Purpose indica para qué se publica el animal.
// @Enum Adopt, Help
type Purpose string

const (
	PurposeAdopt Purpose = "Adopt"
	PurposeHelp  Purpose = "Help"
)

// ParsePurpose acepta solo los valores persistidos ("Adopt", "Help").
// Tolera espacios y mayúsculas/minúsculas, nada más.
func ParsePurpose(s string) (Purpose, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "adopt":
		return PurposeAdopt, true
	case "help":
		return PurposeHelp, true
	default:
		return "", false
	}
}

// Geo es la ubicación capturada al publicar. Puede no existir.
type Geo struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Animal es el documento de la colección "animals".
// Los nombres JSON son los del esquema ya persistido; no cambiarlos.
type Animal struct {
	ID string `json:"id"`

	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Purpose  Purpose `json:"purpose"`
	City     string  `json:"city"`
	Address  string  `json:"address"`
	ImageURL string  `json:"imageUrl"`

	Location *Geo `json:"location"`

	// IsAvailable pasa de true a false una sola vez (claim). Nunca vuelve.
	IsAvailable bool `json:"isAvailable"`
	// ClaimedBy es el uid dueño del claim; vacío mientras está disponible.
	ClaimedBy string `json:"claimedBy,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// Draft son los datos de alta; el resto lo asigna Create.
type Draft struct {
	Name     string
	Type     string
	Purpose  string
	City     string
	Address  string
	ImageURL string
	Location *Geo
}
