package users

import "strings"

// Role del usuario. Los valores son los persistidos.
// @Enum User, Doctor
type Role string

const (
	RoleSeeker         Role = "User"
	RoleMedicalContact Role = "Doctor"
)

// ParseRole acepta "User"/"Doctor" sin importar mayúsculas.
func ParseRole(s string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "user", "seeker":
		return RoleSeeker, true
	case "doctor", "medicalcontact", "medical_contact":
		return RoleMedicalContact, true
	default:
		return "", false
	}
}

// ClaimSet identifica a cuál de los dos sets va un animal.
type ClaimSet string

const (
	SetAdopted ClaimSet = "adoptedAnimals"
	SetHelped  ClaimSet = "helpedAnimals"
)

func (s ClaimSet) Valid() bool {
	return s == SetAdopted || s == SetHelped
}

// User es el documento de la colección "users".
type User struct {
	UID    string `json:"uid"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	City   string `json:"city"`
	Mobile string `json:"mobile"`
	Role   Role   `json:"role"`

	// ShowInList solo tiene sentido para Doctor. Default true.
	ShowInList bool `json:"showInList"`

	AdoptedAnimals []string `json:"adoptedAnimals"`
	HelpedAnimals  []string `json:"helpedAnimals"`
}

// Has indica si el animal ya está en alguno de los sets del usuario.
func (u User) Has(animalID string) (ClaimSet, bool) {
	for _, id := range u.AdoptedAnimals {
		if id == animalID {
			return SetAdopted, true
		}
	}
	for _, id := range u.HelpedAnimals {
		if id == animalID {
			return SetHelped, true
		}
	}
	return "", false
}

// Listed indica si el usuario entra al directorio de veterinarios.
func (u User) Listed() bool {
	return u.Role == RoleMedicalContact && u.ShowInList
}
