package models

import "time"

// Record key prefixes. Cache entries and queue items for a given domain
// record share the same key.
const (
	KeyPrefixPet     = "pet:"
	KeyPrefixHealth  = "health:"
	KeyPrefixLostPet = "lostpet:"
)

func PetKey(id string) string     { return KeyPrefixPet + id }
func HealthKey(id string) string  { return KeyPrefixHealth + id }
func LostPetKey(id string) string { return KeyPrefixLostPet + id }

// Pet is the core companion-animal record.
type Pet struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Species   string     `json:"species"`
	Breed     string     `json:"breed,omitempty"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	PhotoURL  string     `json:"photo_url,omitempty"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// HealthRecord is a single health event (vaccination, weight, vet visit) for
// a pet.
type HealthRecord struct {
	ID         string    `json:"id"`
	PetID      string    `json:"pet_id"`
	Kind       string    `json:"kind"`
	Notes      string    `json:"notes,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// LostPetReport is a critical record: it must never be silently dropped on a
// failed network call and is always queued for retry.
type LostPetReport struct {
	ID           string    `json:"id"`
	PetID        string    `json:"pet_id"`
	LastSeenAt   time.Time `json:"last_seen_at"`
	LastSeenLat  float64   `json:"last_seen_lat"`
	LastSeenLng  float64   `json:"last_seen_lng"`
	ContactPhone string    `json:"contact_phone"`
	Description  string    `json:"description,omitempty"`
	Resolved     bool      `json:"resolved"`
	UpdatedAt    time.Time `json:"updated_at"`
}
