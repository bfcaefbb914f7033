package domain

import "time"

// Resident is a read-only projection of the resident registry. The issuance
// core never writes residents; it only resolves IDs to display names.
type Resident struct {
	ResidentID string    `json:"residentID"`
	FirstName  string    `json:"firstName"`
	MiddleName *string   `json:"middleName,omitempty"`
	LastName   string    `json:"lastName"`
	Suffix     *string   `json:"suffix,omitempty"`
	BirthDate  time.Time `json:"birthDate"`
	IsActive   bool      `json:"isActive"`
}

// DisplayName renders the name printed on certificates.
func (r *Resident) DisplayName() string {
	name := r.FirstName
	if r.MiddleName != nil && *r.MiddleName != "" {
		name += " " + *r.MiddleName
	}
	name += " " + r.LastName
	if r.Suffix != nil && *r.Suffix != "" {
		name += " " + *r.Suffix
	}
	return name
}
