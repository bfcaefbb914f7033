package models

import "time"

// Resident maps the read-only columns this core needs from the residents table.
type Resident struct {
	ResidentID string
	FirstName  string
	MiddleName *string
	LastName   string
	Suffix     *string
	BirthDate  time.Time
	IsActive   bool
}
