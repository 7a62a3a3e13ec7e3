package models

import "github.com/google/uuid"

// newID returns a string primary key. All tenant data uses UUIDs so ids can
// be printed into QR codes without leaking row counts.
func newID() string {
	return uuid.NewString()
}
