package models

import "github.com/google/uuid"

// NewID returns a client-generated identifier for drafts submitted without
// one. The server accepts either side as the id source.
func NewID() string {
	return uuid.NewString()
}
