package domain

import "github.com/google/uuid"

// generateID creates a unique identifier for journal entries.
func generateID() string {
	return uuid.NewString()
}
