// Package gamestate provides repository interface and types for combat
// session storage
package gamestate

import (
	"context"
	"time"

	"github.com/KirkDiggler/adnd-engine/internal/entities"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=gamestatemock github.com/KirkDiggler/adnd-engine/internal/repositories/gamestate Repository

// CombatSession is the durable state of one running combat: every
// participant plus the round counter
type CombatSession struct {
	// Unique session identifier
	SessionID string

	// Participants, keyed into the resolution context by their entity ids
	Characters []*entities.Character
	Monsters   []*entities.Monster
	Mounts     []*entities.Mount

	// Round counts completed combat rounds; 0 until the first round resolves
	Round int

	// When this session was created
	CreatedAt time.Time

	// When this session expires
	ExpiresAt time.Time
}

// CreateInput contains parameters for creating a combat session
type CreateInput struct {
	SessionID  string
	Characters []*entities.Character
	Monsters   []*entities.Monster
	Mounts     []*entities.Mount
	TTL        time.Duration // How long the session should live
}

// CreateOutput contains the result of creating a combat session
type CreateOutput struct {
	Session *CombatSession
}

// GetInput contains parameters for retrieving a combat session
type GetInput struct {
	SessionID string
}

// GetOutput contains the result of retrieving a combat session
type GetOutput struct {
	Session *CombatSession
}

// DeleteInput contains parameters for deleting a combat session
type DeleteInput struct {
	SessionID string
}

// DeleteOutput contains the result of deleting a combat session
type DeleteOutput struct {
	Deleted bool
}

// Repository defines the interface for combat session storage operations
type Repository interface {
	// Create stores a new combat session with the specified TTL
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves a combat session by id
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Delete removes a combat session
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)

	// Update replaces an existing combat session (used after resolution)
	Update(ctx context.Context, session *CombatSession) error
}
