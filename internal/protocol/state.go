package protocol

import "time"

// TurnState is the protocol's turn-state machine:
//
//	Player --commit--> Committing --confirmed--> Player
//	Player --end turn--> Transitioning --confirmed--> Enemy --animated--> Player
//
// Only Player accepts staging and new commits.
type TurnState int

const (
	TurnPlayer TurnState = iota
	TurnCommitting
	TurnTransitioning
	TurnEnemy
)

func (s TurnState) String() string {
	switch s {
	case TurnPlayer:
		return "player"
	case TurnCommitting:
		return "committing"
	case TurnTransitioning:
		return "transitioning"
	case TurnEnemy:
		return "enemy"
	}
	return "unknown"
}

// Config holds the protocol timings. Zero delays disable animation pacing.
type Config struct {
	// CardDelay is the pause between two animated card steps.
	CardDelay time.Duration
	// EnemyDelay is the pause between two animated enemy actions.
	EnemyDelay time.Duration
	// ConfirmTimeout bounds the wait for the submission and its confirmation.
	ConfirmTimeout time.Duration
	// RetryCount bounds the poll-until-stable loop after confirmation.
	RetryCount int
	RetryDelay time.Duration
	// AutoEndTurn ends the turn after every successful commit.
	AutoEndTurn bool
}

// DefaultConfig returns the timings used by the bot client.
func DefaultConfig() Config {
	return Config{
		CardDelay:      600 * time.Millisecond,
		EnemyDelay:     800 * time.Millisecond,
		ConfirmTimeout: 30 * time.Second,
		RetryCount:     5,
		RetryDelay:     500 * time.Millisecond,
		AutoEndTurn:    true,
	}
}
