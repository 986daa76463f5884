package api

import (
	"context"
	"net/http"

	"github.com/eviterin/thegate/internal/authority"
	"github.com/eviterin/thegate/internal/game"
)

// Service is the authority surface the handlers expose over HTTP.
type Service interface {
	StartEncounter(ctx context.Context, playerID, key string, deck []int) (game.Snapshot, error)
	Encounters() []game.EncounterDefinition
	GetState(ctx context.Context, playerID string) (game.Snapshot, error)
	SubmitCardPlays(ctx context.Context, playerID string, plays []game.Play) (authority.TxHandle, error)
	SubmitEndTurn(ctx context.Context, playerID string) (authority.TxHandle, error)
	GetTransaction(ctx context.Context, txID string) (authority.Receipt, error)
	Catalog(ctx context.Context) (game.Catalog, error)
}

// Subscriptions streams receipts to a connected player.
type Subscriptions interface {
	Serve(w http.ResponseWriter, r *http.Request, playerID string) error
}

// GameHandler groups all encounter-related HTTP handlers.
type GameHandler struct {
	svc  Service
	subs Subscriptions
}

// NewGameHandler creates a new GameHandler. subs may be nil, in which case
// the events endpoint is not routed.
func NewGameHandler(svc Service, subs Subscriptions) *GameHandler {
	return &GameHandler{svc: svc, subs: subs}
}
