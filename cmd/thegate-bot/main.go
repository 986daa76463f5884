package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/eviterin/thegate/internal/agent"
	"github.com/eviterin/thegate/internal/authclient"
	"github.com/eviterin/thegate/internal/config"
	"github.com/eviterin/thegate/internal/constants"
	"github.com/eviterin/thegate/internal/logging"
	"github.com/eviterin/thegate/internal/mirror"
	"github.com/eviterin/thegate/internal/protocol"
	"github.com/eviterin/thegate/internal/version"
)

func main() {
	var env config.ClientEnv
	if err := config.ParseEnv(&env); err != nil {
		logging.Fatal("Invalid environment", err, nil)
	}
	logging.Configure(env.LogLevel, env.LogFormat)
	fields := logging.Fields{constants.LogFieldPlayerID: env.PlayerID, constants.LogFieldURL: env.AuthorityURL}
	logging.Info("thegate bot", logging.Fields{"version": version.String()})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := authclient.New(env.AuthorityURL, 0, 0)
	s, err := client.StartEncounter(ctx, env.PlayerID, env.Encounter, nil)
	switch {
	case errors.Is(err, authclient.ErrEncounterInProgress):
		logging.Info("resuming encounter", logging.Fields{constants.LogFieldPlayerID: env.PlayerID, constants.LogFieldTurn: s.Turn})
	case err != nil:
		logging.Fatal("Failed to start encounter", err, fields)
	default:
		logging.Info("encounter started", logging.Fields{constants.LogFieldPlayerID: env.PlayerID, constants.LogFieldEncounter: env.Encounter})
	}

	catalog, err := client.Catalog(ctx)
	if err != nil {
		logging.Fatal("Failed to fetch catalog", err, fields)
	}

	m := mirror.New(client, env.PlayerID, env.PollInterval)
	nudges, err := client.Subscribe(ctx, env.PlayerID)
	if err != nil {
		// Polling alone still converges, only slower.
		logging.Warn("receipt stream unavailable, polling only", fields)
	}
	go m.Run(ctx, nudges)

	cfg := protocol.Config{
		CardDelay:      env.CardDelay,
		EnemyDelay:     env.EnemyDelay,
		ConfirmTimeout: env.ConfirmTimeout,
		RetryCount:     env.RetryCount,
		RetryDelay:     env.RetryDelay,
		AutoEndTurn:    env.AutoEndTurn,
	}
	p := protocol.New(client, m, catalog, env.PlayerID, cfg, protocol.LogSink{PlayerID: env.PlayerID})

	r := &agent.Runner{Table: p, State: m, PlayerID: env.PlayerID, MaxTurns: env.MaxTurns}
	final, err := r.Run(ctx)
	if err != nil {
		logging.Fatal("Bot stopped", err, fields)
	}
	logging.Info("bot finished", logging.Fields{constants.LogFieldPlayerID: env.PlayerID, constants.LogFieldStatus: final.Status, constants.LogFieldTurn: final.Turn})
}
