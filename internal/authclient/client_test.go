package authclient

import (
	"context"
	"errors"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eviterin/thegate/internal/api"
	"github.com/eviterin/thegate/internal/authority"
	"github.com/eviterin/thegate/internal/config"
	"github.com/eviterin/thegate/internal/game"
	"github.com/eviterin/thegate/internal/notify"
	"github.com/eviterin/thegate/internal/service"
	"github.com/eviterin/thegate/internal/storage"
)

type testAuthority struct {
	svc *service.Authority
	hub *notify.Hub
	url string
}

func startAuthority(t *testing.T) *testAuthority {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := storage.OpenAndMigrate(filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	hub := notify.NewHub()
	svc, err := service.New(storage.NewSQLiteRepository(db), config.Defaults(), service.Options{Seed: 11, Notifier: hub})
	require.NoError(t, err)
	srv := httptest.NewServer(api.NewRouter(api.NewGameHandler(svc, hub)))
	t.Cleanup(srv.Close)
	return &testAuthority{svc: svc, hub: hub, url: srv.URL}
}

func TestClient_StartAndRead(t *testing.T) {
	ta := startAuthority(t)
	c := New(ta.url, time.Second, 5*time.Millisecond)
	ctx := context.Background()

	_, err := c.GetState(ctx, "p1")
	assert.ErrorIs(t, err, authority.ErrNoEncounter)

	started, err := c.StartEncounter(ctx, "p1", "warband", nil)
	require.NoError(t, err)
	assert.Equal(t, 3, started.EnemyCount())

	again, err := c.StartEncounter(ctx, "p1", "gate", nil)
	assert.ErrorIs(t, err, ErrEncounterInProgress)
	assert.True(t, again.Equal(started))

	s, err := c.GetState(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, s.Equal(started))

	cat, err := c.Catalog(ctx)
	require.NoError(t, err)
	def, known := cat.Lookup(game.CardPreach)
	assert.True(t, known)
	assert.Equal(t, game.EffectDamageAll, def.Effect)

	encs, err := c.Encounters(ctx)
	require.NoError(t, err)
	assert.Len(t, encs, 3)

	_, err = c.StartEncounter(ctx, "p2", "moon", nil)
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
}

func TestClient_SubmitAndAwait(t *testing.T) {
	ta := startAuthority(t)
	c := New(ta.url, time.Second, 5*time.Millisecond)
	ctx := context.Background()
	_, err := c.StartEncounter(ctx, "p1", "gate", nil)
	require.NoError(t, err)

	h, err := c.SubmitEndTurn(ctx, "p1")
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		time.Sleep(20 * time.Millisecond)
		ta.svc.ProduceBlock(context.Background())
	}()
	rc, err := c.AwaitConfirmation(ctx, h)
	require.NoError(t, err)
	<-done
	assert.Equal(t, game.TxConfirmed, rc.Status)
	require.NotNil(t, rc.Snapshot)
	assert.Equal(t, 2, rc.Snapshot.Turn)

	// Slot 9 does not exist in a five-card hand.
	h, err = c.SubmitCardPlays(ctx, "p1", []game.Play{{CardIndex: 9}})
	require.NoError(t, err)
	ta.svc.ProduceBlock(ctx)
	rc, err = c.AwaitConfirmation(ctx, h)
	assert.ErrorIs(t, err, authority.ErrReverted)
	assert.Equal(t, game.TxReverted, rc.Status)

	_, err = c.AwaitConfirmation(ctx, authority.TxHandle{TxID: "missing"})
	assert.ErrorIs(t, err, authority.ErrUnknownTransaction)

	_, err = c.SubmitEndTurn(ctx, "nobody")
	assert.ErrorIs(t, err, authority.ErrNoEncounter)
}

func TestClient_AwaitHonoursContext(t *testing.T) {
	ta := startAuthority(t)
	c := New(ta.url, time.Second, 5*time.Millisecond)
	_, err := c.StartEncounter(context.Background(), "p1", "gate", nil)
	require.NoError(t, err)
	h, err := c.SubmitEndTurn(context.Background(), "p1")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, err = c.AwaitConfirmation(ctx, h)
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "got %v", err)
}

func TestClient_SubscribeNudges(t *testing.T) {
	ta := startAuthority(t)
	c := New(ta.url, time.Second, 5*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	_, err := c.StartEncounter(ctx, "p1", "gate", nil)
	require.NoError(t, err)

	nudges, err := c.Subscribe(ctx, "p1")
	require.NoError(t, err)
	require.Eventually(t, func() bool { return ta.hub.Subscribers("p1") == 1 }, time.Second, 5*time.Millisecond)

	_, err = c.SubmitEndTurn(ctx, "p1")
	require.NoError(t, err)
	ta.svc.ProduceBlock(ctx)

	select {
	case _, ok := <-nudges:
		assert.True(t, ok)
	case <-time.After(time.Second):
		t.Fatal("expected a nudge after the block")
	}

	cancel()
	select {
	case _, ok := <-nudges:
		for ok {
			_, ok = <-nudges
		}
	case <-time.After(time.Second):
		t.Fatal("expected the nudge channel to close")
	}
}
