// Package authclient talks to a remote authority over its HTTP API.
package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/eviterin/thegate/internal/authority"
	"github.com/eviterin/thegate/internal/constants"
	"github.com/eviterin/thegate/internal/game"
)

var (
	ErrUnexpectedStatus    = errors.New("unexpected response status")
	ErrEncounterInProgress = errors.New("encounter already in progress")
)

const (
	defaultTimeout      = 15 * time.Second
	defaultPollInterval = 200 * time.Millisecond
)

// Client implements authority.Authority against the HTTP API.
type Client struct {
	baseURL      string
	http         *http.Client
	pollInterval time.Duration
}

var _ authority.Authority = (*Client)(nil)

// New returns a client for the authority at baseURL. Zero durations pick
// defaults; pollInterval paces AwaitConfirmation.
func New(baseURL string, timeout, pollInterval time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		http:         &http.Client{Timeout: timeout},
		pollInterval: pollInterval,
	}
}

type apiError struct {
	Error   string          `json:"error"`
	Details json.RawMessage `json:"details"`
}

// do sends a JSON request and decodes a 2xx body into out. Non-2xx
// responses are returned as *statusError.
func (c *Client) do(ctx context.Context, method, url string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	req.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		se := &statusError{Code: resp.StatusCode}
		if json.Unmarshal(raw, &se.body) != nil {
			se.body.Error = strings.TrimSpace(string(raw))
		}
		return se
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s: %w", method, url, err)
	}
	return nil
}

type statusError struct {
	Code int
	body apiError
}

func (e *statusError) Error() string {
	return fmt.Sprintf("%s: %d %s", ErrUnexpectedStatus, e.Code, e.body.Error)
}

func (e *statusError) Unwrap() error { return ErrUnexpectedStatus }

func isStatus(err error, code int) bool {
	var se *statusError
	return errors.As(err, &se) && se.Code == code
}

// GetState reads the player's authoritative snapshot.
func (c *Client) GetState(ctx context.Context, playerID string) (game.Snapshot, error) {
	var s game.Snapshot
	err := c.do(ctx, http.MethodGet, fmt.Sprintf(constants.PathPlayerStateFmt, c.baseURL, playerID), nil, &s)
	if isStatus(err, http.StatusNotFound) {
		return game.Snapshot{}, authority.ErrNoEncounter
	}
	return s, err
}

// StartEncounter asks the authority to deal a new encounter. When one is
// already running its snapshot is returned along with
// ErrEncounterInProgress.
func (c *Client) StartEncounter(ctx context.Context, playerID, key string, deck []int) (game.Snapshot, error) {
	var s game.Snapshot
	in := map[string]any{"encounter": key, "deck": deck}
	err := c.do(ctx, http.MethodPost, fmt.Sprintf(constants.PathEncountersFmt, c.baseURL, playerID), in, &s)
	var se *statusError
	if errors.As(err, &se) && se.Code == http.StatusConflict {
		if len(se.body.Details) > 0 {
			_ = json.Unmarshal(se.body.Details, &s)
		}
		return s, ErrEncounterInProgress
	}
	return s, err
}

// Encounters lists the encounters the authority offers.
func (c *Client) Encounters(ctx context.Context) ([]game.EncounterDefinition, error) {
	var out []game.EncounterDefinition
	err := c.do(ctx, http.MethodGet, fmt.Sprintf(constants.PathEncounterListFmt, c.baseURL), nil, &out)
	return out, err
}

func (c *Client) SubmitCardPlays(ctx context.Context, playerID string, plays []game.Play) (authority.TxHandle, error) {
	var h authority.TxHandle
	in := map[string]any{"plays": plays}
	err := c.do(ctx, http.MethodPost, fmt.Sprintf(constants.PathCardPlaysFmt, c.baseURL, playerID), in, &h)
	if isStatus(err, http.StatusNotFound) {
		return h, authority.ErrNoEncounter
	}
	return h, err
}

func (c *Client) SubmitEndTurn(ctx context.Context, playerID string) (authority.TxHandle, error) {
	var h authority.TxHandle
	err := c.do(ctx, http.MethodPost, fmt.Sprintf(constants.PathEndTurnFmt, c.baseURL, playerID), nil, &h)
	if isStatus(err, http.StatusNotFound) {
		return h, authority.ErrNoEncounter
	}
	return h, err
}

// Transaction reads the current receipt of a transaction.
func (c *Client) Transaction(ctx context.Context, txID string) (authority.Receipt, error) {
	var rc authority.Receipt
	err := c.do(ctx, http.MethodGet, fmt.Sprintf(constants.PathTransactionFmt, c.baseURL, txID), nil, &rc)
	if isStatus(err, http.StatusNotFound) {
		return rc, authority.ErrUnknownTransaction
	}
	return rc, err
}

// AwaitConfirmation polls the transaction until it settles or ctx ends.
func (c *Client) AwaitConfirmation(ctx context.Context, h authority.TxHandle) (authority.Receipt, error) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()
	for {
		rc, err := c.Transaction(ctx, h.TxID)
		if err != nil {
			if ctx.Err() != nil {
				return rc, ctx.Err()
			}
			return rc, err
		}
		switch rc.Status {
		case game.TxConfirmed:
			return rc, nil
		case game.TxReverted:
			return rc, fmt.Errorf("%w: %s", authority.ErrReverted, rc.Reason)
		}
		select {
		case <-ctx.Done():
			return rc, ctx.Err()
		case <-ticker.C:
		}
	}
}

// Catalog fetches the card table.
func (c *Client) Catalog(ctx context.Context) (game.Catalog, error) {
	var cards []game.CardDefinition
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf(constants.PathCatalogFmt, c.baseURL), nil, &cards); err != nil {
		return nil, err
	}
	return game.NewCatalog(cards), nil
}
