package authclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/eviterin/thegate/internal/authority"
	"github.com/eviterin/thegate/internal/constants"
	"github.com/eviterin/thegate/internal/logging"
)

// Subscribe opens the player's receipt stream. Every receipt becomes a nudge
// on the returned channel; nudges coalesce when the reader is busy. The
// channel is closed when ctx ends or the connection drops.
func (c *Client) Subscribe(ctx context.Context, playerID string) (<-chan struct{}, error) {
	url := fmt.Sprintf(constants.PathEventsFmt, c.baseURL, playerID)
	switch {
	case strings.HasPrefix(url, "https://"):
		url = "wss://" + strings.TrimPrefix(url, "https://")
	case strings.HasPrefix(url, "http://"):
		url = "ws://" + strings.TrimPrefix(url, "http://")
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}

	nudges := make(chan struct{}, 1)
	go func() {
		<-ctx.Done()
		conn.Close()
	}()
	go func() {
		defer close(nudges)
		defer conn.Close()
		for {
			var rc authority.Receipt
			if err := conn.ReadJSON(&rc); err != nil {
				if ctx.Err() == nil {
					logging.Warn("receipt stream closed", logging.Fields{constants.LogFieldPlayerID: playerID, constants.LogFieldURL: url})
				}
				return
			}
			logging.Debug("receipt received", logging.Fields{constants.LogFieldTxID: rc.TxID, constants.LogFieldStatus: rc.Status})
			select {
			case nudges <- struct{}{}:
			default:
			}
		}
	}()
	return nudges, nil
}
