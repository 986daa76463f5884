package api

import (
	"errors"
	"net/http"

	"github.com/eviterin/thegate/internal/authority"
	"github.com/eviterin/thegate/internal/constants"
	"github.com/eviterin/thegate/internal/game"
	"github.com/eviterin/thegate/internal/logging"
	"github.com/eviterin/thegate/internal/service"

	"github.com/gin-gonic/gin"
)

type CardPlaysPayload struct {
	Plays []game.Play `json:"plays"`
}

// SubmitCardPlays stores a batch of plays as one pending transaction. The
// response carries the handle to poll; validation happens when the block is
// produced.
func (h *GameHandler) SubmitCardPlays(c *gin.Context) {
	id, ok := playerID(c)
	if !ok {
		return
	}
	var req CardPlaysPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	handle, err := h.svc.SubmitCardPlays(c.Request.Context(), id, req.Plays)
	h.respondSubmitted(c, id, handle, err)
}

// SubmitEndTurn stores an end-turn request as a pending transaction.
func (h *GameHandler) SubmitEndTurn(c *gin.Context) {
	id, ok := playerID(c)
	if !ok {
		return
	}
	handle, err := h.svc.SubmitEndTurn(c.Request.Context(), id)
	h.respondSubmitted(c, id, handle, err)
}

func (h *GameHandler) respondSubmitted(c *gin.Context, id string, handle authority.TxHandle, err error) {
	switch {
	case err == nil:
		c.JSON(http.StatusAccepted, handle)
	case errors.Is(err, authority.ErrNoEncounter):
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrEncounterNotFound})
	case errors.Is(err, service.ErrEmptyBatch):
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrEmptyBatch})
	default:
		logging.Error("failed to store transaction", err, logging.Fields{constants.LogFieldPlayerID: id})
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedStoreTransaction})
	}
}

// GetTransaction returns the receipt of a transaction. Pending transactions
// are returned with status "pending" and no snapshot.
func (h *GameHandler) GetTransaction(c *gin.Context) {
	txID := c.Param(constants.ParamTxID)
	rc, err := h.svc.GetTransaction(c.Request.Context(), txID)
	if errors.Is(err, authority.ErrUnknownTransaction) {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrTransactionNotFound})
		return
	}
	if err != nil {
		logging.Error("failed to fetch transaction", err, logging.Fields{constants.LogFieldTxID: txID})
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchTransaction})
		return
	}
	c.Header(constants.CacheControlHeader, constants.CacheControlNoCache)
	c.JSON(http.StatusOK, rc)
}
