package api

import (
	"errors"
	"net/http"

	"github.com/eviterin/thegate/internal/authority"
	"github.com/eviterin/thegate/internal/config"
	"github.com/eviterin/thegate/internal/constants"
	"github.com/eviterin/thegate/internal/keys"
	"github.com/eviterin/thegate/internal/logging"
	"github.com/eviterin/thegate/internal/service"

	"github.com/gin-gonic/gin"
)

type StartEncounterPayload struct {
	Encounter string `json:"encounter"`
	Deck      []int  `json:"deck"`
}

// playerID reads and validates the player path parameter. It writes the
// error response itself and reports whether the handler may continue.
func playerID(c *gin.Context) (string, bool) {
	id := c.Param(constants.ParamPlayerID)
	if !keys.ValidPlayerID(id) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidPlayerID})
		return "", false
	}
	return id, true
}

// ListEncounters returns the encounters a player can start.
func (h *GameHandler) ListEncounters(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Encounters())
}

// ListCatalog returns the card catalog ordered by id.
func (h *GameHandler) ListCatalog(c *gin.Context) {
	cat, err := h.svc.Catalog(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchCatalog})
		return
	}
	c.Header(constants.CacheControlHeader, constants.CacheControlNoCache)
	c.JSON(http.StatusOK, cat.Cards())
}

// StartEncounter deals a new encounter to the player. A player whose
// encounter is still running gets 409 together with the current snapshot.
func (h *GameHandler) StartEncounter(c *gin.Context) {
	id, ok := playerID(c)
	if !ok {
		return
	}
	var req StartEncounterPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	s, err := h.svc.StartEncounter(c.Request.Context(), id, req.Encounter, req.Deck)
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, s)
	case errors.Is(err, service.ErrEncounterInProgress):
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrEncounterInProgress, constants.JSONKeyDetails: s})
	case errors.Is(err, service.ErrUnknownEncounter):
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrUnknownEncounter})
	case errors.Is(err, config.ErrInvalidDeck):
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidDeck, constants.JSONKeyDetails: err.Error()})
	case errors.Is(err, service.ErrInvalidPlayerID):
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidPlayerID})
	default:
		logging.Error("failed to start encounter", err, logging.Fields{constants.LogFieldPlayerID: id})
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedStartEncounter})
	}
}

// GetState returns the player's authoritative snapshot.
func (h *GameHandler) GetState(c *gin.Context) {
	id, ok := playerID(c)
	if !ok {
		return
	}
	s, err := h.svc.GetState(c.Request.Context(), id)
	if errors.Is(err, authority.ErrNoEncounter) {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrEncounterNotFound})
		return
	}
	if err != nil {
		logging.Error("failed to fetch state", err, logging.Fields{constants.LogFieldPlayerID: id})
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchState})
		return
	}
	c.Header(constants.CacheControlHeader, constants.CacheControlNoCache)
	c.JSON(http.StatusOK, s)
}

// Events upgrades to a websocket that streams the player's receipts.
func (h *GameHandler) Events(c *gin.Context) {
	id, ok := playerID(c)
	if !ok {
		return
	}
	if err := h.subs.Serve(c.Writer, c.Request, id); err != nil {
		// The upgrader has already written the HTTP error.
		logging.Error(constants.ErrFailedUpgradeConnection, err, logging.Fields{constants.LogFieldPlayerID: id})
	}
}
