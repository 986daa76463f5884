package api

import (
	"github.com/eviterin/thegate/internal/constants"
	"github.com/gin-gonic/gin"
)

// NewRouter wires every endpoint under the API prefix.
func NewRouter(h *GameHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	apiRoutes := router.Group(constants.RouteAPIPrefix)
	{
		apiRoutes.GET(constants.RouteVersion, Version)
		apiRoutes.GET(constants.RouteCatalog, h.ListCatalog)
		apiRoutes.GET(constants.RouteEncounterList, h.ListEncounters)

		apiRoutes.POST(constants.RouteEncounters, h.StartEncounter)
		apiRoutes.GET(constants.RoutePlayerState, h.GetState)
		apiRoutes.POST(constants.RouteCardPlays, h.SubmitCardPlays)
		apiRoutes.POST(constants.RouteEndTurn, h.SubmitEndTurn)
		apiRoutes.GET(constants.RouteTransaction, h.GetTransaction)
		if h.subs != nil {
			apiRoutes.GET(constants.RoutePlayerEvents, h.Events)
		}
	}
	return router
}
