package constants

// Centralized constants for headers, routes, response keys and log fields.
const (
	// HTTP headers and content types
	HeaderContentType = "Content-Type"

	ContentTypeJSON = "application/json"

	CacheControlHeader  = "Cache-Control"
	CacheControlNoCache = "no-cache, no-store, must-revalidate"
)

// Routes used by the backend router
const (
	RouteAPIPrefix     = "/api"
	RouteVersion       = "/version"
	RouteCatalog       = "/catalog"
	RouteEncounterList = "/encounters"
	RouteEncounters    = "/players/:playerID/encounters"
	RoutePlayerState   = "/players/:playerID/state"
	RouteCardPlays     = "/players/:playerID/card-plays"
	RouteEndTurn       = "/players/:playerID/end-turn"
	RoutePlayerEvents  = "/players/:playerID/events"
	RouteTransaction   = "/transactions/:txID"

	// Path parameter names
	ParamPlayerID = "playerID"
	ParamTxID     = "txID"
)

// Client-side path formats matching the routes above.
const (
	PathCatalogFmt       = "%s/api/catalog"
	PathEncounterListFmt = "%s/api/encounters"
	PathEncountersFmt    = "%s/api/players/%s/encounters"
	PathPlayerStateFmt   = "%s/api/players/%s/state"
	PathCardPlaysFmt     = "%s/api/players/%s/card-plays"
	PathEndTurnFmt       = "%s/api/players/%s/end-turn"
	PathEventsFmt        = "%s/api/players/%s/events"
	PathTransactionFmt   = "%s/api/transactions/%s"
	PathVersionFmt       = "%s/api/version"
)

// Common JSON response keys
const (
	JSONKeyError   = "error"
	JSONKeyMessage = "message"
	JSONKeyDetails = "details"
	JSONKeyStatus  = "status"
)

// Common error messages used across API handlers
const (
	ErrInvalidRequest          = "Invalid request"
	ErrInvalidPlayerID         = "Invalid player ID"
	ErrEncounterNotFound       = "Encounter not found"
	ErrUnknownEncounter        = "Unknown encounter"
	ErrInvalidDeck             = "Invalid deck"
	ErrEncounterInProgress     = "Encounter already in progress"
	ErrEncounterNotInProgress  = "Encounter is not in progress"
	ErrTransactionNotFound     = "Transaction not found"
	ErrFailedFetchState        = "Failed to fetch state"
	ErrFailedStartEncounter    = "Failed to start encounter"
	ErrFailedStoreTransaction  = "Failed to store transaction"
	ErrFailedFetchTransaction  = "Failed to fetch transaction"
	ErrFailedUpgradeConnection = "Failed to upgrade connection"
	ErrFailedFetchCatalog      = "Failed to fetch catalog"
	ErrEmptyBatch              = "Batch has no plays"
)

// Logging field names
const (
	LogFieldPlayerID  = "player_id"
	LogFieldTxID      = "tx_id"
	LogFieldKind      = "kind"
	LogFieldStatus    = "status"
	LogFieldReason    = "reason"
	LogFieldBlock     = "block"
	LogFieldTurn      = "turn"
	LogFieldEncounter = "encounter"
	LogFieldState     = "state"
	LogFieldCardID    = "card_id"
	LogFieldCardIndex = "card_index"
	LogFieldTarget    = "target"
	LogFieldEnemy     = "enemy"
	LogFieldIntent    = "intent"
	LogFieldEvent     = "event"
	LogFieldAttempts  = "attempts"
	LogFieldCount     = "count"
	LogFieldSource    = "source"
	LogFieldName      = "name"
	LogFieldKey       = "key"
	LogFieldAddr      = "addr"
	LogFieldURL       = "url"
)
