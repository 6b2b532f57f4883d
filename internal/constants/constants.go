package constants

// Centralized constants for env keys, routes, response keys and messages.
const (
	// Environment variable keys
	EnvConfigPath          = "FIGHTCASTER_CONFIG"
	EnvDBPath              = "FIGHTCASTER_DB"
	EnvStorageDriver       = "FIGHTCASTER_STORAGE"
	EnvServerAddress       = "FIGHTCASTER_ADDR"
	EnvSessionSecret       = "SESSION_SECRET"
	EnvSessionSecureCookie = "SESSION_SECURE_COOKIE"
	EnvOAuthClientID       = "OAUTH_CLIENT_ID"
	EnvOAuthClientSecret   = "OAUTH_CLIENT_SECRET"
	EnvOAuthAuthURL        = "OAUTH_AUTH_URL"
	EnvOAuthTokenURL       = "OAUTH_TOKEN_URL"
	EnvOAuthUserInfoURL    = "OAUTH_USERINFO_URL"
	EnvOAuthRedirectURL    = "OAUTH_REDIRECT_URL"
	EnvDevLogin            = "FIGHTCASTER_DEV_LOGIN"
	EnvOTLPEndpoint        = "OTEL_EXPORTER_OTLP_ENDPOINT"
	EnvLogLevel            = "FIGHTCASTER_LOG_LEVEL"

	DefaultConfigPath = "./fightcaster_config.json"
	DefaultDBPath     = "./data/fightcaster.db"

	StorageSQLite = "sqlite"
	StorageMemory = "memory"

	ServiceName = "fightcaster"

	// HTTP headers
	HeaderRequestID = "X-Request-ID"

	CacheControlHeader  = "Cache-Control"
	CacheControlNoCache = "no-cache, no-store, must-revalidate"

	// Session / Cookie names
	CookieSessionName = "fc_session"

	// Context keys set by the auth middleware
	ContextUserID   = "userID"
	ContextUsername = "username"
	ContextReqID    = "requestID"
)

// Routes used by the backend router
const (
	RouteAPIPrefix         = "/api"
	RouteHealth            = "/healthz"
	RouteVersion           = "/version"
	RouteAuthLogin         = "/auth/login"
	RouteAuthOAuthCallback = "/auth/oauth2/callback"
	RouteAuthMe            = "/auth/me"
	RouteAuthLogout        = "/auth/logout"
	RouteCharacters        = "/characters"
	RouteCharacterByID     = "/characters/:id"
	RouteBattles           = "/battles"
	RouteBattleByID        = "/battles/:id"
	RouteBattleAction      = "/battles/:id/action"
	RouteBattleUpdates     = "/battles/:id/updates"
	RouteBattleSocket      = "/battles/:id/ws"
	RouteBattleResult      = "/battles/:id/result"
	RouteRecentBattles     = "/battles/user/recent"
	RouteChallenges        = "/challenges"
	RouteChallengeAccept   = "/challenges/:id/accept"
	RouteChallengeReject   = "/challenges/:id/reject"
	RouteUserSearch        = "/users/search"
	RouteLeaderboard       = "/leaderboard"
	RouteRecentPlayers     = "/players/recent"
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
	ErrInvalidRequest        = "Invalid request"
	ErrInvalidBattleID       = "Invalid battle ID"
	ErrInvalidChallengeID    = "Invalid challenge ID"
	ErrInvalidCharacterID    = "Invalid character ID"
	ErrBattleNotFound        = "Battle not found"
	ErrChallengeNotFound     = "Challenge not found"
	ErrCharacterNotFound     = "Character not found"
	ErrUserNotFound          = "User not found"
	ErrNotYourTurn           = "Not your turn"
	ErrNotParticipant        = "You are not a participant in this battle"
	ErrBattleCompleted       = "Battle is already completed"
	ErrFailedResolveAction   = "Failed to resolve action"
	ErrFailedFetchCharacters = "Failed to fetch characters"
	ErrFailedFetchBattle     = "Failed to fetch battle"
	ErrFailedFetchBattles    = "Failed to fetch battles"
	ErrFailedCreateBattle    = "Failed to create battle"
	ErrFailedCreateChallenge = "Failed to create challenge"
	ErrFailedFetchChallenges = "Failed to fetch challenges"
	ErrFailedUpdateChallenge = "Failed to update challenge"
	ErrFailedFetchUsers      = "Failed to fetch users"
	ErrFailedFetchResult     = "Failed to fetch battle result"
	ErrQueryRequired         = "query parameter is required"
	ErrFIDRequired           = "fid is required"
	ErrDevLoginDisabled      = "Direct login is disabled"
	ErrMissingOAuthEnv       = "OAuth client is not configured"

	ErrFailedExchangeToken = "Failed to exchange token"
	ErrFailedGetUserInfo   = "Failed to get user info"
	ErrFailedReadUserData  = "Failed to read user data: %s"
	ErrNoIDInProfile       = "No user id in identity profile"
	ErrFailedCreateSession = "Failed to create session"
	ErrFailedLogin         = "Failed to log in"

	ErrAuthRequired   = "Authentication required"
	ErrInvalidSession = "Invalid session"
)

// Logging field names
const (
	LogFieldBattleID    = "battle_id"
	LogFieldChallengeID = "challenge_id"
	LogFieldUserID      = "user_id"
	LogFieldRequestID   = "request_id"
	LogFieldMethod      = "method"
	LogFieldPath        = "path"
	LogFieldStatus      = "status"
	LogFieldLatencyMS   = "latency_ms"
	LogFieldAddr        = "addr"
	LogFieldDriver      = "driver"
	LogFieldCount       = "count"
)
