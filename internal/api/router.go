package api

import (
	"github.com/gin-gonic/gin"

	"github.com/lyfstyl-ux/fightcaster/internal/constants"
)

// NewRouter mounts every endpoint under /api. Reads of the catalog, battles
// and the leaderboard are public; everything that acts as a user needs a
// session.
func NewRouter(auth *AuthHandler, game *GameHandler, sessions *Sessions) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger())

	api := r.Group(constants.RouteAPIPrefix)
	api.GET(constants.RouteHealth, Health)
	api.GET(constants.RouteVersion, Version)
	api.POST(constants.RouteAuthLogin, auth.Login)
	api.POST(constants.RouteAuthOAuthCallback, auth.OAuth2Callback)
	api.POST(constants.RouteAuthLogout, auth.Logout)
	api.GET(constants.RouteCharacters, game.ListCharacters)
	api.GET(constants.RouteCharacterByID, game.GetCharacter)
	api.GET(constants.RouteBattleByID, game.GetBattle)
	api.GET(constants.RouteBattleUpdates, game.BattleUpdates)
	api.GET(constants.RouteBattleSocket, game.BattleSocket)
	api.GET(constants.RouteLeaderboard, game.Leaderboard)

	authed := api.Group("")
	authed.Use(sessions.AuthRequired())
	authed.GET(constants.RouteAuthMe, auth.Me)

	authed.POST(constants.RouteBattles, game.CreateBattle)
	authed.GET(constants.RouteRecentBattles, game.RecentBattles)
	authed.POST(constants.RouteBattleAction, game.SubmitAction)
	authed.GET(constants.RouteBattleResult, game.BattleResult)

	authed.POST(constants.RouteChallenges, game.CreateChallenge)
	authed.GET(constants.RouteChallenges, game.ListChallenges)
	authed.POST(constants.RouteChallengeAccept, game.AcceptChallenge)
	authed.POST(constants.RouteChallengeReject, game.RejectChallenge)

	authed.GET(constants.RouteUserSearch, game.SearchUsers)
	authed.GET(constants.RouteRecentPlayers, game.RecentPlayers)
	return r
}
