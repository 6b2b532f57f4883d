package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"

	"github.com/lyfstyl-ux/fightcaster/internal/config"
	"github.com/lyfstyl-ux/fightcaster/internal/constants"
	"github.com/lyfstyl-ux/fightcaster/internal/logging"
	"github.com/lyfstyl-ux/fightcaster/internal/service"
)

type AuthHandler struct {
	users    *service.Users
	sessions *Sessions
	devLogin bool
	oauth    config.OAuthEnv
}

func NewAuthHandler(users *service.Users, sessions *Sessions, devLogin bool, oauth config.OAuthEnv) *AuthHandler {
	return &AuthHandler{users: users, sessions: sessions, devLogin: devLogin, oauth: oauth}
}

type loginRequest struct {
	FID          string `json:"fid"`
	Username     string `json:"username"`
	DisplayName  string `json:"displayName"`
	VerifiedName string `json:"verifiedName"`
	AvatarURL    string `json:"avatarUrl"`
}

// Login signs a user in by social id, creating the profile on first visit.
func (h *AuthHandler) Login(c *gin.Context) {
	if !h.devLogin {
		c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrDevLoginDisabled})
		return
	}
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	if req.FID == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrFIDRequired})
		return
	}
	h.completeLogin(c, req.FID, service.Profile{
		Username:     req.Username,
		DisplayName:  req.DisplayName,
		VerifiedName: req.VerifiedName,
		AvatarURL:    req.AvatarURL,
	})
}

type oauthCallbackRequest struct {
	Code string `json:"code" binding:"required"`
}

func (h *AuthHandler) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.oauth.ClientID,
		ClientSecret: h.oauth.ClientSecret,
		RedirectURL:  h.oauth.RedirectURL,
		Scopes:       h.oauth.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  h.oauth.AuthURL,
			TokenURL: h.oauth.TokenURL,
		},
	}
}

// OAuth2Callback exchanges an authorization code, reads the provider's
// userinfo and signs the matching user in.
func (h *AuthHandler) OAuth2Callback(c *gin.Context) {
	var req oauthCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	if !h.oauth.Configured() {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrMissingOAuthEnv})
		return
	}

	ctx := c.Request.Context()
	conf := h.oauthConfig()
	token, err := conf.Exchange(ctx, req.Code)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrFailedExchangeToken, constants.JSONKeyDetails: err.Error()})
		return
	}

	resp, err := conf.Client(ctx, token).Get(h.oauth.UserInfoURL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedGetUserInfo, constants.JSONKeyDetails: err.Error()})
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		c.JSON(http.StatusBadGateway, gin.H{constants.JSONKeyError: constants.ErrFailedGetUserInfo, constants.JSONKeyDetails: resp.Status})
		return
	}

	var payload map[string]any
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: fmt.Sprintf(constants.ErrFailedReadUserData, err.Error())})
		return
	}
	fid := claimString(payload, "fid", "id", "sub")
	if fid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrNoIDInProfile})
		return
	}
	h.completeLogin(c, fid, service.Profile{
		Username:     claimString(payload, "username", "preferred_username"),
		DisplayName:  claimString(payload, "display_name", "displayName", "name"),
		VerifiedName: claimString(payload, "verified_name", "verifiedName"),
		AvatarURL:    claimString(payload, "pfp_url", "picture", "avatar_url"),
	})
}

// claimString returns the first key holding a non-empty string or number.
func claimString(payload map[string]any, keys ...string) string {
	for _, k := range keys {
		switch v := payload[k].(type) {
		case string:
			if v != "" {
				return v
			}
		case json.Number:
			return v.String()
		}
	}
	return ""
}

func (h *AuthHandler) completeLogin(c *gin.Context, fid string, p service.Profile) {
	u, err := h.users.Login(c.Request.Context(), fid, p)
	if err != nil {
		logging.Error("login", err, logging.Fields{"fid": fid})
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedLogin})
		return
	}
	sess, err := h.sessions.createSessionToken(u.ID, u.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedCreateSession, constants.JSONKeyDetails: err.Error()})
		return
	}
	h.sessions.setSessionCookie(c, sess)
	logging.Info("user logged in", logging.Fields{constants.LogFieldUserID: u.ID})
	c.JSON(http.StatusOK, gin.H{"user": u})
}

// Me returns the session user's profile.
func (h *AuthHandler) Me(c *gin.Context) {
	u, err := h.users.Get(c.Request.Context(), currentUserID(c))
	if err != nil {
		writeServiceError(c, err, constants.ErrUserNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.sessions.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyMessage: "logged out"})
}
