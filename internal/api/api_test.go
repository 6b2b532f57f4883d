package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/lyfstyl-ux/fightcaster/internal/config"
	"github.com/lyfstyl-ux/fightcaster/internal/constants"
	"github.com/lyfstyl-ux/fightcaster/internal/engine"
	"github.com/lyfstyl-ux/fightcaster/internal/game"
	"github.com/lyfstyl-ux/fightcaster/internal/notify"
	"github.com/lyfstyl-ux/fightcaster/internal/service"
	"github.com/lyfstyl-ux/fightcaster/internal/storage"
)

// minRoller always rolls the bottom of a range and never crits.
type minRoller struct{}

func (minRoller) Intn(int) int     { return 0 }
func (minRoller) Float64() float64 { return 0.99 }

type testServer struct {
	router   *gin.Engine
	repo     storage.Repository
	sessions *Sessions
	hub      *notify.Hub
	chars    []game.Character
}

type testOptions struct {
	devLogin bool
	oauth    config.OAuthEnv
}

func newTestServer(t *testing.T, opts ...func(*testOptions)) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	o := testOptions{devLogin: true}
	for _, fn := range opts {
		fn(&o)
	}

	cfg, err := config.Default()
	require.NoError(t, err)
	repo := storage.NewMemoryRepository()
	require.NoError(t, repo.SeedCatalog(cfg.Characters))
	chars, err := repo.ListCharacters()
	require.NoError(t, err)

	hub := notify.NewHub(notify.RepositoryLoader(repo))
	battles := service.NewBattles(repo, engine.New(minRoller{}, cfg.Rules), hub)
	challenges := service.NewChallenges(repo, hub)
	users := service.NewUsers(repo)
	sessions, err := NewSessions("test-secret", false)
	require.NoError(t, err)

	r := NewRouter(
		NewAuthHandler(users, sessions, o.devLogin, o.oauth),
		NewGameHandler(repo, battles, challenges, users, hub),
		sessions,
	)
	return &testServer{router: r, repo: repo, sessions: sessions, hub: hub, chars: chars}
}

// do sends a request, attaching a session cookie for userID when non-zero.
func (s *testServer) do(t *testing.T, method, path string, userID uint, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, constants.RouteAPIPrefix+path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		token, err := s.sessions.createSessionToken(userID, "u"+strconv.Itoa(int(userID)))
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: constants.CookieSessionName, Value: token})
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) login(t *testing.T, fid, username string) game.User {
	t.Helper()
	w := s.do(t, http.MethodPost, constants.RouteAuthLogin, 0, gin.H{"fid": fid, "username": username})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var out struct {
		User game.User `json:"user"`
	}
	decode(t, w, &out)
	return out.User
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var out map[string]any
	decode(t, w, &out)
	msg, _ := out[constants.JSONKeyError].(string)
	return msg
}

func withID(route string, id uint) string {
	return strings.Replace(route, ":id", strconv.FormatUint(uint64(id), 10), 1)
}
