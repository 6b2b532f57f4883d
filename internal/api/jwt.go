package api

import (
	crand "crypto/rand"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionTTL is how long a login stays valid.
const SessionTTL = 24 * time.Hour

const sessionIssuer = "fightcaster"

type sessionClaims struct {
	jwt.RegisteredClaims
	Name string `json:"name"`
}

// Sessions mints and verifies the HS256 session tokens kept in the session
// cookie. The subject is the user id.
type Sessions struct {
	secret []byte
	secure bool
	ttl    time.Duration
	now    func() time.Time
}

// NewSessions uses secret for signing. An empty secret gets a random
// in-memory one, so sessions do not survive a restart.
func NewSessions(secret string, secureCookie bool) (*Sessions, error) {
	key := []byte(secret)
	if secret == "" {
		key = make([]byte, 32)
		if _, err := crand.Read(key); err != nil {
			return nil, errors.New("failed to generate dev session secret")
		}
	}
	return &Sessions{secret: key, secure: secureCookie, ttl: SessionTTL, now: time.Now}, nil
}

func (s *Sessions) createSessionToken(userID uint, name string) (string, error) {
	now := s.now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    sessionIssuer,
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Name: name,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *Sessions) parseAndValidateSession(token string) (userID uint, name string, err error) {
	var claims sessionClaims
	_, err = jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return 0, "", err
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, "", fmt.Errorf("invalid session subject %q", claims.Subject)
	}
	return uint(id), claims.Name, nil
}
