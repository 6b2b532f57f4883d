package service

import (
	"context"
	"errors"
	"strings"

	"github.com/lyfstyl-ux/fightcaster/internal/game"
	"github.com/lyfstyl-ux/fightcaster/internal/keys"
	"github.com/lyfstyl-ux/fightcaster/internal/storage"
)

// SearchLimit caps user search results.
const SearchLimit = 10

// ErrMissingFID is returned when a login carries no social id.
var ErrMissingFID = errors.New("fid is required")

// Profile is identity data supplied at login. Empty fields leave the
// stored values alone.
type Profile struct {
	Username     string
	DisplayName  string
	VerifiedName string
	AvatarURL    string
}

// Users handles identities, search and standings.
type Users struct {
	repo storage.Repository
}

func NewUsers(repo storage.Repository) *Users {
	return &Users{repo: repo}
}

// Login finds the user by social id, creating one on first sight. The
// default username is "user<fid>".
func (s *Users) Login(ctx context.Context, fid string, p Profile) (*game.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fid = strings.TrimSpace(fid)
	if fid == "" {
		return nil, ErrMissingFID
	}
	u, err := s.repo.GetUserByFID(fid)
	if err != nil {
		return nil, err
	}
	if u != nil {
		if !applyProfile(u, p) {
			return u, nil
		}
		if err := s.repo.SaveUser(u); err != nil {
			return nil, err
		}
		return u, nil
	}

	fallback := "user" + fid
	u = &game.User{FID: fid, Username: fallback, Level: 1}
	if name := strings.TrimSpace(p.Username); name != "" {
		u.Username = name
	}
	applyProfile(u, Profile{DisplayName: p.DisplayName, VerifiedName: p.VerifiedName, AvatarURL: p.AvatarURL})
	if u.DisplayName == "" {
		u.DisplayName = u.Username
	}
	err = s.repo.CreateUser(u)
	if errors.Is(err, storage.ErrUsernameTaken) && u.Username != fallback {
		// The preferred name is taken; fall back to the fid-derived one.
		u.ID = 0
		u.Username = fallback
		err = s.repo.CreateUser(u)
	}
	if errors.Is(err, storage.ErrDuplicateUser) {
		// A concurrent login may have created this fid first.
		existing, lookupErr := s.repo.GetUserByFID(fid)
		if lookupErr == nil && existing != nil {
			return existing, nil
		}
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// applyProfile copies non-empty profile fields and reports whether anything
// changed. Usernames are only set at creation.
func applyProfile(u *game.User, p Profile) bool {
	changed := false
	set := func(dst *string, v string) {
		v = strings.TrimSpace(v)
		if v != "" && *dst != v {
			*dst = v
			changed = true
		}
	}
	set(&u.DisplayName, p.DisplayName)
	set(&u.VerifiedName, p.VerifiedName)
	set(&u.AvatarURL, p.AvatarURL)
	return changed
}

// Get returns a user by id.
func (s *Users) Get(ctx context.Context, id uint) (*game.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	u, err := s.repo.GetUser(id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, notFound("user", id)
	}
	return u, nil
}

// Search matches query against username, fid and verified name, ignoring
// case. The searching user is excluded.
func (s *Users) Search(ctx context.Context, query string, excludeID uint) ([]game.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	all, err := s.repo.ListUsers()
	if err != nil {
		return nil, err
	}
	out := make([]game.User, 0)
	for _, u := range all {
		if u.ID == excludeID {
			continue
		}
		if keys.MatchesAny(query, u.Username, u.FID, u.VerifiedName) {
			out = append(out, u)
			if len(out) == SearchLimit {
				break
			}
		}
	}
	return out, nil
}

// Leaderboard returns the top players by rank points.
func (s *Users) Leaderboard(ctx context.Context, limit int) ([]game.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.repo.Leaderboard(limit)
}

// RecentOpponents returns up to limit distinct users the player has
// battled, most recent first.
func (s *Users) RecentOpponents(ctx context.Context, userID uint, limit int) ([]game.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	battles, err := s.repo.ListUserBattles(userID, 0)
	if err != nil {
		return nil, err
	}
	seen := make(map[uint]struct{})
	out := make([]game.User, 0)
	for _, b := range battles {
		if limit > 0 && len(out) == limit {
			break
		}
		oppID := b.OpponentOf(userID)
		if _, ok := seen[oppID]; ok || oppID == 0 {
			continue
		}
		seen[oppID] = struct{}{}
		u, err := s.repo.GetUser(oppID)
		if err != nil {
			return nil, err
		}
		if u != nil {
			out = append(out, *u)
		}
	}
	return out, nil
}
