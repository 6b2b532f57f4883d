package storage

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lyfstyl-ux/fightcaster/internal/game"
)

var (
	ErrDuplicateUser = errors.New("user already exists")
	// ErrUsernameTaken means the social id is free but the username is not.
	ErrUsernameTaken = fmt.Errorf("%w: username taken", ErrDuplicateUser)
	ErrMissingID     = errors.New("record has no id")
)

// memoryRepository keeps everything in maps guarded by one lock. Values are
// cloned on the way in and out so callers never share memory with the store.
type memoryRepository struct {
	// writeMu serializes writers: a whole transaction, or a single direct
	// write. It is always taken before mu.
	writeMu    sync.Mutex
	mu         sync.RWMutex
	users      map[uint]*game.User
	characters map[uint]*game.Character
	moves      map[uint][]game.Move
	battles    map[uint]*game.Battle
	states     map[uint]*game.BattleState
	challenges map[uint]*game.Challenge

	nextUser      uint
	nextCharacter uint
	nextMove      uint
	nextBattle    uint
	nextChallenge uint

	now func() time.Time
}

// NewMemoryRepository returns an empty in-process store.
func NewMemoryRepository() Repository {
	return newMemoryRepository()
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		users:      make(map[uint]*game.User),
		characters: make(map[uint]*game.Character),
		moves:      make(map[uint][]game.Move),
		battles:    make(map[uint]*game.Battle),
		states:     make(map[uint]*game.BattleState),
		challenges: make(map[uint]*game.Challenge),
		now:        time.Now,
	}
}

func (r *memoryRepository) GetBattle(id uint) (*game.Battle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.battles[id].Clone(), nil
}

func (r *memoryRepository) GetBattleState(battleID uint) (*game.BattleState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.states[battleID].Clone(), nil
}

func (r *memoryRepository) SaveBattle(b *game.Battle) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	if b.ID == 0 {
		return ErrMissingID
	}
	b.UpdatedAt = r.now()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.battles[b.ID] = b.Clone()
	return nil
}

func (r *memoryRepository) SaveBattleState(s *game.BattleState) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	if s.BattleID == 0 {
		return ErrMissingID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states[s.BattleID] = s.Clone()
	return nil
}

func (r *memoryRepository) GetUser(id uint) (*game.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.users[id].Clone(), nil
}

func (r *memoryRepository) SaveUser(u *game.User) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	if u.ID == 0 {
		return ErrMissingID
	}
	u.ClampProgress()
	u.UpdatedAt = r.now()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u.Clone()
	return nil
}

func (r *memoryRepository) CreateUser(u *game.User) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkUniqueLocked(u, nil); err != nil {
		return err
	}
	r.nextUser++
	u.ID = r.nextUser
	u.ClampProgress()
	u.CreatedAt = r.now()
	u.UpdatedAt = u.CreatedAt
	r.users[u.ID] = u.Clone()
	return nil
}

// checkUniqueLocked mirrors the unique indexes on fid and username. staged
// users are checked as well when called from a transaction. A fid clash wins
// over a username clash.
func (r *memoryRepository) checkUniqueLocked(u *game.User, staged map[uint]*game.User) error {
	nameTaken := false
	for _, users := range []map[uint]*game.User{r.users, staged} {
		for _, o := range users {
			if u.FID != "" && o.FID == u.FID {
				return ErrDuplicateUser
			}
			if strings.EqualFold(o.Username, u.Username) {
				nameTaken = true
			}
		}
	}
	if nameTaken {
		return ErrUsernameTaken
	}
	return nil
}

func (r *memoryRepository) GetUserByFID(fid string) (*game.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.FID == fid {
			return u.Clone(), nil
		}
	}
	return nil, nil
}

func (r *memoryRepository) ListUsers() ([]game.User, error) {
	r.mu.RLock()
	out := make([]game.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memoryRepository) Leaderboard(limit int) ([]game.User, error) {
	if limit <= 0 {
		limit = 10
	}
	users, _ := r.ListUsers()
	sort.SliceStable(users, func(i, j int) bool {
		if users[i].RankPoints != users[j].RankPoints {
			return users[i].RankPoints > users[j].RankPoints
		}
		if users[i].Level != users[j].Level {
			return users[i].Level > users[j].Level
		}
		return users[i].ID < users[j].ID
	})
	if len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

func (r *memoryRepository) GetCharacter(id uint) (*game.Character, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.characters[id].Clone(), nil
}

func (r *memoryRepository) GetMovesByCharacterID(characterID uint) ([]game.Move, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return game.CloneMoves(r.moves[characterID]), nil
}

func (r *memoryRepository) ListCharacters() ([]game.Character, error) {
	r.mu.RLock()
	out := make([]game.Character, 0, len(r.characters))
	for _, c := range r.characters {
		out = append(out, *c.Clone())
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memoryRepository) SeedCatalog(characters []game.Character) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range characters {
		var id uint
		for existingID, existing := range r.characters {
			if existing.Name == c.Name {
				id = existingID
				break
			}
		}
		if id == 0 {
			r.nextCharacter++
			id = r.nextCharacter
		}
		stored := c.Clone()
		stored.ID = id
		stored.Moves = nil
		r.characters[id] = stored

		existing := r.moves[id]
		moves := make([]game.Move, 0, len(c.Moves))
		for _, m := range c.Moves {
			mv := game.CloneMoves([]game.Move{m})[0]
			mv.CharacterID = id
			mv.ID = 0
			for _, old := range existing {
				if old.Name == m.Name {
					mv.ID = old.ID
					break
				}
			}
			if mv.ID == 0 {
				r.nextMove++
				mv.ID = r.nextMove
			}
			moves = append(moves, mv)
		}
		r.moves[id] = moves
	}
	return nil
}

func (r *memoryRepository) CreateBattle(b *game.Battle, s *game.BattleState) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assignBattleLocked(b, s)
	r.battles[b.ID] = b.Clone()
	r.states[s.BattleID] = s.Clone()
	return nil
}

func (r *memoryRepository) assignBattleLocked(b *game.Battle, s *game.BattleState) {
	r.nextBattle++
	b.ID = r.nextBattle
	now := r.now()
	b.CreatedAt = now
	b.UpdatedAt = now
	s.BattleID = b.ID
	s.UpdatedAt = now
}

func (r *memoryRepository) ListUserBattles(userID uint, limit int) ([]game.Battle, error) {
	r.mu.RLock()
	out := make([]game.Battle, 0)
	for _, b := range r.battles {
		if b.HasPlayer(userID) {
			out = append(out, *b.Clone())
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memoryRepository) GetChallenge(id uint) (*game.Challenge, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.challenges[id].Clone(), nil
}

func (r *memoryRepository) SaveChallenge(c *game.Challenge) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	if c.ID == 0 {
		return ErrMissingID
	}
	c.UpdatedAt = r.now()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.challenges[c.ID] = c.Clone()
	return nil
}

func (r *memoryRepository) CreateChallenge(c *game.Challenge) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assignChallengeLocked(c)
	r.challenges[c.ID] = c.Clone()
	return nil
}

func (r *memoryRepository) assignChallengeLocked(c *game.Challenge) {
	r.nextChallenge++
	c.ID = r.nextChallenge
	if c.CreatedAt.IsZero() {
		c.CreatedAt = r.now()
	}
	c.UpdatedAt = c.CreatedAt
}

func (r *memoryRepository) ListPendingChallenges(userID uint) ([]game.Challenge, error) {
	return r.filterChallenges(func(c *game.Challenge) bool {
		return c.ChallengedID == userID && c.Status == game.ChallengePending
	}, true), nil
}

func (r *memoryRepository) ListStaleChallenges(before time.Time) ([]game.Challenge, error) {
	return r.filterChallenges(func(c *game.Challenge) bool {
		return c.Status == game.ChallengePending && c.CreatedAt.Before(before)
	}, false), nil
}

func (r *memoryRepository) filterChallenges(keep func(*game.Challenge) bool, newestFirst bool) []game.Challenge {
	r.mu.RLock()
	out := make([]game.Challenge, 0)
	for _, c := range r.challenges {
		if keep(c) {
			out = append(out, *c.Clone())
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if newestFirst {
			return out[i].ID > out[j].ID
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Transaction stages writes made through tx and applies them when fn
// succeeds. Transactions and direct writes run one at a time, so a read made
// inside fn still holds at commit. Reads outside a transaction never wait.
// fn must write through tx only; calling write methods of the parent from
// inside fn deadlocks.
func (r *memoryRepository) Transaction(fn func(tx Repository) error) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	tx := &memoryTx{
		memoryRepository: r,
		battles:          make(map[uint]*game.Battle),
		states:           make(map[uint]*game.BattleState),
		users:            make(map[uint]*game.User),
		challenges:       make(map[uint]*game.Challenge),
	}
	if err := fn(tx); err != nil {
		return err
	}
	return tx.commit()
}
