package storage

import "github.com/lyfstyl-ux/fightcaster/internal/game"

// memoryTx overlays staged writes on the parent store. Point reads see the
// staged value first; list queries read the committed parent only.
type memoryTx struct {
	*memoryRepository
	battles    map[uint]*game.Battle
	states     map[uint]*game.BattleState
	users      map[uint]*game.User
	challenges map[uint]*game.Challenge
}

func (t *memoryTx) GetBattle(id uint) (*game.Battle, error) {
	if b, ok := t.battles[id]; ok {
		return b.Clone(), nil
	}
	return t.memoryRepository.GetBattle(id)
}

func (t *memoryTx) GetBattleState(battleID uint) (*game.BattleState, error) {
	if s, ok := t.states[battleID]; ok {
		return s.Clone(), nil
	}
	return t.memoryRepository.GetBattleState(battleID)
}

func (t *memoryTx) GetUser(id uint) (*game.User, error) {
	if u, ok := t.users[id]; ok {
		return u.Clone(), nil
	}
	return t.memoryRepository.GetUser(id)
}

func (t *memoryTx) GetChallenge(id uint) (*game.Challenge, error) {
	if c, ok := t.challenges[id]; ok {
		return c.Clone(), nil
	}
	return t.memoryRepository.GetChallenge(id)
}

func (t *memoryTx) SaveBattle(b *game.Battle) error {
	if b.ID == 0 {
		return ErrMissingID
	}
	b.UpdatedAt = t.now()
	t.battles[b.ID] = b.Clone()
	return nil
}

func (t *memoryTx) SaveBattleState(s *game.BattleState) error {
	if s.BattleID == 0 {
		return ErrMissingID
	}
	t.states[s.BattleID] = s.Clone()
	return nil
}

func (t *memoryTx) SaveUser(u *game.User) error {
	if u.ID == 0 {
		return ErrMissingID
	}
	u.ClampProgress()
	u.UpdatedAt = t.now()
	t.users[u.ID] = u.Clone()
	return nil
}

func (t *memoryTx) SaveChallenge(c *game.Challenge) error {
	if c.ID == 0 {
		return ErrMissingID
	}
	c.UpdatedAt = t.now()
	t.challenges[c.ID] = c.Clone()
	return nil
}

func (t *memoryTx) CreateUser(u *game.User) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.checkUniqueLocked(u, t.users); err != nil {
		return err
	}
	t.nextUser++
	u.ID = t.nextUser
	u.ClampProgress()
	u.CreatedAt = t.now()
	u.UpdatedAt = u.CreatedAt
	t.users[u.ID] = u.Clone()
	return nil
}

// IDs are reserved from the parent immediately; a rolled back transaction
// leaves a gap, as a database sequence would.
func (t *memoryTx) CreateBattle(b *game.Battle, s *game.BattleState) error {
	t.mu.Lock()
	t.assignBattleLocked(b, s)
	t.mu.Unlock()
	t.battles[b.ID] = b.Clone()
	t.states[s.BattleID] = s.Clone()
	return nil
}

func (t *memoryTx) CreateChallenge(c *game.Challenge) error {
	t.mu.Lock()
	t.assignChallengeLocked(c)
	t.mu.Unlock()
	t.challenges[c.ID] = c.Clone()
	return nil
}

// Transaction nests by running fn in the same staging area.
func (t *memoryTx) Transaction(fn func(tx Repository) error) error {
	return fn(t)
}

func (t *memoryTx) commit() error {
	r := t.memoryRepository
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, b := range t.battles {
		r.battles[id] = b
	}
	for id, s := range t.states {
		r.states[id] = s
	}
	for id, u := range t.users {
		r.users[id] = u
	}
	for id, c := range t.challenges {
		r.challenges[id] = c
	}
	return nil
}
