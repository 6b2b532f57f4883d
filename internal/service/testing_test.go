package service

import (
	"sync"
	"testing"

	"github.com/lyfstyl-ux/fightcaster/internal/engine"
	"github.com/lyfstyl-ux/fightcaster/internal/game"
	"github.com/lyfstyl-ux/fightcaster/internal/storage"
)

// stubRoller replays ints, then returns 0. Float64 never crits.
type stubRoller struct {
	mu   sync.Mutex
	ints []int
}

func (r *stubRoller) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	if v >= n {
		v = n - 1
	}
	return v
}

func (r *stubRoller) Float64() float64 { return 0.99 }

type recordingPublisher struct {
	mu     sync.Mutex
	states []*game.BattleState
}

func (p *recordingPublisher) Publish(_ *game.Battle, s *game.BattleState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.states = append(p.states, s)
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.states)
}

func strp(s string) *string { return &s }

func testCatalog() []game.Character {
	return []game.Character{
		{Name: "Fire Samurai", Class: "Warrior", Rarity: game.RarityRare, Moves: []game.Move{
			{Name: "Basic Attack", Damage: strp("15-25")},
			{Name: "Inferno Slash", Damage: strp("30-45"), Effect: strp("burn"), Cooldown: 2},
			{Name: "Healing Flame", Effect: strp("heal"), Cooldown: 4},
		}},
		{Name: "Ice Ninja", Class: "Assassin", Rarity: game.RarityCommon, Moves: []game.Move{
			{Name: "Shuriken Throw", Damage: strp("12-20")},
		}},
	}
}

type fixture struct {
	repo       storage.Repository
	pub        *recordingPublisher
	battles    *Battles
	challenges *Challenges
	users      *Users
	alice, bob *game.User
	samurai    game.Character
	ninja      game.Character
}

func newFixture(t *testing.T, rng engine.Roller) *fixture {
	t.Helper()
	repo := storage.NewMemoryRepository()
	if err := repo.SeedCatalog(testCatalog()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	chars, err := repo.ListCharacters()
	if err != nil || len(chars) != 2 {
		t.Fatalf("list characters: %v (%d)", err, len(chars))
	}
	f := &fixture{
		repo:    repo,
		pub:     &recordingPublisher{},
		samurai: chars[0],
		ninja:   chars[1],
		alice:   &game.User{FID: "1", Username: "alice", Level: 1},
		bob:     &game.User{FID: "2", Username: "bob", Level: 1},
	}
	for _, u := range []*game.User{f.alice, f.bob} {
		if err := repo.CreateUser(u); err != nil {
			t.Fatalf("create user: %v", err)
		}
	}
	if rng == nil {
		rng = &stubRoller{}
	}
	f.battles = NewBattles(repo, engine.New(rng, engine.DefaultRules()), f.pub)
	f.challenges = NewChallenges(repo, f.pub)
	f.users = NewUsers(repo)
	return f
}

func (f *fixture) start(t *testing.T) *BattleView {
	t.Helper()
	v, err := f.battles.Start(t.Context(), f.alice.ID, f.bob.ID, f.samurai.ID, f.ninja.ID)
	if err != nil {
		t.Fatalf("start battle: %v", err)
	}
	return v
}

func (f *fixture) moveID(t *testing.T, characterID uint, name string) *uint {
	t.Helper()
	moves, err := f.repo.GetMovesByCharacterID(characterID)
	if err != nil {
		t.Fatalf("moves: %v", err)
	}
	for _, m := range moves {
		if m.Name == name {
			id := m.ID
			return &id
		}
	}
	t.Fatalf("move %q not found", name)
	return nil
}

func attack(dmg string) game.BattleAction {
	return game.BattleAction{Type: game.ActionAttack, MoveName: "Strike", Damage: strp(dmg)}
}
