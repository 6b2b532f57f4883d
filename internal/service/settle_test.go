package service

import (
	"testing"

	"github.com/lyfstyl-ux/fightcaster/internal/game"
)

func TestSettle_LoserRankFloorsAtZero(t *testing.T) {
	f := newFixture(t, nil)
	f.bob.RankPoints = 4
	if err := f.repo.SaveUser(f.bob); err != nil {
		t.Fatal(err)
	}
	if err := Settle(f.repo, f.alice.ID, f.bob.ID); err != nil {
		t.Fatalf("settle: %v", err)
	}
	bob, _ := f.repo.GetUser(f.bob.ID)
	if bob.RankPoints != 0 || bob.Experience != LoserXP {
		t.Fatalf("unexpected loser: rank=%d xp=%d", bob.RankPoints, bob.Experience)
	}
}

func TestSettle_LevelUpDoesNotCascade(t *testing.T) {
	f := newFixture(t, nil)
	f.alice.Level = 1
	f.alice.Experience = 290
	if err := f.repo.SaveUser(f.alice); err != nil {
		t.Fatal(err)
	}
	if err := Settle(f.repo, f.alice.ID, f.bob.ID); err != nil {
		t.Fatalf("settle: %v", err)
	}
	alice, _ := f.repo.GetUser(f.alice.ID)
	if alice.Level != 2 || alice.Experience != 0 {
		t.Fatalf("expected a single level up, got level=%d xp=%d", alice.Level, alice.Experience)
	}
}

func TestSettle_MissingUserIsSkipped(t *testing.T) {
	f := newFixture(t, nil)
	if err := Settle(f.repo, f.alice.ID, 999); err != nil {
		t.Fatalf("settle: %v", err)
	}
	alice, _ := f.repo.GetUser(f.alice.ID)
	if alice.Experience != WinnerXP || alice.RankPoints != WinnerRankPoints {
		t.Fatalf("winner not paid: %+v", alice)
	}
}

func TestSettleBattle_Idempotent(t *testing.T) {
	f := newFixture(t, nil)
	winner := f.alice.ID
	b := &game.Battle{ID: 1, Player1ID: f.alice.ID, Player2ID: f.bob.ID, Status: game.BattleCompleted, WinnerID: &winner}

	paid, err := SettleBattle(f.repo, b)
	if err != nil || !paid {
		t.Fatalf("first settle: paid=%v err=%v", paid, err)
	}
	paid, err = SettleBattle(f.repo, b)
	if err != nil || paid {
		t.Fatalf("second settle: paid=%v err=%v", paid, err)
	}
	alice, _ := f.repo.GetUser(f.alice.ID)
	if alice.Experience != WinnerXP {
		t.Fatalf("expected one payout, got xp=%d", alice.Experience)
	}
}

func TestSettleBattle_SkipsUnfinished(t *testing.T) {
	f := newFixture(t, nil)
	b := &game.Battle{ID: 1, Player1ID: f.alice.ID, Player2ID: f.bob.ID, Status: game.BattleActive}
	paid, err := SettleBattle(f.repo, b)
	if err != nil || paid || b.RewardsSettled {
		t.Fatalf("expected no payout for an active battle: paid=%v err=%v", paid, err)
	}
}
