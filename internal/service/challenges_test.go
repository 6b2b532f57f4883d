package service

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/lyfstyl-ux/fightcaster/internal/game"
)

func TestChallenges_AcceptStartsBattle(t *testing.T) {
	f := newFixture(t, nil)
	c, err := f.challenges.Create(t.Context(), f.alice.ID, f.bob.ID, f.samurai.ID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	res, err := f.challenges.Accept(t.Context(), c.ID, f.bob.ID, f.ninja.ID)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	b, st := res.Battle, res.State
	if b.Player1ID != f.alice.ID || b.Player2ID != f.bob.ID || b.Status != game.BattleActive {
		t.Fatalf("unexpected battle: %+v", b)
	}
	if b.Player1CharacterID != f.samurai.ID || b.Player2CharacterID != f.ninja.ID {
		t.Fatalf("unexpected characters: %d vs %d", b.Player1CharacterID, b.Player2CharacterID)
	}
	if st.Player1Health != 100 || st.Player2Health != 100 || st.CurrentTurn != 1 || st.CurrentPlayerID != f.alice.ID {
		t.Fatalf("unexpected opening state: %+v", st)
	}
	if len(st.BattleLog) != 1 || st.BattleLog[0] != "Battle started!" {
		t.Fatalf("unexpected opening log: %v", st.BattleLog)
	}
	if len(st.Player1Effects) != 0 || len(st.Player2Effects) != 0 {
		t.Fatal("expected no effects at start")
	}

	stored, _ := f.repo.GetChallenge(c.ID)
	if stored.Status != game.ChallengeAccepted || stored.BattleID == nil || *stored.BattleID != b.ID {
		t.Fatalf("challenge not linked: %+v", stored)
	}
	if f.pub.count() != 1 {
		t.Fatalf("expected new battle to be published, got %d", f.pub.count())
	}

	_, err = f.challenges.Accept(t.Context(), c.ID, f.bob.ID, f.ninja.ID)
	var inv *InvalidStateError
	if !errors.As(err, &inv) {
		t.Fatalf("expected InvalidStateError on second accept, got %v", err)
	}
}

func TestChallenges_ConcurrentAcceptCreatesOneBattle(t *testing.T) {
	f := newFixture(t, nil)
	c, err := f.challenges.Create(t.Context(), f.alice.ID, f.bob.ID, f.samurai.ID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	const n = 16
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		ok      int
		invalid int
		winner  uint
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := f.challenges.Accept(t.Context(), c.ID, f.bob.ID, f.ninja.ID)
			mu.Lock()
			defer mu.Unlock()
			var inv *InvalidStateError
			switch {
			case err == nil:
				ok++
				winner = res.Battle.ID
			case errors.As(err, &inv):
				invalid++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()
	if ok != 1 || invalid != n-1 {
		t.Fatalf("expected exactly one accept, got ok=%d invalid=%d", ok, invalid)
	}

	battles, err := f.repo.ListUserBattles(f.bob.ID, 0)
	if err != nil {
		t.Fatalf("list battles: %v", err)
	}
	if len(battles) != 1 || battles[0].ID != winner {
		t.Fatalf("expected one battle %d, got %d", winner, len(battles))
	}
	stored, _ := f.repo.GetChallenge(c.ID)
	if stored.BattleID == nil || *stored.BattleID != winner {
		t.Fatalf("challenge not linked to the winning battle: %+v", stored)
	}
	if f.pub.count() != 1 {
		t.Fatalf("expected one publish, got %d", f.pub.count())
	}
}

func TestChallenges_AcceptRejections(t *testing.T) {
	f := newFixture(t, nil)
	c, err := f.challenges.Create(t.Context(), f.alice.ID, f.bob.ID, f.samurai.ID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	var nf *NotFoundError
	if _, err := f.challenges.Accept(t.Context(), 999, f.bob.ID, f.ninja.ID); !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	var fe *ForbiddenError
	if _, err := f.challenges.Accept(t.Context(), c.ID, f.alice.ID, f.ninja.ID); !errors.As(err, &fe) {
		t.Fatalf("expected ForbiddenError, got %v", err)
	}
	if _, err := f.challenges.Accept(t.Context(), c.ID, f.bob.ID, 999); !errors.As(err, &nf) || nf.Resource != "character" {
		t.Fatalf("expected missing character, got %v", err)
	}

	stored, _ := f.repo.GetChallenge(c.ID)
	if stored.Status != game.ChallengePending {
		t.Fatalf("failed accepts changed the challenge: %s", stored.Status)
	}
	battles, _ := f.repo.ListUserBattles(f.bob.ID, 0)
	if len(battles) != 0 {
		t.Fatalf("failed accepts created %d battles", len(battles))
	}
}

func TestChallenges_CreateValidates(t *testing.T) {
	f := newFixture(t, nil)
	var inv *InvalidStateError
	if _, err := f.challenges.Create(t.Context(), f.alice.ID, f.alice.ID, f.samurai.ID); !errors.As(err, &inv) {
		t.Fatalf("expected self challenge to fail, got %v", err)
	}
	var nf *NotFoundError
	if _, err := f.challenges.Create(t.Context(), f.alice.ID, 999, f.samurai.ID); !errors.As(err, &nf) || nf.Resource != "user" {
		t.Fatalf("expected missing user, got %v", err)
	}
	if _, err := f.challenges.Create(t.Context(), f.alice.ID, f.bob.ID, 999); !errors.As(err, &nf) || nf.Resource != "character" {
		t.Fatalf("expected missing character, got %v", err)
	}
}

func TestChallenges_RejectAndPending(t *testing.T) {
	f := newFixture(t, nil)
	first, _ := f.challenges.Create(t.Context(), f.alice.ID, f.bob.ID, f.samurai.ID)
	second, _ := f.challenges.Create(t.Context(), f.alice.ID, f.bob.ID, f.ninja.ID)

	pending, err := f.challenges.Pending(t.Context(), f.bob.ID)
	if err != nil || len(pending) != 2 {
		t.Fatalf("expected 2 pending, got %d (%v)", len(pending), err)
	}
	if pending[0].Challenger == nil || pending[0].Challenger.Username != "alice" || pending[0].Character == nil {
		t.Fatalf("pending challenge not enriched: %+v", pending[0])
	}

	var fe *ForbiddenError
	if _, err := f.challenges.Reject(t.Context(), first.ID, f.alice.ID); !errors.As(err, &fe) {
		t.Fatalf("expected ForbiddenError, got %v", err)
	}
	rejected, err := f.challenges.Reject(t.Context(), first.ID, f.bob.ID)
	if err != nil || rejected.Status != game.ChallengeRejected {
		t.Fatalf("reject: %v %+v", err, rejected)
	}

	pending, _ = f.challenges.Pending(t.Context(), f.bob.ID)
	if len(pending) != 1 || pending[0].ID != second.ID {
		t.Fatalf("expected only the second challenge pending, got %+v", pending)
	}
}

func TestChallenges_ExpireStale(t *testing.T) {
	f := newFixture(t, nil)
	now := time.Now()
	f.challenges.now = func() time.Time { return now.Add(-2 * time.Hour) }
	old, _ := f.challenges.Create(t.Context(), f.alice.ID, f.bob.ID, f.samurai.ID)
	f.challenges.now = func() time.Time { return now }
	fresh, _ := f.challenges.Create(t.Context(), f.alice.ID, f.bob.ID, f.samurai.ID)

	n, err := f.challenges.ExpireStale(t.Context(), now, time.Hour)
	if err != nil || n != 1 {
		t.Fatalf("expected 1 expired, got %d (%v)", n, err)
	}
	o, _ := f.repo.GetChallenge(old.ID)
	fr, _ := f.repo.GetChallenge(fresh.ID)
	if o.Status != game.ChallengeExpired || fr.Status != game.ChallengePending {
		t.Fatalf("unexpected statuses: old=%s fresh=%s", o.Status, fr.Status)
	}

	var inv *InvalidStateError
	if _, err := f.challenges.Accept(t.Context(), old.ID, f.bob.ID, f.ninja.ID); !errors.As(err, &inv) {
		t.Fatalf("expected expired challenge to be unanswerable, got %v", err)
	}
}
