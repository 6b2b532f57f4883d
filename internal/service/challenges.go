package service

import (
	"context"
	"time"

	"github.com/lyfstyl-ux/fightcaster/internal/game"
	"github.com/lyfstyl-ux/fightcaster/internal/storage"
)

// PendingChallenge is an open challenge with the challenger and their
// character attached.
type PendingChallenge struct {
	game.Challenge
	Challenger *UserSummary    `json:"challenger"`
	Character  *game.Character `json:"character"`
}

// AcceptResult is returned when a challenge turns into a battle.
type AcceptResult struct {
	Challenge *game.Challenge   `json:"challenge"`
	Battle    *game.Battle      `json:"battle"`
	State     *game.BattleState `json:"battleState"`
}

// Challenges manages the invite flow that leads into battles.
type Challenges struct {
	repo      storage.Repository
	publisher Publisher
	now       func() time.Time
}

func NewChallenges(repo storage.Repository, publisher Publisher) *Challenges {
	if publisher == nil {
		publisher = nopPublisher{}
	}
	return &Challenges{repo: repo, publisher: publisher, now: time.Now}
}

// Create records a pending challenge from challengerID to recipientID with
// the challenger's chosen character.
func (s *Challenges) Create(ctx context.Context, challengerID, recipientID, characterID uint) (*game.Challenge, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if challengerID == recipientID {
		return nil, invalidState(ReasonSelfChallenge)
	}
	if err := requireUser(s.repo, recipientID); err != nil {
		return nil, err
	}
	if err := requireCharacter(s.repo, characterID); err != nil {
		return nil, err
	}
	c := &game.Challenge{
		ChallengerID: challengerID,
		ChallengedID: recipientID,
		CharacterID:  characterID,
		Status:       game.ChallengePending,
		CreatedAt:    s.now(),
	}
	if err := s.repo.CreateChallenge(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Accept turns a pending challenge into an active battle. The challenger
// becomes player one and moves first.
func (s *Challenges) Accept(ctx context.Context, challengeID, accepterID, characterID uint) (*AcceptResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var res *AcceptResult
	err := s.repo.Transaction(func(tx storage.Repository) error {
		c, err := loadAnswerable(tx, challengeID, accepterID)
		if err != nil {
			return err
		}
		if err := requireCharacter(tx, characterID); err != nil {
			return err
		}

		view, err := createBattle(tx, c.ChallengerID, accepterID, c.CharacterID, characterID)
		if err != nil {
			return err
		}
		c.Status = game.ChallengeAccepted
		c.BattleID = &view.Battle.ID
		if err := tx.SaveChallenge(c); err != nil {
			return err
		}
		res = &AcceptResult{Challenge: c, Battle: view.Battle, State: view.State}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(res.Battle.Clone(), res.State.Clone())
	return res, nil
}

// Reject declines a pending challenge.
func (s *Challenges) Reject(ctx context.Context, challengeID, userID uint) (*game.Challenge, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out *game.Challenge
	err := s.repo.Transaction(func(tx storage.Repository) error {
		c, err := loadAnswerable(tx, challengeID, userID)
		if err != nil {
			return err
		}
		c.Status = game.ChallengeRejected
		if err := tx.SaveChallenge(c); err != nil {
			return err
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// loadAnswerable returns the challenge when userID may still answer it.
func loadAnswerable(tx storage.Repository, challengeID, userID uint) (*game.Challenge, error) {
	c, err := tx.GetChallenge(challengeID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, notFound("challenge", challengeID)
	}
	if c.ChallengedID != userID {
		return nil, forbidden(ReasonNotRecipient)
	}
	if c.Status != game.ChallengePending {
		return nil, invalidState(ReasonChallengeResolved)
	}
	return c, nil
}

// Pending lists the open challenges addressed to userID, newest first.
func (s *Challenges) Pending(ctx context.Context, userID uint) ([]PendingChallenge, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	list, err := s.repo.ListPendingChallenges(userID)
	if err != nil {
		return nil, err
	}
	out := make([]PendingChallenge, 0, len(list))
	for _, c := range list {
		challenger, err := s.repo.GetUser(c.ChallengerID)
		if err != nil {
			return nil, err
		}
		ch, err := s.repo.GetCharacter(c.CharacterID)
		if err != nil {
			return nil, err
		}
		out = append(out, PendingChallenge{Challenge: c, Challenger: summarize(challenger), Character: ch})
	}
	return out, nil
}

// ExpireStale marks pending challenges older than ttl as expired and
// returns how many were changed. A challenge answered between the scan and
// the write is left alone.
func (s *Challenges) ExpireStale(ctx context.Context, now time.Time, ttl time.Duration) (int, error) {
	stale, err := s.repo.ListStaleChallenges(now.Add(-ttl))
	if err != nil {
		return 0, err
	}
	expired := 0
	for _, c := range stale {
		if err := ctx.Err(); err != nil {
			return expired, err
		}
		err := s.repo.Transaction(func(tx storage.Repository) error {
			cur, err := tx.GetChallenge(c.ID)
			if err != nil || cur == nil || cur.Status != game.ChallengePending {
				return err
			}
			cur.Status = game.ChallengeExpired
			if err := tx.SaveChallenge(cur); err != nil {
				return err
			}
			expired++
			return nil
		})
		if err != nil {
			return expired, err
		}
	}
	return expired, nil
}
