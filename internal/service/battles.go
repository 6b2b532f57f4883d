package service

import (
	"context"
	"strings"
	"time"

	"github.com/lyfstyl-ux/fightcaster/internal/engine"
	"github.com/lyfstyl-ux/fightcaster/internal/game"
	"github.com/lyfstyl-ux/fightcaster/internal/keylock"
	"github.com/lyfstyl-ux/fightcaster/internal/storage"
	"github.com/lyfstyl-ux/fightcaster/internal/telemetry"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// BattleView pairs a battle record with its live state.
type BattleView struct {
	Battle *game.Battle      `json:"battle"`
	State  *game.BattleState `json:"battleState"`
}

// UserSummary is the public slice of a user shown next to battles and
// challenges.
type UserSummary struct {
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	VerifiedName string `json:"verifiedName,omitempty"`
	AvatarURL    string `json:"avatarUrl,omitempty"`
}

func summarize(u *game.User) *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{ID: u.ID, Username: u.Username, VerifiedName: u.VerifiedName, AvatarURL: u.AvatarURL}
}

// RecentBattle is a battle seen from one participant.
type RecentBattle struct {
	game.Battle
	Opponent *UserSummary `json:"opponent"`
	Won      bool         `json:"won"`
}

// Battles runs battle creation and turn resolution. Work on one battle is
// serialized through a per-battle lock; different battles proceed in
// parallel.
type Battles struct {
	repo      storage.Repository
	engine    *engine.Engine
	locks     *keylock.Locker
	publisher Publisher
	tracer    trace.Tracer
	now       func() time.Time
}

// NewBattles wires the battle service. A nil publisher drops updates.
func NewBattles(repo storage.Repository, eng *engine.Engine, publisher Publisher) *Battles {
	if publisher == nil {
		publisher = nopPublisher{}
	}
	return &Battles{
		repo:      repo,
		engine:    eng,
		locks:     keylock.New(),
		publisher: publisher,
		tracer:    telemetry.Tracer(),
		now:       time.Now,
	}
}

// Start creates an active battle between two players with their chosen
// characters. player1 moves first.
func (s *Battles) Start(ctx context.Context, player1ID, player2ID, character1ID, character2ID uint) (*BattleView, error) {
	ctx, span := s.tracer.Start(ctx, "battles.start")
	defer span.End()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if player1ID == player2ID {
		return nil, invalidState(ReasonSamePlayers)
	}

	var view *BattleView
	err := s.repo.Transaction(func(tx storage.Repository) error {
		for _, id := range []uint{player1ID, player2ID} {
			if err := requireUser(tx, id); err != nil {
				return err
			}
		}
		for _, id := range []uint{character1ID, character2ID} {
			if err := requireCharacter(tx, id); err != nil {
				return err
			}
		}
		var err error
		view, err = createBattle(tx, player1ID, player2ID, character1ID, character2ID)
		return err
	})
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int64("battle.id", int64(view.Battle.ID)))
	s.publisher.Publish(view.Battle.Clone(), view.State.Clone())
	return view, nil
}

// createBattle stores a new active battle and its opening state.
func createBattle(tx storage.Repository, player1ID, player2ID, character1ID, character2ID uint) (*BattleView, error) {
	b := &game.Battle{
		Player1ID:          player1ID,
		Player2ID:          player2ID,
		Player1CharacterID: character1ID,
		Player2CharacterID: character2ID,
		Status:             game.BattleActive,
	}
	st := game.NewBattleState(b)
	b.BattleLog = append(b.BattleLog, st.BattleLog...)
	if err := tx.CreateBattle(b, st); err != nil {
		return nil, err
	}
	return &BattleView{Battle: b, State: st}, nil
}

// Get returns a battle and its state.
func (s *Battles) Get(ctx context.Context, battleID uint) (*BattleView, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := s.repo.GetBattle(battleID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, notFound("battle", battleID)
	}
	st, err := s.repo.GetBattleState(battleID)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, notFound("battle state", battleID)
	}
	return &BattleView{Battle: b, State: st}, nil
}

// ResolveAction applies the acting user's move to the battle and returns
// the new state. Everything is validated before anything is written; the
// battle, its state and, when the action ends the battle, both players'
// rewards are persisted in one transaction.
func (s *Battles) ResolveAction(ctx context.Context, battleID, actorID uint, action game.BattleAction) (*game.BattleState, error) {
	ctx, span := s.tracer.Start(ctx, "battles.resolve_action", trace.WithAttributes(
		attribute.Int64("battle.id", int64(battleID)),
		attribute.Int64("actor.id", int64(actorID)),
		attribute.String("action.type", string(action.Type)),
	))
	defer span.End()

	unlock := s.locks.Lock(battleID)
	defer unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		battle *game.Battle
		state  *game.BattleState
		out    engine.Outcome
	)
	err := s.repo.Transaction(func(tx storage.Repository) error {
		var err error
		battle, err = tx.GetBattle(battleID)
		if err != nil {
			return err
		}
		if battle == nil {
			return notFound("battle", battleID)
		}
		state, err = tx.GetBattleState(battleID)
		if err != nil {
			return err
		}
		if state == nil {
			return notFound("battle state", battleID)
		}
		if state.Status == game.BattleCompleted || battle.Status == game.BattleCompleted {
			return invalidState(ReasonBattleCompleted)
		}
		if !battle.HasPlayer(actorID) {
			return forbidden(ReasonNotParticipant)
		}
		if state.CurrentPlayerID != actorID {
			return forbidden(ReasonNotYourTurn)
		}

		act, cooldown, err := bindMove(tx, battle, actorID, action)
		if err != nil {
			return err
		}
		names, err := loadNames(tx, battle)
		if err != nil {
			return err
		}

		out, err = s.engine.Resolve(engine.Request{
			Battle:       battle,
			State:        state,
			Action:       act,
			MoveCooldown: cooldown,
			Names:        names,
			Now:          s.now(),
		})
		if err != nil {
			return fromEngine(err)
		}

		if out.Completed {
			if _, err := SettleBattle(tx, battle); err != nil {
				return err
			}
		}
		if err := tx.SaveBattle(battle); err != nil {
			return err
		}
		return tx.SaveBattleState(state)
	})
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("battle.turn", state.CurrentTurn),
		attribute.Bool("battle.completed", out.Completed),
	)
	s.publisher.Publish(battle.Clone(), state.Clone())
	return state, nil
}

// bindMove resolves the submitted move against the actor's character. A
// move id must belong to the actor's character; a bare name that matches
// no catalog move is resolved without a cooldown.
func bindMove(tx storage.Repository, b *game.Battle, actorID uint, a game.BattleAction) (game.BattleAction, int, error) {
	characterID := b.Player1CharacterID
	if actorID == b.Player2ID {
		characterID = b.Player2CharacterID
	}
	moves, err := tx.GetMovesByCharacterID(characterID)
	if err != nil {
		return a, 0, err
	}
	if a.MoveID != nil {
		for _, m := range moves {
			if m.ID == *a.MoveID {
				if a.MoveName == "" {
					a.MoveName = m.Name
				}
				return a, m.Cooldown, nil
			}
		}
		return a, 0, &InvalidStateError{Reason: "move does not belong to your character"}
	}
	for _, m := range moves {
		if strings.EqualFold(m.Name, strings.TrimSpace(a.MoveName)) {
			return a, m.Cooldown, nil
		}
	}
	return a, 0, nil
}

func loadNames(tx storage.Repository, b *game.Battle) (engine.Names, error) {
	var names engine.Names
	c1, err := tx.GetCharacter(b.Player1CharacterID)
	if err != nil {
		return names, err
	}
	c2, err := tx.GetCharacter(b.Player2CharacterID)
	if err != nil {
		return names, err
	}
	u1, err := tx.GetUser(b.Player1ID)
	if err != nil {
		return names, err
	}
	u2, err := tx.GetUser(b.Player2ID)
	if err != nil {
		return names, err
	}
	if c1 != nil {
		names.Player1Character = c1.Name
	}
	if c2 != nil {
		names.Player2Character = c2.Name
	}
	if u1 != nil {
		names.Player1Username = u1.Username
	}
	if u2 != nil {
		names.Player2Username = u2.Username
	}
	return names, nil
}

// Recent returns the user's latest battles with the opponent attached.
func (s *Battles) Recent(ctx context.Context, userID uint, limit int) ([]RecentBattle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	battles, err := s.repo.ListUserBattles(userID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]RecentBattle, 0, len(battles))
	for _, b := range battles {
		opp, err := s.repo.GetUser(b.OpponentOf(userID))
		if err != nil {
			return nil, err
		}
		out = append(out, RecentBattle{
			Battle:   b,
			Opponent: summarize(opp),
			Won:      b.WinnerID != nil && *b.WinnerID == userID,
		})
	}
	return out, nil
}

// Result summarizes a completed battle for one of its participants.
func (s *Battles) Result(ctx context.Context, battleID, userID uint) (*game.BattleResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := s.repo.GetBattle(battleID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, notFound("battle", battleID)
	}
	if !b.HasPlayer(userID) {
		return nil, forbidden(ReasonNotParticipant)
	}
	if b.Status != game.BattleCompleted {
		return nil, invalidState(ReasonBattleNotFinished)
	}
	me, err := s.repo.GetUser(userID)
	if err != nil {
		return nil, err
	}
	opp, err := s.repo.GetUser(b.OpponentOf(userID))
	if err != nil {
		return nil, err
	}

	won := b.WinnerID != nil && *b.WinnerID == userID
	res := &game.BattleResult{
		BattleID:         b.ID,
		Won:              won,
		OpponentID:       b.OpponentOf(userID),
		XPGained:         LoserXP,
		RankPointsChange: LoserRankPoints,
		TotalTurns:       b.Turns,
	}
	if won {
		res.XPGained, res.RankPointsChange = WinnerXP, WinnerRankPoints
	}
	if opp != nil {
		res.OpponentName = opp.Username
	}
	if me != nil {
		res.CharacterLevel = me.Level
		res.CharacterExperience = me.Experience
		if me.Level > 0 {
			res.LevelProgress = me.Experience * 100 / (me.Level * XPPerLevel)
		}
	}
	if userID == b.Player1ID {
		res.DamageDealt, res.DamageTaken = b.Player1Damage, b.Player2Damage
		res.CriticalHits, res.Healing, res.StatusEffects = b.Player1CriticalHits, b.Player1Healing, b.Player1StatusEffects
	} else {
		res.DamageDealt, res.DamageTaken = b.Player2Damage, b.Player1Damage
		res.CriticalHits, res.Healing, res.StatusEffects = b.Player2CriticalHits, b.Player2Healing, b.Player2StatusEffects
	}
	return res, nil
}

func requireUser(repo storage.Repository, id uint) error {
	u, err := repo.GetUser(id)
	if err != nil {
		return err
	}
	if u == nil {
		return notFound("user", id)
	}
	return nil
}

func requireCharacter(repo storage.Repository, id uint) error {
	c, err := repo.GetCharacter(id)
	if err != nil {
		return err
	}
	if c == nil {
		return notFound("character", id)
	}
	return nil
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
