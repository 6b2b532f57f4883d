package storage

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lyfstyl-ux/fightcaster/internal/game"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type sqliteRepository struct {
	db *gorm.DB
}

func NewSQLiteRepository(db *gorm.DB) Repository {
	return &sqliteRepository{db: db}
}

// first loads a single row by primary key and maps "not found" to (nil, nil).
func first[T any](db *gorm.DB, id uint) (*T, error) {
	var v T
	if err := db.First(&v, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}

func (r *sqliteRepository) GetBattle(id uint) (*game.Battle, error) {
	return first[game.Battle](r.db, id)
}

func (r *sqliteRepository) GetBattleState(battleID uint) (*game.BattleState, error) {
	var s game.BattleState
	if err := r.db.Where("battle_id = ?", battleID).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *sqliteRepository) SaveBattle(b *game.Battle) error {
	return r.db.Save(b).Error
}

func (r *sqliteRepository) SaveBattleState(s *game.BattleState) error {
	return r.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(s).Error
}

func (r *sqliteRepository) GetUser(id uint) (*game.User, error) {
	return first[game.User](r.db, id)
}

func (r *sqliteRepository) SaveUser(u *game.User) error {
	return r.db.Save(u).Error
}

func (r *sqliteRepository) CreateUser(u *game.User) error {
	return uniqueUserError(r.db.Create(u).Error)
}

// uniqueUserError maps SQLite unique index failures on the users table to
// the storage sentinels.
func uniqueUserError(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case !strings.Contains(msg, "UNIQUE constraint failed"):
		return err
	case strings.Contains(msg, ".fid"):
		return fmt.Errorf("%w: %v", ErrDuplicateUser, err)
	case strings.Contains(msg, ".username"):
		return fmt.Errorf("%w: %v", ErrUsernameTaken, err)
	}
	return err
}

func (r *sqliteRepository) GetUserByFID(fid string) (*game.User, error) {
	var u game.User
	if err := r.db.Where("fid = ?", fid).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *sqliteRepository) ListUsers() ([]game.User, error) {
	var users []game.User
	if err := r.db.Order("id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Leaderboard returns top N users ordered by rank points desc, then level desc.
func (r *sqliteRepository) Leaderboard(limit int) ([]game.User, error) {
	if limit <= 0 {
		limit = 10
	}
	var users []game.User
	if err := r.db.Model(&game.User{}).
		Order("rank_points DESC").
		Order("level DESC").
		Order("id ASC").
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *sqliteRepository) GetCharacter(id uint) (*game.Character, error) {
	return first[game.Character](r.db, id)
}

func (r *sqliteRepository) GetMovesByCharacterID(characterID uint) ([]game.Move, error) {
	var moves []game.Move
	if err := r.db.Where("character_id = ?", characterID).Order("id ASC").Find(&moves).Error; err != nil {
		return nil, err
	}
	return moves, nil
}

func (r *sqliteRepository) ListCharacters() ([]game.Character, error) {
	var chars []game.Character
	if err := r.db.Order("id ASC").Find(&chars).Error; err != nil {
		return nil, err
	}
	return chars, nil
}

// SeedCatalog upserts characters by name and their moves by
// (character, name). The config file stays the source of truth for stats
// while IDs referenced by existing battles survive restarts.
func (r *sqliteRepository) SeedCatalog(characters []game.Character) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, c := range characters {
			row := c
			row.ID = 0
			row.Moves = nil
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "name"}},
				DoUpdates: clause.AssignmentColumns([]string{"class", "rarity", "attack", "defense", "speed", "special_move", "special_move_description", "image_url"}),
			}).Create(&row).Error; err != nil {
				return fmt.Errorf("seed character %s: %w", c.Name, err)
			}
			var stored game.Character
			if err := tx.Where("name = ?", c.Name).First(&stored).Error; err != nil {
				return fmt.Errorf("reload character %s: %w", c.Name, err)
			}
			for _, m := range c.Moves {
				mv := m
				mv.ID = 0
				mv.CharacterID = stored.ID
				if err := tx.Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "character_id"}, {Name: "name"}},
					DoUpdates: clause.AssignmentColumns([]string{"damage", "effect", "description", "cooldown"}),
				}).Create(&mv).Error; err != nil {
					return fmt.Errorf("seed move %s/%s: %w", c.Name, m.Name, err)
				}
			}
		}
		return nil
	})
}

func (r *sqliteRepository) CreateBattle(b *game.Battle, s *game.BattleState) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(b).Error; err != nil {
			return err
		}
		s.BattleID = b.ID
		return tx.Create(s).Error
	})
}

func (r *sqliteRepository) ListUserBattles(userID uint, limit int) ([]game.Battle, error) {
	q := r.db.Where("player1_id = ? OR player2_id = ?", userID, userID).
		Order("created_at DESC").
		Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var battles []game.Battle
	if err := q.Find(&battles).Error; err != nil {
		return nil, err
	}
	return battles, nil
}

func (r *sqliteRepository) GetChallenge(id uint) (*game.Challenge, error) {
	return first[game.Challenge](r.db, id)
}

func (r *sqliteRepository) SaveChallenge(c *game.Challenge) error {
	return r.db.Save(c).Error
}

func (r *sqliteRepository) CreateChallenge(c *game.Challenge) error {
	return r.db.Create(c).Error
}

func (r *sqliteRepository) ListPendingChallenges(userID uint) ([]game.Challenge, error) {
	var out []game.Challenge
	if err := r.db.Where("challenged_id = ? AND status = ?", userID, game.ChallengePending).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *sqliteRepository) ListStaleChallenges(before time.Time) ([]game.Challenge, error) {
	var out []game.Challenge
	if err := r.db.Where("status = ? AND created_at < ?", game.ChallengePending, before).
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *sqliteRepository) Transaction(fn func(tx Repository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&sqliteRepository{db: tx})
	})
}
