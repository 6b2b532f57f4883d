package game

import (
	"time"

	"gorm.io/gorm"
)

// Character is an immutable fighter definition seeded from the catalog.
type Character struct {
	ID                     uint   `json:"id" gorm:"primaryKey"`
	Name                   string `json:"name" gorm:"uniqueIndex"`
	Class                  string `json:"characterClass"`
	Rarity                 Rarity `json:"rarity"`
	Attack                 int    `json:"attack"`
	Defense                int    `json:"defense"`
	Speed                  int    `json:"speed"`
	SpecialMove            string `json:"specialMove"`
	SpecialMoveDescription string `json:"specialMoveDescription"`
	ImageURL               string `json:"imageUrl"`
	// Moves is populated when seeding and by the character detail endpoint.
	Moves []Move `json:"moves,omitempty" gorm:"foreignKey:CharacterID"`
}

// TableName keeps the catalog in `character_templates` so it reads apart
// from per-battle data.
func (Character) TableName() string { return "character_templates" }

// Move belongs to exactly one character. Damage is a "min-max" inclusive
// range and is nil for non-damaging moves.
type Move struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	CharacterID uint    `json:"characterId" gorm:"uniqueIndex:idx_move_character_name"`
	Name        string  `json:"name" gorm:"uniqueIndex:idx_move_character_name"`
	Damage      *string `json:"damage"`
	Effect      *string `json:"effect"`
	Description string  `json:"description"`
	// Cooldown is the number of the owner's own turns before the move can be
	// used again. Zero means always available.
	Cooldown int `json:"cooldown"`
}

func (Move) TableName() string { return "character_moves" }

// User is a player identity plus progression.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	FID          string    `json:"fid" gorm:"column:fid;uniqueIndex"`
	Username     string    `json:"username" gorm:"uniqueIndex"`
	DisplayName  string    `json:"displayName"`
	VerifiedName string    `json:"verifiedName,omitempty"`
	AvatarURL    string    `json:"avatarUrl,omitempty"`
	Level        int       `json:"level" gorm:"default:1"`
	Experience   int       `json:"experience"`
	RankPoints   int       `json:"rankPoints"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (User) TableName() string { return "player_profiles" }

// BeforeSave keeps progression fields inside their documented bounds no
// matter which code path wrote them.
func (u *User) BeforeSave(tx *gorm.DB) (err error) {
	u.ClampProgress()
	return nil
}

// ClampProgress enforces level >= 1 and rank points >= 0.
func (u *User) ClampProgress() {
	if u.Level < 1 {
		u.Level = 1
	}
	if u.Experience < 0 {
		u.Experience = 0
	}
	if u.RankPoints < 0 {
		u.RankPoints = 0
	}
}

// Challenge is an invitation from one user to another.
type Challenge struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	ChallengerID uint            `json:"challengerId" gorm:"index"`
	ChallengedID uint            `json:"challengedId" gorm:"index"`
	CharacterID  uint            `json:"characterId"`
	Status       ChallengeStatus `json:"status" gorm:"index"`
	// BattleID is set once the challenge has been accepted.
	BattleID  *uint     `json:"battleId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Clone returns a deep copy.
func (c *Challenge) Clone() *Challenge {
	if c == nil {
		return nil
	}
	out := *c
	out.BattleID = cloneUint(c.BattleID)
	return &out
}

// Clone returns a deep copy.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	out := *u
	return &out
}

// Clone returns a deep copy including moves.
func (c *Character) Clone() *Character {
	if c == nil {
		return nil
	}
	out := *c
	if c.Moves != nil {
		out.Moves = make([]Move, len(c.Moves))
		for i := range c.Moves {
			out.Moves[i] = c.Moves[i].clone()
		}
	}
	return &out
}

func (m Move) clone() Move {
	m.Damage = cloneString(m.Damage)
	m.Effect = cloneString(m.Effect)
	return m
}

func cloneUint(p *uint) *uint {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// CloneMoves deep-copies a move list.
func CloneMoves(in []Move) []Move {
	if in == nil {
		return nil
	}
	out := make([]Move, len(in))
	for i := range in {
		out[i] = in[i].clone()
	}
	return out
}
