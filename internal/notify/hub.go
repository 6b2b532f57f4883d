// Package notify keeps the latest snapshot of every live battle and fans
// updates out to polling and websocket clients.
package notify

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lyfstyl-ux/fightcaster/internal/dedupe"
	"github.com/lyfstyl-ux/fightcaster/internal/game"
	"github.com/lyfstyl-ux/fightcaster/internal/keys"
	"github.com/lyfstyl-ux/fightcaster/internal/logging"
)

// ErrUnknownBattle is returned by Latest when neither the cache nor the
// loader knows the battle.
var ErrUnknownBattle = errors.New("battle not found")

// subscriberBuffer is how many updates a slow subscriber may fall behind
// before further updates are dropped for it.
const subscriberBuffer = 8

// Update is one battle snapshot as delivered to clients.
type Update struct {
	Battle      *game.Battle      `json:"battle"`
	State       *game.BattleState `json:"battleState"`
	LastUpdated time.Time         `json:"lastUpdated"`
}

// Loader reads a battle and its state from storage. A nil state means the
// battle does not exist.
type Loader func(battleID uint) (*game.Battle, *game.BattleState, error)

type subscriber struct {
	id   uuid.UUID
	send chan Update
}

// Hub caches the newest snapshot per battle and pushes it to subscribers.
// It satisfies service.Publisher.
type Hub struct {
	mu     sync.RWMutex
	latest map[uint]Update
	subs   map[uint]map[uuid.UUID]*subscriber

	load  Loader
	loads dedupe.Group[Update]
	now   func() time.Time
}

func NewHub(load Loader) *Hub {
	return &Hub{
		latest: make(map[uint]Update),
		subs:   make(map[uint]map[uuid.UUID]*subscriber),
		load:   load,
		now:    time.Now,
	}
}

// Publish records the snapshot as the newest for its battle and offers it
// to every subscriber without blocking.
func (h *Hub) Publish(b *game.Battle, s *game.BattleState) {
	if s == nil {
		return
	}
	id := s.BattleID
	h.mu.Lock()
	u := Update{Battle: b, State: s, LastUpdated: h.now()}
	if u.Battle == nil {
		// keep the battle record from an earlier publish
		u.Battle = h.latest[id].Battle
	}
	h.latest[id] = u
	// Sends happen under the lock so cancel cannot close a channel mid-send.
	for _, sub := range h.subs[id] {
		select {
		case sub.send <- u:
		default:
			logging.Debug("dropped update for slow subscriber", logging.Fields{
				"battle_id":     id,
				"subscriber_id": sub.id.String(),
			})
		}
	}
	h.mu.Unlock()
}

// Latest returns the cached snapshot, loading it from storage on a miss.
// Concurrent misses for the same battle share one load.
func (h *Hub) Latest(battleID uint) (Update, error) {
	h.mu.RLock()
	u, ok := h.latest[battleID]
	h.mu.RUnlock()
	if ok {
		return u, nil
	}
	if h.load == nil {
		return Update{}, ErrUnknownBattle
	}

	loaded, err := h.loads.Do(keys.Battle(battleID), func() (Update, error) {
		b, s, err := h.load(battleID)
		if err != nil {
			return Update{}, err
		}
		if s == nil {
			return Update{}, ErrUnknownBattle
		}
		return Update{Battle: b, State: s, LastUpdated: h.now()}, nil
	})
	if err != nil {
		return Update{}, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	// A publish that raced the load wins.
	if cur, ok := h.latest[battleID]; ok {
		return cur, nil
	}
	h.latest[battleID] = loaded
	return loaded, nil
}

// Subscribe registers for updates of one battle. cancel must be called
// once the caller stops reading; it closes the channel.
func (h *Hub) Subscribe(battleID uint) (id uuid.UUID, updates <-chan Update, cancel func()) {
	sub := &subscriber{id: uuid.New(), send: make(chan Update, subscriberBuffer)}
	h.mu.Lock()
	if h.subs[battleID] == nil {
		h.subs[battleID] = make(map[uuid.UUID]*subscriber)
	}
	h.subs[battleID][sub.id] = sub
	h.mu.Unlock()

	var once sync.Once
	cancel = func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs[battleID], sub.id)
			if len(h.subs[battleID]) == 0 {
				delete(h.subs, battleID)
			}
			h.mu.Unlock()
			close(sub.send)
		})
	}
	return sub.id, sub.send, cancel
}

// Subscribers reports how many clients follow a battle.
func (h *Hub) Subscribers(battleID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[battleID])
}
