package auth

import (
	"time"

	"github.com/todolabs/todolist/internal/cache"
	tokens "github.com/todolabs/todolist/internal/security/token"
)

// MobileStatePrefix marks a state issued to a mobile client. The callback
// controller uses it to pick the deep-link delivery channel; the state store
// treats the whole string, prefix included, as the key.
const MobileStatePrefix = "mobile_"

const stateKeyPrefix = "oauth:state:"

// StateStore issues and consumes one-shot anti-CSRF states, backed by the
// cache so TTL expiry is free.
type StateStore struct {
	cache cache.Cache
	ttl   time.Duration
}

func NewStateStore(c cache.Cache, ttl time.Duration) *StateStore {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &StateStore{cache: c, ttl: ttl}
}

// Issue generates a fresh state bound to the provider. The prefix (empty for
// web clients, MobileStatePrefix for mobile ones) becomes part of the stored
// key, so exactly one state exists per call and stripping the prefix does
// not yield a second consumable one.
func (s *StateStore) Issue(provider, prefix string) (string, error) {
	state, err := tokens.GenerateOpaqueToken(16)
	if err != nil {
		return "", err
	}
	state = prefix + state
	s.cache.Set(stateKeyPrefix+provider+":"+state, []byte{1}, s.ttl)
	return state, nil
}

// Remember stores an externally shaped state (e.g. a mobile-prefixed one).
func (s *StateStore) Remember(provider, state string) {
	s.cache.Set(stateKeyPrefix+provider+":"+state, []byte{1}, s.ttl)
}

// Consume checks a state and burns it. A state is valid exactly once.
func (s *StateStore) Consume(provider, state string) bool {
	key := stateKeyPrefix + provider + ":" + state
	if _, ok := s.cache.Get(key); !ok {
		return false
	}
	s.cache.Delete(key)
	return true
}
