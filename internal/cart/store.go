package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"

	"github.com/divinobizcochito/storefront-backend/pkg/types"
)

// ErrCorruptPayload marks a cart key whose stored JSON no longer decodes.
// Callers treat it as an empty cart but can log the reset.
var ErrCorruptPayload = errors.New("corrupt cart payload")

type kvStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

type cartKeyer interface {
	CartKey(userID string) string
}

// Store persists each user's cart as one JSON array under one Redis key,
// always read and written wholesale.
type Store struct {
	kv    kvStore
	keyer cartKeyer
}

// NewStore builds a cart store over the provided Redis client.
func NewStore(kv kvStore, keyer cartKeyer) (*Store, error) {
	if kv == nil {
		return nil, fmt.Errorf("kv store required")
	}
	if keyer == nil {
		return nil, fmt.Errorf("cart keyer required")
	}
	return &Store{kv: kv, keyer: keyer}, nil
}

// Load returns the persisted lines. A missing key is an empty cart; a
// payload that fails to decode returns an empty cart plus ErrCorruptPayload.
func (s *Store) Load(ctx context.Context, owner uuid.UUID) (types.CartLines, error) {
	raw, err := s.kv.Get(ctx, s.keyer.CartKey(owner.String()))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return types.CartLines{}, nil
		}
		return nil, fmt.Errorf("loading cart: %w", err)
	}

	var lines types.CartLines
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		return types.CartLines{}, fmt.Errorf("%w: %v", ErrCorruptPayload, err)
	}
	if lines == nil {
		lines = types.CartLines{}
	}
	return lines, nil
}

// Save replaces the whole cart with the provided lines.
func (s *Store) Save(ctx context.Context, owner uuid.UUID, lines types.CartLines) error {
	if lines == nil {
		lines = types.CartLines{}
	}
	encoded, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("encoding cart: %w", err)
	}
	if err := s.kv.Set(ctx, s.keyer.CartKey(owner.String()), string(encoded), 0); err != nil {
		return fmt.Errorf("saving cart: %w", err)
	}
	return nil
}

// Clear deletes the cart key.
func (s *Store) Clear(ctx context.Context, owner uuid.UUID) error {
	if err := s.kv.Del(ctx, s.keyer.CartKey(owner.String())); err != nil {
		return fmt.Errorf("clearing cart: %w", err)
	}
	return nil
}
