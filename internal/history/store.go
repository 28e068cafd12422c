package history

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
)

// DefaultKey is the name of the entry that holds the history list.
const DefaultKey = "quizHistory"

// KV is a minimal key-value backend. Get reports ok=false for a missing key.
type KV interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Put(ctx context.Context, key string, value []byte) error
}

// Store keeps the full history as one JSON array under a single key. Every
// write is a whole-list read-modify-write; a single writer is assumed.
type Store struct {
	kv     KV
	key    string
	logger *slog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithKey overrides DefaultKey.
func WithKey(key string) StoreOption {
	return func(s *Store) { s.key = key }
}

// WithLogger sets the logger used for recoverable problems.
func WithLogger(l *slog.Logger) StoreOption {
	return func(s *Store) { s.logger = l }
}

// NewStore creates a Store over kv.
func NewStore(kv KV, opts ...StoreOption) *Store {
	s := &Store{
		kv:     kv,
		key:    DefaultKey,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the entry name.
func (s *Store) Key() string { return s.key }

// LoadAll returns every result in append order. A missing entry or an
// entry that is not a valid JSON array yields an empty list.
func (s *Store) LoadAll(ctx context.Context) ([]Result, error) {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	if !ok || len(raw) == 0 {
		return []Result{}, nil
	}

	var results []Result
	if err := json.Unmarshal(raw, &results); err != nil {
		s.logger.Warn("history entry is malformed, treating as empty",
			"key", s.key, "error", err)
		return []Result{}, nil
	}
	if results == nil {
		results = []Result{}
	}
	return results, nil
}

// Append adds r to the end of the history. A result whose non-empty ID is
// already present is ignored, so re-recording a finished session is a no-op.
func (s *Store) Append(ctx context.Context, r Result) error {
	results, err := s.LoadAll(ctx)
	if err != nil {
		return err
	}
	if r.ID != "" && slices.ContainsFunc(results, func(x Result) bool { return x.ID == r.ID }) {
		s.logger.Debug("result already recorded", "id", r.ID)
		return nil
	}
	if r.MissedTopics == nil {
		r.MissedTopics = []string{}
	}
	return s.write(ctx, append(results, r))
}

// Replace overwrites the history with results.
func (s *Store) Replace(ctx context.Context, results []Result) error {
	if results == nil {
		results = []Result{}
	}
	return s.write(ctx, results)
}

// Clear empties the history.
func (s *Store) Clear(ctx context.Context) error {
	return s.write(ctx, []Result{})
}

func (s *Store) write(ctx context.Context, results []Result) error {
	raw, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := s.kv.Put(ctx, s.key, raw); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	return nil
}
