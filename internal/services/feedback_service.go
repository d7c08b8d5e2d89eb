package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/alertify/backend/internal/models"
)

var (
	ErrRateLimited     = errors.New("feedback already submitted in the last 24 hours")
	ErrUnauthenticated = errors.New("caller is not authenticated")
)

// feedbackCooldown is the rolling window within which a user may submit at
// most one entry.
const feedbackCooldown = 24 * time.Hour

// FeedbackStore persists feedback entries. LastByUser returns the most
// recent entry for a user, or nil when none exists.
type FeedbackStore interface {
	Insert(ctx context.Context, entry *models.FeedbackEntry) error
	LastByUser(ctx context.Context, userID string) (*models.FeedbackEntry, error)
	ListRecent(ctx context.Context, limit int) ([]*models.FeedbackEntry, error)
}

// FeedbackService enforces the one-per-24h rule. An in-process last-seen map
// serves as an advisory fast path; the store query against the persisted
// timestamp is the source of truth and always runs before a write commits.
type FeedbackService struct {
	store FeedbackStore
	clock clockwork.Clock

	mu       sync.Mutex
	lastSeen map[string]time.Time
}

func NewFeedbackService(store FeedbackStore) *FeedbackService {
	return &FeedbackService{
		store:    store,
		clock:    clockwork.NewRealClock(),
		lastSeen: make(map[string]time.Time),
	}
}

func (s *FeedbackService) SetClock(c clockwork.Clock) {
	if c == nil {
		s.clock = clockwork.NewRealClock()
		return
	}
	s.clock = c
}

// Submit records a feedback entry for the user, rejecting a second entry
// within the cooldown window.
func (s *FeedbackService) Submit(ctx context.Context, userID string, req *models.SubmitFeedbackRequest) (*models.FeedbackEntry, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	now := s.clock.Now().UTC()

	// Advisory check only: it can reject early using our own previous
	// accept, but an absent or stale entry here never grants permission.
	s.mu.Lock()
	last, seen := s.lastSeen[userID]
	s.mu.Unlock()
	if seen && now.Sub(last) < feedbackCooldown {
		return nil, ErrRateLimited
	}

	// Authoritative check against the persisted timestamp.
	prev, err := s.store.LastByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if prev != nil && now.Sub(prev.CreatedAt) < feedbackCooldown {
		return nil, ErrRateLimited
	}

	entry := &models.FeedbackEntry{
		ID:          uuid.New().String(),
		UserID:      userID,
		Rating:      req.Rating,
		Comment:     req.Comment,
		City:        req.City,
		Coordinates: req.Coordinates,
		CreatedAt:   now,
	}
	if err := s.store.Insert(ctx, entry); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.lastSeen[userID] = now
	s.mu.Unlock()

	return entry, nil
}

// ListRecent returns the newest entries, most recent first.
func (s *FeedbackService) ListRecent(ctx context.Context, limit int) ([]*models.FeedbackEntry, error) {
	if limit <= 0 {
		limit = 12
	}
	return s.store.ListRecent(ctx, limit)
}

// MemoryFeedbackStore is the in-process FeedbackStore used when no Mongo URI
// is configured, and in tests.
type MemoryFeedbackStore struct {
	mu      sync.RWMutex
	entries []*models.FeedbackEntry
}

func NewMemoryFeedbackStore() *MemoryFeedbackStore {
	return &MemoryFeedbackStore{}
}

func (s *MemoryFeedbackStore) Insert(ctx context.Context, entry *models.FeedbackEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *entry
	s.entries = append(s.entries, &cp)
	return nil
}

func (s *MemoryFeedbackStore) LastByUser(ctx context.Context, userID string) (*models.FeedbackEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var last *models.FeedbackEntry
	for _, e := range s.entries {
		if e.UserID != userID {
			continue
		}
		if last == nil || e.CreatedAt.After(last.CreatedAt) {
			last = e
		}
	}
	if last == nil {
		return nil, nil
	}
	cp := *last
	return &cp, nil
}

func (s *MemoryFeedbackStore) ListRecent(ctx context.Context, limit int) ([]*models.FeedbackEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.FeedbackEntry, 0, len(s.entries))
	for _, e := range s.entries {
		cp := *e
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
