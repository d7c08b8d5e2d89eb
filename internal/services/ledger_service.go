package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/alertify/backend/internal/models"
)

var (
	ErrPostNotFound  = errors.New("post not found")
	ErrUserNotFound  = errors.New("user not found")
	ErrAlreadyActed  = errors.New("user already acted on this post")
	ErrNotRegistered = errors.New("caller has no registered profile")
	ErrEmptyContent  = errors.New("content is empty")
	ErrInvalidKind   = errors.New("invalid engagement kind")
)

// engagementReward is the reputation awarded to a post's author for one
// engagement action. Likes and stars are weighted identically.
const engagementReward = 1

// reconcileBatchSize stays under the backing store's 500-write atomic batch
// limit.
const reconcileBatchSize = 450

// UserTotals is one user's recomputed reputation totals.
type UserTotals struct {
	UserID    string
	Stars     int
	PostCount int
}

// LedgerStore is the persistence contract for the reputation ledger.
// ApplyEngagement must perform its three writes (counter, author stars,
// action record) atomically and reject a second action for the same
// (postID, userID) pair with ErrAlreadyActed.
type LedgerStore interface {
	CreateUser(ctx context.Context, u *models.UserProfile) error
	GetUser(ctx context.Context, id string) (*models.UserProfile, error)
	ListUsers(ctx context.Context) ([]*models.UserProfile, error)
	SetUserStars(ctx context.Context, id string, stars int) error
	// ApplyUserTotals overwrites stars and postCount for every listed user
	// in a single atomic write set. Callers keep batches within the store's
	// write-set limit.
	ApplyUserTotals(ctx context.Context, totals []UserTotals) error

	CreatePost(ctx context.Context, p *models.Post) error
	GetPost(ctx context.Context, id string) (*models.Post, error)
	ListPosts(ctx context.Context, location string, limit int) ([]*models.Post, error)
	ListAllPosts(ctx context.Context) ([]*models.Post, error)

	AddComment(ctx context.Context, c *models.Comment) error
	ListComments(ctx context.Context, postID string) ([]*models.Comment, error)

	ApplyEngagement(ctx context.Context, postID, userID string, kind models.EngagementKind) (*models.EngagementResult, error)
}

// LedgerService implements the forum reputation rules on top of a
// LedgerStore.
type LedgerService struct {
	store LedgerStore
	clock clockwork.Clock
}

func NewLedgerService(store LedgerStore) *LedgerService {
	return &LedgerService{
		store: store,
		clock: clockwork.NewRealClock(),
	}
}

// SetClock swaps the time source. Tests inject a fake for deterministic
// timestamps.
func (s *LedgerService) SetClock(c clockwork.Clock) {
	if c == nil {
		s.clock = clockwork.NewRealClock()
		return
	}
	s.clock = c
}

// RegisterProfile creates the forum profile for a newly registered identity.
func (s *LedgerService) RegisterProfile(ctx context.Context, id, displayName, email string) (*models.UserProfile, error) {
	profile := &models.UserProfile{
		ID:          id,
		DisplayName: displayName,
		Email:       email,
		CreatedAt:   s.clock.Now().UTC(),
	}
	if err := s.store.CreateUser(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// GetProfile returns a user's profile.
func (s *LedgerService) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	return s.store.GetUser(ctx, userID)
}

// CreatePost publishes a post for a registered author. Guests (no profile)
// are rejected.
func (s *LedgerService) CreatePost(ctx context.Context, authorID, content, location string) (*models.Post, error) {
	if authorID == "" {
		return nil, ErrNotRegistered
	}
	if _, err := s.store.GetUser(ctx, authorID); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrNotRegistered
		}
		return nil, err
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	if location == "" {
		location = "General"
	}

	post := &models.Post{
		ID:        uuid.New().String(),
		AuthorID:  authorID,
		Content:   content,
		Location:  location,
		CreatedAt: s.clock.Now().UTC(),
	}
	if err := s.store.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// GetPost returns a single post by id.
func (s *LedgerService) GetPost(ctx context.Context, id string) (*models.Post, error) {
	return s.store.GetPost(ctx, id)
}

// ListPosts returns the most recent posts, optionally filtered by location.
func (s *LedgerService) ListPosts(ctx context.Context, location string, limit int) ([]*models.Post, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.store.ListPosts(ctx, location, limit)
}

// ApplyEngagement records a like or star. The store performs the three
// constituent writes as one atomic unit; a second action by the same user on
// the same post is rejected with ErrAlreadyActed and leaves all state
// untouched. Transactional failures surface to the caller unchanged — the
// operation is never replayed piecemeal.
func (s *LedgerService) ApplyEngagement(ctx context.Context, postID, userID string, kind models.EngagementKind) (*models.EngagementResult, error) {
	if userID == "" {
		return nil, ErrNotRegistered
	}
	if kind != models.EngagementLike && kind != models.EngagementStar {
		return nil, ErrInvalidKind
	}
	return s.store.ApplyEngagement(ctx, postID, userID, kind)
}

// AddComment appends a comment to a post.
func (s *LedgerService) AddComment(ctx context.Context, postID, authorID, body string) (*models.Comment, error) {
	if authorID == "" {
		return nil, ErrNotRegistered
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrEmptyContent
	}
	if _, err := s.store.GetPost(ctx, postID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ID:        uuid.New().String(),
		PostID:    postID,
		AuthorID:  authorID,
		Body:      body,
		CreatedAt: s.clock.Now().UTC(),
	}
	if err := s.store.AddComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// ListComments returns a post's comments ordered by creation time ascending.
func (s *LedgerService) ListComments(ctx context.Context, postID string) ([]*models.Comment, error) {
	if _, err := s.store.GetPost(ctx, postID); err != nil {
		return nil, err
	}
	return s.store.ListComments(ctx, postID)
}

// ReconcileAllUsers recomputes every user's stars as the sum of
// (likeCount+starCount) across their posts and postCount as the number of
// authored posts, overwriting the stored totals. Writes go out in batches of
// at most reconcileBatchSize; each batch commit is independently durable, so
// an interrupted run is safely resumable by re-running. Returns the number
// of users whose stored totals differed.
func (s *LedgerService) ReconcileAllUsers(ctx context.Context, dryRun bool) (int, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return 0, err
	}
	posts, err := s.store.ListAllPosts(ctx)
	if err != nil {
		return 0, err
	}

	stars := make(map[string]int)
	postCount := make(map[string]int)
	for _, p := range posts {
		if p.AuthorID == "" {
			continue // orphaned post
		}
		stars[p.AuthorID] += p.LikeCount + p.StarCount
		postCount[p.AuthorID]++
	}

	var changed []UserTotals
	for _, u := range users {
		desired := UserTotals{
			UserID:    u.ID,
			Stars:     stars[u.ID],
			PostCount: postCount[u.ID],
		}
		if u.Stars == desired.Stars && u.PostCount == desired.PostCount {
			continue
		}
		if dryRun {
			log.Printf("[reconcile] [DRY] would set users/%s stars=%d postCount=%d", u.ID, desired.Stars, desired.PostCount)
		}
		changed = append(changed, desired)
	}

	if dryRun {
		return len(changed), nil
	}

	for start := 0; start < len(changed); start += reconcileBatchSize {
		end := start + reconcileBatchSize
		if end > len(changed) {
			end = len(changed)
		}
		if err := s.store.ApplyUserTotals(ctx, changed[start:end]); err != nil {
			return start, err
		}
	}
	return len(changed), nil
}

// ResetUserStars unconditionally zeroes a user's reputation.
func (s *LedgerService) ResetUserStars(ctx context.Context, userID string) error {
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		return err
	}
	return s.store.SetUserStars(ctx, userID, 0)
}
