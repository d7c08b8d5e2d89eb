package services

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/alertify/backend/internal/models"
	"github.com/alertify/backend/internal/storage"
)

// FileLedgerStore is a LedgerStore backed by in-memory maps with optional
// JSON-file persistence. It is the fallback when no Firestore project is
// configured, and the store the tests run against. A single mutex guards
// every mutation, which makes the engagement triple-write atomic to any
// reader.
type FileLedgerStore struct {
	mu       sync.RWMutex
	users    map[string]*models.UserProfile
	posts    map[string]*models.Post
	actions  map[string]map[string]*models.EngagementAction // postID -> userID -> action
	comments map[string][]*models.Comment                   // postID -> ordered comments
	file     *storage.JSONStore
}

// ledgerSnapshot is the on-disk shape of the ledger file.
type ledgerSnapshot struct {
	Users    map[string]*models.UserProfile             `json:"users"`
	Posts    map[string]*models.Post                    `json:"posts"`
	Actions  map[string]map[string]*models.EngagementAction `json:"actions"`
	Comments map[string][]*models.Comment               `json:"comments"`
}

// NewFileLedgerStore creates a ledger store persisted under dataDir. An
// empty dataDir keeps the store purely in memory.
func NewFileLedgerStore(dataDir string) (*FileLedgerStore, error) {
	s := &FileLedgerStore{
		users:    make(map[string]*models.UserProfile),
		posts:    make(map[string]*models.Post),
		actions:  make(map[string]map[string]*models.EngagementAction),
		comments: make(map[string][]*models.Comment),
	}

	if dataDir != "" {
		file, err := storage.NewJSONStore(dataDir, "forum.json")
		if err != nil {
			return nil, err
		}
		s.file = file

		if !file.Exists() {
			log.Printf("[ledger] no forum file under %s, starting empty", dataDir)
		}
		var snap ledgerSnapshot
		if err := file.Load(&snap); err != nil {
			return nil, err
		}
		if snap.Users != nil {
			s.users = snap.Users
		}
		if snap.Posts != nil {
			s.posts = snap.Posts
		}
		if snap.Actions != nil {
			s.actions = snap.Actions
		}
		if snap.Comments != nil {
			s.comments = snap.Comments
		}
		for id, u := range s.users {
			u.ID = id
		}
		for id, p := range s.posts {
			p.ID = id
		}
	}

	return s, nil
}

func (s *FileLedgerStore) persist() error {
	if s.file == nil {
		return nil
	}
	return s.file.Save(ledgerSnapshot{
		Users:    s.users,
		Posts:    s.posts,
		Actions:  s.actions,
		Comments: s.comments,
	})
}

func (s *FileLedgerStore) CreateUser(ctx context.Context, u *models.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *u
	s.users[u.ID] = &cp
	return s.persist()
}

func (s *FileLedgerStore) GetUser(ctx context.Context, id string) (*models.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, exists := s.users[id]
	if !exists {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *FileLedgerStore) ListUsers(ctx context.Context) ([]*models.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]*models.UserProfile, 0, len(s.users))
	for _, u := range s.users {
		cp := *u
		users = append(users, &cp)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (s *FileLedgerStore) SetUserStars(ctx context.Context, id string, stars int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, exists := s.users[id]
	if !exists {
		return ErrUserNotFound
	}
	u.Stars = stars
	return s.persist()
}

func (s *FileLedgerStore) ApplyUserTotals(ctx context.Context, totals []UserTotals) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range totals {
		u, exists := s.users[t.UserID]
		if !exists {
			return ErrUserNotFound
		}
		u.Stars = t.Stars
		u.PostCount = t.PostCount
	}
	return s.persist()
}

func (s *FileLedgerStore) CreatePost(ctx context.Context, p *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *p
	s.posts[p.ID] = &cp
	if u, exists := s.users[p.AuthorID]; exists {
		u.PostCount++
	}
	return s.persist()
}

func (s *FileLedgerStore) GetPost(ctx context.Context, id string) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.posts[id]
	if !exists {
		return nil, ErrPostNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *FileLedgerStore) ListPosts(ctx context.Context, location string, limit int) ([]*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	posts := make([]*models.Post, 0, len(s.posts))
	for _, p := range s.posts {
		if location != "" && p.Location != location {
			continue
		}
		cp := *p
		posts = append(posts, &cp)
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].CreatedAt.After(posts[j].CreatedAt) })
	if len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

func (s *FileLedgerStore) ListAllPosts(ctx context.Context) ([]*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	posts := make([]*models.Post, 0, len(s.posts))
	for _, p := range s.posts {
		cp := *p
		posts = append(posts, &cp)
	}
	return posts, nil
}

func (s *FileLedgerStore) AddComment(ctx context.Context, c *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.posts[c.PostID]; !exists {
		return ErrPostNotFound
	}
	cp := *c
	s.comments[c.PostID] = append(s.comments[c.PostID], &cp)
	return s.persist()
}

func (s *FileLedgerStore) ListComments(ctx context.Context, postID string) ([]*models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.comments[postID]
	out := make([]*models.Comment, 0, len(list))
	for _, c := range list {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// ApplyEngagement performs the counter increment, author reward, and action
// record under one lock so the three writes are indivisible. A second action
// for the same (post, user) pair fails before anything is touched.
func (s *FileLedgerStore) ApplyEngagement(ctx context.Context, postID, userID string, kind models.EngagementKind) (*models.EngagementResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, exists := s.posts[postID]
	if !exists {
		return nil, ErrPostNotFound
	}
	if _, acted := s.actions[postID][userID]; acted {
		return nil, ErrAlreadyActed
	}
	author, exists := s.users[post.AuthorID]
	if !exists {
		return nil, ErrUserNotFound
	}

	switch kind {
	case models.EngagementStar:
		post.StarCount++
	default:
		post.LikeCount++
	}
	author.Stars += engagementReward

	if s.actions[postID] == nil {
		s.actions[postID] = make(map[string]*models.EngagementAction)
	}
	s.actions[postID][userID] = &models.EngagementAction{
		PostID:    postID,
		UserID:    userID,
		Kind:      kind,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.persist(); err != nil {
		// Roll back so memory state never diverges from disk.
		switch kind {
		case models.EngagementStar:
			post.StarCount--
		default:
			post.LikeCount--
		}
		author.Stars -= engagementReward
		delete(s.actions[postID], userID)
		return nil, err
	}

	return &models.EngagementResult{
		LikeCount:      post.LikeCount,
		StarCount:      post.StarCount,
		AuthorNewStars: author.Stars,
	}, nil
}
