package services

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/alertify/backend/internal/models"
)

const (
	usersCollection = "users"
	postsCollection = "forum_posts"

	actionsSubcollection  = "actions"
	commentsSubcollection = "comments"
)

// FirestoreLedgerStore is the server-authoritative LedgerStore. Engagement
// writes run inside a Firestore transaction, which retries the whole unit on
// conflicting concurrent writes; reconciliation totals go out through write
// batches.
type FirestoreLedgerStore struct {
	client *firestore.Client
}

// NewFirestoreLedgerStore connects to Firestore via the Firebase Admin SDK.
// credentialsJSON may be empty, in which case application-default
// credentials are used.
func NewFirestoreLedgerStore(ctx context.Context, projectID, credentialsJSON string) (*FirestoreLedgerStore, error) {
	if projectID == "" {
		return nil, fmt.Errorf("firestore ledger: project ID is required")
	}

	var opts []option.ClientOption
	if credentialsJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(credentialsJSON)))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firestore ledger: init app: %w", err)
	}
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("firestore ledger: init client: %w", err)
	}

	return &FirestoreLedgerStore{client: client}, nil
}

func (s *FirestoreLedgerStore) Close() error {
	return s.client.Close()
}

func (s *FirestoreLedgerStore) CreateUser(ctx context.Context, u *models.UserProfile) error {
	_, err := s.client.Collection(usersCollection).Doc(u.ID).Set(ctx, u)
	return err
}

func (s *FirestoreLedgerStore) GetUser(ctx context.Context, id string) (*models.UserProfile, error) {
	snap, err := s.client.Collection(usersCollection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	var u models.UserProfile
	if err := snap.DataTo(&u); err != nil {
		return nil, err
	}
	u.ID = snap.Ref.ID
	return &u, nil
}

func (s *FirestoreLedgerStore) ListUsers(ctx context.Context) ([]*models.UserProfile, error) {
	var users []*models.UserProfile

	it := s.client.Collection(usersCollection).Documents(ctx)
	defer it.Stop()
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		var u models.UserProfile
		if err := snap.DataTo(&u); err != nil {
			return nil, err
		}
		u.ID = snap.Ref.ID
		users = append(users, &u)
	}
	return users, nil
}

func (s *FirestoreLedgerStore) SetUserStars(ctx context.Context, id string, stars int) error {
	_, err := s.client.Collection(usersCollection).Doc(id).Update(ctx, []firestore.Update{
		{Path: "stars", Value: stars},
	})
	if status.Code(err) == codes.NotFound {
		return ErrUserNotFound
	}
	return err
}

func (s *FirestoreLedgerStore) ApplyUserTotals(ctx context.Context, totals []UserTotals) error {
	batch := s.client.Batch()
	for _, t := range totals {
		ref := s.client.Collection(usersCollection).Doc(t.UserID)
		batch.Update(ref, []firestore.Update{
			{Path: "stars", Value: t.Stars},
			{Path: "postCount", Value: t.PostCount},
		})
	}
	_, err := batch.Commit(ctx)
	return err
}

func (s *FirestoreLedgerStore) CreatePost(ctx context.Context, p *models.Post) error {
	batch := s.client.Batch()
	batch.Set(s.client.Collection(postsCollection).Doc(p.ID), p)
	batch.Update(s.client.Collection(usersCollection).Doc(p.AuthorID), []firestore.Update{
		{Path: "postCount", Value: firestore.Increment(1)},
	})
	_, err := batch.Commit(ctx)
	return err
}

func (s *FirestoreLedgerStore) GetPost(ctx context.Context, id string) (*models.Post, error) {
	snap, err := s.client.Collection(postsCollection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}

	var p models.Post
	if err := snap.DataTo(&p); err != nil {
		return nil, err
	}
	p.ID = snap.Ref.ID
	return &p, nil
}

func (s *FirestoreLedgerStore) ListPosts(ctx context.Context, location string, limit int) ([]*models.Post, error) {
	q := s.client.Collection(postsCollection).Query
	if location != "" {
		q = q.Where("location", "==", location)
	}
	q = q.OrderBy("createdAt", firestore.Desc).Limit(limit)

	return collectPosts(q.Documents(ctx))
}

func (s *FirestoreLedgerStore) ListAllPosts(ctx context.Context) ([]*models.Post, error) {
	return collectPosts(s.client.Collection(postsCollection).Documents(ctx))
}

func collectPosts(it *firestore.DocumentIterator) ([]*models.Post, error) {
	defer it.Stop()

	var posts []*models.Post
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		var p models.Post
		if err := snap.DataTo(&p); err != nil {
			return nil, err
		}
		p.ID = snap.Ref.ID
		posts = append(posts, &p)
	}
	return posts, nil
}

func (s *FirestoreLedgerStore) AddComment(ctx context.Context, c *models.Comment) error {
	ref := s.client.Collection(postsCollection).Doc(c.PostID).
		Collection(commentsSubcollection).Doc(c.ID)
	_, err := ref.Create(ctx, c)
	return err
}

func (s *FirestoreLedgerStore) ListComments(ctx context.Context, postID string) ([]*models.Comment, error) {
	it := s.client.Collection(postsCollection).Doc(postID).
		Collection(commentsSubcollection).
		OrderBy("createdAt", firestore.Asc).
		Documents(ctx)
	defer it.Stop()

	var comments []*models.Comment
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		var c models.Comment
		if err := snap.DataTo(&c); err != nil {
			return nil, err
		}
		c.ID = snap.Ref.ID
		comments = append(comments, &c)
	}
	return comments, nil
}

// ApplyEngagement runs the three writes as one Firestore transaction: the
// action record keyed by the acting user, the post counter, and the author
// reward either all commit or none do. Firestore retries the closure on
// write conflicts, so concurrent actors on the same post serialize cleanly.
func (s *FirestoreLedgerStore) ApplyEngagement(ctx context.Context, postID, userID string, kind models.EngagementKind) (*models.EngagementResult, error) {
	var result models.EngagementResult

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		postRef := s.client.Collection(postsCollection).Doc(postID)
		postSnap, err := tx.Get(postRef)
		if status.Code(err) == codes.NotFound {
			return ErrPostNotFound
		}
		if err != nil {
			return err
		}
		var post models.Post
		if err := postSnap.DataTo(&post); err != nil {
			return err
		}

		actionRef := postRef.Collection(actionsSubcollection).Doc(userID)
		_, err = tx.Get(actionRef)
		if err == nil {
			return ErrAlreadyActed
		}
		if status.Code(err) != codes.NotFound {
			return err
		}

		authorRef := s.client.Collection(usersCollection).Doc(post.AuthorID)
		authorSnap, err := tx.Get(authorRef)
		if status.Code(err) == codes.NotFound {
			return ErrUserNotFound
		}
		if err != nil {
			return err
		}
		var author models.UserProfile
		if err := authorSnap.DataTo(&author); err != nil {
			return err
		}

		counterField := "likeCount"
		result = models.EngagementResult{
			LikeCount:      post.LikeCount + 1,
			StarCount:      post.StarCount,
			AuthorNewStars: author.Stars + engagementReward,
		}
		if kind == models.EngagementStar {
			counterField = "starCount"
			result.LikeCount = post.LikeCount
			result.StarCount = post.StarCount + 1
		}

		if err := tx.Update(postRef, []firestore.Update{
			{Path: counterField, Value: firestore.Increment(1)},
		}); err != nil {
			return err
		}
		if err := tx.Update(authorRef, []firestore.Update{
			{Path: "stars", Value: firestore.Increment(engagementReward)},
		}); err != nil {
			return err
		}
		return tx.Create(actionRef, models.EngagementAction{
			PostID:    postID,
			UserID:    userID,
			Kind:      kind,
			CreatedAt: time.Now().UTC(),
		})
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
