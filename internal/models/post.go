package models

import (
	"strings"
	"time"
)

// Post is a forum post. Content is immutable after creation; the counters
// are only ever touched by the engagement transaction or reconciliation.
type Post struct {
	ID        string    `json:"id" firestore:"-"`
	AuthorID  string    `json:"authorId" firestore:"authorId"`
	Content   string    `json:"content" firestore:"content"`
	Location  string    `json:"location" firestore:"location"`
	LikeCount int       `json:"likeCount" firestore:"likeCount"`
	StarCount int       `json:"starCount" firestore:"starCount"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
}

// Comment lives in the comments subcollection of its post. Append-only.
type Comment struct {
	ID        string    `json:"id" firestore:"-"`
	PostID    string    `json:"postId" firestore:"postId"`
	AuthorID  string    `json:"authorId" firestore:"authorId"`
	Body      string    `json:"body" firestore:"body"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
}

// EngagementKind distinguishes the two engagement actions. Both award the
// author the same fixed reputation reward.
type EngagementKind string

const (
	EngagementLike EngagementKind = "like"
	EngagementStar EngagementKind = "star"
)

// EngagementAction records that a user acted on a post, keyed by
// (postID, userID). At most one action per pair.
type EngagementAction struct {
	PostID    string         `json:"postId" firestore:"postId"`
	UserID    string         `json:"userId" firestore:"userId"`
	Kind      EngagementKind `json:"kind" firestore:"kind"`
	CreatedAt time.Time      `json:"createdAt" firestore:"createdAt"`
}

// EngagementResult reports the post counters and the author's reputation
// after a successful engagement transaction.
type EngagementResult struct {
	LikeCount      int `json:"likeCount"`
	StarCount      int `json:"starCount"`
	AuthorNewStars int `json:"authorNewStars"`
}

type CreatePostRequest struct {
	Content  string `json:"content"`
	Location string `json:"location"`
}

type CreateCommentRequest struct {
	Body string `json:"body"`
}

func (r *CreatePostRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if strings.TrimSpace(r.Content) == "" {
		errors["content"] = "Content is required"
	}

	return errors
}
