package models

import (
	"strings"
	"time"
)

// FeedbackEntry is one rating submission. At most one entry per user per
// rolling 24h window, enforced against the server-side CreatedAt.
type FeedbackEntry struct {
	ID          string       `json:"id" bson:"_id,omitempty"`
	UserID      string       `json:"userId" bson:"user_id"`
	Rating      int          `json:"rating" bson:"rating"`
	Comment     string       `json:"comment" bson:"comment"`
	City        string       `json:"city,omitempty" bson:"city,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty" bson:"coordinates,omitempty"`
	CreatedAt   time.Time    `json:"createdAt" bson:"created_at"`
}

type Coordinates struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lng float64 `json:"lng" bson:"lng"`
}

type SubmitFeedbackRequest struct {
	Rating      int          `json:"rating"`
	Comment     string       `json:"comment"`
	City        string       `json:"city"`
	Coordinates *Coordinates `json:"coordinates"`
}

func (r *SubmitFeedbackRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Rating < 1 || r.Rating > 5 {
		errors["rating"] = "Rating must be between 1 and 5"
	}
	if strings.TrimSpace(r.Comment) == "" {
		errors["comment"] = "Comment is required"
	}

	return errors
}
