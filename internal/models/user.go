package models

import (
	"strings"
	"time"
)

// UserProfile is the public forum profile stored under users/{uid}.
// Stars is mutated only by the engagement transaction or by reconciliation.
type UserProfile struct {
	ID          string    `json:"id" firestore:"-"`
	DisplayName string    `json:"displayName" firestore:"displayName"`
	Email       string    `json:"email" firestore:"email"`
	Stars       int       `json:"stars" firestore:"stars"`
	PostCount   int       `json:"postCount" firestore:"postCount"`
	CreatedAt   time.Time `json:"createdAt" firestore:"createdAt"`
}

// Credential is a login record persisted in users.json. Legacy entries may
// carry a plaintext Pass field; the startup migration replaces it with Hash.
type Credential struct {
	UID       string    `json:"uid"`
	User      string    `json:"user"`
	Hash      string    `json:"hash,omitempty"`
	Pass      string    `json:"pass,omitempty"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type LoginRequest struct {
	User string `json:"user"`
	Pass string `json:"pass"`
}

type CreateUserRequest struct {
	User string `json:"user"`
	Pass string `json:"pass"`
	Name string `json:"name"`
}

// LoginResponse mirrors the shape the web client expects from POST /api/login.
type LoginResponse struct {
	OK    bool      `json:"ok"`
	User  LoginUser `json:"user"`
	Token string    `json:"token"`
}

type LoginUser struct {
	User string `json:"user"`
	Name string `json:"name,omitempty"`
}

func (r *LoginRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if strings.TrimSpace(r.User) == "" {
		errors["user"] = "User is required"
	}
	if r.Pass == "" {
		errors["pass"] = "Password is required"
	}

	return errors
}

func (r *CreateUserRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if strings.TrimSpace(r.User) == "" {
		errors["user"] = "User is required"
	}
	if r.Pass == "" {
		errors["pass"] = "Password is required"
	} else if len(r.Pass) < 6 {
		errors["pass"] = "Password must be at least 6 characters"
	}

	return errors
}
