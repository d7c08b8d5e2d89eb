package services

import (
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/alertify/backend/internal/models"
	"github.com/alertify/backend/internal/storage"
)

var (
	ErrUserExists = errors.New("user already registered")
	// ErrInvalidCredentials covers both unknown identifier and wrong
	// password, so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// UserService is the credential side of the auth gateway: bcrypt-hashed
// secrets in a users.json file, identifiers matched case-insensitively.
type UserService struct {
	mu     sync.RWMutex
	users  []*models.Credential
	byUser map[string]*models.Credential // lowercased identifier -> record
	file   *storage.JSONStore
}

// NewUserService loads the credential file and upgrades any legacy
// plaintext-password records to hashed form before the service is used. The
// migration runs exactly once, at construction, so the gateway never serves
// traffic with plaintext secrets on disk.
func NewUserService(dataDir string) (*UserService, error) {
	s := &UserService{
		byUser: make(map[string]*models.Credential),
	}

	if dataDir != "" {
		file, err := storage.NewJSONStore(dataDir, "users.json")
		if err != nil {
			return nil, err
		}
		s.file = file
		if err := file.Load(&s.users); err != nil {
			return nil, err
		}
	}

	if err := s.migrateLegacy(); err != nil {
		return nil, err
	}

	for _, u := range s.users {
		s.byUser[strings.ToLower(u.User)] = u
	}

	return s, nil
}

// migrateLegacy upgrades records written by older deployments: missing UIDs
// are minted and plaintext Pass fields are replaced with bcrypt hashes. Both
// upgrades land in the same save, so a UID minted here survives restarts and
// keeps issued tokens and ledger profiles attached to the same user.
func (s *UserService) migrateLegacy() error {
	changed := false
	for _, u := range s.users {
		if u.UID == "" {
			u.UID = uuid.New().String()
			changed = true
		}
		if u.Pass == "" {
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Pass), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		u.Hash = string(hash)
		u.Pass = ""
		changed = true
	}
	if changed {
		log.Printf("[auth] migrated legacy credential records")
		return s.persist()
	}
	return nil
}

func (s *UserService) persist() error {
	if s.file == nil {
		return nil
	}
	return s.file.Save(s.users)
}

// Register creates a credential record. The secret is stored only as a
// bcrypt hash.
func (s *UserService) Register(req *models.CreateUserRequest) (*models.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(strings.TrimSpace(req.User))
	if _, exists := s.byUser[key]; exists {
		return nil, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Pass), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	cred := &models.Credential{
		UID:       uuid.New().String(),
		User:      strings.TrimSpace(req.User),
		Hash:      string(hash),
		Name:      req.Name,
		CreatedAt: time.Now().UTC(),
	}
	s.users = append(s.users, cred)
	s.byUser[key] = cred

	if err := s.persist(); err != nil {
		return nil, err
	}
	return cred, nil
}

// Login verifies a credential pair. Unknown identifier and wrong password
// are indistinguishable to the caller.
func (s *UserService) Login(req *models.LoginRequest) (*models.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cred, exists := s.byUser[strings.ToLower(strings.TrimSpace(req.User))]
	if !exists {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cred.Hash), []byte(req.Pass)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return cred, nil
}

// GetByUID returns the credential record for a user id.
func (s *UserService) GetByUID(uid string) (*models.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.UID == uid {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}
