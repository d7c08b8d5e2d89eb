package services

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/alertify/backend/internal/models"
	"github.com/alertify/backend/internal/storage"
)

var ErrEmptyReminderText = errors.New("reminder text is empty")

// ReminderService keeps per-user calendar reminders in a JSON file, the
// server-side counterpart of the client's old localStorage list. Toggle and
// remove on an unknown id are deliberate no-ops.
type ReminderService struct {
	mu        sync.RWMutex
	reminders map[string][]*models.Reminder // userID -> reminders
	file      *storage.JSONStore
	clock     clockwork.Clock
}

func NewReminderService(dataDir string) (*ReminderService, error) {
	s := &ReminderService{
		reminders: make(map[string][]*models.Reminder),
		clock:     clockwork.NewRealClock(),
	}

	if dataDir != "" {
		file, err := storage.NewJSONStore(dataDir, "reminders.json")
		if err != nil {
			return nil, err
		}
		s.file = file
		if err := file.Load(&s.reminders); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (s *ReminderService) SetClock(c clockwork.Clock) {
	if c == nil {
		s.clock = clockwork.NewRealClock()
		return
	}
	s.clock = c
}

func (s *ReminderService) persist() error {
	if s.file == nil {
		return nil
	}
	return s.file.Save(s.reminders)
}

// Add appends a reminder for the user.
func (s *ReminderService) Add(userID string, req *models.AddReminderRequest) (*models.Reminder, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, ErrEmptyReminderText
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	reminder := &models.Reminder{
		ID:        uuid.New().String(),
		Text:      req.Text,
		Date:      req.Date,
		Location:  req.Location,
		CreatedAt: s.clock.Now().UTC(),
	}
	s.reminders[userID] = append(s.reminders[userID], reminder)

	if err := s.persist(); err != nil {
		return nil, err
	}
	cp := *reminder
	return &cp, nil
}

// List returns all of a user's reminders, oldest first.
func (s *ReminderService) List(userID string) []*models.Reminder {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Reminder, 0, len(s.reminders[userID]))
	for _, r := range s.reminders[userID] {
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// ListUpcoming returns reminders strictly after referenceDate and strictly
// before referenceDate+horizonDays, ascending by date.
func (s *ReminderService) ListUpcoming(userID string, referenceDate time.Time, horizonDays int) []*models.Reminder {
	s.mu.RLock()
	defer s.mu.RUnlock()

	horizon := referenceDate.AddDate(0, 0, horizonDays)

	var out []*models.Reminder
	for _, r := range s.reminders[userID] {
		if r.Date.After(referenceDate) && r.Date.Before(horizon) {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// ToggleCompleted flips a reminder's completed flag. Unknown ids are
// ignored.
func (s *ReminderService) ToggleCompleted(userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.reminders[userID] {
		if r.ID == id {
			r.Completed = !r.Completed
			return s.persist()
		}
	}
	return nil
}

// Remove deletes a reminder. Unknown ids are ignored.
func (s *ReminderService) Remove(userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.reminders[userID]
	for i, r := range list {
		if r.ID == id {
			s.reminders[userID] = append(list[:i], list[i+1:]...)
			return s.persist()
		}
	}
	return nil
}
