package devserver

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"qoralist/internal/models"
)

// ErrNotFound is returned when a record is absent or owned by someone else.
var ErrNotFound = errors.New("record not found")

// ErrInvalidCredentials is returned for unknown users or wrong passwords.
var ErrInvalidCredentials = errors.New("invalid credentials")

type user struct {
	summary  models.UserSummary
	password string
}

// Store is the in-memory persistence backing the development server.
type Store struct {
	mu      sync.RWMutex
	users   map[string]user // keyed by username
	records map[string]models.Record
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		users:   make(map[string]user),
		records: make(map[string]models.Record),
	}
}

// AddUser registers a user with a password for login.
func (s *Store) AddUser(summary models.UserSummary, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[summary.Username] = user{summary: summary, password: password}
}

// Authenticate checks credentials and returns the matching user summary.
func (s *Store) Authenticate(username, password string) (*models.UserSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[username]
	if !ok || u.password != password {
		return nil, ErrInvalidCredentials
	}
	summary := u.summary
	return &summary, nil
}

// UserByUsername returns the summary of a known user.
func (s *Store) UserByUsername(username string) (*models.UserSummary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[username]
	if !ok {
		return nil, false
	}
	summary := u.summary
	return &summary, true
}

// SearchRecord finds a record by exact passport seriya and code match.
// Returns nil when nothing matches; search is not scoped to an owner.
func (s *Store) SearchRecord(seriya, code string) *models.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range s.records {
		if string(rec.PassportSeriya) == seriya && rec.PassportCode == code {
			found := rec
			return &found
		}
	}
	return nil
}

// RecordsByUser returns the records created by the given user.
func (s *Store) RecordsByUser(userID string) []models.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Record
	for _, rec := range s.records {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	return out
}

// CreateRecord stores a new record owned by the given user.
func (s *Store) CreateRecord(owner models.UserSummary, data models.CreateRecordData) models.Record {
	rec := models.Record{
		ID:             uuid.NewString(),
		Name:           data.Name,
		Surname:        data.Surname,
		PassportSeriya: models.PassportSeriya(data.PassportSeriya),
		PassportCode:   data.PassportCode,
		Type:           models.RecordType(data.Type),
		UserID:         owner.ID,
		User:           &owner,
		CreatedAt:      time.Now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.ID] = rec
	return rec
}

// DeleteRecord removes a record owned by userID. Deleting a record that
// does not exist, or that belongs to another user, yields ErrNotFound.
func (s *Store) DeleteRecord(userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok || rec.UserID != userID {
		return ErrNotFound
	}
	delete(s.records, id)
	return nil
}

// SeedDemo loads a couple of users and records for local runs.
func (s *Store) SeedDemo() {
	admin := models.UserSummary{ID: uuid.NewString(), Name: "Admin", Username: "admin", Phone: "+998901234567", Role: "admin"}
	seller := models.UserSummary{ID: uuid.NewString(), Name: "Olim Karimov", Username: "olim", Phone: "+998907654321"}
	s.AddUser(admin, "admin123")
	s.AddUser(seller, "olim123")

	s.CreateRecord(admin, models.CreateRecordData{
		Name: "Ali", Surname: "Valiyev", PassportSeriya: "AD", PassportCode: "1234567", Type: "NasiyaMijoz",
	})
	// Search uses 6-digit codes, so seed one record findable by that flow.
	s.mu.Lock()
	rec := models.Record{
		ID:             uuid.NewString(),
		Name:           "Bobur",
		Surname:        "Toshmatov",
		PassportSeriya: models.SeriyaAB,
		PassportCode:   "654321",
		Type:           models.TypePulTolamagan,
		UserID:         seller.ID,
		User:           &seller,
		CreatedAt:      time.Now().UTC(),
	}
	s.records[rec.ID] = rec
	s.mu.Unlock()
}
