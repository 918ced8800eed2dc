package auth

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// Shopper is someone who has logged in at least once.
type Shopper struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	LastLogin time.Time `json:"last_login"`
}

// Credentials is what the login form collects. Nothing checks it.
type Credentials struct {
	Email    string
	Password string
}

type Repository interface {
	LoadAll() ([]Shopper, error)
	Upsert(shopper Shopper) error
	Remove(shopperID int64) error
}

// Service accepts every login and remembers who logged in.
// There is no account system behind it: a real deployment must put
// credential verification in front of Login.
type Service struct {
	repo     Repository
	now      func() time.Time
	mu       sync.RWMutex
	shoppers map[int64]Shopper
}

func NewWithRepo(repo Repository) (*Service, error) {
	s := &Service{repo: repo, now: time.Now, shoppers: make(map[int64]Shopper)}
	if repo != nil {
		users, err := repo.LoadAll()
		if err == nil {
			for _, u := range users {
				s.shoppers[u.ID] = u
			}
		}
	}
	return s, nil
}

// Login records the shopper and always succeeds.
func (s *Service) Login(id int64, username string, creds Credentials) (Shopper, error) {
	sh := Shopper{
		ID:        id,
		Username:  username,
		Email:     strings.TrimSpace(creds.Email),
		LastLogin: s.now().UTC(),
	}
	s.mu.Lock()
	if prev, ok := s.shoppers[id]; ok && sh.Email == "" {
		sh.Email = prev.Email
	}
	s.shoppers[id] = sh
	s.mu.Unlock()
	if s.repo != nil {
		return sh, s.repo.Upsert(sh)
	}
	return sh, nil
}

func (s *Service) Known(id int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.shoppers[id]
	return ok
}

func (s *Service) Forget(id int64) error {
	s.mu.Lock()
	delete(s.shoppers, id)
	s.mu.Unlock()
	if s.repo != nil {
		return s.repo.Remove(id)
	}
	return nil
}

// List returns shoppers ordered by most recent login.
func (s *Service) List() []Shopper {
	s.mu.RLock()
	out := make([]Shopper, 0, len(s.shoppers))
	for _, u := range s.shoppers {
		out = append(out, u)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].LastLogin.After(out[j].LastLogin) })
	return out
}
