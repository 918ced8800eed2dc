package auth

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type memRepo struct{ shoppers []Shopper }

func (m *memRepo) LoadAll() ([]Shopper, error) { return append([]Shopper{}, m.shoppers...), nil }
func (m *memRepo) Upsert(s Shopper) error {
	for i, x := range m.shoppers {
		if x.ID == s.ID {
			m.shoppers[i] = s
			return nil
		}
	}
	m.shoppers = append(m.shoppers, s)
	return nil
}
func (m *memRepo) Remove(id int64) error {
	out := make([]Shopper, 0, len(m.shoppers))
	for _, x := range m.shoppers {
		if x.ID != id {
			out = append(out, x)
		}
	}
	m.shoppers = out
	return nil
}

func TestServiceLoginAlwaysSucceeds(t *testing.T) {
	repo := &memRepo{shoppers: []Shopper{{ID: 10, Username: "alice"}}}
	svc, err := NewWithRepo(repo)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if !svc.Known(10) {
		t.Fatalf("repo preload not effective")
	}

	for _, creds := range []Credentials{{}, {Email: "x"}, {Email: "bob@example.com", Password: "wrong"}} {
		if _, err := svc.Login(20, "bob", creds); err != nil {
			t.Fatalf("login with %+v rejected: %v", creds, err)
		}
	}
	if !svc.Known(20) || len(repo.shoppers) != 2 {
		t.Fatalf("login not recorded: %+v", repo.shoppers)
	}

	if err := svc.Forget(10); err != nil {
		t.Fatalf("forget: %v", err)
	}
	if svc.Known(10) || len(svc.List()) != 1 {
		t.Fatalf("forget not effective")
	}
}

func TestServiceLoginKeepsEmail(t *testing.T) {
	svc, _ := NewWithRepo(nil)
	if _, err := svc.Login(1, "u", Credentials{Email: " u@example.com "}); err != nil {
		t.Fatalf("login: %v", err)
	}
	sh, _ := svc.Login(1, "u", Credentials{})
	if sh.Email != "u@example.com" {
		t.Fatalf("email lost on repeat login: %+v", sh)
	}
}

func TestServiceListOrder(t *testing.T) {
	svc, _ := NewWithRepo(nil)
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	svc.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}
	_, _ = svc.Login(1, "first", Credentials{})
	_, _ = svc.Login(2, "second", Credentials{})
	lst := svc.List()
	if len(lst) != 2 || lst[0].ID != 2 || lst[1].ID != 1 {
		t.Fatalf("want most recent first, got %+v", lst)
	}
}

func TestFileRepository_CRUD(t *testing.T) {
	p := filepath.Join(t.TempDir(), "data", "shoppers.json")
	repo, err := NewFileRepository(p)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if got, err := repo.LoadAll(); err != nil || len(got) != 0 {
		t.Fatalf("fresh repo: %+v %v", got, err)
	}

	if err := repo.Upsert(Shopper{ID: 1, Username: "alice"}); err != nil {
		t.Fatalf("upsert1: %v", err)
	}
	if err := repo.Upsert(Shopper{ID: 2, Username: "bob"}); err != nil {
		t.Fatalf("upsert2: %v", err)
	}
	if err := repo.Upsert(Shopper{ID: 1, Username: "alice2"}); err != nil {
		t.Fatalf("upsert3: %v", err)
	}
	items, err := repo.LoadAll()
	if err != nil || len(items) != 2 || items[0].Username != "alice2" {
		t.Fatalf("unexpected items: %+v %v", items, err)
	}

	if err := repo.Remove(1); err != nil {
		t.Fatalf("remove: %v", err)
	}
	items, _ = repo.LoadAll()
	if len(items) != 1 || items[0].ID != 2 {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestFileRepository_MalformedStartsFresh(t *testing.T) {
	p := filepath.Join(t.TempDir(), "shoppers.json")
	if err := os.WriteFile(p, []byte("{oops"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	repo, _ := NewFileRepository(p)
	items, err := repo.LoadAll()
	if err != nil || len(items) != 0 {
		t.Fatalf("want empty, got %+v %v", items, err)
	}
	if err := repo.Upsert(Shopper{ID: 3}); err != nil {
		t.Fatalf("upsert after corruption: %v", err)
	}
}
