package storage

import (
	"path/filepath"
	"testing"
)

func TestSQLiteStore(t *testing.T) {
	p := filepath.Join(t.TempDir(), "store.db")
	s, err := NewSQLiteStore(p)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	defer s.Close()
	testStore(t, s)
}
