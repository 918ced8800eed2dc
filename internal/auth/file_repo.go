package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// FileRepository stores shoppers as an indented JSON array.
type FileRepository struct {
	path string
	mu   sync.Mutex
}

func NewFileRepository(path string) (*FileRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure dir: %w", err)
	}
	return &FileRepository{path: path}, nil
}

func (r *FileRepository) LoadAll() ([]Shopper, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.read()
}

func (r *FileRepository) Upsert(shopper Shopper) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	shoppers, err := r.read()
	if err != nil {
		return err
	}
	replaced := false
	for i := range shoppers {
		if shoppers[i].ID == shopper.ID {
			shoppers[i] = shopper
			replaced = true
			break
		}
	}
	if !replaced {
		shoppers = append(shoppers, shopper)
	}
	return r.write(shoppers)
}

func (r *FileRepository) Remove(shopperID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	shoppers, err := r.read()
	if err != nil {
		return err
	}
	kept := shoppers[:0]
	for _, s := range shoppers {
		if s.ID != shopperID {
			kept = append(kept, s)
		}
	}
	return r.write(kept)
}

// read treats a missing, empty or malformed file as no shoppers.
func (r *FileRepository) read() ([]Shopper, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return []Shopper{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read shoppers: %w", err)
	}
	shoppers := []Shopper{}
	if len(data) == 0 {
		return shoppers, nil
	}
	if err := json.Unmarshal(data, &shoppers); err != nil {
		log.Printf("shoppers file %s is malformed, starting fresh: %v", r.path, err)
		return []Shopper{}, nil
	}
	return shoppers, nil
}

func (r *FileRepository) write(shoppers []Shopper) error {
	data, err := json.MarshalIndent(shoppers, "", "  ")
	if err != nil {
		return fmt.Errorf("encode shoppers: %w", err)
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return fmt.Errorf("write shoppers: %w", err)
	}
	return nil
}
