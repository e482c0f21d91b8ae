package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/zooyer/cad"
)

// FileStore 把全部图纸保存为一个 JSON 数组文件
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir store dir: %w", err)
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) read() ([]json.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read store: %w", err)
	}

	var list []json.RawMessage
	if err = json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parse store: %w", err)
	}
	return list, nil
}

// write 先写临时文件再改名，避免写到一半的文件被读取
func (s *FileStore) write(list []json.RawMessage) error {
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err = os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write store: %w", err)
	}
	if err = os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace store: %w", err)
	}
	return nil
}

func (s *FileStore) Load(ctx context.Context) ([]*cad.Data, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.read()
	if err != nil {
		return nil, err
	}

	var result = make([]*cad.Data, 0, len(list))
	for _, item := range list {
		if err = ctx.Err(); err != nil {
			return nil, err
		}
		d, err := decode(item)
		if err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	return result, nil
}

func (s *FileStore) Get(ctx context.Context, id string) (*cad.Data, error) {
	list, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	for _, d := range list {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, ErrNotFound
}

func (s *FileStore) Save(ctx context.Context, list []*cad.Data) ([]*cad.Data, error) {
	records, result, err := encode(list)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.read()
	if err != nil {
		return nil, err
	}

	var index = make(map[string]int, len(stored))
	for i, item := range stored {
		var head struct {
			ID string `json:"id"`
		}
		if err = json.Unmarshal(item, &head); err == nil {
			index[head.ID] = i
		}
	}

	for _, r := range records {
		if i, ok := index[r.id]; ok {
			stored[i] = r.data
			continue
		}
		index[r.id] = len(stored)
		stored = append(stored, r.data)
	}

	if err = ctx.Err(); err != nil {
		return nil, err
	}
	if err = s.write(stored); err != nil {
		return nil, err
	}

	log.Printf("[STORE] saved %d cads to %s", len(records), s.path)
	return result, nil
}

func (s *FileStore) Close() error {
	return nil
}
