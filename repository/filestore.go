package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/BerniceZTT/airlab_end/utils"
)

// FileStore 一个集合对应 DATA_DIR 下的一个JSON文件
type FileStore struct {
	path    string
	name    string
	idField string
	mu      sync.Mutex
}

// NewFileStore 创建文件存储，文件名为 <name>.json
func NewFileStore(dir, name, idField string) *FileStore {
	return &FileStore{
		path:    filepath.Join(dir, name+".json"),
		name:    name,
		idField: idField,
	}
}

// Path 数据文件路径
func (s *FileStore) Path() string {
	return s.path
}

// Raw 读取并解码整个文件，不做结构检查
func (s *FileStore) Raw(ctx context.Context) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(s.path), err)
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(s.path), err)
	}
	return raw, nil
}

// List 返回全部文档，文件不存在时视为空集合
func (s *FileStore) List(ctx context.Context) ([]map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readLocked()
}

func (s *FileStore) Get(ctx context.Context, id string) (map[string]any, error) {
	docs, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if i := s.indexOf(docs, id); i >= 0 {
		return docs[i], nil
	}
	return nil, fmt.Errorf("%s %s: %w", s.name, id, ErrNotFound)
}

func (s *FileStore) Create(ctx context.Context, doc map[string]any) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.readLocked()
	if err != nil {
		return nil, err
	}
	created := ensureID(docs, doc, s.idField)
	id := idString(created[s.idField])
	if s.indexOf(docs, id) >= 0 {
		return nil, fmt.Errorf("%s %s: %w", s.name, id, ErrDuplicateID)
	}
	docs = append(docs, created)
	if err := s.writeLocked(docs); err != nil {
		return nil, err
	}
	utils.LogDbOperation("create", s.name, map[string]interface{}{"id": created[s.idField]}, nil)
	return created, nil
}

func (s *FileStore) Update(ctx context.Context, id string, doc map[string]any) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.readLocked()
	if err != nil {
		return nil, err
	}
	i := s.indexOf(docs, id)
	if i < 0 {
		return nil, fmt.Errorf("%s %s: %w", s.name, id, ErrNotFound)
	}
	docs[i] = withID(doc, s.idField, id)
	if err := s.writeLocked(docs); err != nil {
		return nil, err
	}
	utils.LogDbOperation("update", s.name, map[string]interface{}{"id": id}, nil)
	return docs[i], nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.readLocked()
	if err != nil {
		return err
	}
	i := s.indexOf(docs, id)
	if i < 0 {
		return fmt.Errorf("%s %s: %w", s.name, id, ErrNotFound)
	}
	docs = append(docs[:i], docs[i+1:]...)
	if err := s.writeLocked(docs); err != nil {
		return err
	}
	utils.LogDbOperation("delete", s.name, map[string]interface{}{"id": id}, nil)
	return nil
}

// ReplaceAll 整体覆盖集合，seed使用
func (s *FileStore) ReplaceAll(ctx context.Context, docs []map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(docs)
}

func (s *FileStore) indexOf(docs []map[string]any, id string) int {
	for i, doc := range docs {
		if idString(doc[s.idField]) == id {
			return i
		}
	}
	return -1
}

func (s *FileStore) readLocked() ([]map[string]any, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []map[string]any{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(s.path), err)
	}

	var docs []map[string]any
	if err := json.Unmarshal(data, &docs); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, fmt.Errorf("%s: %w", filepath.Base(s.path), ErrNotArray)
		}
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(s.path), err)
	}
	if docs == nil {
		docs = []map[string]any{}
	}
	return docs, nil
}

// writeLocked 先写临时文件再rename，读者不会看到写了一半的文件
func (s *FileStore) writeLocked(docs []map[string]any) error {
	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.name, err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+s.name+"-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", s.name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", s.name, err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace %s: %w", filepath.Base(s.path), err)
	}
	return nil
}
