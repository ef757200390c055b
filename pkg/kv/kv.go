// Package kv provides the namespaced persistent key-value store shared by the
// overlay and notification ledgers.
package kv

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/peterbourgon/diskv/v3"
)

// Store is a synchronous namespace -> string store. A Set replaces the whole
// value of a namespace.
type Store interface {
	Get(namespace string) (string, bool, error)
	Set(namespace, value string) error
}

// Watcher reports namespace changes made by any process sharing the store.
type Watcher interface {
	Watch(ctx context.Context) (<-chan Event, error)
}

const tempDirName = ".tmp"

// Disk is a Store persisted under a base directory, one file per namespace.
type Disk struct {
	d        *diskv.Diskv
	basePath string
}

var _ Store = (*Disk)(nil)

// Open creates a diskv-backed store rooted at basePath.
func Open(basePath string) (*Disk, error) {
	basePath = strings.TrimSpace(basePath)
	if basePath == "" {
		return nil, errors.New("kv: base path required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("kv: ensure base path: %w", err)
	}
	return &Disk{
		d: diskv.New(diskv.Options{
			BasePath:  basePath,
			Transform: flatTransform,
			// Writes land in TempDir and are renamed into place, so readers
			// never observe a partial value.
			TempDir: filepath.Join(basePath, tempDirName),
			// Another process may rewrite a namespace; never serve it from memory.
			CacheSizeMax: 0,
		}),
		basePath: basePath,
	}, nil
}

// BasePath returns the directory backing the store.
func (s *Disk) BasePath() string { return s.basePath }

// Get implements Store.
func (s *Disk) Get(namespace string) (string, bool, error) {
	if err := validNamespace(namespace); err != nil {
		return "", false, err
	}
	if !s.d.Has(namespace) {
		return "", false, nil
	}
	val, err := s.d.Read(namespace)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("kv: read %s: %w", namespace, err)
	}
	return string(val), true, nil
}

// Set implements Store.
func (s *Disk) Set(namespace, value string) error {
	if err := validNamespace(namespace); err != nil {
		return err
	}
	if err := s.d.Write(namespace, []byte(value)); err != nil {
		return fmt.Errorf("kv: write %s: %w", namespace, err)
	}
	return nil
}

// Delete drops a namespace. Deleting a missing namespace is not an error.
func (s *Disk) Delete(namespace string) error {
	if err := validNamespace(namespace); err != nil {
		return err
	}
	if !s.d.Has(namespace) {
		return nil
	}
	if err := s.d.Erase(namespace); err != nil {
		return fmt.Errorf("kv: erase %s: %w", namespace, err)
	}
	return nil
}

// Namespaces lists the stored namespaces.
func (s *Disk) Namespaces(ctx context.Context) []string {
	var out []string
	for key := range s.d.Keys(ctx.Done()) {
		out = append(out, key)
	}
	return out
}

func flatTransform(string) []string { return []string{} }

func validNamespace(ns string) error {
	if ns == "" {
		return errors.New("kv: namespace required")
	}
	if strings.ContainsAny(ns, `/\`) || strings.HasPrefix(ns, ".") {
		return fmt.Errorf("kv: invalid namespace %q", ns)
	}
	return nil
}

// Memory is an in-process Store, mostly for tests and ephemeral sessions.
type Memory struct {
	mu     sync.Mutex
	values map[string]string
	// GetErr, when set, is returned by every Get.
	GetErr error
}

var _ Store = (*Memory)(nil)

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

// Get implements Store.
func (m *Memory) Get(namespace string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return "", false, m.GetErr
	}
	v, ok := m.values[namespace]
	return v, ok, nil
}

// Set implements Store.
func (m *Memory) Set(namespace, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[namespace] = value
	return nil
}
