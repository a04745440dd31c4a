// Package session holds the operator's session between screens and runs: the
// auth token, account details and the record handed from a selector to a
// dependent screen. The store is an opaque string-keyed slot; it does not
// interpret tokens.
package session

import (
	"errors"
	"sync"
)

// Well-known keys.
const (
	KeyToken           = "token"
	KeyAccountType     = "accountType"
	KeyFirstName       = "firstName"
	KeyLastName        = "lastName"
	KeySelectedPatient = "selectedPatient"
)

// ErrClosed is returned by a store used after Close.
var ErrClosed = errors.New("session store closed")

// Store is a process-wide key-value slot.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
	Clear() error
}

// Memory is an in-process Store.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *Memory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values = make(map[string]string)
	return nil
}
