package Cache

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Memory is an in-process LRU with per entry TTL.
type Memory struct {
	lru *expirable.LRU[string, []byte]
	gen atomic.Uint64
}

func NewMemory(maxSize int, ttl time.Duration) *Memory {
	return &Memory{lru: expirable.NewLRU[string, []byte](maxSize, nil, ttl)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m.lru.Get(key)
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.lru.Add(key, value)
	return nil
}

func (m *Memory) Generation(_ context.Context) (uint64, error) {
	return m.gen.Load(), nil
}

func (m *Memory) Purge(_ context.Context) error {
	m.gen.Add(1)
	m.lru.Purge()
	return nil
}

// Len returns the number of live entries.
func (m *Memory) Len() int {
	return m.lru.Len()
}

func (m *Memory) Close() error {
	return nil
}
