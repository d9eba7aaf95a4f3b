package Notifications

import (
	"context"
	"errors"
	"sync"
)

// Notice is a message for mandi staff. Data travels with push notifications
// and is ignored by channels that cannot carry it.
type Notice struct {
	Title string
	Body  string
	HTML  string
	Data  map[string]string
}

type Notifier interface {
	Notify(ctx context.Context, n Notice) error
}

// Multi fans a notice out to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, n Notice) error {
	var errs []error
	for _, notifier := range m {
		if err := notifier.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type Noop struct{}

func (Noop) Notify(context.Context, Notice) error { return nil }

// Memory records notices, used by tests and dry runs.
type Memory struct {
	mu      sync.Mutex
	notices []Notice
}

func (m *Memory) Notify(_ context.Context, n Notice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notices = append(m.notices, n)
	return nil
}

func (m *Memory) Notices() []Notice {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Notice, len(m.notices))
	copy(out, m.notices)
	return out
}
