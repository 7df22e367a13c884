package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

// TournamentLocker serializes mutations per tournament inside one process.
// Different tournaments never block each other. A tournament's entry is dropped
// once no caller holds or waits for it.
type TournamentLocker struct {
	mu      sync.Mutex
	sems    map[int]*lockEntry
	timeout time.Duration
}

type lockEntry struct {
	sem  *semaphore.Weighted
	refs int
}

func NewTournamentLocker(timeout time.Duration) *TournamentLocker {
	return &TournamentLocker{
		sems:    make(map[int]*lockEntry),
		timeout: timeout,
	}
}

func (l *TournamentLocker) acquireEntry(tournamentID int) *lockEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.sems[tournamentID]
	if !ok {
		e = &lockEntry{sem: semaphore.NewWeighted(1)}
		l.sems[tournamentID] = e
	}
	e.refs++
	return e
}

func (l *TournamentLocker) releaseEntry(tournamentID int, e *lockEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(l.sems, tournamentID)
	}
}

func (l *TournamentLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.sems)
}

// WithLock runs fn while holding the tournament's lock. If the lock cannot be taken
// within the configured timeout it returns ErrTournamentBusy without running fn.
func (l *TournamentLocker) WithLock(ctx context.Context, tournamentID int, fn func() error) error {
	e := l.acquireEntry(tournamentID)
	defer l.releaseEntry(tournamentID, e)

	acquireCtx := ctx
	if l.timeout > 0 {
		var cancel context.CancelFunc
		acquireCtx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}
	if err := e.sem.Acquire(acquireCtx, 1); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: tournament %d", ErrTournamentBusy, tournamentID)
	}
	defer e.sem.Release(1)

	return fn()
}
