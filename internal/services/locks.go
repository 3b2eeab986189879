package services

import (
	"sync"

	"github.com/google/uuid"
)

// studentLocks serializes read-then-write operations per student. Check-in,
// check-out and clock-event recording all acquire the same lock so two
// concurrent requests for one student cannot both pass a precondition check.
type studentLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newStudentLocks() *studentLocks {
	return &studentLocks{locks: make(map[uuid.UUID]*sync.Mutex)}
}

func (l *studentLocks) lock(studentID uuid.UUID) func() {
	l.mu.Lock()
	m, ok := l.locks[studentID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[studentID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
