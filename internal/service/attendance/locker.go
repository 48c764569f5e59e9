package attendance

import "sync"

// EmployeeLocker serializes the read-evaluate-append sequence per employee
// within one process. Entries are reference counted and dropped when idle.
type EmployeeLocker struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func NewEmployeeLocker() *EmployeeLocker {
	return &EmployeeLocker{locks: make(map[string]*lockEntry)}
}

// Lock blocks until the employee's lock is held and returns its release func.
func (l *EmployeeLocker) Lock(employeeID string) func() {
	l.mu.Lock()
	entry, ok := l.locks[employeeID]
	if !ok {
		entry = &lockEntry{}
		l.locks[employeeID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			entry.mu.Unlock()

			l.mu.Lock()
			entry.refs--
			if entry.refs == 0 {
				delete(l.locks, employeeID)
			}
			l.mu.Unlock()
		})
	}
}

func (l *EmployeeLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
