package issue

import "sync"

// List collects the problems a run skipped over: unreadable files and failed queries.
type List struct {
	issues []string
	sync.RWMutex
}

// Add adds issue to the list and returns true if it was added. returns false if it already exists.
func (l *List) Add(issue string) bool {
	l.Lock()
	defer l.Unlock()
	for _, existing := range l.issues {
		if existing == issue {
			return false
		}
	}

	l.issues = append(l.issues, issue)
	return true
}

func (l *List) All() []string {
	l.RLock()
	defer l.RUnlock()
	return append([]string(nil), l.issues...)
}

func (l *List) Len() int {
	l.RLock()
	defer l.RUnlock()
	return len(l.issues)
}
