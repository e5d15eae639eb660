package testutil

import (
	"fmt"
	"sync"
)

// Journal operation names
const (
	OpRegister   = "register"
	OpUnregister = "unregister"
	OpMkdir      = "mkdir"
	OpCreate     = "create"
	OpWrite      = "write"
	OpRemove     = "remove"
	OpRemoveAll  = "remove-all"
	OpRename     = "rename"
)

// Event is a single mutating operation seen by a journaled fake.
type Event struct {
	Op   string
	Path string
}

func (e Event) String() string {
	return fmt.Sprintf("%s %s", e.Op, e.Path)
}

// Journal records events in the order they happen. A nil Journal ignores
// every record, so fakes can be used without one.
type Journal struct {
	mu     sync.Mutex
	events []Event
}

// NewJournal returns an empty journal
func NewJournal() *Journal {
	return &Journal{}
}

// Record appends an event
func (j *Journal) Record(op, path string) {
	if j == nil {
		return
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.events = append(j.events, Event{Op: op, Path: path})
}

// Events returns a copy of all recorded events
func (j *Journal) Events() []Event {
	if j == nil {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]Event, len(j.events))
	copy(out, j.events)
	return out
}

// Index returns the position of the first event matching op and path, or -1.
func (j *Journal) Index(op, path string) int {
	for i, e := range j.Events() {
		if e.Op == op && e.Path == path {
			return i
		}
	}
	return -1
}

// FirstOf returns the position of the first event with any of the given
// ops, or -1.
func (j *Journal) FirstOf(ops ...string) int {
	for i, e := range j.Events() {
		for _, op := range ops {
			if e.Op == op {
				return i
			}
		}
	}
	return -1
}

// LastOf returns the position of the last event with any of the given ops,
// or -1.
func (j *Journal) LastOf(ops ...string) int {
	events := j.Events()
	for i := len(events) - 1; i >= 0; i-- {
		for _, op := range ops {
			if events[i].Op == op {
				return i
			}
		}
	}
	return -1
}

// Count returns how many events have the given op
func (j *Journal) Count(op string) int {
	n := 0
	for _, e := range j.Events() {
		if e.Op == op {
			n++
		}
	}
	return n
}
