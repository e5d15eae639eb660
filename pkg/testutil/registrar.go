package testutil

import (
	"sort"
	"sync"

	"github.com/arthur-debert/prebuilt/pkg/errors"
	"github.com/arthur-debert/prebuilt/pkg/types"
)

// FakeRegistrar keeps shortcuts in memory, one namespace per scope.
// RegisterFunc and UnregisterFunc, when set, run first and can veto the
// call by returning an error.
type FakeRegistrar struct {
	Journal        *Journal
	RegisterFunc   func(sc types.Shortcut, scope types.Scope) error
	UnregisterFunc func(name string, scope types.Scope) error

	mu      sync.Mutex
	entries map[types.Scope]map[string]types.Shortcut
}

// NewFakeRegistrar returns an empty registrar recording into journal,
// which may be nil.
func NewFakeRegistrar(journal *Journal) *FakeRegistrar {
	return &FakeRegistrar{
		Journal: journal,
		entries: make(map[types.Scope]map[string]types.Shortcut),
	}
}

// Register stores sc under scope, replacing an entry with the same name.
func (f *FakeRegistrar) Register(sc types.Shortcut, scope types.Scope) error {
	if f.RegisterFunc != nil {
		if err := f.RegisterFunc(sc, scope); err != nil {
			return err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.entries == nil {
		f.entries = make(map[types.Scope]map[string]types.Shortcut)
	}
	if f.entries[scope] == nil {
		f.entries[scope] = make(map[string]types.Shortcut)
	}
	f.entries[scope][sc.Name] = sc
	f.Journal.Record(OpRegister, sc.Name)
	return nil
}

// Unregister removes name from scope. A name that was never registered in
// that scope yields an ErrShortcutNotFound error.
func (f *FakeRegistrar) Unregister(name string, scope types.Scope) error {
	if f.UnregisterFunc != nil {
		if err := f.UnregisterFunc(name, scope); err != nil {
			return err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.entries[scope][name]; !ok {
		return errors.Newf(errors.ErrShortcutNotFound, "shortcut %q not registered", name).
			WithDetail("scope", scope.String())
	}
	delete(f.entries[scope], name)
	f.Journal.Record(OpUnregister, name)
	return nil
}

// Has reports whether name is registered in scope
func (f *FakeRegistrar) Has(name string, scope types.Scope) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.entries[scope][name]
	return ok
}

// Get returns the shortcut registered under name in scope
func (f *FakeRegistrar) Get(name string, scope types.Scope) (types.Shortcut, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sc, ok := f.entries[scope][name]
	return sc, ok
}

// Names returns the sorted names registered in scope
func (f *FakeRegistrar) Names(scope types.Scope) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	names := make([]string, 0, len(f.entries[scope]))
	for name := range f.entries[scope] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of shortcuts across all scopes
func (f *FakeRegistrar) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, byName := range f.entries {
		n += len(byName)
	}
	return n
}
