// Package scene defines the registry the layout engine publishes its
// top-level objects to, plus an in-memory implementation.
package scene

import (
	"log/slog"
	"sort"
	"sync"
)

// Object is anything that can be registered in a scene under a unique name.
type Object interface {
	Name() string
}

// Registry receives whole units and base assemblies after structural
// changes. Both operations must be idempotent by name.
type Registry interface {
	Register(obj Object)
	Unregister(name string)
}

// Memory is a Registry that keeps registered objects in a map.
type Memory struct {
	mu           sync.Mutex
	objects      map[string]Object
	registered   int
	unregistered int
	logger       *slog.Logger
}

// NewMemory creates an empty in-memory registry. A nil logger discards output.
func NewMemory(logger *slog.Logger) *Memory {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Memory{
		objects: make(map[string]Object),
		logger:  logger,
	}
}

// Register adds obj, replacing any object already registered under its name.
func (m *Memory) Register(obj Object) {
	if obj == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[obj.Name()] = obj
	m.registered++
	m.logger.Debug("scene object registered", "name", obj.Name())
}

// Unregister removes the object registered under name, if any.
func (m *Memory) Unregister(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[name]; !ok {
		return
	}
	delete(m.objects, name)
	m.unregistered++
	m.logger.Debug("scene object unregistered", "name", name)
}

// Get returns the object registered under name.
func (m *Memory) Get(name string) (Object, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.objects[name]
	return obj, ok
}

// Has reports whether name is registered.
func (m *Memory) Has(name string) bool {
	_, ok := m.Get(name)
	return ok
}

// Names returns the registered names in sorted order.
func (m *Memory) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.objects))
	for n := range m.objects {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered objects.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

// Counts returns how many Register calls were made and how many Unregister
// calls actually removed an object.
func (m *Memory) Counts() (registered, unregistered int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.registered, m.unregistered
}
