// Package session holds live closets for the HTTP service. Each session
// owns one closet, its scene registry and an undo history; the Manager
// keeps sessions by ID.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/piwi3910/ClosetCraft/internal/engine"
	"github.com/piwi3910/ClosetCraft/internal/model"
	"github.com/piwi3910/ClosetCraft/internal/part"
	"github.com/piwi3910/ClosetCraft/internal/scene"
)

// ErrNothingToUndo and ErrNothingToRedo are returned when the history is
// empty in the requested direction.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// Hinge moves the door hinge of one column.
type Hinge struct {
	Column int  `json:"column"`
	Top    bool `json:"top"`
	Left   bool `json:"left"`
}

// Door opens or closes the doors of one column.
type Door struct {
	Column int  `json:"column"`
	Top    bool `json:"top"`
	Open   bool `json:"open"`
}

// Edit is a batch of changes applied to a session's closet. Zero values
// and nil pointers leave the corresponding setting alone.
type Edit struct {
	Layout     string  `json:"layout,omitempty"`
	Width      float64 `json:"width,omitempty"`
	Height     float64 `json:"height,omitempty"`
	Depth      float64 `json:"depth,omitempty"`
	InnerWalls *bool   `json:"inner_walls,omitempty"`
	TopOpen    *bool   `json:"top_open,omitempty"`
	BottomOpen *bool   `json:"bottom_open,omitempty"`
	Hinges     []Hinge `json:"hinges,omitempty"`
	Doors      []Door  `json:"doors,omitempty"`
}

func (e Edit) label() string {
	var parts []string
	if e.Layout != "" {
		parts = append(parts, "layout "+e.Layout)
	}
	if e.Width != 0 {
		parts = append(parts, fmt.Sprintf("width %g", e.Width))
	}
	if e.Height != 0 {
		parts = append(parts, fmt.Sprintf("height %g", e.Height))
	}
	if e.Depth != 0 {
		parts = append(parts, fmt.Sprintf("depth %g", e.Depth))
	}
	if e.InnerWalls != nil {
		parts = append(parts, "inner walls")
	}
	if e.TopOpen != nil || e.BottomOpen != nil || len(e.Doors) > 0 {
		parts = append(parts, "doors")
	}
	if len(e.Hinges) > 0 {
		parts = append(parts, "hinges")
	}
	return strings.Join(parts, ", ")
}

// Session is one live closet. All methods are safe for concurrent use.
type Session struct {
	id string

	mu      sync.Mutex
	closet  *engine.Closet
	design  model.Design
	history *History
	scene   *scene.Memory
	logger  *slog.Logger
}

// ID returns the session ID.
func (s *Session) ID() string { return s.id }

// Snapshot describes the current arrangement.
func (s *Session) Snapshot() model.ClosetSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closet.Snapshot()
}

// Design returns the current configuration under the session's design
// identity.
func (s *Session) Design() model.Design {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closet.Design(s.design)
}

// SceneNames lists the objects currently published to the session's scene.
func (s *Session) SceneNames() []string {
	return s.scene.Names()
}

// Rename sets the name and description used when the design is saved.
func (s *Session) Rename(name, description string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.design.Name = name
	s.design.Description = description
	s.design.Touch()
}

// Apply performs e on the closet. Every change is attempted; rejected
// values are reported in the returned error, wrapping engine.ErrRejected.
// A state is pushed to the history only when something changed.
func (s *Session) Apply(e Edit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.closet.Design(s.design)
	var errs []error
	c := s.closet

	if e.Layout != "" {
		l := c.Family().Layout(e.Layout)
		if l == nil || !c.SwitchLayout(l) {
			errs = append(errs, fmt.Errorf("%w: layout %s", engine.ErrRejected, e.Layout))
		}
	}
	if e.InnerWalls != nil {
		c.SetInnerWalls(*e.InnerWalls)
	}
	if e.Width != 0 && !c.SetWidth(e.Width) {
		errs = append(errs, fmt.Errorf("%w: width %v", engine.ErrRejected, e.Width))
	}
	if e.Depth != 0 && !c.SetDepth(e.Depth) {
		errs = append(errs, fmt.Errorf("%w: depth %v", engine.ErrRejected, e.Depth))
	}
	if e.Height != 0 && !c.SetHeight(e.Height) {
		errs = append(errs, fmt.Errorf("%w: height %v", engine.ErrRejected, e.Height))
	}
	if e.TopOpen != nil {
		c.OpenAllTop(*e.TopOpen)
	}
	if e.BottomOpen != nil {
		c.OpenAllBottom(*e.BottomOpen)
	}
	for _, h := range e.Hinges {
		ok := false
		if h.Top {
			ok = c.SwitchTopDoorToLeftAt(h.Column, h.Left)
		} else {
			ok = c.SwitchBottomDoorToLeftAt(h.Column, h.Left)
		}
		if !ok {
			errs = append(errs, fmt.Errorf("%w: hinge column %d", engine.ErrRejected, h.Column))
		}
	}

	for _, d := range e.Doors {
		ok := false
		if d.Top {
			ok = c.OpenTopAt(d.Column, d.Open)
		} else {
			ok = c.OpenBottomAt(d.Column, d.Open)
		}
		if !ok {
			errs = append(errs, fmt.Errorf("%w: door column %d", engine.ErrRejected, d.Column))
		}
	}

	after := c.Design(s.design)
	if !sameConfiguration(before, after) {
		s.history.Push(State{Design: before, Label: e.label()})
		s.design.Touch()
		s.logger.Debug("edit applied", "session", s.id, "edit", e.label())
	}
	return errors.Join(errs...)
}

// Load replaces the closet configuration with d, keeping the session's
// design identity. The previous configuration can be restored with Undo.
func (s *Session) Load(d model.Design) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.closet.Design(s.design)
	if err := s.closet.Apply(d); err != nil {
		if restoreErr := s.closet.Apply(before); restoreErr != nil {
			s.logger.Error("failed to restore closet", "session", s.id, "error", restoreErr)
		}
		return fmt.Errorf("failed to load design %s: %w", d.Name, err)
	}
	s.history.Push(State{Design: before, Label: "load " + d.Name})
	s.design.ID, s.design.Name, s.design.Description = d.ID, d.Name, d.Description
	s.design.CreatedAt = d.CreatedAt
	s.design.Touch()
	return nil
}

// Undo restores the state before the last edit.
func (s *Session) Undo() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.history.Undo(State{Design: s.closet.Design(s.design)})
	if !ok {
		return ErrNothingToUndo
	}
	return s.restore(prev)
}

// Redo reapplies the last undone edit.
func (s *Session) Redo() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, ok := s.history.Redo(State{Design: s.closet.Design(s.design)})
	if !ok {
		return ErrNothingToRedo
	}
	return s.restore(next)
}

func (s *Session) restore(st State) error {
	if err := s.closet.Apply(st.Design); err != nil {
		return fmt.Errorf("failed to restore state: %w", err)
	}
	s.design.Touch()
	return nil
}

// History reports whether undo and redo are available.
func (s *Session) History() (canUndo, canRedo bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanUndo(), s.history.CanRedo()
}

func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closet.RemoveFromScene()
}

// ErrUnknownSession is returned for session IDs the manager does not hold.
var ErrUnknownSession = errors.New("unknown session")

// Manager keeps live sessions by ID.
type Manager struct {
	catalog  *model.Catalog
	provider part.Provider
	logger   *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a manager building closets from cat. A nil logger
// discards output.
func NewManager(cat *model.Catalog, provider part.Provider, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Manager{
		catalog:  cat,
		provider: provider,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// Catalog returns the catalog sessions are built from.
func (m *Manager) Catalog() *model.Catalog { return m.catalog }

// Create starts a session with a minimum-width closet of family.
func (m *Manager) Create(family string) (*Session, error) {
	d := model.NewDesign("Untitled", "")
	d.Family = family
	return m.Open(d)
}

// Open starts a session with a closet rebuilt from d.
func (m *Manager) Open(d model.Design) (*Session, error) {
	reg := scene.NewMemory(m.logger)
	c, err := engine.Build(m.catalog, d, m.provider,
		engine.WithRegistry(reg), engine.WithLogger(m.logger))
	if err != nil {
		return nil, err
	}
	if d.ID == "" {
		fresh := model.NewDesign(d.Name, d.Description)
		d.ID, d.CreatedAt, d.UpdatedAt = fresh.ID, fresh.CreatedAt, fresh.UpdatedAt
	}
	s := &Session{
		id:      uuid.New().String(),
		closet:  c,
		design:  d,
		history: NewHistory(),
		scene:   reg,
		logger:  m.logger,
	}

	m.mu.Lock()
	m.sessions[s.id] = s
	m.mu.Unlock()

	m.logger.Info("session opened", "session", s.id, "family", d.Family, "design", d.ID)
	return s, nil
}

// Get returns the session with the given ID.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSession, id)
	}
	return s, nil
}

// Close removes the session and clears its scene.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSession, id)
	}
	s.close()
	m.logger.Info("session closed", "session", id)
	return nil
}

// IDs lists the open session IDs in sorted order.
func (m *Manager) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of open sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
