package model

import (
	"time"

	"github.com/google/uuid"
)

// Design is a saved closet configuration: everything needed to rebuild the
// same arrangement from a catalog.
type Design struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
	Family      string  `json:"family"`
	Layout      string  `json:"layout"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Depth       float64 `json:"depth"`
	InnerWalls  bool    `json:"inner_walls"`
	TopOpen     bool    `json:"top_open"`
	BottomOpen  bool    `json:"bottom_open"`
	// Hinge overrides keyed by column index; true hinges the door on the left.
	TopLeftDoors    map[int]bool `json:"top_left_doors,omitempty"`
	BottomLeftDoors map[int]bool `json:"bottom_left_doors,omitempty"`
	// Per-column door state overriding TopOpen and BottomOpen.
	TopOpenDoors    map[int]bool `json:"top_open_doors,omitempty"`
	BottomOpenDoors map[int]bool `json:"bottom_open_doors,omitempty"`
}

// NewDesign creates a named design with a fresh ID and timestamps.
func NewDesign(name, description string) Design {
	now := time.Now().UTC().Format(time.RFC3339)
	return Design{
		ID:          uuid.New().String()[:8],
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Clone returns a deep copy of the design.
func (d Design) Clone() Design {
	d.TopLeftDoors = copyOverrides(d.TopLeftDoors)
	d.BottomLeftDoors = copyOverrides(d.BottomLeftDoors)
	d.TopOpenDoors = copyOverrides(d.TopOpenDoors)
	d.BottomOpenDoors = copyOverrides(d.BottomOpenDoors)
	return d
}

// Touch updates UpdatedAt to now.
func (d *Design) Touch() {
	d.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
}

func copyOverrides(m map[int]bool) map[int]bool {
	if m == nil {
		return nil
	}
	cp := make(map[int]bool, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}

// DesignStore holds a collection of saved designs.
type DesignStore struct {
	Designs []Design `json:"designs"`
}

// NewDesignStore creates an empty design store.
func NewDesignStore() DesignStore {
	return DesignStore{
		Designs: []Design{},
	}
}

// Put adds d, replacing any design with the same ID.
func (ds *DesignStore) Put(d Design) {
	for i := range ds.Designs {
		if ds.Designs[i].ID == d.ID {
			ds.Designs[i] = d
			return
		}
	}
	ds.Designs = append(ds.Designs, d)
}

// Remove removes a design by ID. Returns true if found and removed.
func (ds *DesignStore) Remove(id string) bool {
	for i, d := range ds.Designs {
		if d.ID == id {
			ds.Designs = append(ds.Designs[:i], ds.Designs[i+1:]...)
			return true
		}
	}
	return false
}

// FindByID returns a pointer to the design with the given ID, or nil.
func (ds *DesignStore) FindByID(id string) *Design {
	for i := range ds.Designs {
		if ds.Designs[i].ID == id {
			return &ds.Designs[i]
		}
	}
	return nil
}

// FindByName returns a pointer to the first design with the given name, or nil.
func (ds *DesignStore) FindByName(name string) *Design {
	for i := range ds.Designs {
		if ds.Designs[i].Name == name {
			return &ds.Designs[i]
		}
	}
	return nil
}

// Names returns the design names in store order.
func (ds *DesignStore) Names() []string {
	names := make([]string, len(ds.Designs))
	for i, d := range ds.Designs {
		names[i] = d.Name
	}
	return names
}
