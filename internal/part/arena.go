package part

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Arena owns parts and the parent/child links between them.
// It is not safe for concurrent use.
type Arena struct {
	provider Provider
	parts    []*Part
	free     []ID
	live     int
}

// NewArena creates an arena that instantiates assets from p.
func NewArena(p Provider) *Arena {
	return &Arena{provider: p}
}

// Spawn instantiates the asset registered under key. It reports false and
// returns None when the key is empty or unknown to the provider.
func (a *Arena) Spawn(key string) (ID, bool) {
	if key == "" || a.provider == nil {
		return None, false
	}
	asset, ok := a.provider.Provide(key)
	if !ok {
		return None, false
	}
	return a.add(newPart(asset.Key, asset.Joints)), true
}

// NewGroup creates an empty part with no joints, used as a transform root.
func (a *Arena) NewGroup(name string) ID {
	return a.add(newPart(name, nil))
}

// add stores p in the most recently released slot, or appends it.
func (a *Arena) add(p *Part) ID {
	a.live++
	if n := len(a.free); n > 0 {
		id := a.free[n-1]
		a.free = a.free[:n-1]
		a.parts[id] = p
		return id
	}
	a.parts = append(a.parts, p)
	return ID(len(a.parts) - 1)
}

// Get returns the part for id, or nil when id is None or released.
func (a *Arena) Get(id ID) *Part {
	if id < 0 || int(id) >= len(a.parts) {
		return nil
	}
	return a.parts[id]
}

// Len returns the number of live parts.
func (a *Arena) Len() int { return a.live }

// Attach makes child a child of parent, detaching it from any previous parent.
func (a *Arena) Attach(parent, child ID) {
	pp, cp := a.Get(parent), a.Get(child)
	if pp == nil || cp == nil || parent == child {
		return
	}
	if cp.parent == parent {
		return
	}
	a.Detach(child)
	cp.parent = parent
	pp.children = append(pp.children, child)
}

// Detach clears the parent link of child.
func (a *Arena) Detach(child ID) {
	cp := a.Get(child)
	if cp == nil || cp.parent == None {
		return
	}
	if pp := a.Get(cp.parent); pp != nil {
		for i, id := range pp.children {
			if id == child {
				pp.children = append(pp.children[:i], pp.children[i+1:]...)
				break
			}
		}
	}
	cp.parent = None
}

// Attached reports whether id currently has a parent.
func (a *Arena) Attached(id ID) bool {
	p := a.Get(id)
	return p != nil && p.parent != None
}

// Children returns the children of id.
func (a *Arena) Children(id ID) []ID {
	p := a.Get(id)
	if p == nil {
		return nil
	}
	return p.Children()
}

// Release removes id and everything attached beneath it from the arena.
// Released IDs are handed out again by later spawns.
func (a *Arena) Release(id ID) {
	p := a.Get(id)
	if p == nil {
		return
	}
	for _, c := range p.Children() {
		a.Release(c)
	}
	a.Detach(id)
	a.parts[id] = nil
	a.free = append(a.free, id)
	a.live--
}

// Swap replaces the asset behind id with a fresh instance of key. Position,
// rotation, visibility, links and the stretch already applied to the slot
// are preserved.
func (a *Arena) Swap(id ID, key string) bool {
	p := a.Get(id)
	if p == nil || key == "" || a.provider == nil {
		return false
	}
	if p.Key == key {
		return true
	}
	asset, ok := a.provider.Provide(key)
	if !ok {
		return false
	}
	stretch := p.stretch
	p.Key = asset.Key
	p.stretch = [3]float64{}
	p.load(asset.Joints)
	for _, ax := range axes {
		if stretch[ax] != 0 {
			p.shift(ax, stretch[ax])
		}
	}
	return true
}

// SetPosition sets the local position of id.
func (a *Arena) SetPosition(id ID, pos r3.Vec) {
	if p := a.Get(id); p != nil {
		p.Position = pos
	}
}

// Position returns the local position of id.
func (a *Arena) Position(id ID) r3.Vec {
	if p := a.Get(id); p != nil {
		return p.Position
	}
	return r3.Vec{}
}

// Offset moves id by d in its parent's space.
func (a *Arena) Offset(id ID, d r3.Vec) {
	if p := a.Get(id); p != nil {
		p.Position = r3.Add(p.Position, d)
	}
}

// SetRotation sets the euler rotation of id in degrees.
func (a *Arena) SetRotation(id ID, deg r3.Vec) {
	if p := a.Get(id); p != nil {
		p.Rotation = deg
	}
}

// SetVisible sets the visibility flag of id.
func (a *Arena) SetVisible(id ID, visible bool) {
	if p := a.Get(id); p != nil {
		p.Visible = visible
	}
}

// ShiftJoints moves every joint of the axis group of id by delta.
func (a *Arena) ShiftJoints(id ID, axis Axis, delta float64) {
	if p := a.Get(id); p != nil && delta != 0 {
		p.shift(axis, delta)
	}
}

// World returns the position of id in the space of its root ancestor.
func (a *Arena) World(id ID) r3.Vec {
	p := a.Get(id)
	if p == nil {
		return r3.Vec{}
	}
	pos := p.Position
	for parent := a.Get(p.parent); parent != nil; parent = a.Get(parent.parent) {
		pos = r3.Add(rotate(pos, parent.Rotation), parent.Position)
	}
	return pos
}

// rotate applies euler angles in degrees to v, Z first, then Y, then X.
func rotate(v, deg r3.Vec) r3.Vec {
	if deg.Z != 0 {
		v = r3.NewRotation(deg.Z*math.Pi/180, r3.Vec{Z: 1}).Rotate(v)
	}
	if deg.Y != 0 {
		v = r3.NewRotation(deg.Y*math.Pi/180, r3.Vec{Y: 1}).Rotate(v)
	}
	if deg.X != 0 {
		v = r3.NewRotation(deg.X*math.Pi/180, r3.Vec{X: 1}).Rotate(v)
	}
	return v
}
