// Package part models transformable asset instances with named stretch
// joints. Parts live in an Arena and are addressed by stable integer IDs.
package part

import (
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// ID addresses a part inside an Arena. IDs are never reused.
type ID int

// None is the ID of an absent part. Every Arena operation on None is a no-op.
const None ID = -1

// Axis selects one of the three stretch joint groups of a part.
type Axis int

const (
	Width Axis = iota
	Height
	Depth
)

var axes = [...]Axis{Width, Height, Depth}

func (a Axis) String() string {
	switch a {
	case Width:
		return "Width"
	case Height:
		return "Height"
	case Depth:
		return "Depth"
	default:
		return "Unknown"
	}
}

// Direction returns the unit vector joints of this axis travel along when
// stretched by a positive delta. Depth grows backwards (-Z) because assets
// are aligned on their front face.
func (a Axis) Direction() r3.Vec {
	switch a {
	case Width:
		return r3.Vec{X: 1}
	case Height:
		return r3.Vec{Y: 1}
	case Depth:
		return r3.Vec{Z: -1}
	default:
		return r3.Vec{}
	}
}

// Joint is a named anchor of an asset skeleton.
type Joint struct {
	Name     string `json:"name" yaml:"name" toml:"name"`
	Position r3.Vec `json:"position" yaml:"position" toml:"position"`
}

// Asset is one independent instance of a named asset.
type Asset struct {
	Key    string
	Joints []Joint
}

// Clone returns a deep copy of the asset.
func (a Asset) Clone() Asset {
	joints := make([]Joint, len(a.Joints))
	copy(joints, a.Joints)
	return Asset{Key: a.Key, Joints: joints}
}

// Provider hands out fresh asset instances by key. Every call must return an
// instance that can be transformed independently of all others.
type Provider interface {
	Provide(key string) (Asset, bool)
}

// Part is a single asset instance placed in its parent's local space.
type Part struct {
	Key      string
	Position r3.Vec
	// Rotation holds euler angles in degrees, applied Z, then Y, then X.
	Rotation r3.Vec
	Visible  bool

	parent   ID
	children []ID
	joints   []Joint
	groups   [3][]int
	stretch  [3]float64
}

func newPart(key string, joints []Joint) *Part {
	p := &Part{
		Key:     key,
		Visible: true,
		parent:  None,
	}
	p.load(joints)
	return p
}

// load replaces the joint set and regroups it by axis name.
func (p *Part) load(joints []Joint) {
	p.joints = joints
	p.groups = [3][]int{}
	for i, j := range joints {
		for _, a := range axes {
			if strings.Contains(j.Name, a.String()) {
				p.groups[a] = append(p.groups[a], i)
			}
		}
	}
}

func (p *Part) shift(a Axis, delta float64) {
	step := r3.Scale(delta, a.Direction())
	for _, i := range p.groups[a] {
		p.joints[i].Position = r3.Add(p.joints[i].Position, step)
	}
	p.stretch[a] += delta
}

// Parent returns the ID of the part this part is attached to, or None.
func (p *Part) Parent() ID { return p.parent }

// Children returns the IDs attached to this part in attach order.
func (p *Part) Children() []ID {
	out := make([]ID, len(p.children))
	copy(out, p.children)
	return out
}

// Joints returns a copy of the part's joints.
func (p *Part) Joints() []Joint {
	out := make([]Joint, len(p.joints))
	copy(out, p.joints)
	return out
}

// Joint looks up a joint by exact name.
func (p *Part) Joint(name string) (Joint, bool) {
	for _, j := range p.joints {
		if j.Name == name {
			return j, true
		}
	}
	return Joint{}, false
}

// JointCount returns how many joints belong to the given axis group.
func (p *Part) JointCount(a Axis) int { return len(p.groups[a]) }

// Stretch returns the total joint shift applied along an axis.
func (p *Part) Stretch(a Axis) float64 { return p.stretch[a] }
