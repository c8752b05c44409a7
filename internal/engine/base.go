package engine

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/piwi3910/ClosetCraft/internal/model"
	"github.com/piwi3910/ClosetCraft/internal/part"
)

const baseName = "Base"

// base is the legged plinth and top molding shared by every column of a
// closet whose layout declares one.
type base struct {
	spec  *model.BaseSpec
	arena *part.Arena

	root    part.ID
	corners [4]part.ID
	centers []part.ID // front, back, front, back, ...
	molding part.ID

	moldingWidth float64
}

func newBase(spec *model.BaseSpec, arena *part.Arena) *base {
	b := &base{
		spec:         spec,
		arena:        arena,
		molding:      part.None,
		moldingWidth: spec.MoldingWidth,
	}
	b.root = arena.NewGroup(baseName)
	for i := range b.corners {
		b.corners[i] = b.spawn(spec.Leg)
		arena.SetRotation(b.corners[i], r3.Vec{Y: legRotations[i]})
	}
	if spec.Molding != "" {
		b.molding = b.spawn(spec.Molding)
	}
	return b
}

// Name identifies the base in the scene registry.
func (b *base) Name() string { return baseName }

func (b *base) spawn(key string) part.ID {
	id, ok := b.arena.Spawn(key)
	if !ok {
		return part.None
	}
	b.arena.Attach(b.root, id)
	return id
}

// pairs returns the number of front/back center leg pairs.
func (b *base) pairs() int { return len(b.centers) / 2 }

// centerPairs is the number of center leg pairs a row of n columns needs.
func centerPairs(columns int) int { return columns / 2 }

// resize grows or shrinks the center legs to the given number of pairs.
func (b *base) resize(pairs int) {
	for b.pairs() < pairs {
		front, back := b.spawn(b.spec.CenterLegKey()), b.spawn(b.spec.CenterLegKey())
		if front == part.None || back == part.None {
			b.arena.Release(front)
			b.arena.Release(back)
			return
		}
		b.arena.SetRotation(back, r3.Vec{Y: 180})
		b.centers = append(b.centers, front, back)
	}
	for b.pairs() > pairs {
		n := len(b.centers)
		b.arena.Release(b.centers[n-1])
		b.arena.Release(b.centers[n-2])
		b.centers = b.centers[:n-2]
	}
}

// place positions the base under a closet of the given size. columns < 0
// keeps the current center leg count.
func (b *base) place(origin r3.Vec, width, height, depth float64, columns int) {
	b.arena.SetPosition(b.root, origin)
	if columns >= 0 {
		b.resize(centerPairs(columns))
	}

	hw := width/2 - b.spec.OffsetX
	hd := depth/2 - b.spec.OffsetZ
	corners := [4]r3.Vec{
		{X: -hw, Z: hd},
		{X: hw, Z: hd},
		{X: hw, Z: -hd},
		{X: -hw, Z: -hd},
	}
	for i, id := range b.corners {
		b.arena.SetPosition(id, corners[i])
	}

	pairs := b.pairs()
	for k := 0; k < pairs; k++ {
		x := -width/2 + float64(k+1)*width/float64(pairs+1)
		b.arena.SetPosition(b.centers[2*k], r3.Vec{X: x, Z: hd})
		b.arena.SetPosition(b.centers[2*k+1], r3.Vec{X: x, Z: -hd})
	}

	if b.molding != part.None {
		b.arena.ShiftJoints(b.molding, part.Width, width-b.moldingWidth)
		b.moldingWidth = width
		b.arena.SetPosition(b.molding, r3.Vec{
			X: -(width - b.spec.MoldingWidth) / 2,
			Y: b.spec.Height + height,
		})
	}
}

func (b *base) release() {
	b.arena.Release(b.root)
	b.centers = nil
}

func (b *base) legs() []model.LegSnapshot {
	var out []model.LegSnapshot
	add := func(id part.ID, center bool) {
		p := b.arena.Get(id)
		if p == nil {
			return
		}
		out = append(out, model.LegSnapshot{
			Key:      p.Key,
			Center:   center,
			Position: b.arena.World(id),
			Rotation: p.Rotation.Y,
		})
	}
	for _, id := range b.corners {
		add(id, false)
	}
	for _, id := range b.centers {
		add(id, true)
	}
	return out
}

func (b *base) moldingSnapshot() *model.PartSnapshot {
	p := b.arena.Get(b.molding)
	if p == nil {
		return nil
	}
	return &model.PartSnapshot{
		Key:      p.Key,
		Slot:     "molding",
		Position: b.arena.World(b.molding),
		Rotation: p.Rotation,
	}
}
