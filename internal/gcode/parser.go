package gcode

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/piwi3910/ClosetCraft/internal/model"
)

// MoveType classifies a parsed toolpath move.
type MoveType int

const (
	MoveRapid   MoveType = iota // G0 positioning
	MoveFeed                    // G1 cutting move in XY
	MovePlunge                  // G1 going down in Z
	MoveRetract                 // moving up in Z
)

// Move is one G0/G1 command in absolute coordinates.
type Move struct {
	Type     MoveType
	FromX    float64
	FromY    float64
	FromZ    float64
	ToX      float64
	ToY      float64
	ToZ      float64
	FeedRate float64
}

// Length returns the 3D distance travelled.
func (m Move) Length() float64 {
	return math.Sqrt(sq(m.ToX-m.FromX) + sq(m.ToY-m.FromY) + sq(m.ToZ-m.FromZ))
}

func sq(v float64) float64 { return v * v }

var coordRe = regexp.MustCompile(`([XYZF])(-?\d+\.?\d*)`)

// Parse reads the G0/G1 moves of a program, tracking absolute position.
// Comments in ; or ( ) form are ignored.
func Parse(code string) []Move {
	var moves []Move
	var x, y, z, feed float64

	for _, line := range strings.Split(code, "\n") {
		if i := strings.Index(line, ";"); i >= 0 {
			line = line[:i]
		}
		if i := strings.Index(line, "("); i >= 0 {
			if j := strings.Index(line[i:], ")"); j >= 0 {
				line = line[:i] + line[i+j+1:]
			} else {
				line = line[:i]
			}
		}
		fields := strings.Fields(strings.ToUpper(line))
		if len(fields) == 0 {
			continue
		}
		var rapid bool
		switch fields[0] {
		case "G0", "G00":
			rapid = true
		case "G1", "G01":
		default:
			continue
		}

		nx, ny, nz, nf := x, y, z, feed
		for _, m := range coordRe.FindAllStringSubmatch(strings.Join(fields[1:], " "), -1) {
			v, err := strconv.ParseFloat(m[2], 64)
			if err != nil {
				continue
			}
			switch m[1] {
			case "X":
				nx = v
			case "Y":
				ny = v
			case "Z":
				nz = v
			case "F":
				nf = v
			}
		}
		moves = append(moves, Move{
			Type:  classify(rapid, z, nz, x != nx || y != ny),
			FromX: x, FromY: y, FromZ: z,
			ToX: nx, ToY: ny, ToZ: nz,
			FeedRate: nf,
		})
		x, y, z, feed = nx, ny, nz, nf
	}
	return moves
}

func classify(rapid bool, fromZ, toZ float64, hasXY bool) MoveType {
	dz := toZ - fromZ
	switch {
	case rapid && dz > 0:
		return MoveRetract
	case rapid:
		return MoveRapid
	case dz < -0.001 && !hasXY:
		return MovePlunge
	case dz > 0.001 && !hasXY:
		return MoveRetract
	default:
		return MoveFeed
	}
}

// Stats summarises a program.
type Stats struct {
	CutLength   float64 `json:"cut_length"`   // mm at feed
	RapidLength float64 `json:"rapid_length"` // mm at rapid
	Plunges     int     `json:"plunges"`
	Minutes     float64 `json:"minutes"` // feed time estimate, rapids excluded
}

// Summarize totals the moves of a parsed program.
func Summarize(moves []Move) Stats {
	var s Stats
	for _, m := range moves {
		l := m.Length()
		switch m.Type {
		case MoveRapid, MoveRetract:
			s.RapidLength += l
			continue
		case MovePlunge:
			s.Plunges++
		}
		s.CutLength += l
		if m.FeedRate > 0 {
			s.Minutes += l / m.FeedRate
		}
	}
	return s
}

// Estimate generates and summarises the program of every sheet in plan.
func (g *Generator) Estimate(plan model.CutPlan) []Stats {
	stats := make([]Stats, 0, len(plan.Sheets))
	for _, code := range g.GenerateAll(plan) {
		stats = append(stats, Summarize(Parse(code)))
	}
	return stats
}
