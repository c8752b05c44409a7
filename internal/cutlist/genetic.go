package cutlist

import (
	"math/rand"
	"sort"

	"github.com/piwi3910/ClosetCraft/internal/model"
)

// GeneticConfig holds the parameters of the genetic packer.
type GeneticConfig struct {
	PopulationSize int
	Generations    int
	MutationRate   float64
	TournamentSize int
	EliteCount     int
	Seed           int64
}

// DefaultGeneticConfig returns the parameters used for n boards.
func DefaultGeneticConfig(n int) GeneticConfig {
	cfg := GeneticConfig{
		PopulationSize: 50,
		Generations:    100,
		MutationRate:   0.15,
		TournamentSize: 3,
		EliteCount:     2,
		Seed:           42,
	}
	if n > 20 {
		cfg.Generations = 150
	}
	if n > 50 {
		cfg.Generations = 200
		cfg.PopulationSize = 80
	}
	return cfg
}

// gene is one board in the packing order; rotated asks for the board to be
// tried turned first.
type gene struct {
	panel   int
	rotated bool
}

type chromosome struct {
	genes   []gene
	fitness float64
}

type geneticPacker struct {
	packer *Packer
	config GeneticConfig
	panels []model.Panel
	pool   []model.StockSheet
	rng    *rand.Rand
}

func (p *Packer) packGenetic(panels []model.Panel, pool []model.StockSheet) model.CutPlan {
	return p.packGeneticWith(DefaultGeneticConfig(len(panels)), panels, pool)
}

func (p *Packer) packGeneticWith(cfg GeneticConfig, panels []model.Panel, pool []model.StockSheet) model.CutPlan {
	g := &geneticPacker{
		packer: p,
		config: cfg,
		panels: panels,
		pool:   pool,
		rng:    rand.New(rand.NewSource(cfg.Seed)),
	}
	return g.run()
}

func (g *geneticPacker) run() model.CutPlan {
	population := g.initPopulation()
	for i := range population {
		population[i].fitness = g.evaluate(population[i])
	}

	for gen := 0; gen < g.config.Generations; gen++ {
		sortByFitness(population)

		next := make([]chromosome, 0, g.config.PopulationSize)
		for i := 0; i < g.config.EliteCount && i < len(population); i++ {
			next = append(next, population[i].clone())
		}
		for len(next) < g.config.PopulationSize {
			child := g.crossover(g.tournament(population), g.tournament(population))
			g.mutate(&child)
			child.fitness = g.evaluate(child)
			next = append(next, child)
		}
		population = next
	}

	sortByFitness(population)
	return g.decode(population[0])
}

func sortByFitness(population []chromosome) {
	sort.SliceStable(population, func(i, j int) bool {
		return population[i].fitness > population[j].fitness
	})
}

func (g *geneticPacker) canTurn(i int) bool {
	normal, rotated := orientations(g.panels[i].Grain)
	return normal && rotated && g.panels[i].Width != g.panels[i].Height
}

// initPopulation seeds random orders plus the largest-first order.
func (g *geneticPacker) initPopulation() []chromosome {
	n := len(g.panels)
	population := make([]chromosome, g.config.PopulationSize)
	for i := range population {
		genes := make([]gene, n)
		for j, idx := range g.rng.Perm(n) {
			genes[j] = gene{panel: idx, rotated: g.canTurn(idx) && g.rng.Float64() < 0.5}
		}
		population[i] = chromosome{genes: genes}
	}
	if len(population) > 0 {
		population[0] = g.largestFirst()
	}
	return population
}

func (g *geneticPacker) largestFirst() chromosome {
	order := make([]int, len(g.panels))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return g.panels[order[i]].Area() > g.panels[order[j]].Area()
	})
	genes := make([]gene, len(order))
	for i, idx := range order {
		genes[i] = gene{panel: idx}
	}
	return chromosome{genes: genes}
}

// evaluate scores material usage, penalising unplaced boards and every
// sheet beyond the first.
func (g *geneticPacker) evaluate(c chromosome) float64 {
	plan := g.decode(c)
	if len(plan.Sheets) == 0 {
		return 0
	}
	fitness := plan.TotalEfficiency()/100 -
		float64(len(plan.Unplaced))*0.1 -
		float64(len(plan.Sheets)-1)*0.05
	if fitness < 0 {
		return 0
	}
	return fitness
}

// decode packs the boards in chromosome order, one sheet at a time.
func (g *geneticPacker) decode(c chromosome) model.CutPlan {
	pool := make([]model.StockSheet, len(g.pool))
	copy(pool, g.pool)

	remaining := c.genes
	plan := model.CutPlan{}
	for len(remaining) > 0 && len(pool) > 0 {
		idx := g.packer.selectBestStock(pool, g.panelsOf(remaining))
		if idx < 0 {
			break
		}
		stock := pool[idx]
		pool = append(pool[:idx], pool[idx+1:]...)

		sheet := model.SheetResult{Stock: stock}
		packer := g.packer.newSheetPacker(stock)
		var unplaced []gene
		for _, gn := range remaining {
			pn := g.panels[gn.panel]
			canNormal, canRotated := orientations(pn.Grain)
			tries := []bool{false, true}
			if gn.rotated {
				tries = []bool{true, false}
			}
			placed := false
			for _, rotated := range tries {
				if (rotated && !canRotated) || (!rotated && !canNormal) {
					continue
				}
				w, h := pn.Width, pn.Height
				if rotated {
					w, h = h, w
				}
				if ok, x, y := packer.insert(w, h); ok {
					sheet.Placements = append(sheet.Placements, model.Placement{Panel: pn, X: x, Y: y, Rotated: rotated})
					placed = true
					break
				}
			}
			if !placed {
				unplaced = append(unplaced, gn)
			}
		}
		if len(sheet.Placements) > 0 {
			plan.Sheets = append(plan.Sheets, sheet)
		}
		remaining = unplaced
	}
	plan.Unplaced = g.panelsOf(remaining)
	return plan
}

func (g *geneticPacker) panelsOf(genes []gene) []model.Panel {
	if len(genes) == 0 {
		return nil
	}
	out := make([]model.Panel, len(genes))
	for i, gn := range genes {
		out[i] = g.panels[gn.panel]
	}
	return out
}

func (g *geneticPacker) tournament(population []chromosome) chromosome {
	best := population[g.rng.Intn(len(population))]
	for i := 1; i < g.config.TournamentSize; i++ {
		if c := population[g.rng.Intn(len(population))]; c.fitness > best.fitness {
			best = c
		}
	}
	return best.clone()
}

// crossover is order crossover (OX1): a slice of a is kept in place and the
// rest is filled in b's order.
func (g *geneticPacker) crossover(a, b chromosome) chromosome {
	n := len(a.genes)
	if n <= 2 {
		return a.clone()
	}
	lo, hi := g.rng.Intn(n), g.rng.Intn(n)
	if lo > hi {
		lo, hi = hi, lo
	}

	child := chromosome{genes: make([]gene, n)}
	taken := make(map[int]bool, hi-lo+1)
	for i := lo; i <= hi; i++ {
		child.genes[i] = a.genes[i]
		taken[a.genes[i].panel] = true
	}
	pos := (hi + 1) % n
	for _, gn := range b.genes {
		if !taken[gn.panel] {
			child.genes[pos] = gn
			pos = (pos + 1) % n
		}
	}
	return child
}

// mutate swaps two genes, turns one board, or reverses a segment.
func (g *geneticPacker) mutate(c *chromosome) {
	n := len(c.genes)
	if n < 2 {
		return
	}
	rate := g.config.MutationRate
	if g.rng.Float64() < rate {
		i, j := g.rng.Intn(n), g.rng.Intn(n)
		c.genes[i], c.genes[j] = c.genes[j], c.genes[i]
	}
	if g.rng.Float64() < rate {
		i := g.rng.Intn(n)
		if g.canTurn(c.genes[i].panel) {
			c.genes[i].rotated = !c.genes[i].rotated
		}
	}
	if g.rng.Float64() < rate*0.5 {
		i, j := g.rng.Intn(n), g.rng.Intn(n)
		if i > j {
			i, j = j, i
		}
		for ; i < j; i, j = i+1, j-1 {
			c.genes[i], c.genes[j] = c.genes[j], c.genes[i]
		}
	}
}

func (c chromosome) clone() chromosome {
	genes := make([]gene, len(c.genes))
	copy(genes, c.genes)
	return chromosome{genes: genes, fitness: c.fitness}
}
