package engine

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/piwi3910/TileAtlas/internal/logging"
	"github.com/piwi3910/TileAtlas/internal/model"
)

// GeneticConfig holds parameters for the insertion order search.
type GeneticConfig struct {
	PopulationSize int
	Generations    int
	MutationRate   float64
	TournamentSize int
	EliteCount     int
	Seed           int64
}

// DefaultGeneticConfig returns sensible default parameters.
func DefaultGeneticConfig() GeneticConfig {
	return GeneticConfig{
		PopulationSize: 40,
		Generations:    60,
		MutationRate:   0.15,
		TournamentSize: 3,
		EliteCount:     2,
		Seed:           42,
	}
}

// ScaleForSprites grows the search for larger sprite sets.
func (c GeneticConfig) ScaleForSprites(n int) GeneticConfig {
	if n > 50 {
		c.Generations = max(c.Generations, 100)
	}
	if n > 200 {
		c.Generations = max(c.Generations, 150)
		c.PopulationSize = max(c.PopulationSize, 60)
	}
	return c
}

// chromosome is one insertion order over the expanded sprite slice.
type chromosome struct {
	order   []int
	fitness float64
}

type orderSearch struct {
	packer  *Packer
	config  GeneticConfig
	sprites []model.Sprite
	rng     *rand.Rand
	log     *logrus.Entry
}

// PackGenetic searches for a sprite insertion order that needs fewer pages
// than the plain sorted order. The sorted order is part of the initial
// population and elitism keeps the best order found, so the result is never
// worse than Pack under the same settings. The search is deterministic for a
// given config seed.
func (p *Packer) PackGenetic(sprites []model.Sprite, config GeneticConfig) (model.PackResult, error) {
	if err := p.Settings.Validate(); err != nil {
		return model.PackResult{}, fmt.Errorf("invalid settings: %w", err)
	}
	if config.PopulationSize < 1 {
		return model.PackResult{}, fmt.Errorf("population size must be positive, got %d", config.PopulationSize)
	}

	expanded := expandSprites(sprites)
	if len(expanded) == 0 {
		return model.PackResult{}, ErrNoSprites
	}
	order, _ := model.ParseSortOrder(string(p.Settings.SortOrder))
	sort.SliceStable(expanded, func(i, j int) bool {
		return order.Less(expanded[i], expanded[j])
	})

	// Oversized sprites never place, so they stay out of the search.
	var candidates, oversized []model.Sprite
	for _, s := range expanded {
		if p.fits(s) {
			candidates = append(candidates, s)
		} else {
			oversized = append(oversized, s)
		}
	}

	log := logging.WithComponent("engine")
	for _, s := range oversized {
		logging.WithSprite(s.ID, s.Label).WithFields(logrus.Fields{
			"width":  s.Width,
			"height": s.Height,
		}).Warn("sprite does not fit on a page")
	}

	var result model.PackResult
	if len(candidates) > 0 {
		search := &orderSearch{
			packer:  p,
			config:  config,
			sprites: candidates,
			rng:     rand.New(rand.NewSource(config.Seed)),
			log:     log,
		}
		best := search.run()
		var err error
		result, _, err = p.place(search.ordered(best))
		if err != nil {
			return model.PackResult{}, err
		}
	}
	result.Unplaced = append(result.Unplaced, oversized...)

	log.WithFields(logrus.Fields{
		"pages":       len(result.Pages),
		"placed":      result.PlacementCount(),
		"unplaced":    len(result.Unplaced),
		"efficiency":  fmt.Sprintf("%.1f%%", result.TotalEfficiency()),
		"generations": config.Generations,
	}).Info("order search complete")
	return result, nil
}

// run evolves the population and returns the fittest order.
func (g *orderSearch) run() chromosome {
	population := g.initPopulation()
	for i := range population {
		population[i].fitness = g.evaluate(population[i])
	}

	for gen := 0; gen < g.config.Generations; gen++ {
		sortByFitness(population)

		next := make([]chromosome, 0, g.config.PopulationSize)
		for i := 0; i < min(g.config.EliteCount, len(population)); i++ {
			next = append(next, copyChromosome(population[i]))
		}

		for len(next) < g.config.PopulationSize {
			child := g.orderCrossover(g.tournamentSelect(population), g.tournamentSelect(population))
			g.mutate(&child)
			child.fitness = g.evaluate(child)
			next = append(next, child)
		}
		population = next

		if gen%20 == 0 {
			g.log.WithFields(logrus.Fields{
				"generation": gen,
				"best":       fmt.Sprintf("%.4f", population[0].fitness),
			}).Debug("order search progress")
		}
	}

	sortByFitness(population)
	return population[0]
}

// initPopulation seeds the population with the sorted order followed by
// random permutations.
func (g *orderSearch) initPopulation() []chromosome {
	n := len(g.sprites)
	population := make([]chromosome, g.config.PopulationSize)

	sorted := make([]int, n)
	for i := range sorted {
		sorted[i] = i
	}
	population[0] = chromosome{order: sorted}
	for i := 1; i < len(population); i++ {
		population[i] = chromosome{order: g.rng.Perm(n)}
	}
	return population
}

func (g *orderSearch) ordered(c chromosome) []model.Sprite {
	out := make([]model.Sprite, len(c.order))
	for i, idx := range c.order {
		out[i] = g.sprites[idx]
	}
	return out
}

// evaluate packs the order and scores it. Fewer pages dominate; among equal
// page counts the larger single free region wins.
func (g *orderSearch) evaluate(c chromosome) float64 {
	result, _, err := g.packer.place(g.ordered(c))
	if err != nil || len(result.Pages) == 0 {
		return 0
	}

	efficiency := result.TotalEfficiency() / 100
	unplacedPenalty := float64(len(result.Unplaced)) * 0.1
	pagePenalty := float64(len(result.Pages)-1) * 0.05

	largest := 0
	for _, r := range model.AllFreeRegions(result) {
		largest = max(largest, r.Area())
	}
	pageArea := float64(g.packer.Settings.PageWidth * g.packer.Settings.PageHeight)
	freeBonus := float64(largest) / pageArea * 0.01

	return max(efficiency-unplacedPenalty-pagePenalty+freeBonus, 0)
}

// tournamentSelect picks the best individual from a random tournament.
func (g *orderSearch) tournamentSelect(population []chromosome) chromosome {
	best := population[g.rng.Intn(len(population))]
	for i := 1; i < g.config.TournamentSize; i++ {
		candidate := population[g.rng.Intn(len(population))]
		if candidate.fitness > best.fitness {
			best = candidate
		}
	}
	return copyChromosome(best)
}

// orderCrossover implements Order Crossover (OX1): a slice of parent1 is
// kept in place and the rest is filled in parent2's relative order.
func (g *orderSearch) orderCrossover(parent1, parent2 chromosome) chromosome {
	n := len(parent1.order)
	if n <= 2 {
		return copyChromosome(parent1)
	}

	point1 := g.rng.Intn(n)
	point2 := g.rng.Intn(n)
	if point1 > point2 {
		point1, point2 = point2, point1
	}

	child := chromosome{order: make([]int, n)}
	inSegment := make(map[int]bool, point2-point1+1)
	for i := point1; i <= point2; i++ {
		child.order[i] = parent1.order[i]
		inSegment[parent1.order[i]] = true
	}

	idx := (point2 + 1) % n
	for _, v := range parent2.order {
		if !inSegment[v] {
			child.order[idx] = v
			idx = (idx + 1) % n
		}
	}
	return child
}

// mutate swaps two positions and occasionally reverses a segment.
func (g *orderSearch) mutate(c *chromosome) {
	n := len(c.order)
	if n < 2 {
		return
	}

	if g.rng.Float64() < g.config.MutationRate {
		i, j := g.rng.Intn(n), g.rng.Intn(n)
		c.order[i], c.order[j] = c.order[j], c.order[i]
	}

	if g.rng.Float64() < g.config.MutationRate*0.5 {
		i, j := g.rng.Intn(n), g.rng.Intn(n)
		if i > j {
			i, j = j, i
		}
		for ; i < j; i, j = i+1, j-1 {
			c.order[i], c.order[j] = c.order[j], c.order[i]
		}
	}
}

func sortByFitness(population []chromosome) {
	sort.SliceStable(population, func(i, j int) bool {
		return population[i].fitness > population[j].fitness
	})
}

func copyChromosome(c chromosome) chromosome {
	order := make([]int, len(c.order))
	copy(order, c.order)
	return chromosome{order: order, fitness: c.fitness}
}
