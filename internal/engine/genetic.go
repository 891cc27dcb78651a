package engine

import (
	"math/rand"
	"sort"

	"github.com/piwi3910/RodCut/internal/model"
)

// GeneticConfig holds parameters for the genetic slot bound search.
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
		PopulationSize: 50,
		Generations:    100,
		MutationRate:   0.15,
		TournamentSize: 3,
		EliteCount:     2,
		Seed:           1,
	}
}

// chromosome represents a candidate packing order of the demanded units.
type chromosome struct {
	genes   []int // Positions in the expanded unit list
	fitness float64
}

// geneticSearch evolves unit orders and decodes them with first-fit.
type geneticSearch struct {
	problem model.Problem
	repeat  bool
	config  GeneticConfig
	units   []int
	rng     *rand.Rand
}

// GeneticBound searches for a packing with few rods by evolving the order in
// which first-fit sees the pieces. The population is seeded with the
// largest-first order and elites survive, so the result never uses more rods
// than FirstFitDecreasing.
func GeneticBound(p model.Problem, repeat bool, config GeneticConfig) [][]int {
	units := expandUnits(p)
	if len(units) == 0 {
		return nil
	}
	if config.PopulationSize < 1 {
		config.PopulationSize = 1
	}
	g := &geneticSearch{
		problem: p,
		repeat:  repeat,
		config:  config,
		units:   units,
		rng:     rand.New(rand.NewSource(config.Seed)),
	}
	return g.decode(g.optimize())
}

// optimize runs the genetic algorithm and returns the best chromosome.
func (g *geneticSearch) optimize() chromosome {
	population := g.initPopulation()
	for i := range population {
		population[i].fitness = g.evaluate(population[i])
	}

	for gen := 0; gen < g.config.Generations; gen++ {
		// Sort by fitness descending (higher is better)
		sort.SliceStable(population, func(i, j int) bool {
			return population[i].fitness > population[j].fitness
		})

		newPop := make([]chromosome, 0, g.config.PopulationSize)

		// Elitism: carry over the best individuals unchanged
		eliteCount := g.config.EliteCount
		if eliteCount > len(population) {
			eliteCount = len(population)
		}
		for i := 0; i < eliteCount; i++ {
			newPop = append(newPop, copyChromosome(population[i]))
		}

		for len(newPop) < g.config.PopulationSize {
			parent1 := g.tournamentSelect(population)
			parent2 := g.tournamentSelect(population)

			child := g.orderCrossover(parent1, parent2)
			g.mutate(&child)

			child.fitness = g.evaluate(child)
			newPop = append(newPop, child)
		}

		population = newPop
	}

	sort.SliceStable(population, func(i, j int) bool {
		return population[i].fitness > population[j].fitness
	})
	return population[0]
}

// initPopulation creates random orders plus one largest-first order.
func (g *geneticSearch) initPopulation() []chromosome {
	n := len(g.units)
	population := make([]chromosome, g.config.PopulationSize)
	for i := range population {
		population[i] = chromosome{genes: g.rng.Perm(n)}
	}

	greedy := make([]int, n)
	for i := range greedy {
		greedy[i] = i
	}
	sort.SliceStable(greedy, func(a, b int) bool {
		return g.length(greedy[a]) > g.length(greedy[b])
	})
	population[0] = chromosome{genes: greedy}

	return population
}

func (g *geneticSearch) length(gene int) int {
	return g.problem.Pieces[g.units[gene]].Length
}

// evaluate scores a chromosome. Fewer rods always wins; among equal rod
// counts, fuller rods score higher so partial progress is rewarded.
func (g *geneticSearch) evaluate(c chromosome) float64 {
	rods := g.decode(c)
	if len(rods) == 0 {
		return 0
	}

	var fill float64
	for _, rod := range rods {
		used := 0
		for _, j := range rod {
			used += g.problem.Pieces[j].Length
		}
		ratio := float64(used) / float64(g.problem.RodLength)
		fill += ratio * ratio
	}
	return -float64(len(rods)) + 0.99*fill/float64(len(rods))
}

// decode packs the units in chromosome order with first-fit.
func (g *geneticSearch) decode(c chromosome) [][]int {
	ordered := make([]int, len(c.genes))
	for i, gene := range c.genes {
		ordered[i] = g.units[gene]
	}
	return firstFit(g.problem, ordered, g.repeat)
}

// tournamentSelect picks the best individual from a random tournament.
func (g *geneticSearch) tournamentSelect(population []chromosome) chromosome {
	best := population[g.rng.Intn(len(population))]
	for i := 1; i < g.config.TournamentSize; i++ {
		candidate := population[g.rng.Intn(len(population))]
		if candidate.fitness > best.fitness {
			best = candidate
		}
	}
	return copyChromosome(best)
}

// orderCrossover implements Order Crossover (OX1) for permutation chromosomes.
// It preserves the relative order of genes from both parents.
func (g *geneticSearch) orderCrossover(parent1, parent2 chromosome) chromosome {
	n := len(parent1.genes)
	if n <= 2 {
		return copyChromosome(parent1)
	}

	point1 := g.rng.Intn(n)
	point2 := g.rng.Intn(n)
	if point1 > point2 {
		point1, point2 = point2, point1
	}

	child := chromosome{genes: make([]int, n)}

	// Copy segment from parent1
	inSegment := make(map[int]bool, point2-point1+1)
	for i := point1; i <= point2; i++ {
		child.genes[i] = parent1.genes[i]
		inSegment[parent1.genes[i]] = true
	}

	// Fill remaining positions with genes from parent2 in order
	childIdx := (point2 + 1) % n
	for _, pg := range parent2.genes {
		if !inSegment[pg] {
			child.genes[childIdx] = pg
			childIdx = (childIdx + 1) % n
		}
	}

	return child
}

// mutate applies swap and inversion mutations.
func (g *geneticSearch) mutate(c *chromosome) {
	n := len(c.genes)
	if n < 2 {
		return
	}

	if g.rng.Float64() < g.config.MutationRate {
		i := g.rng.Intn(n)
		j := g.rng.Intn(n)
		c.genes[i], c.genes[j] = c.genes[j], c.genes[i]
	}

	// Inversion mutation: reverse a small segment (less frequent)
	if g.rng.Float64() < g.config.MutationRate*0.5 {
		i := g.rng.Intn(n)
		j := g.rng.Intn(n)
		if i > j {
			i, j = j, i
		}
		for i < j {
			c.genes[i], c.genes[j] = c.genes[j], c.genes[i]
			i++
			j--
		}
	}
}

// copyChromosome creates a deep copy of a chromosome.
func copyChromosome(c chromosome) chromosome {
	genes := make([]int, len(c.genes))
	copy(genes, c.genes)
	return chromosome{genes: genes, fitness: c.fitness}
}
