// Package bingo derives 5x5 bingo grids from a group's prediction pool.
//
// Generation is a pure function of its inputs apart from the layout shuffle:
// cell positions are re-randomized on every call, while each submitter's
// color and each prediction's completion state are stable. Different viewers
// (or the same viewer after a reload) therefore see the same predictions in
// different places. That variety is intentional; only color and completion
// carry shared meaning.
package bingo

import (
	"math/rand/v2"
)

// Grid dimensions. The center cell of the 5x5 layout is always FREE.
const (
	GridCells     = 25
	FreeIndex     = 12
	playableCells = GridCells - 1
)

// PlaceholderContent fills grid cells when a group has fewer than 24
// predictions. Placeholder cells are visually inert and never markable.
const PlaceholderContent = "TBD"

// CellType discriminates the three kinds of grid cell.
type CellType string

const (
	CellFree        CellType = "free"
	CellPrediction  CellType = "prediction"
	CellPlaceholder CellType = "placeholder"
)

// Entry is one prediction feeding the generator. The service layer converts
// stored predictions into entries so this package stays decoupled from the
// storage models.
type Entry struct {
	ID          string
	Content     string
	SubmittedBy string
}

// Cell is one square of the generated grid.
type Cell struct {
	Type         CellType
	Content      string
	PredictionID string
	SubmittedBy  string
	Color        string
	Completed    bool
}

// Card is the generated 5x5 grid plus the color legend used to render it.
type Card struct {
	Cells  []Cell
	Colors ColorAssignment
}

// Generate builds a bingo card from the prediction pool. completed holds the
// IDs of predictions already marked true.
//
// The pool is padded with placeholders up to 24 entries, shuffled uniformly,
// and laid out left-to-right, top-to-bottom with the FREE cell fixed at the
// center index. FREE is always completed; placeholders never are.
func Generate(entries []Entry, completed map[string]bool) Card {
	return generate(entries, completed, rand.Shuffle)
}

// generate is the seam for tests that need a deterministic layout.
func generate(entries []Entry, completed map[string]bool, shuffle func(n int, swap func(i, j int))) Card {
	pool := make([]Entry, len(entries))
	copy(pool, entries)
	for len(pool) < playableCells {
		pool = append(pool, Entry{Content: PlaceholderContent})
	}

	colors := AssignColors(distinctSubmitters(entries))

	shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	pool = pool[:playableCells]

	cells := make([]Cell, 0, GridCells)
	next := 0
	for i := 0; i < GridCells; i++ {
		if i == FreeIndex {
			cells = append(cells, Cell{
				Type:      CellFree,
				Content:   "FREE",
				Completed: true,
			})
			continue
		}

		entry := pool[next]
		next++

		if entry.ID == "" {
			cells = append(cells, Cell{
				Type:    CellPlaceholder,
				Content: PlaceholderContent,
			})
			continue
		}

		cells = append(cells, Cell{
			Type:         CellPrediction,
			Content:      entry.Content,
			PredictionID: entry.ID,
			SubmittedBy:  entry.SubmittedBy,
			Color:        colors.Colors[entry.SubmittedBy],
			Completed:    completed[entry.ID],
		})
	}

	return Card{Cells: cells, Colors: colors}
}

// distinctSubmitters returns the unique submitters of real entries in
// first-appearance order. The order is deliberately not sorted: color
// probing depends on it, and first appearance keeps it stable for a given
// prediction pool.
func distinctSubmitters(entries []Entry) []string {
	seen := make(map[string]bool, len(entries))
	var submitters []string
	for _, e := range entries {
		if e.ID == "" || seen[e.SubmittedBy] {
			continue
		}
		seen[e.SubmittedBy] = true
		submitters = append(submitters, e.SubmittedBy)
	}
	return submitters
}
