package puzzle

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
)

type Direction int

const (
	Across Direction = iota
	Down
)

func (d Direction) String() string {
	if d == Across {
		return "across"
	}
	return "down"
}

// Slot is a maximal run of open cells designated for one word.
// Identity is by (Row, Col, Dir); Length is determined by those plus
// the structure, but carrying it makes the slot self-describing.
type Slot struct {
	Row    int
	Col    int
	Dir    Direction
	Length int
}

func (s Slot) String() string {
	return fmt.Sprintf("(%d,%d %v len %d)", s.Row, s.Col, s.Dir, s.Length)
}

// Cell returns the grid coordinates of the i-th letter of the slot.
func (s Slot) Cell(i int) (int, int) {
	if s.Dir == Across {
		return s.Row, s.Col + i
	}
	return s.Row + i, s.Col
}

// Overlap is the single crossing cell between two slots, as the
// matching character index within each slot's word.
type Overlap struct {
	AIndex int
	BIndex int
}

type slotPair struct {
	a, b Slot
}

// Crossword is the puzzle model: the grid structure, the slots carved
// out of it, their crossing relation, and the candidate word pool.
// It is immutable after construction.
type Crossword struct {
	Height int
	Width  int

	structure [][]bool
	slots     []Slot
	overlaps  map[slotPair]Overlap
	neighbors map[Slot][]Slot
	words     []string
}

// NewCrossword builds the model from a rectangular structure grid
// (true = open cell) and a word pool. The word pool is uppercased and
// deduplicated; slots are maximal open runs of length two or more.
func NewCrossword(structure [][]bool, words []string) (*Crossword, error) {
	if len(structure) == 0 || len(structure[0]) == 0 {
		return nil, fmt.Errorf("empty structure")
	}
	width := len(structure[0])
	for i, row := range structure {
		if len(row) != width {
			return nil, fmt.Errorf("ragged structure: row %d has width %d, want %d",
				i, len(row), width)
		}
	}

	cw := &Crossword{
		Height:    len(structure),
		Width:     width,
		structure: structure,
		overlaps:  make(map[slotPair]Overlap),
		neighbors: make(map[Slot][]Slot),
		words:     NormalizeWords(words),
	}
	cw.extractSlots()
	if err := cw.computeOverlaps(); err != nil {
		return nil, err
	}
	return cw, nil
}

// Open reports whether the cell at (row, col) takes a letter.
func (cw *Crossword) Open(row, col int) bool {
	return cw.structure[row][col]
}

// Slots returns every slot in a deterministic order (row, then
// column, across before down). Callers must not mutate the slice.
func (cw *Crossword) Slots() []Slot {
	return cw.slots
}

// Words returns the candidate pool. Callers must not mutate the slice.
func (cw *Crossword) Words() []string {
	return cw.words
}

// Overlap returns the crossing record for (a, b), oriented so that
// AIndex indexes into a's word and BIndex into b's.
func (cw *Crossword) Overlap(a, b Slot) (Overlap, bool) {
	ov, ok := cw.overlaps[slotPair{a, b}]
	return ov, ok
}

// Neighbors returns all slots crossing s, in deterministic order.
// Callers must not mutate the slice.
func (cw *Crossword) Neighbors(s Slot) []Slot {
	return cw.neighbors[s]
}

func slotLess(a, b Slot) bool {
	if a.Row != b.Row {
		return a.Row < b.Row
	}
	if a.Col != b.Col {
		return a.Col < b.Col
	}
	return a.Dir < b.Dir
}

func (cw *Crossword) extractSlots() {
	for r := 0; r < cw.Height; r++ {
		for c := 0; c < cw.Width; c++ {
			if !cw.structure[r][c] {
				continue
			}
			// A slot starts here if the previous cell is closed or
			// off-grid and the run extends at least one more cell.
			if (c == 0 || !cw.structure[r][c-1]) && c+1 < cw.Width && cw.structure[r][c+1] {
				length := 0
				for cc := c; cc < cw.Width && cw.structure[r][cc]; cc++ {
					length++
				}
				cw.slots = append(cw.slots, Slot{Row: r, Col: c, Dir: Across, Length: length})
			}
			if (r == 0 || !cw.structure[r-1][c]) && r+1 < cw.Height && cw.structure[r+1][c] {
				length := 0
				for rr := r; rr < cw.Height && cw.structure[rr][c]; rr++ {
					length++
				}
				cw.slots = append(cw.slots, Slot{Row: r, Col: c, Dir: Down, Length: length})
			}
		}
	}
	sort.Slice(cw.slots, func(i, j int) bool {
		return slotLess(cw.slots[i], cw.slots[j])
	})
}

func (cw *Crossword) computeOverlaps() error {
	for _, a := range cw.slots {
		if a.Length < 2 {
			return fmt.Errorf("slot %v has invalid length", a)
		}
		for _, b := range cw.slots {
			if a == b || a.Dir == b.Dir {
				continue
			}
			// Orient so ac is the across slot, dn the down slot.
			ac, dn := a, b
			if ac.Dir == Down {
				ac, dn = dn, ac
			}
			if dn.Col < ac.Col || dn.Col >= ac.Col+ac.Length {
				continue
			}
			if ac.Row < dn.Row || ac.Row >= dn.Row+dn.Length {
				continue
			}
			acIdx := dn.Col - ac.Col
			dnIdx := ac.Row - dn.Row
			if a.Dir == Across {
				cw.overlaps[slotPair{a, b}] = Overlap{AIndex: acIdx, BIndex: dnIdx}
			} else {
				cw.overlaps[slotPair{a, b}] = Overlap{AIndex: dnIdx, BIndex: acIdx}
			}
		}
	}
	for pair := range cw.overlaps {
		cw.neighbors[pair.a] = append(cw.neighbors[pair.a], pair.b)
	}
	for s := range cw.neighbors {
		ns := cw.neighbors[s]
		sort.Slice(ns, func(i, j int) bool { return slotLess(ns[i], ns[j]) })
	}
	return nil
}

// ParseStructure reads a grid description: one line per row, '_' for
// an open cell, anything else for a block. Short lines are padded
// with blocks on the right.
func ParseStructure(r io.Reader) ([][]bool, error) {
	var rows []string
	width := 0
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		rows = append(rows, line)
		if len(line) > width {
			width = len(line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(rows) == 0 || width == 0 {
		return nil, fmt.Errorf("empty structure")
	}
	structure := make([][]bool, len(rows))
	for i, line := range rows {
		structure[i] = make([]bool, width)
		for j, ch := range line {
			structure[i][j] = ch == '_'
		}
	}
	return structure, nil
}

// ParseStructureFile is ParseStructure on a file path.
func ParseStructureFile(path string) ([][]bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseStructure(f)
}
