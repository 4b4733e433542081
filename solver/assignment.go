package solver

import (
	"sort"
	"strings"

	"github.com/domino14/amaranta/puzzle"
)

// Assignment maps each slot to its chosen word. A complete assignment
// has one entry per slot in the puzzle.
type Assignment map[puzzle.Slot]string

func (a Assignment) Copy() Assignment {
	c := make(Assignment, len(a))
	for k, v := range a {
		c[k] = v
	}
	return c
}

func (a Assignment) String() string {
	slots := make([]puzzle.Slot, 0, len(a))
	for s := range a {
		slots = append(slots, s)
	}
	sort.Slice(slots, func(i, j int) bool {
		si, sj := slots[i], slots[j]
		if si.Row != sj.Row {
			return si.Row < sj.Row
		}
		if si.Col != sj.Col {
			return si.Col < sj.Col
		}
		return si.Dir < sj.Dir
	})
	var sb strings.Builder
	for i, s := range slots {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(s.String())
		sb.WriteString("=")
		sb.WriteString(a[s])
	}
	return sb.String()
}

// Domains is the per-slot set of still-possible words; the mutable
// state that propagation and search prune.
type Domains map[puzzle.Slot]map[string]struct{}

func (d Domains) Count(s puzzle.Slot) int {
	return len(d[s])
}

func (d Domains) Contains(s puzzle.Slot, w string) bool {
	_, ok := d[s][w]
	return ok
}

// SortedWords returns the slot's domain as a sorted slice, for
// deterministic iteration.
func (d Domains) SortedWords(s puzzle.Slot) []string {
	words := make([]string, 0, len(d[s]))
	for w := range d[s] {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

func (d Domains) Copy() Domains {
	c := make(Domains, len(d))
	for s, words := range d {
		set := make(map[string]struct{}, len(words))
		for w := range words {
			set[w] = struct{}{}
		}
		c[s] = set
	}
	return c
}
