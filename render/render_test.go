package render

import (
	"strings"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/amaranta/puzzle"
	"github.com/domino14/amaranta/solver"
)

func twoSlotPuzzle(t *testing.T) (*puzzle.Crossword, solver.Assignment) {
	t.Helper()
	grid, err := puzzle.ParseStructure(strings.NewReader("___\n##_\n##_\n"))
	if err != nil {
		t.Fatal(err)
	}
	cw, err := puzzle.NewCrossword(grid, []string{"CAT", "TEA"})
	if err != nil {
		t.Fatal(err)
	}
	a := solver.Assignment{
		{Row: 0, Col: 0, Dir: puzzle.Across, Length: 3}: "CAT",
		{Row: 0, Col: 2, Dir: puzzle.Down, Length: 3}:   "TEA",
	}
	return cw, a
}

func TestLetters(t *testing.T) {
	is := is.New(t)
	cw, a := twoSlotPuzzle(t)
	letters := Letters(cw, a)
	is.Equal(string(letters[0]), "CAT")
	is.Equal(letters[1][2], 'E')
	is.Equal(letters[2][2], 'A')
	is.Equal(letters[1][0], rune(0)) // block stays empty
}

func TestText(t *testing.T) {
	is := is.New(t)
	cw, a := twoSlotPuzzle(t)
	text := Text(cw, a)
	is.True(strings.Contains(text, "C A T"))
	is.True(strings.Contains(text, "█ █ E"))
	is.True(strings.Contains(text, "█ █ A"))
	is.True(strings.Contains(text, "   A B C"))
}

func TestTextUnsolved(t *testing.T) {
	is := is.New(t)
	cw, _ := twoSlotPuzzle(t)
	text := Text(cw, nil)
	is.True(strings.Contains(text, "█ █  "))
	is.True(!strings.Contains(text, "T")) // no letters placed
}

func TestImageDimensions(t *testing.T) {
	is := is.New(t)
	cw, a := twoSlotPuzzle(t)
	img := Image(cw, a)
	is.Equal(img.Bounds().Dx(), cw.Width*cellSize)
	is.Equal(img.Bounds().Dy(), cw.Height*cellSize)
}
