// Package render turns a solved crossword into terminal text or a
// PNG image. It only reads the finished assignment.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/domino14/amaranta/puzzle"
	"github.com/domino14/amaranta/solver"
)

// Letters lays the assignment out on the grid. Blocks and unassigned
// cells are zero runes.
func Letters(cw *puzzle.Crossword, a solver.Assignment) [][]rune {
	letters := make([][]rune, cw.Height)
	for i := range letters {
		letters[i] = make([]rune, cw.Width)
	}
	for slot, word := range a {
		for k, ch := range word {
			r, c := slot.Cell(k)
			letters[r][c] = ch
		}
	}
	return letters
}

// Text renders the filled grid for the terminal, with coordinate
// headers and a border.
func Text(cw *puzzle.Crossword, a solver.Assignment) string {
	letters := Letters(cw, a)
	var sb strings.Builder
	sb.WriteString("   ")
	for j := 0; j < cw.Width; j++ {
		fmt.Fprintf(&sb, "%c ", 'A'+j)
	}
	sb.WriteString("\n   ")
	sb.WriteString(strings.Repeat("-", cw.Width*2))
	sb.WriteString("\n")
	for i := 0; i < cw.Height; i++ {
		fmt.Fprintf(&sb, "%2d|", i+1)
		for j := 0; j < cw.Width; j++ {
			switch {
			case !cw.Open(i, j):
				sb.WriteString("█ ")
			case letters[i][j] != 0:
				fmt.Fprintf(&sb, "%c ", letters[i][j])
			default:
				sb.WriteString("  ")
			}
		}
		sb.WriteString("|\n")
	}
	sb.WriteString("   ")
	sb.WriteString(strings.Repeat("-", cw.Width*2))
	sb.WriteString("\n")
	return sb.String()
}

const (
	cellSize   = 40
	cellBorder = 2
)

// Image draws the filled grid: black canvas, white open cells,
// letters centered in their cells.
func Image(cw *puzzle.Crossword, a solver.Assignment) *image.RGBA {
	letters := Letters(cw, a)
	img := image.NewRGBA(image.Rect(0, 0, cw.Width*cellSize, cw.Height*cellSize))
	draw.Draw(img, img.Bounds(), image.Black, image.Point{}, draw.Src)

	face := basicfont.Face7x13
	for i := 0; i < cw.Height; i++ {
		for j := 0; j < cw.Width; j++ {
			if !cw.Open(i, j) {
				continue
			}
			cell := image.Rect(
				j*cellSize+cellBorder, i*cellSize+cellBorder,
				(j+1)*cellSize-cellBorder, (i+1)*cellSize-cellBorder)
			draw.Draw(img, cell, image.White, image.Point{}, draw.Src)
			if letters[i][j] == 0 {
				continue
			}
			s := string(letters[i][j])
			d := font.Drawer{
				Dst:  img,
				Src:  image.NewUniform(color.Black),
				Face: face,
			}
			w := d.MeasureString(s).Ceil()
			x := j*cellSize + (cellSize-w)/2
			y := i*cellSize + (cellSize+face.Ascent)/2
			d.Dot = fixed.P(x, y)
			d.DrawString(s)
		}
	}
	return img
}

// SavePNG writes the rendered grid to a PNG file.
func SavePNG(cw *puzzle.Crossword, a solver.Assignment, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := png.Encode(f, Image(cw, a)); err != nil {
		return err
	}
	log.Debug().Str("filename", filename).Msg("saved-png")
	return nil
}
