package puzzle

import (
	"bufio"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/domino14/amaranta/cache"
	"github.com/domino14/amaranta/config"
)

var upperCaser = cases.Upper(language.Und)

// NormalizeWords uppercases, deduplicates, and sorts a word pool.
// Sorting gives every consumer the same iteration base, which the
// solver's deterministic tie-breaks rely on.
func NormalizeWords(words []string) []string {
	seen := make(map[string]struct{}, len(words))
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = upperCaser.String(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

func wordListLoader(cfg *config.Config, key string) (interface{}, error) {
	path := strings.TrimPrefix(key, "wordlist:")
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		words = append(words, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	words = NormalizeWords(words)
	log.Debug().Str("path", path).Int("words", len(words)).Msg("loaded-word-list")
	return words, nil
}

// LoadWords reads a one-word-per-line file through the global cache.
func LoadWords(cfg *config.Config, path string) ([]string, error) {
	obj, err := cache.Load(cfg, "wordlist:"+path, wordListLoader)
	if err != nil {
		return nil, err
	}
	return obj.([]string), nil
}

// NewCrosswordFromFiles loads a structure file and a word list and
// builds the model.
func NewCrosswordFromFiles(cfg *config.Config, structurePath, wordsPath string) (*Crossword, error) {
	structure, err := ParseStructureFile(structurePath)
	if err != nil {
		return nil, err
	}
	words, err := LoadWords(cfg, wordsPath)
	if err != nil {
		return nil, err
	}
	return NewCrossword(structure, words)
}
