// Package parser turns puzzle text (a plain character grid or a YAML
// document) into a puzzle.State, assigning color ids to characters in
// first-seen order the way puzzle.New expects.
package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/flowfree/solver/internal/puzzle"
)

// Document is the YAML puzzle format: a size, the row strings ('.' for
// FREE and any other single rune as an endpoint character), and an
// optional Colors table naming each endpoint rune. Colors is keyed by
// the single-character rune as it appears in Rows (e.g. "r": "red");
// when present it also fixes color id assignment to sorted key order
// instead of first-seen-in-rows order, so the same document always
// assigns the same ids regardless of how the rows are laid out.
type Document struct {
	Size   int               `yaml:"size"`
	Colors map[string]string `yaml:"colors"`
	Rows   []string          `yaml:"rows"`
}

// ParseGrid builds a State from plain text rows, one line per board row.
// Blank leading/trailing lines are trimmed; every remaining line must be
// exactly len(rows) characters, matching puzzle.New's expectations.
func ParseGrid(text string) (*puzzle.State, error) {
	lines := splitNonEmptyLines(text)
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: empty grid", puzzle.ErrMalformedInput)
	}
	return buildState(len(lines), lines)
}

// ParseYAML builds a State from a Document encoded as YAML.
func ParseYAML(data []byte) (*puzzle.State, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", puzzle.ErrMalformedInput, err)
	}
	if doc.Size <= 0 {
		return nil, fmt.Errorf("%w: size must be positive", puzzle.ErrMalformedInput)
	}
	if len(doc.Colors) == 0 {
		return buildState(doc.Size, doc.Rows)
	}
	return buildNamedState(doc.Size, doc.Rows, doc.Colors)
}

// ParseFile dispatches on the file extension: .yaml/.yml go through
// ParseYAML, anything else is treated as a plain character grid.
func ParseFile(path string) (*puzzle.State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return ParseGrid(string(data))
	}
}

func splitNonEmptyLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if strings.TrimSpace(l) == "" {
			continue
		}
		lines = append(lines, l)
	}
	return lines
}

// buildState assigns each distinct non-'.' rune the next color id in
// first-seen reading order and hands the result to puzzle.New.
func buildState(n int, rows []string) (*puzzle.State, error) {
	charToColor := make(map[byte]int)
	nextColor := 0
	for _, row := range rows {
		for i := 0; i < len(row); i++ {
			ch := row[i]
			if ch == '.' {
				continue
			}
			if _, ok := charToColor[ch]; !ok {
				charToColor[ch] = nextColor
				nextColor++
			}
		}
	}
	return puzzle.New(n, rows, charToColor)
}

// buildNamedState is buildState plus an explicit colors table: the table's
// keys (each a single-character rune as a string) get sorted and assigned
// color ids in that order, and the table's values become State.ColorNames.
// A rune appearing in rows but absent from the table is still an error,
// the same as an unmapped character in the unnamed path.
func buildNamedState(n int, rows []string, colors map[string]string) (*puzzle.State, error) {
	keys := make([]string, 0, len(colors))
	for k := range colors {
		if len(k) != 1 {
			return nil, fmt.Errorf("%w: colors key %q must be a single character", puzzle.ErrMalformedInput, k)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	charToColor := make(map[byte]int, len(keys))
	names := make([]string, len(keys))
	for id, k := range keys {
		charToColor[k[0]] = id
		names[id] = colors[k]
	}

	s, err := puzzle.New(n, rows, charToColor)
	if err != nil {
		return nil, err
	}
	s.ColorNames = names
	return s, nil
}
