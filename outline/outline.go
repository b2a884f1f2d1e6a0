// Package outline lists the named functions defined at the top level of a
// cartridge, for editors that show a code outline.
package outline

import (
	"iter"
	"regexp"
	"sort"
	"strings"
)

// Kind distinguishes how a function was declared.
type Kind int

const (
	// Declaration is a `func name(...)` statement.
	Declaration Kind = iota
	// Assignment is a function literal assigned to a name.
	Assignment
)

func (k Kind) String() string {
	if k == Assignment {
		return "assignment"
	}
	return "declaration"
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Item is one named region of source code. Offsets are byte offsets into the
// source; Line and Column are 1-based.
type Item struct {
	Name   string `json:"name"`
	Kind   Kind   `json:"kind"`
	Offset int    `json:"offset"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

var (
	declPattern   = regexp.MustCompile(`\bfunc\s+([A-Za-z_][A-Za-z0-9_]*)\s*\(`)
	assignPattern = regexp.MustCompile(`\b([A-Za-z_][A-Za-z0-9_]*)\s*:?=\s*func\s*\(`)
)

// Extract returns the top-level functions in code, in source order. The
// sequence is consumed by its first iteration; iterating again yields
// nothing.
func Extract(code string) iter.Seq[Item] {
	consumed := false
	return func(yield func(Item) bool) {
		if consumed {
			return
		}
		consumed = true
		for _, item := range scan(code) {
			if !yield(item) {
				return
			}
		}
	}
}

// Collect returns all items of code as a slice.
func Collect(code string) []Item {
	return scan(code)
}

func scan(code string) []Item {
	clean := blank(code)
	depth := depths(clean)
	var items []Item
	add := func(pattern *regexp.Regexp, kind Kind) {
		for _, m := range pattern.FindAllStringSubmatchIndex(clean, -1) {
			if depth[m[0]] != 0 {
				continue
			}
			start := m[2]
			line, col := position(code, start)
			items = append(items, Item{
				Name:   code[m[2]:m[3]],
				Kind:   kind,
				Offset: start,
				Line:   line,
				Column: col,
			})
		}
	}
	add(declPattern, Declaration)
	add(assignPattern, Assignment)
	sort.Slice(items, func(i, j int) bool {
		return items[i].Offset < items[j].Offset
	})
	return items
}

// blank replaces comments and string literals with spaces, keeping newlines
// so offsets and positions are unchanged.
func blank(code string) string {
	b := []byte(code)
	erase := func(from, to int) {
		for i := from; i < to && i < len(b); i++ {
			if b[i] != '\n' {
				b[i] = ' '
			}
		}
	}
	for i := 0; i < len(b); {
		switch {
		case strings.HasPrefix(code[i:], "//"):
			end := strings.IndexByte(code[i:], '\n')
			if end < 0 {
				end = len(code) - i
			}
			erase(i, i+end)
			i += end
		case strings.HasPrefix(code[i:], "/*"):
			end := strings.Index(code[i+2:], "*/")
			if end < 0 {
				end = len(code) - i - 2
			} else {
				end += 2
			}
			erase(i, i+2+end)
			i += 2 + end
		case code[i] == '"' || code[i] == '\'' || code[i] == '`':
			end := closing(code, i)
			erase(i, end)
			i = end
		default:
			i++
		}
	}
	return string(b)
}

// closing returns the offset just past the string literal starting at i.
func closing(code string, i int) int {
	quote := code[i]
	for j := i + 1; j < len(code); j++ {
		switch code[j] {
		case '\\':
			if quote != '`' {
				j++
			}
		case quote:
			return j + 1
		case '\n':
			if quote != '`' {
				return j
			}
		}
	}
	return len(code)
}

// depths returns the brace nesting depth at every offset.
func depths(clean string) []int {
	d := make([]int, len(clean)+1)
	level := 0
	for i := 0; i < len(clean); i++ {
		d[i] = level
		switch clean[i] {
		case '{':
			level++
		case '}':
			if level > 0 {
				level--
			}
		}
	}
	d[len(clean)] = level
	return d
}

func position(code string, offset int) (line, col int) {
	line = 1 + strings.Count(code[:offset], "\n")
	col = offset - strings.LastIndexByte(code[:offset], '\n')
	return line, col
}
