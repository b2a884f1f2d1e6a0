package tic

import (
	"iter"

	"github.com/risor-io/tic/outline"
)

// Syntax describes how editors should treat cartridge source.
type Syntax struct {
	ID                int      `json:"id" yaml:"id"`
	Name              string   `json:"name" yaml:"name"`
	Extension         string   `json:"extension" yaml:"extension"`
	ProjectComment    string   `json:"project_comment" yaml:"project_comment"`
	SingleComment     string   `json:"single_comment" yaml:"single_comment"`
	BlockCommentStart string   `json:"block_comment_start" yaml:"block_comment_start"`
	BlockCommentEnd   string   `json:"block_comment_end" yaml:"block_comment_end"`
	Keywords          []string `json:"keywords" yaml:"keywords"`
	Callbacks         []string `json:"callbacks" yaml:"callbacks"`

	Outline func(code string) iter.Seq[outline.Item] `json:"-" yaml:"-"`
}

// Lang is the Risor language descriptor.
var Lang = Syntax{
	ID:                21,
	Name:              "risor",
	Extension:         ".risor",
	ProjectComment:    "//",
	SingleComment:     "//",
	BlockCommentStart: "/*",
	BlockCommentEnd:   "*/",
	Keywords: []string{
		"as", "break", "case", "const", "continue", "default", "defer",
		"else", "false", "for", "from", "func", "go", "if", "import", "in",
		"nil", "not", "range", "return", "switch", "true", "var",
	},
	Callbacks: []string{"TIC", "BOOT", "SCN", "BDR", "MENU"},
	Outline:   outline.Extract,
}

// IsKeyword reports whether word is reserved in cartridge source.
func (s Syntax) IsKeyword(word string) bool {
	for _, k := range s.Keywords {
		if k == word {
			return true
		}
	}
	return false
}
