package tic

import (
	"encoding/json"
	"strings"

	"github.com/risor-io/tic/bridge"
)

// DocsOption configures documentation retrieval.
type DocsOption func(*docsOptions)

type docsOptions struct {
	category string
	topic    string
	all      bool
	table    *bridge.Table
}

// DocsCategory filters documentation to one category: an operation
// category such as "draw", or "callbacks", "errors" or "language".
func DocsCategory(cat string) DocsOption {
	return func(o *docsOptions) {
		o.category = cat
	}
}

// DocsTopic retrieves documentation for one operation or callback.
// Examples: "spr", "TIC", "SCN".
func DocsTopic(topic string) DocsOption {
	return func(o *docsOptions) {
		o.topic = topic
	}
}

// DocsAll returns complete documentation.
func DocsAll() DocsOption {
	return func(o *docsOptions) {
		o.all = true
	}
}

// DocsTable documents t instead of the default operation table.
func DocsTable(t *bridge.Table) DocsOption {
	return func(o *docsOptions) {
		o.table = t
	}
}

// Documentation provides structured access to the cartridge API reference.
type Documentation struct {
	data any
}

// JSON returns the documentation as a JSON string.
func (d *Documentation) JSON() string {
	b, _ := json.MarshalIndent(d.data, "", "  ")
	return string(b)
}

// Data returns the raw documentation data.
func (d *Documentation) Data() any {
	return d.data
}

type docsFunction struct {
	Name      string `json:"name" yaml:"name"`
	Signature string `json:"signature" yaml:"signature"`
	Doc       string `json:"doc" yaml:"doc"`
	Category  string `json:"category" yaml:"category"`
	Arity     string `json:"arity" yaml:"arity"`
}

type docsCallback struct {
	Name      string   `json:"name" yaml:"name"`
	Aliases   []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	Signature string   `json:"signature" yaml:"signature"`
	Mandatory bool     `json:"mandatory" yaml:"mandatory"`
	Doc       string   `json:"doc" yaml:"doc"`
}

type docsErrorPattern struct {
	Type           string   `json:"type" yaml:"type"`
	MessagePattern string   `json:"message_pattern" yaml:"message_pattern"`
	Causes         []string `json:"causes" yaml:"causes"`
}

type docsQuickReference struct {
	Language   string            `json:"language" yaml:"language"`
	Callbacks  []string          `json:"callbacks" yaml:"callbacks"`
	Categories map[string]int    `json:"categories" yaml:"categories"`
	Topics     map[string]string `json:"topics" yaml:"topics"`
}

type docsFullDocumentation struct {
	Language  Syntax             `json:"language" yaml:"language"`
	Functions []docsFunction     `json:"functions" yaml:"functions"`
	Callbacks []docsCallback     `json:"callbacks" yaml:"callbacks"`
	Errors    []docsErrorPattern `json:"errors" yaml:"errors"`
}

var docsCallbacks = []docsCallback{
	{
		Name:      "TIC",
		Signature: "TIC()",
		Mandatory: true,
		Doc:       "Called once per frame. A cartridge without it reports an error every frame.",
	},
	{
		Name:      "BOOT",
		Signature: "BOOT()",
		Doc:       "Called once before the first frame.",
	},
	{
		Name:      "SCN",
		Aliases:   []string{"scanline"},
		Signature: "SCN(row)",
		Doc:       "Called before each screen row is drawn. Both names are called when defined.",
	},
	{
		Name:      "BDR",
		Signature: "BDR(row)",
		Doc:       "Called for each border row.",
	},
	{
		Name:      "MENU",
		Signature: "MENU(index)",
		Doc:       "Called when a game menu item is selected.",
	},
}

var docsErrors = []docsErrorPattern{
	{
		Type:           "args error",
		MessagePattern: "args error: NAME() takes N arguments (M given)",
		Causes: []string{
			"Calling an operation with too few or too many arguments",
			"Optional arguments are counted: passing nil still counts as given unless it is the last argument",
		},
	},
	{
		Type:           "type error",
		MessagePattern: "type error: NAME() expected TYPE (TYPE given)",
		Causes: []string{
			"Passing a string where a number is expected",
			"Passing a number where a boolean is expected; only true and false are accepted",
		},
	},
	{
		Type:           "missing callback",
		MessagePattern: "TIC() isn't found :(",
		Causes: []string{
			"The cartridge does not define TIC",
			"TIC is defined but is not a function",
		},
	},
	{
		Type:           "instance closed",
		MessagePattern: "NAME(): instance closed",
		Causes: []string{
			"A function value kept from a previous load calls an operation after the cartridge was reloaded",
		},
	},
}

// Docs returns structured documentation about the cartridge API.
// Useful for tooling and editor integrations.
//
// Example:
//
//	docs := tic.Docs(tic.DocsCategory("draw"))
//	fmt.Println(docs.JSON())
func Docs(opts ...DocsOption) *Documentation {
	o := &docsOptions{table: bridge.Default()}
	for _, opt := range opts {
		opt(o)
	}
	switch {
	case o.all:
		return &Documentation{data: buildFullDocumentation(o.table)}
	case o.category != "":
		return &Documentation{data: buildCategoryDocs(o.table, o.category)}
	case o.topic != "":
		return &Documentation{data: buildTopicDocs(o.table, o.topic)}
	}
	return &Documentation{data: buildQuickReference(o.table)}
}

func describe(fns []bridge.Function) []docsFunction {
	out := make([]docsFunction, 0, len(fns))
	for _, fn := range fns {
		out = append(out, docsFunction{
			Name:      fn.Name,
			Signature: fn.Signature,
			Doc:       fn.Doc,
			Category:  string(fn.Category),
			Arity:     fn.Arity.String(),
		})
	}
	return out
}

func buildQuickReference(t *bridge.Table) docsQuickReference {
	counts := map[string]int{}
	for _, c := range bridge.Categories {
		counts[string(c)] = len(t.ByCategory(c))
	}
	return docsQuickReference{
		Language:   Lang.Name,
		Callbacks:  Lang.Callbacks,
		Categories: counts,
		Topics: map[string]string{
			"draw":      "Screen drawing (cls, pix, spr, map, print, ...)",
			"input":     "Gamepad, keyboard and mouse",
			"memory":    "RAM, map, sprite flags and persistent memory",
			"sound":     "Sound effects and music",
			"system":    "Time, tracing, banks, exit and reset",
			"callbacks": "Functions the console calls (TIC, BOOT, SCN, BDR, MENU)",
			"errors":    "Error messages and their causes",
			"language":  "Editor language descriptor",
		},
	}
}

func buildFullDocumentation(t *bridge.Table) docsFullDocumentation {
	return docsFullDocumentation{
		Language:  Lang,
		Functions: describe(t.Functions()),
		Callbacks: docsCallbacks,
		Errors:    docsErrors,
	}
}

func buildCategoryDocs(t *bridge.Table, category string) any {
	switch category {
	case "callbacks":
		return docsCallbacks
	case "errors":
		return docsErrors
	case "language":
		return Lang
	}
	fns := t.ByCategory(bridge.Category(category))
	if len(fns) == 0 {
		return map[string]any{"error": "unknown category: " + category}
	}
	return describe(fns)
}

func buildTopicDocs(t *bridge.Table, topic string) any {
	if fn, ok := t.Lookup(topic); ok {
		return describe([]bridge.Function{fn})[0]
	}
	for _, cb := range docsCallbacks {
		if strings.EqualFold(cb.Name, topic) {
			return cb
		}
		for _, alias := range cb.Aliases {
			if alias == topic {
				return cb
			}
		}
	}
	return map[string]any{"error": "unknown topic: " + topic}
}
