package outline

import (
	"testing"

	"github.com/jdbaldry/go-language-server-protocol/lsp/protocol"
	"github.com/stretchr/testify/require"
)

const cart = `// title: demo
func TIC() {
	inner := func() { return 1 }
	cls(inner())
}

/* func Hidden() {} */
draw := func(x) {
	print("func fake() {", x)
}

SCN = func(row) {}
`

func names(items []Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Name
	}
	return out
}

func TestExtract(t *testing.T) {
	var items []Item
	for item := range Extract(cart) {
		items = append(items, item)
	}
	require.Equal(t, []string{"TIC", "draw", "SCN"}, names(items))
	require.Equal(t, Item{Name: "TIC", Kind: Declaration, Offset: 20, Line: 2, Column: 6}, items[0])
	require.Equal(t, Assignment, items[1].Kind)
	require.Equal(t, 8, items[1].Line)
	require.Equal(t, 1, items[1].Column)
}

func TestExtractIsSingleUse(t *testing.T) {
	seq := Extract(cart)
	count := 0
	for range seq {
		count++
	}
	require.Equal(t, 3, count)
	for range seq {
		t.Fatal("second iteration yielded an item")
	}
}

func TestExtractStopsEarly(t *testing.T) {
	var first []string
	for item := range Extract(cart) {
		first = append(first, item.Name)
		break
	}
	require.Equal(t, []string{"TIC"}, first)
}

func TestExtractEmpty(t *testing.T) {
	require.Empty(t, Collect(""))
	require.Empty(t, Collect("x := 1\n// func nope() {}\n"))
	require.Empty(t, Collect("`func raw() {}`"))
}

func TestDocumentSymbols(t *testing.T) {
	symbols := DocumentSymbols(cart)
	require.Len(t, symbols, 3)
	require.Equal(t, "TIC", symbols[0].Name)
	require.Equal(t, protocol.Function, symbols[0].Kind)
	require.Equal(t, protocol.Position{Line: 1, Character: 5}, symbols[0].Range.Start)
	require.Equal(t, protocol.Position{Line: 1, Character: 8}, symbols[0].Range.End)
}
