package outline

import (
	"github.com/jdbaldry/go-language-server-protocol/lsp/protocol"
)

// DocumentSymbols returns the outline of code as LSP document symbols.
// LSP positions are 0-based.
func DocumentSymbols(code string) []protocol.DocumentSymbol {
	var symbols []protocol.DocumentSymbol
	for item := range Extract(code) {
		start := protocol.Position{Line: uint32(item.Line - 1), Character: uint32(item.Column - 1)}
		end := protocol.Position{Line: start.Line, Character: start.Character + uint32(len(item.Name))}
		symbols = append(symbols, protocol.DocumentSymbol{
			Name:           item.Name,
			Detail:         item.Kind.String(),
			Kind:           protocol.Function,
			Range:          protocol.Range{Start: start, End: end},
			SelectionRange: protocol.Range{Start: start, End: end},
		})
	}
	return symbols
}
