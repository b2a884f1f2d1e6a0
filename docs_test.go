package tic

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/risor-io/tic/bridge"
)

func TestDocsQuick(t *testing.T) {
	docs := Docs()
	ref, ok := docs.Data().(docsQuickReference)
	require.True(t, ok)
	require.Equal(t, "risor", ref.Language)
	require.Equal(t, len(bridge.Default().ByCategory(bridge.CategoryDraw)), ref.Categories["draw"])
	require.Contains(t, ref.Topics, "callbacks")
}

func TestDocsAll(t *testing.T) {
	full, ok := Docs(DocsAll()).Data().(docsFullDocumentation)
	require.True(t, ok)
	require.Len(t, full.Functions, bridge.Default().Len())
	require.Len(t, full.Callbacks, len(Slots))
	require.Equal(t, Lang.Name, full.Language.Name)
}

func TestDocsCategory(t *testing.T) {
	fns, ok := Docs(DocsCategory("sound")).Data().([]docsFunction)
	require.True(t, ok)
	var names []string
	for _, fn := range fns {
		require.Equal(t, "sound", fn.Category)
		names = append(names, fn.Name)
	}
	require.Equal(t, []string{"music", "sfx"}, names)

	_, ok = Docs(DocsCategory("callbacks")).Data().([]docsCallback)
	require.True(t, ok)
	_, ok = Docs(DocsCategory("errors")).Data().([]docsErrorPattern)
	require.True(t, ok)
	require.Contains(t, Docs(DocsCategory("nope")).JSON(), "unknown category")
}

func TestDocsTopic(t *testing.T) {
	fn, ok := Docs(DocsTopic("spr")).Data().(docsFunction)
	require.True(t, ok)
	require.Equal(t, "draw", fn.Category)
	require.NotEmpty(t, fn.Signature)

	cb, ok := Docs(DocsTopic("scanline")).Data().(docsCallback)
	require.True(t, ok)
	require.Equal(t, "SCN", cb.Name)

	cb, ok = Docs(DocsTopic("tic")).Data().(docsCallback)
	require.True(t, ok)
	require.True(t, cb.Mandatory)

	require.Contains(t, Docs(DocsTopic("nope")).JSON(), "unknown topic")
}

func TestDocsTable(t *testing.T) {
	table, err := bridge.NewTable(bridge.Function{
		Name:     "beep",
		Category: bridge.CategorySound,
		Arity:    bridge.Fixed(0),
		Call:     bridge.Cls,
	})
	require.NoError(t, err)
	fns, ok := Docs(DocsTable(table), DocsCategory("sound")).Data().([]docsFunction)
	require.True(t, ok)
	require.Len(t, fns, 1)
	require.Equal(t, "0", fns[0].Arity)
}

func TestDocsValidJSON(t *testing.T) {
	testCases := []struct {
		name string
		opts []DocsOption
	}{
		{"quick", nil},
		{"all", []DocsOption{DocsAll()}},
		{"category_draw", []DocsOption{DocsCategory("draw")}},
		{"category_callbacks", []DocsOption{DocsCategory("callbacks")}},
		{"category_errors", []DocsOption{DocsCategory("errors")}},
		{"category_language", []DocsOption{DocsCategory("language")}},
		{"topic_print", []DocsOption{DocsTopic("print")}},
		{"topic_BDR", []DocsOption{DocsTopic("BDR")}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var result any
			require.NoError(t, json.Unmarshal([]byte(Docs(tc.opts...).JSON()), &result))
		})
	}
}
