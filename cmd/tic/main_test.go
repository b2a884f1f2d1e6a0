package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"atomicgo.dev/keyboard/keys"
	"github.com/fatih/color"
	"github.com/risor-io/risor/object"
	"github.com/stretchr/testify/require"

	"github.com/risor-io/tic"
	"github.com/risor-io/tic/config"
	"github.com/risor-io/tic/console"
	"github.com/risor-io/tic/host"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Store = config.Store{Backend: "memory"}
	return cfg
}

const resetCart = `
func BOOT() { trace("boot") }

func TIC() {
	n := pmem(0)
	pmem(0, n + 1)
	if n == 1 { reset() }
	if n == 3 { exit() }
}
`

func TestSessionResetAndExit(t *testing.T) {
	ctx := context.Background()
	sess, err := newSession(ctx, testConfig(), "reset.risor", resetCart)
	require.NoError(t, err)
	defer sess.close(ctx)

	require.NoError(t, sess.run(ctx, 10))
	require.Equal(t, 4, sess.console.Frame())
	require.Equal(t, uint32(4), sess.console.PMem(0))
	require.True(t, sess.console.ExitRequested())
	require.Equal(t, []console.TraceLine{
		{Message: "boot", Color: host.DefaultColor},
		{Message: "boot", Color: host.DefaultColor},
	}, sess.console.Traces())
	require.Empty(t, sess.console.Errors())
}

func TestSessionSurvivesFailedReload(t *testing.T) {
	ctx := context.Background()
	loads := 0
	fail := object.NewBuiltin("fail", func(ctx context.Context, args ...object.Object) object.Object {
		loads++
		if loads == 2 {
			return object.Errorf("reload failed")
		}
		return object.Nil
	})
	sess, err := newSession(ctx, testConfig(), "reload.risor", `
func TIC() {
	if pmem(0) == 0 {
		pmem(0, 1)
		reset()
	}
}
fail()
`, withRuntimeOptions(tic.WithGlobal("fail", fail)))
	require.NoError(t, err)
	defer sess.close(ctx)

	require.NoError(t, sess.run(ctx, 3))
	require.Equal(t, 3, sess.console.Frame())
	require.Equal(t, 2, loads)
	require.Len(t, sess.console.Errors(), 1)
	require.Contains(t, sess.console.Errors()[0], "reload failed")
}

func TestSessionFrameLimit(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	cfg.Console.Scanlines = true
	sess, err := newSession(ctx, cfg, "rows.risor", `
func TIC() {}
func SCN(row) { poke(0x18000 - 1, row) }
`)
	require.NoError(t, err)
	defer sess.close(ctx)
	require.NoError(t, sess.run(ctx, 2))
	require.Equal(t, 2, sess.console.Frame())
	require.Equal(t, uint8(host.ScreenHeight-1), sess.console.Peek(host.RAMSize-1, 8))
}

func TestSessionLoadError(t *testing.T) {
	ctx := context.Background()
	sess, err := newSession(ctx, testConfig(), "broken.risor", `func TIC() {`)
	require.Error(t, err)
	require.NotNil(t, sess)
	defer sess.close(ctx)
	require.Len(t, sess.console.Errors(), 1)
}

func TestSessionUnknownStore(t *testing.T) {
	cfg := testConfig()
	cfg.Store.Backend = "tape"
	sess, err := newSession(context.Background(), cfg, "x.risor", `func TIC() {}`)
	require.Error(t, err)
	require.Nil(t, sess)
}

func TestRunCartScreenshot(t *testing.T) {
	cfg := testConfig()
	cfg.Console.Frames = 1
	cfg.Console.Scale = 2
	cfg.Console.Screenshot = filepath.Join(t.TempDir(), "shot.png")
	require.NoError(t, runCart(context.Background(), cfg, "shot.risor", `func TIC() { cls(5) }`))
	require.FileExists(t, cfg.Console.Screenshot)
}

func TestPad(t *testing.T) {
	c, err := console.New(context.Background())
	require.NoError(t, err)
	p := newPad()
	p.press(keys.Key{Code: keys.Left})
	p.press(keys.Key{Code: keys.RuneKey, Runes: []rune{'z'}})
	p.apply(c)
	require.True(t, c.Btn(console.ButtonLeft))
	require.True(t, c.Btn(console.ButtonA))
	require.True(t, c.Key(console.KeyLeft))
	require.True(t, c.Key(console.KeyA+'z'-'a'))
	for i := 0; i < holdFrames; i++ {
		p.apply(c)
	}
	require.False(t, c.Btn(-1))
	require.False(t, c.Key(-1))
}

func TestKeyCode(t *testing.T) {
	require.Equal(t, console.KeyA, keyCode(keys.Key{Code: keys.RuneKey, Runes: []rune{'a'}}))
	require.Equal(t, console.KeyA, keyCode(keys.Key{Code: keys.RuneKey, Runes: []rune{'A'}}))
	require.Equal(t, console.Key0+7, keyCode(keys.Key{Code: keys.RuneKey, Runes: []rune{'7'}}))
	require.Equal(t, console.KeySpace, keyCode(keys.Key{Code: keys.Space}))
	require.Equal(t, 0, keyCode(keys.Key{Code: keys.RuneKey, Runes: []rune{'€'}}))
}

func TestRender(t *testing.T) {
	color.NoColor = true
	c, err := console.New(context.Background())
	require.NoError(t, err)
	var buf bytes.Buffer
	render(&buf, c)
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, host.ScreenHeight/2)
	require.Equal(t, strings.Repeat("▀", host.ScreenWidth), lines[0])
}

func TestWriteLang(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeLang(&buf, "yaml"))
	require.Contains(t, buf.String(), "name: risor")
	require.Contains(t, buf.String(), "block_comment_start: /*")
	require.Error(t, writeLang(&buf, "toml"))
}

func TestQueryDocs(t *testing.T) {
	result, err := queryDocs(tic.Docs(tic.DocsAll()), "functions[?category=='sound'].name")
	require.NoError(t, err)
	require.Equal(t, []any{"music", "sfx"}, result)

	_, err = queryDocs(tic.Docs(), "functions[")
	require.Error(t, err)
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tic.yaml")
	require.NoError(t, writeDefaultConfig(path, false))
	require.ErrorContains(t, writeDefaultConfig(path, false), "already exists")
	require.NoError(t, writeDefaultConfig(path, true))

	doc, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, config.CheckDocument(doc))
}

func serve(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	newServer(testConfig()).ServeHTTP(rec, req)
	return rec
}

func TestServeTools(t *testing.T) {
	rec := serve(t, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = serve(t, http.MethodGet, "/lang", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"extension": ".risor"`)

	rec = serve(t, http.MethodGet, "/doc/spr", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"name": "spr"`)

	rec = serve(t, http.MethodGet, "/doc?all=true&q=length(callbacks)", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "5", strings.TrimSpace(rec.Body.String()))

	rec = serve(t, http.MethodGet, "/doc?q=%5B", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(t, http.MethodPost, "/outline", "func TIC() {}\nfunc draw() {}\n")
	require.Equal(t, http.StatusOK, rec.Code)
	var items []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 2)
	require.Equal(t, "TIC", items[0]["name"])
	require.Equal(t, "declaration", items[0]["kind"])
}

func TestServeRun(t *testing.T) {
	rec := serve(t, http.MethodPost, "/run?frames=3", `func TIC() { trace("t") }`)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp runResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 3, resp.Frames)
	require.Equal(t, []string{"t", "t", "t"}, resp.Traces)
	require.Empty(t, resp.Errors)
	require.Equal(t, "ready", resp.State)

	rec = serve(t, http.MethodPost, "/run", `x := 1`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, []string{"TIC() isn't found :("}, resp.Errors)

	rec = serve(t, http.MethodPost, "/run?format=png", `func TIC() { cls(2) }`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	require.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))

	rec = serve(t, http.MethodPost, "/run?frames=0", `func TIC() {}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
