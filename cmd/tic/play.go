package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"atomicgo.dev/keyboard"
	"atomicgo.dev/keyboard/keys"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/risor-io/tic/config"
	"github.com/risor-io/tic/console"
	"github.com/risor-io/tic/host"
)

var playCmd = &cobra.Command{
	Use:   "play CART",
	Short: "Play a cartridge in the terminal",
	Long: `Play a cartridge in the terminal. The screen is drawn with half block
characters in 24-bit color. Arrow keys are the d-pad, z and x are A and B,
a and s are X and Y. Press Esc or Ctrl-C to quit.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if !isTerminalIO() {
			return fmt.Errorf("play needs an interactive terminal; use run instead")
		}
		source, err := readSource(args[0])
		if err != nil {
			return err
		}
		return playCart(cmd.Context(), cfg, args[0], source)
	},
}

func init() {
	rootCmd.AddCommand(playCmd)
}

// holdFrames keeps a key down this many frames after a press, since
// terminals only report presses.
const holdFrames = 6

// padKeys maps terminal keys to gamepad buttons.
var padKeys = map[keys.KeyCode]int{
	keys.Up:    console.ButtonUp,
	keys.Down:  console.ButtonDown,
	keys.Left:  console.ButtonLeft,
	keys.Right: console.ButtonRight,
}

var padRunes = map[rune]int{
	'z': console.ButtonA,
	'x': console.ButtonB,
	'a': console.ButtonX,
	's': console.ButtonY,
}

// keyCode maps a terminal key to a console keyboard code, or 0.
func keyCode(key keys.Key) int {
	switch key.Code {
	case keys.Up:
		return console.KeyUp
	case keys.Down:
		return console.KeyDown
	case keys.Left:
		return console.KeyLeft
	case keys.Right:
		return console.KeyRight
	case keys.Space:
		return console.KeySpace
	case keys.Enter:
		return console.KeyReturn
	case keys.Tab:
		return console.KeyTab
	case keys.Backspace:
		return console.KeyBack
	case keys.RuneKey:
		if len(key.Runes) != 1 {
			return 0
		}
		r := key.Runes[0]
		switch {
		case r >= 'a' && r <= 'z':
			return console.KeyA + int(r-'a')
		case r >= 'A' && r <= 'Z':
			return console.KeyA + int(r-'A')
		case r >= '0' && r <= '9':
			return console.Key0 + int(r-'0')
		case r == ' ':
			return console.KeySpace
		case r == '-':
			return console.KeyMinus
		}
	}
	return 0
}

// pad tracks presses reported by the keyboard goroutine and releases them
// after holdFrames.
type pad struct {
	mu       sync.Mutex
	buttons  map[int]int
	keyboard map[int]int
	frame    int
}

func newPad() *pad {
	return &pad{buttons: map[int]int{}, keyboard: map[int]int{}}
}

func (p *pad) press(key keys.Key) {
	p.mu.Lock()
	defer p.mu.Unlock()
	release := p.frame + holdFrames
	if b, ok := padKeys[key.Code]; ok {
		p.buttons[b] = release
	}
	if key.Code == keys.RuneKey && len(key.Runes) == 1 {
		if b, ok := padRunes[key.Runes[0]]; ok {
			p.buttons[b] = release
		}
	}
	if code := keyCode(key); code != 0 {
		p.keyboard[code] = release
	}
}

// apply copies the held keys into c and advances the frame counter.
func (p *pad) apply(c *console.Console) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for b, until := range p.buttons {
		down := p.frame < until
		c.SetButton(b, down)
		if !down {
			delete(p.buttons, b)
		}
	}
	for k, until := range p.keyboard {
		down := p.frame < until
		c.SetKey(k, down)
		if !down {
			delete(p.keyboard, k)
		}
	}
	p.frame++
}

func playCart(ctx context.Context, cfg config.Config, name, source string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var traceMu sync.Mutex
	var lastTrace string
	traces := func(line console.TraceLine) {
		traceMu.Lock()
		defer traceMu.Unlock()
		lastTrace = line.Message
	}
	sess, err := newSession(ctx, cfg, name, source, withConsoleOptions(console.WithTraceFunc(traces)))
	if sess == nil {
		return err
	}
	defer sess.close(context.Background())
	if err != nil {
		return err
	}

	p := newPad()
	go func() {
		defer cancel()
		err := keyboard.Listen(func(key keys.Key) (bool, error) {
			if key.Code == keys.CtrlC || key.Code == keys.Escape {
				return true, nil
			}
			p.press(key)
			return ctx.Err() != nil, nil
		})
		if err != nil {
			sess.log.Error().Err(err).Msg("keyboard")
		}
	}()

	out := bufio.NewWriter(os.Stdout)
	fmt.Fprint(out, "\x1b[?25l\x1b[2J")
	defer func() {
		fmt.Fprint(out, "\x1b[?25h\n")
		out.Flush()
	}()

	ticker := time.NewTicker(time.Second / time.Duration(max(cfg.Console.FPS, 1)))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		p.apply(sess.console)
		if err := sess.frame(ctx); err != nil {
			return err
		}
		fmt.Fprint(out, "\x1b[H")
		render(out, sess.console)
		traceMu.Lock()
		status := lastTrace
		traceMu.Unlock()
		if errs := sess.console.Errors(); len(errs) > 0 {
			status = red(firstLine(errs[len(errs)-1]))
		}
		fmt.Fprintf(out, "\x1b[2K%s\n", status)
		if err := out.Flush(); err != nil {
			return err
		}
		if sess.console.ExitRequested() {
			return nil
		}
	}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

// render draws the screen two rows per line with the upper half block.
func render(w io.Writer, c *console.Console) {
	for y := int32(0); y < host.ScreenHeight; y += 2 {
		for x := int32(0); x < host.ScreenWidth; x++ {
			top := c.Color(c.Pix(x, y))
			bottom := c.Color(c.Pix(x, y+1))
			cell := color.RGB(int(top.R), int(top.G), int(top.B)).
				AddBgRGB(int(bottom.R), int(bottom.G), int(bottom.B))
			fmt.Fprint(w, cell.Sprint("▀"))
		}
		fmt.Fprintln(w)
	}
}
