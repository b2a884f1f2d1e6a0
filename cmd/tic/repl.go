package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/risor-io/tic/config"
	"github.com/risor-io/tic/console"
)

const replHelp = `Commands:
  :tick [n]        run n frames (default 1)
  :shot FILE       save a screenshot
  :state           show the runtime state
  :quit            exit
Anything else is evaluated in the cartridge.`

var replCmd = &cobra.Command{
	Use:   "repl [CART]",
	Short: "Evaluate code against a live cartridge",
	Long: `Start an interactive session. The optional cartridge is loaded first;
each line is then evaluated in the same instance, so definitions persist
and can replace callbacks between frames.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		name, source := "repl", "func TIC() {}"
		if len(args) == 1 {
			name = args[0]
			if source, err = readSource(name); err != nil {
				return err
			}
		}
		return runRepl(cmd.Context(), cfg, name, source)
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}

func historyPath() string {
	home, err := homedir.Dir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tic_history")
}

func runRepl(ctx context.Context, cfg config.Config, name, source string) error {
	traces := func(line console.TraceLine) {
		fmt.Println(faint(line.Message))
	}
	sess, err := newSession(ctx, cfg, name, source, withConsoleOptions(console.WithTraceFunc(traces)))
	if sess == nil {
		return err
	}
	defer sess.close(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, red(err.Error()))
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	hist := historyPath()
	if f, err := os.Open(hist); err == nil {
		ln.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(hist); err == nil {
			ln.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Println(faint("tic " + version + ", type :help for commands"))
	for {
		line, err := ln.Prompt(">>> ")
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Println()
			return nil
		}
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ln.AppendHistory(line)
		if strings.HasPrefix(line, ":") {
			quit, err := replCommand(ctx, sess, line)
			if err != nil {
				fmt.Fprintln(os.Stderr, red(err.Error()))
			}
			if quit {
				return nil
			}
			continue
		}
		if err := sess.runtime.Evaluate(ctx, line); err != nil {
			// Already shown through the console error sink.
			continue
		}
	}
}

func replCommand(ctx context.Context, sess *session, line string) (bool, error) {
	fields := strings.Fields(line)
	switch fields[0] {
	case ":quit", ":q":
		return true, nil
	case ":help":
		fmt.Println(replHelp)
	case ":state":
		fmt.Printf("%s, instance %s, frame %d\n", sess.runtime.State(), sess.runtime.InstanceID(), sess.console.Frame())
	case ":tick":
		n := 1
		if len(fields) > 1 {
			v, err := strconv.Atoi(fields[1])
			if err != nil || v < 1 {
				return false, fmt.Errorf("invalid frame count %q", fields[1])
			}
			n = v
		}
		if err := sess.run(ctx, n); err != nil {
			return false, err
		}
		fmt.Println(faint(fmt.Sprintf("frame %d", sess.console.Frame())))
	case ":shot":
		if len(fields) != 2 {
			return false, errors.New("usage: :shot FILE")
		}
		if err := sess.console.Screenshot(fields[1], 2); err != nil {
			return false, err
		}
	default:
		return false, fmt.Errorf("unknown command %s", fields[0])
	}
	return false, nil
}
