package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/risor-io/tic/config"
	"github.com/risor-io/tic/console"
)

var runCmd = &cobra.Command{
	Use:   "run CART",
	Short: "Run a cartridge headless",
	Long: `Run a cartridge without a display. Frames run as fast as possible until
the cartridge calls exit(), --frames is reached or the process is
interrupted. Use "-" to read the cartridge from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		source, err := readSource(args[0])
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runCart(ctx, cfg, args[0], source)
	},
}

func init() {
	flags := runCmd.Flags()
	flags.Int("frames", 0, "number of frames to run; 0 runs until exit")
	flags.Bool("scanlines", false, "call SCN and BDR for every row")
	flags.String("screenshot", "", "write a PNG of the last frame")
	flags.Int("scale", 1, "screenshot scale factor")
	flags.String("cart", "", "persistent memory key (default is the file name)")
	viper.BindPFlag("console.frames", flags.Lookup("frames"))
	viper.BindPFlag("console.scanlines", flags.Lookup("scanlines"))
	viper.BindPFlag("console.screenshot", flags.Lookup("screenshot"))
	viper.BindPFlag("console.scale", flags.Lookup("scale"))
	viper.BindPFlag("console.cart", flags.Lookup("cart"))
	rootCmd.AddCommand(runCmd)
}

func runCart(ctx context.Context, cfg config.Config, name, source string) error {
	traces := func(line console.TraceLine) {
		os.Stdout.WriteString(line.Message + "\n")
	}
	sess, err := newSession(ctx, cfg, name, source, withConsoleOptions(console.WithTraceFunc(traces)))
	if sess == nil {
		return err
	}
	defer sess.close(context.Background())
	if err != nil {
		return err
	}
	if err := sess.run(ctx, cfg.Console.Frames); err != nil {
		return err
	}
	if cfg.Console.Screenshot != "" {
		if err := sess.console.Screenshot(cfg.Console.Screenshot, cfg.Console.Scale); err != nil {
			return err
		}
		sess.log.Info().Str("path", cfg.Console.Screenshot).Msg("saved screenshot")
	}
	if n := len(sess.console.Errors()); n > 0 {
		sess.log.Warn().Int("errors", n).Msg("cartridge reported errors")
	}
	return nil
}
