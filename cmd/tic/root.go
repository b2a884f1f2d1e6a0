package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/risor-io/tic/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "tic",
	Short: "Run fantasy console cartridges scripted in Risor",
	Long: `Run fantasy console cartridges scripted in Risor.

A cartridge is a Risor source file that defines TIC() and optionally BOOT(),
SCN(row), BDR(row) and MENU(index). Settings are read from ~/.tic.yaml,
TIC_* environment variables and flags, in increasing priority.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Version:       fmt.Sprintf("%s (%s, %s)", version, commit, date),
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fatal(err)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.tic.yaml)")
	flags.String("log-level", "info", "log level: trace, debug, info, warn, error, disabled")
	flags.Bool("no-color", false, "disable colored output")
	viper.BindPFlag("log_level", flags.Lookup("log-level"))
	viper.BindPFlag("no_color", flags.Lookup("no-color"))

	config.SetDefaults(viper.GetViper())
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		cobra.CheckErr(err)
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".tic")
	}
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fatal(fmt.Errorf("read config: %w", err))
		}
	}
}

// loadConfig decodes and validates the merged configuration, then applies the
// global output settings.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return cfg, err
	}
	if cfg.NoColor || os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return cfg, err
	}
	zerolog.SetGlobalLevel(level)
	setupLogger(color.NoColor)
	return cfg, nil
}
