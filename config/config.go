// Package config holds the settings of the tic command line tool. Values are
// read with viper from ~/.tic.yaml, TIC_* environment variables and flags.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/viper"
)

// Config is the complete tool configuration.
type Config struct {
	LogLevel string  `mapstructure:"log_level" yaml:"log_level" json:"log_level" validate:"oneof=trace debug info warn error disabled" jsonschema:"enum=trace,enum=debug,enum=info,enum=warn,enum=error,enum=disabled,default=info"`
	NoColor  bool    `mapstructure:"no_color" yaml:"no_color" json:"no_color"`
	Console  Console `mapstructure:"console" yaml:"console" json:"console"`
	Store    Store   `mapstructure:"store" yaml:"store" json:"store"`
	Server   Server  `mapstructure:"server" yaml:"server" json:"server"`
}

// Console configures the reference console.
type Console struct {
	Frames     int    `mapstructure:"frames" yaml:"frames" json:"frames" validate:"gte=0" jsonschema:"description=Frames to run headless; 0 runs until exit"`
	Scale      int    `mapstructure:"scale" yaml:"scale" json:"scale" validate:"gte=1,lte=16" jsonschema:"default=1"`
	Screenshot string `mapstructure:"screenshot" yaml:"screenshot,omitempty" json:"screenshot,omitempty" jsonschema:"description=PNG file written after the last frame"`
	Cart       string `mapstructure:"cart" yaml:"cart,omitempty" json:"cart,omitempty" jsonschema:"description=Persistent memory key; defaults to the cartridge file name"`
	Scanlines  bool   `mapstructure:"scanlines" yaml:"scanlines" json:"scanlines" jsonschema:"description=Call SCN and BDR callbacks every frame"`
	FPS        int    `mapstructure:"fps" yaml:"fps" json:"fps" validate:"gte=1,lte=240" jsonschema:"default=60"`
}

// Store selects the persistent memory backend.
type Store struct {
	Backend   string `mapstructure:"backend" yaml:"backend" json:"backend" validate:"oneof=memory file leveldb postgres sql s3" jsonschema:"enum=memory,enum=file,enum=leveldb,enum=postgres,enum=sql,enum=s3,default=file"`
	Dir       string `mapstructure:"dir" yaml:"dir,omitempty" json:"dir,omitempty" validate:"required_if=Backend file,required_if=Backend leveldb"`
	Name      string `mapstructure:"name" yaml:"name,omitempty" json:"name,omitempty"`
	URL       string `mapstructure:"url" yaml:"url,omitempty" json:"url,omitempty" validate:"required_if=Backend postgres,required_if=Backend sql"`
	Bucket    string `mapstructure:"bucket" yaml:"bucket,omitempty" json:"bucket,omitempty" validate:"required_if=Backend s3"`
	Prefix    string `mapstructure:"prefix" yaml:"prefix,omitempty" json:"prefix,omitempty"`
	Region    string `mapstructure:"region" yaml:"region,omitempty" json:"region,omitempty"`
	Endpoint  string `mapstructure:"endpoint" yaml:"endpoint,omitempty" json:"endpoint,omitempty" validate:"omitempty,url"`
	AccessKey string `mapstructure:"access_key" yaml:"access_key,omitempty" json:"access_key,omitempty"`
	SecretKey string `mapstructure:"secret_key" yaml:"secret_key,omitempty" json:"secret_key,omitempty"`
}

// Server configures the HTTP API.
type Server struct {
	Addr string `mapstructure:"addr" yaml:"addr" json:"addr" validate:"required,hostname_port" jsonschema:"default=localhost:8480"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		LogLevel: "info",
		Console: Console{
			Scale: 1,
			FPS:   60,
		},
		Store: Store{
			Backend: "file",
			Dir:     ".tic",
		},
		Server: Server{
			Addr: "localhost:8480",
		},
	}
}

// SetDefaults registers the defaults with v so that unset keys decode to
// them and environment variables are recognized.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("no_color", d.NoColor)
	v.SetDefault("console.frames", d.Console.Frames)
	v.SetDefault("console.scale", d.Console.Scale)
	v.SetDefault("console.screenshot", d.Console.Screenshot)
	v.SetDefault("console.cart", d.Console.Cart)
	v.SetDefault("console.scanlines", d.Console.Scanlines)
	v.SetDefault("console.fps", d.Console.FPS)
	v.SetDefault("store.backend", d.Store.Backend)
	v.SetDefault("store.dir", d.Store.Dir)
	v.SetDefault("store.name", d.Store.Name)
	v.SetDefault("store.url", d.Store.URL)
	v.SetDefault("store.bucket", d.Store.Bucket)
	v.SetDefault("store.prefix", d.Store.Prefix)
	v.SetDefault("store.region", d.Store.Region)
	v.SetDefault("store.endpoint", d.Store.Endpoint)
	v.SetDefault("store.access_key", d.Store.AccessKey)
	v.SetDefault("store.secret_key", d.Store.SecretKey)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetEnvPrefix("TIC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

var validate = newValidator()

// newValidator reports fields by their yaml names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks every field and returns all problems at once.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	var result *multierror.Error
	for _, fe := range fieldErrs {
		result = multierror.Append(result, fieldError(fe))
	}
	return result.ErrorOrNil()
}

func fieldError(fe validator.FieldError) error {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required", "required_if":
		return fmt.Errorf("%s is required", field)
	case "oneof":
		return fmt.Errorf("%s must be one of [%s], got %q", field, fe.Param(), fe.Value())
	default:
		return fmt.Errorf("%s failed %s%s validation (value %v)", field, fe.Tag(), param(fe.Param()), fe.Value())
	}
}

func param(p string) string {
	if p == "" {
		return ""
	}
	return "=" + p
}
