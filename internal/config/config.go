package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Fuzzy matching defaults
	ScoreCutoff  float64 `mapstructure:"score_cutoff" yaml:"score_cutoff" validate:"gte=0,lte=100"`
	MatchLimit   int     `mapstructure:"match_limit" yaml:"match_limit" validate:"gte=1"`
	CleanStrings bool    `mapstructure:"clean_strings" yaml:"clean_strings"`
	DropNA       bool    `mapstructure:"drop_na" yaml:"drop_na"`

	// Reading
	Encodings  []string `mapstructure:"encodings" yaml:"encodings" validate:"dive,required"`
	SheetRegex string   `mapstructure:"sheet_regex" yaml:"sheet_regex"`

	// Logging
	LogLevel  string `mapstructure:"log_level" yaml:"log_level" validate:"omitempty,oneof=debug info warn warning error"`
	LogFile   string `mapstructure:"log_file" yaml:"log_file"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format" validate:"omitempty,oneof=text json"`

	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`
}

const dirName = ".dsutils"

// Defaults returns the configuration used when nothing overrides it.
func Defaults() Global {
	return Global{
		ScoreCutoff:  90,
		MatchLimit:   1,
		CleanStrings: true,
		DropNA:       true,
		Encodings:    []string{"utf-8", "windows-1252"},
		LogLevel:     "info",
		LogFormat:    "text",
	}
}

// Path returns cfgFile, or ~/.dsutils/config.yaml when it is empty.
func Path(cfgFile string) (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, dirName, "config.yaml"), nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their config key.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		return name
	})
	return v
}

// Validate checks value ranges and enumerations.
func Validate(c *Global) error {
	err := validate.Struct(c)
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		return err
	}
	msgs := make([]string, len(fields))
	for i, fe := range fields {
		msgs[i] = fieldMessage(fe)
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "required":
		return fmt.Sprintf("%s must not contain blanks", fe.Namespace())
	}
	return fmt.Sprintf("%s failed %s", field, fe.Tag())
}

// Save writes the given configuration to the cfgFile path, or to
// ~/.dsutils/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	if err := Validate(c); err != nil {
		return err
	}
	path, err := Path(cfgFile)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Command flags are applied by
// the caller on top.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("DSUTILS")
	v.AutomaticEnv()

	d := Defaults()
	v.SetDefault("score_cutoff", d.ScoreCutoff)
	v.SetDefault("match_limit", d.MatchLimit)
	v.SetDefault("clean_strings", d.CleanStrings)
	v.SetDefault("drop_na", d.DropNA)
	v.SetDefault("encodings", d.Encodings)
	v.SetDefault("sheet_regex", d.SheetRegex)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_file", d.LogFile)
	v.SetDefault("log_format", d.LogFormat)
	v.SetDefault("output_dir", d.OutputDir)

	path, err := Path(cfgFile)
	if err != nil {
		return nil, err
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(path); statErr == nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := Validate(&c); err != nil {
		return nil, err
	}
	return &c, nil
}
