package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"edfinfo/internal/config"
	"edfinfo/internal/converter"
	"edfinfo/internal/eyefile"
	"edfinfo/internal/index"
	"edfinfo/internal/logging"
)

type commandContext struct {
	configFlag *string
	verbose    *bool

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error
}

func newCommandContext(configFlag *string, verbose *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		verbose:    verbose,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configExists = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

func (c *commandContext) isVerbose() bool {
	return c.verbose != nil && *c.verbose
}

// newCLILogger logs to stderr and the log file. One-shot commands only
// surface warnings unless --verbose is set; stdout carries the report.
func newCLILogger(cfg *config.Config, verbose bool) (*slog.Logger, error) {
	level := "warn"
	if verbose {
		level = "debug"
	}
	outputs := []string{"stderr"}
	format := ""
	if cfg != nil {
		format = cfg.Logging.Format
		if dir := strings.TrimSpace(cfg.Paths.LogDir); dir != "" {
			outputs = append(outputs, filepath.Join(dir, logging.LogFileName))
		}
	}
	return logging.New(logging.Options{
		Level:   level,
		Format:  format,
		Outputs: outputs,
	})
}

// parserOverrides carries per-invocation flags that take precedence over config.
type parserOverrides struct {
	noFallback bool
	recordedBy string
}

func newParser(cfg *config.Config, logger *slog.Logger, observer eyefile.Observer, overrides parserOverrides) (*eyefile.Parser, error) {
	target := cfg.Parse.RecordedByTarget
	if strings.TrimSpace(overrides.recordedBy) != "" {
		target = overrides.recordedBy
	}
	field, ok := eyefile.ParseField(target)
	if !ok || (field != eyefile.FieldRecording && field != eyefile.FieldRecordedBy) {
		return nil, fmt.Errorf("recorded-by target must be %q or %q, got %q",
			config.RecordedByRecording, config.RecordedByRecordedBy, target)
	}

	client := converter.New(cfg.ConverterTimeout(),
		converter.WithLogger(logging.NewComponentLogger(logger, "converter")),
	)
	return eyefile.New(
		eyefile.WithConverter(client),
		eyefile.WithConverterBinary(cfg.ConverterBinary()),
		eyefile.WithTempDir(cfg.ScratchDir()),
		eyefile.WithLogger(logging.NewComponentLogger(logger, "eyefile")),
		eyefile.WithMetrics(observer),
		eyefile.WithRecordedByTarget(field),
		eyefile.WithFallback(cfg.Converter.Enabled && !overrides.noFallback),
	), nil
}

func (c *commandContext) withStore(fn func(*index.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := index.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
