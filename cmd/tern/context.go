package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"tern/internal/api"
	"tern/internal/config"
	"tern/internal/logging"
	"tern/internal/runner"
)

// commandContext carries the lazily loaded configuration and the process
// executor shared by every sub-command.
type commandContext struct {
	configFlag   *string
	showFlag     *bool
	logLevelFlag *string

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	workDir      string
	configExists bool
	configErr    error

	exec   runner.Executor
	logger *slog.Logger
}

func newCommandContext(configFlag *string, showFlag *bool, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		showFlag:     showFlag,
		logLevelFlag: logLevelFlag,
		exec:         runner.New(),
		logger:       logging.NewNop(),
	}
}

func (c *commandContext) initLogging() {
	level := ""
	if c.logLevelFlag != nil {
		level = *c.logLevelFlag
	}
	c.logger = logging.WithComponent(logging.New(logging.Options{Level: level}), "cli")
}

// ensureConfig loads the configuration once. An absent file yields defaults
// with configExists false; commands that cannot run on defaults go through
// requireConfig instead.
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
		c.config = cfg
		c.configPath = resolved
		c.workDir = filepath.Dir(resolved)
		c.configExists = exists
		c.logger.Debug("configuration loaded",
			logging.String("path", resolved), logging.Bool("exists", exists))
	})
	return c.config, c.configErr
}

// requireConfig loads the configuration and verifies the keys this command
// needs, before anything is executed or requested. A missing file points at
// setup-config rather than complaining about individual keys.
func (c *commandContext) requireConfig(keys ...string) (*config.Config, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if len(keys) > 0 && !c.configExists {
		return nil, fmt.Errorf("no %s in %s; create one with `tern setup-config <preset>`", config.FileName, c.workDir)
	}
	if err := cfg.Require(keys...); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *commandContext) showOnly() bool {
	return c.showFlag != nil && *c.showFlag
}

// endpointClient builds the HTTP client for the configured endpoint, or for
// an explicit override URL.
func (c *commandContext) endpointClient(cfg *config.Config, override string) *api.Client {
	base := strings.TrimSpace(override)
	if base == "" {
		base = cfg.EndpointURL()
	}
	return api.NewClient(base, cfg.Server.AccessToken, nil)
}

// printOrRun honours --show by printing the invocation instead of running it.
// Callers with follow-up output check showOnly afterwards.
func (c *commandContext) printOrRun(cmd *cobra.Command, inv runner.Invocation) error {
	if c.showOnly() {
		fmt.Fprintln(cmd.OutOrStdout(), inv.String())
		return nil
	}
	return c.runForeground(cmd, inv)
}

// runForeground executes the invocation with output streamed to the command's
// stdout and stderr, so engine output reaches the terminal as it happens.
func (c *commandContext) runForeground(cmd *cobra.Command, inv runner.Invocation) error {
	c.logger.Debug("exec", logging.String("command", inv.String()))
	started := time.Now()
	err := c.exec.Run(cmd.Context(), inv, runner.RunOptions{
		Stdout: cmd.OutOrStdout(),
		Stderr: cmd.ErrOrStderr(),
	})
	if err != nil {
		c.logger.Debug("exec failed",
			logging.Error(err), logging.Duration("elapsed", time.Since(started)))
	}
	return err
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
