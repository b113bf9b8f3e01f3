package converter

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"edfinfo/internal/logging"
	"edfinfo/internal/services"
)

// Executor abstracts command execution for testability.
type Executor interface {
	// Run starts binary with args and blocks until it exits. Diagnostic output
	// lines are passed to onOutput when non-nil.
	Run(ctx context.Context, binary string, args []string, onOutput func(string)) error
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithLogger attaches a logger for converter diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logging.NewComponentLogger(logger, "converter")
	}
}

// Client wraps edf2asc CLI interactions.
type Client struct {
	timeout time.Duration
	exec    Executor
	logger  *slog.Logger
}

// New constructs a converter client. A non-positive timeout disables the deadline.
func New(timeout time.Duration, opts ...Option) *Client {
	client := &Client{
		timeout: timeout,
		exec:    commandExecutor{},
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Timeout reports the per-invocation deadline.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// Args returns the argument vector for converting src into dst.
func Args(src, dst string) []string {
	return []string{"-y", "-ns", src, dst}
}

// Convert runs binary to transcode src into dst. A non-zero exit status is
// logged and otherwise ignored; the converter often exits non-zero on
// recoverable warnings while still producing a usable transcript.
func (c *Client) Convert(ctx context.Context, binary, src, dst string) error {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return services.Wrap(services.ErrConverterMissing, "fallback", "convert", "converter binary not configured", nil)
	}

	runCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	err := c.exec.Run(runCtx, binary, Args(src, dst), func(line string) {
		c.logger.Debug("converter output", logging.String("line", line))
	})

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		return services.Wrap(services.ErrConverterTimeout, "fallback", "convert",
			fmt.Sprintf("%s exceeded %s", binary, c.timeout), runCtx.Err())
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	switch {
	case errors.As(err, &exitErr):
		c.logger.Debug("converter exited non-zero",
			logging.String("binary", binary),
			logging.Int("exit_code", exitErr.ExitCode()),
		)
		return nil
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrPermission):
		return services.Wrap(services.ErrConverterMissing, "fallback", "convert", binary, err)
	default:
		return services.Wrap(services.ErrExternalTool, "fallback", "convert", binary, err)
	}
}

type commandExecutor struct{}

// Run discards stdout and forwards stderr line by line.
func (commandExecutor) Run(ctx context.Context, binary string, args []string, onOutput func(string)) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	cmd.WaitDelay = 5 * time.Second
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start command: %w", err)
	}

	scanner := bufio.NewScanner(stderr)
	for scanner.Scan() {
		if onOutput != nil {
			onOutput(scanner.Text())
		}
	}
	_, _ = io.Copy(io.Discard, stderr)

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("wait command: %w", err)
	}
	return nil
}
