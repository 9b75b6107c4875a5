// Package converter turns ASTC textures into PNG images by running the
// astcenc decoder as a subprocess.
package converter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"scristobal/astcbot/failure"
	"scristobal/astcbot/logging"

	"github.com/google/uuid"
)

type Options struct {
	Binary   string
	Flags    []string
	Timeout  time.Duration
	TempRoot string
	// MaxSide bounds the longer edge of the returned image, 0 disables it.
	MaxSide int
}

type Converter struct {
	binary   string
	flags    []string
	timeout  time.Duration
	tempRoot string
	maxSide  int
}

func New(opts Options) *Converter {

	root := opts.TempRoot

	if root == "" {
		root = os.TempDir()
	}

	return &Converter{
		binary:   opts.Binary,
		flags:    opts.Flags,
		timeout:  opts.Timeout,
		tempRoot: root,
		maxSide:  opts.MaxSide,
	}
}

// Convert decodes data and returns PNG bytes. Every call works in its own
// directory, which is removed before Convert returns.
func (c *Converter) Convert(ctx context.Context, data []byte, id string) ([]byte, error) {

	if id == "" || id != filepath.Base(id) {
		return nil, failure.New(failure.InvalidInput, "convert", fmt.Errorf("invalid item id %q", id))
	}

	dir := filepath.Join(c.tempRoot, "astc-"+uuid.NewString())

	err := os.Mkdir(dir, 0700)

	if err != nil {
		return nil, failure.New(failure.Unknown, "convert", fmt.Errorf("failed to create work directory: %w", err))
	}

	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			logging.Debug("failed to remove work directory", "dir", dir, "error", err)
		}
	}()

	inputPath := filepath.Join(dir, id+".astc")
	outputPath := filepath.Join(dir, id+".png")

	err = os.WriteFile(inputPath, data, 0600)

	if err != nil {
		return nil, failure.New(failure.Unknown, "convert", fmt.Errorf("can't write input: %w", err))
	}

	stderr, runErr := c.run(ctx, inputPath, outputPath)

	if errors.Is(runErr, context.DeadlineExceeded) {
		return nil, failure.New(failure.Timeout, "convert", fmt.Errorf("astcenc did not finish within %s", c.timeout))
	}

	output, err := os.ReadFile(outputPath)

	if errors.Is(err, os.ErrNotExist) {
		return nil, failure.New(failure.ConversionFailure, "convert", fmt.Errorf("no output file, astcenc: %v: %s", runErr, tail(stderr)))
	}

	if err != nil {
		return nil, failure.New(failure.Unknown, "convert", fmt.Errorf("can't read output: %w", err))
	}

	if runErr != nil {
		logging.Warn("astcenc exited with an error but produced output", "item", id, "error", runErr, "stderr", tail(stderr))
	}

	return c.fit(output)
}

// run blocks until astcenc exits or the timeout expires. Cancellation of ctx
// is not propagated, only the timeout bounds the subprocess.
func (c *Converter) run(ctx context.Context, inputPath string, outputPath string) ([]byte, error) {

	ctx = context.WithoutCancel(ctx)

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	args := append([]string{"-d", inputPath, outputPath}, c.flags...)

	cmd := exec.CommandContext(ctx, c.binary, args...)

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	cmd.WaitDelay = time.Second

	start := time.Now()

	err := cmd.Run()

	if ctx.Err() == context.DeadlineExceeded {
		return out.Bytes(), context.DeadlineExceeded
	}

	logging.Debug("astcenc finished", "output", outputPath, "elapsed", time.Since(start).String(), "error", err)

	return out.Bytes(), err
}

func tail(b []byte) string {
	const limit = 512
	if len(b) > limit {
		b = b[len(b)-limit:]
	}
	return string(bytes.TrimSpace(b))
}
