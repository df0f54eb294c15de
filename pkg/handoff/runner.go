package handoff

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	errs "xmedia/pkg/errors"
)

// Runner executes the external downloader
type Runner interface {
	Run(ctx context.Context, path string, args []string) error
}

// ExecRunner runs the downloader as a child process with its output passed through
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecRunner creates a runner attached to the terminal
func NewExecRunner() *ExecRunner {
	return &ExecRunner{Stdout: os.Stdout, Stderr: os.Stderr}
}

func (r *ExecRunner) Run(ctx context.Context, path string, args []string) error {
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	if err := cmd.Run(); err != nil {
		return errs.Wrap(errs.ErrorTypeDownloader, fmt.Sprintf("%s failed", path), err)
	}
	return nil
}
