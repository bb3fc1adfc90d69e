package extraction

import (
	"context"
	"fmt"
	"os/exec"
)

// Launcher starts the external extraction process. Implementations must not
// block on process completion; the only channel back is the status artifact.
type Launcher interface {
	Launch(ctx context.Context, bin string, args []string) error
}

// ExecLauncher launches the extractor binary detached from the request
// lifecycle. Output is discarded and the process is released immediately.
type ExecLauncher struct{}

// Launch starts the process and releases the handle.
func (ExecLauncher) Launch(ctx context.Context, bin string, args []string) error {
	// Deliberately not CommandContext: the job must outlive the request.
	cmd := exec.Command(bin, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start extractor: %w", err)
	}
	if cmd.Process != nil {
		_ = cmd.Process.Release()
	}
	return nil
}
