package manager

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/gopak/framepak/internal/config"
	"github.com/gopak/framepak/internal/executil"
)

type Runner interface {
	Run(ctx context.Context, name, step string, cmd config.Command) error
}

// ShellRunner runs build commands through bash. Output is streamed unless
// Quiet is set, in which case it is captured and only the tail of stderr is
// reported on failure.
type ShellRunner struct {
	Stdout io.Writer
	Stderr io.Writer
	Quiet  bool
}

func NewShellRunner() *ShellRunner {
	return &ShellRunner{Stdout: os.Stdout, Stderr: os.Stderr}
}

func (r *ShellRunner) Run(ctx context.Context, name, step string, cmd config.Command) error {
	if r.Quiet {
		res := executil.RunShell(ctx, cmd)
		if res.Code == 0 {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("command failed for %s [%s]: exit %d\n%s", name, step, res.Code, tail(res.Stderr, 20))
	}
	bcmd := exec.CommandContext(ctx, "bash", "-ceu", cmd.Command)
	bcmd.Env = append(os.Environ(), cmd.EnvList()...)
	bcmd.Stdout = r.Stdout
	bcmd.Stderr = r.Stderr
	if err := bcmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("command failed for %s [%s]: %w", name, step, err)
	}
	return nil
}

// tail returns the last n lines of s.
func tail(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
