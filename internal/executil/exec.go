package executil

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"

	"github.com/gopak/framepak/internal/config"
)

type Result struct {
	Stdout string
	Stderr string
	Code   int
}

// RunShell runs c through bash with the command's env appended to the
// current environment.
func RunShell(ctx context.Context, c config.Command, env ...string) Result {
	cmd := exec.CommandContext(ctx, "bash", "-ceu", c.Command)
	cmd.Env = append(append(os.Environ(), c.EnvList()...), env...)
	return run(cmd)
}

// Run executes name directly, without a shell. env is appended to the
// current environment.
func Run(ctx context.Context, env []string, name string, args ...string) Result {
	cmd := exec.CommandContext(ctx, name, args...)
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}
	return run(cmd)
}

func run(cmd *exec.Cmd) Result {
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb
	err := cmd.Run()
	code := 0
	if err != nil {
		var e *exec.ExitError
		if errors.As(err, &e) {
			code = e.ExitCode()
		} else {
			code = 1
			if errb.Len() == 0 {
				errb.WriteString(err.Error())
			}
		}
	}
	return Result{Stdout: out.String(), Stderr: errb.String(), Code: code}
}
