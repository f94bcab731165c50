package asadmin

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	gferrors "github.com/alexisbeaulieu97/gfctl/pkg/errors"
)

// defaultWaitDelay bounds how long Run waits for inherited output pipes after
// the process exits. start-domain forks the server, which may keep them open.
const defaultWaitDelay = 5 * time.Second

// Output captures what a subprocess wrote.
type Output struct {
	Stdout string
	Stderr string
}

// Combined joins stdout and stderr for diagnostics.
func (o Output) Combined() string {
	return strings.TrimSpace(strings.Join([]string{o.Stdout, o.Stderr}, "\n"))
}

// Runner executes one external command with an argument list. Implementations
// must never hand the arguments to a shell.
type Runner interface {
	Run(ctx context.Context, binary string, args ...string) (Output, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	// Stream mirrors stdout/stderr while still capturing them.
	Stream    io.Writer
	Env       map[string]string
	WaitDelay time.Duration
}

// Run executes binary with args. The context is consulted before the process
// starts only: a command in flight is left to finish.
func (r ExecRunner) Run(ctx context.Context, binary string, args ...string) (Output, error) {
	if err := ctx.Err(); err != nil {
		return Output{}, err
	}

	cmd := exec.Command(binary, args...)
	cmd.Env = buildEnv(r.Env)
	cmd.WaitDelay = r.WaitDelay
	if cmd.WaitDelay <= 0 {
		cmd.WaitDelay = defaultWaitDelay
	}

	var stdoutBuf, stderrBuf bytes.Buffer
	if r.Stream != nil {
		cmd.Stdout = io.MultiWriter(r.Stream, &stdoutBuf)
		cmd.Stderr = io.MultiWriter(r.Stream, &stderrBuf)
	} else {
		cmd.Stdout = &stdoutBuf
		cmd.Stderr = &stderrBuf
	}

	err := cmd.Run()
	out := Output{
		Stdout: strings.TrimSpace(stdoutBuf.String()),
		Stderr: strings.TrimSpace(stderrBuf.String()),
	}
	if err == nil {
		return out, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return out, gferrors.NewExternalCommandError(binary, args, exitErr.ExitCode(), out.Combined(), err)
	}
	if errors.Is(err, exec.ErrWaitDelay) {
		// The process exited zero but a forked child kept the pipes open.
		return out, nil
	}
	return out, gferrors.NewExternalCommandError(binary, args, -1, out.Combined(), err)
}

func buildEnv(custom map[string]string) []string {
	env := os.Environ()
	for k, v := range custom {
		env = append(env, k+"="+v)
	}
	return env
}
