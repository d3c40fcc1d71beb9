package steps

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
)

// ExitFailure is reported when a command fails without an exit status of its
// own, e.g. the program could not be started or was killed by a signal.
const ExitFailure = 1

// Command is a single external process invocation.
type Command struct {
	Program string
	Args    []string
	Dir     string
	Env     []string // KEY=VALUE pairs added to the inherited environment
}

func (c Command) String() string {
	return strings.Join(append([]string{c.Program}, c.Args...), " ")
}

// CommandError is returned by an Executor when a command does not succeed.
type CommandError struct {
	Command  string
	ExitCode int
	Err      error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: exit code %d: %v", e.Command, e.ExitCode, e.Err)
}

func (e *CommandError) Unwrap() error { return e.Err }

// ExitCode extracts the exit code carried by err, ExitFailure if there is none
// and 0 for a nil error.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) && cmdErr.ExitCode > 0 {
		return cmdErr.ExitCode
	}
	return ExitFailure
}

// Executor runs external commands to completion.
type Executor interface {
	Run(cmd Command) error
}

// ExecExecutor runs commands with os/exec, streaming their output.
type ExecExecutor struct {
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecExecutor returns an executor attached to the process's stdout and stderr.
func NewExecExecutor() *ExecExecutor {
	return &ExecExecutor{Stdout: os.Stdout, Stderr: os.Stderr}
}

func (e *ExecExecutor) Run(c Command) error {
	cmd := exec.Command(c.Program, c.Args...)
	cmd.Dir = c.Dir
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}

	if err := cmd.Run(); err != nil {
		code := ExitFailure
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
			code = exitErr.ExitCode()
		}
		return &CommandError{Command: c.String(), ExitCode: code, Err: err}
	}
	return nil
}
