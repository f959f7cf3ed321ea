// Copyright (C) 2026 ludachrisnyc
// License: AGPL-3.0-only

package android

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Command describes one external tool invocation.
type Command struct {
	Name  string
	Args  []string
	Stdin string // optional input piped to the tool
	Log   string // Detach only: combined output file (default under the temp dir)
}

// Result captures a finished tool invocation. A nonzero exit code is not an
// error at this layer; callers decide what is fatal.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Output returns stderr when the tool wrote any, otherwise stdout.
func (r Result) Output() string {
	if strings.TrimSpace(r.Stderr) != "" {
		return r.Stderr
	}
	return r.Stdout
}

// Process identifies a detached tool left running after launch. The caller
// never owns the process; Log points at its combined output.
type Process struct {
	PID int    `json:"pid"`
	Log string `json:"log"`
}

// Runner executes external SDK tools. The default implementation spawns real
// processes; tests substitute scripted results.
type Runner interface {
	Run(ctx context.Context, c Command) (Result, error)
	Detach(ctx context.Context, c Command) (Process, error)
}

// execRunner backs Runner with real processes, injecting the config's
// JAVA_HOME and PATH into every child.
type execRunner struct {
	cfg Config
}

func (r execRunner) Run(ctx context.Context, c Command) (Result, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Env = r.cfg.childEnv()
	if c.Stdin != "" {
		cmd.Stdin = strings.NewReader(c.Stdin)
	}
	var out bytes.Buffer
	var errOut bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = io.MultiWriter(&errOut, newCommandLogWriter(r.cfg, c.Name, c.Args))
	err := cmd.Run()
	res := Result{Stdout: out.String(), Stderr: errOut.String()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return res, fmt.Errorf("%s %v failed: %v", c.Name, c.Args, err)
	}
	return res, nil
}

func (r execRunner) Detach(ctx context.Context, c Command) (Process, error) {
	logPath := c.Log
	if logPath == "" {
		logPath = filepath.Join(os.TempDir(), filepath.Base(c.Name)+".log")
	}
	logFile, err := os.Create(logPath)
	if err != nil {
		return Process{}, fmt.Errorf("open log: %w", err)
	}
	// Not CommandContext: the tool must outlive the caller.
	cmd := exec.Command(c.Name, c.Args...)
	cmd.Env = r.cfg.childEnv()
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	if c.Stdin != "" {
		cmd.Stdin = strings.NewReader(c.Stdin)
	}
	if err := cmd.Start(); err != nil {
		_ = logFile.Close()
		return Process{}, fmt.Errorf("%s %v failed: %v", c.Name, c.Args, err)
	}
	pid := cmd.Process.Pid
	_ = logFile.Close()
	_ = cmd.Process.Release()
	return Process{PID: pid, Log: logPath}, nil
}

func runTool(cfg Config, name string, args ...string) (Result, error) {
	return cfg.runner().Run(cfg.context(), Command{Name: name, Args: args})
}
