// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ErrNoCommand is returned by NewCommandTrainer for an empty command.
var ErrNoCommand = errors.New("trainer command is empty")

// maxOutputLog bounds how much trainer output is attached to a log line.
const maxOutputLog = 4096

const waitDelay = 2 * time.Second

// Trainer produces a new artifact set on disk.
type Trainer interface {
	Train(ctx context.Context) error
}

// CommandTrainer runs the external training pipeline as a child process.
// The process is killed when ctx ends.
type CommandTrainer struct {
	command []string
	workDir string
	logger  zerolog.Logger
}

// NewCommandTrainer creates a trainer for command (program and arguments).
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewCommandTrainer(command []string, workDir string, logger zerolog.Logger) (*CommandTrainer, error) {
	if len(command) == 0 || strings.TrimSpace(command[0]) == "" {
		return nil, ErrNoCommand
	}
	return &CommandTrainer{
		command: command,
		workDir: workDir,
		logger:  logger.With().Str("component", "trainer").Logger(),
	}, nil
}

// Train runs the command and waits for it. A non-zero exit is an error that
// carries the tail of the combined output.
func (t *CommandTrainer) Train(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, t.command[0], t.command[1:]...) //nolint:gosec // command comes from operator config
	cmd.Dir = t.workDir
	// Children of the trainer may hold the output pipe open after a kill.
	cmd.WaitDelay = waitDelay
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	t.logger.Info().Strs("command", t.command).Msg("Starting trainer")
	err := cmd.Run()
	output := tail(out.String(), maxOutputLog)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("trainer interrupted: %w", ctx.Err())
		}
		return fmt.Errorf("trainer failed: %w: %s", err, output)
	}
	t.logger.Debug().Str("output", output).Msg("Trainer finished")
	return nil
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
