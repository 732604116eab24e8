// Copyright (c) 2026 Ogresync Contributors
// SPDX-License-Identifier: MIT

package runner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRunSucceeds(t *testing.T) {
	r := New()
	res := r.Run(context.Background(), "echo", []string{"hello"}, "", 0)
	assert.True(t, res.Succeeded())
	assert.Contains(t, res.Stdout, "hello")
}

func TestRunNonZeroExitDoesNotError(t *testing.T) {
	r := New()
	res := r.Run(context.Background(), "sh", []string{"-c", "exit 3"}, "", 0)
	assert.False(t, res.Succeeded())
	assert.Equal(t, 3, res.ExitCode)
}

func TestRunSpawnFailureFoldsIntoExitCode1(t *testing.T) {
	r := New()
	res := r.Run(context.Background(), "this-binary-does-not-exist-xyz", nil, "", 0)
	assert.Equal(t, 1, res.ExitCode)
	assert.Contains(t, res.Stderr, "failed to start command")
}

func TestRunTimeout(t *testing.T) {
	r := New()
	res := r.Run(context.Background(), "sleep", []string{"5"}, "", 50*time.Millisecond)
	assert.Equal(t, 1, res.ExitCode)
	assert.Contains(t, res.Stderr, "timed out")
}
