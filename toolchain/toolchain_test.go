// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package toolchain

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgv(t *testing.T) {
	tests := []struct {
		tool string
		args []string
		want []string
	}{
		{"dxc", []string{"-T", "vs_6_0"}, []string{"dxc", "-T", "vs_6_0"}},
		{"dxc -nologo", nil, []string{"dxc", "-nologo"}},
		{`"/opt/vulkan sdk/bin/spirv-cross" --es`, []string{"-"}, []string{"/opt/vulkan sdk/bin/spirv-cross", "--es", "-"}},
	}
	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			got, err := Argv(tt.tool, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestArgvErrors(t *testing.T) {
	for _, tool := range []string{"", "   ", `"unterminated`} {
		_, err := Argv(tool)
		var tErr *Error
		require.True(t, errors.As(err, &tErr), "tool %q", tool)
		assert.Equal(t, ErrBadCommand, tErr.Kind)
	}
}

func TestExecRunnerToolNotFound(t *testing.T) {
	_, err := ExecRunner{}.Run(context.Background(), Command{Tool: "sksc-no-such-tool-here"})
	var tErr *Error
	require.True(t, errors.As(err, &tErr))
	assert.True(t, tErr.IsToolNotFound())
	assert.ErrorIs(t, err, exec.ErrNotFound)
}

func TestExecRunnerCapturesOutput(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	out, err := ExecRunner{}.Run(context.Background(), Command{
		Tool:  "sh",
		Args:  []string{"-c", "cat; echo oops >&2; exit 3"},
		Stdin: []byte("hello\n"),
	})
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(out.Stdout))
	assert.Equal(t, "oops\n", string(out.Stderr))
	assert.Equal(t, 3, out.ExitCode)
	assert.Equal(t, "hello\noops\n", out.Combined())
}

func TestExecRunnerCanceled(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ExecRunner{}.Run(ctx, Command{Tool: "sh", Args: []string{"-c", "sleep 5"}})
	var tErr *Error
	require.True(t, errors.As(err, &tErr))
	assert.Equal(t, ErrToolFailed, tErr.Kind)
}

func TestRunnerFunc(t *testing.T) {
	var got Command
	r := RunnerFunc(func(_ context.Context, cmd Command) (Output, error) {
		got = cmd
		return Output{Stdout: []byte("ok")}, nil
	})
	out, err := r.Run(context.Background(), Command{Tool: "x", Args: []string{"a"}})
	require.NoError(t, err)
	assert.Equal(t, "ok", string(out.Stdout))
	assert.Equal(t, []string{"a"}, got.Args)
}

func TestWorkDir(t *testing.T) {
	w, err := NewWorkDir("sksc-test-*")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(w.Path("a.spv"), []byte{1}, 0o644))
	require.NoError(t, w.Remove())
	_, err = os.Stat(string(w))
	assert.True(t, os.IsNotExist(err))
	assert.NoError(t, WorkDir("").Remove())
}

func TestErrorKindString(t *testing.T) {
	assert.Equal(t, "ToolNotFound", ErrToolNotFound.String())
	assert.Equal(t, "ToolFailed", ErrToolFailed.String())
	assert.Equal(t, "BadCommand", ErrBadCommand.String())
	assert.Equal(t, "Unknown", ErrorKind(99).String())
	assert.Equal(t, "toolchain ToolFailed: dxc", NewError(ErrToolFailed, "dxc", nil).Error())
}

func TestResultString(t *testing.T) {
	assert.Equal(t, "success", Success.String())
	assert.Equal(t, "skip", Skip.String())
	assert.Equal(t, "fail", Fail.String())
	assert.Equal(t, "unknown", Result(7).String())
}
