package main_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	main "github.com/awitkowski/articlemd/cmd/articlemd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCLI_HelpShowsAllCommands(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	parser, err := kong.New(cli,
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	require.NoError(t, err)

	_, _ = parser.Parse([]string{"--help"})

	helpOutput := stdout.String()
	for _, cmd := range []string{"parse", "batch", "serve"} {
		assert.Contains(t, helpOutput, cmd, "Help should mention %s command", cmd)
	}
}

func TestMain_Run_HelpShowsKongOutput(t *testing.T) {
	t.Parallel()

	m := main.NewMain()

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{"--help"}, strings.NewReader(""), stdout, stderr)
	require.NoError(t, err)

	helpOutput := stdout.String()
	for _, cmd := range []string{"parse", "batch", "serve"} {
		assert.Contains(t, helpOutput, cmd, "Help should mention %s command", cmd)
	}
	assert.Contains(t, helpOutput, "Usage:")
}

func TestMain_Run_NoCommand(t *testing.T) {
	t.Parallel()

	m := main.NewMain()

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := m.Run(context.Background(), nil, strings.NewReader(""), stdout, stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no command specified")
}

func TestMain_Run_ParseFromStdin(t *testing.T) {
	t.Parallel()

	m := main.NewMain()

	stdin := strings.NewReader(`<html><head><title>T</title></head><body><article><h1>Intro</h1><p>Hello world.</p></article></body></html>`)
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{"parse"}, stdin, stdout, stderr)
	require.NoError(t, err)
	assert.Equal(t, "# T\n\n# Intro\n\nHello world.\n\n", stdout.String())
}

func TestMain_Run_ParseYAMLMode(t *testing.T) {
	t.Parallel()

	m := main.NewMain()

	stdin := strings.NewReader(`<html><head><title>T</title></head><body><article><p>Body text here.</p></article></body></html>`)
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{"parse", "--mode", "yaml"}, stdin, stdout, stderr)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout.String(), "---\n"))
	assert.Contains(t, stdout.String(), "title: T\n")
}

func TestMain_Run_ParseRejectsBadMode(t *testing.T) {
	t.Parallel()

	m := main.NewMain()

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{"parse", "--mode", "bogus"},
		strings.NewReader("<html></html>"), stdout, stderr)
	require.Error(t, err)
}
