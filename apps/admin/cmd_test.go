package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandLineRun(t *testing.T) {
	cmd := &commandLine{}

	t.Run("no arguments prints usage", func(t *testing.T) {
		assert.Equal(t, errHelp, cmd.run([]string{"admin"}))
	})

	t.Run("help command", func(t *testing.T) {
		assert.Equal(t, errHelp, cmd.run([]string{"admin", "help"}))
	})

	t.Run("unknown command", func(t *testing.T) {
		assert.Equal(t, errHelp, cmd.run([]string{"admin", "frobnicate"}))
	})
}

func TestPromptPassword(t *testing.T) {
	defer func() { readPasswordFunc = origReadPassword }()

	t.Run("matching entries", func(t *testing.T) {
		stubReadPassword(t, "S3cret&Pwd", "S3cret&Pwd")

		pwd, err := (&commandLine{}).promptPassword()
		require.NoError(t, err)
		assert.Equal(t, "S3cret&Pwd", pwd)
	})

	t.Run("mismatched entries", func(t *testing.T) {
		stubReadPassword(t, "S3cret&Pwd", "something-else")

		_, err := (&commandLine{}).promptPassword()
		require.EqualError(t, err, "passwords do not match")
	})
}

var origReadPassword = readPasswordFunc

func stubReadPassword(t *testing.T, entries ...string) {
	t.Helper()

	var call int
	readPasswordFunc = func(fd int) ([]byte, error) {
		require.Less(t, call, len(entries))
		entry := entries[call]
		call++
		return []byte(entry), nil
	}
}
