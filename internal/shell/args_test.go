package shell_test

import (
	"testing"

	"github.com/huntdesk-io/huntdesk/internal/shell"
	"github.com/huntdesk-io/huntdesk/pkg/huntapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgs_Mixed(t *testing.T) {
	t.Parallel()

	args, err := shell.ParseArgs([]string{"-u", "-s", "50", "lame", "-r"}, "-s")
	require.NoError(t, err)

	assert.True(t, args.Has("-u"))
	assert.True(t, args.Has("-r"))
	assert.Equal(t, []string{"lame"}, args.Positional())

	size, err := args.Int("-s", 0)
	require.NoError(t, err)
	assert.Equal(t, 50, size)
}

func TestParseArgs_Defaults(t *testing.T) {
	t.Parallel()

	args, err := shell.ParseArgs(nil, "-l", "-s")
	require.NoError(t, err)

	assert.False(t, args.Has("-f"))
	assert.Equal(t, "fallback", args.String("-s", "fallback"))

	limit, err := args.Int("-l", 25)
	require.NoError(t, err)
	assert.Equal(t, 25, limit)
}

func TestParseArgs_MissingValue(t *testing.T) {
	t.Parallel()

	_, err := shell.ParseArgs([]string{"-s"}, "-s")
	require.Error(t, err)
	assert.ErrorIs(t, err, huntapi.ErrInvalidArgument)
}

func TestParseArgs_BadNumber(t *testing.T) {
	t.Parallel()

	args, err := shell.ParseArgs([]string{"-l", "many"}, "-l")
	require.NoError(t, err)

	_, err = args.Int("-l", 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, huntapi.ErrInvalidArgument)
}

func TestParseArgs_SameFlagDifferentRole(t *testing.T) {
	t.Parallel()

	// "-s" is a size in one scope and a search string in another; the
	// caller decides which flags take values.
	args, err := shell.ParseArgs([]string{"-s", "acme"}, "-s")
	require.NoError(t, err)
	assert.Equal(t, "acme", args.String("-s", ""))

	args, err = shell.ParseArgs([]string{"-s"})
	require.NoError(t, err)
	assert.True(t, args.Has("-s"))
}
