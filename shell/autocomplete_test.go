package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func complete(c *ShellCompleter, line string) ([]string, int) {
	matches, n := c.Do([]rune(line), len([]rune(line)))
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = string(m)
	}
	return out, n
}

func TestCompleter(t *testing.T) {
	sc, _, _ := newTestShell(t)
	c := NewShellCompleter(sc)

	got, n := complete(c, "ap")
	assert.Equal(t, []string{"ply"}, got)
	assert.Equal(t, 2, n)

	got, _ = complete(c, "apply [Mo")
	assert.Equal(t, []string{"ve:", "veN:"}, got)

	got, _ = complete(c, "game ")
	assert.Equal(t, []string{"ttt"}, got)

	got, _ = complete(c, "load op")
	assert.Equal(t, []string{"ening"}, got)

	got, _ = complete(c, "replay -")
	assert.Equal(t, []string{"threads"}, got)

	got, _ = complete(c, "set coords ")
	assert.Equal(t, []string{"true", "false"}, got)

	got, _ = complete(c, "goto ")
	assert.Equal(t, []string{"start", "end"}, got)
}
