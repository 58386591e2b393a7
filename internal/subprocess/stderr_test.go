package subprocess

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestStderrWriter_SplitAcrossWrites tests that lines split across writes
// are reassembled.
func TestStderrWriter_SplitAcrossWrites(t *testing.T) {
	var got []string

	w := newStderrWriter(func(line string) { got = append(got, line) })

	for _, chunk := range []string{"Start", "ing serv", "er\nread", "y\r\n", "tail"} {
		n, err := w.Write([]byte(chunk))
		require.NoError(t, err)
		require.Equal(t, len(chunk), n)
	}

	require.Equal(t, []string{"Starting server", "ready"}, got)

	w.flush()

	require.Equal(t, []string{"Starting server", "ready", "tail"}, got)
	require.Equal(t, "Starting server\nready\ntail", w.String())
}

// TestStderrWriter_MultipleLinesInOneWrite tests a single write carrying several lines.
func TestStderrWriter_MultipleLinesInOneWrite(t *testing.T) {
	w := newStderrWriter(nil)

	_, err := w.Write([]byte("one\n\nthree\n"))
	require.NoError(t, err)

	require.Equal(t, "one\n\nthree", w.String())
}

// TestStderrWriter_KeepsMostRecentLines tests the retention bound.
func TestStderrWriter_KeepsMostRecentLines(t *testing.T) {
	calls := 0
	w := newStderrWriter(func(string) { calls++ })

	total := maxStderrLines + 50
	for i := range total {
		_, _ = w.Write([]byte("line " + strconv.Itoa(i) + "\n"))
	}

	lines := strings.Split(w.String(), "\n")
	require.Len(t, lines, maxStderrLines)
	require.Equal(t, "line 50", lines[0])
	require.Equal(t, "line "+strconv.Itoa(total-1), lines[len(lines)-1])
	require.Equal(t, total, calls, "callback receives every line")
}

// TestStderrWriter_LongLineIsChunked tests that an unterminated line cannot grow without bound.
func TestStderrWriter_LongLineIsChunked(t *testing.T) {
	var got []string

	w := newStderrWriter(func(line string) { got = append(got, line) })

	_, _ = w.Write([]byte(strings.Repeat("x", maxLineSize+10)))

	require.Len(t, got, 1)
	require.Len(t, got[0], maxLineSize+10)
}
