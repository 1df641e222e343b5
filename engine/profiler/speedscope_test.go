package profiler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, b []byte) ssFile {
	t.Helper()
	var doc ssFile
	require.NoError(t, json.Unmarshal(b, &doc))
	return doc
}

func TestEncodeSpeedscopeBalancesScopes(t *testing.T) {
	evs := []event{
		{AtNS: 1_000, Frame: 0, Open: true},
		{AtNS: 2_000, Frame: 1, Open: true},
		{AtNS: 4_000, Frame: 0},             // mismatched, dropped
		{AtNS: 5_000, Frame: 1},             // closes frame 1
		{AtNS: 9_000, Frame: 1, Open: true}, // left open
	}
	var buf bytes.Buffer
	require.NoError(t, encodeSpeedscope(&buf, []string{"frame", "emit"}, evs))

	doc := decode(t, buf.Bytes())
	require.Len(t, doc.Profiles, 1)
	p := doc.Profiles[0]
	assert.Equal(t, "evented", p.Type)
	assert.Equal(t, []ssFrame{{Name: "frame"}, {Name: "emit"}}, doc.Shared.Frames)

	types := ""
	for _, e := range p.Events {
		types += e.Type
	}
	assert.Equal(t, "OOCOCC", types)
	assert.Equal(t, int64(8), p.EndValue)
	last := p.Events[len(p.Events)-1]
	assert.Equal(t, 0, last.Frame)
	assert.Equal(t, int64(8), last.At)
}

func TestEncodeSpeedscopeKeepsTimeMonotonic(t *testing.T) {
	evs := []event{
		{AtNS: 10_000, Frame: 0, Open: true},
		{AtNS: 5_000, Frame: 0},
	}
	var buf bytes.Buffer
	require.NoError(t, encodeSpeedscope(&buf, []string{"a"}, evs))
	p := decode(t, buf.Bytes()).Profiles[0]
	require.Len(t, p.Events, 2)
	assert.Equal(t, int64(0), p.Events[1].At)
}

func TestEncodeSpeedscopeEmpty(t *testing.T) {
	assert.ErrorIs(t, encodeSpeedscope(io.Discard, nil, nil), ErrNoEvents)
	assert.ErrorIs(t, encodeSpeedscope(io.Discard, []string{"a"}, []event{{Frame: 0}}), ErrNoEvents)
}

func TestDumpFileLeavesNothingOnError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "capture.json")

	boom := errors.New("boom")
	err := dumpFile(path, func(io.Writer) error { return boom })
	assert.ErrorIs(t, err, boom)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	require.NoError(t, dumpFile(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "{}")
		return err
	}))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(b))
}

func TestReadRuntime(t *testing.T) {
	s := ReadRuntime()
	assert.Positive(t, s.CPUs)
	assert.Positive(t, s.Goroutines)
	assert.Positive(t, s.HeapAlloc)
}
