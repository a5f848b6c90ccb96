package parser

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDatasetReader(t *testing.T) {
	input := "skiplist FIND 25000 0.0123 412345 99\n" +
		"skiplist\tFIND   50000  0.0250 880001 17\r\n" +
		"  a b 10 100.0\n"

	ds, err := ParseDatasetReader("skiplist-find.dat", strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, "skiplist-find.dat", ds.Name)
	require.Len(t, ds.Records, 3)

	first := ds.Records[0]
	assert.Equal(t, "skiplist", first.Structure())
	assert.Equal(t, "FIND", first.Operation())
	assert.Equal(t, "25000", first.Key())
	assert.Equal(t, "0.0123", first.Value())
	assert.Equal(t, 1, first.Line)

	assert.Equal(t, "50000", ds.Records[1].Key())
	assert.Equal(t, "0.0250", ds.Records[1].Value())
	assert.Equal(t, "10", ds.Records[2].Key())
	assert.Equal(t, 3, ds.Records[2].Line)
}

func TestParseDatasetReader_NoTrailingNewline(t *testing.T) {
	ds, err := ParseDatasetReader("x.dat", strings.NewReader("a b 10 1.5"))
	require.NoError(t, err)
	require.Len(t, ds.Records, 1)
	assert.Equal(t, "1.5", ds.Records[0].Value())
}

func TestParseDatasetReader_Empty(t *testing.T) {
	ds, err := ParseDatasetReader("empty.dat", strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, ds.Records)
}

func TestParseDatasetReader_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"short line", "a b 10 1.0\na b 20\n"},
		{"blank line", "a b 10 1.0\n\na b 20 2.0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDatasetReader("bad.dat", strings.NewReader(tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedRecord))
			assert.Contains(t, err.Error(), "bad.dat line 2")
		})
	}
}

func TestParseDataset_MissingFile(t *testing.T) {
	_, err := ParseDataset(filepath.Join(t.TempDir(), "nope.dat"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestParseDataset_UsesBaseName(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "treap-add.dat")
	require.NoError(t, os.WriteFile(path, []byte("treap ADD 25000 0.5 1 2\n"), 0644))

	ds, err := ParseDataset(path)
	require.NoError(t, err)
	assert.Equal(t, "treap-add.dat", ds.Name)
	assert.Len(t, ds.Records, 1)
}

func TestParseNormalized(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "treap-find-norm.dat")
	require.NoError(t, os.WriteFile(path, []byte("10 0.25\n20 2.0\n\n30 1e-05\n"), 0644))

	lines, err := ParseNormalized(path)
	require.NoError(t, err)
	assert.Equal(t, []RatioLine{
		{Key: "10", Ratio: 0.25},
		{Key: "20", Ratio: 2.0},
		{Key: "30", Ratio: 1e-05},
	}, lines)
}

func TestParseNormalized_Errors(t *testing.T) {
	dir := t.TempDir()

	extra := filepath.Join(dir, "extra.dat")
	require.NoError(t, os.WriteFile(extra, []byte("10 0.25 7\n"), 0644))
	_, err := ParseNormalized(extra)
	assert.ErrorIs(t, err, ErrMalformedRecord)

	notNum := filepath.Join(dir, "nan.dat")
	require.NoError(t, os.WriteFile(notNum, []byte("10 fast\n"), 0644))
	_, err = ParseNormalized(notNum)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid ratio")

	_, err = ParseNormalized(filepath.Join(dir, "missing.dat"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}
