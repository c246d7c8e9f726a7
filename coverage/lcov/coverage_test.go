package lcov

import (
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nyg123/check_coverage/def"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `TN:
SF:/a/b.c
FN:1,main
FNDA:1,main
FNF:2
FNH:1
DA:1,1
DA:2,0
DA:3,5;CHECKSUM
LF:3
LH:2
end_of_record
SF:/a/d.c
DA:10,0,abcdef
end_of_record
`

func TestParse(t *testing.T) {
	got, err := Parse(sample, Options{})
	require.NoError(t, err)

	want := def.CoverageFmt{
		"/a/b.c": {LinesHit: 2, LinesFound: 3, FunctionsHit: 1, FunctionsFound: 2},
		"/a/d.c": {LinesHit: 0, LinesFound: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_LinesFoundEqualsDALines(t *testing.T) {
	data := sample + "SF:/a/e.c\nDA:1,3\nDA:2,3\nDA:4,0\nend_of_record\n"
	got, err := Parse(data, Options{})
	require.NoError(t, err)

	total := 0
	for _, rec := range got {
		total += rec.LinesFound
	}
	assert.Equal(t, strings.Count(data, "\nDA:"), total)
}

func TestParse_Canonical(t *testing.T) {
	got, err := Parse("SF:/a/./x/../b.c\nDA:1,1\nend_of_record\nSF:rel/c.c\nDA:1,0\nend_of_record\n", Options{Canonical: true})
	require.NoError(t, err)

	abs, err := filepath.Abs("rel/c.c")
	require.NoError(t, err)
	assert.Contains(t, got, "/a/b.c")
	assert.Contains(t, got, abs)
	assert.Len(t, got, 2)
}

func TestParse_AsWritten(t *testing.T) {
	got, err := Parse("SF:rel/./c.c\nDA:1,0\nend_of_record\n", Options{})
	require.NoError(t, err)
	assert.Contains(t, got, "rel/./c.c")
}

func TestParse_FunctionCountsOverwrite(t *testing.T) {
	got, err := Parse("SF:/a.c\nFNF:4\nFNH:1\nFNF:7\nFNH:3\nend_of_record\n", Options{})
	require.NoError(t, err)
	assert.Equal(t, &def.Record{FunctionsHit: 3, FunctionsFound: 7}, got["/a.c"])
}

func TestParse_RepeatedSourceFileAccumulates(t *testing.T) {
	got, err := Parse("SF:/a.c\nDA:1,1\nend_of_record\nSF:/a.c\nDA:2,0\nend_of_record\n", Options{})
	require.NoError(t, err)
	assert.Equal(t, &def.Record{LinesHit: 1, LinesFound: 2}, got["/a.c"])
}

func TestParse_IgnoresOrphanAndUnknownLines(t *testing.T) {
	data := "DA:1,1\nFNF:3\nSF:/a.c\nBRDA:1,0,0,1\nVER:2\nDA:1,1\nend_of_record\nDA:2,1\nFNH:9\n"
	got, err := Parse(data, Options{})
	require.NoError(t, err)
	assert.Equal(t, def.CoverageFmt{"/a.c": {LinesHit: 1, LinesFound: 1}}, got)
}

func TestParse_CRLF(t *testing.T) {
	got, err := Parse("SF:/a.c\r\nDA:1,1\r\nDA:2,0\r\nend_of_record\r\n", Options{})
	require.NoError(t, err)
	assert.Equal(t, &def.Record{LinesHit: 1, LinesFound: 2}, got["/a.c"])
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"missing hit count", "SF:/a.c\nDA:1\nend_of_record\n"},
		{"non numeric hit count", "SF:/a.c\nDA:1,x\nend_of_record\n"},
		{"empty hit count", "SF:/a.c\nDA:1,;abc\nend_of_record\n"},
		{"non numeric FNF", "SF:/a.c\nFNF:many\nend_of_record\n"},
		{"non numeric FNH", "SF:/a.c\nFNH:\nend_of_record\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.data, Options{})
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformed), "got %v", err)
			assert.Contains(t, err.Error(), "line 2")
		})
	}
}

func TestParse_Exclude(t *testing.T) {
	exclude, err := CompileExclude([]string{`_test\.c$`, `^/usr/`})
	require.NoError(t, err)

	data := "SF:/usr/include/x.h\nDA:1,0\nend_of_record\nSF:/a/b_test.c\nDA:1,0\nend_of_record\nSF:/a/b.c\nDA:1,1\nend_of_record\n"
	got, err := Parse(data, Options{Exclude: exclude})
	require.NoError(t, err)
	assert.Equal(t, def.CoverageFmt{"/a/b.c": {LinesHit: 1, LinesFound: 1}}, got)
}

func TestCompileExclude_Invalid(t *testing.T) {
	_, err := CompileExclude([]string{"("})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unit_exclude")
}

func TestGetCoverage(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing", func(t *testing.T) {
		_, err := GetCoverage(filepath.Join(dir, "missing.info"), Options{})
		assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)
	})

	t.Run("whitespace only", func(t *testing.T) {
		path := filepath.Join(dir, "empty.info")
		require.NoError(t, ioutil.WriteFile(path, []byte(" \n\t\n"), 0644))
		_, err := GetCoverage(path, Options{})
		assert.True(t, errors.Is(err, ErrEmpty), "got %v", err)
	})

	t.Run("valid", func(t *testing.T) {
		path := filepath.Join(dir, "coverage.info")
		require.NoError(t, ioutil.WriteFile(path, []byte(sample), 0644))
		got, err := GetCoverage(path, Options{Canonical: true})
		require.NoError(t, err)
		assert.Equal(t, 3, got["/a/b.c"].LinesFound)
		assert.Equal(t, 2, got["/a/b.c"].LinesHit)
	})
}
