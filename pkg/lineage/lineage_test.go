package lineage_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/finbourne/uav/pkg/lineage"
)

func TestDirectory(t *testing.T) {
	tests := map[string]string{
		"":                  "",
		"some-file.txt":     "",
		"a/some-file.txt":   "a/",
		"a/b/some-file.txt": "a/b/",
		"../file.txt":       "../",
		"a/":                "a/",
	}

	for in, want := range tests {
		assert.Equal(t, want, lineage.Directory(in), "Directory(%q)", in)
	}
}

func TestResolve(t *testing.T) {
	deep := []string{"a/file.txt", "b/file.txt", "c/file.txt", "../file.txt"}

	tests := []struct {
		name    string
		path    string
		lineage []string
		want    string
	}{
		{name: "no lineage", path: "some-file.txt", want: "some-file.txt"},
		{name: "no lineage with directory", path: "a/some-file.txt", want: "a/some-file.txt"},
		{name: "single level", path: "some-file.txt", lineage: []string{"a/file.txt"}, want: "a/some-file.txt"},
		{name: "single level with directory", path: "b/some-file.txt", lineage: []string{"a/file.txt"}, want: "a/b/some-file.txt"},
		{name: "empty entries skipped", path: "x.sh", lineage: []string{"ci/main.yml", "", "task.yml"}, want: "ci/x.sh"},
		{name: "deep", path: "some-file.txt", lineage: deep, want: "a/b/c/../some-file.txt"},
		{name: "deep with directory", path: "c/some-file.txt", lineage: deep, want: "a/b/c/../c/some-file.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lineage.Resolve(tt.path, tt.lineage...))
		})
	}
}

var segment = rapid.StringMatching(`[a-z.]{1,5}`)

func TestResolve_PrependsDirectoriesInOrder(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		path := rapid.StringMatching(`[a-z]{1,5}(/[a-z]{1,5}){0,2}`).Draw(t, "path")
		entry := rapid.Map(rapid.SliceOfN(segment, 1, 3), func(parts []string) string {
			return strings.Join(parts, "/")
		})
		entries := rapid.SliceOfN(entry, 0, 5).Draw(t, "lineage")

		var want strings.Builder
		for _, e := range entries {
			want.WriteString(lineage.Directory(e))
		}
		want.WriteString(path)

		got := lineage.Resolve(path, entries...)
		assert.Equal(t, want.String(), got)
		assert.True(t, strings.HasSuffix(got, path))
	})
}
