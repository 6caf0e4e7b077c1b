package pipeline_test

import (
	"io/fs"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/finbourne/uav/pkg/pipeline"
	"github.com/finbourne/uav/pkg/value"
)

// files 内存中的文件集合，路径未找到时返回 fs.ErrNotExist。
type files map[string]string

func (f files) engine(opts ...pipeline.Option) *pipeline.Engine {
	read := pipeline.WithReadFile(func(path string) ([]byte, error) {
		text, ok := f[path]
		if !ok {
			return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
		}

		return []byte(text), nil
	})

	return pipeline.New(append([]pipeline.Option{read}, opts...)...)
}

func parse(t *testing.T, text string) value.Value {
	t.Helper()
	v, err := value.Decode([]byte(text))
	require.NoError(t, err)

	return v
}

func mapping(t *testing.T, text string) value.Mapping {
	t.Helper()
	m, ok := parse(t, text).AsMapping()
	require.True(t, ok, "not a mapping: %s", text)

	return m
}

// assertSame 按 YAML 解析 want 后与 got 比较，映射键顺序也参与比较。
func assertSame(t *testing.T, want string, got value.Value) {
	t.Helper()
	expected := parse(t, want)
	if !expected.Equal(got) {
		t.Errorf("unexpected value (-want +got):\n%s", cmp.Diff(expected.String(), got.String()))
	}
}
