package uav

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"
)

const testPipeline = `
jobs:
- name: deploy-{{env}}
  plan:
  - get: repo
  - task: ship
    config:
      platform: linux
      run: {path: ./ship.sh, args: ["{{region}}"]}
resources:
- name: repo
  type: git
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

// run 执行一个新的命令实例，返回 stdout 内容。
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout bytes.Buffer
	cmd := newCommand()
	cmd.Writer = &stdout
	err := cmd.Run(context.Background(), append([]string{"uav"}, args...))

	return stdout.String(), err
}

func TestCommand_Stdout(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "pipeline.yml", testPipeline)

	out, err := run(t, "-o", "-", "-d", "env=prod", "-d", "region=eu-west-1", input)
	require.NoError(t, err)

	assert.JSONEq(t, `{
  "groups": [],
  "jobs": [{"name": "deploy-prod", "plan": [
    {"get": "repo"},
    {"task": "ship", "config": {"platform": "linux", "run": {"path": "./ship.sh", "args": ["eu-west-1"]}}}
  ]}],
  "resources": [{"name": "repo", "type": "git"}],
  "resource_types": []
}`, out)
	assert.Equal(t, byte('\n'), out[len(out)-1], "output ends with a newline")
}

func TestCommand_CredentialsAndYAMLFile(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "pipeline.yml", testPipeline)
	creds := writeFile(t, dir, "creds.yml", "env: staging\nregion: us-east-1\n")
	output := filepath.Join(dir, "out.yml")

	// --define 覆盖凭据文件中的同名键
	_, err := run(t, "--credentials", creds, "--define", "env=prod", "--format", "yaml", "--output", output, input)
	require.NoError(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)

	var doc struct {
		Jobs []struct {
			Name string `yaml:"name"`
		} `yaml:"jobs"`
	}
	require.NoError(t, yaml.Unmarshal(data, &doc))
	require.Len(t, doc.Jobs, 1)
	assert.Equal(t, "deploy-prod", doc.Jobs[0].Name)
	assert.Contains(t, string(data), "us-east-1")
}

func TestCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "pipeline.yml", testPipeline)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "no inputs",
			args: []string{"-o", "-"},
			want: "no pipeline definitions supplied",
		},
		{
			name: "empty output",
			args: []string{"-o", "", input},
			want: "invalid (empty) output path supplied",
		},
		{
			name: "malformed define",
			args: []string{"-o", "-", "-d", "env", input},
			want: "malformed substitution definition: 'env'",
		},
		{
			name: "credentials given twice",
			args: []string{"-o", "-", "-c", filepath.Join(dir, "a.yml"), "-c", filepath.Join(dir, "b.yml"), input},
			want: "only one credentials file is supported (got 2)",
		},
		{
			name: "unknown format",
			args: []string{"-o", "-", "-f", "xml", input},
			want: `unsupported output format "xml"`,
		},
		{
			name: "unresolved variable",
			args: []string{"-o", "-", "-d", "env=prod", input},
			want: "Unable to generate pipelines:\n  Unresolved variable in pipeline definition: 'region'",
		},
		{
			name: "missing input",
			args: []string{"-o", "-", filepath.Join(dir, "missing.yml")},
			want: "Unable to generate pipelines:\n  whilst processing pipeline",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestWriteOutput(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeOutput(&buf, "-", []byte(`{}`)))
	assert.Equal(t, "{}\n", buf.String())

	buf.Reset()
	require.NoError(t, writeOutput(&buf, "-", []byte("a: 1\n")))
	assert.Equal(t, "a: 1\n", buf.String(), "no second newline")

	err := writeOutput(&buf, filepath.Join(t.TempDir(), "missing", "out.json"), []byte(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not write output file")
}

func TestCommand_ExampleConfig(t *testing.T) {
	out, err := run(t, "example-config")
	require.NoError(t, err)

	assert.Contains(t, out, "output: pipeline.json")
	assert.Contains(t, out, "interpreter: /bin/bash")

	var cfg map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &cfg))
	assert.Equal(t, "json", cfg["format"])
}
