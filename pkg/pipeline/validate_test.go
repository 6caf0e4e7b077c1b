package pipeline_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finbourne/uav/pkg/pipeline"
	"github.com/finbourne/uav/pkg/tmpl"
	"github.com/finbourne/uav/pkg/value"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		wantErr string
	}{
		{name: "clean", output: `{"jobs": []}`},
		{name: "opening marker only", output: `echo "{{ not closed"`},
		{name: "closing before opening", output: `}} then {{`},
		{name: "unresolved variable", output: `{"name": "{{x}}"}`, wantErr: "  Unresolved variable in pipeline definition: 'x'"},
		{name: "first one wins", output: `{{first}} {{second}}`, wantErr: "  Unresolved variable in pipeline definition: 'first'"},
		{name: "empty name", output: `{{}}`, wantErr: "  Unresolved variable in pipeline definition: ''"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := pipeline.Validate(tt.output)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestRender(t *testing.T) {
	e := files{
		"p.yml": "jobs: [{name: build, plan: [{get: '{{repo}}'}]}]",
	}.engine()

	out, err := e.Render([]string{"p.yml"}, tmpl.Substitutions{"repo": "src"}, value.FormatJSON)
	require.NoError(t, err)
	assert.JSONEq(t, `{"groups":[],"jobs":[{"name":"build","plan":[{"get":"src"}]}],"resources":[],"resource_types":[]}`, string(out))

	out, err = e.Render([]string{"p.yml"}, tmpl.Substitutions{"repo": "src"}, value.FormatYAML)
	require.NoError(t, err)
	assert.Contains(t, string(out), "- get: src")

	_, err = e.Render([]string{"p.yml"}, nil, value.FormatJSON)
	assert.EqualError(t, err, "  Unresolved variable in pipeline definition: 'repo'")
}

// 未标注类型的标量按源文本输出，模板参数同样按原文替换。
func TestRender_PlainScalarsKeepSourceText(t *testing.T) {
	e := files{
		"p.yml": `
jobs:
- name: build
  template: job.yml
  arguments: {ver: 1.10}
resources:
- name: image
  type: registry-image
  source: {tag: 1.10, port: 0x1F, when: 010, retries: !!int 3, limit: !!float .inf}
`,
		"job.yml": "- get: image\n  params: {version: '{{ver}}'}\n",
	}.engine()

	out, err := e.Render([]string{"p.yml"}, nil, value.FormatJSON)
	require.NoError(t, err)
	assert.JSONEq(t, `{
  "groups": [],
  "jobs": [{"name": "build", "plan": [{"get": "image", "params": {"version": "1.10"}}]}],
  "resources": [{"name": "image", "type": "registry-image",
    "source": {"tag": "1.10", "port": "0x1F", "when": "010", "retries": 3, "limit": null}}],
  "resource_types": []
}`, string(out))
}

// 使用真实文件系统，模板路径相对于各自的包含文档解析。
func TestRender_FilesOnDisk(t *testing.T) {
	dir := t.TempDir()
	write := func(rel, text string) {
		path := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(text), 0o600))
	}

	write("pipeline.yml", `
groups:
- name: main
  jobs: [unit]
jobs:
- name: unit
  template: jobs/unit.yml
  arguments: {go: "1.25"}
resources:
- name: repo
  type: git
`)
	write("jobs/unit.yml", `
- get: repo
  trigger: true
- task: test
  template: tasks/test.yml
  arguments: {go: "{{go}}"}
`)
	write("jobs/tasks/test.yml", `
platform: linux
image_resource: {type: registry-image, source: {repository: golang, tag: "{{go}}"}}
inputs: [{name: repo}]
template: test.sh
arguments: {go: "{{go}}"}
`)
	write("jobs/tasks/test.sh", "cd repo\necho go {{go}}\ngo test ./...\n")

	out, err := pipeline.New().Render([]string{filepath.Join(dir, "pipeline.yml")}, nil, value.FormatJSON)
	require.NoError(t, err)

	assert.JSONEq(t, `{
  "groups": [{"name": "main", "jobs": ["unit"]}],
  "jobs": [{
    "name": "unit",
    "plan": [
      {"get": "repo", "trigger": true},
      {"task": "test", "config": {
        "platform": "linux",
        "image_resource": {"type": "registry-image", "source": {"repository": "golang", "tag": "1.25"}},
        "inputs": [{"name": "repo"}],
        "run": {"path": "/bin/bash", "args": ["-c", "cd repo\necho go 1.25\ngo test ./...\n"]}
      }}
    ]
  }],
  "resources": [{"name": "repo", "type": "git"}],
  "resource_types": []
}`, string(out))
}
