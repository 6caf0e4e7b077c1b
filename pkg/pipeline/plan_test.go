package pipeline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finbourne/uav/pkg/pipeline"
)

func TestClassifyStep(t *testing.T) {
	tests := []struct {
		text string
		want pipeline.StepKind
	}{
		{`{task: unit, config: {}}`, pipeline.StepTask},
		{`{get: repo, trigger: true}`, pipeline.StepGet},
		{`{put: image, params: {build: .}}`, pipeline.StepPut},
		{`{aggregate: []}`, pipeline.StepAggregate},
		{`{do: []}`, pipeline.StepDo},
		{`{try: {get: repo}}`, pipeline.StepTry},
		{`{in_parallel: []}`, pipeline.StepInParallel},
		{`{get: repo, on_failure: {put: slack}}`, pipeline.StepGet},
	}

	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			got, err := pipeline.ClassifyStep(mapping(t, tt.text))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := pipeline.ClassifyStep(mapping(t, `{task: a, get: b}`))
	assert.EqualError(t, err, "  plan step defines both 'task' and 'get'")

	_, err = pipeline.ClassifyStep(mapping(t, `{load_var: x, file: y}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read an unexpected plan step:")
	assert.Contains(t, err.Error(), "load_var: x")
}

func TestResolveStep_Nested(t *testing.T) {
	e := files{
		"ci/tasks/echo.yml": "platform: linux\ntemplate: echo.sh\narguments: {msg: '{{msg}}'}\n",
		"ci/tasks/echo.sh":  "echo {{msg}}",
	}.engine()

	step := parse(t, `
do:
- get: repo
- aggregate:
  - task: one
    template: tasks/echo.yml
    arguments: {msg: one}
  - try:
      task: two
      template: tasks/echo.yml
      arguments: {msg: two}
- in_parallel:
    limit: 2
    steps:
    - task: three
      template: tasks/echo.yml
      arguments: {msg: three}
ensure:
  task: four
  template: tasks/echo.yml
  arguments: {msg: four}
`)

	got, err := e.ResolveStep(step, "ci/pipeline.yml", "")
	require.NoError(t, err)

	run := func(msg string) string {
		return `{platform: linux, run: {path: /bin/bash, args: ["-c", "echo ` + msg + `"]}}`
	}
	assertSame(t, `
do:
- get: repo
- aggregate:
  - {task: one, config: `+run("one")+`}
  - try: {task: two, config: `+run("two")+`}
- in_parallel:
    limit: 2
    steps:
    - {task: three, config: `+run("three")+`}
ensure: {task: four, config: `+run("four")+`}
`, got)
}

// aggregate、do、try 展开后仍保留外层键，同级的 attempts、timeout、tags 和钩子不会丢失。
func TestResolveStep_WrapperKeyIsKept(t *testing.T) {
	e := files{
		"tasks/echo.yml": "platform: linux\ntemplate: echo.sh\n",
		"tasks/echo.sh":  "echo hi",
	}.engine()
	config := `{platform: linux, run: {path: /bin/bash, args: ["-c", "echo hi"]}}`

	tests := []struct {
		name string
		step string
		want string
	}{
		{
			name: "aggregate",
			step: `{aggregate: [{task: a, template: tasks/echo.yml}], attempts: 2, tags: [linux]}`,
			want: `{aggregate: [{task: a, config: ` + config + `}], attempts: 2, tags: [linux]}`,
		},
		{
			name: "do",
			step: `{do: [{get: repo}, {task: b, template: tasks/echo.yml}], timeout: 5m}`,
			want: `{do: [{get: repo}, {task: b, config: ` + config + `}], timeout: 5m}`,
		},
		{
			name: "try",
			step: `{try: {task: c, template: tasks/echo.yml}, on_failure: {put: alert}}`,
			want: `{try: {task: c, config: ` + config + `}, on_failure: {put: alert}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.ResolveStep(parse(t, tt.step), "", "")
			require.NoError(t, err)
			assertSame(t, tt.want, got)
		})
	}
}

func TestResolveStep_Errors(t *testing.T) {
	e := files{}.engine()

	_, err := e.ResolveStep(parse(t, `{do: {get: repo}}`), "", "")
	assert.EqualError(t, err, "  job steps definition is not an array")

	_, err = e.ResolveStep(parse(t, `just-a-string`), "", "")
	assert.ErrorContains(t, err, "read an unexpected plan step:")

	_, err = e.ResolveStep(parse(t, `{try: {task: x}}`), "", "")
	assert.EqualError(t, err,
		"  whilst processing try step,\n"+
			"  whilst processing task 'x',\n"+
			"  task defines no config, file or template")
}

func TestResolvePlan(t *testing.T) {
	fixtures := files{
		"ci/jobs/build.yml": `
- get: repo
  trigger: true
- task: compile
  template: tasks/compile.yml
  arguments: {target: '{{target}}'}
`,
		"ci/jobs/deploy.yml": "plan:\n- put: {{env}}-bucket\n",
		"ci/jobs/tasks/compile.yml": `
platform: linux
template: scripts/compile.sh
arguments: {target: '{{target}}'}
`,
		"ci/jobs/tasks/scripts/compile.sh": "make {{target}}",
	}
	e := fixtures.engine()

	t.Run("inline plan", func(t *testing.T) {
		got, err := e.ResolvePlan(mapping(t, `{name: a, plan: [{get: repo}]}`), "ci/pipeline.yml")
		require.NoError(t, err)
		assertSame(t, `[{get: repo}]`, got)
	})

	t.Run("template is resolved through the lineage", func(t *testing.T) {
		got, err := e.ResolvePlan(mapping(t, `{name: a, template: jobs/build.yml, arguments: {target: release}}`), "ci/pipeline.yml")
		require.NoError(t, err)
		assertSame(t, `
- {get: repo, trigger: true}
- task: compile
  config:
    platform: linux
    run: {path: /bin/bash, args: ["-c", "make release"]}
`, got)
	})

	t.Run("template may be a mapping with plan", func(t *testing.T) {
		got, err := e.ResolvePlan(mapping(t, `{name: a, template: jobs/deploy.yml, arguments: {env: prod}}`), "ci/pipeline.yml")
		require.NoError(t, err)
		assertSame(t, `[{put: prod-bucket}]`, got)
	})

	t.Run("neither plan nor template", func(t *testing.T) {
		_, err := e.ResolvePlan(mapping(t, `{name: a}`), "ci/pipeline.yml")
		assert.EqualError(t, err, "  job does not define a job plan or template")
	})
}

func TestResolvePlan_CustomInterpreter(t *testing.T) {
	e := files{"t.yml": "template: s.sh", "s.sh": "exit 0"}.engine(pipeline.WithInterpreter("/bin/sh"))

	got, err := e.ResolvePlan(mapping(t, `{plan: [{task: t, template: t.yml}]}`), "p.yml")
	require.NoError(t, err)
	assertSame(t, `[{task: t, config: {run: {path: /bin/sh, args: ["-c", "exit 0"]}}}]`, got)
}
