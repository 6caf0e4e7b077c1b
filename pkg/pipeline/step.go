package pipeline

import (
	"strings"

	"github.com/finbourne/uav/pkg/failure"
	"github.com/finbourne/uav/pkg/value"
)

// StepKind 计划步骤的类型，由步骤中出现的键决定。
type StepKind int

const (
	StepTask StepKind = iota
	StepGet
	StepPut
	StepAggregate
	StepDo
	StepTry
	StepInParallel
)

// stepVariants 按判定优先级排列。
var stepVariants = []struct {
	kind StepKind
	key  string
}{
	{StepTask, "task"},
	{StepGet, "get"},
	{StepPut, "put"},
	{StepAggregate, "aggregate"},
	{StepDo, "do"},
	{StepTry, "try"},
	{StepInParallel, "in_parallel"},
}

// stepHooks 任意步骤都可以携带的钩子，其值本身是一个步骤。
var stepHooks = []string{"on_success", "on_failure", "on_abort", "on_error", "ensure"}

// Key 返回决定该类型的键名。
func (k StepKind) Key() string {
	for _, v := range stepVariants {
		if v.kind == k {
			return v.key
		}
	}

	return "unknown"
}

// String 同 [StepKind.Key]。
func (k StepKind) String() string { return k.Key() }

// ClassifyStep 判定步骤类型。步骤必须恰好包含一个类型键。
func ClassifyStep(step value.Mapping) (StepKind, error) {
	found := -1
	for i, v := range stepVariants {
		if !step.Has(v.key) {
			continue
		}
		if found >= 0 {
			return 0, failure.New("plan step defines both '%s' and '%s'", stepVariants[found].key, v.key)
		}
		found = i
	}

	if found < 0 {
		return 0, unexpectedStep(value.Map(step))
	}

	return stepVariants[found].kind, nil
}

func unexpectedStep(step value.Value) error {
	return failure.New("read an unexpected plan step:\n\n%s", strings.TrimSpace(step.String()))
}
