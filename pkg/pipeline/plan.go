package pipeline

import (
	"log/slog"

	"github.com/finbourne/uav/pkg/failure"
	"github.com/finbourne/uav/pkg/lineage"
	"github.com/finbourne/uav/pkg/value"
)

// ResolveStep 展开单个计划步骤。
//
//   - task：[Engine.ResolveTask]
//   - get、put：原样保留
//   - aggregate、do、in_parallel：逐个展开其中的步骤，保持顺序
//   - try：展开嵌套的步骤
//
// 钩子（on_success、on_failure、on_abort、on_error、ensure）中的步骤同样会被展开。
func (e *Engine) ResolveStep(step value.Value, basePath, planPath string) (value.Value, error) {
	m, ok := step.AsMapping()
	if !ok {
		return value.Value{}, unexpectedStep(step)
	}

	kind, err := ClassifyStep(m)
	if err != nil {
		return value.Value{}, err
	}

	switch kind {
	case StepTask:
		if m, err = e.ResolveTask(m, basePath, planPath); err != nil {
			return value.Value{}, err
		}
	case StepGet, StepPut:
	case StepAggregate, StepDo:
		inner, _ := m.Get(kind.Key())
		steps, err := e.resolveSteps(inner, basePath, planPath)
		if err != nil {
			return value.Value{}, err
		}
		m = m.Set(kind.Key(), steps)
	case StepInParallel:
		if m, err = e.resolveInParallel(m, basePath, planPath); err != nil {
			return value.Value{}, err
		}
	case StepTry:
		inner, _ := m.Get(kind.Key())
		resolved, err := e.ResolveStep(inner, basePath, planPath)
		if err != nil {
			return value.Value{}, failure.Wrap(err, "whilst processing try step,")
		}
		m = m.Set(kind.Key(), resolved)
	}

	for _, hook := range stepHooks {
		inner, ok := m.Get(hook)
		if !ok {
			continue
		}
		resolved, err := e.ResolveStep(inner, basePath, planPath)
		if err != nil {
			return value.Value{}, failure.Wrap(err, "whilst processing %s hook,", hook)
		}
		m = m.Set(hook, resolved)
	}

	return value.Map(m), nil
}

// in_parallel 既可以直接是步骤列表，也可以是 {steps: [...], limit, fail_fast}。
func (e *Engine) resolveInParallel(m value.Mapping, basePath, planPath string) (value.Mapping, error) {
	inner, _ := m.Get("in_parallel")
	if cfg, ok := inner.AsMapping(); ok {
		steps, _ := cfg.Get("steps")
		resolved, err := e.resolveSteps(steps, basePath, planPath)
		if err != nil {
			return value.Mapping{}, err
		}

		return m.Set("in_parallel", value.Map(cfg.Set("steps", resolved))), nil
	}

	resolved, err := e.resolveSteps(inner, basePath, planPath)
	if err != nil {
		return value.Mapping{}, err
	}

	return m.Set("in_parallel", resolved), nil
}

func (e *Engine) resolveSteps(steps value.Value, basePath, planPath string) (value.Value, error) {
	items, ok := steps.AsSequence()
	if !ok {
		return value.Value{}, failure.New("job steps definition is not an array")
	}

	out := make([]value.Value, 0, len(items))
	for _, item := range items {
		resolved, err := e.ResolveStep(item, basePath, planPath)
		if err != nil {
			return value.Value{}, err
		}
		out = append(out, resolved)
	}

	return value.Sequence(out...), nil
}

// ResolvePlan 返回 job 展开后的计划。
//
// job 定义了 plan 时直接展开其中的步骤；否则加载 template 指向的步骤列表
// （相对于 basePath，使用 job 的 arguments 替换），其中的相对路径再相对于该模板解析。
func (e *Engine) ResolvePlan(job value.Mapping, basePath string) (value.Value, error) {
	if plan, ok := job.Get("plan"); ok {
		return e.resolveSteps(plan, basePath, "")
	}

	if !job.Has("template") {
		return value.Value{}, failure.New("job does not define a job plan or template")
	}
	templatePath, err := stringField(job, "template", "job")
	if err != nil {
		return value.Value{}, err
	}
	args, err := arguments(job)
	if err != nil {
		return value.Value{}, err
	}

	path := lineage.Resolve(templatePath, basePath)
	slog.Debug("Expanding job template", "template", path)

	doc, err := e.Load(path, args)
	if err != nil {
		return value.Value{}, err
	}

	// 模板既可以是步骤列表，也可以是带 plan 的映射
	steps := doc
	if m, ok := doc.AsMapping(); ok && m.Has("plan") {
		steps, _ = m.Get("plan")
	}

	return e.resolveSteps(steps, basePath, templatePath)
}
