package pipeline

import (
	"log/slog"

	"github.com/finbourne/uav/pkg/failure"
	"github.com/finbourne/uav/pkg/tmpl"
	"github.com/finbourne/uav/pkg/value"
)

// Pipeline 合并过程中累积的实体集合。
type Pipeline struct {
	Groups        Collection
	Jobs          Collection
	Resources     Collection
	ResourceTypes Collection
}

// NewPipeline 返回空的合并结果。
func NewPipeline() Pipeline {
	return Pipeline{
		Groups:        NewCollection("group"),
		Jobs:          NewCollection("job"),
		Resources:     NewCollection("resource"),
		ResourceTypes: NewCollection("resource_type"),
	}
}

// Document 组装输出文档，各列表按首次出现的顺序排列。
func (p Pipeline) Document() value.Value {
	return value.Map(value.NewMapping(
		value.Pair{Key: "groups", Value: value.Sequence(p.Groups.Values()...)},
		value.Pair{Key: "jobs", Value: value.Sequence(p.Jobs.Values()...)},
		value.Pair{Key: "resources", Value: value.Sequence(p.Resources.Values()...)},
		value.Pair{Key: "resource_types", Value: value.Sequence(p.ResourceTypes.Values()...)},
	))
}

// Merge 把一个文档并入 p，返回新的 Pipeline；p 本身不变。
// path 是文档路径，job 模板相对于它解析。
func (e *Engine) Merge(p Pipeline, doc value.Value, path string) (Pipeline, error) {
	m, ok := doc.AsMapping()
	if !ok {
		return p, failure.New("pipeline definition is not a mapping (got %s)", doc.Kind())
	}

	groups, err := joinGroups(p.Groups, m)
	if err != nil {
		return p, err
	}
	jobs, err := e.joinJobs(p.Jobs, m, path)
	if err != nil {
		return p, err
	}
	resources, err := joinFirstWins(p.Resources, m, "resources")
	if err != nil {
		return p, err
	}
	resourceTypes, err := joinFirstWins(p.ResourceTypes, m, "resource_types")
	if err != nil {
		return p, err
	}

	return Pipeline{
		Groups:        groups,
		Jobs:          jobs,
		Resources:     resources,
		ResourceTypes: resourceTypes,
	}, nil
}

// Generate 按顺序加载并合并 paths 中的文档，返回组装好的输出文档。
// subs 应用于每个输入文档的文本。
func (e *Engine) Generate(paths []string, subs tmpl.Substitutions) (value.Value, error) {
	p := NewPipeline()
	for _, path := range paths {
		slog.Debug("Merging pipeline", "path", path)

		doc, err := e.Load(path, subs)
		if err != nil {
			return value.Value{}, err
		}
		if p, err = e.Merge(p, doc, path); err != nil {
			return value.Value{}, failure.Wrap(err, "whilst processing pipeline '%s',", path)
		}
	}

	slog.Debug("Pipelines merged",
		"groups", p.Groups.Len(),
		"jobs", p.Jobs.Len(),
		"resources", p.Resources.Len(),
		"resource_types", p.ResourceTypes.Len(),
	)

	return p.Document(), nil
}

// section 返回文档中的列表段落；缺省或为 null 时返回 false。
func section(doc value.Mapping, key, notArray string) ([]value.Value, bool, error) {
	v, ok := doc.Get(key)
	if !ok || v.IsNull() {
		return nil, false, nil
	}
	items, ok := v.AsSequence()
	if !ok {
		return nil, false, failure.New("%s", notArray)
	}

	return items, true, nil
}

// entity 校验实体为映射并取出 name。
func entity(v value.Value, kind string) (value.Mapping, string, error) {
	m, ok := v.AsMapping()
	if !ok {
		return value.Mapping{}, "", failure.New("%s definition is not a mapping (got %s)", kind, v.Kind())
	}
	if !m.Has("name") {
		return value.Mapping{}, "", failure.New("%s has no name", kind)
	}
	name, err := stringField(m, "name", kind)
	if err != nil {
		return value.Mapping{}, "", err
	}

	return m, name, nil
}

func joinGroups(groups Collection, doc value.Mapping) (Collection, error) {
	items, ok, err := section(doc, "groups", "group definitions is not an array")
	if !ok || err != nil {
		return groups, err
	}

	for _, item := range items {
		group, name, err := entity(item, "group")
		if err != nil {
			return groups, err
		}

		jobs, _ := group.Get("jobs")
		switch jobs.Kind() {
		case value.KindNull:
			return groups, failure.New("group with name '%s' contains no jobs", name)
		case value.KindSequence:
			if list, _ := jobs.AsSequence(); len(list) == 0 {
				return groups, failure.New("group with name '%s' contains no jobs", name)
			}
		default:
			return groups, failure.New("jobs of group '%s' is not an array", name)
		}

		if groups, err = groups.Insert(name, value.Map(group)); err != nil {
			return groups, err
		}
	}

	return groups, nil
}

func (e *Engine) joinJobs(jobs Collection, doc value.Mapping, path string) (Collection, error) {
	items, ok, err := section(doc, "jobs", "jobs section is not an array")
	if !ok || err != nil {
		return jobs, err
	}

	for _, item := range items {
		job, name, err := entity(item, "job")
		if err != nil {
			return jobs, err
		}
		if jobs.Has(name) {
			return jobs, failure.New("job with name '%s' already defined", name)
		}

		slog.Debug("Resolving job", "job", name, "path", path)
		plan, err := e.ResolvePlan(job, path)
		if err != nil {
			return jobs, failure.Wrap(err, "whilst joining plan in job '%s',", name)
		}

		resolved := job.Splice("plan", plan, "template", "arguments")
		if jobs, err = jobs.Insert(name, value.Map(resolved)); err != nil {
			return jobs, err
		}
	}

	return jobs, nil
}

// joinFirstWins 合并 resources / resource_types：同名实体保留第一次的定义。
func joinFirstWins(c Collection, doc value.Mapping, key string) (Collection, error) {
	items, ok, err := section(doc, key, key+" is not an array")
	if !ok || err != nil {
		return c, err
	}

	for _, item := range items {
		m, name, err := entity(item, c.Kind())
		if err != nil {
			return c, err
		}

		var added bool
		if c, added = c.Keep(name, value.Map(m)); !added {
			slog.Debug("Ignoring duplicate definition", "kind", c.Kind(), "name", name)
		}
	}

	return c, nil
}
