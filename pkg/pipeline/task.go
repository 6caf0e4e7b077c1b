package pipeline

import (
	"log/slog"

	"github.com/finbourne/uav/pkg/failure"
	"github.com/finbourne/uav/pkg/lineage"
	"github.com/finbourne/uav/pkg/value"
)

// ResolveTaskConfig 把任务配置规范化为包含 run 的形式。
//
// 已有 run 的配置只去掉 template、arguments、interpreter；
// 否则读取 template 指向的脚本（相对于 basePath、planPath、taskPath 组成的包含链），
// 用 arguments 展开后生成 run: {path: <interpreter>, args: ["-c", <script>]}，
// 其余键原样保留。
func (e *Engine) ResolveTaskConfig(config value.Mapping, basePath, planPath, taskPath string) (value.Mapping, error) {
	if config.Has("run") {
		return config.Without("template", "arguments", "interpreter"), nil
	}

	if !config.Has("template") {
		return value.Mapping{}, failure.New("task configuration contains no run command or template")
	}
	scriptPath, err := stringField(config, "template", "task configuration")
	if err != nil {
		return value.Mapping{}, err
	}

	interpreter := e.interpreter
	if config.Has("interpreter") {
		if interpreter, err = stringField(config, "interpreter", "task configuration"); err != nil {
			return value.Mapping{}, err
		}
	}

	args, err := arguments(config)
	if err != nil {
		return value.Mapping{}, err
	}

	script, err := e.ReadTemplate(lineage.Resolve(scriptPath, basePath, planPath, taskPath), args)
	if err != nil {
		return value.Mapping{}, err
	}

	run := value.NewMapping(
		value.Pair{Key: "path", Value: value.String(interpreter)},
		value.Pair{Key: "args", Value: value.Strings("-c", script)},
	)

	return config.Splice("run", value.Map(run), "template", "arguments", "interpreter"), nil
}

// ResolveTask 展开 task 步骤中的 template。
//
// 已有 config 或 file 的任务原样返回。否则加载 template 指向的任务配置文档
// （相对于 basePath、planPath），经 [Engine.ResolveTaskConfig] 处理后作为 config 放回，
// 同时去掉 template 与 arguments。
func (e *Engine) ResolveTask(task value.Mapping, basePath, planPath string) (value.Mapping, error) {
	if task.Has("config") || task.Has("file") {
		return task, nil
	}

	resolved, err := e.resolveTaskTemplate(task, basePath, planPath)
	if err != nil {
		return value.Mapping{}, failure.Wrap(err, "whilst processing task '%s',", taskName(task))
	}

	return resolved, nil
}

func (e *Engine) resolveTaskTemplate(task value.Mapping, basePath, planPath string) (value.Mapping, error) {
	if !task.Has("template") {
		return value.Mapping{}, failure.New("task defines no config, file or template")
	}
	templatePath, err := stringField(task, "template", "task")
	if err != nil {
		return value.Mapping{}, err
	}
	args, err := arguments(task)
	if err != nil {
		return value.Mapping{}, err
	}

	path := lineage.Resolve(templatePath, basePath, planPath)
	slog.Debug("Expanding task template", "task", taskName(task), "template", path)

	doc, err := e.Load(path, args)
	if err != nil {
		return value.Mapping{}, err
	}
	config, ok := doc.AsMapping()
	if !ok {
		return value.Mapping{}, failure.New("task template '%s' is not a mapping (got %s)", path, doc.Kind())
	}

	config, err = e.ResolveTaskConfig(config, basePath, planPath, templatePath)
	if err != nil {
		return value.Mapping{}, err
	}

	return task.Splice("config", value.Map(config), "template", "arguments"), nil
}

func taskName(task value.Mapping) string {
	v, _ := task.Get("task")
	if s, ok := v.Scalar(); ok {
		return s
	}

	return v.Kind().String()
}
