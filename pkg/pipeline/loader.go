package pipeline

import (
	"github.com/finbourne/uav/pkg/failure"
	"github.com/finbourne/uav/pkg/tmpl"
	"github.com/finbourne/uav/pkg/value"
)

// ReadTemplate 读取文件并应用替换。
func (e *Engine) ReadTemplate(path string, subs tmpl.Substitutions) (string, error) {
	data, err := e.readFile(path)
	if err != nil {
		return "", failure.Wrap(err, "could not open file '%s' for templating.", path)
	}

	return tmpl.Expand(string(data), subs), nil
}

// Load 读取文档，应用替换后解析为值。
func (e *Engine) Load(path string, subs tmpl.Substitutions) (value.Value, error) {
	text, err := e.ReadTemplate(path, subs)
	if err != nil {
		return value.Value{}, failure.Wrap(err, "whilst processing pipeline '%s',", path)
	}

	v, err := value.Decode([]byte(text))
	if err != nil {
		return value.Value{}, failure.Wrap(err, "whilst processing pipeline '%s',", path)
	}

	return v, nil
}

// stringField 读取必需的字符串字段。
func stringField(m value.Mapping, key, owner string) (string, error) {
	v, ok := m.Get(key)
	if !ok {
		return "", failure.New("%s has no %s", owner, key)
	}
	s, ok := v.AsString()
	if !ok {
		return "", failure.New("%s %s is not a string (got %s)", owner, key, v.Kind())
	}

	return s, nil
}

// arguments 读取可选的 arguments 映射，缺省或为 null 时返回空替换。
func arguments(m value.Mapping) (tmpl.Substitutions, error) {
	v, ok := m.Get("arguments")
	if !ok || v.IsNull() {
		return tmpl.Substitutions{}, nil
	}

	args, ok := v.AsMapping()
	if !ok {
		return nil, failure.New("arguments is not a mapping (got %s)", v.Kind())
	}
	subs, err := args.StringMap()
	if err != nil {
		return nil, failure.Wrap(err, "invalid arguments,")
	}

	return subs, nil
}
