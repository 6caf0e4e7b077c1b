package pipeline

import (
	"strings"

	"github.com/finbourne/uav/pkg/failure"
	"github.com/finbourne/uav/pkg/tmpl"
	"github.com/finbourne/uav/pkg/value"
)

// Validate 检查渲染后的输出中是否残留未解析的占位符。
//
// 只检查第一个 "{{"：其后存在 "}}" 时报错并给出其间的变量名；
// 没有闭合的 "}}" 时视为正常文本。
func Validate(output string) error {
	begin := strings.Index(output, "{{")
	if begin < 0 {
		return nil
	}

	end := strings.Index(output[begin:], "}}")
	if end < 0 {
		return nil
	}

	return failure.New("Unresolved variable in pipeline definition: '%s'", output[begin+2:begin+end])
}

// Render 生成、渲染并校验合并后的流水线。
func (e *Engine) Render(paths []string, subs tmpl.Substitutions, format value.Format) ([]byte, error) {
	doc, err := e.Generate(paths, subs)
	if err != nil {
		return nil, err
	}

	out, err := value.Encode(doc, format)
	if err != nil {
		return nil, failure.Wrap(err, "could not render pipeline as %s,", format)
	}

	if err := Validate(string(out)); err != nil {
		return nil, err
	}

	return out, nil
}
