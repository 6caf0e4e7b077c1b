package pipeline

import "os"

// DefaultInterpreter 模板化任务配置未指定 interpreter 时使用的解释器。
const DefaultInterpreter = "/bin/bash"

// Engine 执行文档加载、模板展开与合并。零值不可用，请使用 [New]。
type Engine struct {
	readFile    func(path string) ([]byte, error)
	interpreter string
}

// Option 配置 [Engine]
type Option func(*Engine)

// WithReadFile 替换文件读取函数，默认 os.ReadFile。
func WithReadFile(fn func(path string) ([]byte, error)) Option {
	return func(e *Engine) {
		if fn != nil {
			e.readFile = fn
		}
	}
}

// WithInterpreter 设置默认解释器，空字符串表示保持 [DefaultInterpreter]。
func WithInterpreter(path string) Option {
	return func(e *Engine) {
		if path != "" {
			e.interpreter = path
		}
	}
}

// New 创建 Engine。
func New(opts ...Option) *Engine {
	e := &Engine{
		readFile:    os.ReadFile,
		interpreter: DefaultInterpreter,
	}
	for _, opt := range opts {
		opt(e)
	}

	return e
}
