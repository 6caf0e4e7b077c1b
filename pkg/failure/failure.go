// Package failure 提供带上下文链的错误类型。
//
// 每次 [Wrap] 都在最前面追加一行上下文，渲染时外层在上、根因在下：
//
//	whilst processing pipeline 'main.yml',
//	whilst joining plan in job 'build',
//	task configuration contains no run command or template
package failure

import (
	"fmt"
	"strings"
)

const indent = "  "

// Error 是携带有序上下文的错误。
type Error struct {
	context []string // 外层在前
	cause   error
}

// New 创建只有一行描述的错误。
func New(format string, args ...any) error {
	return &Error{context: []string{fmt.Sprintf(format, args...)}}
}

// Wrap 在 err 之上追加一行上下文。err 为 nil 时返回 nil。
func Wrap(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}

	line := fmt.Sprintf(format, args...)
	if inner, ok := err.(*Error); ok {
		context := make([]string, 0, len(inner.context)+1)
		context = append(context, line)
		context = append(context, inner.context...)

		return &Error{context: context, cause: inner.cause}
	}

	return &Error{context: []string{line}, cause: err}
}

// Error 按外层到内层的顺序逐行渲染。
func (e *Error) Error() string {
	lines := make([]string, 0, len(e.context)+1)
	for _, c := range e.context {
		lines = append(lines, indent+c)
	}
	if e.cause != nil {
		lines = append(lines, indent+e.cause.Error())
	}

	return strings.Join(lines, "\n")
}

// Unwrap 返回底层的非 failure 错误（例如 *fs.PathError）。
func (e *Error) Unwrap() error { return e.cause }

// Context 返回上下文行的副本，外层在前。
func (e *Error) Context() []string {
	out := make([]string, len(e.context))
	copy(out, e.context)

	return out
}
