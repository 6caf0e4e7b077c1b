package tmpl

import (
	"errors"
	"sort"
	"strings"
)

// ═══════════════════════════════════════════════════════════════════════════
// 替换参数
// ═══════════════════════════════════════════════════════════════════════════

// Substitutions 占位符名称到替换文本的映射。
type Substitutions map[string]string

// Merge 返回合并后的新映射，后面的参数覆盖前面的同名键。
func Merge(layers ...Substitutions) Substitutions {
	out := make(Substitutions)
	for _, layer := range layers {
		for k, v := range layer {
			out[k] = v
		}
	}

	return out
}

// Keys 返回排序后的键，也就是 [Expand] 的应用顺序。
func (s Substitutions) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}

// ErrMalformedSubstitution 替换定义格式错误
var ErrMalformedSubstitution = errors.New("malformed substitution definition")

// ParseSubstitution 解析命令行上的 key=value 定义。
//
//   - "a=b"  → ("a", "b")
//   - "a= b" → ("a", " b")
//   - "a="   → ("a", "")
//   - "=b"、"asd"、"" → ErrMalformedSubstitution
//
// 第一个 = 之后的全部内容都属于值。
func ParseSubstitution(def string) (string, string, error) {
	key, val, ok := strings.Cut(def, "=")
	if !ok || key == "" {
		return "", "", ErrMalformedSubstitution
	}

	return key, val, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// 文本替换
// ═══════════════════════════════════════════════════════════════════════════

// Placeholder 返回 key 对应的占位符文本 {{key}}。
func Placeholder(key string) string {
	return "{{" + key + "}}"
}

// Replace 把 text 中所有不重叠的 pattern 替换为 value，从左到右单次扫描。
// pattern 为空时原样返回。
func Replace(text, pattern, value string) string {
	if pattern == "" {
		return text
	}

	return strings.ReplaceAll(text, pattern, value)
}

// Expand 对 text 应用所有替换。
//
// 使用方式：
//   - Expand("echo {{env}}", Substitutions{"env": "ci"}) → "echo ci"
//   - 未出现在 subs 中的 {{name}} 原样保留
func Expand(text string, subs Substitutions) string {
	for _, key := range subs.Keys() {
		text = Replace(text, Placeholder(key), subs[key])
	}

	return text
}
