// Package lineage 计算模板引用的相对路径。
//
// 模板中的相对路径相对于包含它的文档所在目录解析，并且沿包含链逐级传递：
// 从 a/x.yml 包含 b/y.yml，再在其中引用 c/z.sh，最终得到 a/b/c/z.sh。
//
// 路径只做字符串拼接，不做清理（".." 原样保留），也不访问文件系统。
package lineage

import "strings"

// Directory 返回 path 中最后一个 / 及其之前的部分；没有 / 时返回空字符串。
func Directory(path string) string {
	i := strings.LastIndex(path, "/")
	if i < 0 {
		return ""
	}

	return path[:i+1]
}

// Resolve 把 path 解析为相对于包含链 lineage 的路径。
//
// lineage 按包含顺序排列：最外层文档在前，最近包含的模板在后。
// 从最内层开始，逐个把各条目的目录（为空则跳过）加到结果前面。
func Resolve(path string, lineage ...string) string {
	result := path
	for i := len(lineage) - 1; i >= 0; i-- {
		dir := Directory(lineage[i])
		if dir == "" {
			continue
		}
		result = dir + result
	}

	return result
}
