// Package tmpl 提供流水线模板的文本替换。
//
// 只支持字面量占位符 {{key}}：没有表达式、函数或管道，
// 也不会在本阶段报告未解析的占位符（由输出校验负责）。
//
// # 替换规则
//
//  1. 按键名排序逐个应用替换
//  2. 每个键对整段文本从左到右做一次不重叠的替换，替换结果不会被同一个键再次扫描
//  3. 前一个键替换进来的文本仍会被后面的键处理
//
// 详见 [Expand] 文档。
package tmpl
