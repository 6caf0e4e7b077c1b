// Package value 提供流水线文档的规范值模型。
//
// [Value] 是 Null、Bool、Int、Float、String、Sequence、Mapping 的标签联合，
// [Mapping] 保留插入顺序。所有值构造后不可变，修改操作总是返回新值。
//
// 解析得到的 YAML 节点通过 [FromNode] 转换，渲染通过 [Encode]（json 或 yaml）。
package value
