package value

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"

	yamlv3 "go.yaml.in/yaml/v3"
)

const (
	tagInt    = "!!int"
	tagFloat  = "!!float"
	tagDouble = "!!double"
	tagBool   = "!!bool"
	tagNull   = "!!null"
	tagStr    = "!!str"
	tagMerge  = "!!merge"
)

// FromNode 把 YAML 节点树转换为 [Value]。
//
// 标量转换优先级：
//  1. 显式类型标签（!!int、!!float/!!double、!!bool、!!null）
//  2. 未加引号的 null、~ 或空值为 Null
//  3. 字面量 "true"/"false"（区分大小写）转为布尔
//  4. 其余保持源文本字符串，包括 1.10、010 这类看起来像数字的值
//
// 映射中键或值转换失败的条目会被丢弃并记录 warn 日志，转换继续进行。
// nil 节点和空文档得到空映射。
func FromNode(n *yamlv3.Node) (Value, error) {
	if n == nil {
		return Map(Mapping{}), nil
	}

	switch n.Kind {
	case yamlv3.DocumentNode:
		if len(n.Content) == 0 {
			return Map(Mapping{}), nil
		}

		return FromNode(n.Content[0])
	case yamlv3.AliasNode:
		return FromNode(n.Alias)
	case yamlv3.ScalarNode:
		return fromScalar(n)
	case yamlv3.SequenceNode:
		return fromSequence(n)
	case yamlv3.MappingNode:
		return fromMapping(n)
	default:
		return Map(Mapping{}), nil
	}
}

func fromScalar(n *yamlv3.Node) (Value, error) {
	// 只有显式标签才决定类型，未标注的 1.10、010、0x1F 保持原文
	if n.Style&yamlv3.TaggedStyle != 0 {
		switch n.ShortTag() {
		case tagInt:
			var i int64
			if err := n.Decode(&i); err != nil {
				return Value{}, fmt.Errorf("line %d: %w", n.Line, err)
			}

			return Int(i), nil
		case tagFloat:
			var f float64
			if err := n.Decode(&f); err != nil {
				return Value{}, fmt.Errorf("line %d: %w", n.Line, err)
			}

			return Float(f), nil
		case tagDouble:
			f, err := strconv.ParseFloat(n.Value, 64)
			if err != nil {
				return Value{}, fmt.Errorf("line %d: %w", n.Line, err)
			}

			return Float(f), nil
		case tagBool:
			var b bool
			if err := n.Decode(&b); err != nil {
				return Value{}, fmt.Errorf("line %d: %w", n.Line, err)
			}

			return Bool(b), nil
		case tagNull:
			return Null(), nil
		}
	} else if isPlain(n) && n.ShortTag() == tagNull {
		// 未加引号的 null、~ 和空值
		return Null(), nil
	}

	switch n.Value {
	case "true":
		return Bool(true), nil
	case "false":
		return Bool(false), nil
	}

	return String(n.Value), nil
}

func isPlain(n *yamlv3.Node) bool {
	const quoted = yamlv3.SingleQuotedStyle | yamlv3.DoubleQuotedStyle | yamlv3.LiteralStyle | yamlv3.FoldedStyle

	return n.Style&quoted == 0
}

func fromSequence(n *yamlv3.Node) (Value, error) {
	items := make([]Value, 0, len(n.Content))
	for _, c := range n.Content {
		v, err := FromNode(c)
		if err != nil {
			return Value{}, err
		}
		items = append(items, v)
	}

	return Value{kind: KindSequence, seq: items}, nil
}

func fromMapping(n *yamlv3.Node) (Value, error) {
	var m Mapping
	var merges []*yamlv3.Node

	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if k.Kind == yamlv3.ScalarNode && k.ShortTag() == tagMerge {
			merges = append(merges, v)
			continue
		}

		key, err := mappingKey(k)
		if err != nil {
			slog.Warn("Dropping mapping entry", "line", k.Line, "error", err)
			continue
		}
		val, err := FromNode(v)
		if err != nil {
			slog.Warn("Dropping mapping entry", "key", key, "error", err)
			continue
		}
		m = m.Set(key, val)
	}

	for _, src := range mergeSources(merges) {
		v, err := FromNode(src)
		if err != nil {
			slog.Warn("Dropping merge key", "line", src.Line, "error", err)
			continue
		}
		sm, ok := v.AsMapping()
		if !ok {
			slog.Warn("Dropping merge key", "line", src.Line, "error", "merge source is not a mapping")
			continue
		}
		for _, p := range sm.pairs {
			if !m.Has(p.Key) {
				m = m.Set(p.Key, p.Value)
			}
		}
	}

	return Map(m), nil
}

// mergeSources 展开 << 的值：单个映射、别名或它们组成的序列。
func mergeSources(merges []*yamlv3.Node) []*yamlv3.Node {
	var out []*yamlv3.Node
	for _, n := range merges {
		if n.Kind == yamlv3.SequenceNode {
			out = append(out, n.Content...)
			continue
		}
		out = append(out, n)
	}

	return out
}

func mappingKey(k *yamlv3.Node) (string, error) {
	for k.Kind == yamlv3.AliasNode && k.Alias != nil {
		k = k.Alias
	}
	if k.Kind != yamlv3.ScalarNode {
		return "", fmt.Errorf("line %d: mapping key is not a scalar", k.Line)
	}

	return k.Value, nil
}

// MarshalYAML 实现 yaml.Marshaler，保留映射键顺序。
func (v Value) MarshalYAML() (any, error) {
	return v.toNode(), nil
}

func (v Value) toNode() *yamlv3.Node {
	switch v.kind {
	case KindBool:
		return &yamlv3.Node{Kind: yamlv3.ScalarNode, Tag: tagBool, Value: strconv.FormatBool(v.b)}
	case KindInt:
		return &yamlv3.Node{Kind: yamlv3.ScalarNode, Tag: tagInt, Value: strconv.FormatInt(v.i, 10)}
	case KindFloat:
		return &yamlv3.Node{Kind: yamlv3.ScalarNode, Tag: tagFloat, Value: yamlFloat(v.f)}
	case KindString:
		return &yamlv3.Node{Kind: yamlv3.ScalarNode, Tag: tagStr, Value: v.s}
	case KindSequence:
		node := &yamlv3.Node{Kind: yamlv3.SequenceNode}
		if len(v.seq) == 0 {
			node.Style = yamlv3.FlowStyle // []
		}
		for _, item := range v.seq {
			node.Content = append(node.Content, item.toNode())
		}

		return node
	case KindMapping:
		node := &yamlv3.Node{Kind: yamlv3.MappingNode}
		if v.m.Len() == 0 {
			node.Style = yamlv3.FlowStyle // {}
		}
		for _, p := range v.m.pairs {
			node.Content = append(node.Content,
				&yamlv3.Node{Kind: yamlv3.ScalarNode, Tag: tagStr, Value: p.Key},
				p.Value.toNode(),
			)
		}

		return node
	default:
		return &yamlv3.Node{Kind: yamlv3.ScalarNode, Tag: tagNull, Value: "null"}
	}
}

func yamlFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	case math.IsNaN(f):
		return ".nan"
	}

	return strconv.FormatFloat(f, 'g', -1, 64)
}
