package value

import (
	"fmt"
	"strconv"
)

// Kind 值的类型标签
type Kind uint8

// 值的类型，零值 KindNull。
const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindSequence
	KindMapping
)

// String 返回类型名，用于错误信息（"got sequence"）。
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value 动态类型的规范值。零值为 Null。
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	seq  []Value
	m    Mapping
}

// Null 返回空值。
func Null() Value { return Value{} }

// Bool 构造布尔值。
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int 构造整数。
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float 构造浮点数。
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// String 构造字符串。
func String(s string) Value { return Value{kind: KindString, s: s} }

// Map 把映射包装为值。
func Map(m Mapping) Value { return Value{kind: KindMapping, m: m} }

// Strings 构造字符串序列。
func Strings(ss ...string) Value {
	items := make([]Value, len(ss))
	for i, s := range ss {
		items[i] = String(s)
	}

	return Value{kind: KindSequence, seq: items}
}

// Sequence 构造序列，复制传入的切片。
func Sequence(items ...Value) Value {
	seq := make([]Value, len(items))
	copy(seq, items)

	return Value{kind: KindSequence, seq: seq}
}

// Kind 返回值的类型。
func (v Value) Kind() Kind { return v.kind }

// IsNull 报告是否为空值。
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsMapping 报告是否为映射。
func (v Value) IsMapping() bool { return v.kind == KindMapping }

// AsBool 返回布尔值，类型不符时第二个返回值为 false。As* 系列均遵循此约定。
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsInt 返回整数。
func (v Value) AsInt() (int64, bool) { return v.i, v.kind == KindInt }

// AsFloat 返回浮点数。
func (v Value) AsFloat() (float64, bool) { return v.f, v.kind == KindFloat }

// AsString 返回字符串；其他标量不做转换，需要文本形式时使用 [Value.Scalar]。
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// AsMapping 返回映射。
func (v Value) AsMapping() (Mapping, bool) { return v.m, v.kind == KindMapping }

// AsSequence 返回序列元素的副本。
func (v Value) AsSequence() ([]Value, bool) {
	if v.kind != KindSequence {
		return nil, false
	}
	out := make([]Value, len(v.seq))
	copy(out, v.seq)

	return out, true
}

// Scalar 返回标量的文本形式，非标量返回 false。
func (v Value) Scalar() (string, bool) {
	switch v.kind {
	case KindNull:
		return "", true
	case KindBool:
		return strconv.FormatBool(v.b), true
	case KindInt:
		return strconv.FormatInt(v.i, 10), true
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64), true
	case KindString:
		return v.s, true
	default:
		return "", false
	}
}

// Equal 深度比较，Mapping 的键顺序参与比较。
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}

	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindInt:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f
	case KindString:
		return v.s == o.s
	case KindSequence:
		if len(v.seq) != len(o.seq) {
			return false
		}
		for i := range v.seq {
			if !v.seq[i].Equal(o.seq[i]) {
				return false
			}
		}

		return true
	case KindMapping:
		return v.m.Equal(o.m)
	}

	return false
}

// String 以 YAML 形式输出，用于错误信息中的值转储。
func (v Value) String() string {
	out, err := Encode(v, FormatYAML)
	if err != nil {
		return fmt.Sprintf("<%s: %v>", v.kind, err)
	}

	return string(out)
}
