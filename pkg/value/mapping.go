package value

import "fmt"

// Pair 映射中的一个键值对
type Pair struct {
	Key   string
	Value Value
}

// Mapping 保留插入顺序、键唯一的映射。零值为空映射。
type Mapping struct {
	pairs []Pair
}

// NewMapping 按顺序构造映射，重复的键保留最后一次的值（位置取第一次出现处）。
func NewMapping(pairs ...Pair) Mapping {
	var m Mapping
	for _, p := range pairs {
		m = m.Set(p.Key, p.Value)
	}

	return m
}

// Len 返回条目数。
func (m Mapping) Len() int { return len(m.pairs) }

func (m Mapping) index(key string) int {
	for i, p := range m.pairs {
		if p.Key == key {
			return i
		}
	}

	return -1
}

// Get 返回 key 对应的值。
func (m Mapping) Get(key string) (Value, bool) {
	if i := m.index(key); i >= 0 {
		return m.pairs[i].Value, true
	}

	return Value{}, false
}

// Has 报告是否包含 key。
func (m Mapping) Has(key string) bool { return m.index(key) >= 0 }

// Keys 按插入顺序返回所有键。
func (m Mapping) Keys() []string {
	keys := make([]string, len(m.pairs))
	for i, p := range m.pairs {
		keys[i] = p.Key
	}

	return keys
}

// Pairs 返回键值对的副本。
func (m Mapping) Pairs() []Pair {
	out := make([]Pair, len(m.pairs))
	copy(out, m.pairs)

	return out
}

// Set 返回设置了 key 的新映射；已存在的键原位替换，否则追加到末尾。
func (m Mapping) Set(key string, v Value) Mapping {
	out := make([]Pair, len(m.pairs), len(m.pairs)+1)
	copy(out, m.pairs)
	if i := m.index(key); i >= 0 {
		out[i].Value = v
	} else {
		out = append(out, Pair{Key: key, Value: v})
	}

	return Mapping{pairs: out}
}

// Without 返回去掉指定键的新映射。
func (m Mapping) Without(keys ...string) Mapping {
	drop := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		drop[k] = struct{}{}
	}

	out := make([]Pair, 0, len(m.pairs))
	for _, p := range m.pairs {
		if _, ok := drop[p.Key]; !ok {
			out = append(out, p)
		}
	}

	return Mapping{pairs: out}
}

// Splice 用 key: v 替换 key 以及 drop 中的键。
//
// 新条目放在这些键中第一个出现的位置；都不存在时追加到末尾。其余键保持原有顺序。
func (m Mapping) Splice(key string, v Value, drop ...string) Mapping {
	replaced := make(map[string]struct{}, len(drop)+1)
	replaced[key] = struct{}{}
	for _, k := range drop {
		replaced[k] = struct{}{}
	}

	out := make([]Pair, 0, len(m.pairs)+1)
	placed := false
	for _, p := range m.pairs {
		if _, ok := replaced[p.Key]; !ok {
			out = append(out, p)
			continue
		}
		if !placed {
			out = append(out, Pair{Key: key, Value: v})
			placed = true
		}
	}
	if !placed {
		out = append(out, Pair{Key: key, Value: v})
	}

	return Mapping{pairs: out}
}

// Equal 比较键、值与顺序。
func (m Mapping) Equal(o Mapping) bool {
	if len(m.pairs) != len(o.pairs) {
		return false
	}
	for i := range m.pairs {
		if m.pairs[i].Key != o.pairs[i].Key || !m.pairs[i].Value.Equal(o.pairs[i].Value) {
			return false
		}
	}

	return true
}

// StringMap 把标量值映射转换为 map[string]string，用作模板替换参数。
func (m Mapping) StringMap() (map[string]string, error) {
	out := make(map[string]string, len(m.pairs))
	for _, p := range m.pairs {
		s, ok := p.Value.Scalar()
		if !ok {
			return nil, fmt.Errorf("value of '%s' is a %s, expected a scalar", p.Key, p.Value.Kind())
		}
		out[p.Key] = s
	}

	return out, nil
}
