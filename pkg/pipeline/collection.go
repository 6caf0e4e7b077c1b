package pipeline

import (
	"github.com/finbourne/uav/pkg/failure"
	"github.com/finbourne/uav/pkg/value"
)

// Collection 按名称索引、保留插入顺序的实体集合。
//
// 集合不可变：[Collection.Insert] 和 [Collection.Keep] 都返回新集合。
type Collection struct {
	kind  string
	names []string
	items map[string]value.Value
}

// NewCollection 创建空集合，kind 用于错误信息（group、job ...）。
func NewCollection(kind string) Collection {
	return Collection{kind: kind, items: map[string]value.Value{}}
}

// Kind 返回实体类型名。
func (c Collection) Kind() string { return c.kind }

// Len 返回实体数量。
func (c Collection) Len() int { return len(c.names) }

// Has 报告是否已有该名称。
func (c Collection) Has(name string) bool {
	_, ok := c.items[name]
	return ok
}

// Get 按名称返回实体。
func (c Collection) Get(name string) (value.Value, bool) {
	v, ok := c.items[name]
	return v, ok
}

// Names 按插入顺序返回名称。
func (c Collection) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)

	return out
}

// Values 按插入顺序返回实体。
func (c Collection) Values() []value.Value {
	out := make([]value.Value, len(c.names))
	for i, name := range c.names {
		out[i] = c.items[name]
	}

	return out
}

// Insert 添加实体，名称已存在时报错。
func (c Collection) Insert(name string, v value.Value) (Collection, error) {
	if c.Has(name) {
		return c, failure.New("%s with name '%s' already defined", c.kind, name)
	}
	out := c.clone()
	out.put(name, v)

	return out, nil
}

// Keep 添加实体，名称已存在时忽略新实体并返回 false。
func (c Collection) Keep(name string, v value.Value) (Collection, bool) {
	if c.Has(name) {
		return c, false
	}
	out := c.clone()
	out.put(name, v)

	return out, true
}

func (c Collection) clone() Collection {
	out := Collection{
		kind:  c.kind,
		names: make([]string, len(c.names), len(c.names)+1),
		items: make(map[string]value.Value, len(c.items)+1),
	}
	copy(out.names, c.names)
	for k, v := range c.items {
		out.items[k] = v
	}

	return out
}

// put 只用于刚 clone 出来、尚未对外可见的集合。
func (c *Collection) put(name string, v value.Value) {
	c.names = append(c.names, name)
	c.items[name] = v
}
