package config

import (
	"bytes"
	"reflect"
	"strconv"
	"strings"
	"time"

	yamlv3 "go.yaml.in/yaml/v3"
)

// ExampleYAML 将配置结构体序列化为带注释的 YAML，注释来自 desc tag。
//
// 使用示例：
//
//	data, err := config.ExampleYAML(DefaultConfig(), "uav.yaml")
func ExampleYAML[T any](cfg T, fileName string) ([]byte, error) {
	node := structToNode(reflect.ValueOf(cfg))
	node.HeadComment = "配置示例文件, 复制此文件为 " + fileName + " 并根据需要修改"

	var buf bytes.Buffer
	enc := yamlv3.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// structToNode 将结构体转换为带注释的映射节点，没有 koanf tag 的字段被跳过。
func structToNode(val reflect.Value) *yamlv3.Node {
	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return &yamlv3.Node{Kind: yamlv3.ScalarNode, Tag: "!!null", Value: "null"}
		}
		val = val.Elem()
	}

	node := &yamlv3.Node{Kind: yamlv3.MappingNode}
	typ := val.Type()
	for i := range typ.NumField() {
		field := typ.Field(i)
		key := field.Tag.Get("koanf")
		if key == "" {
			continue
		}

		keyNode := &yamlv3.Node{Kind: yamlv3.ScalarNode, Value: key}
		valNode := valueToNode(val.Field(i))
		desc := field.Tag.Get("desc")

		// 复杂类型注释放在 key 上方，标量放在行尾
		switch valNode.Kind {
		case yamlv3.MappingNode, yamlv3.SequenceNode:
			keyNode.HeadComment = desc
		default:
			keyNode.LineComment = desc
		}
		node.Content = append(node.Content, keyNode, valNode)
	}

	return node
}

// valueToNode 将单个字段值转换为节点。
func valueToNode(val reflect.Value) *yamlv3.Node {
	if val.Type() == reflect.TypeFor[time.Duration]() {
		return scalarNode("!!str", time.Duration(val.Int()).String())
	}

	switch val.Kind() {
	case reflect.Struct:
		return structToNode(val)
	case reflect.Slice:
		seq := &yamlv3.Node{Kind: yamlv3.SequenceNode}
		if val.Len() == 0 {
			seq.Style = yamlv3.FlowStyle
		}
		for i := range val.Len() {
			seq.Content = append(seq.Content, valueToNode(val.Index(i)))
		}
		return seq
	case reflect.Bool:
		return scalarNode("!!bool", strconv.FormatBool(val.Bool()))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return scalarNode("!!int", strconv.FormatInt(val.Int(), 10))
	case reflect.Float32, reflect.Float64:
		return scalarNode("!!float", strconv.FormatFloat(val.Float(), 'g', -1, 64))
	default:
		return scalarNode("!!str", strings.TrimSpace(val.String()))
	}
}

func scalarNode(tag, value string) *yamlv3.Node {
	return &yamlv3.Node{Kind: yamlv3.ScalarNode, Tag: tag, Value: value}
}
