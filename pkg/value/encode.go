package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	yamlv3 "go.yaml.in/yaml/v3"
)

// Format 输出格式
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat 解析格式名称（不区分大小写，yml 视为 yaml）。
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (expected json or yaml)", s)
	}
}

// Encode 按格式渲染值，缩进两个空格。
func Encode(v Value, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		raw, err := v.MarshalJSON()
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := json.Indent(&buf, raw, "", "  "); err != nil {
			return nil, err
		}

		return buf.Bytes(), nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yamlv3.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(v.toNode()); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}

		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
}

// Decode 解析 YAML（JSON 是其子集）文本并转换为 [Value]。
func Decode(data []byte) (Value, error) {
	var node yamlv3.Node
	if err := yamlv3.Unmarshal(data, &node); err != nil {
		return Value{}, err
	}

	return FromNode(&node)
}
