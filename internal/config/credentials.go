package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/finbourne/uav/pkg/tmpl"
	"github.com/finbourne/uav/pkg/value"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// StdinPath 表示从标准输入读取
const StdinPath = "-"

// LoadCredentials 读取凭据文件，返回扁平化的替换参数。
// 嵌套键以 . 连接 (db: {password: x} → db.password)，模板中写作 {{db.password}}。
// 标量保留源文本，0123、1.10 这类值不会被当作数字改写。
func LoadCredentials(path string) (tmpl.Substitutions, error) {
	return readCredentials(path, os.Stdin)
}

func readCredentials(path string, stdin io.Reader) (tmpl.Substitutions, error) {
	k := koanf.New(".")

	if path == StdinPath {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read credentials from stdin: %w", err)
		}
		if err := k.Load(rawbytes.Provider(data), credentialParser{}); err != nil {
			return nil, fmt.Errorf("failed to parse credentials from stdin: %w", err)
		}
	} else if err := k.Load(file.Provider(path), credentialParser{}); err != nil {
		return nil, fmt.Errorf("failed to load credentials %s: %w", path, err)
	}

	subs := make(tmpl.Substitutions)
	for key, val := range k.All() {
		s, ok := val.(string)
		if !ok {
			return nil, fmt.Errorf("credential '%s' is not a scalar value", key)
		}
		subs[key] = s
	}

	return subs, nil
}

// credentialParser 是 koanf.Parser：YAML/JSON 均按 YAML 解析，叶子是标量的源文本。
type credentialParser struct{}

func (credentialParser) Unmarshal(data []byte) (map[string]any, error) {
	v, err := value.Decode(data)
	if err != nil {
		return nil, err
	}
	m, ok := v.AsMapping()
	if !ok {
		return nil, fmt.Errorf("credentials must be a mapping (got %s)", v.Kind())
	}

	return credentialTree(m, "")
}

func (credentialParser) Marshal(map[string]any) ([]byte, error) {
	return nil, errors.New("credentials cannot be written back")
}

// credentialTree 把映射转换为 koanf 需要的嵌套 map，序列不允许出现。
func credentialTree(m value.Mapping, prefix string) (map[string]any, error) {
	out := make(map[string]any, m.Len())
	for _, p := range m.Pairs() {
		key := p.Key
		if prefix != "" {
			key = prefix + "." + p.Key
		}

		if nested, ok := p.Value.AsMapping(); ok {
			if nested.Len() == 0 {
				continue
			}
			tree, err := credentialTree(nested, key)
			if err != nil {
				return nil, err
			}
			out[p.Key] = tree
			continue
		}

		s, ok := p.Value.Scalar()
		if !ok {
			return nil, fmt.Errorf("credential '%s' is not a scalar value", key)
		}
		out[p.Key] = s
	}

	return out, nil
}
