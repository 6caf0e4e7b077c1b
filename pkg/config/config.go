// Author: lwmacct (https://github.com/lwmacct)
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/urfave/cli/v3"
)

// options 加载选项
type options struct {
	configPaths []string
	envPrefix   string
	cmd         *cli.Command
}

// Option 配置 [Load] 的行为
type Option func(*options)

// WithConfigPaths 设置配置文件搜索路径，按顺序搜索，找到第一个即停止。
func WithConfigPaths(paths ...string) Option {
	return func(o *options) { o.configPaths = append(o.configPaths, paths...) }
}

// WithEnvPrefix 启用带前缀的环境变量，例如 "UAV_" 使 UAV_OUTPUT 映射到 output。
func WithEnvPrefix(prefix string) Option {
	return func(o *options) { o.envPrefix = prefix }
}

// WithCommand 使用 CLI flags 覆盖配置，只有用户明确指定的 flag 才生效。
func WithCommand(cmd *cli.Command) Option {
	return func(o *options) { o.cmd = cmd }
}

// DefaultPaths 返回默认配置文件搜索路径
// appName 可选，若提供则使用 <appName>.yaml 并包含用户主目录和系统配置目录
func DefaultPaths(appName ...string) []string {
	if len(appName) == 0 || appName[0] == "" {
		return []string{
			"config.yaml",
			"config/config.yaml",
		}
	}

	name := appName[0]
	paths := []string{
		name + ".yaml",
		"config/" + name + ".yaml",
	}
	// 添加用户主目录
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, "."+name+".yaml"))
	}
	// 添加系统配置目录
	paths = append(paths, "/etc/"+name+"/config.yaml")

	return paths
}

// ParserForPath 根据扩展名选择解析器：.json 使用 JSON，其余使用 YAML。
func ParserForPath(path string) koanf.Parser {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return json.Parser()
	}

	return yaml.Parser()
}

// Load 加载配置，按优先级合并：
// 1. 默认值 (最低优先级) - 通过 defaultConfig 参数传入
// 2. 配置文件 (按 WithConfigPaths 顺序搜索，找到第一个即停止)
// 3. 环境变量 (WithEnvPrefix)
// 4. CLI flags (最高优先级)
//
// 泛型参数 T 为配置结构体类型，必须使用 koanf tag 标记字段。
func Load[T any](defaultConfig T, opts ...Option) (*T, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	k := koanf.New(".")

	// 1️⃣ 加载默认配置 (最低优先级)
	if err := k.Load(structs.Provider(defaultConfig, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}

	// 2️⃣ 加载配置文件 (按顺序搜索，找到第一个即停止；文件存在但无法解析时报错)
	configLoaded := false
	for _, path := range o.configPaths {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := k.Load(file.Provider(path), ParserForPath(path)); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
		slog.Debug("Loaded config from file", "path", path)
		configLoaded = true

		break
	}
	if !configLoaded {
		slog.Debug("No config file found, using defaults")
	}

	// 3️⃣ 加载环境变量
	if o.envPrefix != "" {
		if err := k.Load(confmap.Provider(envValues(o.envPrefix), "."), nil); err != nil {
			return nil, fmt.Errorf("failed to load environment: %w", err)
		}
	}

	// 4️⃣ 加载 CLI flags (最高优先级，仅当用户明确指定时)
	if o.cmd != nil {
		applyCLIFlags(o.cmd, k, reflect.TypeOf(defaultConfig), "")
	}

	// 解析到结构体
	var cfg T
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// envValues 收集带前缀的环境变量，键名经 envKeyDecoder 转换。
func envValues(prefix string) map[string]any {
	decode := envKeyDecoder(prefix)
	vals := make(map[string]any)
	for _, kv := range os.Environ() {
		name, val, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, prefix) {
			continue
		}
		vals[decode(name)] = val
	}

	return vals
}

// envKeyDecoder 返回环境变量名到 koanf key 的转换函数：
// 去掉前缀、转小写、下划线转为点号 (MYAPP_SERVER_URL → server.url)。
func envKeyDecoder(prefix string) func(string) string {
	return func(name string) string {
		key := strings.ToLower(strings.TrimPrefix(name, prefix))
		return strings.ReplaceAll(key, "_", ".")
	}
}

// applyCLIFlags 递归遍历结构体字段，把用户明确指定的 CLI flags 写入 koanf。
// koanf key 中的 . 和 _ 都转为 -，例如 server.skip_verify → --server-skip-verify。
func applyCLIFlags(cmd *cli.Command, k *koanf.Koanf, typ reflect.Type, prefix string) {
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return
	}

	for i := range typ.NumField() {
		field := typ.Field(i)

		koanfKey := field.Tag.Get("koanf")
		if koanfKey == "" {
			continue
		}
		if prefix != "" {
			koanfKey = prefix + "." + koanfKey
		}

		// 嵌套结构体递归处理
		if field.Type.Kind() == reflect.Struct &&
			field.Type != reflect.TypeFor[time.Duration]() &&
			field.Type != reflect.TypeFor[time.Time]() {
			applyCLIFlags(cmd, k, field.Type, koanfKey)
			continue
		}

		cliFlag := strings.NewReplacer(".", "-", "_", "-").Replace(koanfKey)
		if !cmd.IsSet(cliFlag) {
			continue
		}
		setCLIFlagValue(cmd, k, koanfKey, cliFlag, field.Type)
	}
}

// setCLIFlagValue 根据字段类型从 CLI 获取值并设置到 koanf
func setCLIFlagValue(cmd *cli.Command, k *koanf.Koanf, koanfKey, cliFlag string, fieldType reflect.Type) {
	if fieldType == reflect.TypeFor[time.Duration]() {
		_ = k.Set(koanfKey, cmd.Duration(cliFlag))
		return
	}

	switch fieldType.Kind() {
	case reflect.String:
		_ = k.Set(koanfKey, cmd.String(cliFlag))
	case reflect.Bool:
		_ = k.Set(koanfKey, cmd.Bool(cliFlag))
	case reflect.Int:
		_ = k.Set(koanfKey, cmd.Int(cliFlag))
	case reflect.Int64:
		_ = k.Set(koanfKey, cmd.Int64(cliFlag))
	case reflect.Float64:
		_ = k.Set(koanfKey, cmd.Float64(cliFlag))
	case reflect.Slice:
		if fieldType.Elem().Kind() == reflect.String {
			_ = k.Set(koanfKey, cmd.StringSlice(cliFlag))
		}
	case reflect.Map:
		if fieldType.Key().Kind() == reflect.String && fieldType.Elem().Kind() == reflect.String {
			_ = k.Set(koanfKey, cmd.StringMap(cliFlag))
		}
	}
}
