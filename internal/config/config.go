// Package config 提供应用配置管理。
//
// 配置加载优先级 (从低到高)：
//  1. 默认值 - DefaultConfig() 函数中定义
//  2. 配置文件 - --config 指定，否则搜索默认路径
//  3. 环境变量 - UAV_ 前缀
//  4. CLI flags - 用户明确指定的 flag
package config

import (
	"fmt"
	"os"

	"github.com/finbourne/uav/pkg/config"
	"github.com/finbourne/uav/pkg/tmpl"
	"github.com/urfave/cli/v3"
)

// EnvPrefix 环境变量前缀
const EnvPrefix = "UAV_"

// Config 应用配置
type Config struct {
	Output      string   `koanf:"output" desc:"输出文件路径，- 表示标准输出"`
	Format      string   `koanf:"format" desc:"输出格式：json 或 yaml"`
	Credentials []string `koanf:"credentials" desc:"凭据文件 (YAML/JSON)，其中的键值作为模板替换参数，- 表示标准输入，最多一个"`
	Interpreter string   `koanf:"interpreter" desc:"模板任务脚本的默认解释器"`
	Define      []string `koanf:"define" desc:"模板替换参数，格式 key=value，优先于凭据文件"`
}

// DefaultConfig 返回默认配置
// 注意：internal/command/command.go 中的 Defaults 变量引用此函数以实现单一配置来源。
func DefaultConfig() Config {
	return Config{
		Output:      "pipeline.json",
		Format:      "json",
		Interpreter: "/bin/bash",
	}
}

// Load 加载配置。cmd 中的 --config flag 若被设置，则只读取该文件且文件必须存在。
func Load(cmd *cli.Command, appName string, opts ...config.Option) (*Config, error) {
	paths := config.DefaultPaths(appName)
	if cmd != nil {
		if explicit := cmd.String("config"); explicit != "" {
			if _, err := os.Stat(explicit); err != nil {
				return nil, fmt.Errorf("config file %s: %w", explicit, err)
			}
			paths = []string{explicit}
		}
	}

	base := []config.Option{
		config.WithConfigPaths(paths...),
		config.WithEnvPrefix(EnvPrefix),
	}
	if cmd != nil {
		base = append(base, config.WithCommand(cmd))
	}

	return config.Load(DefaultConfig(), append(base, opts...)...)
}

// Substitutions 汇总模板替换参数：凭据文件在前，--define 覆盖同名键。
func (c *Config) Substitutions() (tmpl.Substitutions, error) {
	if len(c.Credentials) > 1 {
		return nil, fmt.Errorf("only one credentials file is supported (got %d)", len(c.Credentials))
	}

	credentials := tmpl.Substitutions{}
	if len(c.Credentials) == 1 && c.Credentials[0] != "" {
		loaded, err := LoadCredentials(c.Credentials[0])
		if err != nil {
			return nil, err
		}
		credentials = loaded
	}

	defines := make(tmpl.Substitutions, len(c.Define))
	for _, def := range c.Define {
		key, val, err := tmpl.ParseSubstitution(def)
		if err != nil {
			return nil, fmt.Errorf("%w: '%s'", err, def)
		}
		defines[key] = val
	}

	return tmpl.Merge(credentials, defines), nil
}
