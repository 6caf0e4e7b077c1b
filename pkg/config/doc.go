// Package config 提供通用的分层配置加载功能。
//
// # 特性
//
// 使用泛型支持任意配置结构体类型，配置加载优先级 (从低到高)：
//  1. 默认值 - 通过 defaultConfig 参数传入
//  2. 配置文件 - 通过 WithConfigPaths 选项设置，YAML 或 JSON（按扩展名）
//  3. 环境变量(前缀) - 通过 WithEnvPrefix 选项启用
//  4. CLI flags - 通过 WithCommand 选项设置，最高优先级
//
// # 快速开始
//
//	type Config struct {
//	    Output string   `koanf:"output"`
//	    Define []string `koanf:"define"`
//	}
//
//	cfg, err := config.Load(Config{Output: "pipeline.json"},
//	    config.WithConfigPaths(config.DefaultPaths("uav")...),
//	    config.WithEnvPrefix("UAV_"),
//	    config.WithCommand(cmd),
//	)
//
// # 环境变量
//
// 命名规则：前缀 + 大写的 koanf key，点号 (.) 转为下划线 (_)。
// 示例 (前缀为 "UAV_")：
//   - UAV_OUTPUT → output
//   - UAV_SERVER_URL → server.url
//
// # CLI Flag 映射
//
// koanf key 中的 . 和 _ 都转为 -：
//   - output → --output
//   - server.skip_verify → --server-skip-verify
package config
