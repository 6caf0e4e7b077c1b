// Package uav 提供合并流水线定义的命令。
package uav

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/lwmacct/251207-go-pkg-version/pkg/version"
	"github.com/urfave/cli/v3"

	"github.com/finbourne/uav/internal/command"
	"github.com/finbourne/uav/internal/config"
	pkgconfig "github.com/finbourne/uav/pkg/config"
	"github.com/finbourne/uav/pkg/pipeline"
	"github.com/finbourne/uav/pkg/value"
)

// stdoutPath 作为输出路径时表示标准输出
const stdoutPath = "-"

// Command 合并命令
var Command = newCommand()

func newCommand() *cli.Command {
	return &cli.Command{
		Name:      "uav",
		Usage:     "合并 Concourse 流水线定义，展开任务模板并替换 {{key}} 占位符",
		ArgsUsage: "<pipeline.yml> [pipeline.yml...]",
		Action:    action,
		Commands:  []*cli.Command{version.Command, exampleCommand()},
		// define 的值本身可以包含逗号
		DisableSliceFlagSeparator: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "配置文件路径 (YAML/JSON)",
			},
			&cli.StringSliceFlag{
				Name:    "define",
				Aliases: []string{"d"},
				Usage:   "模板替换参数 key=value，可重复指定",
			},
			&cli.StringSliceFlag{
				Name:    "credentials",
				Aliases: []string{"c"},
				Value:   command.Defaults.Credentials,
				Usage:   "凭据文件 (YAML/JSON)，- 表示标准输入，只能指定一次",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   command.Defaults.Output,
				Usage:   "输出文件路径，- 表示标准输出",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   command.Defaults.Format,
				Usage:   "输出格式：json 或 yaml",
			},
			&cli.StringFlag{
				Name:  "interpreter",
				Value: command.Defaults.Interpreter,
				Usage: "模板任务脚本的默认解释器",
			},
		},
	}
}

func action(ctx context.Context, cmd *cli.Command) error {
	inputs := cmd.Args().Slice()
	if len(inputs) == 0 {
		return errors.New("no pipeline definitions supplied")
	}

	// 加载配置：默认值 → 配置文件 → 环境变量 → CLI flags
	cfg, err := config.Load(cmd, version.GetAppRawName())
	if err != nil {
		return err
	}
	if cfg.Output == "" {
		return errors.New("invalid (empty) output path supplied")
	}
	format, err := value.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}
	subs, err := cfg.Substitutions()
	if err != nil {
		return err
	}

	slog.Debug("Generating pipeline", "inputs", inputs, "output", cfg.Output, "format", format, "substitutions", len(subs))

	engine := pipeline.New(pipeline.WithInterpreter(cfg.Interpreter))
	out, err := engine.Render(inputs, subs, format)
	if err != nil {
		return fmt.Errorf("Unable to generate pipelines:\n%w", err)
	}

	return writeOutput(cmd.Root().Writer, cfg.Output, out)
}

// exampleCommand 输出带注释的示例配置文件
func exampleCommand() *cli.Command {
	return &cli.Command{
		Name:  "example-config",
		Usage: "输出带注释的示例配置文件",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			data, err := pkgconfig.ExampleYAML(config.DefaultConfig(), version.GetAppRawName()+".yaml")
			if err != nil {
				return fmt.Errorf("failed to render example config: %w", err)
			}

			return writeOutput(cmd.Root().Writer, stdoutPath, data)
		},
	}
}

// writeOutput 写出结果，path 为 - 时写到 stdout。
func writeOutput(stdout io.Writer, path string, out []byte) error {
	if len(out) == 0 || out[len(out)-1] != '\n' {
		out = append(out, '\n')
	}

	if path == stdoutPath {
		if stdout == nil {
			stdout = os.Stdout
		}
		_, err := stdout.Write(out)
		return err
	}

	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("could not write output file '%s': %w", path, err)
	}
	slog.Info("Pipeline written", "output", path, "bytes", len(out))

	return nil
}
