// Package pipeline 把多个 Concourse 流水线定义合并为一个规范化文档。
//
// # 处理流程
//
//  1. [Engine.Load] 读取文档，应用 {{key}} 替换并解析为 [value.Value]
//  2. [Engine.Merge] 把文档中的 groups、jobs、resources、resource_types 并入 [Pipeline]
//  3. jobs 的计划通过 [Engine.ResolvePlan] 展开，其中的 template 引用按包含链解析路径
//  4. [Pipeline.Document] 组装输出，[Validate] 检查渲染结果中没有未解析的占位符
//
// [Engine.Generate] 和 [Engine.Render] 按顺序串联以上步骤。
//
// # 唯一性
//
// group 和 job 的名称在所有输入文档中必须唯一，重复即报错；
// resource 和 resource_type 重复时保留第一次的定义。
//
// # 模板
//
// job 可以用 template 引用一组步骤，task 可以用 template 引用任务配置，
// 任务配置可以用 template 引用脚本。每一级的相对路径都相对于包含它的文档所在目录：
//
//	jobs:
//	- name: build
//	  template: jobs/build.yml      # 相对于流水线文件
//	  arguments: {env: ci}
//
//	# jobs/build.yml
//	- task: unit
//	  template: tasks/unit.yml      # 相对于 jobs/
//
//	# jobs/tasks/unit.yml
//	platform: linux
//	template: scripts/unit.sh       # 相对于 jobs/tasks/
//	arguments: {target: all}
package pipeline
