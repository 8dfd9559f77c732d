// Package careerkit 是一个面向学生职业规划的推荐工具包（Career Kit）。
//
// 设计要点：
// - Pipeline-first: 推荐逻辑通过 Node 串联（Recall → Filter → Rank → ReRank → PostProcess）
// - 标准化边界: 松散表单在 profile 层一次性归一，链路内只流转强类型画像
// - 可降级: 模型工件缺失时回落规则打分，任何画像输入都能产出结果
// - Labels-first: score_mode / recall_source 等标签全链路透传，支撑解释与观测
package careerkit

import "github.com/edupath/careerkit/pipeline"

// 轻量 facade：便于用户直接 import "careerkit" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindRank        = pipeline.KindRank
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)
