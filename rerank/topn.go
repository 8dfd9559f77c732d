// Package rerank 提供排序后的重排节点：Top-N 截断与领域多样性调整。
package rerank

import (
	"context"

	"github.com/edupath/careerkit/core"
	"github.com/edupath/careerkit/pipeline"
)

// TopNNode 是一个 Top-N 截断节点，用于在排序后截取前 N 个候选。
// 通常在排序（Rank）节点之后使用，用于限制返回结果数量。
//
// 使用场景：
//   - 排序后只返回 Top 5/10/20 个结果
//   - 配合领域多样性重排使用
type TopNNode struct {
	// N 要保留的候选数量（Top N）
	// 如果 N <= 0，则返回所有候选（不截断）
	// 如果 N > len(cands)，则返回所有候选
	N int
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	cands []*core.Candidate,
) ([]*core.Candidate, error) {
	if n.N <= 0 {
		return cands, nil
	}
	if len(cands) <= n.N {
		return cands, nil
	}
	return cands[:n.N], nil
}

var _ pipeline.Node = (*TopNNode)(nil)
