// Package rank 提供排序节点：规则/ML 打分排序与 GBDT 精排。
package rank

import (
	"context"

	"github.com/edupath/careerkit/core"
	"github.com/edupath/careerkit/pipeline"
	"github.com/edupath/careerkit/scorer"
)

// ScoreNode 是打分排序节点：用 CareerScorer 对候选整批打分并降序排序。
//
// 打分器自己决定规则/ML 模式，节点只负责接线；
// score_mode label 由打分器写入，用于下游解释与观测。
type ScoreNode struct {
	Scorer scorer.CareerScorer
}

func (n *ScoreNode) Name() string { return "rank.score" }

func (n *ScoreNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *ScoreNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	cands []*core.Candidate,
) ([]*core.Candidate, error) {
	if n.Scorer == nil || len(cands) == 0 {
		return cands, nil
	}
	if rctx == nil || rctx.Student == nil {
		return cands, nil
	}
	return n.Scorer.ScoreCandidates(rctx.Student, cands), nil
}

var _ pipeline.Node = (*ScoreNode)(nil)
