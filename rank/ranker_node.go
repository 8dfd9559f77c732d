package rank

import (
	"context"
	"sort"

	"github.com/edupath/careerkit/core"
	"github.com/edupath/careerkit/feature"
	"github.com/edupath/careerkit/model"
	"github.com/edupath/careerkit/pipeline"
	"github.com/edupath/careerkit/pkg/utils"
)

// RankerNode 是 GBDT 精排节点：为每个候选构建 (学生, 职业) 对特征后前向预测。
//
// 设计要点：
//   - 学生主领域从 rctx.Params["primary_domain"] 读取（由领域分类器写入）
//   - 预测分写入 Features["ranker_score"]，不覆盖 Scores 里的可解释分量
//   - 排序按预测分降序稳定排序；预测失败时保持原序透传（降级）
type RankerNode struct {
	Ranker  *model.Ranker
	Careers map[string]*core.CareerRecord
}

func (n *RankerNode) Name() string { return "rank.ranker" }

func (n *RankerNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *RankerNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	cands []*core.Candidate,
) ([]*core.Candidate, error) {
	if n.Ranker == nil || len(cands) == 0 {
		return cands, nil
	}
	if rctx == nil || rctx.Student == nil {
		return cands, nil
	}

	studentDomain := core.Domain("")
	if v, ok := rctx.GetParam("primary_domain"); ok {
		switch d := v.(type) {
		case core.Domain:
			studentDomain = d
		case string:
			studentDomain = core.Domain(d)
		}
	}

	rows := make([][]float64, 0, len(cands))
	kept := make([]*core.Candidate, 0, len(cands))
	for _, c := range cands {
		if c == nil {
			continue
		}
		career, ok := n.Careers[c.ID]
		if !ok {
			career = &core.CareerRecord{ID: c.ID}
		}
		pf := feature.PairFeatures(rctx.Student, career, c.Scores.Similarity, studentDomain)
		for k, v := range pf {
			c.PutFeature(k, v)
		}
		rows = append(rows, feature.PairVector(pf))
		kept = append(kept, c)
	}

	scores, err := n.Ranker.PredictBatch(rows)
	if err != nil {
		// 精排失败不致命：保持上游排序结果
		return cands, nil
	}

	for i, c := range kept {
		c.PutFeature("ranker_score", scores[i])
		c.PutLabel("rank_model", utils.Label{Value: n.Ranker.Name(), Source: "rank"})
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Features["ranker_score"] > kept[j].Features["ranker_score"]
	})
	return kept, nil
}

var _ pipeline.Node = (*RankerNode)(nil)
