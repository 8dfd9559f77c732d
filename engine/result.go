package engine

import (
	"github.com/edupath/careerkit/core"
	"github.com/edupath/careerkit/explain"
	"github.com/edupath/careerkit/model"
)

// Recommendation 是一条完整的推荐结果：职业、分数分量与结构化解释。
type Recommendation struct {
	Career      core.CareerRecord    `json:"career"`
	Scores      core.CandidateScore  `json:"scores"`
	Explanation *explain.Explanation `json:"explanation"`
}

// Result 是一次推荐调用的完整输出。
type Result struct {
	Recommendations []Recommendation `json:"recommendations"`

	// Student 标准化后的学生画像（调用方可回显/落库）
	Student *core.StudentProfile `json:"student"`

	// QueryText 本次召回使用的检索文本
	QueryText string `json:"query_text"`

	// TotalCandidates Top-N 截断前的候选总数
	TotalCandidates int `json:"total_candidates"`

	// MLEnabled 领域模型是否参与打分（false 为规则降级）
	MLEnabled bool `json:"ml_enabled"`

	// MLInsights 领域画像汇总，规则降级时为 nil
	MLInsights *model.Insights `json:"ml_insights,omitempty"`
}

// Summary 是推荐结果的精简视图（列表页/通知场景）。
type Summary struct {
	Rank          int     `json:"rank"`
	CareerID      string  `json:"career_id"`
	Title         string  `json:"title"`
	Domain        string  `json:"domain"`
	Score         float64 `json:"score"`
	MatchStrength string  `json:"match_strength"`
}

// Summarize 取前 topN 条生成精简视图。topN 钳制在 [1, 10]。
func Summarize(recs []Recommendation, topN int) []Summary {
	if topN < 1 {
		topN = 1
	}
	if topN > 10 {
		topN = 10
	}
	if topN > len(recs) {
		topN = len(recs)
	}

	out := make([]Summary, 0, topN)
	for i := 0; i < topN; i++ {
		r := recs[i]
		s := Summary{
			Rank:     i + 1,
			CareerID: r.Career.ID,
			Title:    r.Career.Title,
			Domain:   string(r.Career.Domain),
			Score:    r.Scores.TotalScore,
		}
		if r.Explanation != nil {
			s.MatchStrength = r.Explanation.MatchStrength
		}
		out = append(out, s)
	}
	return out
}
