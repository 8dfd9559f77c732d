package model

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// RankerFile 排序模型工件文件名。
const RankerFile = "career_ranker.json"

// RankerFeatureColumns 是排序模型的 15 维特征列序。
// 训练与 serving 必须按同一顺序展开特征向量。
var RankerFeatureColumns = []string{
	"similarity",
	"stream_match",
	"domain_match",
	"apt_quant",
	"apt_logical",
	"apt_verbal",
	"apt_creative",
	"apt_technical",
	"apt_commerce",
	"marks_10th",
	"marks_12th",
	"avg_aptitude",
	"tech_score",
	"business_score",
	"creative_score",
}

// Ranker 是 GBDT 排序模型（boosting：各树输出求和，非平均）。
// 离线以 listwise 目标按学生分组训练，serving 只做前向求和。
type Ranker struct {
	Trees          []Tree   `json:"trees"`
	BaseScore      float64  `json:"base_score"`
	FeatureColumns []string `json:"feature_columns"`
}

// LoadRanker 从 JSON 工件装载排序模型。
func LoadRanker(path string) (*Ranker, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r Ranker
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("model: parse ranker %s: %w", path, err)
	}
	if len(r.Trees) == 0 {
		return nil, fmt.Errorf("model: ranker %s has no trees", path)
	}
	if len(r.FeatureColumns) == 0 {
		r.FeatureColumns = RankerFeatureColumns
	}
	return &r, nil
}

func (r *Ranker) Name() string { return "gbdt_ranker" }

// Columns 返回模型的特征列序。
func (r *Ranker) Columns() []string { return r.FeatureColumns }

// predictRow 单行前向：base + Σ 各树输出。
func (r *Ranker) predictRow(x []float64) (float64, error) {
	if len(x) != len(r.FeatureColumns) {
		return 0, fmt.Errorf("model: ranker row has %d features, expected %d", len(x), len(r.FeatureColumns))
	}
	score := r.BaseScore
	for i := range r.Trees {
		values := r.Trees[i].Predict(x)
		if len(values) != 1 {
			return 0, fmt.Errorf("model: ranker tree %d produced %d outputs, expected 1", i, len(values))
		}
		score += values[0]
	}
	return score, nil
}

// PredictBatch 批量预测，与输入行一一对应。
func (r *Ranker) PredictBatch(rows [][]float64) ([]float64, error) {
	out := make([]float64, len(rows))
	for i, row := range rows {
		score, err := r.predictRow(row)
		if err != nil {
			return nil, err
		}
		out[i] = score
	}
	return out, nil
}

// Predict 实现 RankModel：按列序展开特征 map 后前向。
func (r *Ranker) Predict(features map[string]float64) (float64, error) {
	return r.predictRow(FeatureVector(features, r.FeatureColumns))
}

// RankedCareer 是排序输出项：原候选下标 + 预测相关性。
type RankedCareer struct {
	Index int
	Score float64
}

// RankCareers 对候选特征矩阵排序，返回前 topK 项。
// 按预测分降序；同分保持原候选顺序（稳定排序）。topK<=0 返回全量。
func (r *Ranker) RankCareers(rows [][]float64, topK int) ([]RankedCareer, error) {
	scores, err := r.PredictBatch(rows)
	if err != nil {
		return nil, err
	}
	ranked := make([]RankedCareer, len(scores))
	for i, s := range scores {
		ranked[i] = RankedCareer{Index: i, Score: s}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })
	if topK > 0 && topK < len(ranked) {
		ranked = ranked[:topK]
	}
	return ranked, nil
}

var _ RankModel = (*Ranker)(nil)
