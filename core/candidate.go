package core

import "github.com/edupath/careerkit/pkg/utils"

// CandidateScore 是候选职业在打分阶段产出的各维度分数。
// Similarity 为 0-1 的余弦相似度，其余分数统一落在 0-10 区间。
type CandidateScore struct {
	Similarity    float64 `json:"similarity"`
	AptitudeScore float64 `json:"aptitude_score"`
	InterestScore float64 `json:"interest_score"`
	TotalScore    float64 `json:"total_score"`
}

// Candidate 是推荐链路中的统一承载结构：分数、特征、元信息、标签。
// ID 为职业编号（如 "C001"）；Labels 用于解释与策略驱动；Score 用于排序决策。
type Candidate struct {
	ID       string
	Score    float64
	Scores   CandidateScore
	Features map[string]float64
	Meta     map[string]any
	Labels   map[string]utils.Label
}

func NewCandidate(id string) *Candidate {
	return &Candidate{
		ID:       id,
		Score:    0,
		Features: make(map[string]float64),
		Meta:     make(map[string]any),
		Labels:   make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (c *Candidate) PutLabel(key string, lbl utils.Label) {
	if c.Labels == nil {
		c.Labels = make(map[string]utils.Label)
	}
	if old, ok := c.Labels[key]; ok {
		c.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	c.Labels[key] = lbl
}

// GetLabel 读取 Label。
func (c *Candidate) GetLabel(key string) (utils.Label, bool) {
	if c.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := c.Labels[key]
	return lbl, ok
}

// PutFeature 写入数值特征。
func (c *Candidate) PutFeature(key string, v float64) {
	if c.Features == nil {
		c.Features = make(map[string]float64)
	}
	c.Features[key] = v
}
