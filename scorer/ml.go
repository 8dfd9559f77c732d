package scorer

import (
	"strings"

	"github.com/edupath/careerkit/core"
	"github.com/edupath/careerkit/model"
	"github.com/edupath/careerkit/pkg/utils"
)

// MLScorer 用领域模型的契合度替代规则能力分。
//
// 设计要点：
//   - 能力分 = 职业所属领域的预测契合度 / 10（0-100 → 0-10）
//   - 兴趣分沿用规则权重表，保证两种模式的分数可比
//   - Model 为 nil 时整体退化为规则打分（降级路径，不报错）
type MLScorer struct {
	rules   *RuleScorer
	domains map[string]core.Domain // 职业编号 → 领域
	Model   *model.DomainModel
	weights Weights
}

// NewMLScorer 创建 ML 打分器。m 传 nil 即规则降级模式。
func NewMLScorer(records []core.CareerRecord, m *model.DomainModel, opts ...Option) *MLScorer {
	s := &MLScorer{
		rules:   NewRuleScorer(records, opts...),
		domains: make(map[string]core.Domain, len(records)),
		Model:   m,
		weights: DefaultWeights(),
	}
	for _, opt := range opts {
		opt(&s.weights)
	}
	for i := range records {
		s.domains[records[i].ID] = records[i].Domain
	}
	return s
}

func (s *MLScorer) Name() string {
	if s.Model == nil {
		return "rule"
	}
	return "ml"
}

// AptitudeScore ML 模式下取职业领域契合度/10；无模型时与规则打分逐位一致。
func (s *MLScorer) AptitudeScore(p *core.StudentProfile, careerID string) float64 {
	if s.Model == nil {
		return s.rules.AptitudeScore(p, careerID)
	}
	scores, err := s.Model.PredictDomainScores(p.Aptitudes())
	if err != nil {
		return s.rules.AptitudeScore(p, careerID)
	}
	return s.domainFit(scores, careerID)
}

func (s *MLScorer) domainFit(scores map[core.Domain]float64, careerID string) float64 {
	d, ok := s.domains[careerID]
	if !ok {
		d = core.DefaultDomain
	}
	fit, ok := scores[d]
	if !ok {
		fit = 50 // 中性契合度
	}
	return fit / 10.0
}

// InterestScore 沿用规则权重表（两种模式分数可比）。
func (s *MLScorer) InterestScore(p *core.StudentProfile, careerID string) float64 {
	return s.rules.InterestScore(p, careerID)
}

// ScoreCandidates 整批打分：领域契合度对整批只预测一次。
func (s *MLScorer) ScoreCandidates(p *core.StudentProfile, cands []*core.Candidate) []*core.Candidate {
	var domainScores map[core.Domain]float64
	mode := s.Name()
	if s.Model != nil {
		var err error
		domainScores, err = s.Model.PredictDomainScores(p.Aptitudes())
		if err != nil {
			domainScores = nil
			mode = "rule"
		}
	}

	for _, c := range cands {
		var apt float64
		if domainScores != nil {
			apt = s.domainFit(domainScores, c.ID)
		} else {
			apt = s.rules.AptitudeScore(p, c.ID)
		}
		interest := s.rules.InterestScore(p, c.ID)
		total := Blend(s.weights, c.Scores.Similarity, apt, interest)

		c.Scores.AptitudeScore = Round2(apt)
		c.Scores.InterestScore = Round2(interest)
		c.Scores.TotalScore = total
		c.Score = total
		c.PutLabel("score_mode", utils.Label{Value: mode, Source: "rank"})
	}
	SortByScore(cands)
	return cands
}

// Insights 返回领域画像汇总；无模型时返回 nil。
func (s *MLScorer) Insights(p *core.StudentProfile) *model.Insights {
	if s.Model == nil {
		return nil
	}
	in, err := s.Model.DomainInsights(p.Aptitudes())
	if err != nil {
		return nil
	}
	return in
}

// InterestOverlap 计算两个逗号分隔兴趣串的重叠度（0-10）。
// 任一侧为空返回中性分 5.0；子串双向包含即算一次命中。
func InterestOverlap(studentInterests, careerInterests string) float64 {
	student := splitTags(studentInterests)
	career := splitTags(careerInterests)
	if len(student) == 0 || len(career) == 0 {
		return neutralScore
	}

	matches := 0
	for _, si := range student {
		for _, ci := range career {
			if strings.Contains(ci, si) || strings.Contains(si, ci) {
				matches++
				break
			}
		}
	}

	maxPossible := len(student)
	if len(career) < maxPossible {
		maxPossible = len(career)
	}
	score := float64(matches) / float64(maxPossible) * 10
	if score > 10 {
		score = 10
	}
	return score
}

func splitTags(s string) []string {
	parts := strings.Split(strings.ToLower(s), ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

var _ CareerScorer = (*MLScorer)(nil)
