package scorer

import (
	"math"
	"sort"

	"github.com/edupath/careerkit/core"
	"github.com/edupath/careerkit/pkg/utils"
)

// Weights 是总分的加权配置；不强制和为 1，调用方可覆盖。
type Weights struct {
	Similarity float64
	Aptitude   float64
	Interest   float64
}

// DefaultWeights 默认配比 0.6 / 0.2 / 0.2。
func DefaultWeights() Weights {
	return Weights{Similarity: 0.6, Aptitude: 0.2, Interest: 0.2}
}

// neutralScore 未建档职业的中性分。
const neutralScore = 5.0

// CareerScorer 是打分器的统一契约：逐维打分 + 整批打分排序。
type CareerScorer interface {
	Name() string
	AptitudeScore(p *core.StudentProfile, careerID string) float64
	InterestScore(p *core.StudentProfile, careerID string) float64
	ScoreCandidates(p *core.StudentProfile, cands []*core.Candidate) []*core.Candidate
}

// RuleScorer 是确定性的规则打分器（系统兜底基线）。
// 权重表在构造时由关键词规则一次性派生；同输入必须产出逐位一致的分数。
type RuleScorer struct {
	careers    map[string]*core.CareerRecord
	aptWeights map[string]map[string]float64
	intWeights map[string]map[string]float64
	weights    Weights
}

// Option 打分器的功能选项。
type Option func(*Weights)

// WithWeights 覆盖默认加权配比。
func WithWeights(w Weights) Option {
	return func(dst *Weights) { *dst = w }
}

// NewRuleScorer 创建规则打分器并预派生每个职业的权重表。
func NewRuleScorer(records []core.CareerRecord, opts ...Option) *RuleScorer {
	s := &RuleScorer{
		careers:    make(map[string]*core.CareerRecord, len(records)),
		aptWeights: make(map[string]map[string]float64, len(records)),
		intWeights: make(map[string]map[string]float64, len(records)),
		weights:    DefaultWeights(),
	}
	for _, opt := range opts {
		opt(&s.weights)
	}
	for i := range records {
		r := &records[i]
		s.careers[r.ID] = r
		s.aptWeights[r.ID] = AptitudeWeightsFor(r.Title)
		s.intWeights[r.ID] = InterestWeightsFor(r.Title, r.SuitableInterests)
	}
	return s
}

func (s *RuleScorer) Name() string { return "rule" }

// AptitudeScore 加权能力分（0-10）；未建档职业取中性分。
func (s *RuleScorer) AptitudeScore(p *core.StudentProfile, careerID string) float64 {
	w, ok := s.aptWeights[careerID]
	if !ok {
		return neutralScore
	}
	return w["quant"]*p.AptQuant +
		w["logical"]*p.AptLogical +
		w["verbal"]*p.AptVerbal +
		w["creative"]*p.AptCreative +
		w["technical"]*p.AptTechnical +
		w["commerce"]*p.AptCommerce
}

// InterestScore 加权兴趣分（0-10）；未建档职业取中性分。
func (s *RuleScorer) InterestScore(p *core.StudentProfile, careerID string) float64 {
	w, ok := s.intWeights[careerID]
	if !ok {
		return neutralScore
	}
	return w["coding"]*p.CodingInterest +
		w["design"]*p.DesignInterest +
		w["math"]*p.MathInterest +
		w["science"]*p.ScienceInterest +
		w["business"]*p.BusinessInterest +
		w["people"]*p.PeopleInterest +
		w["creative"]*p.CreativeInterest
}

// TotalScore 总分 = wS×(相似度×10) + wA×能力分 + wI×兴趣分，保留两位小数。
func (s *RuleScorer) TotalScore(p *core.StudentProfile, careerID string, similarity float64) float64 {
	return Blend(s.weights, similarity,
		s.AptitudeScore(p, careerID), s.InterestScore(p, careerID))
}

// ScoreCandidates 整批打分并按总分降序稳定排序。
func (s *RuleScorer) ScoreCandidates(p *core.StudentProfile, cands []*core.Candidate) []*core.Candidate {
	for _, c := range cands {
		apt := s.AptitudeScore(p, c.ID)
		interest := s.InterestScore(p, c.ID)
		total := Blend(s.weights, c.Scores.Similarity, apt, interest)

		c.Scores.AptitudeScore = Round2(apt)
		c.Scores.InterestScore = Round2(interest)
		c.Scores.TotalScore = total
		c.Score = total
		c.PutLabel("score_mode", utils.Label{Value: s.Name(), Source: "rank"})
	}
	SortByScore(cands)
	return cands
}

// Blend 按权重合成总分，保留两位小数。
func Blend(w Weights, similarity, aptitude, interest float64) float64 {
	return Round2(w.Similarity*(similarity*10) + w.Aptitude*aptitude + w.Interest*interest)
}

// Round2 保留两位小数。
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// SortByScore 按 Score 降序稳定排序；同分保持原候选顺序。
func SortByScore(cands []*core.Candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].Score > cands[j].Score
	})
}

var _ CareerScorer = (*RuleScorer)(nil)
