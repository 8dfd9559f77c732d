// Package explain 为推荐结果生成可读解释。
//
// 解释由四类证据拼装：文本相似、能力倾向、兴趣契合、学业表现。
// 所有措辞与分档阈值固定，保证同一画像产出稳定一致的解释文案。
package explain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/edupath/careerkit/core"
)

// Explanation 是一条推荐的结构化解释。
type Explanation struct {
	Summary       string   `json:"summary"`
	MatchStrength string   `json:"match_strength"`
	KeyReasons    []string `json:"key_reasons"`
	AptitudeMatch []string `json:"aptitude_match"`
	InterestMatch []string `json:"interest_match"`
	AcademicFit   []string `json:"academic_fit"`
	Score         float64  `json:"recommendation_score"`
}

// keywordCategory 志向文本的关键词归类，按序评估。
type keywordCategory struct {
	name  string
	words []string
}

var goalKeywords = []keywordCategory{
	{"coding", []string{"coding", "programming", "software", "developer"}},
	{"design", []string{"design", "ui", "ux", "creative", "visual"}},
	{"data", []string{"data", "analytics", "statistics", "analysis"}},
	{"business", []string{"business", "entrepreneur", "startup", "company"}},
	{"engineering", []string{"engineering", "mechanical", "electrical", "civil"}},
	{"healthcare", []string{"medical", "doctor", "healthcare", "patient"}},
	{"finance", []string{"finance", "money", "investment", "banking"}},
	{"math", []string{"math", "mathematics", "calculations", "numbers"}},
	{"ai", []string{"ai", "machine learning", "ml", "artificial intelligence"}},
	{"cloud", []string{"cloud", "aws", "azure", "devops"}},
	{"security", []string{"security", "cybersecurity", "hacking", "protection"}},
}

// 能力倾向的展示名，固定顺序（同分时排序稳定依赖它）。
var aptitudeDisplay = []struct {
	name string
	key  string
}{
	{"quantitative reasoning", core.AptKeyQuant},
	{"logical thinking", core.AptKeyLogical},
	{"verbal communication", core.AptKeyVerbal},
	{"creative thinking", core.AptKeyCreative},
	{"technical skills", core.AptKeyTechnical},
	{"commerce understanding", core.AptKeyCommerce},
}

// 兴趣维度的展示名，固定顺序。
var interestDisplay = []struct {
	name string
	key  string
}{
	{"coding", core.InterestKeyCoding},
	{"design", core.InterestKeyDesign},
	{"mathematics", core.InterestKeyMath},
	{"science", core.InterestKeyScience},
	{"business", core.InterestKeyBusiness},
	{"working with people", core.InterestKeyPeople},
	{"creative work", core.InterestKeyCreative},
}

// Generator 解释生成器，无状态、并发安全。
type Generator struct{}

func NewGenerator() *Generator { return &Generator{} }

// SimilarityReason 基于文本相似度生成主推荐理由。
// similarity 为 0-10 档位分（余弦相似度 ×10）。
func (g *Generator) SimilarityReason(p *core.StudentProfile, career *core.CareerRecord, similarity float64) string {
	goal := strings.ToLower(p.GoalText)

	var matched []string
	for _, cat := range goalKeywords {
		for _, w := range cat.words {
			if strings.Contains(goal, w) {
				matched = append(matched, cat.name)
				break
			}
		}
	}

	strength := "reasonably"
	switch {
	case similarity >= 8:
		strength = "strongly"
	case similarity >= 6:
		strength = "well"
	}

	if len(matched) > 0 {
		if len(matched) > 3 {
			matched = matched[:3]
		}
		return fmt.Sprintf("Your aspirations %s align with %s. Key matches: %s.",
			strength, career.Title, strings.Join(matched, ", "))
	}
	return fmt.Sprintf("Your goals and interests %s match the profile of a %s.", strength, career.Title)
}

// AptitudeReasons 取最高的 2-3 项能力倾向作为理由。
// ≥7 记 Strong，≥5 记 Good，再低不提。
func (g *Generator) AptitudeReasons(p *core.StudentProfile) []string {
	apts := p.Aptitudes()
	ranked := make([]struct {
		name  string
		score float64
	}, len(aptitudeDisplay))
	for i, d := range aptitudeDisplay {
		ranked[i].name = d.name
		ranked[i].score = apts[d.key]
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	var reasons []string
	for _, r := range ranked[:3] {
		switch {
		case r.score >= 7:
			reasons = append(reasons, fmt.Sprintf("Strong %s (score: %s/10)", r.name, fmtScore(r.score)))
		case r.score >= 5:
			reasons = append(reasons, fmt.Sprintf("Good %s (score: %s/10)", r.name, fmtScore(r.score)))
		}
	}
	return reasons
}

// InterestReasons 找出与职业兴趣标签相关的强兴趣（≥6）。
// 没有任何关联命中时退化为最高的两项强兴趣。
func (g *Generator) InterestReasons(p *core.StudentProfile, career *core.CareerRecord) []string {
	interests := p.Interests()
	careerTags := strings.ToLower(career.SuitableInterests)

	var reasons []string
	for _, d := range interestDisplay {
		score := interests[d.key]
		if score < 6 {
			continue
		}
		for _, word := range strings.Fields(d.name) {
			if strings.Contains(careerTags, word) {
				reasons = append(reasons, fmt.Sprintf("High interest in %s (%s/10)", d.name, fmtScore(score)))
				break
			}
		}
	}
	if len(reasons) > 0 {
		return reasons
	}

	ranked := make([]struct {
		name  string
		score float64
	}, len(interestDisplay))
	for i, d := range interestDisplay {
		ranked[i].name = d.name
		ranked[i].score = interests[d.key]
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	for _, r := range ranked[:2] {
		if r.score >= 6 {
			reasons = append(reasons, fmt.Sprintf("Interested in %s (%s/10)", r.name, fmtScore(r.score)))
		}
	}
	return reasons
}

// AcademicReasons 基于学业表现生成理由（学科成绩与 CGPA 均为 0-10）。
func (g *Generator) AcademicReasons(p *core.StudentProfile, career *core.CareerRecord) []string {
	var reasons []string
	careerStream := strings.ToLower(career.StreamTag)

	if strings.Contains(p.Stream, "Science") || strings.Contains(careerStream, "science") {
		if p.MathsPct >= 8 {
			reasons = append(reasons, fmt.Sprintf("Excellent mathematics performance (%s/10)", fmtScore(p.MathsPct)))
		}
		if p.SciencePct >= 8 {
			reasons = append(reasons, fmt.Sprintf("Strong science background (%s/10)", fmtScore(p.SciencePct)))
		}
		if p.CSITPct >= 8 {
			reasons = append(reasons, fmt.Sprintf("High CS/IT aptitude (%s/10)", fmtScore(p.CSITPct)))
		}
	}
	if strings.Contains(p.Stream, "Commerce") || strings.Contains(careerStream, "commerce") {
		if p.CommercePct >= 8 {
			reasons = append(reasons, fmt.Sprintf("Strong commerce foundation (%s/10)", fmtScore(p.CommercePct)))
		}
	}

	switch {
	case p.CGPA >= 8.5:
		reasons = append(reasons, fmt.Sprintf("Outstanding academic performance (CGPA: %s/10)", fmtScore(p.CGPA)))
	case p.CGPA >= 7.5:
		reasons = append(reasons, fmt.Sprintf("Strong academic record (CGPA: %s/10)", fmtScore(p.CGPA)))
	}
	return reasons
}

// Explain 生成一条推荐的完整解释。
func (g *Generator) Explain(p *core.StudentProfile, career *core.CareerRecord, scores core.CandidateScore) *Explanation {
	var strengthLabel, strengthText string
	switch total := scores.TotalScore; {
	case total >= 8:
		strengthLabel, strengthText = "Excellent Match", "highly recommended"
	case total >= 7:
		strengthLabel, strengthText = "Very Good Match", "strongly recommended"
	case total >= 6:
		strengthLabel, strengthText = "Good Match", "recommended"
	default:
		strengthLabel, strengthText = "Moderate Match", "worth considering"
	}

	return &Explanation{
		Summary:       fmt.Sprintf("%s is %s based on your profile.", career.Title, strengthText),
		MatchStrength: strengthLabel,
		KeyReasons:    []string{g.SimilarityReason(p, career, scores.Similarity * 10)},
		AptitudeMatch: g.AptitudeReasons(p),
		InterestMatch: g.InterestReasons(p, career),
		AcademicFit:   g.AcademicReasons(p, career),
		Score:         scores.TotalScore,
	}
}

// fmtScore 数值展示：去掉无意义的尾零（9.50 → 9.5，10 → 10）。
func fmtScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
