package profile

import (
	"fmt"
	"strings"

	"github.com/edupath/careerkit/core"
)

// 查询文本的收录阈值：兴趣 ≥6/10，能力 ≥7/10。
const (
	queryInterestThreshold = 6.0
	queryAptitudeThreshold = 7.0
)

// BuildQueryText 由画像构建语义检索文本。
// 顺序固定：志向文本 → 流向/年级句 → 强兴趣句 → 强能力句，
// 保证相同画像产出相同文本（召回确定性依赖于此）。
func BuildQueryText(p *core.StudentProfile) string {
	var parts []string

	if p.GoalText != "" {
		parts = append(parts, p.GoalText)
	}

	parts = append(parts, fmt.Sprintf("I am a %s student in %s", p.Stream, p.ClassLevel))

	// 兴趣短语按固定顺序遍历，不依赖 map 迭代序
	interestPhrases := []struct {
		name  string
		score float64
	}{
		{"coding", p.CodingInterest},
		{"design", p.DesignInterest},
		{"mathematics", p.MathInterest},
		{"science", p.ScienceInterest},
		{"business", p.BusinessInterest},
		{"working with people", p.PeopleInterest},
		{"creative work", p.CreativeInterest},
	}
	var strongInterests []string
	for _, it := range interestPhrases {
		if it.score >= queryInterestThreshold {
			strongInterests = append(strongInterests, it.name)
		}
	}
	if len(strongInterests) > 0 {
		parts = append(parts, "I am interested in "+strings.Join(strongInterests, ", "))
	}

	aptitudePhrases := []struct {
		name  string
		score float64
	}{
		{"quantitative reasoning", p.AptQuant},
		{"logical thinking", p.AptLogical},
		{"verbal communication", p.AptVerbal},
		{"creative thinking", p.AptCreative},
		{"technical skills", p.AptTechnical},
	}
	var strongAptitudes []string
	for _, it := range aptitudePhrases {
		if it.score >= queryAptitudeThreshold {
			strongAptitudes = append(strongAptitudes, it.name)
		}
	}
	if len(strongAptitudes) > 0 {
		parts = append(parts, "I am good at "+strings.Join(strongAptitudes, ", "))
	}

	return strings.Join(parts, ". ") + "."
}
