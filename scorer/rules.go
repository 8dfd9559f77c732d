// Package scorer 实现候选职业的打分：
// 规则打分器（确定性兜底）与 ML 打分器（领域模型驱动，缺模型时自动降级）。
package scorer

import "strings"

// keywordRule 是一条关键词规则：命中关键词即套用对应权重表。
// 规则按序评估、首次命中生效（first-match-wins），避免条件分支散落。
type keywordRule struct {
	category  string
	keywords  []string
	titleOnly bool // true 时只匹配职业标题，不看兴趣标签
	weights   map[string]float64
}

// aptitudeRules 职业标题 → 能力权重表。权重和 ≤ 1，未列维度记 0。
var aptitudeRules = []keywordRule{
	{
		category:  "technical",
		keywords:  []string{"software", "developer", "engineer", "data scientist", "ml", "ai", "cloud", "devops", "cybersecurity"},
		titleOnly: true,
		weights:   map[string]float64{"technical": 0.4, "logical": 0.3, "quant": 0.2, "verbal": 0.1},
	},
	{
		category:  "design",
		keywords:  []string{"designer", "ui", "ux", "game"},
		titleOnly: true,
		weights:   map[string]float64{"creative": 0.5, "technical": 0.2, "logical": 0.2, "verbal": 0.1},
	},
	{
		category:  "analytics",
		keywords:  []string{"data", "analyst", "research"},
		titleOnly: true,
		weights:   map[string]float64{"quant": 0.4, "logical": 0.3, "technical": 0.2, "verbal": 0.1},
	},
	{
		category:  "finance",
		keywords:  []string{"accountant", "finance", "banker", "tax", "audit", "economist"},
		titleOnly: true,
		weights:   map[string]float64{"commerce": 0.4, "quant": 0.3, "logical": 0.2, "verbal": 0.1},
	},
	{
		category:  "business",
		keywords:  []string{"manager", "consultant", "entrepreneur", "business", "hr", "marketing"},
		titleOnly: true,
		weights:   map[string]float64{"verbal": 0.3, "logical": 0.2, "commerce": 0.2, "creative": 0.2, "quant": 0.1},
	},
	{
		category:  "healthcare",
		keywords:  []string{"doctor", "medical", "biomedical", "pharmacist", "biotech"},
		titleOnly: true,
		weights:   map[string]float64{"logical": 0.3, "verbal": 0.3, "quant": 0.2, "technical": 0.2},
	},
}

// defaultAptitudeWeights 未命中任何规则时的通用权重。
var defaultAptitudeWeights = map[string]float64{
	"logical": 0.3, "verbal": 0.3, "quant": 0.2, "technical": 0.2,
}

// interestRules 职业标题/兴趣标签 → 兴趣权重表。
var interestRules = []keywordRule{
	{
		category: "coding",
		keywords: []string{"software", "developer", "programming", "coding", "app"},
		weights:  map[string]float64{"coding": 0.5, "math": 0.2, "science": 0.2, "creative": 0.1},
	},
	{
		category: "design",
		keywords: []string{"designer", "ui", "ux", "design"},
		weights:  map[string]float64{"design": 0.5, "creative": 0.3, "coding": 0.2},
	},
	{
		category: "math",
		keywords: []string{"data", "scientist", "analyst", "math", "statistics"},
		weights:  map[string]float64{"math": 0.4, "coding": 0.3, "science": 0.2, "business": 0.1},
	},
	{
		category:  "engineering",
		keywords:  []string{"engineer", "mechanical", "electrical", "civil"},
		titleOnly: true,
		weights:   map[string]float64{"science": 0.4, "math": 0.3, "coding": 0.2, "creative": 0.1},
	},
	{
		category: "business",
		keywords: []string{"business", "entrepreneur", "marketing", "sales"},
		weights:  map[string]float64{"business": 0.5, "people": 0.3, "creative": 0.2},
	},
	{
		category: "people",
		keywords: []string{"hr", "manager", "consultant", "teacher"},
		weights:  map[string]float64{"people": 0.5, "business": 0.3, "creative": 0.2},
	},
	{
		category:  "science",
		keywords:  []string{"doctor", "medical", "biotech", "pharmacist"},
		titleOnly: true,
		weights:   map[string]float64{"science": 0.5, "math": 0.2, "people": 0.2, "coding": 0.1},
	},
}

// defaultInterestWeights 未命中任何规则时的均匀权重。
var defaultInterestWeights = map[string]float64{
	"math": 0.2, "science": 0.2, "business": 0.2, "people": 0.2, "creative": 0.2,
}

// matchRule 按序评估规则，返回首个命中的权重表。
func matchRule(rules []keywordRule, title, tags string, fallback map[string]float64) map[string]float64 {
	title = strings.ToLower(title)
	tags = strings.ToLower(tags)
	for _, rule := range rules {
		for _, kw := range rule.keywords {
			if strings.Contains(title, kw) {
				return rule.weights
			}
			if !rule.titleOnly && strings.Contains(tags, kw) {
				return rule.weights
			}
		}
	}
	return fallback
}

// AptitudeWeightsFor 返回职业的能力权重表（只看标题）。
func AptitudeWeightsFor(title string) map[string]float64 {
	return matchRule(aptitudeRules, title, "", defaultAptitudeWeights)
}

// InterestWeightsFor 返回职业的兴趣权重表（标题 + 兴趣标签）。
func InterestWeightsFor(title, suitableInterests string) map[string]float64 {
	return matchRule(interestRules, title, suitableInterests, defaultInterestWeights)
}
