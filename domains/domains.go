// Package domains 维护职业→领域的静态映射与各领域的能力权重表。
// 这些表既是规则打分的依据，也是离线合成训练标签的依据。
package domains

import "github.com/edupath/careerkit/core"

// careerDomainMap 职业编号 → 主领域。
// 未收录的职业统一落到 core.DefaultDomain。
var careerDomainMap = map[string]core.Domain{
	// coding：软件、Web、移动开发
	"C001": core.DomainCoding, // Software Developer
	"C002": core.DomainCoding, // Web Developer
	"C004": core.DomainCoding, // ML Engineer
	"C005": core.DomainCoding, // Cybersecurity
	"C006": core.DomainCoding, // Cloud Engineer
	"C007": core.DomainCoding, // DevOps Engineer
	"C008": core.DomainCoding, // Mobile Developer
	"C009": core.DomainCoding, // Game Developer

	// analytics：数据科学、分析、研究
	"C003": core.DomainAnalytics, // Data Scientist
	"C016": core.DomainAnalytics, // AI Researcher
	"C021": core.DomainAnalytics, // Data Analyst
	"C027": core.DomainAnalytics, // Financial Analyst
	"C030": core.DomainAnalytics, // Stock Market Analyst
	"C035": core.DomainAnalytics, // Economist

	// design
	"C010": core.DomainDesign, // UI/UX Designer

	// engineering：硬件、机械、电气
	"C011": core.DomainEngineering, // Electronics Engineer
	"C012": core.DomainEngineering, // Electrical Engineer
	"C013": core.DomainEngineering, // Mechanical Engineer
	"C014": core.DomainEngineering, // Civil Engineer
	"C015": core.DomainEngineering, // Robotics Engineer
	"C018": core.DomainEngineering, // Biomedical Engineer

	// healthcare
	"C017": core.DomainHealthcare, // Doctor
	"C019": core.DomainHealthcare, // Pharmacist
	"C020": core.DomainHealthcare, // Biotechnologist

	// finance
	"C023": core.DomainFinance, // CA
	"C024": core.DomainFinance, // Cost Accountant
	"C025": core.DomainFinance, // Company Secretary
	"C026": core.DomainFinance, // Investment Banker
	"C028": core.DomainFinance, // Tax Consultant
	"C029": core.DomainFinance, // Auditor
	"C039": core.DomainFinance, // Bank PO

	// business：管理、市场、HR
	"C022": core.DomainBusiness, // Business Analyst
	"C031": core.DomainBusiness, // Entrepreneur
	"C032": core.DomainBusiness, // Marketing Manager
	"C033": core.DomainBusiness, // Digital Marketer
	"C034": core.DomainBusiness, // HR Manager
	"C036": core.DomainBusiness, // Management Consultant
	"C040": core.DomainBusiness, // Business Developer

	// operations：供应链、运营
	"C037": core.DomainOperations, // Operations Manager
	"C038": core.DomainOperations, // Supply Chain Analyst
}

// domainFeatureWeights 各领域的能力特征权重。
// key 使用模型特征名（aptitude_ 前缀），与 model 包的 13 维特征对齐。
var domainFeatureWeights = map[core.Domain]map[string]float64{
	core.DomainCoding: {
		"aptitude_technical": 0.35,
		"aptitude_logical":   0.30,
		"aptitude_quant":     0.25,
		"aptitude_verbal":    0.05,
		"aptitude_creative":  0.05,
	},
	core.DomainAnalytics: {
		"aptitude_quant":     0.35,
		"aptitude_logical":   0.30,
		"aptitude_technical": 0.20,
		"aptitude_verbal":    0.10,
		"aptitude_creative":  0.05,
	},
	core.DomainDesign: {
		"aptitude_creative":  0.40,
		"aptitude_verbal":    0.25,
		"aptitude_technical": 0.20,
		"aptitude_logical":   0.10,
		"aptitude_quant":     0.05,
	},
	core.DomainEngineering: {
		"aptitude_technical": 0.30,
		"aptitude_quant":     0.25,
		"aptitude_logical":   0.25,
		"aptitude_creative":  0.15,
		"aptitude_verbal":    0.05,
	},
	core.DomainHealthcare: {
		"aptitude_verbal":    0.30,
		"aptitude_quant":     0.25,
		"aptitude_logical":   0.20,
		"aptitude_technical": 0.15,
		"aptitude_creative":  0.10,
	},
	core.DomainFinance: {
		"aptitude_quant":     0.35,
		"aptitude_commerce":  0.30,
		"aptitude_logical":   0.20,
		"aptitude_verbal":    0.10,
		"aptitude_technical": 0.05,
	},
	core.DomainBusiness: {
		"aptitude_verbal":   0.30,
		"aptitude_commerce": 0.25,
		"aptitude_logical":  0.20,
		"aptitude_creative": 0.15,
		"aptitude_quant":    0.10,
	},
	core.DomainOperations: {
		"aptitude_logical":   0.30,
		"aptitude_quant":     0.25,
		"aptitude_commerce":  0.20,
		"aptitude_verbal":    0.15,
		"aptitude_technical": 0.10,
	},
}

// CareerDomain 返回职业的主领域，未收录时返回 core.DefaultDomain。
func CareerDomain(careerID string) core.Domain {
	if d, ok := careerDomainMap[careerID]; ok {
		return d
	}
	return core.DefaultDomain
}

// FeatureWeights 返回领域的能力特征权重表；未知领域返回 nil。
// 返回的是内部表的拷贝，调用方可安全修改。
func FeatureWeights(d core.Domain) map[string]float64 {
	w, ok := domainFeatureWeights[d]
	if !ok {
		return nil
	}
	out := make(map[string]float64, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}

// DomainCareers 返回映射表中属于某领域的全部职业编号（顺序不保证）。
func DomainCareers(d core.Domain) []string {
	var ids []string
	for id, dom := range careerDomainMap {
		if dom == d {
			ids = append(ids, id)
		}
	}
	return ids
}

// Annotate 为职业记录补全领域字段（仅填充缺失项）。
func Annotate(records []core.CareerRecord) {
	for i := range records {
		if records[i].Domain == "" {
			records[i].Domain = CareerDomain(records[i].ID)
		}
	}
}
