package core

// Domain 是职业所属的领域分类。
// 固定 8 类，与模型工件里的输出顺序保持一致（见 AllDomains）。
type Domain string

const (
	DomainCoding      Domain = "coding"
	DomainAnalytics   Domain = "analytics"
	DomainDesign      Domain = "design"
	DomainEngineering Domain = "engineering"
	DomainHealthcare  Domain = "healthcare"
	DomainFinance     Domain = "finance"
	DomainBusiness    Domain = "business"
	DomainOperations  Domain = "operations"

	// DefaultDomain 是未建档职业的兜底领域。
	DefaultDomain = DomainBusiness
)

// AllDomains 返回固定顺序的领域列表。
// 模型的多输出回归按此顺序对齐，不可改动顺序。
func AllDomains() []Domain {
	return []Domain{
		DomainCoding,
		DomainAnalytics,
		DomainDesign,
		DomainEngineering,
		DomainHealthcare,
		DomainFinance,
		DomainBusiness,
		DomainOperations,
	}
}

// ValidDomain 检查领域取值是否在固定 8 类之内。
func ValidDomain(d Domain) bool {
	switch d {
	case DomainCoding, DomainAnalytics, DomainDesign, DomainEngineering,
		DomainHealthcare, DomainFinance, DomainBusiness, DomainOperations:
		return true
	default:
		return false
	}
}

// CareerRecord 是职业表中的一行：编号、文案字段与流向标签。
// 文案字段参与检索文本构建；StreamTag 参与理科/商科的可行性过滤。
type CareerRecord struct {
	ID                string `json:"career_id"`
	Title             string `json:"title"`
	Description       string `json:"description"`
	RequiredSkills    string `json:"required_skills"`
	SuitableInterests string `json:"suitable_interests"`
	EducationPath     string `json:"education_path"`
	StreamTag         string `json:"stream_tag"` // science / commerce / both ...
	Domain            Domain `json:"domain"`
}
