package core

// StudentProfile 是标准化后的学生画像。
//
// 一句话定义：学生画像 = 推荐 Pipeline 的"全局上下文 + 特征源 + 决策信号"
//
// 它不是某一个 Node，而是：
//   - 被所有 Node 共享
//   - 驱动 Recall / Filter / Rank
//   - 各维度分数在进入前已被归一化（见 profile.Normalizer）
//
// 设计要点：
//  维度          区间      作用
//  兴趣          0-10     查询文本构建 / 兴趣分
//  能力倾向      0-10     能力分 / 领域模型特征
//  学科成绩      0-10     学业匹配解释
//  CGPA          0-10     学业匹配解释
type StudentProfile struct {
	// 元信息
	Email      string
	Name       string
	Stream     string // Science / Commerce / Arts ...
	ClassLevel string // 10th / 12th

	// 学业成绩（0-10）
	CGPA        float64
	Marks10th   float64
	Marks12th   float64
	MathsPct    float64
	SciencePct  float64
	CommercePct float64
	EnglishPct  float64
	CSITPct     float64

	// 兴趣（0-10）
	CodingInterest   float64
	DesignInterest   float64
	MathInterest     float64
	ScienceInterest  float64
	BusinessInterest float64
	PeopleInterest   float64
	CreativeInterest float64

	// 能力倾向（0-10）
	AptQuant     float64
	AptLogical   float64
	AptVerbal    float64
	AptCreative  float64
	AptTechnical float64
	AptCommerce  float64

	// 清洗后的自由文本（志向描述）
	GoalText string
}

// 能力倾向的标准 key，模型特征与规则权重表都按这些 key 对齐。
const (
	AptKeyQuant     = "quant"
	AptKeyLogical   = "logical"
	AptKeyVerbal    = "verbal"
	AptKeyCreative  = "creative"
	AptKeyTechnical = "technical"
	AptKeyCommerce  = "commerce"
)

// 兴趣维度的标准 key。
const (
	InterestKeyCoding   = "coding"
	InterestKeyDesign   = "design"
	InterestKeyMath     = "math"
	InterestKeyScience  = "science"
	InterestKeyBusiness = "business"
	InterestKeyPeople   = "people"
	InterestKeyCreative = "creative"
)

// Aptitudes 以标准 key 返回六维能力倾向。
func (p *StudentProfile) Aptitudes() map[string]float64 {
	return map[string]float64{
		AptKeyQuant:     p.AptQuant,
		AptKeyLogical:   p.AptLogical,
		AptKeyVerbal:    p.AptVerbal,
		AptKeyCreative:  p.AptCreative,
		AptKeyTechnical: p.AptTechnical,
		AptKeyCommerce:  p.AptCommerce,
	}
}

// Interests 以标准 key 返回七维兴趣分。
func (p *StudentProfile) Interests() map[string]float64 {
	return map[string]float64{
		InterestKeyCoding:   p.CodingInterest,
		InterestKeyDesign:   p.DesignInterest,
		InterestKeyMath:     p.MathInterest,
		InterestKeyScience:  p.ScienceInterest,
		InterestKeyBusiness: p.BusinessInterest,
		InterestKeyPeople:   p.PeopleInterest,
		InterestKeyCreative: p.CreativeInterest,
	}
}

// AvgAptitude 返回六维能力倾向的平均值。
func (p *StudentProfile) AvgAptitude() float64 {
	return (p.AptQuant + p.AptLogical + p.AptVerbal +
		p.AptCreative + p.AptTechnical + p.AptCommerce) / 6.0
}
