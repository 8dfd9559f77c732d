package profile

import (
	"regexp"
	"strings"

	"github.com/edupath/careerkit/core"
	"github.com/edupath/careerkit/pkg/conv"
)

var (
	spaceRe = regexp.MustCompile(`\s+`)
	charRe  = regexp.MustCompile(`[^\w\s.,!?-]`)
)

// CleanText 清洗自由文本：小写、折叠空白、去除 .,!?- 之外的标点。
func CleanText(text string) string {
	if text == "" {
		return ""
	}
	text = strings.ToLower(text)
	text = spaceRe.ReplaceAllString(text, " ")
	text = charRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// NormalizeScore 将任意输入归一到 0-10。
//   - nil / 不可解析 → 0
//   - 声明量表为 0-10 而输入 >10 时，视为百分制输入，按 (v/100)*10 换算
//   - 最终钳制在 [0, 10]
//
// 任何输入都不报错：标准化边界保证"总能产出画像"。
func NormalizeScore(v any, maxValue float64) float64 {
	f, ok := conv.ToFloat64(v)
	if !ok {
		return 0
	}
	if f > maxValue && maxValue == 10 && f > 10 {
		f = (f / 100) * 10
	}
	if f < 0 {
		return 0
	}
	if f > 10 {
		return 10
	}
	return f
}

// Normalizer 将 Form 转换为标准化的 core.StudentProfile。
// 纯函数、无副作用；字段缺失一律落到中性零值。
type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Process 标准化表单。
// cgpa = 10th/12th 两档均值；12th 缺省（<=0）时退化为 10th 单值。
func (n *Normalizer) Process(form *Form) *core.StudentProfile {
	if form == nil {
		form = &Form{}
	}

	marks10th := NormalizeScore(form.Marks10th, 100)
	marks12th := NormalizeScore(form.Marks12th, 100)
	cgpa := marks10th
	if marks12th > 0 {
		cgpa = (marks10th + marks12th) / 2
	}

	interest := func(key string) float64 {
		// 兴趣为 1-5 量表，×2 归到 0-10
		return NormalizeScore(mapGet(form.Interests, key), 5) * 2
	}
	aptitude := func(key string) float64 {
		return NormalizeScore(mapGet(form.Aptitude, key), 10)
	}

	return &core.StudentProfile{
		Email:      form.Email,
		Name:       form.Name,
		Stream:     form.Stream,
		ClassLevel: form.ClassLevel,

		CGPA:        cgpa,
		Marks10th:   marks10th,
		Marks12th:   marks12th,
		MathsPct:    NormalizeScore(form.MathsPercent, 100),
		SciencePct:  NormalizeScore(form.SciencePercent, 100),
		CommercePct: NormalizeScore(form.CommercePercent, 100),
		EnglishPct:  NormalizeScore(form.EnglishPercent, 100),
		CSITPct:     NormalizeScore(form.CSITPercent, 100),

		CodingInterest:   interest("coding"),
		DesignInterest:   interest("design"),
		MathInterest:     interest("math"),
		ScienceInterest:  interest("science"),
		BusinessInterest: interest("business"),
		PeopleInterest:   interest("people"),
		CreativeInterest: interest("creative"),

		AptQuant:     aptitude("quantitative"),
		AptLogical:   aptitude("logical"),
		AptVerbal:    aptitude("verbal"),
		AptCreative:  aptitude("creative"),
		AptTechnical: aptitude("technical"),
		AptCommerce:  aptitude("commerce"),

		GoalText: CleanText(form.DreamText),
	}
}

func mapGet(m map[string]any, key string) any {
	if m == nil {
		return nil
	}
	return m[key]
}
