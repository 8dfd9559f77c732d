// Package profile 将松散的表单输入标准化为 core.StudentProfile，
// 并负责构建用于语义召回的查询文本。
package profile

// Form 是原始表单的显式 schema：所有字段可缺省。
// 数值字段声明为 any，兼容前端传来的 number / 字符串 / null，
// 统一在 Normalizer 里转换，松散 map 不允许越过标准化边界。
type Form struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	Stream     string `json:"stream"`
	ClassLevel string `json:"classLevel"`

	Marks10th any `json:"marks10th"`
	Marks12th any `json:"marks12th"` // 10th 在读学生可缺省

	MathsPercent    any `json:"mathsPercent"`
	SciencePercent  any `json:"sciencePercent"`
	CommercePercent any `json:"commercePercent"`
	EnglishPercent  any `json:"englishPercent"`
	CSITPercent     any `json:"csItPercent"`

	// Interests 1-5 量表：coding / design / math / science / business / people / creative
	Interests map[string]any `json:"interests"`

	// Aptitude 0-10 量表：quantitative / logical / verbal / creative / technical / commerce
	Aptitude map[string]any `json:"aptitude"`

	DreamText string `json:"dreamText"`
}
