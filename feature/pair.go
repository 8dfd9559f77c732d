// Package feature 提供特征获取与特征注入：
// (学生, 职业) 对特征构建、静态特征服务、Feast 在线特征源、特征注入节点。
package feature

import (
	"strings"

	"github.com/edupath/careerkit/core"
	"github.com/edupath/careerkit/model"
)

// StreamMatch 判断学生流向与职业流向标签是否匹配（1 匹配 / 0 不匹配）。
// 标签含 "both" 视为全流向通吃。
func StreamMatch(stream, streamTag string) float64 {
	tag := strings.ToLower(streamTag)
	if strings.Contains(tag, "both") {
		return 1
	}
	if strings.Contains(tag, strings.ToLower(stream)) {
		return 1
	}
	return 0
}

// PairFeatures 构建 (学生, 职业) 对的排序特征。
// 训练与 serving 共用同一套特征定义，键名与 model.RankerFeatureColumns 对齐。
// studentDomain 为学生的主领域（通常来自领域分类器）。
func PairFeatures(p *core.StudentProfile, career *core.CareerRecord, similarity float64, studentDomain core.Domain) map[string]float64 {
	domainMatch := 0.0
	if career.Domain != "" && career.Domain == studentDomain {
		domainMatch = 1
	}

	// 12th 缺省时回落到 10th
	marks12th := p.Marks12th
	if marks12th <= 0 {
		marks12th = p.Marks10th
	}

	avg := p.AvgAptitude()

	return map[string]float64{
		"similarity":   similarity,
		"stream_match": StreamMatch(p.Stream, career.StreamTag),
		"domain_match": domainMatch,

		"apt_quant":     p.AptQuant,
		"apt_logical":   p.AptLogical,
		"apt_verbal":    p.AptVerbal,
		"apt_creative":  p.AptCreative,
		"apt_technical": p.AptTechnical,
		"apt_commerce":  p.AptCommerce,

		"marks_10th": p.Marks10th,
		"marks_12th": marks12th,

		"avg_aptitude":   avg,
		"tech_score":     p.AptTechnical*0.5 + p.AptLogical*0.3 + p.AptQuant*0.2,
		"business_score": p.AptCommerce*0.5 + p.AptVerbal*0.3 + p.AptLogical*0.2,
		"creative_score": p.AptCreative*0.6 + p.AptVerbal*0.4,
	}
}

// PairVector 按排序模型的列序展开对特征。
func PairVector(features map[string]float64) []float64 {
	return model.FeatureVector(features, model.RankerFeatureColumns)
}
