package model

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/edupath/careerkit/core"
)

// 模型工件文件名（位于模型目录下）。
const (
	RegressorFile  = "domain_regressor.json"
	ClassifierFile = "domain_classifier.json"
)

// DomainFeatureNames 是领域模型的 13 维特征顺序：
// 6 维原始能力 + 4 维统计聚合 + 3 维领域复合分。训练与 serving 必须一致。
var DomainFeatureNames = []string{
	"aptitude_quant",
	"aptitude_logical",
	"aptitude_verbal",
	"aptitude_creative",
	"aptitude_technical",
	"aptitude_commerce",
	"avg_aptitude",
	"max_aptitude",
	"min_aptitude",
	"aptitude_range",
	"tech_score",
	"business_score",
	"creative_score",
}

// BuildDomainFeatures 由六维能力分（标准 key：quant/logical/...）构造全部特征。
// 缺失维度按 0 计，保证任何输入都能产出特征。
func BuildDomainFeatures(aptitudes map[string]float64) map[string]float64 {
	features := map[string]float64{
		"aptitude_quant":     aptitudes[core.AptKeyQuant],
		"aptitude_logical":   aptitudes[core.AptKeyLogical],
		"aptitude_verbal":    aptitudes[core.AptKeyVerbal],
		"aptitude_creative":  aptitudes[core.AptKeyCreative],
		"aptitude_technical": aptitudes[core.AptKeyTechnical],
		"aptitude_commerce":  aptitudes[core.AptKeyCommerce],
	}

	raw := []float64{
		features["aptitude_quant"],
		features["aptitude_logical"],
		features["aptitude_verbal"],
		features["aptitude_creative"],
		features["aptitude_technical"],
		features["aptitude_commerce"],
	}
	sum, max, min := 0.0, raw[0], raw[0]
	for _, v := range raw {
		sum += v
		if v > max {
			max = v
		}
		if v < min {
			min = v
		}
	}
	features["avg_aptitude"] = sum / float64(len(raw))
	features["max_aptitude"] = max
	features["min_aptitude"] = min
	features["aptitude_range"] = max - min

	features["tech_score"] = features["aptitude_technical"]*0.5 +
		features["aptitude_logical"]*0.3 +
		features["aptitude_quant"]*0.2
	features["business_score"] = features["aptitude_commerce"]*0.5 +
		features["aptitude_verbal"]*0.3 +
		features["aptitude_logical"]*0.2
	features["creative_score"] = features["aptitude_creative"]*0.6 +
		features["aptitude_verbal"]*0.4

	return features
}

// FeatureVector 按给定列序将特征 map 展开为向量，缺失列取 0。
func FeatureVector(features map[string]float64, columns []string) []float64 {
	x := make([]float64, len(columns))
	for i, col := range columns {
		x[i] = features[col]
	}
	return x
}

// DomainModel 组合领域回归森林与分类森林。
//
// 设计要点：
//   - Regressor：多输出回归，每个领域一个 0-100 契合度，输出按 core.AllDomains 顺序
//   - Classifier：8 类单标签分类，置信度 = 最大类别概率
//   - 两个模型共享同一 13 维特征
type DomainModel struct {
	Regressor  *Forest
	Classifier *Forest
}

// LoadDomainModel 从目录装载两个模型工件。
// 任一工件缺失返回 NOT_FOUND 领域错误：调用方据此降级到规则打分，而不是失败。
func LoadDomainModel(dir string) (*DomainModel, error) {
	reg, err := LoadForest(filepath.Join(dir, RegressorFile))
	if err != nil {
		return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeNotFound,
			fmt.Sprintf("model: load regressor: %v", err))
	}
	clf, err := LoadForest(filepath.Join(dir, ClassifierFile))
	if err != nil {
		return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeNotFound,
			fmt.Sprintf("model: load classifier: %v", err))
	}

	domains := core.AllDomains()
	if reg.NumOutputs != len(domains) {
		return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeInvalidInput,
			fmt.Sprintf("model: regressor has %d outputs, expected %d", reg.NumOutputs, len(domains)))
	}
	if len(clf.Classes) == 0 {
		return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeInvalidInput,
			"model: classifier artifact has no classes")
	}
	return &DomainModel{Regressor: reg, Classifier: clf}, nil
}

// featureVectorFor 按模型声明的列序（缺省用 DomainFeatureNames）构造输入。
func featureVectorFor(f *Forest, aptitudes map[string]float64) []float64 {
	columns := f.FeatureNames
	if len(columns) == 0 {
		columns = DomainFeatureNames
	}
	return FeatureVector(BuildDomainFeatures(aptitudes), columns)
}

// PredictDomainScores 预测各领域契合度，钳制到 [0, 100]。
// 8 个领域全部在场，即便是中性值。
func (m *DomainModel) PredictDomainScores(aptitudes map[string]float64) (map[core.Domain]float64, error) {
	preds, err := m.Regressor.Predict(featureVectorFor(m.Regressor, aptitudes))
	if err != nil {
		return nil, err
	}
	scores := make(map[core.Domain]float64, len(preds))
	for i, d := range core.AllDomains() {
		v := preds[i]
		if v < 0 {
			v = 0
		}
		if v > 100 {
			v = 100
		}
		scores[d] = v
	}
	return scores, nil
}

// PredictPrimaryDomain 预测主领域与置信度（最大类别概率）。
func (m *DomainModel) PredictPrimaryDomain(aptitudes map[string]float64) (core.Domain, float64, error) {
	probs, err := m.Classifier.Predict(featureVectorFor(m.Classifier, aptitudes))
	if err != nil {
		return "", 0, err
	}
	best, conf := 0, probs[0]
	for i, p := range probs {
		if p > conf {
			best, conf = i, p
		}
	}
	d := core.Domain(m.Classifier.Classes[best])
	if !core.ValidDomain(d) {
		d = core.DefaultDomain
	}
	return d, conf, nil
}

// DomainScore 是带领域名的分数项。
type DomainScore struct {
	Domain core.Domain `json:"domain"`
	Score  float64     `json:"score"`
}

// strengthThreshold 契合度达到此值的领域计为优势领域。
const strengthThreshold = 70.0

// Insights 是面向解释层的领域画像汇总。
type Insights struct {
	PrimaryDomain core.Domain             `json:"primary_domain"`
	Confidence    float64                 `json:"confidence"`
	DomainScores  map[core.Domain]float64 `json:"domain_scores"`
	TopDomains    []DomainScore           `json:"top_domains"`    // 按分数降序的前 3 名
	StrengthAreas []core.Domain           `json:"strength_areas"` // 契合度 ≥70 的领域，按分数降序
}

// DomainInsights 汇总回归与分类输出，供解释/汇总层消费。
func (m *DomainModel) DomainInsights(aptitudes map[string]float64) (*Insights, error) {
	scores, err := m.PredictDomainScores(aptitudes)
	if err != nil {
		return nil, err
	}
	primary, conf, err := m.PredictPrimaryDomain(aptitudes)
	if err != nil {
		return nil, err
	}

	ranked := make([]DomainScore, 0, len(scores))
	for _, d := range core.AllDomains() {
		ranked = append(ranked, DomainScore{Domain: d, Score: scores[d]})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })

	var strengths []core.Domain
	for _, ds := range ranked {
		if ds.Score >= strengthThreshold {
			strengths = append(strengths, ds.Domain)
		}
	}

	top := ranked
	if len(top) > 3 {
		top = top[:3]
	}

	return &Insights{
		PrimaryDomain: primary,
		Confidence:    conf,
		DomainScores:  scores,
		TopDomains:    top,
		StrengthAreas: strengths,
	}, nil
}
