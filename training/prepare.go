package training

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/edupath/careerkit/core"
	"github.com/edupath/careerkit/domains"
	"github.com/edupath/careerkit/model"
)

// neutralAptitude 缺失能力维度的中性值（学生表量表）。
const neutralAptitude = 50.0

// targetDomainBonus 目标领域的契合度加成。
const targetDomainBonus = 15.0

// Preparator 由学生表与职业表构建领域模型的训练数据。
type Preparator struct {
	Students []StudentRecord
	Careers  map[string]*core.CareerRecord
}

// NewPreparator 创建训练数据构建器；职业表用于 best_career → 领域标签。
func NewPreparator(students []StudentRecord, careers map[string]*core.CareerRecord) *Preparator {
	return &Preparator{Students: students, Careers: careers}
}

// BuildFeatures 构造单个学生的 13 维领域特征。
// 缺失能力维度按中性值补齐后再算聚合/复合特征。
func BuildFeatures(s *StudentRecord) map[string]float64 {
	apts := make(map[string]float64, len(AptitudeColumns))
	for _, c := range AptitudeColumns {
		v, ok := s.Aptitudes[c]
		if !ok {
			v = neutralAptitude
		}
		// 标准 key：aptitude_quant → quant
		apts[c[len("aptitude_"):]] = v
	}
	return model.BuildDomainFeatures(apts)
}

// ClassLabel 返回学生的目标领域标签（best career 的领域）。
// best career 缺失或未建档时回落到默认领域。
func (p *Preparator) ClassLabel(s *StudentRecord) core.Domain {
	if career, ok := p.Careers[s.BestCareerID]; ok && career.Domain != "" {
		return career.Domain
	}
	if s.BestCareerID != "" {
		return domains.CareerDomain(s.BestCareerID)
	}
	return core.DefaultDomain
}

// FitScores 构造学生的八维领域契合度（回归目标，0-100）。
// 契合度 = Σ 权重×能力（缺失维度取中性值）+ 目标领域加成，最后钳制 [0,100]。
func (p *Preparator) FitScores(s *StudentRecord) map[core.Domain]float64 {
	target := p.ClassLabel(s)
	out := make(map[core.Domain]float64, 8)
	for _, d := range core.AllDomains() {
		weights := domains.FeatureWeights(d)
		score := 0.0
		for feat, w := range weights {
			v, ok := s.Aptitudes[feat]
			if !ok {
				v = neutralAptitude
			}
			score += v * w
		}
		if d == target {
			score += targetDomainBonus
		}
		if score < 0 {
			score = 0
		}
		if score > 100 {
			score = 100
		}
		out[d] = score
	}
	return out
}

// Dataset 是领域模型的完整训练数据。
type Dataset struct {
	// X 特征矩阵，列序与 model.DomainFeatureNames 一致
	X [][]float64

	// ClassLabels 分类目标（目标领域），与 X 行对齐
	ClassLabels []core.Domain

	// FitTargets 回归目标矩阵，列序与 core.AllDomains 一致
	FitTargets [][]float64

	// StudentIDs 行 → 学生编号
	StudentIDs []string
}

// Prepare 构建完整训练数据集。
func (p *Preparator) Prepare() *Dataset {
	ds := &Dataset{
		X:           make([][]float64, 0, len(p.Students)),
		ClassLabels: make([]core.Domain, 0, len(p.Students)),
		FitTargets:  make([][]float64, 0, len(p.Students)),
		StudentIDs:  make([]string, 0, len(p.Students)),
	}
	allDomains := core.AllDomains()

	for i := range p.Students {
		s := &p.Students[i]
		features := BuildFeatures(s)
		ds.X = append(ds.X, model.FeatureVector(features, model.DomainFeatureNames))
		ds.ClassLabels = append(ds.ClassLabels, p.ClassLabel(s))

		fits := p.FitScores(s)
		row := make([]float64, len(allDomains))
		for j, d := range allDomains {
			row[j] = fits[d]
		}
		ds.FitTargets = append(ds.FitTargets, row)
		ds.StudentIDs = append(ds.StudentIDs, s.ID)
	}
	return ds
}

// Save 把训练数据落盘为三个 CSV：特征、分类标签、回归目标。
func (ds *Dataset) Save(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("training: create output dir: %w", err)
	}

	featureRows := [][]string{model.DomainFeatureNames}
	for _, row := range ds.X {
		featureRows = append(featureRows, formatRow(row))
	}
	if err := writeCSV(filepath.Join(dir, "training_features.csv"), featureRows); err != nil {
		return err
	}

	classRows := [][]string{{"target_domain"}}
	for _, d := range ds.ClassLabels {
		classRows = append(classRows, []string{string(d)})
	}
	if err := writeCSV(filepath.Join(dir, "training_labels_classification.csv"), classRows); err != nil {
		return err
	}

	header := make([]string, 0, 8)
	for _, d := range core.AllDomains() {
		header = append(header, string(d)+"_fit")
	}
	regRows := [][]string{header}
	for _, row := range ds.FitTargets {
		regRows = append(regRows, formatRow(row))
	}
	return writeCSV(filepath.Join(dir, "training_labels_regression.csv"), regRows)
}

func formatRow(row []float64) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return out
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("training: create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("training: write %s: %w", path, err)
	}
	w.Flush()
	return w.Error()
}
