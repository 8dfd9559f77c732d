package training

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/edupath/careerkit/core"
	"github.com/edupath/careerkit/domains"
	"github.com/edupath/careerkit/feature"
	"github.com/edupath/careerkit/model"
)

// 相关性标签。
const (
	RelevanceBest    = 3 // 最佳匹配职业
	RelevanceDomain  = 2 // 与最佳匹配同领域
	RelevanceAligned = 1 // 能力契合但不同领域
	RelevanceNone    = 0 // 不相关

	alignmentThreshold = 70.0
)

// Pair 是一条 (学生, 职业) 排序训练样本。
type Pair struct {
	StudentID string
	CareerID  string
	Group     string // 学生编号，同组样本必须连续
	Relevance int
	Features  map[string]float64
}

// PairGenerator 生成排序模型的训练对。
type PairGenerator struct {
	Students []StudentRecord
	Careers  []core.CareerRecord

	careerByID map[string]*core.CareerRecord
}

// NewPairGenerator 创建训练对生成器；职业记录缺领域时就地补全。
func NewPairGenerator(students []StudentRecord, careers []core.CareerRecord) *PairGenerator {
	domains.Annotate(careers)
	byID := make(map[string]*core.CareerRecord, len(careers))
	for i := range careers {
		byID[careers[i].ID] = &careers[i]
	}
	return &PairGenerator{Students: students, Careers: careers, careerByID: byID}
}

// Generate 生成全部 (学生, 职业) 对。
// 同一学生的样本连续排列（listwise 训练的分组前提）；
// 每个学生恰有一条 relevance=3 的样本（其最佳匹配职业）。
func (g *PairGenerator) Generate() []Pair {
	pairs := make([]Pair, 0, len(g.Students)*len(g.Careers))
	for i := range g.Students {
		s := &g.Students[i]
		for j := range g.Careers {
			career := &g.Careers[j]
			pairs = append(pairs, Pair{
				StudentID: s.ID,
				CareerID:  career.ID,
				Group:     s.ID,
				Relevance: g.relevance(s, career),
				Features:  g.pairFeatures(s, career),
			})
		}
	}
	return pairs
}

// relevance 计算 (学生, 职业) 对的相关性标签（0-3）。
func (g *PairGenerator) relevance(s *StudentRecord, career *core.CareerRecord) int {
	if career.ID == s.BestCareerID {
		return RelevanceBest
	}
	best, ok := g.careerByID[s.BestCareerID]
	if !ok {
		return g.aptitudeAlignment(s, career)
	}
	if best.Domain != "" && best.Domain == career.Domain {
		return RelevanceDomain
	}
	return g.aptitudeAlignment(s, career)
}

// aptitudeAlignment 按职业领域的能力权重判断契合度（1 契合 / 0 不契合）。
func (g *PairGenerator) aptitudeAlignment(s *StudentRecord, career *core.CareerRecord) int {
	weights := domains.FeatureWeights(career.Domain)
	total := 0.0
	for feat, w := range weights {
		v, ok := s.Aptitudes[feat]
		if !ok {
			v = neutralAptitude
		}
		total += v * w
	}
	if total >= alignmentThreshold {
		return RelevanceAligned
	}
	return RelevanceNone
}

// similarity 用兴趣关键词匹配近似语义相似度（0-1）。
// 离线没有编码服务时的代理指标；在线侧由向量召回给出真实余弦相似度。
func (g *PairGenerator) similarity(s *StudentRecord, career *core.CareerRecord) float64 {
	interests := splitInterests(s.Interests)
	if len(interests) == 0 {
		return 0.5 // 中性
	}
	careerText := strings.ToLower(strings.Join([]string{
		career.SuitableInterests, career.RequiredSkills, career.Title,
	}, " "))

	matches := 0
	for _, interest := range interests {
		if strings.Contains(careerText, interest) {
			matches++
		}
	}
	sim := float64(matches) / float64(len(interests))
	if sim > 1 {
		sim = 1
	}
	return sim
}

// pairFeatures 构建 15 维排序特征（列序与 model.RankerFeatureColumns 对齐）。
func (g *PairGenerator) pairFeatures(s *StudentRecord, career *core.CareerRecord) map[string]float64 {
	aptOf := func(col string) float64 { return s.Aptitudes[col] }
	aptQuant := aptOf("aptitude_quant")
	aptLogical := aptOf("aptitude_logical")
	aptVerbal := aptOf("aptitude_verbal")
	aptCreative := aptOf("aptitude_creative")
	aptTechnical := aptOf("aptitude_technical")
	aptCommerce := aptOf("aptitude_commerce")

	marks12th := s.Marks12th
	if marks12th <= 0 {
		marks12th = s.Marks10th
	}

	domainMatch := 0.0
	if best, ok := g.careerByID[s.BestCareerID]; ok &&
		best.Domain != "" && best.Domain == career.Domain {
		domainMatch = 1
	}

	return map[string]float64{
		"similarity":   g.similarity(s, career),
		"stream_match": feature.StreamMatch(s.Stream, career.StreamTag),
		"domain_match": domainMatch,

		"apt_quant":     aptQuant,
		"apt_logical":   aptLogical,
		"apt_verbal":    aptVerbal,
		"apt_creative":  aptCreative,
		"apt_technical": aptTechnical,
		"apt_commerce":  aptCommerce,

		"marks_10th": s.Marks10th,
		"marks_12th": marks12th,

		"avg_aptitude": (aptQuant + aptLogical + aptVerbal +
			aptCreative + aptTechnical + aptCommerce) / 6.0,
		"tech_score":     aptTechnical*0.5 + aptLogical*0.3 + aptQuant*0.2,
		"business_score": aptCommerce*0.5 + aptVerbal*0.3 + aptLogical*0.2,
		"creative_score": aptCreative*0.6 + aptVerbal*0.4,
	}
}

func splitInterests(s string) []string {
	parts := strings.Split(strings.ToLower(s), ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// SavePairs 把训练对写为 CSV：元信息列 + 15 维特征列。
func SavePairs(pairs []Pair, path string) error {
	header := append([]string{"student_id", "career_id", "group", "relevance"},
		model.RankerFeatureColumns...)
	rows := [][]string{header}
	for i := range pairs {
		p := &pairs[i]
		row := []string{p.StudentID, p.CareerID, p.Group, strconv.Itoa(p.Relevance)}
		for _, v := range model.FeatureVector(p.Features, model.RankerFeatureColumns) {
			row = append(row, strconv.FormatFloat(v, 'f', -1, 64))
		}
		rows = append(rows, row)
	}
	if err := writeCSV(path, rows); err != nil {
		return fmt.Errorf("training: save pairs: %w", err)
	}
	return nil
}

// RankingMetrics 是排序模型的离线评估结果。
type RankingMetrics struct {
	NDCG   float64 // 各组 NDCG@10 的均值（全零组跳过）
	MSE    float64
	Groups int // 参与 NDCG 统计的组数
}

// EvaluateRanking 按学生分组评估预测：NDCG@10（线性增益）+ 全局 MSE。
// groups 为每组的样本数，预测/标签按组连续排列。
func EvaluateRanking(predicted, relevance []float64, groups []int) (*RankingMetrics, error) {
	if len(predicted) != len(relevance) {
		return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeInvalidInput,
			fmt.Sprintf("training: %d predictions for %d labels", len(predicted), len(relevance)))
	}
	total := 0
	for _, g := range groups {
		total += g
	}
	if total != len(predicted) {
		return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeInvalidInput,
			fmt.Sprintf("training: group sizes sum to %d, have %d rows", total, len(predicted)))
	}

	m := &RankingMetrics{}
	sumNDCG := 0.0
	start := 0
	for _, size := range groups {
		end := start + size
		ndcg, ok := ndcgAt(predicted[start:end], relevance[start:end], 10)
		if ok {
			sumNDCG += ndcg
			m.Groups++
		}
		start = end
	}
	if m.Groups > 0 {
		m.NDCG = sumNDCG / float64(m.Groups)
	}

	sumSq := 0.0
	for i := range predicted {
		diff := predicted[i] - relevance[i]
		sumSq += diff * diff
	}
	if len(predicted) > 0 {
		m.MSE = sumSq / float64(len(predicted))
	}
	return m, nil
}

// ndcgAt 计算单组 NDCG@k（线性增益，log2 折扣）。
// 全零相关性的组无法归一化，返回 ok=false 跳过。
func ndcgAt(predicted, relevance []float64, k int) (float64, bool) {
	n := len(relevance)
	if n == 0 {
		return 0, false
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	// 预测分降序；同分保持原样本顺序
	sort.SliceStable(order, func(i, j int) bool {
		return predicted[order[i]] > predicted[order[j]]
	})

	ideal := make([]float64, n)
	copy(ideal, relevance)
	sort.Sort(sort.Reverse(sort.Float64Slice(ideal)))

	dcg := 0.0
	idcg := 0.0
	for i := 0; i < n && i < k; i++ {
		discount := math.Log2(float64(i) + 2)
		dcg += relevance[order[i]] / discount
		idcg += ideal[i] / discount
	}
	if idcg == 0 {
		return 0, false
	}
	return dcg / idcg, true
}
