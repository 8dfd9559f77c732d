package training

import (
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/edupath/careerkit/core"
	"github.com/edupath/careerkit/model"
)

func testCareerList() []core.CareerRecord {
	table := testCareerTable()
	out := make([]core.CareerRecord, 0, len(table))
	for _, id := range []string{"C001", "C002", "C023", "C010"} {
		out = append(out, *table[id])
	}
	return out
}

func TestGeneratePairsShape(t *testing.T) {
	students := testStudents()
	careers := testCareerList()
	pairs := NewPairGenerator(students, careers).Generate()

	if len(pairs) != len(students)*len(careers) {
		t.Fatalf("对数 = %d, want %d", len(pairs), len(students)*len(careers))
	}

	// 同组样本必须连续
	seen := map[string]bool{}
	last := ""
	for _, p := range pairs {
		if p.Group != last {
			if seen[p.Group] {
				t.Fatalf("组 %s 不连续", p.Group)
			}
			seen[p.Group] = true
			last = p.Group
		}
	}

	// 每条样本都带全部 15 维特征
	for _, col := range model.RankerFeatureColumns {
		if _, ok := pairs[0].Features[col]; !ok {
			t.Errorf("缺少特征列 %s", col)
		}
	}
}

func TestPairRelevance(t *testing.T) {
	pairs := NewPairGenerator(testStudents(), testCareerList()).Generate()

	byKey := map[string]Pair{}
	for _, p := range pairs {
		byKey[p.StudentID+"/"+p.CareerID] = p
	}

	tests := []struct {
		name string
		key  string
		want int
	}{
		{"最佳匹配", "S1/C001", RelevanceBest},
		{"同领域", "S1/C002", RelevanceDomain},
		// S1 对 finance 的加权能力 = 70.5 ≥ 70
		{"能力契合", "S1/C023", RelevanceAligned},
		// S2 对 coding 的加权能力 = 57.25 < 70
		{"不契合", "S2/C001", RelevanceNone},
		{"S2 最佳匹配", "S2/C023", RelevanceBest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := byKey[tt.key].Relevance; got != tt.want {
				t.Errorf("relevance(%s) = %d, want %d", tt.key, got, tt.want)
			}
		})
	}

	// 每个学生恰有一条 relevance=3
	counts := map[string]int{}
	for _, p := range pairs {
		if p.Relevance == RelevanceBest {
			counts[p.StudentID]++
		}
	}
	for _, s := range testStudents() {
		if counts[s.ID] != 1 {
			t.Errorf("学生 %s 有 %d 条最佳匹配, want 1", s.ID, counts[s.ID])
		}
	}
}

func TestPairRelevanceBestMissing(t *testing.T) {
	students := []StudentRecord{{
		ID: "S9", Stream: "Science",
		Aptitudes: map[string]float64{
			"aptitude_quant": 90, "aptitude_logical": 90, "aptitude_verbal": 60,
			"aptitude_creative": 50, "aptitude_technical": 90, "aptitude_commerce": 40,
		},
		BestCareerID: "C999", // 职业表里不存在
	}}
	pairs := NewPairGenerator(students, testCareerList()).Generate()
	for _, p := range pairs {
		if p.Relevance == RelevanceBest || p.Relevance == RelevanceDomain {
			t.Errorf("最佳匹配缺档时 %s 不应得到 %d", p.CareerID, p.Relevance)
		}
	}
}

func TestPairSimilarity(t *testing.T) {
	g := NewPairGenerator(nil, testCareerList())
	c001 := &g.Careers[0]

	tests := []struct {
		name      string
		interests string
		want      float64
	}{
		{"全部命中", "coding, technology", 1.0},
		{"部分命中", "music, coding", 0.5},
		{"无命中", "music, dance", 0.0},
		{"空兴趣取中性值", "", 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &StudentRecord{ID: "S", Interests: tt.interests}
			if got := g.similarity(s, c001); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("similarity(%q) = %v, want %v", tt.interests, got, tt.want)
			}
		})
	}
}

func TestPairFeatureValues(t *testing.T) {
	pairs := NewPairGenerator(testStudents(), testCareerList()).Generate()
	byKey := map[string]Pair{}
	for _, p := range pairs {
		byKey[p.StudentID+"/"+p.CareerID] = p
	}

	f := byKey["S1/C002"].Features
	if f["stream_match"] != 1 {
		t.Errorf("Science 对 science 标签 stream_match = %v, want 1", f["stream_match"])
	}
	if f["domain_match"] != 1 {
		t.Errorf("C002 与最佳匹配同领域 domain_match = %v, want 1", f["domain_match"])
	}
	if f["apt_technical"] != 95 || f["marks_10th"] != 85 || f["marks_12th"] != 88 {
		t.Errorf("原始量表特征错误: %v", f)
	}
	// tech_score = 95×.5 + 90×.3 + 85×.2 = 91.5
	if math.Abs(f["tech_score"]-91.5) > 1e-9 {
		t.Errorf("tech_score = %v, want 91.5", f["tech_score"])
	}

	// S2 十二年级成绩缺失：回落到十年级
	f2 := byKey["S2/C023"].Features
	if f2["marks_12th"] != f2["marks_10th"] {
		t.Errorf("marks_12th 缺失应回落, got %v / %v", f2["marks_12th"], f2["marks_10th"])
	}
	if f2["stream_match"] != 1 {
		t.Errorf("Commerce 对 commerce 标签 stream_match = %v, want 1", f2["stream_match"])
	}
	if byKey["S2/C001"].Features["stream_match"] != 0 {
		t.Error("Commerce 对 science 标签应不匹配")
	}
}

func TestSavePairs(t *testing.T) {
	pairs := NewPairGenerator(testStudents(), testCareerList()).Generate()
	path := filepath.Join(t.TempDir(), "ranking_pairs.csv")
	if err := SavePairs(pairs, path); err != nil {
		t.Fatalf("SavePairs() error = %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != len(pairs)+1 {
		t.Errorf("CSV 行数 = %d, want %d", len(rows), len(pairs)+1)
	}
	if len(rows[0]) != 4+len(model.RankerFeatureColumns) {
		t.Errorf("表头列数 = %d, want %d", len(rows[0]), 4+len(model.RankerFeatureColumns))
	}
}

func TestEvaluateRanking(t *testing.T) {
	// 两组：第一组完美排序，第二组全零（跳过 NDCG 但计入 MSE）
	predicted := []float64{3, 2, 1, 0.5, 0.5}
	relevance := []float64{3, 2, 1, 0, 0}
	m, err := EvaluateRanking(predicted, relevance, []int{3, 2})
	if err != nil {
		t.Fatalf("EvaluateRanking() error = %v", err)
	}
	if m.Groups != 1 {
		t.Errorf("全零组应跳过, Groups = %d, want 1", m.Groups)
	}
	if math.Abs(m.NDCG-1.0) > 1e-9 {
		t.Errorf("完美排序 NDCG = %v, want 1.0", m.NDCG)
	}
	// MSE = (0+0+0+0.25+0.25)/5 = 0.1
	if math.Abs(m.MSE-0.1) > 1e-9 {
		t.Errorf("MSE = %v, want 0.1", m.MSE)
	}
}

func TestEvaluateRankingReversed(t *testing.T) {
	// 单组逆序：rel=[3,2,0]、预测 [0,1,2] → 展示序 [0,2,3]
	m, err := EvaluateRanking([]float64{0, 1, 2}, []float64{3, 2, 0}, []int{3})
	if err != nil {
		t.Fatal(err)
	}
	// DCG = 0/1 + 2/log2(3) + 3/2; IDCG = 3/1 + 2/log2(3)
	dcg := 2/math.Log2(3) + 1.5
	idcg := 3 + 2/math.Log2(3)
	if math.Abs(m.NDCG-dcg/idcg) > 1e-9 {
		t.Errorf("NDCG = %v, want %v", m.NDCG, dcg/idcg)
	}
}

func TestEvaluateRankingErrors(t *testing.T) {
	if _, err := EvaluateRanking([]float64{1}, []float64{1, 2}, []int{2}); err == nil {
		t.Error("长度不一致应返回错误")
	}
	if _, err := EvaluateRanking([]float64{1, 2}, []float64{1, 2}, []int{3}); err == nil {
		t.Error("组大小总和不符应返回错误")
	}
}
