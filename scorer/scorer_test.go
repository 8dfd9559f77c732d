package scorer

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/edupath/careerkit/core"
	"github.com/edupath/careerkit/model"
)

func writeJSON(t *testing.T, dir, name string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func testCareers() []core.CareerRecord {
	return []core.CareerRecord{
		{ID: "C001", Title: "Software Engineer", SuitableInterests: "coding, math", Domain: core.DomainCoding},
		{ID: "C010", Title: "Chartered Accountant", SuitableInterests: "business, math", Domain: core.DomainFinance},
		{ID: "C020", Title: "UX Designer", SuitableInterests: "design, creative", Domain: core.DomainDesign},
		{ID: "C030", Title: "Marine Biologist", SuitableInterests: "science, nature", Domain: core.DomainHealthcare},
	}
}

func techProfile() *core.StudentProfile {
	return &core.StudentProfile{
		AptQuant: 9, AptLogical: 9, AptVerbal: 6, AptCreative: 4, AptTechnical: 9.5, AptCommerce: 3,
		CodingInterest: 10, MathInterest: 8, ScienceInterest: 6,
		BusinessInterest: 2, DesignInterest: 4, PeopleInterest: 3, CreativeInterest: 4,
	}
}

func TestAptitudeWeightsForMatching(t *testing.T) {
	tests := []struct {
		name  string
		title string
		dim   string // 应占最高权的维度
	}{
		{"software title", "Software Engineer", "technical"},
		{"finance title", "Investment Banker", "commerce"},
		{"design title", "Game Designer", "creative"},
		{"analytics title", "Research Scientist", "quant"},
		{"no match falls back", "Chef", "logical"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := AptitudeWeightsFor(tt.title)
			for dim, v := range w {
				if dim != tt.dim && v > w[tt.dim] {
					t.Errorf("%s: weight[%s]=%v exceeds weight[%s]=%v", tt.title, dim, v, tt.dim, w[tt.dim])
				}
			}
		})
	}
}

func TestInterestWeightsUseTags(t *testing.T) {
	// 标题未命中，但兴趣标签含 coding
	w := InterestWeightsFor("Quant Trader", "coding, math")
	if w["coding"] != 0.5 {
		t.Errorf("tags should match coding rule, got %v", w)
	}
	// engineering 规则只看标题：标签里的 engineer 不应命中
	w = InterestWeightsFor("Chef", "engineer")
	if w["science"] == 0.4 {
		t.Errorf("engineering rule must be title-only, got %v", w)
	}
}

func TestRuleScorerBounds(t *testing.T) {
	s := NewRuleScorer(testCareers())
	profiles := []*core.StudentProfile{
		techProfile(),
		{}, // 全零画像
		{AptQuant: 10, AptLogical: 10, AptVerbal: 10, AptCreative: 10, AptTechnical: 10, AptCommerce: 10,
			CodingInterest: 10, DesignInterest: 10, MathInterest: 10, ScienceInterest: 10,
			BusinessInterest: 10, PeopleInterest: 10, CreativeInterest: 10},
	}
	for _, p := range profiles {
		for _, r := range testCareers() {
			apt := s.AptitudeScore(p, r.ID)
			interest := s.InterestScore(p, r.ID)
			if apt < 0 || apt > 10 {
				t.Errorf("aptitude score %v out of [0,10] for %s", apt, r.ID)
			}
			if interest < 0 || interest > 10 {
				t.Errorf("interest score %v out of [0,10] for %s", interest, r.ID)
			}
			total := s.TotalScore(p, r.ID, 0.8)
			if total < 0 || total > 10 {
				t.Errorf("total score %v out of [0,10] for %s", total, r.ID)
			}
		}
	}
}

func TestRuleScorerUnknownCareerNeutral(t *testing.T) {
	s := NewRuleScorer(testCareers())
	p := techProfile()
	if got := s.AptitudeScore(p, "C999"); got != 5.0 {
		t.Errorf("unknown career aptitude = %v, want neutral 5.0", got)
	}
	if got := s.InterestScore(p, "C999"); got != 5.0 {
		t.Errorf("unknown career interest = %v, want neutral 5.0", got)
	}
}

func TestRuleScorerDeterministic(t *testing.T) {
	p := techProfile()
	var first []float64
	for run := 0; run < 3; run++ {
		s := NewRuleScorer(testCareers())
		var totals []float64
		for _, r := range testCareers() {
			totals = append(totals, s.TotalScore(p, r.ID, 0.73))
		}
		if run == 0 {
			first = totals
			continue
		}
		for i := range totals {
			if totals[i] != first[i] {
				t.Fatalf("run %d total[%d]=%v differs from %v", run, i, totals[i], first[i])
			}
		}
	}
}

func TestScoreCandidatesOrdering(t *testing.T) {
	s := NewRuleScorer(testCareers())
	p := techProfile()
	cands := []*core.Candidate{
		newCandWithSim("C010", 0.30),
		newCandWithSim("C001", 0.92),
		newCandWithSim("C020", 0.50),
	}
	out := s.ScoreCandidates(p, cands)
	if out[0].ID != "C001" {
		t.Errorf("top candidate = %s, want C001", out[0].ID)
	}
	for i := 1; i < len(out); i++ {
		if out[i].Score > out[i-1].Score {
			t.Errorf("candidates not descending at %d: %v > %v", i, out[i].Score, out[i-1].Score)
		}
	}
	lbl, ok := out[0].GetLabel("score_mode")
	if !ok || lbl.Value != "rule" {
		t.Errorf("score_mode label = %+v, want rule", lbl)
	}
	// 分量已写回且保留两位小数
	c := out[0]
	if c.Scores.TotalScore != c.Score {
		t.Errorf("Score %v != TotalScore %v", c.Score, c.Scores.TotalScore)
	}
	if c.Scores.AptitudeScore != Round2(c.Scores.AptitudeScore) {
		t.Errorf("aptitude not rounded: %v", c.Scores.AptitudeScore)
	}
}

func TestBlendFormula(t *testing.T) {
	w := DefaultWeights()
	// 0.6×(0.8×10) + 0.2×7 + 0.2×6 = 4.8 + 1.4 + 1.2 = 7.4
	if got := Blend(w, 0.8, 7, 6); math.Abs(got-7.4) > 1e-9 {
		t.Errorf("Blend = %v, want 7.4", got)
	}
}

func TestMLScorerFallsBackWithoutModel(t *testing.T) {
	records := testCareers()
	ml := NewMLScorer(records, nil)
	rules := NewRuleScorer(records)
	p := techProfile()

	if ml.Name() != "rule" {
		t.Errorf("nil-model name = %s, want rule", ml.Name())
	}
	for _, r := range records {
		if got, want := ml.AptitudeScore(p, r.ID), rules.AptitudeScore(p, r.ID); got != want {
			t.Errorf("%s: fallback aptitude %v != rule %v", r.ID, got, want)
		}
	}

	cands := []*core.Candidate{newCandWithSim("C001", 0.9)}
	out := ml.ScoreCandidates(p, cands)
	if lbl, _ := out[0].GetLabel("score_mode"); lbl.Value != "rule" {
		t.Errorf("fallback score_mode = %v, want rule", lbl.Value)
	}
}

func TestMLScorerUsesDomainFit(t *testing.T) {
	dir := t.TempDir()
	writeScorerDomainModel(t, dir)
	m, err := model.LoadDomainModel(dir)
	if err != nil {
		t.Fatal(err)
	}

	records := testCareers()
	ml := NewMLScorer(records, m)
	p := techProfile()

	// 回归叶子给 coding 域 90 分 → 能力分 9.0
	if got := ml.AptitudeScore(p, "C001"); math.Abs(got-9.0) > 1e-9 {
		t.Errorf("ml aptitude = %v, want 9.0 (domain fit 90/10)", got)
	}

	cands := []*core.Candidate{newCandWithSim("C001", 0.9), newCandWithSim("C010", 0.4)}
	out := ml.ScoreCandidates(p, cands)
	if lbl, _ := out[0].GetLabel("score_mode"); lbl.Value != "ml" {
		t.Errorf("score_mode = %v, want ml", lbl.Value)
	}
	if out[0].ID != "C001" {
		t.Errorf("top = %s, want C001", out[0].ID)
	}
}

func TestInterestOverlap(t *testing.T) {
	tests := []struct {
		name    string
		student string
		career  string
		want    float64
	}{
		{"full overlap", "coding, math", "coding, math", 10},
		{"no overlap", "coding", "business", 0},
		{"substring hit", "code", "coding, design", 10},
		{"partial overlap", "coding, business", "coding, design", 5},
		{"empty student neutral", "", "coding", 5},
		{"empty career neutral", "coding", "", 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InterestOverlap(tt.student, tt.career); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("InterestOverlap(%q, %q) = %v, want %v", tt.student, tt.career, got, tt.want)
			}
		})
	}
}

func newCandWithSim(id string, sim float64) *core.Candidate {
	c := core.NewCandidate(id)
	c.Scores.Similarity = sim
	return c
}

// writeScorerDomainModel 写一个各域固定分数的极简领域模型。
func writeScorerDomainModel(t *testing.T, dir string) {
	t.Helper()
	scores := make([]float64, 8)
	for i, d := range core.AllDomains() {
		switch d {
		case core.DomainCoding:
			scores[i] = 90
		case core.DomainFinance:
			scores[i] = 40
		default:
			scores[i] = 50
		}
	}
	reg := model.Forest{
		NumOutputs: 8,
		Trees:      []model.Tree{{Nodes: []model.TreeNode{{Feature: -1, Values: scores}}}},
	}
	writeJSON(t, dir, model.RegressorFile, &reg)

	classes := make([]string, 0, 8)
	for _, d := range core.AllDomains() {
		classes = append(classes, string(d))
	}
	probs := make([]float64, 8)
	probs[0] = 1.0
	clf := model.Forest{
		NumOutputs: 8,
		Classes:    classes,
		Trees:      []model.Tree{{Nodes: []model.TreeNode{{Feature: -1, Values: probs}}}},
	}
	writeJSON(t, dir, model.ClassifierFile, &clf)
}
