package feature

import (
	"context"
	"math"
	"testing"

	"github.com/edupath/careerkit/core"
	"github.com/edupath/careerkit/model"
)

func TestStreamMatch(t *testing.T) {
	tests := []struct {
		name   string
		stream string
		tag    string
		want   float64
	}{
		{"both matches anything", "Arts", "Both", 1},
		{"science in tag", "Science", "science", 1},
		{"commerce mismatch", "Commerce", "science", 0},
		{"case insensitive", "SCIENCE", "Science/Engineering", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StreamMatch(tt.stream, tt.tag); got != tt.want {
				t.Errorf("StreamMatch(%q, %q) = %v, want %v", tt.stream, tt.tag, got, tt.want)
			}
		})
	}
}

func TestPairFeaturesComplete(t *testing.T) {
	p := &core.StudentProfile{
		Stream:    "Science",
		Marks10th: 8.5, Marks12th: 0, // 12th 缺省 → 回落到 10th
		AptQuant: 9, AptLogical: 8, AptVerbal: 6, AptCreative: 4, AptTechnical: 9, AptCommerce: 3,
	}
	career := &core.CareerRecord{ID: "C001", StreamTag: "Science", Domain: core.DomainCoding}

	f := PairFeatures(p, career, 0.82, core.DomainCoding)

	// 每个排序列都必须有值
	for _, col := range model.RankerFeatureColumns {
		if _, ok := f[col]; !ok {
			t.Errorf("missing feature %q", col)
		}
	}
	if f["similarity"] != 0.82 {
		t.Errorf("similarity = %v", f["similarity"])
	}
	if f["stream_match"] != 1 || f["domain_match"] != 1 {
		t.Errorf("matches = %v/%v, want 1/1", f["stream_match"], f["domain_match"])
	}
	if f["marks_12th"] != 8.5 {
		t.Errorf("marks_12th fallback = %v, want 8.5", f["marks_12th"])
	}
	if want := (9 + 8 + 6 + 4 + 9 + 3) / 6.0; math.Abs(f["avg_aptitude"]-want) > 1e-9 {
		t.Errorf("avg_aptitude = %v, want %v", f["avg_aptitude"], want)
	}
	if want := 9*0.5 + 8*0.3 + 9*0.2; math.Abs(f["tech_score"]-want) > 1e-9 {
		t.Errorf("tech_score = %v, want %v", f["tech_score"], want)
	}
	if want := 4*0.6 + 6*0.4; math.Abs(f["creative_score"]-want) > 1e-9 {
		t.Errorf("creative_score = %v, want %v", f["creative_score"], want)
	}

	// 领域不一致 → domain_match 置 0
	f = PairFeatures(p, career, 0.82, core.DomainFinance)
	if f["domain_match"] != 0 {
		t.Errorf("domain_match = %v, want 0", f["domain_match"])
	}

	vec := PairVector(f)
	if len(vec) != len(model.RankerFeatureColumns) {
		t.Errorf("vector length = %d, want %d", len(vec), len(model.RankerFeatureColumns))
	}
}

func TestCareerFeaturesOneHot(t *testing.T) {
	r := &core.CareerRecord{
		ID:                "C001",
		Domain:            core.DomainCoding,
		StreamTag:         "Science",
		RequiredSkills:    "python, sql, statistics",
		SuitableInterests: "coding, math",
	}
	f := CareerFeatures(r)
	if f["domain_coding"] != 1 {
		t.Errorf("domain_coding = %v, want 1", f["domain_coding"])
	}
	sum := 0.0
	for _, d := range core.AllDomains() {
		sum += f["domain_"+string(d)]
	}
	if sum != 1 {
		t.Errorf("one-hot sum = %v, want 1", sum)
	}
	if f["stream_science"] != 1 || f["stream_commerce"] != 0 {
		t.Errorf("stream flags = %v/%v", f["stream_science"], f["stream_commerce"])
	}
	if f["num_skills"] != 3 || f["num_interests"] != 2 {
		t.Errorf("counts = %v/%v", f["num_skills"], f["num_interests"])
	}
}

func TestStaticServiceLookup(t *testing.T) {
	ctx := context.Background()
	records := []core.CareerRecord{
		{ID: "C001", Domain: core.DomainCoding, StreamTag: "Science"},
		{ID: "C002", Domain: core.DomainFinance, StreamTag: "Commerce"},
	}
	svc := NewCareerTableService(records)

	f, err := svc.GetCareerFeatures(ctx, "C001")
	if err != nil {
		t.Fatal(err)
	}
	if f["domain_coding"] != 1 {
		t.Errorf("career features = %v", f)
	}

	if _, err := svc.GetCareerFeatures(ctx, "C999"); !core.IsNotFound(err) {
		t.Errorf("missing career should be NOT_FOUND, got %v", err)
	}

	batch, err := svc.BatchGetCareerFeatures(ctx, []string{"C001", "C999", "C002"})
	if err != nil {
		t.Fatal(err)
	}
	if len(batch) != 2 {
		t.Errorf("batch returned %d entries, want 2 (missing skipped)", len(batch))
	}

	svc.PutStudentFeatures("s@example.com", map[string]float64{"apt_quant": 9})
	sf, err := svc.GetStudentFeatures(ctx, "s@example.com")
	if err != nil || sf["apt_quant"] != 9 {
		t.Errorf("student features = %v, %v", sf, err)
	}
}

func TestEnrichNodeInjectsFeatures(t *testing.T) {
	ctx := context.Background()
	records := []core.CareerRecord{{ID: "C001", Domain: core.DomainCoding, StreamTag: "Science"}}
	svc := NewCareerTableService(records)

	node := &EnrichNode{FeatureService: svc}
	rctx := &core.RecommendContext{
		Student: &core.StudentProfile{AptQuant: 9, CGPA: 8.2},
	}
	cands := []*core.Candidate{core.NewCandidate("C001"), core.NewCandidate("C999")}

	out, err := node.Process(ctx, rctx, cands)
	if err != nil {
		t.Fatal(err)
	}
	// 学生侧：服务里没有该学生 → 回退到画像展开
	if out[0].Features["student_apt_quant"] != 9 {
		t.Errorf("student feature = %v", out[0].Features["student_apt_quant"])
	}
	if out[0].Features["career_domain_coding"] != 1 {
		t.Errorf("career feature = %v", out[0].Features["career_domain_coding"])
	}
	// 未建档职业只有学生侧特征
	if _, ok := out[1].Features["career_domain_coding"]; ok {
		t.Error("unexpected career feature on unknown candidate")
	}
	if out[1].Features["student_cgpa"] != 8.2 {
		t.Errorf("student feature on unknown candidate = %v", out[1].Features["student_cgpa"])
	}
}
