package filter

import (
	"context"
	"testing"

	"github.com/edupath/careerkit/core"
)

func testCareerTable() map[string]*core.CareerRecord {
	return map[string]*core.CareerRecord{
		"C001": {ID: "C001", Title: "Software Developer", StreamTag: "science", Domain: core.DomainCoding},
		"C010": {ID: "C010", Title: "UI/UX Designer", StreamTag: "both", Domain: core.DomainDesign},
		"C023": {ID: "C023", Title: "Chartered Accountant", StreamTag: "commerce", Domain: core.DomainFinance},
		"C099": {ID: "C099", Title: "Untagged", StreamTag: ""},
	}
}

func rctxWithStream(stream string) *core.RecommendContext {
	return &core.RecommendContext{Student: &core.StudentProfile{Stream: stream}}
}

func TestStreamFilter(t *testing.T) {
	f := NewStreamFilter(testCareerTable())

	tests := []struct {
		name   string
		stream string
		id     string
		want   bool
	}{
		{"流向匹配", "Science", "C001", false},
		{"both 通吃", "Science", "C010", false},
		{"流向不匹配", "Science", "C023", true},
		{"commerce 匹配", "Commerce", "C023", false},
		{"无标签保留", "Science", "C099", false},
		{"表外候选保留", "Science", "C777", false},
		{"学生无流向全保留", "", "C023", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.ShouldFilter(context.Background(), rctxWithStream(tt.stream), core.NewCandidate(tt.id))
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("ShouldFilter(%s, %s) = %v, want %v", tt.stream, tt.id, got, tt.want)
			}
		})
	}
}

func TestExprFilter(t *testing.T) {
	low := core.NewCandidate("C001")
	low.Score = 3.2
	high := core.NewCandidate("C002")
	high.Score = 8.1

	f := NewExprFilter("candidate.score < 5.0")
	if got, _ := f.ShouldFilter(context.Background(), nil, low); !got {
		t.Error("低分候选应被过滤")
	}
	if got, _ := f.ShouldFilter(context.Background(), nil, high); got {
		t.Error("高分候选不应被过滤")
	}

	// 空表达式不过滤
	if got, _ := NewExprFilter("").ShouldFilter(context.Background(), nil, low); got {
		t.Error("空表达式不应过滤任何候选")
	}
}

func TestFilterNode(t *testing.T) {
	node := &FilterNode{Filters: []Filter{
		NewStreamFilter(testCareerTable()),
		NewExprFilter("candidate.score < 2.0"),
	}}

	mk := func(id string, score float64) *core.Candidate {
		c := core.NewCandidate(id)
		c.Score = score
		return c
	}
	cands := []*core.Candidate{
		mk("C001", 7.0), // 保留
		mk("C023", 7.0), // 流向不匹配
		mk("C010", 1.5), // 低分
		nil,             // 跳过
	}

	out, err := node.Process(context.Background(), rctxWithStream("Science"), cands)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0].ID != "C001" {
		t.Fatalf("过滤结果 = %v, want 仅 C001", ids(out))
	}

	// 被过滤候选带上原因标签
	if lbl, ok := cands[1].GetLabel("filtered"); !ok || lbl.Source != "filter.stream" {
		t.Errorf("C023 filtered label = %+v, want source=filter.stream", lbl)
	}
	if lbl, ok := cands[2].GetLabel("filtered"); !ok || lbl.Source != "filter.expr" {
		t.Errorf("C010 filtered label = %+v, want source=filter.expr", lbl)
	}
}

func TestFilterNodeErrorSkipsFilter(t *testing.T) {
	// 表达式非法：该过滤器报错被跳过，候选保留
	node := &FilterNode{Filters: []Filter{NewExprFilter("candidate.score >")}}
	cands := []*core.Candidate{core.NewCandidate("C001")}
	out, err := node.Process(context.Background(), nil, cands)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 {
		t.Errorf("过滤器报错时候选应保留, got %d", len(out))
	}
}

func ids(cands []*core.Candidate) []string {
	out := make([]string, len(cands))
	for i, c := range cands {
		if c != nil {
			out[i] = c.ID
		}
	}
	return out
}
