package rerank

import (
	"context"
	"testing"

	"github.com/edupath/careerkit/core"
	"github.com/edupath/careerkit/pkg/utils"
)

func mk(id string) *core.Candidate { return core.NewCandidate(id) }

func idsOf(cands []*core.Candidate) []string {
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.ID
	}
	return out
}

func assertOrder(t *testing.T, got []*core.Candidate, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("长度 = %d, want %d (%v)", len(got), len(want), idsOf(got))
	}
	for i := range want {
		if got[i].ID != want[i] {
			t.Fatalf("顺序 = %v, want %v", idsOf(got), want)
		}
	}
}

func TestTopNNode(t *testing.T) {
	cands := []*core.Candidate{mk("a"), mk("b"), mk("c")}

	tests := []struct {
		name string
		n    int
		want int
	}{
		{"正常截断", 2, 2},
		{"超过库容", 10, 3},
		{"零不截断", 0, 3},
		{"负数不截断", -1, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := &TopNNode{N: tt.n}
			out, err := node.Process(context.Background(), nil, cands)
			if err != nil {
				t.Fatal(err)
			}
			if len(out) != tt.want {
				t.Errorf("N=%d 返回 %d 条, want %d", tt.n, len(out), tt.want)
			}
		})
	}
}

func TestDomainDiversity(t *testing.T) {
	careers := map[string]*core.CareerRecord{
		"C001": {ID: "C001", Domain: core.DomainCoding},
		"C002": {ID: "C002", Domain: core.DomainCoding},
		"C004": {ID: "C004", Domain: core.DomainCoding},
		"C010": {ID: "C010", Domain: core.DomainDesign},
		"C023": {ID: "C023", Domain: core.DomainFinance},
	}
	node := &DomainDiversity{MaxPerDomain: 2, Careers: careers}

	cands := []*core.Candidate{mk("C001"), mk("C002"), mk("C004"), mk("C010"), mk("C023")}
	out, err := node.Process(context.Background(), nil, cands)
	if err != nil {
		t.Fatal(err)
	}
	// coding 第 3 个（C004）降级到队尾；总数不变，相对顺序保持
	assertOrder(t, out, []string{"C001", "C002", "C010", "C023", "C004"})
}

func TestDomainDiversityDefaults(t *testing.T) {
	// MaxPerDomain<=0 默认 2；领域取自 domain label
	node := &DomainDiversity{}
	withDomain := func(id, d string) *core.Candidate {
		c := mk(id)
		c.PutLabel("domain", utils.Label{Value: d, Source: "test"})
		return c
	}
	cands := []*core.Candidate{
		withDomain("a", "coding"),
		withDomain("b", "coding"),
		withDomain("c", "coding"),
		withDomain("d", "design"),
	}
	out, err := node.Process(context.Background(), nil, cands)
	if err != nil {
		t.Fatal(err)
	}
	assertOrder(t, out, []string{"a", "b", "d", "c"})
}

func TestDomainDiversityUnknownDomainKept(t *testing.T) {
	node := &DomainDiversity{MaxPerDomain: 1}
	cands := []*core.Candidate{mk("x"), mk("y"), mk("z")}
	out, err := node.Process(context.Background(), nil, cands)
	if err != nil {
		t.Fatal(err)
	}
	// 无领域信息的候选不参与配额
	assertOrder(t, out, []string{"x", "y", "z"})
}
