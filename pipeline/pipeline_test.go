package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/edupath/careerkit/core"
)

// stubNode 追加一个以自身命名的候选，用于验证执行顺序。
type stubNode struct {
	name string
	kind Kind
	err  error
}

func (n *stubNode) Name() string { return n.name }

func (n *stubNode) Kind() Kind { return n.kind }

func (n *stubNode) Process(_ context.Context, _ *core.RecommendContext, cands []*core.Candidate) ([]*core.Candidate, error) {
	if n.err != nil {
		return nil, n.err
	}
	return append(cands, core.NewCandidate(n.name)), nil
}

func TestPipelineRun(t *testing.T) {
	p := &Pipeline{Nodes: []Node{
		&stubNode{name: "recall", kind: KindRecall},
		&stubNode{name: "rank", kind: KindRank},
		&stubNode{name: "rerank", kind: KindReRank},
	}}

	out, err := p.Run(context.Background(), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"recall", "rank", "rerank"}
	if len(out) != len(want) {
		t.Fatalf("执行结果 %d 条, want %d", len(out), len(want))
	}
	for i, id := range want {
		if out[i].ID != id {
			t.Errorf("节点执行顺序[%d] = %s, want %s", i, out[i].ID, id)
		}
	}
}

func TestPipelineRunError(t *testing.T) {
	boom := errors.New("boom")
	p := &Pipeline{Nodes: []Node{
		&stubNode{name: "recall", kind: KindRecall},
		&stubNode{name: "bad", kind: KindFilter, err: boom},
		&stubNode{name: "never", kind: KindRank},
	}}

	out, err := p.Run(context.Background(), nil, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if out != nil {
		t.Error("出错时应返回 nil 候选")
	}
}

func TestLoadFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	data := `pipeline:
  name: career_recommend
  nodes:
    - type: filter.expr
      config:
        expr: "candidate.score < 5.0"
    - type: rerank.topn
      config:
        n: 3
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromYAML(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Pipeline.Name != "career_recommend" {
		t.Errorf("name = %s", cfg.Pipeline.Name)
	}
	if len(cfg.Pipeline.Nodes) != 2 {
		t.Fatalf("nodes = %d, want 2", len(cfg.Pipeline.Nodes))
	}
	if cfg.Pipeline.Nodes[0].Type != "filter.expr" {
		t.Errorf("nodes[0].type = %s", cfg.Pipeline.Nodes[0].Type)
	}
	if expr, _ := cfg.Pipeline.Nodes[0].Config["expr"].(string); expr != "candidate.score < 5.0" {
		t.Errorf("expr = %q", expr)
	}

	if _, err := LoadFromYAML(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("缺失文件应报错")
	}
}

func TestLoadFromJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.json")
	data := `{"pipeline":{"name":"career_recommend","nodes":[{"type":"rerank.topn","config":{"n":5}}]}}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromJSON(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Pipeline.Nodes) != 1 || cfg.Pipeline.Nodes[0].Type != "rerank.topn" {
		t.Errorf("nodes = %+v", cfg.Pipeline.Nodes)
	}

	// Load 按扩展名分派
	if cfg, err := Load(path); err != nil || cfg.Pipeline.Name != "career_recommend" {
		t.Errorf("Load(.json) = (%+v, %v)", cfg, err)
	}
}

func TestNodeFactory(t *testing.T) {
	f := NewNodeFactory()
	f.Register("stub", func(cfg map[string]interface{}) (Node, error) {
		name, _ := cfg["name"].(string)
		return &stubNode{name: name, kind: KindPostProcess}, nil
	})

	node, err := f.Build("stub", map[string]interface{}{"name": "n1"})
	if err != nil {
		t.Fatal(err)
	}
	if node.Name() != "n1" {
		t.Errorf("node name = %s, want n1", node.Name())
	}

	if _, err := f.Build("nope", nil); err == nil {
		t.Error("未注册类型应报错")
	}
}

func TestBuildPipeline(t *testing.T) {
	f := NewNodeFactory()
	f.Register("stub", func(cfg map[string]interface{}) (Node, error) {
		name, _ := cfg["name"].(string)
		return &stubNode{name: name, kind: KindRank}, nil
	})

	var cfg Config
	cfg.Pipeline.Name = "demo"
	cfg.Pipeline.Nodes = []NodeConfig{
		{Type: "stub", Config: map[string]interface{}{"name": "a"}},
		{Type: "stub", Config: map[string]interface{}{"name": "b"}},
	}

	p, err := cfg.BuildPipeline(f)
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Nodes) != 2 || p.Nodes[0].Name() != "a" || p.Nodes[1].Name() != "b" {
		t.Errorf("pipeline nodes = %d", len(p.Nodes))
	}

	// 未注册类型：构建失败并带上类型名
	cfg.Pipeline.Nodes = append(cfg.Pipeline.Nodes, NodeConfig{Type: "missing"})
	if _, err := cfg.BuildPipeline(f); err == nil {
		t.Error("未注册类型应使构建失败")
	}
}
