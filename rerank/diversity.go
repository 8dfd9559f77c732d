package rerank

import (
	"context"

	"github.com/edupath/careerkit/core"
	"github.com/edupath/careerkit/pipeline"
)

// DomainDiversity 是领域多样性重排节点：限制同一职业领域的连续霸榜。
//
// 每个领域最多保留 MaxPerDomain 个候选在原位，超出的候选不丢弃、
// 而是降级挪到队尾（保持相对顺序）。总候选数不变。
//
// 领域来源优先级：
//   - Careers 表中的职业领域
//   - label["domain"].Value
type DomainDiversity struct {
	// MaxPerDomain 每个领域的前排席位数，<=0 时默认 2
	MaxPerDomain int

	// Careers 职业编号 → 记录（用于取领域）
	Careers map[string]*core.CareerRecord
}

func (n *DomainDiversity) Name() string {
	return "rerank.diversity"
}

func (n *DomainDiversity) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *DomainDiversity) Process(
	_ context.Context,
	_ *core.RecommendContext,
	cands []*core.Candidate,
) ([]*core.Candidate, error) {
	if len(cands) == 0 {
		return cands, nil
	}

	maxPer := n.MaxPerDomain
	if maxPer <= 0 {
		maxPer = 2
	}

	counts := make(map[core.Domain]int, 8)
	kept := make([]*core.Candidate, 0, len(cands))
	demoted := make([]*core.Candidate, 0)

	for _, c := range cands {
		if c == nil {
			continue
		}
		d := n.domainOf(c)
		if d == "" {
			kept = append(kept, c)
			continue
		}
		if counts[d] >= maxPer {
			demoted = append(demoted, c)
			continue
		}
		counts[d]++
		kept = append(kept, c)
	}

	return append(kept, demoted...), nil
}

func (n *DomainDiversity) domainOf(c *core.Candidate) core.Domain {
	if n.Careers != nil {
		if career, ok := n.Careers[c.ID]; ok && career.Domain != "" {
			return career.Domain
		}
	}
	if lbl, ok := c.GetLabel("domain"); ok && lbl.Value != "" {
		return core.Domain(lbl.Value)
	}
	return ""
}

var _ pipeline.Node = (*DomainDiversity)(nil)
