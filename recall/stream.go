package recall

import (
	"context"

	"github.com/edupath/careerkit/core"
	"github.com/edupath/careerkit/feature"
)

// StreamRecall 是流向召回源：召回与学生流向匹配的职业。
// 作为语义召回的补充，保证同流向职业不因文本表述差异漏召。
type StreamRecall struct {
	// Careers 全量职业表
	Careers []core.CareerRecord

	// MaxCandidates 最多召回数量，<=0 不限制
	MaxCandidates int
}

func (r *StreamRecall) Name() string { return "recall.stream" }

func (r *StreamRecall) Recall(
	_ context.Context,
	rctx *core.RecommendContext,
) ([]*core.Candidate, error) {
	if rctx == nil || rctx.Student == nil || rctx.Student.Stream == "" {
		return nil, nil
	}

	stream := rctx.Student.Stream
	cands := make([]*core.Candidate, 0, len(r.Careers))
	for i := range r.Careers {
		career := &r.Careers[i]
		if career.StreamTag == "" {
			continue
		}
		if feature.StreamMatch(stream, career.StreamTag) == 0 {
			continue
		}
		cands = append(cands, core.NewCandidate(career.ID))
		if r.MaxCandidates > 0 && len(cands) >= r.MaxCandidates {
			break
		}
	}
	return cands, nil
}

var _ Source = (*StreamRecall)(nil)
