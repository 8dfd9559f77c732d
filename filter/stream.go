package filter

import (
	"context"

	"github.com/edupath/careerkit/core"
	"github.com/edupath/careerkit/feature"
)

// StreamFilter 过滤与学生流向不匹配的职业。
// 职业表之外的候选一律保留（缺档不等于不匹配）。
type StreamFilter struct {
	// Careers 职业编号 → 记录
	Careers map[string]*core.CareerRecord
}

func NewStreamFilter(careers map[string]*core.CareerRecord) *StreamFilter {
	return &StreamFilter{Careers: careers}
}

func (f *StreamFilter) Name() string {
	return "filter.stream"
}

func (f *StreamFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	cand *core.Candidate,
) (bool, error) {
	if cand == nil {
		return true, nil
	}
	if rctx == nil || rctx.Student == nil || rctx.Student.Stream == "" {
		return false, nil
	}
	career, ok := f.Careers[cand.ID]
	if !ok || career.StreamTag == "" {
		return false, nil
	}
	return feature.StreamMatch(rctx.Student.Stream, career.StreamTag) == 0, nil
}

var _ Filter = (*StreamFilter)(nil)
