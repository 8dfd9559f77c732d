package filter

import (
	"context"

	"github.com/edupath/careerkit/core"
	"github.com/edupath/careerkit/pkg/dsl"
)

// ExprFilter 是表达式过滤器：CEL 表达式求值为 true 的候选会被过滤掉。
//
// 示例：
//   - `candidate.scores.similarity < 0.15` → 剔除低相似度候选
//   - `label.filtered != null` → 剔除已被标记的候选
type ExprFilter struct {
	// Expr CEL 表达式，空表达式不过滤任何候选
	Expr string
}

func NewExprFilter(expr string) *ExprFilter {
	return &ExprFilter{Expr: expr}
}

func (f *ExprFilter) Name() string {
	return "filter.expr"
}

func (f *ExprFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	cand *core.Candidate,
) (bool, error) {
	if f.Expr == "" {
		return false, nil
	}
	ok, err := dsl.NewEval(cand, rctx).Evaluate(f.Expr)
	if err != nil {
		return false, err
	}
	return ok, nil
}

var _ Filter = (*ExprFilter)(nil)
