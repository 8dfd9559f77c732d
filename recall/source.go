// Package recall 提供候选召回：语义向量召回、流向召回以及并发 Fanout 合并。
package recall

import (
	"context"

	"github.com/edupath/careerkit/core"
)

// Source 是召回源的抽象接口：根据请求上下文产出候选集。
type Source interface {
	// Name 返回召回源名称（用于 label / 观测）
	Name() string

	// Recall 执行召回
	Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Candidate, error)
}
