package index

import (
	"context"

	"github.com/edupath/careerkit/core"
)

// ServiceAdapter 将 Flat 适配为 core.VectorService，供召回节点使用。
// Collection 与 Metric 字段被忽略：进程内索引只有一个集合，
// 度量固定为单位向量内积（等价余弦）。
type ServiceAdapter struct {
	Index *Flat
}

// NewServiceAdapter 创建适配器。
func NewServiceAdapter(idx *Flat) *ServiceAdapter {
	return &ServiceAdapter{Index: idx}
}

// Search 实现 core.VectorService。
func (a *ServiceAdapter) Search(_ context.Context, req *core.VectorSearchRequest) (*core.VectorSearchResult, error) {
	if req == nil {
		return nil, core.NewDomainError(core.ModuleVector, core.ErrorCodeInvalidInput,
			"vector search request is nil")
	}
	topK := req.TopK
	if topK <= 0 {
		topK = 10
	}
	ids, scores, err := a.Index.Search(req.Vector, topK)
	if err != nil {
		return nil, err
	}
	items := make([]core.VectorSearchItem, len(ids))
	for i := range ids {
		items[i] = core.VectorSearchItem{ID: ids[i], Score: scores[i]}
	}
	return &core.VectorSearchResult{Items: items}, nil
}

// Close 实现 core.VectorService；进程内索引无连接可关。
func (a *ServiceAdapter) Close() error { return nil }

var _ core.VectorService = (*ServiceAdapter)(nil)
