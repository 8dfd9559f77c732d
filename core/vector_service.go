package core

import "context"

// VectorService 是向量检索服务的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（index）实现
//   - 遵循依赖倒置原则：领域层定义接口，基础设施层实现接口
//   - 避免循环依赖：领域层不依赖基础设施层
//
// 使用场景（召回场景专用）：
//   - 语义召回：根据学生查询向量检索职业向量
//   - 其他需要向量检索的召回场景
//
// 实现：
//   - index.ServiceAdapter（进程内平铺内积索引）实现此接口
//   - 外部向量数据库也可以实现此接口
type VectorService interface {
	// Search 向量搜索
	Search(ctx context.Context, req *VectorSearchRequest) (*VectorSearchResult, error)

	// Close 关闭连接
	Close() error
}

// VectorSearchRequest 向量搜索请求
type VectorSearchRequest struct {
	// Collection 集合名称（进程内索引可忽略）
	Collection string

	// Vector 查询向量
	Vector []float64

	// TopK 返回 TopK 个最相似的结果
	TopK int

	// Metric 距离度量方式：cosine / inner_product
	Metric string
}

// VectorSearchItem 单个向量搜索结果项
type VectorSearchItem struct {
	// ID 职业编号
	ID string

	// Score 相似度分数（单位向量上的内积，即余弦相似度）
	Score float64
}

// VectorSearchResult 向量搜索结果
type VectorSearchResult struct {
	// Items 搜索结果项列表（按相似度降序；同分保持入库顺序）
	Items []VectorSearchItem
}

// ValidateVectorMetric 验证距离度量类型
func ValidateVectorMetric(metric string) bool {
	switch metric {
	case "cosine", "inner_product":
		return true
	default:
		return false
	}
}

// MetricType 距离度量类型（用于类型安全）
type MetricType string

const (
	MetricCosine       MetricType = "cosine"
	MetricInnerProduct MetricType = "inner_product"
)
