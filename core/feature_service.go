package core

import "context"

// FeatureService 是特征服务的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（feature）实现
//   - 遵循依赖倒置原则：领域层定义接口，基础设施层实现接口
//
// 使用场景：
//   - 获取学生特征：在线特征库（如 Feast）里的能力倾向分
//   - 获取职业特征：领域 one-hot、流向标志等静态特征
//
// 注意：请求级上下文特征（如 top_k）应通过 RecommendContext.Params 传递，
// 而不是通过 FeatureService 获取。
type FeatureService interface {
	// Name 返回特征服务名称（用于日志/监控）
	Name() string

	// GetStudentFeatures 获取学生特征（单个学生）
	GetStudentFeatures(ctx context.Context, studentID string) (map[string]float64, error)

	// BatchGetStudentFeatures 批量获取学生特征
	BatchGetStudentFeatures(ctx context.Context, studentIDs []string) (map[string]map[string]float64, error)

	// GetCareerFeatures 获取职业特征（单个职业）
	GetCareerFeatures(ctx context.Context, careerID string) (map[string]float64, error)

	// BatchGetCareerFeatures 批量获取职业特征
	BatchGetCareerFeatures(ctx context.Context, careerIDs []string) (map[string]map[string]float64, error)

	// Close 关闭特征服务，释放资源
	Close(ctx context.Context) error
}

// Feature 错误定义
var (
	// ErrFeatureNotFound 表示实体无特征记录
	ErrFeatureNotFound = NewDomainError(ModuleFeature, ErrorCodeNotFound, "feature: entity not found")

	// ErrFeatureUnavailable 表示特征服务不可用
	ErrFeatureUnavailable = NewDomainError(ModuleFeature, ErrorCodeUnavailable, "feature: service unavailable")
)
