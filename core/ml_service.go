package core

import "context"

// MLService 是机器学习服务的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层实现
//   - 遵循依赖倒置原则：领域层定义接口，基础设施层实现接口
//
// 使用场景：
//   - 远端句向量服务：embedding.RemoteEncoder 通过它取文本向量
//   - 外部模型服务：TensorFlow Serving、TorchServe、ONNX Runtime 等
type MLService interface {
	// Predict 批量预测
	Predict(ctx context.Context, req *MLPredictRequest) (*MLPredictResponse, error)

	// Health 健康检查
	Health(ctx context.Context) error

	// Close 关闭连接
	Close(ctx context.Context) error
}

// MLPredictRequest 预测请求
type MLPredictRequest struct {
	// Instances 特征实例列表（每个实例是一个特征向量）
	Instances [][]float64

	// ModelName 模型名称（可选，如果服务支持多模型）
	ModelName string

	// ModelVersion 模型版本（可选）
	ModelVersion string

	// Params 额外参数。句向量服务约定 Params["texts"] 为待编码文本列表。
	Params map[string]interface{}
}

// MLPredictResponse 预测响应
type MLPredictResponse struct {
	// Predictions 预测结果列表（与请求实例一一对应）
	Predictions []float64

	// Outputs 原始输出。句向量服务约定为 [][]float64 或 []any 的向量列表。
	Outputs interface{}

	// ModelVersion 模型版本（如果服务返回）
	ModelVersion string
}
