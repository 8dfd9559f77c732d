package embedding

import (
	"context"
	"fmt"

	"github.com/edupath/careerkit/core"
)

// Encoder 是句向量编码器的统一接口。
// Dimension 必须与向量索引的配置维度一致，不一致属于启动期致命错误。
type Encoder interface {
	// Name 返回模型名称（参与缓存 key，换模型即失效缓存）
	Name() string

	// Dimension 返回向量维度
	Dimension() int

	// EncodeText 编码单个文本
	EncodeText(ctx context.Context, text string) ([]float64, error)

	// EncodeTexts 批量编码
	EncodeTexts(ctx context.Context, texts []string) ([][]float64, error)
}

// RemoteEncoder 通过外部 ML 服务（TorchServe、TF Serving 等）取句向量。
//
// 核心思想：
//   - 预训练句向量模型部署在外部服务，本进程只做 RPC 与响应解析
//   - 支持批量编码以提高效率
//
// 工程特征：
//   - 实时性：中等（RPC 调用，但支持批量）
//   - 语义理解：强（取决于部署的预训练模型）
type RemoteEncoder struct {
	// Service ML 服务接口
	Service core.MLService

	// ModelName 模型名称（如 "all-MiniLM-L6-v2"）
	ModelName string

	// ModelVersion 模型版本（可选）
	ModelVersion string

	// Dim 向量维度（MiniLM 为 384，BERT-base 为 768）
	Dim int

	// MaxLength 最大序列长度
	MaxLength int
}

// NewRemoteEncoder 创建远端编码器。
func NewRemoteEncoder(service core.MLService, modelName string, dim int) *RemoteEncoder {
	if dim == 0 {
		dim = 384
	}
	return &RemoteEncoder{
		Service:   service,
		ModelName: modelName,
		Dim:       dim,
		MaxLength: 512,
	}
}

// WithModelVersion 设置模型版本。
func (m *RemoteEncoder) WithModelVersion(version string) *RemoteEncoder {
	m.ModelVersion = version
	return m
}

// WithMaxLength 设置最大序列长度。
func (m *RemoteEncoder) WithMaxLength(maxLength int) *RemoteEncoder {
	m.MaxLength = maxLength
	return m
}

func (m *RemoteEncoder) Name() string {
	return m.ModelName
}

func (m *RemoteEncoder) Dimension() int {
	return m.Dim
}

// EncodeText 编码单个文本。
func (m *RemoteEncoder) EncodeText(ctx context.Context, text string) ([]float64, error) {
	vectors, err := m.EncodeTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("empty response")
	}
	return vectors[0], nil
}

// EncodeTexts 批量编码文本为向量。
// 约定：文本列表通过 Params["texts"] 传递，服务在 Outputs 返回向量列表。
func (m *RemoteEncoder) EncodeTexts(ctx context.Context, texts []string) ([][]float64, error) {
	if m.Service == nil {
		return nil, fmt.Errorf("ML service is not set")
	}
	if len(texts) == 0 {
		return [][]float64{}, nil
	}

	req := &core.MLPredictRequest{
		ModelName:    m.ModelName,
		ModelVersion: m.ModelVersion,
		Params: map[string]interface{}{
			"texts":      texts,
			"max_length": m.MaxLength,
		},
	}

	resp, err := m.Service.Predict(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("sentence encoding failed: %w", err)
	}

	vectors, err := m.parseVectors(resp)
	if err != nil {
		return nil, fmt.Errorf("parse encoder response: %w", err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("vector count mismatch: expected %d, got %d", len(texts), len(vectors))
	}
	for i, vec := range vectors {
		if len(vec) != m.Dim {
			return nil, core.NewDomainError(core.ModuleEmbedding, core.ErrorCodeDimMismatch,
				fmt.Sprintf("embedding: vector %d has dim %d, expected %d", i, len(vec), m.Dim))
		}
	}
	return vectors, nil
}

// parseVectors 解析 ML 服务响应中的向量。
// 支持的响应格式：
//   - Outputs 为向量数组：[[0.1, 0.2, ...], [0.3, 0.4, ...]]
//   - Outputs 为 map：{"embeddings": [...]} 或 {"vectors": [...]}
func (m *RemoteEncoder) parseVectors(resp *core.MLPredictResponse) ([][]float64, error) {
	vectors := make([][]float64, 0)

	if resp.Outputs != nil {
		switch v := resp.Outputs.(type) {
		case [][]float64:
			vectors = v
		case []interface{}:
			for _, item := range v {
				if vec, ok := parseVector(item); ok {
					vectors = append(vectors, vec)
				}
			}
		case map[string]interface{}:
			raw, ok := v["embeddings"]
			if !ok {
				raw, ok = v["vectors"]
			}
			if ok {
				if arr, ok := raw.([]interface{}); ok {
					for _, item := range arr {
						if vec, ok := parseVector(item); ok {
							vectors = append(vectors, vec)
						}
					}
				}
			}
		}
	}

	if len(vectors) == 0 {
		return nil, fmt.Errorf("no vectors found in response")
	}
	return vectors, nil
}

// parseVector 解析单个向量。
func parseVector(v interface{}) ([]float64, bool) {
	switch val := v.(type) {
	case []float64:
		return val, true
	case []interface{}:
		vector := make([]float64, 0, len(val))
		for _, item := range val {
			switch fv := item.(type) {
			case float64:
				vector = append(vector, fv)
			case float32:
				vector = append(vector, float64(fv))
			case int:
				vector = append(vector, float64(fv))
			case int64:
				vector = append(vector, float64(fv))
			default:
				return nil, false
			}
		}
		return vector, true
	default:
		return nil, false
	}
}

var _ Encoder = (*RemoteEncoder)(nil)
