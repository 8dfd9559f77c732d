package embedding

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
)

// HashingEncoder 是进程内的确定性文本编码器（特征哈希）。
//
// 核心思想：
//   - 词经 FNV 哈希落到固定维度的桶，符号位由哈希另一位决定
//   - 文本向量 = 词向量累加后做单位归一
//   - 词重叠越多的两段文本，余弦相似度越高
//
// 工程特征：
//   - 实时性：好（无 RPC，O(词数)）
//   - 确定性：同一文本永远得到同一向量
//   - 语义理解：弱（词面匹配，不做语义泛化）
//
// 使用场景：本地运行、离线批处理、测试。线上语义召回请换 RemoteEncoder。
type HashingEncoder struct {
	// Dim 向量维度，与远端模型保持一致便于互换（默认 384）
	Dim int
}

// NewHashingEncoder 创建哈希编码器。dim <= 0 时使用 384。
func NewHashingEncoder(dim int) *HashingEncoder {
	if dim <= 0 {
		dim = 384
	}
	return &HashingEncoder{Dim: dim}
}

func (m *HashingEncoder) Name() string {
	return fmt.Sprintf("hashing-%d", m.Dim)
}

func (m *HashingEncoder) Dimension() int {
	return m.Dim
}

// EncodeText 编码单个文本。空文本返回零向量。
func (m *HashingEncoder) EncodeText(_ context.Context, text string) ([]float64, error) {
	vec := make([]float64, m.Dim)
	words := strings.Fields(strings.ToLower(strings.TrimSpace(text)))
	if len(words) == 0 {
		return vec, nil
	}

	for _, word := range words {
		word = strings.Trim(word, ".,!?:;()\"'")
		if word == "" {
			continue
		}
		h := fnv.New64a()
		h.Write([]byte(word))
		sum := h.Sum64()
		idx := int(sum % uint64(m.Dim))
		sign := 1.0
		if (sum>>63)&1 == 1 {
			sign = -1.0
		}
		vec[idx] += sign
	}

	// 单位归一：内积即余弦相似度
	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec, nil
}

// EncodeTexts 批量编码。
func (m *HashingEncoder) EncodeTexts(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, text := range texts {
		vec, err := m.EncodeText(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

var _ Encoder = (*HashingEncoder)(nil)
