package embedding

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/edupath/careerkit/core"
)

// 批量编码参数：每批 32 条文本，最多 4 路并发。
const (
	encodeBatchSize   = 32
	encodeConcurrency = 4
)

// EmbedCareers 为整张职业表生成向量，带缓存。
//
// 行为：
//   - force=false 且缓存命中（模型、指纹、行序全部一致）时直接复用
//   - 否则分批并发编码，校验维度后写回缓存
//
// 返回的向量与 records 行序严格对齐。
func EmbedCareers(ctx context.Context, enc Encoder, records []core.CareerRecord, cache *Cache, force bool) ([][]float64, error) {
	if len(records) == 0 {
		return nil, core.NewDomainError(core.ModuleEmbedding, core.ErrorCodeInvalidInput,
			"embedding: empty career table")
	}

	hash := ContentHash(enc.Name(), records)

	if !force && cache != nil {
		if ce, err := cache.Load(ctx, enc.Name(), hash); err == nil {
			if vectors, ok := reusable(ce, enc, records); ok {
				return vectors, nil
			}
		}
	}

	texts := make([]string, len(records))
	for i := range records {
		texts[i] = BuildCareerText(&records[i])
	}

	vectors, err := encodeInBatches(ctx, enc, texts)
	if err != nil {
		return nil, err
	}
	for i, vec := range vectors {
		if len(vec) != enc.Dimension() {
			return nil, core.NewDomainError(core.ModuleEmbedding, core.ErrorCodeDimMismatch,
				fmt.Sprintf("embedding: career %s has dim %d, expected %d",
					records[i].ID, len(vec), enc.Dimension()))
		}
	}

	if cache != nil {
		ids := make([]string, len(records))
		for i := range records {
			ids[i] = records[i].ID
		}
		ce := &CachedEmbeddings{
			Model:   enc.Name(),
			Hash:    hash,
			Dim:     enc.Dimension(),
			IDs:     ids,
			Vectors: vectors,
		}
		if err := cache.Save(ctx, ce); err != nil {
			return nil, err
		}
	}
	return vectors, nil
}

// reusable 校验缓存与当前职业表是否严格对齐。
func reusable(ce *CachedEmbeddings, enc Encoder, records []core.CareerRecord) ([][]float64, bool) {
	if ce.Dim != enc.Dimension() || len(ce.IDs) != len(records) || len(ce.Vectors) != len(records) {
		return nil, false
	}
	for i := range records {
		if ce.IDs[i] != records[i].ID {
			return nil, false
		}
	}
	return ce.Vectors, true
}

// encodeInBatches 分批并发编码，按批序号回填保证行序确定。
func encodeInBatches(ctx context.Context, enc Encoder, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(encodeConcurrency)

	for start := 0; start < len(texts); start += encodeBatchSize {
		end := start + encodeBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		start, end := start, end
		g.Go(func() error {
			vectors, err := enc.EncodeTexts(gctx, texts[start:end])
			if err != nil {
				return fmt.Errorf("encode batch [%d:%d]: %w", start, end, err)
			}
			if len(vectors) != end-start {
				return fmt.Errorf("encode batch [%d:%d]: got %d vectors", start, end, len(vectors))
			}
			copy(out[start:end], vectors)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
