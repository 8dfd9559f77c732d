package recall

import (
	"context"

	"github.com/edupath/careerkit/core"
	"github.com/edupath/careerkit/embedding"
)

// EmbeddingRecall 是语义向量召回源：把查询文本编码成向量后检索职业索引。
//
// 查询文本优先取 rctx.QueryText（由画像构建），为空时回落到学生志向文本。
// 检索得分（单位向量内积，即余弦相似度）写入 Scores.Similarity。
type EmbeddingRecall struct {
	Service core.VectorService
	Encoder embedding.Encoder

	// Collection 检索集合名（进程内索引可留空）
	Collection string

	// TopK 召回数量，<=0 时默认 10
	TopK int
}

func (r *EmbeddingRecall) Name() string { return "recall.embedding" }

func (r *EmbeddingRecall) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Candidate, error) {
	if r.Service == nil || r.Encoder == nil {
		return nil, nil
	}

	query := ""
	if rctx != nil {
		query = rctx.QueryText
		if query == "" && rctx.Student != nil {
			query = rctx.Student.GoalText
		}
	}
	if query == "" {
		return nil, nil
	}

	vec, err := r.Encoder.EncodeText(ctx, query)
	if err != nil {
		return nil, err
	}

	topK := r.TopK
	if topK <= 0 {
		topK = 10
	}

	result, err := r.Service.Search(ctx, &core.VectorSearchRequest{
		Collection: r.Collection,
		Vector:     vec,
		TopK:       topK,
		Metric:     string(core.MetricCosine),
	})
	if err != nil {
		return nil, err
	}

	cands := make([]*core.Candidate, 0, len(result.Items))
	for _, item := range result.Items {
		c := core.NewCandidate(item.ID)
		c.Scores.Similarity = item.Score
		c.Score = item.Score
		cands = append(cands, c)
	}
	return cands, nil
}

var _ Source = (*EmbeddingRecall)(nil)
