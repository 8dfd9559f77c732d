// Package engine 是推荐系统的装配层：启动期完成职业表加载、向量化、
// 索引构建与模型装载，运行期把标准化、召回、过滤、打分、重排、解释
// 串成一次完整的推荐调用。
//
// 错误分级：
//   - 启动期致命（职业表缺失、维度不符）：New 直接返回错误
//   - 降级可用（模型工件缺失）：回落规则打分，score_mode label 标注
//   - 请求期异常：Recommend 边界捕获，返回 INTERNAL_ERROR，不向外抛 panic
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/edupath/careerkit/careers"
	"github.com/edupath/careerkit/core"
	"github.com/edupath/careerkit/embedding"
	"github.com/edupath/careerkit/explain"
	"github.com/edupath/careerkit/feature"
	"github.com/edupath/careerkit/filter"
	"github.com/edupath/careerkit/index"
	"github.com/edupath/careerkit/model"
	"github.com/edupath/careerkit/pipeline"
	"github.com/edupath/careerkit/profile"
	"github.com/edupath/careerkit/rank"
	"github.com/edupath/careerkit/recall"
	"github.com/edupath/careerkit/rerank"
	"github.com/edupath/careerkit/scorer"
)

// Top-K 的边界：请求值钳制在 [1, maxTopK]，<=0 取默认。
const (
	defaultTopK = 5
	maxTopK     = 20

	// 召回池比最终返回大一圈，给过滤与重排留余量
	defaultRecallTopK = 20

	// 单个召回源的超时
	recallTimeout = 2 * time.Second
)

// Engine 是装配完成的推荐引擎。创建后并发安全，可跨请求复用。
type Engine struct {
	records     []core.CareerRecord
	careerIndex map[string]*core.CareerRecord

	encoder    embedding.Encoder
	vectors    core.VectorService
	scorer     *scorer.MLScorer
	domain     *model.DomainModel
	ranker     *model.Ranker
	features   core.FeatureService
	normalizer *profile.Normalizer
	explainer  *explain.Generator

	kv           core.KeyValueStore
	cacheDir     string
	modelDir     string
	disableML    bool
	forceRebuild bool
	topK         int
	recallTopK   int
	maxPerDomain int // 0 表示不做多样性重排
}

// Option 引擎的功能选项。
type Option func(*Engine)

// WithEncoder 指定文本编码器；缺省使用进程内哈希编码器。
func WithEncoder(enc embedding.Encoder) Option {
	return func(e *Engine) { e.encoder = enc }
}

// WithCacheDir 指定向量缓存与索引工件目录；为空则不落盘。
func WithCacheDir(dir string) Option {
	return func(e *Engine) { e.cacheDir = dir }
}

// WithModelDir 指定模型工件目录；为空或工件缺失时降级规则打分。
func WithModelDir(dir string) Option {
	return func(e *Engine) { e.modelDir = dir }
}

// WithKVStore 挂接共享 KV 后端（如 Redis），用于多实例共享向量缓存。
func WithKVStore(kv core.KeyValueStore) Option {
	return func(e *Engine) { e.kv = kv }
}

// WithRanker 挂接 GBDT 精排模型，在打分节点之后追加精排节点。
func WithRanker(r *model.Ranker) Option {
	return func(e *Engine) { e.ranker = r }
}

// WithFeatureService 挂接在线特征服务（如 Feast），由特征注入节点使用。
func WithFeatureService(fs core.FeatureService) Option {
	return func(e *Engine) { e.features = fs }
}

// WithDefaultTopK 设置缺省返回数量。
func WithDefaultTopK(k int) Option {
	return func(e *Engine) { e.topK = k }
}

// WithRecallTopK 设置语义召回池大小。
func WithRecallTopK(k int) Option {
	return func(e *Engine) { e.recallTopK = k }
}

// WithDomainDiversity 启用领域多样性重排：每个领域最多 max 个前排席位。
func WithDomainDiversity(max int) Option {
	return func(e *Engine) { e.maxPerDomain = max }
}

// WithoutML 强制规则打分模式，不装载模型工件。
func WithoutML() Option {
	return func(e *Engine) { e.disableML = true }
}

// WithForceRebuild 忽略向量缓存与索引工件，强制重算。
func WithForceRebuild() Option {
	return func(e *Engine) { e.forceRebuild = true }
}

// New 装配推荐引擎。
//
// 启动流程：加载职业表 → 向量化（带缓存）→ 构建索引 → 装载领域模型。
// 职业表缺失或向量维度不符是致命错误；模型工件缺失仅降级，不报错。
func New(ctx context.Context, careersPath string, opts ...Option) (*Engine, error) {
	e := &Engine{
		normalizer: profile.NewNormalizer(),
		explainer:  explain.NewGenerator(),
		topK:       defaultTopK,
		recallTopK: defaultRecallTopK,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.encoder == nil {
		e.encoder = embedding.NewHashingEncoder(0)
	}
	if e.topK <= 0 {
		e.topK = defaultTopK
	}
	if e.recallTopK <= 0 {
		e.recallTopK = defaultRecallTopK
	}

	records, err := careers.LoadCSV(careersPath)
	if err != nil {
		return nil, err
	}
	e.records = records
	e.careerIndex = careers.Index(records)

	var cacheOpts []embedding.CacheOption
	if e.kv != nil {
		cacheOpts = append(cacheOpts, embedding.WithKVStore(e.kv))
	}
	cache := embedding.NewCache(e.cacheDir, cacheOpts...)

	vectors, err := embedding.EmbedCareers(ctx, e.encoder, records, cache, e.forceRebuild)
	if err != nil {
		return nil, err
	}

	var idxOpts []index.Option
	if e.cacheDir != "" {
		idxOpts = append(idxOpts, index.WithCacheDir(e.cacheDir))
	}
	idx, err := index.NewFlat(e.encoder.Dimension(), idxOpts...)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(records))
	for i := range records {
		ids[i] = records[i].ID
	}
	if err := idx.Build(vectors, ids, e.forceRebuild); err != nil {
		return nil, err
	}
	e.vectors = index.NewServiceAdapter(idx)

	if !e.disableML && e.modelDir != "" {
		m, err := model.LoadDomainModel(e.modelDir)
		if err != nil {
			if !core.IsNotFound(err) {
				return nil, err
			}
			// 工件缺失：降级规则打分
			m = nil
		}
		e.domain = m
	}
	e.scorer = scorer.NewMLScorer(records, e.domain)

	return e, nil
}

// MLEnabled 报告领域模型是否装载成功（否则规则降级）。
func (e *Engine) MLEnabled() bool { return e.domain != nil }

// Careers 返回只读职业表。
func (e *Engine) Careers() []core.CareerRecord { return e.records }

// Close 释放引擎持有的外部资源（向量服务、KV 后端）。
func (e *Engine) Close() error {
	var first error
	if e.vectors != nil {
		if err := e.vectors.Close(); err != nil {
			first = err
		}
	}
	if e.kv != nil {
		if err := e.kv.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// buildNodes 组装本次请求的 Node 链。
// Node 无状态且共享引擎只读数据，按请求组装的代价可忽略。
func (e *Engine) buildNodes() []pipeline.Node {
	nodes := []pipeline.Node{
		&recall.Fanout{
			Sources: []recall.Source{
				&recall.EmbeddingRecall{
					Service: e.vectors,
					Encoder: e.encoder,
					TopK:    e.recallTopK,
				},
				&recall.StreamRecall{
					Careers:       e.records,
					MaxCandidates: e.recallTopK,
				},
			},
			Dedup:         true,
			Timeout:       recallTimeout,
			MergeStrategy: "first",
		},
		&filter.FilterNode{
			Filters: []filter.Filter{filter.NewStreamFilter(e.careerIndex)},
		},
		&rank.ScoreNode{Scorer: e.scorer},
	}
	if e.ranker != nil {
		nodes = append(nodes, &rank.RankerNode{Ranker: e.ranker, Careers: e.careerIndex})
	}
	if e.maxPerDomain > 0 {
		nodes = append(nodes, &rerank.DomainDiversity{
			MaxPerDomain: e.maxPerDomain,
			Careers:      e.careerIndex,
		})
	}
	return nodes
}

// Recommend 执行一次完整推荐。
//
// topK <=0 取引擎默认值，上限 20。任何画像输入（包括全零表单）都应
// 产出结果；请求期 panic 在此边界收敛为 INTERNAL_ERROR。
func (e *Engine) Recommend(ctx context.Context, form *profile.Form, topK int) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = core.NewDomainError(core.ModuleEngine, core.ErrorCodeInternalError,
				fmt.Sprintf("engine: recommend panic: %v", r))
		}
	}()

	if topK <= 0 {
		topK = e.topK
	}
	if topK > maxTopK {
		topK = maxTopK
	}

	p := e.normalizer.Process(form)
	rctx := &core.RecommendContext{
		Scene:     "career_recommend",
		Student:   p,
		QueryText: profile.BuildQueryText(p),
		Params:    map[string]any{"top_k": topK},
	}

	// 领域分类器可用时，把主领域写入请求参数供精排取用
	insights := e.scorer.Insights(p)
	if insights != nil {
		rctx.Params["primary_domain"] = insights.PrimaryDomain
	}

	pipe := &pipeline.Pipeline{Nodes: e.buildNodes()}
	cands, err := pipe.Run(ctx, rctx, nil)
	if err != nil {
		return nil, core.NewDomainError(core.ModuleEngine, core.ErrorCodeInternalError,
			fmt.Sprintf("engine: pipeline: %v", err))
	}
	total := len(cands)

	post := []pipeline.Node{
		&rerank.TopNNode{N: topK},
		&feature.EnrichNode{FeatureService: e.features},
	}
	for _, node := range post {
		cands, err = node.Process(ctx, rctx, cands)
		if err != nil {
			return nil, core.NewDomainError(core.ModuleEngine, core.ErrorCodeInternalError,
				fmt.Sprintf("engine: %s: %v", node.Name(), err))
		}
	}

	recs := make([]Recommendation, 0, len(cands))
	for _, c := range cands {
		if c == nil {
			continue
		}
		career, ok := e.careerIndex[c.ID]
		if !ok {
			continue
		}
		recs = append(recs, Recommendation{
			Career:      *career,
			Scores:      c.Scores,
			Explanation: e.explainer.Explain(p, career, c.Scores),
		})
	}

	return &Result{
		Recommendations: recs,
		Student:         p,
		QueryText:       rctx.QueryText,
		TotalCandidates: total,
		MLEnabled:       e.MLEnabled(),
		MLInsights:      insights,
	}, nil
}
