// Package index 实现进程内的平铺内积索引。
// 所有向量入库前做单位归一，内积即余弦相似度；支持磁盘持久化，
// 非显式 rebuild 不修改持久化状态。
package index

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/edupath/careerkit/core"
)

// indexFileName 持久化工件文件名（位于缓存目录下）。
const indexFileName = "career_index.json"

// Flat 是平铺（brute-force）内积索引。
//
// 特点：
//   - 向量入库前单位归一，查询向量同样归一后做内积
//   - 按相似度降序返回；同分保持入库顺序（稳定排序）
//   - k 超过库容时返回 min(k, 库容) 条，不产生哨兵 id
//   - 线程安全：构建期写锁，查询期读锁
type Flat struct {
	mu      sync.RWMutex
	dim     int
	dir     string // 持久化目录，空则不落盘
	ids     []string
	vectors [][]float64 // 单位向量，与 ids 对齐
}

// Option 索引的功能选项。
type Option func(*Flat)

// WithCacheDir 设置持久化目录。Build 会优先尝试从该目录装载。
func WithCacheDir(dir string) Option {
	return func(f *Flat) { f.dir = dir }
}

// NewFlat 创建指定维度的空索引。
func NewFlat(dim int, opts ...Option) (*Flat, error) {
	if dim <= 0 {
		return nil, core.NewDomainError(core.ModuleVector, core.ErrorCodeInvalidInput,
			fmt.Sprintf("index: invalid dimension %d", dim))
	}
	f := &Flat{dim: dim}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Dimension 返回索引维度。
func (f *Flat) Dimension() int { return f.dim }

// Len 返回已入库的向量数。
func (f *Flat) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.ids)
}

// Build 构建索引。
//   - force=false 且持久化工件可用（维度一致、条数一致、id 对齐）时直接装载
//   - 否则归一入库并覆盖持久化工件
//
// embeddings 与 ids 必须等长对齐；维度不符属于致命错误。
func (f *Flat) Build(embeddings [][]float64, ids []string, force bool) error {
	if len(embeddings) == 0 || len(embeddings) != len(ids) {
		return core.NewDomainError(core.ModuleVector, core.ErrorCodeInvalidInput,
			fmt.Sprintf("index: %d embeddings for %d ids", len(embeddings), len(ids)))
	}

	if !force && f.dir != "" {
		if err := f.load(ids); err == nil {
			return nil
		}
	}

	normalized := make([][]float64, len(embeddings))
	for i, vec := range embeddings {
		if len(vec) != f.dim {
			return core.NewDomainError(core.ModuleVector, core.ErrorCodeDimMismatch,
				fmt.Sprintf("index: vector %d has dim %d, expected %d", i, len(vec), f.dim))
		}
		normalized[i] = normalize(vec)
	}

	f.mu.Lock()
	f.ids = append([]string(nil), ids...)
	f.vectors = normalized
	f.mu.Unlock()

	if f.dir != "" {
		return f.save()
	}
	return nil
}

// Search 查询 top-k。查询向量先归一；k<=0 时返回空结果。
// 返回条数为 min(k, 库容)；同分按入库顺序排列。
func (f *Flat) Search(query []float64, k int) ([]string, []float64, error) {
	if len(query) != f.dim {
		return nil, nil, core.NewDomainError(core.ModuleVector, core.ErrorCodeDimMismatch,
			fmt.Sprintf("index: query dim %d, expected %d", len(query), f.dim))
	}
	if k <= 0 {
		return []string{}, []float64{}, nil
	}

	q := normalize(query)

	f.mu.RLock()
	defer f.mu.RUnlock()

	if len(f.ids) == 0 {
		return nil, nil, core.NewDomainError(core.ModuleVector, core.ErrorCodeUnavailable,
			"index: not built")
	}

	type scored struct {
		pos   int
		score float64
	}
	items := make([]scored, len(f.ids))
	for i, vec := range f.vectors {
		var dot float64
		for j := range vec {
			dot += q[j] * vec[j]
		}
		items[i] = scored{pos: i, score: dot}
	}

	// 稳定排序：同分保持入库顺序
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].score > items[j].score
	})

	if k > len(items) {
		k = len(items)
	}
	ids := make([]string, k)
	scores := make([]float64, k)
	for i := 0; i < k; i++ {
		ids[i] = f.ids[items[i].pos]
		scores[i] = items[i].score
	}
	return ids, scores, nil
}

// persistedIndex 是磁盘上的索引工件。
type persistedIndex struct {
	Dim     int         `json:"dim"`
	IDs     []string    `json:"ids"`
	Vectors [][]float64 `json:"vectors"`
}

func (f *Flat) indexPath() string {
	return filepath.Join(f.dir, indexFileName)
}

// save 覆盖写持久化工件。
func (f *Flat) save() error {
	f.mu.RLock()
	artifact := persistedIndex{Dim: f.dim, IDs: f.ids, Vectors: f.vectors}
	f.mu.RUnlock()

	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("index: create dir: %w", err)
	}
	data, err := json.Marshal(&artifact)
	if err != nil {
		return fmt.Errorf("index: marshal: %w", err)
	}
	if err := os.WriteFile(f.indexPath(), data, 0o644); err != nil {
		return fmt.Errorf("index: write: %w", err)
	}
	return nil
}

// load 装载持久化工件；ids 与期望不对齐则拒绝（陈旧工件不允许静默错位）。
func (f *Flat) load(expectIDs []string) error {
	data, err := os.ReadFile(f.indexPath())
	if err != nil {
		return err
	}
	var artifact persistedIndex
	if err := json.Unmarshal(data, &artifact); err != nil {
		return err
	}
	if artifact.Dim != f.dim || len(artifact.IDs) != len(expectIDs) {
		return core.NewDomainError(core.ModuleVector, core.ErrorCodeDimMismatch,
			"index: persisted artifact does not match")
	}
	for i := range expectIDs {
		if artifact.IDs[i] != expectIDs[i] {
			return core.NewDomainError(core.ModuleVector, core.ErrorCodeInvalidInput,
				"index: persisted ids out of order")
		}
	}

	f.mu.Lock()
	f.ids = artifact.IDs
	f.vectors = artifact.Vectors
	f.mu.Unlock()
	return nil
}

// normalize 返回单位向量；零向量原样返回（相似度恒为 0）。
func normalize(vec []float64) []float64 {
	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	out := make([]float64, len(vec))
	if norm == 0 {
		return out
	}
	norm = math.Sqrt(norm)
	for i, v := range vec {
		out[i] = v / norm
	}
	return out
}
