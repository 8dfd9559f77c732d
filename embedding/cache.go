package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/edupath/careerkit/core"
)

// cacheFileName 磁盘缓存文件名（位于缓存目录下）。
const cacheFileName = "career_embeddings.json"

// CachedEmbeddings 是职业向量的缓存工件。
// 同时持久化 IDs 与向量，保证陈旧缓存不会静默错位到别的行序。
type CachedEmbeddings struct {
	Model   string      `json:"model"`
	Hash    string      `json:"hash"` // 模型名 + 职业文案的内容指纹
	Dim     int         `json:"dim"`
	IDs     []string    `json:"ids"`
	Vectors [][]float64 `json:"vectors"`
}

// ContentHash 计算缓存指纹：模型名 + 每条职业文案。
// 职业表内容或模型任一变化都会使缓存失效。
func ContentHash(model string, records []core.CareerRecord) string {
	h := sha256.New()
	h.Write([]byte(model))
	for i := range records {
		h.Write([]byte{0})
		h.Write([]byte(records[i].ID))
		h.Write([]byte{0})
		h.Write([]byte(BuildCareerText(&records[i])))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Cache 是职业向量的两级缓存：磁盘 JSON 工件 + 可选的 KV 后端。
// KV 后端（如 store.RedisStore）按 Hash 字段存每个职业的向量，
// 供多实例共享；磁盘工件是单机的权威副本。
type Cache struct {
	dir string
	kv  core.KeyValueStore
}

// CacheOption 缓存的功能选项。
type CacheOption func(*Cache)

// WithKVStore 挂接共享 KV 后端。
func WithKVStore(kv core.KeyValueStore) CacheOption {
	return func(c *Cache) { c.kv = kv }
}

// NewCache 创建缓存。dir 为空时只走 KV 后端（若有）。
func NewCache(dir string, opts ...CacheOption) *Cache {
	c := &Cache{dir: dir}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) filePath() string {
	return filepath.Join(c.dir, cacheFileName)
}

// kvKey 共享缓存的 Hash key，按模型+指纹隔离。
func kvKey(model, hash string) string {
	return fmt.Sprintf("careerkit:emb:%s:%s", model, hash)
}

// Load 读取缓存；model 或 hash 不匹配视为未命中。
// 未命中返回 NOT_FOUND 领域错误，调用方据此触发重算。
func (c *Cache) Load(ctx context.Context, model, hash string) (*CachedEmbeddings, error) {
	if c.dir != "" {
		data, err := os.ReadFile(c.filePath())
		if err == nil {
			var ce CachedEmbeddings
			if jsonErr := json.Unmarshal(data, &ce); jsonErr == nil &&
				ce.Model == model && ce.Hash == hash {
				return &ce, nil
			}
		}
	}

	if c.kv != nil {
		fields, err := c.kv.HGetAll(ctx, kvKey(model, hash))
		if err == nil && len(fields) > 0 {
			if ce, ok := assembleFromKV(model, hash, fields); ok {
				return ce, nil
			}
		}
	}

	return nil, core.NewDomainError(core.ModuleStore, core.ErrorCodeNotFound,
		"embedding: cache miss")
}

// Save 写入缓存：磁盘工件整体落盘，KV 后端按职业粒度写 Hash 字段。
func (c *Cache) Save(ctx context.Context, ce *CachedEmbeddings) error {
	if c.dir != "" {
		if err := os.MkdirAll(c.dir, 0o755); err != nil {
			return fmt.Errorf("embedding: create cache dir: %w", err)
		}
		data, err := json.Marshal(ce)
		if err != nil {
			return fmt.Errorf("embedding: marshal cache: %w", err)
		}
		if err := os.WriteFile(c.filePath(), data, 0o644); err != nil {
			return fmt.Errorf("embedding: write cache: %w", err)
		}
	}

	if c.kv != nil {
		key := kvKey(ce.Model, ce.Hash)
		for i, id := range ce.IDs {
			entry := kvEntry{Order: i, Vector: ce.Vectors[i]}
			data, err := json.Marshal(entry)
			if err != nil {
				return fmt.Errorf("embedding: marshal kv entry: %w", err)
			}
			if err := c.kv.HSet(ctx, key, id, data); err != nil {
				// KV 只是加速层，写失败不致命；清掉半写的 key，不留残缺条目
				_ = c.kv.Delete(ctx, key)
				return nil
			}
		}
	}
	return nil
}

// kvEntry 是 KV 后端里单个职业的缓存条目；Order 用于恢复行序。
type kvEntry struct {
	Order  int       `json:"order"`
	Vector []float64 `json:"vector"`
}

func assembleFromKV(model, hash string, fields map[string][]byte) (*CachedEmbeddings, bool) {
	type pair struct {
		id    string
		entry kvEntry
	}
	pairs := make([]pair, 0, len(fields))
	maxOrder := -1
	for id, data := range fields {
		var e kvEntry
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, false
		}
		if e.Order > maxOrder {
			maxOrder = e.Order
		}
		pairs = append(pairs, pair{id: id, entry: e})
	}
	if maxOrder+1 != len(pairs) {
		return nil, false // 条目缺失，行序无法完整恢复
	}

	ce := &CachedEmbeddings{
		Model:   model,
		Hash:    hash,
		IDs:     make([]string, len(pairs)),
		Vectors: make([][]float64, len(pairs)),
	}
	for _, p := range pairs {
		if ce.IDs[p.entry.Order] != "" {
			return nil, false
		}
		ce.IDs[p.entry.Order] = p.id
		ce.Vectors[p.entry.Order] = p.entry.Vector
	}
	if len(ce.Vectors) > 0 {
		ce.Dim = len(ce.Vectors[0])
	}
	return ce, true
}
