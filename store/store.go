// Package store 提供 core.Store / core.KeyValueStore 的具体实现。
// 当前后端：内存（测试/单机）与 Redis（多实例共享向量缓存）。
package store

import "github.com/edupath/careerkit/core"

// ErrNotFound 是包内的 NOT_FOUND 别名，便于实现内部引用。
var ErrNotFound = core.ErrStoreNotFound
