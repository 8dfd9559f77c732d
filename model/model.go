// Package model 提供模型工件的装载与推理：
// 领域回归/分类森林（能力→领域契合度）与 GBDT 排序模型。
// 模型训练在离线管线完成，本包只做 JSON 工件的 serving。
package model

// RankModel 是排序阶段的最小抽象：输入特征，输出一个可比较的分数。
// 具体实现可以是本地模型（GBDT 森林）或远程 RPC 服务。
type RankModel interface {
	Name() string
	Predict(features map[string]float64) (float64, error)
}
