package model

import (
	"encoding/json"
	"fmt"
	"os"
)

// TreeNode 是决策树的一个节点（数组式布局，Left/Right 为节点下标）。
// Feature < 0 表示叶子，取 Values 作为输出。
type TreeNode struct {
	Feature   int       `json:"feature"`
	Threshold float64   `json:"threshold"`
	Left      int       `json:"left"`
	Right     int       `json:"right"`
	Values    []float64 `json:"values,omitempty"`
}

// Tree 是一棵回归/分类树。
type Tree struct {
	Nodes []TreeNode `json:"nodes"`
}

// Predict 沿树下行：x[feature] <= threshold 走左子树。
// 结构异常（下标越界、环）时返回 nil。
func (t *Tree) Predict(x []float64) []float64 {
	idx := 0
	for steps := 0; steps <= len(t.Nodes); steps++ {
		if idx < 0 || idx >= len(t.Nodes) {
			return nil
		}
		node := &t.Nodes[idx]
		if node.Feature < 0 {
			return node.Values
		}
		if node.Feature >= len(x) {
			return nil
		}
		if x[node.Feature] <= node.Threshold {
			idx = node.Left
		} else {
			idx = node.Right
		}
	}
	return nil
}

// Forest 是 bagging 森林（随机森林一类）：输出为各树输出的平均。
// 回归森林的 Values 是各输出维的回归值；分类森林的 Values 是类别概率分布，
// 平均后仍是概率分布，Classes 给出类别顺序。
type Forest struct {
	Trees        []Tree   `json:"trees"`
	NumOutputs   int      `json:"num_outputs"`
	FeatureNames []string `json:"feature_names"`
	Classes      []string `json:"classes,omitempty"`
}

// LoadForest 从 JSON 工件装载森林并校验结构。
func LoadForest(path string) (*Forest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f Forest
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("model: parse %s: %w", path, err)
	}
	if err := f.validate(); err != nil {
		return nil, fmt.Errorf("model: %s: %w", path, err)
	}
	return &f, nil
}

func (f *Forest) validate() error {
	if len(f.Trees) == 0 {
		return fmt.Errorf("forest has no trees")
	}
	if f.NumOutputs <= 0 {
		return fmt.Errorf("invalid num_outputs %d", f.NumOutputs)
	}
	if len(f.Classes) > 0 && len(f.Classes) != f.NumOutputs {
		return fmt.Errorf("classes/num_outputs mismatch: %d vs %d", len(f.Classes), f.NumOutputs)
	}
	return nil
}

// Predict 对单个特征向量做前向推理，返回各输出维的树平均。
func (f *Forest) Predict(x []float64) ([]float64, error) {
	if len(f.FeatureNames) > 0 && len(x) != len(f.FeatureNames) {
		return nil, fmt.Errorf("model: feature vector has %d dims, expected %d", len(x), len(f.FeatureNames))
	}

	out := make([]float64, f.NumOutputs)
	for i := range f.Trees {
		values := f.Trees[i].Predict(x)
		if len(values) != f.NumOutputs {
			return nil, fmt.Errorf("model: tree %d produced %d outputs, expected %d", i, len(values), f.NumOutputs)
		}
		for j, v := range values {
			out[j] += v
		}
	}
	n := float64(len(f.Trees))
	for j := range out {
		out[j] /= n
	}
	return out, nil
}
