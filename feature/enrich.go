package feature

import (
	"context"

	"github.com/edupath/careerkit/core"
	"github.com/edupath/careerkit/pipeline"
)

// EnrichNode 是特征注入节点：把学生特征与职业静态特征合并进候选。
//
// 两种特征来源：
//  1. FeatureService 模式：学生特征按 rctx.Student.Email 在线获取（如 Feast），
//     职业特征批量获取；服务失败时回退到画像展开
//  2. 画像模式：直接由 rctx.Student 展开学生特征
//
// 注入后的候选 Features 带前缀区分：student_* / career_*。
type EnrichNode struct {
	// FeatureService 可选；nil 时走画像模式
	FeatureService core.FeatureService

	// StudentPrefix / CareerPrefix 为空时使用默认前缀
	StudentPrefix string
	CareerPrefix  string
}

func (n *EnrichNode) Name() string { return "feature.enrich" }

func (n *EnrichNode) Kind() pipeline.Kind { return pipeline.KindPostProcess }

func (n *EnrichNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	cands []*core.Candidate,
) ([]*core.Candidate, error) {
	if len(cands) == 0 {
		return cands, nil
	}

	studentPrefix := n.StudentPrefix
	if studentPrefix == "" {
		studentPrefix = "student_"
	}
	careerPrefix := n.CareerPrefix
	if careerPrefix == "" {
		careerPrefix = "career_"
	}

	studentFeatures := n.studentFeatures(ctx, rctx)

	var careerFeatures map[string]map[string]float64
	if n.FeatureService != nil {
		ids := make([]string, 0, len(cands))
		for _, c := range cands {
			if c != nil {
				ids = append(ids, c.ID)
			}
		}
		careerFeatures, _ = n.FeatureService.BatchGetCareerFeatures(ctx, ids)
	}

	for _, c := range cands {
		if c == nil {
			continue
		}
		for k, v := range studentFeatures {
			c.PutFeature(studentPrefix+k, v)
		}
		if cf, ok := careerFeatures[c.ID]; ok {
			for k, v := range cf {
				c.PutFeature(careerPrefix+k, v)
			}
		}
	}
	return cands, nil
}

// studentFeatures 获取学生特征；服务缺失或失败时回退到画像展开。
func (n *EnrichNode) studentFeatures(ctx context.Context, rctx *core.RecommendContext) map[string]float64 {
	if rctx == nil {
		return nil
	}
	if n.FeatureService != nil && rctx.Student != nil && rctx.Student.Email != "" {
		if f, err := n.FeatureService.GetStudentFeatures(ctx, rctx.Student.Email); err == nil {
			return f
		}
	}
	if rctx.Student != nil {
		return ProfileFeatures(rctx.Student)
	}
	return nil
}

var _ pipeline.Node = (*EnrichNode)(nil)
