package core

import "github.com/edupath/careerkit/pkg/utils"

// RecommendContext 承载学生/场景/请求信息，贯穿整个 Pipeline 透传。
type RecommendContext struct {
	RequestID string
	Scene     string

	// Student 是强类型学生画像（已标准化）
	Student *StudentProfile

	// QueryText 是由画像构建的检索文本，召回节点用它生成查询向量
	QueryText string

	// Labels 是请求级标签，可驱动整个 Pipeline 行为
	// 例如：score_mode=rule 表示本次请求走了规则降级
	Labels map[string]utils.Label

	// Params 请求级上下文参数：top_k、primary_domain、实验开关等
	Params map[string]any
}

// PutLabel 写入请求级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取请求级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}

// GetParam 读取请求级参数。
func (rctx *RecommendContext) GetParam(key string) (any, bool) {
	if rctx.Params == nil {
		return nil, false
	}
	v, ok := rctx.Params[key]
	return v, ok
}
