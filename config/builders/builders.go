// Package builders 注册可由配置直接构建的内置 Node。
//
// 需要运行期依赖的 Node（召回服务、打分器、精排模型）由 engine 编程式组装，
// 不在此注册：配置只驱动无外部依赖的结构型节点。
package builders

import (
	"github.com/edupath/careerkit/config"
	"github.com/edupath/careerkit/filter"
	"github.com/edupath/careerkit/pipeline"
	"github.com/edupath/careerkit/pkg/conv"
	"github.com/edupath/careerkit/rerank"
)

func init() {
	config.Register("rerank.topn", BuildTopNNode)
	config.Register("rerank.diversity", BuildDiversityNode)
	config.Register("filter.expr", BuildExprFilterNode)
}

// BuildTopNNode 构建 Top-N 截断节点。
func BuildTopNNode(cfg map[string]interface{}) (pipeline.Node, error) {
	n := int(conv.ConfigGetInt64(cfg, "n", 0))
	return &rerank.TopNNode{N: n}, nil
}

// BuildDiversityNode 构建领域多样性重排节点。
// 纯配置场景下领域取自候选的 domain label；职业表由 engine 编程式注入。
func BuildDiversityNode(cfg map[string]interface{}) (pipeline.Node, error) {
	maxPer := int(conv.ConfigGetInt64(cfg, "max_per_domain", 0))
	return &rerank.DomainDiversity{MaxPerDomain: maxPer}, nil
}

// BuildExprFilterNode 构建 CEL 表达式过滤节点。
func BuildExprFilterNode(cfg map[string]interface{}) (pipeline.Node, error) {
	expr := conv.ConfigGet[string](cfg, "expr", "")
	return &filter.FilterNode{
		Filters: []filter.Filter{filter.NewExprFilter(expr)},
	}, nil
}
