package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/edupath/careerkit/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
)

// initCELEnv 初始化 CEL 环境，定义变量
func initCELEnv() (*cel.Env, error) {
	env, err := cel.NewEnv(
		cel.Variable("candidate", cel.DynType),
		cel.Variable("label", cel.DynType),
		cel.Variable("student", cel.DynType),
		cel.Variable("rctx", cel.DynType),
	)
	return env, err
}

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	var err error
	celEnvOnce.Do(func() {
		celEnv, err = initCELEnv()
	})
	return celEnv, err
}

// Eval 是候选标签 DSL 解释器，使用 CEL (Common Expression Language) 实现。
//
// 表达式语法（CEL 标准语法）：
//   - 基础：label.recall_source == "embedding" / label.score_mode != "ml"
//   - 数值：candidate.score > 6.5 / candidate.scores.similarity >= 0.5
//   - 学生侧：student.stream == "Commerce" && candidate.score < 5.0
//   - 逻辑：label.score_mode == "rule" && candidate.score > 7.0
//   - 存在性：label.recall_source != null
//
// 示例：
//   - `label.recall_source.contains("stream")` → 召回来源含流向召回
//   - `candidate.scores.similarity < 0.2` → 低相似度候选
type Eval struct {
	cand *core.Candidate
	rctx *core.RecommendContext
	env  *cel.Env
}

// NewEval 创建一个新的 DSL 解释器。
func NewEval(cand *core.Candidate, rctx *core.RecommendContext) *Eval {
	env, _ := getCELEnv()
	return &Eval{
		cand: cand,
		rctx: rctx,
		env:  env,
	}
}

// Evaluate 解析并执行 DSL 表达式，返回布尔结果。
// 空表达式恒为 true。访问不存在的 key 会报错，
// 应使用 label.key != null 检查存在性。
func (e *Eval) Evaluate(expr string) (bool, error) {
	if expr == "" {
		return true, nil
	}

	ast, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return false, fmt.Errorf("compile error: %v", issues.Err())
	}

	prg, err := e.env.Program(ast)
	if err != nil {
		return false, fmt.Errorf("program error: %v", err)
	}

	out, _, err := prg.Eval(e.buildInput())
	if err != nil {
		return false, fmt.Errorf("eval error: %v", err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}

	return result, nil
}

// buildInput 构建 CEL 表达式的输入数据
func (e *Eval) buildInput() map[string]interface{} {
	labels := make(map[string]interface{})
	labelAccessor := make(map[string]interface{})
	if e.cand != nil {
		for k, v := range e.cand.Labels {
			labels[k] = map[string]interface{}{
				"value":  v.Value,
				"source": v.Source,
			}
			// label.recall_source 直接取 value，兼容简写
			labelAccessor[k] = v.Value
		}
	}

	candidate := map[string]interface{}{}
	if e.cand != nil {
		candidate = map[string]interface{}{
			"id":    e.cand.ID,
			"score": e.cand.Score,
			"scores": map[string]interface{}{
				"similarity":     e.cand.Scores.Similarity,
				"aptitude_score": e.cand.Scores.AptitudeScore,
				"interest_score": e.cand.Scores.InterestScore,
				"total_score":    e.cand.Scores.TotalScore,
			},
			"features": e.cand.Features,
			"meta":     e.cand.Meta,
			"labels":   labels,
		}
	}

	student := map[string]interface{}{}
	rctx := map[string]interface{}{}
	if e.rctx != nil {
		if p := e.rctx.Student; p != nil {
			student = map[string]interface{}{
				"email":         p.Email,
				"stream":        p.Stream,
				"class_level":   p.ClassLevel,
				"cgpa":          p.CGPA,
				"aptitudes":     p.Aptitudes(),
				"interests":     p.Interests(),
				"avg_aptitude":  p.AvgAptitude(),
				"goal_text":     p.GoalText,
				"marks_10th":    p.Marks10th,
				"marks_12th":    p.Marks12th,
				"maths_pct":     p.MathsPct,
				"science_pct":   p.SciencePct,
				"commerce_pct":  p.CommercePct,
				"english_pct":   p.EnglishPct,
				"cs_it_pct":     p.CSITPct,
			}
		}
		rctx = map[string]interface{}{
			"request_id": e.rctx.RequestID,
			"scene":      e.rctx.Scene,
			"query_text": e.rctx.QueryText,
			"params":     e.rctx.Params,
		}
	}

	return map[string]interface{}{
		"candidate": candidate,
		"label":     labelAccessor,
		"student":   student,
		"rctx":      rctx,
	}
}
