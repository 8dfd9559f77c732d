// Package embedding 负责文本向量化：职业文案与学生查询 → 稠密向量。
// 编码器可以是远端句向量服务（RemoteEncoder），也可以是进程内的
// 确定性哈希编码器（HashingEncoder，用于本地运行与测试）。
package embedding

import (
	"fmt"
	"strings"

	"github.com/edupath/careerkit/core"
)

// BuildCareerText 按固定顺序拼接职业文案，作为向量化输入。
// 顺序：title: description → 技能 → 适配兴趣 → 升学路径 → 流向。
// 空字段对应的子句整体省略；顺序不可变，缓存指纹依赖于它。
func BuildCareerText(r *core.CareerRecord) string {
	parts := []string{fmt.Sprintf("%s: %s", r.Title, r.Description)}

	if r.RequiredSkills != "" {
		parts = append(parts, "Required skills: "+r.RequiredSkills)
	}
	if r.SuitableInterests != "" {
		parts = append(parts, "Suitable for students interested in: "+r.SuitableInterests)
	}
	if r.EducationPath != "" {
		parts = append(parts, "Education path: "+r.EducationPath)
	}
	if r.StreamTag != "" {
		parts = append(parts, "Stream: "+r.StreamTag)
	}

	return strings.Join(parts, " ")
}
