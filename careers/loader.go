// Package careers 负责职业表的加载与领域标注。
// 职业表在进程启动时加载一次，此后只读。
package careers

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/edupath/careerkit/core"
	"github.com/edupath/careerkit/domains"
)

// LoadCSV 从 CSV 加载职业表并补全领域字段。
// 表头必须包含 career_id 与 title；其余列可缺省。
// 源文件缺失属于启动期致命错误，调用方不应降级。
func LoadCSV(path string) ([]core.CareerRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, core.NewDomainError(core.ModuleCareers, core.ErrorCodeNotFound,
			fmt.Sprintf("careers: open %s: %v", path, err))
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // 行宽不齐时按表头对齐，缺列留空

	rows, err := r.ReadAll()
	if err != nil {
		return nil, core.NewDomainError(core.ModuleCareers, core.ErrorCodeInvalidInput,
			fmt.Sprintf("careers: parse %s: %v", path, err))
	}
	if len(rows) < 2 {
		return nil, core.NewDomainError(core.ModuleCareers, core.ErrorCodeInvalidInput,
			fmt.Sprintf("careers: %s has no data rows", path))
	}

	col := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		col[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, required := range []string{"career_id", "title"} {
		if _, ok := col[required]; !ok {
			return nil, core.NewDomainError(core.ModuleCareers, core.ErrorCodeInvalidInput,
				fmt.Sprintf("careers: %s missing required column %q", path, required))
		}
	}

	field := func(row []string, name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	records := make([]core.CareerRecord, 0, len(rows)-1)
	seen := make(map[string]bool, len(rows)-1)
	for _, row := range rows[1:] {
		id := field(row, "career_id")
		if id == "" {
			continue
		}
		if seen[id] {
			return nil, core.NewDomainError(core.ModuleCareers, core.ErrorCodeInvalidInput,
				fmt.Sprintf("careers: duplicate career_id %s", id))
		}
		seen[id] = true
		records = append(records, core.CareerRecord{
			ID:                id,
			Title:             field(row, "title"),
			Description:       field(row, "description"),
			RequiredSkills:    field(row, "required_skills"),
			SuitableInterests: field(row, "suitable_interests"),
			EducationPath:     field(row, "education_path"),
			StreamTag:         field(row, "stream_tag"),
		})
	}

	domains.Annotate(records)
	return records, nil
}

// Index 构建 职业编号 → 记录 的只读索引。
func Index(records []core.CareerRecord) map[string]*core.CareerRecord {
	idx := make(map[string]*core.CareerRecord, len(records))
	for i := range records {
		idx[records[i].ID] = &records[i]
	}
	return idx
}
