// Package training 提供离线训练数据构建：
// 领域模型的特征/标签生成、学生级数据划分、排序模型的 (学生, 职业) 对生成与评估。
package training

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/edupath/careerkit/core"
)

// AptitudeColumns 学生表的六维能力倾向列（与领域权重表的 key 对齐）。
var AptitudeColumns = []string{
	"aptitude_quant",
	"aptitude_logical",
	"aptitude_verbal",
	"aptitude_creative",
	"aptitude_technical",
	"aptitude_commerce",
}

// StudentRecord 是一行离线学生样本。
// 能力倾向与成绩保持学生表原始量表，不做在线侧的 0-10 归一。
type StudentRecord struct {
	ID           string
	Stream       string
	Interests    string // 逗号分隔兴趣串
	Aptitudes    map[string]float64
	Marks10th    float64
	Marks12th    float64
	BestCareerID string
}

// LoadStudents 从 CSV 装载学生样本。
// 必需列：student_id；能力倾向列缺失记 0；数值列解析失败记 0。
func LoadStudents(path string) ([]StudentRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeNotFound,
			fmt.Sprintf("training: open students csv %s: %v", path, err))
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeInvalidInput,
			fmt.Sprintf("training: parse students csv %s: %v", path, err))
	}
	if len(rows) < 2 {
		return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeInvalidInput,
			"training: students csv has no data rows")
	}

	col := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := col["student_id"]; !ok {
		return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeInvalidInput,
			"training: students csv missing student_id column")
	}

	get := func(row []string, name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}
	getFloat := func(row []string, name string) float64 {
		v, err := strconv.ParseFloat(get(row, name), 64)
		if err != nil {
			return 0
		}
		return v
	}

	students := make([]StudentRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		id := get(row, "student_id")
		if id == "" {
			continue
		}
		// 只记录表里真实存在的能力列；缺列由下游按中性值补齐
		apts := make(map[string]float64, len(AptitudeColumns))
		for _, c := range AptitudeColumns {
			if _, ok := col[c]; ok {
				apts[c] = getFloat(row, c)
			}
		}
		students = append(students, StudentRecord{
			ID:           id,
			Stream:       get(row, "stream"),
			Interests:    get(row, "interests"),
			Aptitudes:    apts,
			Marks10th:    getFloat(row, "marks_10th"),
			Marks12th:    getFloat(row, "marks_12th"),
			BestCareerID: get(row, "best_career_id"),
		})
	}
	return students, nil
}
