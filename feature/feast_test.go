package feature

import (
	"context"
	"os"
	"strconv"
	"strings"
	"testing"

	feastsdk "github.com/feast-dev/feast/sdk/go"
	feasttypes "github.com/feast-dev/feast/sdk/go/protos/feast/types"

	"github.com/edupath/careerkit/core"
)

func TestFeatureShortName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"student_stats:apt_quant", "apt_quant"},
		{"apt_quant", "apt_quant"},
		{"a:b:c", "c"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := featureShortName(tt.in); got != tt.want {
			t.Errorf("featureShortName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNumericValue(t *testing.T) {
	tests := []struct {
		name string
		val  *feasttypes.Value
		want float64
		ok   bool
	}{
		{"double", &feasttypes.Value{Val: &feasttypes.Value_DoubleVal{DoubleVal: 8.5}}, 8.5, true},
		{"float", &feasttypes.Value{Val: &feasttypes.Value_FloatVal{FloatVal: 7.0}}, 7.0, true},
		{"int64", &feasttypes.Value{Val: &feasttypes.Value_Int64Val{Int64Val: 9}}, 9, true},
		{"int32", &feasttypes.Value{Val: &feasttypes.Value_Int32Val{Int32Val: 6}}, 6, true},
		{"bool true", &feasttypes.Value{Val: &feasttypes.Value_BoolVal{BoolVal: true}}, 1, true},
		{"string 不可用", &feasttypes.Value{Val: &feasttypes.Value_StringVal{StringVal: "x"}}, 0, false},
		{"空值不可用", &feasttypes.Value{}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := numericValue(tt.val)
			if got != tt.want || ok != tt.ok {
				t.Errorf("numericValue = (%v, %v), want (%v, %v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestStudentFeaturesFromRows(t *testing.T) {
	features := []string{"student_stats:apt_technical", "student_stats:cgpa", "student_stats:label"}
	rows := []feastsdk.Row{
		{
			"student_stats:apt_technical": {Val: &feasttypes.Value_DoubleVal{DoubleVal: 9}},
			"student_stats:cgpa":          {Val: &feasttypes.Value_FloatVal{FloatVal: 8.5}},
			"student_stats:label":         {Val: &feasttypes.Value_StringVal{StringVal: "x"}}, // 非数值跳过
		},
		{}, // 无特征的实体不出现在结果里
	}

	out, err := studentFeaturesFromRows([]string{"S1", "S2"}, features, rows)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 {
		t.Fatalf("结果 %d 个学生, want 1", len(out))
	}
	s1 := out["S1"]
	if s1["apt_technical"] != 9 || s1["cgpa"] != 8.5 {
		t.Errorf("S1 特征 = %v", s1)
	}
	if _, ok := s1["label"]; ok {
		t.Error("非数值特征不应保留")
	}
}

func TestStudentFeaturesFromRowsMismatch(t *testing.T) {
	// 行数与实体数不符：无法对齐，必须报内部错误
	_, err := studentFeaturesFromRows([]string{"S1", "S2"}, nil, []feastsdk.Row{{}})
	if !core.IsInternalError(err) {
		t.Errorf("err = %v, want INTERNAL_ERROR", err)
	}
}

// 集成测试：需要本地 Feast Feature Server，通过 FEAST_ADDR 环境变量开启。
//   FEAST_ADDR=127.0.0.1:6565 FEAST_PROJECT=edupath go test ./feature/ -run TestFeastSource
func TestFeastSourceOnline(t *testing.T) {
	addr := os.Getenv("FEAST_ADDR")
	if addr == "" {
		t.Skip("FEAST_ADDR 未设置，跳过 Feast 集成测试")
	}
	host := addr
	port := 6565
	if i := strings.LastIndex(addr, ":"); i >= 0 {
		host = addr[:i]
		if p, err := strconv.Atoi(addr[i+1:]); err == nil {
			port = p
		}
	}

	src, err := NewFeastSource(host, port, os.Getenv("FEAST_PROJECT"))
	if err != nil {
		t.Fatalf("connect feast %s: %v", addr, err)
	}
	t.Cleanup(func() { src.Close(context.Background()) })

	features, err := src.GetStudentFeatures(context.Background(), "S001")
	if err != nil {
		t.Fatalf("GetStudentFeatures: %v", err)
	}
	if len(features) == 0 {
		t.Error("S001 应至少返回一个在线特征")
	}
}
