package feature

import (
	"context"
	"strings"

	"github.com/edupath/careerkit/core"
	"github.com/edupath/careerkit/domains"
)

// StaticService 是内存态的特征服务实现。
//
// 使用场景：
//   - 职业静态特征（领域 one-hot、流向标志）：由职业表一次性物化
//   - 学生特征：由画像注册进来，或留空走 Feast 在线源
//
// 查不到的实体返回 core.ErrFeatureNotFound，由上层决定降级策略。
type StaticService struct {
	name     string
	students map[string]map[string]float64
	careers  map[string]map[string]float64
}

// NewStaticService 创建空的内存特征服务。
func NewStaticService(name string) *StaticService {
	return &StaticService{
		name:     name,
		students: make(map[string]map[string]float64),
		careers:  make(map[string]map[string]float64),
	}
}

// NewCareerTableService 由职业表物化职业静态特征。
func NewCareerTableService(records []core.CareerRecord) *StaticService {
	s := NewStaticService("career_table")
	for i := range records {
		s.careers[records[i].ID] = CareerFeatures(&records[i])
	}
	return s
}

func (s *StaticService) Name() string { return s.name }

// PutStudentFeatures 注册学生特征。
func (s *StaticService) PutStudentFeatures(studentID string, features map[string]float64) {
	s.students[studentID] = features
}

// PutCareerFeatures 注册职业特征。
func (s *StaticService) PutCareerFeatures(careerID string, features map[string]float64) {
	s.careers[careerID] = features
}

func (s *StaticService) GetStudentFeatures(ctx context.Context, studentID string) (map[string]float64, error) {
	f, ok := s.students[studentID]
	if !ok {
		return nil, core.ErrFeatureNotFound
	}
	return f, nil
}

func (s *StaticService) BatchGetStudentFeatures(ctx context.Context, studentIDs []string) (map[string]map[string]float64, error) {
	out := make(map[string]map[string]float64, len(studentIDs))
	for _, id := range studentIDs {
		if f, ok := s.students[id]; ok {
			out[id] = f
		}
	}
	return out, nil
}

func (s *StaticService) GetCareerFeatures(ctx context.Context, careerID string) (map[string]float64, error) {
	f, ok := s.careers[careerID]
	if !ok {
		return nil, core.ErrFeatureNotFound
	}
	return f, nil
}

func (s *StaticService) BatchGetCareerFeatures(ctx context.Context, careerIDs []string) (map[string]map[string]float64, error) {
	out := make(map[string]map[string]float64, len(careerIDs))
	for _, id := range careerIDs {
		if f, ok := s.careers[id]; ok {
			out[id] = f
		}
	}
	return out, nil
}

func (s *StaticService) Close(ctx context.Context) error { return nil }

// CareerFeatures 物化单个职业的静态特征：
// 领域 one-hot（domain_*）+ 流向标志（stream_*）+ 技能/兴趣标签规模。
func CareerFeatures(r *core.CareerRecord) map[string]float64 {
	f := make(map[string]float64, 12)

	domain := r.Domain
	if domain == "" {
		domain = domains.CareerDomain(r.ID)
	}
	for _, d := range core.AllDomains() {
		key := "domain_" + string(d)
		if d == domain {
			f[key] = 1
		} else {
			f[key] = 0
		}
	}

	tag := strings.ToLower(r.StreamTag)
	f["stream_both"] = boolFeature(strings.Contains(tag, "both"))
	f["stream_science"] = boolFeature(strings.Contains(tag, "science"))
	f["stream_commerce"] = boolFeature(strings.Contains(tag, "commerce"))

	f["num_skills"] = float64(len(splitCSVField(r.RequiredSkills)))
	f["num_interests"] = float64(len(splitCSVField(r.SuitableInterests)))
	return f
}

// ProfileFeatures 把标准化画像展开为学生特征。
func ProfileFeatures(p *core.StudentProfile) map[string]float64 {
	f := map[string]float64{
		"cgpa":       p.CGPA,
		"marks_10th": p.Marks10th,
		"marks_12th": p.Marks12th,
	}
	for k, v := range p.Aptitudes() {
		f["apt_"+k] = v
	}
	for k, v := range p.Interests() {
		f[k+"_interest"] = v
	}
	return f
}

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func splitCSVField(s string) []string {
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}

var _ core.FeatureService = (*StaticService)(nil)
