package feature

import (
	"context"
	"fmt"

	feastsdk "github.com/feast-dev/feast/sdk/go"
	feasttypes "github.com/feast-dev/feast/sdk/go/protos/feast/types"

	"github.com/edupath/careerkit/core"
)

// 默认从 Feast 拉取的学生特征视图字段。
var defaultStudentFeatures = []string{
	"student_stats:apt_quant",
	"student_stats:apt_logical",
	"student_stats:apt_verbal",
	"student_stats:apt_creative",
	"student_stats:apt_technical",
	"student_stats:apt_commerce",
	"student_stats:cgpa",
}

// FeastSource 是基于官方 Feast Go SDK 的在线特征源。
//
// 使用场景：
//   - 学生能力倾向等在线特征（按 student_id 实体查询）
//   - 职业特征一般为静态表（StaticService），不走 Feast
//
// 查询失败映射为 core.ErrFeatureUnavailable 语义（UNAVAILABLE），
// 实体无记录映射为 core.ErrFeatureNotFound，上层据此决定降级。
type FeastSource struct {
	client   *feastsdk.GrpcClient
	project  string
	features []string
	entity   string
	token    string

	careers core.FeatureService // 职业侧委托给静态表
}

// FeastOption 配置 FeastSource。
type FeastOption func(*FeastSource)

// WithFeatures 覆盖默认的学生特征视图字段。
func WithFeatures(features []string) FeastOption {
	return func(s *FeastSource) { s.features = features }
}

// WithEntityName 覆盖实体键名（默认 student_id）。
func WithEntityName(name string) FeastOption {
	return func(s *FeastSource) { s.entity = name }
}

// WithCareerService 指定职业侧的委托特征服务。
func WithCareerService(svc core.FeatureService) FeastOption {
	return func(s *FeastSource) { s.careers = svc }
}

// WithStaticToken 使用静态 Token 认证连接。
func WithStaticToken(token string) FeastOption {
	return func(s *FeastSource) { s.token = token }
}

// NewFeastSource 连接 Feast Feature Server 并创建特征源。
func NewFeastSource(host string, port int, project string, opts ...FeastOption) (*FeastSource, error) {
	if port == 0 {
		port = 6565
	}

	s := &FeastSource{
		project:  project,
		features: defaultStudentFeatures,
		entity:   "student_id",
	}
	for _, opt := range opts {
		opt(s)
	}

	var client *feastsdk.GrpcClient
	var err error
	if s.token != "" {
		security := feastsdk.SecurityConfig{
			EnableTLS:  false,
			Credential: feastsdk.NewStaticCredential(s.token),
		}
		client, err = feastsdk.NewSecureGrpcClient(host, port, security)
	} else {
		client, err = feastsdk.NewGrpcClient(host, port)
	}
	if err != nil {
		return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeUnavailable,
			fmt.Sprintf("feature: connect feast %s:%d: %v", host, port, err))
	}
	s.client = client
	return s, nil
}

func (s *FeastSource) Name() string { return "feast" }

func (s *FeastSource) GetStudentFeatures(ctx context.Context, studentID string) (map[string]float64, error) {
	batch, err := s.BatchGetStudentFeatures(ctx, []string{studentID})
	if err != nil {
		return nil, err
	}
	f, ok := batch[studentID]
	if !ok || len(f) == 0 {
		return nil, core.ErrFeatureNotFound
	}
	return f, nil
}

func (s *FeastSource) BatchGetStudentFeatures(ctx context.Context, studentIDs []string) (map[string]map[string]float64, error) {
	if len(studentIDs) == 0 {
		return map[string]map[string]float64{}, nil
	}

	entities := make([]feastsdk.Row, len(studentIDs))
	for i, id := range studentIDs {
		entities[i] = feastsdk.Row{s.entity: feastsdk.StrVal(id)}
	}

	resp, err := s.client.GetOnlineFeatures(ctx, &feastsdk.OnlineFeaturesRequest{
		Features: s.features,
		Entities: entities,
		Project:  s.project,
	})
	if err != nil {
		return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeUnavailable,
			fmt.Sprintf("feature: feast online query: %v", err))
	}

	return studentFeaturesFromRows(studentIDs, s.features, resp.Rows())
}

// studentFeaturesFromRows 把 Feast 响应行映射为 学生 -> 特征 表。
// 行数与实体数必须一一对应，否则无法安全对齐，报 INTERNAL_ERROR。
func studentFeaturesFromRows(studentIDs, features []string, rows []feastsdk.Row) (map[string]map[string]float64, error) {
	if len(rows) != len(studentIDs) {
		return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeInternalError,
			fmt.Sprintf("feature: feast returned %d rows for %d entities", len(rows), len(studentIDs)))
	}

	out := make(map[string]map[string]float64, len(studentIDs))
	for i, id := range studentIDs {
		values := make(map[string]float64, len(features))
		for _, name := range features {
			val, ok := rows[i][name]
			if !ok || val == nil {
				continue
			}
			if f, ok := numericValue(val); ok {
				values[featureShortName(name)] = f
			}
		}
		if len(values) > 0 {
			out[id] = values
		}
	}
	return out, nil
}

func (s *FeastSource) GetCareerFeatures(ctx context.Context, careerID string) (map[string]float64, error) {
	if s.careers == nil {
		return nil, core.ErrFeatureNotFound
	}
	return s.careers.GetCareerFeatures(ctx, careerID)
}

func (s *FeastSource) BatchGetCareerFeatures(ctx context.Context, careerIDs []string) (map[string]map[string]float64, error) {
	if s.careers == nil {
		return map[string]map[string]float64{}, nil
	}
	return s.careers.BatchGetCareerFeatures(ctx, careerIDs)
}

func (s *FeastSource) Close(ctx context.Context) error {
	// SDK 的 gRPC 连接由底层库管理，无显式 Close
	s.client = nil
	return nil
}

// featureShortName 去掉特征视图前缀：student_stats:apt_quant → apt_quant。
func featureShortName(name string) string {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == ':' {
			return name[i+1:]
		}
	}
	return name
}

// numericValue 从 SDK 的 proto 值中提取数值特征。
func numericValue(v *feasttypes.Value) (float64, bool) {
	switch val := v.GetVal().(type) {
	case *feasttypes.Value_DoubleVal:
		return val.DoubleVal, true
	case *feasttypes.Value_FloatVal:
		return float64(val.FloatVal), true
	case *feasttypes.Value_Int64Val:
		return float64(val.Int64Val), true
	case *feasttypes.Value_Int32Val:
		return float64(val.Int32Val), true
	case *feasttypes.Value_BoolVal:
		if val.BoolVal {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

var _ core.FeatureService = (*FeastSource)(nil)
