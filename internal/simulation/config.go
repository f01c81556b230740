package simulation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
)

// Model 시뮬레이션 모델 태그 (엔진의 판별자와 동일한 문자열)
type Model string

const (
	ModelGBM          Model = "gbm"
	ModelBootstrap    Model = "bootstrap"
	ModelStartupCosts Model = "startup_costs"
	ModelCreditRisk   Model = "credit_risk"
)

// Models 지원하는 모델 목록
var Models = []Model{ModelGBM, ModelBootstrap, ModelStartupCosts, ModelCreditRisk}

// UsesPrices gbm/bootstrap만 과거 가격 시계열을 사용
func (m Model) UsesPrices() bool {
	return m == ModelGBM || m == ModelBootstrap
}

// CostItem 스타트업 비용 항목
// 분포별 파라미터 키(mu, sigma, left, mode, right, low, high)는 엔진이 해석하므로 map으로 유지
type CostItem map[string]interface{}

// Loan 신용 포트폴리오의 대출 한 건
type Loan struct {
	EAD float64 `json:"ead" yaml:"ead"` // Exposure at Default
	PD  float64 `json:"pd" yaml:"pd"`   // 연간 부도확률
	LGD float64 `json:"lgd" yaml:"lgd"` // Loss Given Default
}

// Config 사용자 시뮬레이션 설정
// ⭐ mu/sigma는 gbm에서만 의미가 있지만 payload에는 항상 포함된다
type Config struct {
	Model       Model   `json:"model" yaml:"model" default:"gbm" validate:"required,oneof=gbm bootstrap startup_costs credit_risk"`
	Trials      int     `json:"trials" yaml:"trials" default:"20000" validate:"gt=0"`
	HorizonDays int     `json:"horizon_days" yaml:"horizon_days" default:"252" validate:"gt=0"`
	Confidence  float64 `json:"confidence" yaml:"confidence" default:"0.95" validate:"gt=0,lt=1"`
	Mu          float64 `json:"mu" yaml:"mu" default:"0.08"`
	Sigma       float64 `json:"sigma" yaml:"sigma" default:"0.2"`

	// startup_costs
	Costs   []CostItem `json:"costs,omitempty" yaml:"costs"`
	Periods int        `json:"periods,omitempty" yaml:"periods"`

	// credit_risk
	Loans       []Loan   `json:"loans,omitempty" yaml:"loans"`
	Correlation *float64 `json:"correlation,omitempty" yaml:"correlation"`
}

// ErrInvalidConfig 형태 검증 실패
var ErrInvalidConfig = errors.New("invalid simulation config")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// 에러 메시지에 Go 필드명 대신 JSON 키를 사용
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// DefaultConfig 기본값이 채워진 설정
// JSON/YAML 디코딩 전에 호출해야 명시적인 0 값(mu=0 등)이 기본값에 덮이지 않는다
func DefaultConfig() Config {
	var cfg Config
	if err := defaults.Set(&cfg); err != nil {
		// 태그가 잘못된 경우에만 발생
		panic(fmt.Sprintf("simulation: bad default tags: %v", err))
	}
	return cfg
}

// Validate 형태 검증 (모델 enum, trials/horizon 양수, 0 < confidence < 1)
// 수치적 타당성 검사는 엔진에 맡긴다
func Validate(cfg Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "lt":
		return fmt.Sprintf("%s must be less than %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation: %s", field, fe.Tag())
	}
}
