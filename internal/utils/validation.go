package utils

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/sysu-ecnc-dev/employee-manager/backend/internal/domain"
)

// EmployeeInput 是录入员工时需要校验的字段，表单和 CSV 导入共用同一套规则
type EmployeeInput struct {
	FirstName  string `label:"First name" validate:"required,max=100"`
	LastName   string `label:"Last name" validate:"required,max=100"`
	Email      string `label:"Email" validate:"required,email,max=255"`
	Department string `label:"Department" validate:"max=100"`
	Position   string `label:"Position" validate:"max=100"`
}

func (in EmployeeInput) Employee() *domain.Employee {
	return &domain.Employee{
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Email:      in.Email,
		Department: in.Department,
		Position:   in.Position,
	}
}

// NewValidator 创建带英文翻译的校验器，错误信息中的字段名取自 label 标签
func NewValidator() (*validator.Validate, ut.Translator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		if label := field.Tag.Get("label"); label != "" {
			return label
		}
		return field.Name
	})

	en := en.New()
	uni := ut.New(en, en)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, nil, err
	}

	return validate, trans, nil
}

// ValidationResult 是表单校验的结构化结果，键为表单字段名
type ValidationResult struct {
	FieldErrors map[string]string
}

func (v ValidationResult) Valid() bool {
	return len(v.FieldErrors) == 0
}

func (v ValidationResult) Error(field string) string {
	return v.FieldErrors[field]
}

// NewValidationResult 将 validate.Struct 的返回值转换为 ValidationResult，
// 无法识别的错误原样返回
func NewValidationResult(err error, trans ut.Translator) (ValidationResult, error) {
	result := ValidationResult{FieldErrors: make(map[string]string)}
	if err == nil {
		return result, nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return result, err
	}

	for _, fe := range validationErrors {
		field := formFieldName(fe.StructField())
		// 同一个字段只保留第一条错误
		if _, exists := result.FieldErrors[field]; !exists {
			result.FieldErrors[field] = fe.Translate(trans)
		}
	}

	return result, nil
}

// formFieldName 将结构体字段名 FirstName 转换为表单字段名 firstName
func formFieldName(structField string) string {
	if structField == "" {
		return structField
	}
	return strings.ToLower(structField[:1]) + structField[1:]
}
