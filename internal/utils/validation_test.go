package utils_test

import (
	"errors"
	"testing"

	"github.com/sysu-ecnc-dev/employee-manager/backend/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type employeeForm struct {
	FirstName  string `label:"First name" validate:"required,max=100"`
	LastName   string `label:"Last name" validate:"required,max=100"`
	Email      string `label:"Email" validate:"required,email,max=255"`
	Department string `label:"Department" validate:"max=100"`
}

func TestNewValidationResult_Valid(t *testing.T) {
	validate, trans, err := utils.NewValidator()
	require.NoError(t, err)

	form := employeeForm{FirstName: "Ada", LastName: "Lovelace", Email: "ada@x.com"}
	result, err := utils.NewValidationResult(validate.Struct(form), trans)

	require.NoError(t, err)
	assert.True(t, result.Valid())
	assert.Empty(t, result.Error("email"))
}

func TestNewValidationResult_FieldErrors(t *testing.T) {
	validate, trans, err := utils.NewValidator()
	require.NoError(t, err)

	form := employeeForm{FirstName: "Ada", Email: "not-an-email"}
	result, err := utils.NewValidationResult(validate.Struct(form), trans)

	require.NoError(t, err)
	assert.False(t, result.Valid())
	assert.Len(t, result.FieldErrors, 2)
	assert.Equal(t, "Last name is a required field", result.Error("lastName"))
	assert.Equal(t, "Email must be a valid email address", result.Error("email"))
	assert.Empty(t, result.Error("firstName"))
}

func TestNewValidationResult_RequiredEmail(t *testing.T) {
	validate, trans, err := utils.NewValidator()
	require.NoError(t, err)

	result, err := utils.NewValidationResult(validate.Struct(employeeForm{FirstName: "Ada", LastName: "Lovelace"}), trans)

	require.NoError(t, err)
	assert.Equal(t, map[string]string{"email": "Email is a required field"}, result.FieldErrors)
}

func TestNewValidationResult_UnknownError(t *testing.T) {
	_, trans, err := utils.NewValidator()
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = utils.NewValidationResult(boom, trans)

	require.ErrorIs(t, err, boom)
}

func TestEmployeeInput(t *testing.T) {
	validate, trans, err := utils.NewValidator()
	require.NoError(t, err)

	input := utils.EmployeeInput{FirstName: "Ada", LastName: "Lovelace", Email: "not-an-email", Position: "Engineer"}
	result, err := utils.NewValidationResult(validate.Struct(input), trans)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"email": "Email must be a valid email address"}, result.FieldErrors)

	input.Email = "ada@x.com"
	result, err = utils.NewValidationResult(validate.Struct(input), trans)
	require.NoError(t, err)
	assert.True(t, result.Valid())

	employee := input.Employee()
	assert.Zero(t, employee.ID)
	assert.Equal(t, "Ada", employee.FirstName)
	assert.Equal(t, "Lovelace", employee.LastName)
	assert.Equal(t, "ada@x.com", employee.Email)
	assert.Equal(t, "Engineer", employee.Position)
}
