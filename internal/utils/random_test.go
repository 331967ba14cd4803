package utils_test

import (
	"regexp"
	"strings"
	"testing"

	"github.com/sysu-ecnc-dev/employee-manager/backend/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateEmailFromChineseName(t *testing.T) {
	email := utils.GenerateEmailFromChineseName("王", "小明", "example.com")

	assert.Regexp(t, regexp.MustCompile(`^xiaoming\.wang[0-9]{1,3}@example\.com$`), email)
}

func TestGenerateRandomEmployee_PassesValidation(t *testing.T) {
	validate, trans, err := utils.NewValidator()
	require.NoError(t, err)

	type form struct {
		FirstName string `label:"First name" validate:"required"`
		LastName  string `label:"Last name" validate:"required"`
		Email     string `label:"Email" validate:"required,email"`
	}

	for i := 0; i < 20; i++ {
		e := utils.GenerateRandomEmployee("example.com", false)
		result, err := utils.NewValidationResult(validate.Struct(form{FirstName: e.FirstName, LastName: e.LastName, Email: e.Email}), trans)
		require.NoError(t, err)
		assert.True(t, result.Valid(), "%+v", result.FieldErrors)
		assert.True(t, strings.HasSuffix(e.Email, "@example.com"))
		assert.Zero(t, e.ID)
	}
}

func TestGenerateRandomEmployee_RandomEmail(t *testing.T) {
	e := utils.GenerateRandomEmployee("example.com", true)

	assert.Contains(t, e.Email, "@")
	assert.NotEmpty(t, e.FirstName)
	assert.NotEmpty(t, e.LastName)
}
