package validation

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-user-accounts/internal/domain/rules"
)

type signup struct {
	Email    string `json:"email" binding:"required,emailshape"`
	FullName string `json:"fullName" binding:"required,min=3,max=100,fullname"`
	Password string `json:"password" binding:"strongpwd"`
}

func TestInit_RegistersRuleTags(t *testing.T) {
	require.NoError(t, Init())

	err := binding.Validator.ValidateStruct(&signup{Email: "nope", FullName: "A1", Password: "weak"})
	require.Error(t, err)

	details := ToDetails(err)
	assert.Equal(t, "must be a valid email", details["email"])
	assert.Equal(t, "must be at least 3 characters long", details["fullName"])
	assert.Contains(t, details["password"], "at least 8 characters")

	assert.NoError(t, binding.Validator.ValidateStruct(&signup{Email: "a@b.co", FullName: "Alice", Password: "Abcdef1!"}))
}

func TestToDetails_NameTags(t *testing.T) {
	require.NoError(t, Init())

	details := ToDetails(binding.Validator.ValidateStruct(&signup{Email: "a@b.co", FullName: "Alice 2", Password: "Abcdef1!"}))
	assert.Equal(t, map[string]string{"fullName": "must contain only letters and spaces"}, details)

	long := strings.Repeat("a", 101)
	details = ToDetails(binding.Validator.ValidateStruct(&signup{Email: "a@b.co", FullName: long, Password: "Abcdef1!"}))
	assert.Equal(t, map[string]string{"fullName": "must be at most 100 characters long"}, details)
}

func TestToDetails_JSON(t *testing.T) {
	var v map[string]any
	err := json.Unmarshal([]byte("{"), &v)
	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(err))
	assert.Nil(t, ToDetails(nil))
}

func TestToDetails_Violation(t *testing.T) {
	err := rules.ValidatePassword("x")
	assert.Equal(t, map[string]string{"password": err.Error()}, ToDetails(err))
}
