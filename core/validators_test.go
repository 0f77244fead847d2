package core

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_translations(t *testing.T) {
	translator := NewTranslator()
	validate := NewValidator(translator)

	type form struct {
		Name       string `json:"name" validate:"required"`
		Class      int    `json:"class" validate:"required,schoolclass"`
		NationalID string `json:"national_id" validate:"required,digits"`
		DOB        Date   `json:"dob" validate:"required"`
		Upload     string `form:"title" validate:"required"`
		Hidden     string `json:"-" validate:"required"`
	}

	tests := []struct {
		name string
		data form
		want map[string]string
	}{
		{
			name: "everything missing",
			want: map[string]string{
				"name":        "this field is required",
				"class":       "this field is required",
				"national_id": "this field is required",
				"dob":         "this field is required",
				"title":       "this field is required",
				"Hidden":      "this field is required",
			},
		},
		{
			name: "custom tags",
			data: form{Name: "A", Class: 11, NationalID: "12ab", DOB: Today(), Upload: "x", Hidden: "x"},
			want: map[string]string{
				"class":       "class must be between 1 and 10",
				"national_id": "only digits are allowed",
			},
		},
		{
			name: "valid",
			data: form{Name: "A", Class: 10, NationalID: "123456789012", DOB: Today(), Upload: "x", Hidden: "x"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.data)
			if tt.want == nil {
				require.NoError(t, err)
				return
			}
			vErrs, ok := err.(validator.ValidationErrors)
			require.True(t, ok, "error = %v", err)

			got := make(map[string]string, len(vErrs))
			for _, fe := range vErrs {
				got[fe.Field()] = fe.Translate(translator)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckClass(t *testing.T) {
	for class := MinClass; class <= MaxClass; class++ {
		assert.NoError(t, CheckClass(class))
	}
	for _, class := range []int{-1, 0, 11} {
		err := CheckClass(class)
		vErr, ok := err.(*ValidationError)
		require.True(t, ok, "CheckClass(%d) error = %v", class, err)
		assert.Equal(t, ErrInvalidClass, vErr.Err)
	}
}

func TestIsShutdown(t *testing.T) {
	assert.True(t, IsShutdown(NewShutdownError("db gone")))
	assert.False(t, IsShutdown(NewNotFoundError(ErrInvalidClass)))
	assert.False(t, IsShutdown(nil))
}
