package auth

import (
	"testing"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/vidyalaya/core"
)

func TestPasswordPolicy(t *testing.T) {
	translator := core.NewTranslator()
	validate := core.NewValidator(translator)
	InitValidators(validate, translator)

	tests := []struct {
		name     string
		username string
		pwd      string
		wantMsg  string
	}{
		{name: "missing", username: "clerk", wantMsg: "this field is required"},
		{name: "too short", username: "clerk", pwd: "Ab1$", wantMsg: pwdMinLenText},
		{name: "whitespace", username: "clerk", pwd: "Abcd 1234$", wantMsg: pwdNoSpaceText},
		{name: "all numeric", username: "clerk", pwd: "1234567890", wantMsg: pwdNotAllNumText},
		{name: "no special", username: "clerk", pwd: "Abcdef123", wantMsg: pwdComplexityText},
		{name: "no upper", username: "clerk", pwd: "abcdef12$", wantMsg: pwdComplexityText},
		{name: "no digit", username: "clerk", pwd: "Abcdefgh$", wantMsg: pwdComplexityText},
		{name: "similar to username", username: "headmaster", pwd: "Headmaster1!", wantMsg: pwdAttrSimText},
		{name: "valid", username: "clerk", pwd: "Sup3r$ecret"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := SetAdminPassword{Username: tt.username, Password: tt.pwd}.Validate(validate)
			if tt.wantMsg == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error = %v", err)
				}
				return
			}
			vErrs, ok := err.(validator.ValidationErrors)
			if !ok || len(vErrs) != 1 {
				t.Fatalf("Validate() error = %v, want one validation error", err)
			}
			if got := vErrs[0].Translate(translator); got != tt.wantMsg {
				t.Errorf("Validate() message = %q, want %q", got, tt.wantMsg)
			}
			if vErrs[0].Field() != "password" {
				t.Errorf("Validate() field = %q, want password", vErrs[0].Field())
			}
		})
	}
}
