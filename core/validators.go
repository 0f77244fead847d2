package core

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/pkg/errors"
)

// school classes
const (
	MinClass = 1
	MaxClass = 10
)

var (
	// custom validation tags & texts
	digitsTag   = "digits"
	digitsText  = "only digits are allowed"
	digitsRegex = regexp.MustCompile(`^[0-9]+$`)

	schoolClassTag  = "schoolclass"
	schoolClassText = fmt.Sprintf("class must be between %d and %d", MinClass, MaxClass)

	requiredTag     = "required"
	requiredWithTag = "required_with"
	requiredText    = "this field is required"

	ErrInvalidClass = errors.New("class must be between 1 and 10")
)

// NewTranslator returns the english translator used for validation messages.
func NewTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

// NewValidator returns a validator with the app's custom tags and translations registered.
func NewValidator(translator ut.Translator) *validator.Validate {
	validate := validator.New()
	InitValidators(validate, translator)
	return validate
}

// InitValidators instantiates the validator for use.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		tag := fld.Tag.Get("json")
		if tag == "" {
			tag = fld.Tag.Get("form")
		}
		name := strings.SplitN(tag, ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// dates validate as time.Time, the zero Date as a missing value
	validate.RegisterCustomTypeFunc(dateTypeFunc, Date{})

	// register custom validators
	_ = validate.RegisterValidation(digitsTag, digitsValidation)
	RegisterCustomTranslation(validate, translator, digitsTag, digitsText)

	_ = validate.RegisterValidation(schoolClassTag, schoolClassValidation)
	RegisterCustomTranslation(validate, translator, schoolClassTag, schoolClassText)

	RegisterCustomTranslation(validate, translator, requiredTag, requiredText, true)
	RegisterCustomTranslation(validate, translator, requiredWithTag, requiredText, true)
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag.
func RegisterCustomTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// ValidClass reports whether class is a school class.
func ValidClass(class int) bool {
	return class >= MinClass && class <= MaxClass
}

// CheckClass returns a ValidationError when class is out of range.
func CheckClass(class int) error {
	if !ValidClass(class) {
		return NewValidationError(ErrInvalidClass)
	}
	return nil
}

func dateTypeFunc(field reflect.Value) interface{} {
	if d, ok := field.Interface().(Date); ok && !d.IsZero() {
		return d.Time
	}
	return nil
}

// Custom Global Validators

func digitsValidation(fl validator.FieldLevel) bool {
	return digitsRegex.MatchString(fl.Field().String())
}

func schoolClassValidation(fl validator.FieldLevel) bool {
	return ValidClass(int(fl.Field().Int()))
}
