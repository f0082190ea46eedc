package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"obsdb/internal/httpx"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

var obsidPattern = regexp.MustCompile(`^L\d+$`)

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation("obsid", validateObsID)
}

func validateObsID(fl validator.FieldLevel) bool {
	return obsidPattern.MatchString(fl.Field().String())
}

// IsObsID reports whether v looks like an observation id ("L12345").
func IsObsID(v string) bool {
	return obsidPattern.MatchString(v)
}

// Struct validates s against its `validate` tags and returns one detail
// per failing field, or nil.
func Struct(s interface{}) []httpx.ErrorDetail {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []httpx.ErrorDetail{{Field: "", Message: err.Error()}}
	}

	var details []httpx.ErrorDetail
	for _, fe := range verrs {
		field := fe.Field()
		param := fe.Param()

		var message string
		switch fe.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", field)
		case "min":
			message = fmt.Sprintf("%s must be at least %s", field, param)
		case "max":
			message = fmt.Sprintf("%s must be at most %s", field, param)
		case "gte":
			message = fmt.Sprintf("%s must be greater than or equal to %s", field, param)
		case "lte":
			message = fmt.Sprintf("%s must be less than or equal to %s", field, param)
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", "))
		case "obsid":
			message = fmt.Sprintf("%s must look like L12345", field)
		default:
			message = fmt.Sprintf("%s is invalid", field)
		}

		details = append(details, httpx.ErrorDetail{
			Field:   strings.ToLower(field[:1]) + field[1:],
			Message: message,
		})
	}

	return details
}
