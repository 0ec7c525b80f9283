package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Report json names so messages match the payload the client sent
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Validate checks a request against its validate tags and returns a single
// human-readable error naming the first offending field.
func Validate(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fe := verrs[0]
	field := fieldPath(fe.Namespace())
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", field)
	case "oneof":
		return fmt.Errorf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "max":
		return fmt.Errorf("%s must be at most %s characters", field, fe.Param())
	case "min":
		return fmt.Errorf("%s must not be empty", field)
	default:
		return fmt.Errorf("%s is invalid", field)
	}
}

// fieldPath drops the struct name prefix: "CreateQuestionnaireRequest.questions[0].question"
// becomes "questions[0].question".
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}
