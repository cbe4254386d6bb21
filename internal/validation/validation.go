package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jrsteele09/squadhub/apierrors"
)

// MessageTag overrides the message for every failing rule on a field.
const MessageTag = "msg"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// Struct checks s against its `validate` tags. Failures are keyed by the
// json name of the field, dotted for nested structs, so they line up with
// errors normalized from the backend.
func Struct(s any) apierrors.Errors {
	out := apierrors.Errors{}
	err := validate.Struct(s)
	if err == nil {
		return out
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		out.Add(apierrors.NonFieldErrors, err.Error())
		return out
	}

	root := reflect.Indirect(reflect.ValueOf(s)).Type()
	for _, fe := range fieldErrs {
		field := fieldPath(fe.Namespace())
		msg := customMessage(root, fe.StructNamespace())
		if msg == "" {
			msg = defaultMessage(fe)
		}
		out.Add(field, msg)
	}
	return out
}

// Err is Struct wrapped as an error, nil when s is valid.
func Err(s any) error {
	return Struct(s).Err()
}

// fieldPath drops the leading type name from a validator namespace.
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func customMessage(root reflect.Type, structNS string) string {
	parts := strings.Split(structNS, ".")
	if len(parts) < 2 {
		return ""
	}
	t := root
	var field reflect.StructField
	for _, name := range parts[1:] {
		if i := strings.Index(name, "["); i >= 0 {
			name = name[:i]
		}
		for t.Kind() == reflect.Pointer || t.Kind() == reflect.Slice {
			t = t.Elem()
		}
		if t.Kind() != reflect.Struct {
			return ""
		}
		f, ok := t.FieldByName(name)
		if !ok {
			return ""
		}
		field = f
		t = f.Type
	}
	return field.Tag.Get(MessageTag)
}

func defaultMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Required"
	case "email":
		return "Invalid email"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("String must contain at least %s character(s)", fe.Param())
		}
		return fmt.Sprintf("Number must be greater than or equal to %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("String must contain at most %s character(s)", fe.Param())
		}
		return fmt.Sprintf("Number must be less than or equal to %s", fe.Param())
	case "oneof":
		options := strings.Fields(fe.Param())
		for i, o := range options {
			options[i] = "'" + o + "'"
		}
		return fmt.Sprintf("Invalid enum value. Expected %s, received '%v'", strings.Join(options, " | "), fe.Value())
	case "eqfield":
		return fmt.Sprintf("Must match %s", fe.Param())
	case "url":
		return "Invalid url"
	default:
		return "Invalid input"
	}
}
