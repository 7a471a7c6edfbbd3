package validate

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New()
	// в ошибках используем имена полей из json-тегов
	val.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return val
}

// Struct проверяет структуру по тегам validate
func Struct(s any) error {
	return v.Struct(s)
}

// MissingFields возвращает json-имена незаполненных обязательных полей в порядке объявления.
// Прочие ошибки валидации возвращаются как есть.
func MissingFields(s any) ([]string, error) {
	err := v.Struct(s)
	if err == nil {
		return nil, nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, err
	}

	var missing []string
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			missing = append(missing, fe.Field())
		}
	}
	return missing, nil
}
