package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"collegesite/internal/apperr"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

// validate проверяет теги binding, те же, что читает gin
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		switch name {
		case "-":
			return ""
		case "":
			return f.Name
		}
		return name
	})
	return v
}

// validateStruct переводит первую ошибку валидатора в сообщение для клиента
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return apperr.Validation(fmt.Sprintf("Field '%s' is required", fe.Field()))
	case "min", "gte":
		return apperr.Validation(fmt.Sprintf("Field '%s' must be at least %s", fe.Field(), fe.Param()))
	case "max", "lte":
		return apperr.Validation(fmt.Sprintf("Field '%s' must be at most %s", fe.Field(), fe.Param()))
	default:
		return apperr.Validation(fmt.Sprintf("Field '%s' is invalid", fe.Field()))
	}
}

// DecodeJSON разбирает тело запроса поверх уже заполненной записи:
// отсутствующие в теле поля сохраняют прежние значения
func DecodeJSON(body []byte, dst any) error {
	if len(strings.TrimSpace(string(body))) == 0 {
		return apperr.Validation("Request body is empty")
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return apperr.Wrap(apperr.KindValidation, "Invalid JSON body", err)
	}
	return nil
}
