package utils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateStruct 按 validate 标签校验结构体，返回可直接展示的错误信息
func ValidateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describeFieldError(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s 不能为空", fe.Field())
	case "min":
		return fmt.Sprintf("%s 不能小于 %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s 不能大于 %s", fe.Field(), fe.Param())
	case "email":
		return fmt.Sprintf("%s 不是有效的邮箱", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s 必须是 [%s] 之一", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s 校验失败（%s）", fe.Field(), fe.Tag())
	}
}
