package utils

import (
	"regexp"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"neoadmin/internal/pkg/auth"
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	registerOnce    sync.Once
	registerErr     error
)

// RegisterValidators 向 gin 的校验引擎注册自定义规则
//   - alphanumunder: 只允许字母、数字、下划线
//   - password: 8-128位且同时包含字母和数字
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		if err := v.RegisterValidation("alphanumunder", validateAlphaNumUnder); err != nil {
			registerErr = err
			return
		}
		registerErr = v.RegisterValidation("password", validatePassword)
	})
	return registerErr
}

func validateAlphaNumUnder(fl validator.FieldLevel) bool {
	return usernamePattern.MatchString(fl.Field().String())
}

func validatePassword(fl validator.FieldLevel) bool {
	return auth.ValidatePasswordStrength(fl.Field().String()) == nil
}
