package config

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	semverPattern         = regexp.MustCompile(`^\d+\.\d+(?:\.\d+)?(?:-[0-9A-Za-z-.]+)?(?:\+[0-9A-Za-z-.]+)?$`)
	taskIDPattern         = regexp.MustCompile(`^[a-z0-9_-]+$`)
	domainNamePattern     = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)
	deploymentNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._#:-]*$`)
)

// validatorInstance configures and returns the shared validator used across the config package.
func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("semver", func(fl validator.FieldLevel) bool {
			return semverPattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("task_id", func(fl validator.FieldLevel) bool {
			return taskIDPattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("domain_name", func(fl validator.FieldLevel) bool {
			return domainNamePattern.MatchString(fl.Field().String())
		})

		// Application names end up as asadmin operands and dotted-name
		// segments, so whitespace and path separators are rejected.
		_ = v.RegisterValidation("deployment_name", func(fl validator.FieldLevel) bool {
			return deploymentNamePattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("port", func(fl validator.FieldLevel) bool {
			return IsPort(fl.Field().String())
		})

		validateInst = v
	})

	return validateInst
}

// IsPort reports whether raw is a TCP port number.
func IsPort(raw string) bool {
	n, err := strconv.Atoi(raw)
	return err == nil && n > 0 && n <= 65535
}
