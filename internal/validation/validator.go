package validation

import (
	"reflect"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/mattlince/aws-partner-tracker-sub000/internal/models"
)

type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New()

	v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		value, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}
		_, err := time.Parse("2006-01-02", value)
		return err == nil
	})

	phoneRegex := regexp.MustCompile(`^\+?[0-9]{7,15}$`)
	v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		value, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}
		return phoneRegex.MatchString(value)
	})

	v.RegisterValidation("tier", func(fl validator.FieldLevel) bool {
		if fl.Field().Kind() != reflect.Int && fl.Field().Kind() != reflect.Int32 && fl.Field().Kind() != reflect.Int64 {
			return false
		}
		val := fl.Field().Int()
		return val >= 1 && val <= 3
	})

	v.RegisterValidation("dealstage", oneOf(models.DealStages))
	v.RegisterValidation("touchpointtype", oneOf(models.TouchpointTypes))
	v.RegisterValidation("touchoutcome", oneOf(models.TouchpointOutcomes))
	v.RegisterValidation("referraltype", oneOf(models.ReferralTypes))
	v.RegisterValidation("memberrole", oneOf(models.MemberRoles))

	return &Validator{v: v}
}

func oneOf(allowed []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}
		for _, a := range allowed {
			if value == a {
				return true
			}
		}
		return false
	}
}

func (v *Validator) Struct(s interface{}) error {
	return v.v.Struct(s)
}

func (v *Validator) ValidationErrors(err error) validator.ValidationErrors {
	if err == nil {
		return nil
	}
	if ve, ok := err.(validator.ValidationErrors); ok {
		return ve
	}
	return nil
}
