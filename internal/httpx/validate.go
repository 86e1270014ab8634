package httpx

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/MikeMC777/campus-eats/internal/order"
	"github.com/MikeMC777/campus-eats/internal/stall"
	"github.com/MikeMC777/campus-eats/internal/student"
)

// RegisterValidators adds the domain tags used in request bindings to gin's validator.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin validator is not go-playground/validator")
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	tags := map[string]validator.Func{
		"theme": func(fl validator.FieldLevel) bool {
			return student.Theme(fl.Field().String()).Valid()
		},
		"cuisine": func(fl validator.FieldLevel) bool {
			return stall.ValidCuisine(fl.Field().String())
		},
		"orderstatus": func(fl validator.FieldLevel) bool {
			_, ok := order.ParseStatus(fl.Field().String())
			return ok
		},
	}
	for tag, fn := range tags {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return errors.Wrapf(err, "register %s", tag)
		}
	}
	return nil
}
