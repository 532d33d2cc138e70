package api

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes
	"reflect"  // Struct tag lookup
	"strings"  // Tag parsing

	"consciousbet/internal/domain" // Enum parsing

	"github.com/gin-gonic/gin"               // Gin web framework
	"github.com/gin-gonic/gin/binding"       // Gin request binding
	"github.com/go-playground/validator/v10" // Struct validation
)

// RegisterValidators adds the bettype and betstatus tags to gin's validator
// and reports fields by their JSON names
func RegisterValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("bettype", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseBetType(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("betstatus", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseBetStatus(fl.Field().String())
		return err == nil
	})
}

// fieldErrors turns validator errors into a field -> message map
func fieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = describe(fe)
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "bettype":
		return "must be one of SPORTS, CASINO, LOTTERY, POKER"
	case "betstatus":
		return "must be one of PENDING, ACTIVE, WON, LOST, CANCELLED"
	}
	return "is invalid"
}

// bindJSON binds the body into req, answering 400 itself when it cannot
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		if fields := fieldErrors(err); fields != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "fields": fields})
			return false
		}
		// If binding fails, return bad request
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return false
	}
	return true
}
