package handler

import (
	"errors"
	"net/http"
	"reflect"

	"primemotors/internal/apierror"
	"primemotors/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the 400 response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid JSON: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		var ves validator.ValidationErrors
		if errors.As(err, &ves) && len(ves) > 0 {
			fe := ves[0]
			c.JSON(http.StatusBadRequest, apierror.WithDetails("validation failed", fe.Field()+" failed on "+fe.Tag()))
			return false
		}
		c.JSON(http.StatusBadRequest, apierror.New("validation failed"))
		return false
	}
	return true
}

// respondServiceError maps service sentinels onto the HTTP error taxonomy.
// Unknown errors become a 500 with the cause in details; raw SQL never
// reaches the client because repositories wrap driver errors.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.Is(err, service.ErrAlreadyTransferred):
		c.JSON(http.StatusBadRequest, apierror.New("unit has already been transferred"))
	case errors.Is(err, service.ErrAlreadySold):
		c.JSON(http.StatusBadRequest, apierror.New("unit has already been sold"))
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, apierror.WithDetails("internal server error", err.Error()))
	}
}
