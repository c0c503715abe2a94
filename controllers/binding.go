package controllers

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/meenakshirnair/Calcount/models"
)

// RegisterValidations adds the meal bucket check to gin's binding validator
// so malformed requests fail at the edge with a readable message.
func RegisterValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("mealtime", func(fl validator.FieldLevel) bool {
			return models.ValidMealTime(fl.Field().String())
		})
	}
}
