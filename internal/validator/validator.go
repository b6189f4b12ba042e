// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("user_role", validateUserRole)
		_ = v.RegisterValidation("invoice_status", validateInvoiceStatus)
		_ = v.RegisterValidation("project_status", validateProjectStatus)
	}
}

func validateUserRole(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "Admin", "Manager", "User":
		return true
	}
	return false
}

func validateInvoiceStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "Pending", "Paid", "Overdue", "Cancelled":
		return true
	}
	return false
}

func validateProjectStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "Active", "Completed", "On Hold", "Cancelled":
		return true
	}
	return false
}
