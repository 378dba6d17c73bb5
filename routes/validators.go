package routes

import (
	"jejak-monev-backend/app/model"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterCustomValidators mendaftarkan aturan validasi domain ke engine
// validator milik gin. Panggil sekali di main sebelum router berjalan.
func RegisterCustomValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("monevcategory", func(fl validator.FieldLevel) bool {
		return model.ValidCategory(model.Category(fl.Field().String()))
	})
	_ = v.RegisterValidation("rolename", func(fl validator.FieldLevel) bool {
		return model.ValidRole(model.Role(fl.Field().String()))
	})
}

// validate mengekspos engine validator untuk pemakaian manual
// (item bulk upload yang datang sebagai string JSON).
func validate() *validator.Validate {
	v, _ := binding.Validator.Engine().(*validator.Validate)
	return v
}
