package utils

import (
	"github.com/gin-gonic/gin"
)

// APIResponse adalah amplop JSON standar yang diterima frontend.
// Contoh sukses : { "success": true,  "message": "...", "data": { ... } }
// Contoh gagal  : { "success": false, "message": "..." }
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// BuildResponseSuccess dipakai saat request berhasil (HTTP 200/201).
func BuildResponseSuccess(message string, data interface{}) APIResponse {
	return APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	}
}

// BuildResponsePage seperti BuildResponseSuccess tapi menyertakan metadata
// pagination untuk endpoint daftar.
func BuildResponsePage(message string, data interface{}, meta Meta) APIResponse {
	return APIResponse{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    &meta,
	}
}

// BuildResponseFailed dipakai saat terjadi error (HTTP 400, 401, 403, 404, 500).
func BuildResponseFailed(message string) APIResponse {
	return APIResponse{
		Success: false,
		Message: message,
	}
}

// WriteError memetakan error service ke status code + amplop gagal.
// Satu-satunya tempat kind diterjemahkan ke transport.
func WriteError(ctx *gin.Context, err error) {
	appErr := AsAppError(err)
	ctx.JSON(appErr.Kind.HTTPStatus(), BuildResponseFailed(appErr.Message))
}
