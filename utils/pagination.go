package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
)

// Meta adalah metadata pagination yang dikirim bersama daftar.
type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// NewMeta menghitung metadata pagination. TotalPages minimal 1 walau total 0,
// supaya frontend tidak perlu kasus khusus halaman kosong.
func NewMeta(total int64, page, limit int) Meta {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	if totalPages < 1 {
		totalPages = 1
	}
	return Meta{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}

// ParsePageLimit membaca query ?page= dan ?limit= dengan default dan batas atas.
func ParsePageLimit(ctx *gin.Context) (page, limit int) {
	page = atoiDefault(ctx.Query("page"), defaultPage)
	if page < 1 {
		page = defaultPage
	}
	limit = atoiDefault(ctx.Query("limit"), defaultLimit)
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
