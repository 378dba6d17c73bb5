package utils

import (
	"errors"
	"net/http"
)

// ErrorKind mengklasifikasikan kegagalan operasi core supaya boundary layer
// (handler HTTP) bisa memetakan ke status code tanpa membaca pesan error.
type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindUnauthenticated
	KindForbidden
	KindNotFound
	// KindNoCurrentPeriod dibedakan dari KindNotFound: mahasiswa tanpa
	// periode aktif adalah keadaan normal yang diharapkan, bukan bug.
	KindNoCurrentPeriod
	KindImmutable
	KindConflict
	KindInternal
)

// HTTPStatus memetakan kind ke status code transport.
func (k ErrorKind) HTTPStatus() int {
	switch k {
	case KindValidation, KindImmutable:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound, KindNoCurrentPeriod:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// AppError adalah error ber-kind yang dikembalikan semua service core.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error // penyebab teknis, tidak diekspos ke klien
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// NewAppError membuat AppError dengan penyebab teknis opsional.
func NewAppError(kind ErrorKind, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

func Validation(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message}
}

func Unauthenticated(message string) *AppError {
	return &AppError{Kind: KindUnauthenticated, Message: message}
}

func Forbidden(message string) *AppError {
	return &AppError{Kind: KindForbidden, Message: message}
}

func NotFound(message string) *AppError {
	return &AppError{Kind: KindNotFound, Message: message}
}

func NoCurrentPeriod() *AppError {
	return &AppError{
		Kind:    KindNoCurrentPeriod,
		Message: "Periode monev saat ini tidak ditemukan. Silakan hubungi mentor Anda.",
	}
}

func Immutable(message string) *AppError {
	return &AppError{Kind: KindImmutable, Message: message}
}

func Internal(message string, err error) *AppError {
	return &AppError{Kind: KindInternal, Message: message, Err: err}
}

// AsAppError mengekstrak *AppError dari error apa pun; error tak dikenal
// diperlakukan sebagai KindInternal supaya tidak membocorkan detail.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{Kind: KindInternal, Message: "Terjadi kesalahan internal", Err: err}
}
