package storage

import (
	"mime/multipart"

	"jejak-monev-backend/utils"
)

// MaxUploadSize adalah batas ukuran file bukti (10 MiB).
const MaxUploadSize = 10 * 1024 * 1024

// allowedMIMETypes adalah daftar tipe file bukti yang diterima:
// gambar, PDF, dan dokumen Office.
var allowedMIMETypes = map[string]bool{
	"image/jpeg":         true,
	"image/jpg":          true,
	"image/png":          true,
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":       true,
}

// ValidateUpload menolak file di luar allowlist MIME atau di atas batas
// ukuran, sebelum ada byte yang ditulis ke storage.
func ValidateUpload(fh *multipart.FileHeader) *utils.AppError {
	if fh == nil {
		return utils.Validation("File wajib diupload")
	}
	if fh.Size > MaxUploadSize {
		return utils.Validation("Ukuran file maksimal 10 MB")
	}
	ct := fh.Header.Get("Content-Type")
	if !allowedMIMETypes[ct] {
		return utils.Validation("Tipe file tidak didukung. Hanya JPG, PNG, PDF, DOC, DOCX, XLS, XLSX yang diperbolehkan.")
	}
	return nil
}
