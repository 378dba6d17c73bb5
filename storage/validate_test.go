package storage

import (
	"mime/multipart"
	"net/textproto"
	"testing"

	"jejak-monev-backend/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileHeader(name, contentType string, size int64) *multipart.FileHeader {
	return &multipart.FileHeader{
		Filename: name,
		Size:     size,
		Header:   textproto.MIMEHeader{"Content-Type": []string{contentType}},
	}
}

func TestValidateUpload(t *testing.T) {
	tests := []struct {
		name     string
		fh       *multipart.FileHeader
		wantKind utils.ErrorKind
	}{
		{"file tidak ada", nil, utils.KindValidation},
		{"pdf valid", fileHeader("bukti.pdf", "application/pdf", 1024), 0},
		{"jpeg valid", fileHeader("foto.jpg", "image/jpeg", 1024), 0},
		{"docx valid", fileHeader("laporan.docx",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document", 1024), 0},
		{"xlsx valid", fileHeader("nilai.xlsx",
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", 1024), 0},
		{"ukuran tepat di batas", fileHeader("besar.pdf", "application/pdf", MaxUploadSize), 0},
		{"ukuran lewat batas", fileHeader("kebesaran.pdf", "application/pdf", MaxUploadSize + 1), utils.KindValidation},
		{"tipe tidak didukung", fileHeader("arsip.zip", "application/zip", 1024), utils.KindValidation},
		{"tanpa content type", fileHeader("misteri", "", 1024), utils.KindValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := ValidateUpload(tt.fh)
			if tt.wantKind == 0 {
				assert.Nil(t, appErr)
				return
			}
			require.NotNil(t, appErr)
			assert.Equal(t, tt.wantKind, appErr.Kind)
		})
	}
}
