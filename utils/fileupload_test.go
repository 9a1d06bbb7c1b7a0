package utils

import (
	"bytes"
	"mime/multipart"
	"net/textproto"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestFileHeader creates a multipart.FileHeader for testing
func createTestFileHeader(filename string, size int64, content []byte) *multipart.FileHeader {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="`+filename+`"`)
	h.Set("Content-Type", "application/octet-stream")
	part, _ := writer.CreatePart(h)
	part.Write(content)
	writer.Close()

	reader := multipart.NewReader(body, writer.Boundary())
	form, _ := reader.ReadForm(int64(len(content)) + 1024)
	defer form.RemoveAll()

	if len(form.File["image"]) > 0 {
		fileHeader := form.File["image"][0]
		// Override size for testing purposes
		fileHeader.Size = size
		return fileHeader
	}

	return nil
}

func TestValidateImageFile(t *testing.T) {
	content := []byte("fake image content")

	tests := []struct {
		name     string
		filename string
		size     int64
		wantCode string
	}{
		{name: "png", filename: "photo.png", size: int64(len(content))},
		{name: "jpg", filename: "photo.jpg", size: int64(len(content))},
		{name: "jpeg", filename: "photo.jpeg", size: int64(len(content))},
		{name: "webp", filename: "photo.webp", size: int64(len(content))},
		{name: "uppercase extension", filename: "photo.PNG", size: int64(len(content))},
		{name: "gif rejected", filename: "photo.gif", size: int64(len(content)), wantCode: "INVALID_FILE_FORMAT"},
		{name: "no extension", filename: "photo", size: int64(len(content)), wantCode: "INVALID_FILE_FORMAT"},
		{name: "too large", filename: "photo.png", size: 11 * 1024 * 1024, wantCode: "FILE_TOO_LARGE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fileHeader := createTestFileHeader(tt.filename, tt.size, content)
			require.NotNil(t, fileHeader)

			err := ValidateImageFile(fileHeader)
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}

			fileErr, ok := err.(*FileUploadError)
			require.True(t, ok, "Error should be of type FileUploadError")
			assert.Equal(t, tt.wantCode, fileErr.Code)
		})
	}
}

func TestValidateImageFile_NilHeader(t *testing.T) {
	err := ValidateImageFile(nil)
	fileErr, ok := err.(*FileUploadError)
	require.True(t, ok)
	assert.Equal(t, "NO_FILE", fileErr.Code)
}

func TestImageContentType(t *testing.T) {
	ct, ok := ImageContentType("a.JPG")
	assert.True(t, ok)
	assert.Equal(t, "image/jpeg", ct)

	ct, ok = ImageContentType("a.webp")
	assert.True(t, ok)
	assert.Equal(t, "image/webp", ct)

	_, ok = ImageContentType("a.bmp")
	assert.False(t, ok)
}

func TestBarberPhotoKey(t *testing.T) {
	now := time.Unix(1700000000, 0)
	assert.Equal(t, "barbers/12/1700000000.jpg", BarberPhotoKey(12, "Me At Work.JPG", now))
}

func TestFileUploadError_Error(t *testing.T) {
	err := &FileUploadError{
		Code:    "TEST_CODE",
		Message: "Test error message",
	}

	assert.Equal(t, "Test error message", err.Error())
}
