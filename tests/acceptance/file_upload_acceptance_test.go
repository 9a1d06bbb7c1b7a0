package acceptance

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/sharpfade/barber-booking-api/models"
	"github.com/sharpfade/barber-booking-api/tests/testutil"
	"github.com/stretchr/testify/suite"
)

// FileUploadAcceptanceTestSuite posts multipart photos to a live server.
type FileUploadAcceptanceTestSuite struct {
	suite.Suite
	server *liveServer
}

func (suite *FileUploadAcceptanceTestSuite) SetupTest() {
	suite.server = startServer(suite.T())
}

func (suite *FileUploadAcceptanceTestSuite) uploadRequest(path, field, filename string, content []byte, token string) *http.Request {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, filename)
	suite.Require().NoError(err)
	_, err = part.Write(content)
	suite.Require().NoError(err)
	suite.Require().NoError(writer.Close())

	req, err := http.NewRequest(http.MethodPost, suite.server.URL+path, body)
	suite.Require().NoError(err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", testutil.BearerHeader(token))
	}
	return req
}

func (suite *FileUploadAcceptanceTestSuite) TestAdminUploadsBarberPhoto() {
	t := suite.T()
	admin := testutil.CreateUser(t, suite.server.db, "Admin", "admin@example.com", models.RoleAdmin)
	barber := testutil.CreateBarber(t, suite.server.db, "Tunde", "tunde@example.com", "Lagos")
	token := testutil.AccessToken(t, suite.server.cfg, admin)

	resp, result := suite.server.send(t, suite.uploadRequest(fmt.Sprintf("/api/v1/admin/barbers/%d/photo", barber.ID), "image", "tunde.jpeg", []byte("jpeg-bytes"), token))
	suite.Require().Equal(http.StatusOK, resp.StatusCode, "%v", result)
	photoURL := result["data"].(map[string]interface{})["photoUrl"].(string)
	suite.Contains(photoURL, fmt.Sprintf("barbers/%d/", barber.ID))

	resp, result = suite.server.makeRequest(t, http.MethodGet, fmt.Sprintf("/api/v1/admin/barbers/%d", barber.ID), nil, token)
	suite.Require().Equal(http.StatusOK, resp.StatusCode)
	suite.Equal(photoURL, result["data"].(map[string]interface{})["photoUrl"])
}

func (suite *FileUploadAcceptanceTestSuite) TestUploadErrors() {
	t := suite.T()
	barber := testutil.CreateBarber(t, suite.server.db, "Tunde", "tunde@example.com", "Lagos")
	token := testutil.AccessToken(t, suite.server.cfg, &barber.User)

	tests := []struct {
		name           string
		field          string
		filename       string
		token          string
		expectedStatus int
		expectedCode   string
	}{
		{name: "no token", field: "image", filename: "me.png", expectedStatus: http.StatusUnauthorized},
		{name: "missing image field", field: "photo", filename: "me.png", token: token, expectedStatus: http.StatusBadRequest, expectedCode: "NO_FILE"},
		{name: "disallowed extension", field: "image", filename: "me.bmp", token: token, expectedStatus: http.StatusBadRequest, expectedCode: "INVALID_FILE_FORMAT"},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			resp, result := suite.server.send(suite.T(), suite.uploadRequest("/api/v1/barber/me/photo", tt.field, tt.filename, []byte("bytes"), tt.token))
			suite.Equal(tt.expectedStatus, resp.StatusCode)
			if tt.expectedCode != "" {
				suite.Equal(tt.expectedCode, errorCode(result))
			}
		})
	}
	suite.Empty(suite.server.store.Keys())
}

func TestFileUploadAcceptanceTestSuite(t *testing.T) {
	suite.Run(t, new(FileUploadAcceptanceTestSuite))
}
