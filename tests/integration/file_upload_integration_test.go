package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sharpfade/barber-booking-api/models"
	"github.com/sharpfade/barber-booking-api/tests/testutil"
	"github.com/sharpfade/barber-booking-api/utils"
	"github.com/stretchr/testify/suite"
)

// FileUploadIntegrationTestSuite covers barber photos from upload to the
// presigned links on the assignment screen.
type FileUploadIntegrationTestSuite struct {
	suite.Suite
	app *app
}

func (suite *FileUploadIntegrationTestSuite) SetupTest() {
	suite.app = newApp(suite.T())
}

func (suite *FileUploadIntegrationTestSuite) upload(path, filename string, content []byte, token string) (int, map[string]interface{}) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("image", filename)
	suite.Require().NoError(err)
	_, err = part.Write(content)
	suite.Require().NoError(err)
	suite.Require().NoError(writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", testutil.BearerHeader(token))
	w := httptest.NewRecorder()
	suite.app.router.ServeHTTP(w, req)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	return w.Code, response
}

func (suite *FileUploadIntegrationTestSuite) TestReplacingPhotoRemovesOldObject() {
	t := suite.T()
	barber := testutil.CreateBarber(t, suite.app.db, "Tunde", "tunde@example.com", "Lagos")
	token := testutil.AccessToken(t, suite.app.cfg, &barber.User)

	status, response := suite.upload("/api/v1/barber/me/photo", "first.png", []byte("png-bytes"), token)
	suite.Require().Equal(http.StatusOK, status, "%v", response)
	suite.Require().Len(suite.app.store.Keys(), 1)
	first := suite.app.store.Keys()[0]

	status, response = suite.upload("/api/v1/barber/me/photo", "second.jpg", []byte("jpg-bytes"), token)
	suite.Require().Equal(http.StatusOK, status, "%v", response)

	keys := suite.app.store.Keys()
	suite.Require().Len(keys, 1, "the previous photo is deleted")
	suite.NotEqual(first, keys[0])
	suite.True(strings.HasSuffix(keys[0], ".jpg"))
}

func (suite *FileUploadIntegrationTestSuite) TestEligibleBarbersCarryPhotoURL() {
	t := suite.T()
	admin := testutil.CreateUser(t, suite.app.db, "Admin", "admin@example.com", models.RoleAdmin)
	adminToken := testutil.AccessToken(t, suite.app.cfg, admin)
	withPhoto := testutil.CreateBarber(t, suite.app.db, "Tunde", "tunde@example.com", "Lagos")
	testutil.CreateBarber(t, suite.app.db, "Musa", "musa@example.com", "Lagos")
	testutil.CreateBarber(t, suite.app.db, "Chidi", "chidi@example.com", "Enugu")
	order := testutil.CreateOrder(t, suite.app.db, testutil.OrderFixture{City: "Lagos"})

	status, _ := suite.upload(fmt.Sprintf("/api/v1/admin/barbers/%d/photo", withPhoto.ID), "tunde.webp", []byte("webp"), adminToken)
	suite.Require().Equal(http.StatusOK, status)

	status, response := suite.app.request(t, http.MethodGet, fmt.Sprintf("/api/v1/admin/orders/%d/eligible-barbers", order.ID), nil, adminToken)
	suite.Require().Equal(http.StatusOK, status, "%v", response)

	barbers := response["data"].([]interface{})
	suite.Len(barbers, 2, "barbers outside the order's city are not offered")
	for _, raw := range barbers {
		b := raw.(map[string]interface{})
		if uint(b["id"].(float64)) == withPhoto.ID {
			suite.Contains(b["photoUrl"], "barbers/")
		} else {
			suite.NotContains(b, "photoUrl")
		}
	}
}

func (suite *FileUploadIntegrationTestSuite) TestOversizedUploadRejected() {
	t := suite.T()
	barber := testutil.CreateBarber(t, suite.app.db, "Tunde", "tunde@example.com", "Lagos")

	status, response := suite.upload("/api/v1/barber/me/photo", "huge.png", make([]byte, utils.MaxFileSize+1), testutil.AccessToken(t, suite.app.cfg, &barber.User))
	suite.Equal(http.StatusBadRequest, status)
	suite.Equal("FILE_TOO_LARGE", errorCode(response))
	suite.Empty(suite.app.store.Keys())
}

func TestFileUploadIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(FileUploadIntegrationTestSuite))
}
