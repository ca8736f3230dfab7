// internal/tests/api_test.go
package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/javajoker/kk-storefront/internal/config"
	"github.com/javajoker/kk-storefront/internal/database"
	"github.com/javajoker/kk-storefront/internal/i18n"
	"github.com/javajoker/kk-storefront/internal/llm"
	"github.com/javajoker/kk-storefront/internal/middleware"
	"github.com/javajoker/kk-storefront/internal/models"
	"github.com/javajoker/kk-storefront/internal/router"
)

type stubLLM struct {
	reply string
}

func (s *stubLLM) Complete(context.Context, llm.Request) (string, error) {
	return s.reply, nil
}

type APITestSuite struct {
	suite.Suite
	cfg        *config.Config
	db         *gorm.DB
	router     *gin.Engine
	deps       *router.Dependencies
	adminToken string
	userToken  string
}

func (suite *APITestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.Require().NoError(i18n.Initialize("en"))

	cfg := &config.Config{
		Environment: "test",
		Database: config.DatabaseConfig{
			URL:      "file:" + uuid.NewString() + "?mode=memory&cache=shared",
			LogLevel: "silent",
		},
		Auth: config.AuthConfig{JWTSecret: "test-secret"},
		Chat: config.ChatConfig{RateLimit: 2, RateWindow: time.Minute},
		Upload: config.UploadConfig{
			Dir:        suite.T().TempDir(),
			PublicPath: "/uploads",
			MaxSize:    1 << 20,
		},
		Telemetry: config.TelemetryConfig{Release: "test"},
	}

	suite.cfg = cfg

	db, err := database.Initialize(cfg.Database)
	suite.Require().NoError(err)
	suite.Require().NoError(database.RunMigrations(db))
	suite.T().Cleanup(func() { database.Close(db) })
	suite.db = db

	deps, err := router.NewDependencies(cfg, db, nil)
	suite.Require().NoError(err)
	deps.LLM = &stubLLM{}
	deps.Throttle = middleware.NewRateLimiter(rate.Inf, 0)
	suite.deps = deps
	suite.router = router.Initialize(deps)

	suite.adminToken, err = deps.Verifier.IssueHMACToken("admin_1", "boss@example.com", "admin", time.Hour)
	suite.Require().NoError(err)
	suite.userToken, err = deps.Verifier.IssueHMACToken("user_1", "fan@example.com", "", time.Hour)
	suite.Require().NoError(err)
}

func (suite *APITestSuite) request(method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	var reader *bytes.Reader
	if body != nil {
		jsonData, _ := json.Marshal(body)
		reader = bytes.NewReader(jsonData)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	var response map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &response)
	return w, response
}

func data(response map[string]interface{}) map[string]interface{} {
	d, _ := response["data"].(map[string]interface{})
	return d
}

func (suite *APITestSuite) createProduct(name string) string {
	w, response := suite.request(http.MethodPost, "/api/products", suite.adminToken, map[string]interface{}{
		"name":     name,
		"series":   "night",
		"category": "tops",
		"price":    1280,
		"stock":    5,
		"sizes":    []string{"M", "L"},
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	product := data(response)["product"].(map[string]interface{})
	return product["id"].(string)
}

func (suite *APITestSuite) TestHealth() {
	w, response := suite.request(http.MethodGet, "/api/health", "", nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Equal(suite.T(), "healthy", response["status"])

	checks := response["checks"].(map[string]interface{})
	assert.Equal(suite.T(), "ok", checks["ai"])
	assert.Equal(suite.T(), "disabled", checks["redis"])
	assert.Equal(suite.T(), []interface{}{"en", "zh_TW"}, response["languages"])
}

func (suite *APITestSuite) TestProductWritesRequireAdmin() {
	body := map[string]interface{}{"name": "Tee", "price": 100}

	w, _ := suite.request(http.MethodPost, "/api/products", "", body)
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)

	w, _ = suite.request(http.MethodPost, "/api/products", suite.userToken, body)
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	w, response := suite.request(http.MethodPost, "/api/products", suite.adminToken, map[string]interface{}{"price": -1})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	assert.False(suite.T(), response["success"].(bool))
}

func (suite *APITestSuite) TestProductLifecycle() {
	id := suite.createProduct("Night Tee")

	w, response := suite.request(http.MethodGet, "/api/products", "", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	assert.True(suite.T(), response["success"].(bool))
	assert.Len(suite.T(), data(response)["products"], 1)

	w, response = suite.request(http.MethodGet, "/api/products/"+id, "", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	product := data(response)["product"].(map[string]interface{})
	assert.Equal(suite.T(), []interface{}{"M", "L"}, product["sizes"])
	assert.Equal(suite.T(), []interface{}{}, product["images"])

	w, _ = suite.request(http.MethodDelete, "/api/products/"+id, suite.adminToken, nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	w, response = suite.request(http.MethodGet, "/api/products/"+id, "", nil)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
	assert.Equal(suite.T(), "NOT_FOUND", response["error"].(map[string]interface{})["code"])
}

func (suite *APITestSuite) TestLargeProductBodyReachesHandler() {
	description := strings.Repeat("a", 70<<10)
	w, response := suite.request(http.MethodPost, "/api/products", suite.adminToken, map[string]interface{}{
		"name":        "Long Story Tee",
		"price":       1280,
		"description": description,
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	product := data(response)["product"].(map[string]interface{})
	assert.Equal(suite.T(), description, product["description"])

	var audit models.AuditLog
	suite.Require().NoError(suite.db.Where("resource_type = ?", "products").First(&audit).Error)
	assert.Equal(suite.T(), true, audit.NewValues["truncated"])
	assert.NotContains(suite.T(), audit.NewValues, "description")
}

func (suite *APITestSuite) TestSeriesInUse() {
	w, response := suite.request(http.MethodPost, "/api/series", suite.adminToken, map[string]interface{}{
		"slug": "night",
		"name": "Night",
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	seriesID := data(response)["series"].(map[string]interface{})["id"].(string)

	suite.createProduct("Night Tee")

	w, response = suite.request(http.MethodDelete, "/api/series/"+seriesID, suite.adminToken, nil)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	assert.Equal(suite.T(), "SERIES_IN_USE", response["error"].(map[string]interface{})["code"])

	w, _ = suite.request(http.MethodPost, "/api/series", suite.adminToken, map[string]interface{}{
		"slug": "Bad Slug",
		"name": "Bad",
	})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *APITestSuite) TestLabelScanFlow() {
	productID := suite.createProduct("Night Tee")

	w, response := suite.request(http.MethodPost, "/api/admin/labels", suite.adminToken, map[string]interface{}{
		"product_id": productID,
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	label := data(response)["label"].(map[string]interface{})
	code := label["code"].(string)

	for i := 1; i <= 2; i++ {
		w, response = suite.request(http.MethodGet, "/api/labels/"+code, "", nil)
		suite.Require().Equal(http.StatusOK, w.Code)
		scanned := data(response)["label"].(map[string]interface{})
		assert.EqualValues(suite.T(), i, scanned["scan_count"])
	}

	w, _ = suite.request(http.MethodGet, "/api/labels/KK-UNKNOWN0", "", nil)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)

	w, response = suite.request(http.MethodGet, "/api/admin/labels/"+label["id"].(string)+"/scans", suite.adminToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	assert.Len(suite.T(), response["data"], 2)
}

func (suite *APITestSuite) TestReviewModeration() {
	productID := suite.createProduct("Night Tee")
	review := map[string]interface{}{"product_id": productID, "rating": 5, "content": "Love it"}

	w, _ := suite.request(http.MethodPost, "/api/reviews", "", review)
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)

	w, response := suite.request(http.MethodPost, "/api/reviews", suite.userToken, review)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	reviewID := data(response)["review"].(map[string]interface{})["id"].(string)

	w, _ = suite.request(http.MethodPost, "/api/reviews", suite.userToken, map[string]interface{}{"product_id": productID, "rating": 6})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	_, response = suite.request(http.MethodGet, "/api/reviews?productId="+productID, "", nil)
	assert.Empty(suite.T(), data(response)["reviews"])

	w, _ = suite.request(http.MethodPatch, "/api/admin/reviews/"+reviewID, suite.adminToken, map[string]interface{}{"status": "approved"})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	_, response = suite.request(http.MethodGet, "/api/reviews?productId="+productID, "", nil)
	assert.Len(suite.T(), data(response)["reviews"], 1)

	w, _ = suite.request(http.MethodPatch, "/api/admin/reviews/"+reviewID, suite.adminToken, map[string]interface{}{"status": "spam"})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *APITestSuite) TestWishlist() {
	productID := suite.createProduct("Night Tee")

	w, _ := suite.request(http.MethodGet, "/api/wishlists", "", nil)
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)

	for i := 0; i < 2; i++ {
		w, _ = suite.request(http.MethodPost, "/api/wishlists", suite.userToken, map[string]interface{}{"product_id": productID})
		suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	}

	_, response := suite.request(http.MethodGet, "/api/wishlists", suite.userToken, nil)
	assert.Len(suite.T(), data(response)["items"], 1)

	w, _ = suite.request(http.MethodDelete, "/api/wishlists?productId="+productID, suite.userToken, nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	_, response = suite.request(http.MethodGet, "/api/wishlists", suite.userToken, nil)
	assert.Empty(suite.T(), data(response)["items"])
}

func (suite *APITestSuite) TestSettingsAreTyped() {
	w, _ := suite.request(http.MethodPost, "/api/settings", suite.userToken, map[string]interface{}{"promo_active": true})
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	w, _ = suite.request(http.MethodPost, "/api/settings", suite.adminToken, map[string]interface{}{
		"promo_active": true,
		"promo_text":   "Free shipping",
	})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	_, response := suite.request(http.MethodGet, "/api/settings", "", nil)
	settings := data(response)
	assert.Equal(suite.T(), true, settings["promo_active"])
	assert.Equal(suite.T(), "Free shipping", settings["promo_text"])
}

func (suite *APITestSuite) TestSearchShortQuery() {
	suite.createProduct("Night Tee")

	_, response := suite.request(http.MethodGet, "/api/search?q=n", "", nil)
	assert.Empty(suite.T(), data(response)["results"])

	_, response = suite.request(http.MethodGet, "/api/search?q=night", "", nil)
	assert.Len(suite.T(), data(response)["results"], 1)
}

func (suite *APITestSuite) TestAnalyticsBeacons() {
	productID := suite.createProduct("Night Tee")

	w, _ := suite.request(http.MethodPost, "/api/analytics/track", "", map[string]interface{}{"product_id": productID})
	assert.Equal(suite.T(), http.StatusNoContent, w.Code)

	w, _ = suite.request(http.MethodPost, "/api/analytics/pageview", "", map[string]interface{}{"path": "/"})
	assert.Equal(suite.T(), http.StatusNoContent, w.Code)

	w, response := suite.request(http.MethodGet, "/api/admin/stats", suite.adminToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	stats := data(response)["stats"].(map[string]interface{})
	assert.EqualValues(suite.T(), 1, stats["product_clicks"])
	assert.EqualValues(suite.T(), 1, stats["page_views"])
}

func (suite *APITestSuite) TestChatRateLimited() {
	body := map[string]interface{}{"messages": []map[string]string{{"role": "user", "content": "hi"}}}

	// the stub replies with nothing, so the localized apology is returned
	for i := 0; i < 2; i++ {
		w, response := suite.request(http.MethodPost, "/api/chat", "", body)
		suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
		assert.NotEmpty(suite.T(), data(response)["reply"])
	}

	w, _ := suite.request(http.MethodPost, "/api/chat", "", body)
	assert.Equal(suite.T(), http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(suite.T(), w.Header().Get("Retry-After"))
}

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func (suite *APITestSuite) uploadTo(r *gin.Engine, payload []byte) *httptest.ResponseRecorder {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, _ := writer.CreateFormFile("file", "image.png")
	part.Write(payload)
	writer.Close()

	req, _ := http.NewRequest(http.MethodPost, "/api/upload", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+suite.adminToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func (suite *APITestSuite) TestUpload() {
	upload := func(payload []byte) *httptest.ResponseRecorder {
		return suite.uploadTo(suite.router, payload)
	}

	png := pngHeader
	w := upload(png)
	assert.Equal(suite.T(), http.StatusCreated, w.Code, w.Body.String())

	w = upload([]byte("plain text pretending to be a png"))
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "INVALID_FILE_TYPE")

	w = upload(append(append([]byte{}, png...), make([]byte, 1<<20)...))
	assert.Equal(suite.T(), http.StatusRequestEntityTooLarge, w.Code)
}

func (suite *APITestSuite) TestUploadServedWhenBucketMissing() {
	cfg := *suite.cfg
	cfg.AWS = config.AWSConfig{AccessKeyID: "AKIATEST", SecretAccessKey: "secret", Region: "us-east-1"}

	deps, err := router.NewDependencies(&cfg, suite.db, nil)
	suite.Require().NoError(err)
	deps.Throttle = middleware.NewRateLimiter(rate.Inf, 0)
	r := router.Initialize(deps)

	w := suite.uploadTo(r, pngHeader)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	url := data(response)["url"].(string)

	req, _ := http.NewRequest(http.MethodGet, url, nil)
	served := httptest.NewRecorder()
	r.ServeHTTP(served, req)
	assert.Equal(suite.T(), http.StatusOK, served.Code)
	assert.Equal(suite.T(), pngHeader, served.Body.Bytes())
}

func (suite *APITestSuite) TestMigrateEndpoints() {
	w, _ := suite.request(http.MethodPost, "/api/migrate/all", suite.userToken, nil)
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	for i := 0; i < 2; i++ {
		w, _ = suite.request(http.MethodPost, "/api/migrate/all", suite.adminToken, nil)
		assert.Equal(suite.T(), http.StatusOK, w.Code, w.Body.String())
	}

	w, _ = suite.request(http.MethodPost, "/api/migrate/nope", suite.adminToken, nil)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}
