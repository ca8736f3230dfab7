// internal/services/services_test.go
package services

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/javajoker/kk-storefront/internal/cache"
	"github.com/javajoker/kk-storefront/internal/config"
	"github.com/javajoker/kk-storefront/internal/database"
	"github.com/javajoker/kk-storefront/internal/llm"
	"github.com/javajoker/kk-storefront/internal/models"
	"github.com/javajoker/kk-storefront/internal/utils"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Initialize(config.DatabaseConfig{
		URL:      "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		LogLevel: "silent",
	})
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db))
	t.Cleanup(func() { database.Close(db) })
	return db
}

type fakeLLM struct {
	reply    string
	err      error
	requests []llm.Request
}

func (f *fakeLLM) Complete(_ context.Context, req llm.Request) (string, error) {
	f.requests = append(f.requests, req)
	return f.reply, f.err
}

type fakePageViewStore struct {
	paths []cache.PathCount
	incrs []string
}

func (f *fakePageViewStore) Enabled() bool { return true }

func (f *fakePageViewStore) Incr(_ context.Context, path string, _ time.Time) error {
	f.incrs = append(f.incrs, path)
	return nil
}

func (f *fakePageViewStore) DailyTotals(context.Context, time.Time, int) (map[string]int64, error) {
	return nil, errors.New("not cached")
}

func (f *fakePageViewStore) TopPaths(_ context.Context, _ time.Time, _ int, limit int) ([]cache.PathCount, error) {
	if len(f.paths) > limit {
		return f.paths[:limit], nil
	}
	return f.paths, nil
}

type ServiceTestSuite struct {
	suite.Suite
	db  *gorm.DB
	ctx context.Context
}

func (suite *ServiceTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())
	suite.ctx = context.Background()
}

func (suite *ServiceTestSuite) createProduct(name, series string, active bool) *models.Product {
	product, err := NewProductService(suite.db).CreateProduct(suite.ctx, &ProductRequest{
		Name:        name,
		Series:      series,
		Category:    "tops",
		Description: name + " in heavyweight cotton",
		Price:       1280,
		Stock:       10,
		Sizes:       []string{"M", "L"},
		IsActive:    &active,
	})
	suite.Require().NoError(err)
	return product
}

func (suite *ServiceTestSuite) TestProductListingHidesInactive() {
	suite.createProduct("Night Tee", "night", true)
	suite.createProduct("Draft Tee", "night", false)

	svc := NewProductService(suite.db)

	public, err := svc.ListProducts(suite.ctx, ProductFilter{})
	suite.Require().NoError(err)
	suite.Len(public, 1)
	suite.Equal("Night Tee", public[0].Name)
	suite.Equal(models.SizeList{"M", "L"}, public[0].Sizes)

	all, err := svc.ListProducts(suite.ctx, ProductFilter{IncludeInactive: true})
	suite.Require().NoError(err)
	suite.Len(all, 2)
}

func (suite *ServiceTestSuite) TestProductNotFound() {
	_, err := NewProductService(suite.db).GetProduct(suite.ctx, uuid.NewString())
	suite.ErrorIs(err, ErrNotFound)

	err = NewProductService(suite.db).DeleteProduct(suite.ctx, uuid.NewString())
	suite.ErrorIs(err, ErrNotFound)
}

func (suite *ServiceTestSuite) TestSeriesDeleteRefusedWhileInUse() {
	svc := NewSeriesService(suite.db)
	series, err := svc.CreateSeries(suite.ctx, &SeriesRequest{Slug: "night", Name: "Night"})
	suite.Require().NoError(err)

	product := suite.createProduct("Night Tee", "night", true)

	err = svc.DeleteSeries(suite.ctx, series.ID)
	suite.ErrorIs(err, ErrSeriesInUse)

	_, err = svc.GetSeriesBySlug(suite.ctx, "night")
	suite.NoError(err)

	suite.Require().NoError(NewProductService(suite.db).DeleteProduct(suite.ctx, product.ID))
	suite.NoError(svc.DeleteSeries(suite.ctx, series.ID))

	_, err = svc.GetSeriesBySlug(suite.ctx, "night")
	suite.ErrorIs(err, ErrNotFound)
}

func (suite *ServiceTestSuite) TestSeriesSlugUniqueAndRenameCascades() {
	svc := NewSeriesService(suite.db)
	night, err := svc.CreateSeries(suite.ctx, &SeriesRequest{Slug: "night", Name: "Night"})
	suite.Require().NoError(err)
	_, err = svc.CreateSeries(suite.ctx, &SeriesRequest{Slug: "day", Name: "Day"})
	suite.Require().NoError(err)

	_, err = svc.CreateSeries(suite.ctx, &SeriesRequest{Slug: "night", Name: "Again"})
	suite.ErrorIs(err, ErrSlugTaken)

	_, err = svc.UpdateSeries(suite.ctx, night.ID, &SeriesRequest{Slug: "day", Name: "Night"})
	suite.ErrorIs(err, ErrSlugTaken)

	product := suite.createProduct("Night Tee", "night", true)
	_, err = svc.UpdateSeries(suite.ctx, night.ID, &SeriesRequest{Slug: "midnight", Name: "Midnight"})
	suite.Require().NoError(err)

	reloaded, err := NewProductService(suite.db).GetProduct(suite.ctx, product.ID)
	suite.Require().NoError(err)
	suite.Equal("midnight", reloaded.Series)
}

func (suite *ServiceTestSuite) TestAttributeUniquePerType() {
	svc := NewAttributeService(suite.db)
	_, err := svc.CreateAttribute(suite.ctx, &AttributeRequest{Type: models.AttributeTypeSize, Value: "XXL", Label: "XXL"})
	suite.Require().NoError(err)

	_, err = svc.CreateAttribute(suite.ctx, &AttributeRequest{Type: models.AttributeTypeSize, Value: "XXL", Label: "Double XL"})
	suite.ErrorIs(err, ErrAttributeExists)

	_, err = svc.CreateAttribute(suite.ctx, &AttributeRequest{Type: models.AttributeTypeModel, Value: "XXL", Label: "XXL fit"})
	suite.NoError(err)

	sizes, err := svc.ListAttributes(suite.ctx, string(models.AttributeTypeSize))
	suite.Require().NoError(err)
	suite.Len(sizes, 1)
}

func (suite *ServiceTestSuite) TestLabelScanCountsAndRecordsHistory() {
	product := suite.createProduct("Night Tee", "night", true)
	svc := NewLabelService(suite.db, "")

	label, err := svc.CreateLabel(suite.ctx, &CreateLabelRequest{ProductID: product.ID})
	suite.Require().NoError(err)
	suite.Regexp(`^KK-[A-Z0-9]{8}$`, label.Code)
	suite.Equal("Night Tee", label.ProductName)
	suite.Equal(product.Price, label.Price)

	scanned, err := svc.Scan(suite.ctx, label.Code, "203.0.113.7", "Mozilla/5.0")
	suite.Require().NoError(err)
	suite.EqualValues(1, scanned.ScanCount)
	suite.NotNil(scanned.LastScannedAt)

	scans, total, err := svc.ListScans(suite.ctx, label.ID, utils.PaginationParams{Page: 1, Limit: 50})
	suite.Require().NoError(err)
	suite.EqualValues(1, total)
	suite.Equal(utils.HashIP("203.0.113.7", nil), scans[0].IPHash)
	suite.NotContains(scans[0].IPHash, "203.0.113.7")
}

func (suite *ServiceTestSuite) TestLabelScanUnknownOrInactive() {
	svc := NewLabelService(suite.db, "")

	_, err := svc.Scan(suite.ctx, "KK-NOPE0000", "203.0.113.7", "")
	suite.ErrorIs(err, ErrNotFound)

	label, err := svc.CreateLabel(suite.ctx, &CreateLabelRequest{Code: "KK-OFF00001", ProductName: "Retired"})
	suite.Require().NoError(err)
	inactive := false
	_, err = svc.UpdateLabel(suite.ctx, label.ID, &UpdateLabelRequest{IsActive: &inactive})
	suite.Require().NoError(err)

	_, err = svc.Scan(suite.ctx, label.Code, "203.0.113.7", "")
	suite.ErrorIs(err, ErrNotFound)

	var scans int64
	suite.db.Model(&models.LabelScan{}).Count(&scans)
	suite.Zero(scans)
}

func (suite *ServiceTestSuite) TestLabelConcurrentScansAllCounted() {
	svc := NewLabelService(suite.db, "secret")
	label, err := svc.CreateLabel(suite.ctx, &CreateLabelRequest{Code: "KK-BUSY0001", ProductName: "Busy"})
	suite.Require().NoError(err)

	const scans = 20
	var wg sync.WaitGroup
	for i := 0; i < scans; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Scan(suite.ctx, label.Code, "198.51.100.1", "test")
			assert.NoError(suite.T(), err)
		}()
	}
	wg.Wait()

	var reloaded models.Label
	suite.Require().NoError(suite.db.First(&reloaded, "id = ?", label.ID).Error)
	suite.EqualValues(scans, reloaded.ScanCount)
}

func (suite *ServiceTestSuite) TestLabelDuplicateCode() {
	svc := NewLabelService(suite.db, "")
	_, err := svc.CreateLabel(suite.ctx, &CreateLabelRequest{Code: "KK-SAME0001"})
	suite.Require().NoError(err)

	_, err = svc.CreateLabel(suite.ctx, &CreateLabelRequest{Code: "KK-SAME0001"})
	suite.ErrorIs(err, ErrLabelExists)
}

func (suite *ServiceTestSuite) TestCodesCreateAndVerify() {
	product := suite.createProduct("Night Tee", "night", true)
	svc := NewCodeService(suite.db)

	codes, err := svc.CreateCodes(suite.ctx, &CreateCodesRequest{ProductID: product.ID, Count: 5})
	suite.Require().NoError(err)
	suite.Len(codes, 5)

	seen := map[string]bool{}
	for _, code := range codes {
		suite.Regexp(`^KK-[A-Z0-9]{8}$`, code.Code)
		suite.False(seen[code.Code])
		seen[code.Code] = true
	}

	result, err := svc.VerifyCode(suite.ctx, codes[0].Code)
	suite.Require().NoError(err)
	suite.EqualValues(1, result.Code.ScanCount)
	suite.Require().NotNil(result.Product)
	suite.Equal(product.ID, result.Product.ID)

	_, err = svc.VerifyCode(suite.ctx, "KK-MISSING0")
	suite.ErrorIs(err, ErrNotFound)

	_, err = svc.CreateCodes(suite.ctx, &CreateCodesRequest{ProductID: uuid.NewString(), Count: 1})
	suite.ErrorIs(err, ErrNotFound)

	listed, total, err := svc.ListCodes(suite.ctx, product.ID, utils.PaginationParams{Page: 1, Limit: 2})
	suite.Require().NoError(err)
	suite.EqualValues(5, total)
	suite.Len(listed, 2)
}

func (suite *ServiceTestSuite) TestReviewsArePendingUntilApproved() {
	product := suite.createProduct("Night Tee", "night", true)
	svc := NewReviewService(suite.db)
	identity := &utils.Identity{UserID: "user_1", Name: "Mei"}

	review, err := svc.CreateReview(suite.ctx, identity, &CreateReviewRequest{ProductID: product.ID, Rating: 5, Content: "Great fit"})
	suite.Require().NoError(err)
	suite.Equal(models.ReviewStatusPending, review.Status)
	suite.Equal("Mei", review.UserName)

	public, err := svc.ListApproved(suite.ctx, product.ID)
	suite.Require().NoError(err)
	suite.Empty(public)

	approved := models.ReviewStatusApproved
	featured := true
	_, err = svc.ModerateReview(suite.ctx, review.ID, &ModerateReviewRequest{Status: &approved, IsFeatured: &featured})
	suite.Require().NoError(err)

	public, err = svc.ListApproved(suite.ctx, product.ID)
	suite.Require().NoError(err)
	suite.Require().Len(public, 1)
	suite.True(public[0].IsFeatured)

	bogus := models.ReviewStatus("spam")
	_, err = svc.ModerateReview(suite.ctx, review.ID, &ModerateReviewRequest{Status: &bogus})
	suite.ErrorIs(err, ErrInvalidStatus)

	_, _, err = svc.ListReviews(suite.ctx, "spam", utils.PaginationParams{Page: 1, Limit: 10})
	suite.ErrorIs(err, ErrInvalidStatus)

	suite.NoError(svc.DeleteReview(suite.ctx, review.ID))
	suite.ErrorIs(svc.DeleteReview(suite.ctx, review.ID), ErrNotFound)
}

func (suite *ServiceTestSuite) TestReviewForMissingProduct() {
	_, err := NewReviewService(suite.db).CreateReview(suite.ctx, &utils.Identity{UserID: "u"}, &CreateReviewRequest{ProductID: uuid.NewString(), Rating: 3})
	suite.ErrorIs(err, ErrNotFound)
}

func (suite *ServiceTestSuite) TestWishlistAddIsIdempotent() {
	product := suite.createProduct("Night Tee", "night", true)
	svc := NewWishlistService(suite.db)

	suite.Require().NoError(svc.AddToWishlist(suite.ctx, "user_1", product.ID))
	suite.Require().NoError(svc.AddToWishlist(suite.ctx, "user_1", product.ID))

	items, err := svc.ListWishlist(suite.ctx, "user_1")
	suite.Require().NoError(err)
	suite.Require().Len(items, 1)
	suite.Require().NotNil(items[0].Product)
	suite.Equal("Night Tee", items[0].Product.Name)

	others, err := svc.ListWishlist(suite.ctx, "user_2")
	suite.Require().NoError(err)
	suite.Empty(others)

	suite.NoError(svc.RemoveFromWishlist(suite.ctx, "user_1", product.ID))
	suite.NoError(svc.RemoveFromWishlist(suite.ctx, "user_1", product.ID))

	items, err = svc.ListWishlist(suite.ctx, "user_1")
	suite.Require().NoError(err)
	suite.Empty(items)

	suite.ErrorIs(svc.AddToWishlist(suite.ctx, "user_1", uuid.NewString()), ErrNotFound)
}

func (suite *ServiceTestSuite) TestSettingsRoundTrip() {
	svc := NewSettingsService(suite.db)

	suite.Require().NoError(svc.SaveSettings(suite.ctx, map[string]interface{}{
		"promo_active": true,
		"promo_text":   "Free shipping",
		"max_qty":      float64(3),
	}))
	suite.Require().NoError(svc.SaveSettings(suite.ctx, map[string]interface{}{
		"promo_active": false,
	}))

	settings, err := svc.GetSettings(suite.ctx)
	suite.Require().NoError(err)
	suite.Equal(false, settings["promo_active"])
	suite.Equal("Free shipping", settings["promo_text"])
	suite.Equal("3", settings["max_qty"])
}

func (suite *ServiceTestSuite) TestSearch() {
	suite.createProduct("Night Hoodie", "night", true)
	suite.createProduct("Hidden Hoodie", "night", false)
	_, err := NewAccessoryService(suite.db).CreateAccessory(suite.ctx, &AccessoryRequest{Name: "Hoodie Pin", Price: 120})
	suite.Require().NoError(err)

	svc := NewSearchService(suite.db)

	short, err := svc.Search(suite.ctx, "h")
	suite.Require().NoError(err)
	suite.Empty(short.Results)
	suite.NotNil(short.Products)

	result, err := svc.Search(suite.ctx, "HOODIE")
	suite.Require().NoError(err)
	suite.Len(result.Products, 1)
	suite.Len(result.Accessories, 1)
	suite.Len(result.Results, 2)
}

func (suite *ServiceTestSuite) TestAnalyticsSummaryWithoutRedis() {
	product := suite.createProduct("Night Tee", "night", true)
	svc := NewAnalyticsService(suite.db, nil)

	for i := 0; i < 3; i++ {
		suite.Require().NoError(svc.TrackClick(suite.ctx, &TrackClickRequest{ProductID: product.ID, Source: "grid"}))
	}
	suite.Require().NoError(svc.TrackPageView(suite.ctx, &PageViewRequest{Path: "/products"}, "test"))
	suite.Require().NoError(svc.TrackPageView(suite.ctx, &PageViewRequest{Path: "/products"}, "test"))

	summary, err := svc.Summary(suite.ctx, 0)
	suite.Require().NoError(err)
	suite.Equal(7, summary.Days)
	suite.EqualValues(3, summary.TotalClicks)
	suite.EqualValues(2, summary.TotalViews)
	suite.Require().NotEmpty(summary.TopProducts)
	suite.Equal("Night Tee", summary.TopProducts[0].Name)
	suite.Require().NotEmpty(summary.TopPaths)
	suite.Equal("/products", summary.TopPaths[0].Path)

	stats, err := NewStatsService(suite.db, nil).GetDashboardStats(suite.ctx)
	suite.Require().NoError(err)
	suite.EqualValues(1, stats.Products)
	suite.EqualValues(3, stats.ProductClicks)
	suite.EqualValues(2, stats.PageViews)
}

func (suite *ServiceTestSuite) TestAnalyticsSummaryPrefersPathCounters() {
	store := &fakePageViewStore{paths: []cache.PathCount{{Path: "/series/night", Views: 42}, {Path: "/", Views: 7}}}
	svc := NewAnalyticsService(suite.db, store)

	suite.Require().NoError(svc.TrackPageView(suite.ctx, &PageViewRequest{Path: "/products"}, "test"))
	suite.Equal([]string{"/products"}, store.incrs)

	summary, err := svc.Summary(suite.ctx, 7)
	suite.Require().NoError(err)
	suite.Equal([]PathViewCount{{Path: "/series/night", Views: 42}, {Path: "/", Views: 7}}, summary.TopPaths)
	suite.EqualValues(1, summary.TotalViews)
	suite.Len(summary.DailyViews, 7)

	store.paths = nil
	summary, err = svc.Summary(suite.ctx, 7)
	suite.Require().NoError(err)
	suite.Equal([]PathViewCount{{Path: "/products", Views: 1}}, summary.TopPaths)
}

func (suite *ServiceTestSuite) TestChatWithoutClient() {
	_, err := NewAIService(suite.db, nil).Chat(suite.ctx, &ChatRequest{Messages: []ChatMessage{{Role: "user", Content: "hi"}}})
	suite.ErrorIs(err, ErrAIUnavailable)
}

func (suite *ServiceTestSuite) TestChatForwardsCatalogAndRecentHistory() {
	suite.createProduct("Night Tee", "night", true)
	client := &fakeLLM{reply: "  Try the Night Tee.  "}
	svc := NewAIService(suite.db, client)

	history := make([]ChatMessage, 25)
	for i := range history {
		history[i] = ChatMessage{Role: "user", Content: "message"}
	}

	reply, err := svc.Chat(suite.ctx, &ChatRequest{Messages: history})
	suite.Require().NoError(err)
	suite.Equal("  Try the Night Tee.  ", reply)

	suite.Require().Len(client.requests, 1)
	sent := client.requests[0].Messages
	suite.Len(sent, maxForwardedMessages+1)
	suite.Equal(llm.RoleSystem, sent[0].Role)
	suite.Contains(sent[0].Content, "Night Tee")
}

func (suite *ServiceTestSuite) TestChatBlankReplyIsEmpty() {
	svc := NewAIService(suite.db, &fakeLLM{reply: " \n\t "})
	suite.True(svc.Available())

	reply, err := svc.Chat(suite.ctx, &ChatRequest{Messages: []ChatMessage{{Role: "user", Content: "hi"}}})
	suite.Require().NoError(err)
	suite.Empty(reply)
}

func (suite *ServiceTestSuite) TestGenerateProduct() {
	client := &fakeLLM{reply: "```json\n{\"name\":\"Moon Cargo\",\"price\":1880,\"sizes\":[\"M\"]}\n```"}
	product, err := NewAIService(suite.db, client).GenerateProduct(suite.ctx, &GenerateProductRequest{Prompt: "cargo pants", Series: "night"})
	suite.Require().NoError(err)
	suite.Equal("Moon Cargo", product.Name)
	suite.Equal("night", product.Series)
	suite.True(client.requests[0].JSON)

	failing := &fakeLLM{err: errors.New("upstream down")}
	_, err = NewAIService(suite.db, failing).GenerateProduct(suite.ctx, &GenerateProductRequest{Prompt: "x"})
	suite.ErrorIs(err, ErrGenerationFailed)
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func TestParseGeneratedProduct(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "plain", raw: `{"name":"Tee"}`, want: "Tee"},
		{name: "fenced", raw: "```json\n{\"name\":\"Tee\"}\n```", want: "Tee"},
		{name: "bare fence", raw: "```\n{\"name\":\"Tee\"}```", want: "Tee"},
		{name: "missing name", raw: `{"price":10}`, wantErr: true},
		{name: "not json", raw: "sorry, I cannot", wantErr: true},
		{name: "empty", raw: "   ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			product, err := ParseGeneratedProduct(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrGenerationFailed)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, product.Name)
			assert.NotNil(t, product.Sizes)
		})
	}
}

func TestSettingValueCodec(t *testing.T) {
	assert.Equal(t, true, DecodeSettingValue("true"))
	assert.Equal(t, false, DecodeSettingValue("false"))
	assert.Equal(t, "TRUE", DecodeSettingValue("TRUE"))

	encoded, err := EncodeSettingValue([]string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, `["a","b"]`, encoded)

	encoded, err = EncodeSettingValue(nil)
	require.NoError(t, err)
	assert.Equal(t, "", encoded)
}

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func newLocalStorage(t *testing.T, maxSize int64) *StorageService {
	t.Helper()
	storage, err := NewStorageService(&config.Config{
		Upload: config.UploadConfig{Dir: t.TempDir(), PublicPath: "/uploads", MaxSize: maxSize},
	})
	require.NoError(t, err)
	return storage
}

func TestStorageAcceptsImages(t *testing.T) {
	storage := newLocalStorage(t, 1024)

	result, err := storage.UploadImage(context.Background(), bytes.NewReader(pngHeader))
	require.NoError(t, err)
	assert.Equal(t, "image/png", result.MimeType)
	assert.Regexp(t, `^/uploads/[0-9a-f-]{36}\.png$`, result.URL)

	require.NoError(t, storage.DeleteFile(context.Background(), result.Key))
}

func TestStorageWithoutBucketIsLocal(t *testing.T) {
	storage, err := NewStorageService(&config.Config{
		AWS:    config.AWSConfig{AccessKeyID: "AKIATEST", SecretAccessKey: "secret", Region: "us-east-1"},
		Upload: config.UploadConfig{Dir: t.TempDir(), PublicPath: "/uploads"},
	})
	require.NoError(t, err)
	assert.True(t, storage.IsLocal())
	assert.True(t, newLocalStorage(t, 1024).IsLocal())
}

func TestStorageRejectsTextAndOversize(t *testing.T) {
	storage := newLocalStorage(t, 32)

	_, err := storage.UploadImage(context.Background(), bytes.NewReader([]byte("just some text")))
	assert.ErrorIs(t, err, ErrUnsupportedFileType)

	big := append(append([]byte{}, pngHeader...), make([]byte, 64)...)
	_, err = storage.UploadImage(context.Background(), bytes.NewReader(big))
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

type recordingMailer struct {
	to      []string
	subject string
	body    string
}

func (m *recordingMailer) Send(to []string, subject, htmlBody string) error {
	m.to, m.subject, m.body = to, subject, htmlBody
	return nil
}

func TestNotifyReviewSubmitted(t *testing.T) {
	mailer := &recordingMailer{}
	svc := NewNotificationServiceWithMailer(mailer, []string{"boss@example.com"}, "https://kk.example.com/")

	err := svc.NotifyReviewSubmitted(&models.Review{
		ProductID: "p-1",
		UserName:  "Mei",
		Rating:    4,
		Content:   "<script>alert(1)</script>",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"boss@example.com"}, mailer.to)
	assert.Contains(t, mailer.subject, "4/5")
	assert.Contains(t, mailer.body, "https://kk.example.com/admin/reviews?status=pending")
	assert.NotContains(t, mailer.body, "<script>")
}

func TestNotificationsDisabledWithoutSMTP(t *testing.T) {
	svc := NewNotificationService(&config.Config{Auth: config.AuthConfig{AdminEmails: []string{"boss@example.com"}}})
	assert.False(t, svc.Enabled())
	assert.NoError(t, svc.NotifyReviewSubmitted(&models.Review{}))

	noRecipients := NewNotificationServiceWithMailer(&recordingMailer{}, nil, "")
	assert.False(t, noRecipients.Enabled())
}
