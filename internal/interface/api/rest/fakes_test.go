package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"design-market-api/internal/application/ports"
	"design-market-api/internal/domain/product"
	"design-market-api/internal/domain/user"
	"design-market-api/internal/infrastructure/jwt"
	"design-market-api/internal/infrastructure/s3"
)

const testJWTSecret = "test-secret"

type fakeUserService struct {
	RegisterFunc           func(ctx context.Context, email, password, displayName string) (*user.User, error)
	FindUserByIDFunc       func(ctx context.Context, uuid user.UUID) (*user.User, error)
	FindByEmailFunc        func(ctx context.Context, email string) (*user.User, error)
	UpdateSubscriptionFunc func(ctx context.Context, uuid user.UUID, status string, end *string) (*user.User, error)
}

func (f *fakeUserService) Register(ctx context.Context, email, password, displayName string) (*user.User, error) {
	return f.RegisterFunc(ctx, email, password, displayName)
}
func (f *fakeUserService) FindUserByID(ctx context.Context, uuid user.UUID) (*user.User, error) {
	return f.FindUserByIDFunc(ctx, uuid)
}
func (f *fakeUserService) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return f.FindByEmailFunc(ctx, email)
}
func (f *fakeUserService) UpdateSubscription(ctx context.Context, uuid user.UUID, status string, end *string) (*user.User, error) {
	return f.UpdateSubscriptionFunc(ctx, uuid, status, end)
}

type fakeAuthService struct {
	GenerateTokenFunc func(u *user.User, password string) (string, error)
}

func (f *fakeAuthService) GenerateToken(u *user.User, password string) (string, error) {
	return f.GenerateTokenFunc(u, password)
}

type fakeProductService struct {
	CreateFunc         func(ctx context.Context, in ports.CreateProductInput) (*product.Product, error)
	FindByIDFunc       func(ctx context.Context, uuid product.UUID) (*product.Product, error)
	ListByCategoryFunc func(ctx context.Context, category string, pageSize, page int) (product.Products, error)
	ListAllFunc        func(ctx context.Context, pageSize int) (product.Products, error)
	SearchFunc         func(ctx context.Context, term, category string) (product.Products, error)
	PopularFunc        func(ctx context.Context, limit int) (product.Products, error)
	UpdateFunc         func(ctx context.Context, p *product.Product) (*product.Product, error)
	DeleteFunc         func(ctx context.Context, uuid product.UUID) error
}

func (f *fakeProductService) Create(ctx context.Context, in ports.CreateProductInput) (*product.Product, error) {
	return f.CreateFunc(ctx, in)
}
func (f *fakeProductService) FindByID(ctx context.Context, uuid product.UUID) (*product.Product, error) {
	return f.FindByIDFunc(ctx, uuid)
}
func (f *fakeProductService) ListByCategory(ctx context.Context, category string, pageSize, page int) (product.Products, error) {
	return f.ListByCategoryFunc(ctx, category, pageSize, page)
}
func (f *fakeProductService) ListAll(ctx context.Context, pageSize int) (product.Products, error) {
	return f.ListAllFunc(ctx, pageSize)
}
func (f *fakeProductService) Search(ctx context.Context, term, category string) (product.Products, error) {
	return f.SearchFunc(ctx, term, category)
}
func (f *fakeProductService) Popular(ctx context.Context, limit int) (product.Products, error) {
	return f.PopularFunc(ctx, limit)
}
func (f *fakeProductService) Update(ctx context.Context, p *product.Product) (*product.Product, error) {
	return f.UpdateFunc(ctx, p)
}
func (f *fakeProductService) Delete(ctx context.Context, uuid product.UUID) error {
	return f.DeleteFunc(ctx, uuid)
}

type fakeDownloadService struct {
	DownloadByKeyFunc   func(ctx context.Context, userUUID *user.UUID, key string) (*ports.DownloadResult, error)
	DownloadProductFunc func(ctx context.Context, userUUID *user.UUID, productUUID product.UUID) (*ports.DownloadResult, error)
	SignedURLFunc       func(ctx context.Context, userUUID *user.UUID, key string) (string, int, error)
}

func (f *fakeDownloadService) DownloadByKey(ctx context.Context, userUUID *user.UUID, key string) (*ports.DownloadResult, error) {
	return f.DownloadByKeyFunc(ctx, userUUID, key)
}
func (f *fakeDownloadService) DownloadProduct(ctx context.Context, userUUID *user.UUID, productUUID product.UUID) (*ports.DownloadResult, error) {
	return f.DownloadProductFunc(ctx, userUUID, productUUID)
}
func (f *fakeDownloadService) SignedURL(ctx context.Context, userUUID *user.UUID, key string) (string, int, error) {
	return f.SignedURLFunc(ctx, userUUID, key)
}

type fakeStorageService struct {
	UploadFunc      func(ctx context.Context, fh *multipart.FileHeader, path string) (*s3.Object, error)
	UploadBatchFunc func(ctx context.Context, fhs []*multipart.FileHeader, folder string) ([]*s3.Object, error)
	ListFunc        func(ctx context.Context, prefix string, maxKeys int32, continuationToken string) (*s3.Listing, error)
	DeleteFunc      func(ctx context.Context, key string) error
}

func (f *fakeStorageService) Upload(ctx context.Context, fh *multipart.FileHeader, path string) (*s3.Object, error) {
	return f.UploadFunc(ctx, fh, path)
}
func (f *fakeStorageService) UploadBatch(ctx context.Context, fhs []*multipart.FileHeader, folder string) ([]*s3.Object, error) {
	return f.UploadBatchFunc(ctx, fhs, folder)
}
func (f *fakeStorageService) List(ctx context.Context, prefix string, maxKeys int32, continuationToken string) (*s3.Listing, error) {
	return f.ListFunc(ctx, prefix, maxKeys, continuationToken)
}
func (f *fakeStorageService) Delete(ctx context.Context, key string) error {
	return f.DeleteFunc(ctx, key)
}

func testJWT() *jwt.Service { return jwt.New(testJWTSecret) }

func bearerFor(t *testing.T, userID, role string) string {
	t.Helper()
	tok, err := testJWT().GenerateJWT(userID, role, time.Hour)
	require.NoError(t, err)
	return "Bearer " + tok
}

func doRequest(t *testing.T, r *gin.Engine, method, path, authHeader string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	switch v := body.(type) {
	case nil:
	case string:
		rd = bytes.NewReader([]byte(v))
	default:
		b, err := json.Marshal(v)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, path, rd)
	require.NoError(t, err)
	if rd != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &m))
	return m
}

func testLogger() *zap.Logger { return zap.NewNop() }

func init() { gin.SetMode(gin.TestMode) }
