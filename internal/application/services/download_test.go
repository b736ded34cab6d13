package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"design-market-api/config"
	"design-market-api/internal/application/ports"
	"design-market-api/internal/domain/entitlement"
	"design-market-api/internal/domain/product"
	"design-market-api/internal/domain/user"
	"design-market-api/internal/infrastructure/mq"
	"design-market-api/internal/infrastructure/s3"
)

type fakeUserRepo struct {
	FetchUserByIDFunc       func(ctx context.Context, uuid user.UUID) (*user.User, error)
	RecordDownloadFunc      func(ctx context.Context, uuid user.UUID, today string) (*user.User, error)
	RecordTotalDownloadFunc func(ctx context.Context, uuid user.UUID) (*user.User, error)
	CreateUserFunc          func(ctx context.Context, req user.User) (*user.User, error)
	UpdateSubscriptionFunc  func(ctx context.Context, uuid user.UUID, status string, end *string) (*user.User, error)

	recordCalls      int
	recordTotalCalls int
}

func (f *fakeUserRepo) FetchUserByID(ctx context.Context, uuid user.UUID) (*user.User, error) {
	return f.FetchUserByIDFunc(ctx, uuid)
}
func (f *fakeUserRepo) FetchUserByEmail(ctx context.Context, email string) (*user.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) CreateUser(ctx context.Context, req user.User) (*user.User, error) {
	if f.CreateUserFunc != nil {
		return f.CreateUserFunc(ctx, req)
	}
	return nil, nil
}
func (f *fakeUserRepo) UpdateSubscription(ctx context.Context, uuid user.UUID, status string, end *string) (*user.User, error) {
	if f.UpdateSubscriptionFunc != nil {
		return f.UpdateSubscriptionFunc(ctx, uuid, status, end)
	}
	return nil, nil
}
func (f *fakeUserRepo) RecordDownload(ctx context.Context, uuid user.UUID, today string) (*user.User, error) {
	f.recordCalls++
	if f.RecordDownloadFunc != nil {
		return f.RecordDownloadFunc(ctx, uuid, today)
	}
	return &user.User{UUID: uuid, TotalDownloads: 1}, nil
}
func (f *fakeUserRepo) RecordTotalDownload(ctx context.Context, uuid user.UUID) (*user.User, error) {
	f.recordTotalCalls++
	if f.RecordTotalDownloadFunc != nil {
		return f.RecordTotalDownloadFunc(ctx, uuid)
	}
	return &user.User{UUID: uuid, TotalDownloads: 1}, nil
}

type fakeProductRepo struct {
	FetchProductByIDFunc   func(ctx context.Context, uuid product.UUID) (*product.Product, error)
	CreateProductFunc      func(ctx context.Context, req *product.Product) (*product.Product, error)
	FetchRecentFunc        func(ctx context.Context, category string, limit int) (product.Products, error)
	IncrementDownloadsFunc func(ctx context.Context, uuid product.UUID) (int64, error)

	incrementCalls int
	deleteCalls    int
	created        []*product.Product
}

func (f *fakeProductRepo) CreateProduct(ctx context.Context, req *product.Product) (*product.Product, error) {
	f.created = append(f.created, req)
	if f.CreateProductFunc != nil {
		return f.CreateProductFunc(ctx, req)
	}
	req.UUID = uuid.New()
	return req, nil
}
func (f *fakeProductRepo) FetchProductByID(ctx context.Context, uuid product.UUID) (*product.Product, error) {
	return f.FetchProductByIDFunc(ctx, uuid)
}
func (f *fakeProductRepo) FetchByCategory(ctx context.Context, category string, pageSize, page int) (product.Products, error) {
	return nil, nil
}
func (f *fakeProductRepo) FetchAll(ctx context.Context, pageSize int) (product.Products, error) {
	return nil, nil
}
func (f *fakeProductRepo) FetchRecent(ctx context.Context, category string, limit int) (product.Products, error) {
	if f.FetchRecentFunc != nil {
		return f.FetchRecentFunc(ctx, category, limit)
	}
	return nil, nil
}
func (f *fakeProductRepo) FetchPopular(ctx context.Context, limit int) (product.Products, error) {
	return nil, nil
}
func (f *fakeProductRepo) UpdateProduct(ctx context.Context, req *product.Product) (*product.Product, error) {
	return req, nil
}
func (f *fakeProductRepo) DeleteProduct(ctx context.Context, uuid product.UUID) error {
	f.deleteCalls++
	return nil
}
func (f *fakeProductRepo) IncrementDownloads(ctx context.Context, uuid product.UUID) (int64, error) {
	f.incrementCalls++
	if f.IncrementDownloadsFunc != nil {
		return f.IncrementDownloadsFunc(ctx, uuid)
	}
	return 1, nil
}

type fakeStorage struct {
	DownloadFunc        func(ctx context.Context, key string) (io.ReadCloser, string, int64, error)
	PresignDownloadFunc func(ctx context.Context, key, fileName string, expiry time.Duration) (string, error)
	UploadFunc          func(ctx context.Context, data []byte, key, contentType string) (*s3.Object, error)
	ListFunc            func(ctx context.Context, prefix string, maxKeys int32, continuationToken string) (*s3.Listing, error)
	DeleteFunc          func(ctx context.Context, key string) error

	downloadCalls int
	presignCalls  int
	uploadedKeys  []string
	deletedKeys   []string
}

func (f *fakeStorage) Upload(ctx context.Context, data []byte, key, contentType string) (*s3.Object, error) {
	f.uploadedKeys = append(f.uploadedKeys, key)
	if f.UploadFunc != nil {
		return f.UploadFunc(ctx, data, key, contentType)
	}
	return &s3.Object{Key: key, URL: "https://cdn.example/" + key, Size: int64(len(data)), ContentType: contentType}, nil
}
func (f *fakeStorage) PresignDownload(ctx context.Context, key, fileName string, expiry time.Duration) (string, error) {
	f.presignCalls++
	if f.PresignDownloadFunc != nil {
		return f.PresignDownloadFunc(ctx, key, fileName, expiry)
	}
	return "https://signed.example/" + key, nil
}
func (f *fakeStorage) Download(ctx context.Context, key string) (io.ReadCloser, string, int64, error) {
	f.downloadCalls++
	if f.DownloadFunc != nil {
		return f.DownloadFunc(ctx, key)
	}
	return io.NopCloser(strings.NewReader("payload")), "application/octet-stream", 7, nil
}
func (f *fakeStorage) List(ctx context.Context, prefix string, maxKeys int32, continuationToken string) (*s3.Listing, error) {
	if f.ListFunc != nil {
		return f.ListFunc(ctx, prefix, maxKeys, continuationToken)
	}
	return &s3.Listing{}, nil
}
func (f *fakeStorage) Delete(ctx context.Context, key string) error {
	f.deletedKeys = append(f.deletedKeys, key)
	if f.DeleteFunc != nil {
		return f.DeleteFunc(ctx, key)
	}
	return nil
}
func (f *fakeStorage) PublicURL(key string) string { return "https://cdn.example/" + key }
func (f *fakeStorage) GetBucket() string           { return "test-bucket" }

type fakeRabbit struct {
	in chan mq.Event
}

func newFakeRabbit() *fakeRabbit { return &fakeRabbit{in: make(chan mq.Event, 16)} }

func (f *fakeRabbit) Connect(ctx context.Context, dsn string) error { return nil }
func (f *fakeRabbit) Init() error                                   { return nil }
func (f *fakeRabbit) PublisherWorker(ctx context.Context)           {}
func (f *fakeRabbit) GetInputChan() chan mq.Event                   { return f.in }
func (f *fakeRabbit) GetConn() *amqp091.Connection                  { return nil }

func testCounter() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_ops_total"}, []string{"result"})
}

func newDownloadFixture(u *user.User, p *product.Product) (ports.DownloadService, *fakeUserRepo, *fakeProductRepo, *fakeStorage, *fakeRabbit) {
	users := &fakeUserRepo{
		FetchUserByIDFunc: func(ctx context.Context, uuid user.UUID) (*user.User, error) {
			return u, nil
		},
	}
	products := &fakeProductRepo{
		FetchProductByIDFunc: func(ctx context.Context, uuid product.UUID) (*product.Product, error) {
			return p, nil
		},
	}
	storage := &fakeStorage{}
	rabbit := newFakeRabbit()

	ds := NewDownloadService(
		entitlement.NewEvaluator(2),
		users,
		products,
		storage,
		rabbit,
		config.Limits{SignedURLTTL: 3600 * time.Second, FreeDailyLimit: 2},
		testCounter(),
		zap.NewNop(),
	)
	return ds, users, products, storage, rabbit
}

func todayStr() string { return time.Now().UTC().Format(entitlement.DateLayout) }

func TestDownloadByKey_AnonymousDeniedBeforeStorage(t *testing.T) {
	ds, users, _, storage, _ := newDownloadFixture(nil, nil)
	users.FetchUserByIDFunc = func(ctx context.Context, uuid user.UUID) (*user.User, error) {
		t.Fatal("profile lookup must not run for anonymous requests")
		return nil, nil
	}

	res, err := ds.DownloadByKey(context.Background(), nil, "laser/files/1_a.svg")
	require.Error(t, err)
	assert.Nil(t, res)

	var entErr *EntitlementError
	require.ErrorAs(t, err, &entErr)
	assert.Equal(t, entitlement.ReasonAuthenticationRequired, entErr.Reason)
	assert.Zero(t, storage.downloadCalls, "storage must not be touched on denial")
}

func TestDownloadByKey_AtLimitDenied(t *testing.T) {
	u := &user.User{
		UUID:               uuid.New(),
		Role:               user.RoleUser,
		SubscriptionStatus: user.SubscriptionFree,
		DailyDownloads:     2,
		LastDownloadDate:   todayStr(),
	}
	ds, users, _, storage, _ := newDownloadFixture(u, nil)

	res, err := ds.DownloadByKey(context.Background(), &u.UUID, "laser/files/1_a.svg")
	require.Error(t, err)
	assert.Nil(t, res)

	var entErr *EntitlementError
	require.ErrorAs(t, err, &entErr)
	assert.Equal(t, entitlement.ReasonDailyLimitReached, entErr.Reason)
	assert.Zero(t, storage.downloadCalls)
	assert.Zero(t, users.recordCalls, "denied downloads must not move counters")
}

func TestDownloadByKey_FreeUserChargedAfterFetch(t *testing.T) {
	u := &user.User{
		UUID:               uuid.New(),
		Role:               user.RoleUser,
		SubscriptionStatus: user.SubscriptionFree,
		DailyDownloads:     1,
		LastDownloadDate:   todayStr(),
	}
	ds, users, _, storage, rabbit := newDownloadFixture(u, nil)

	var recordedDay string
	users.RecordDownloadFunc = func(ctx context.Context, uuid user.UUID, today string) (*user.User, error) {
		recordedDay = today
		return &user.User{UUID: uuid, DailyDownloads: 2, LastDownloadDate: today, TotalDownloads: 9}, nil
	}

	res, err := ds.DownloadByKey(context.Background(), &u.UUID, "laser/files/1_a.svg")
	require.NoError(t, err)
	require.NotNil(t, res)
	defer res.Body.Close()

	b, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(b))
	assert.Equal(t, "a.svg", res.FileName)
	assert.Equal(t, int64(7), res.ContentLength)

	assert.Equal(t, 1, storage.downloadCalls)
	assert.Equal(t, 1, users.recordCalls)
	assert.Equal(t, todayStr(), recordedDay)

	select {
	case e := <-rabbit.in:
		assert.Equal(t, mq.RouteDownloadRecorded, e.Route)
		assert.Equal(t, u.UUID.String(), e.UserID)
		assert.Equal(t, int64(9), e.TotalCount)
	default:
		t.Fatal("expected a download.recorded event")
	}
}

func TestDownloadByKey_NoRecordOnFetchFailure(t *testing.T) {
	u := &user.User{
		UUID:               uuid.New(),
		Role:               user.RoleUser,
		SubscriptionStatus: user.SubscriptionFree,
	}
	ds, users, _, storage, rabbit := newDownloadFixture(u, nil)
	storage.DownloadFunc = func(ctx context.Context, key string) (io.ReadCloser, string, int64, error) {
		return nil, "", 0, s3.ErrObjectNotFound
	}

	res, err := ds.DownloadByKey(context.Background(), &u.UUID, "laser/files/missing.svg")
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, s3.ErrObjectNotFound)
	assert.Zero(t, users.recordCalls, "quota must not be charged when the fetch fails")
	assert.Empty(t, rabbit.in)
}

func TestDownloadByKey_AdminSkipsCounters(t *testing.T) {
	u := &user.User{UUID: uuid.New(), Role: user.RoleAdmin}
	ds, users, _, storage, rabbit := newDownloadFixture(u, nil)

	res, err := ds.DownloadByKey(context.Background(), &u.UUID, "laser/files/1_a.svg")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, 1, storage.downloadCalls)
	assert.Zero(t, users.recordCalls, "admin downloads are not counted")

	// the audit event still goes out
	select {
	case e := <-rabbit.in:
		assert.Equal(t, mq.RouteDownloadRecorded, e.Route)
		assert.Zero(t, e.TotalCount)
	default:
		t.Fatal("expected a download.recorded event")
	}
}

func TestDownloadByKey_SubscriberCountsTotalOnly(t *testing.T) {
	u := &user.User{
		UUID:               uuid.New(),
		Role:               user.RoleUser,
		SubscriptionStatus: user.SubscriptionActive,
		DailyDownloads:     50,
		LastDownloadDate:   todayStr(),
	}
	ds, users, _, _, rabbit := newDownloadFixture(u, nil)

	users.RecordTotalDownloadFunc = func(ctx context.Context, uuid user.UUID) (*user.User, error) {
		return &user.User{UUID: uuid, DailyDownloads: u.DailyDownloads, LastDownloadDate: u.LastDownloadDate, TotalDownloads: 120}, nil
	}

	res, err := ds.DownloadByKey(context.Background(), &u.UUID, "3d/files/1_b.stl")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Zero(t, users.recordCalls, "subscriber downloads must not touch the daily quota")
	assert.Equal(t, 1, users.recordTotalCalls)

	select {
	case e := <-rabbit.in:
		assert.Equal(t, int64(120), e.TotalCount)
	default:
		t.Fatal("expected a download.recorded event")
	}
}

// A subscription lapsing mid-day must leave the free-tier allowance
// untouched: downloads made while subscribed never fill the daily counter.
func TestDownloadByKey_LapsedSubscriberKeepsFreeQuota(t *testing.T) {
	u := &user.User{
		UUID:               uuid.New(),
		Role:               user.RoleUser,
		SubscriptionStatus: user.SubscriptionActive,
		DailyDownloads:     0,
		LastDownloadDate:   "",
	}
	ds, users, _, _, _ := newDownloadFixture(u, nil)

	res, err := ds.DownloadByKey(context.Background(), &u.UUID, "3d/files/1_b.stl")
	require.NoError(t, err)
	res.Body.Close()
	require.Zero(t, users.recordCalls)

	// the subscription ends, the stored quota fields are still pristine
	past := time.Now().Add(-time.Minute)
	u.SubscriptionEnd = &past

	res, err = ds.DownloadByKey(context.Background(), &u.UUID, "3d/files/2_c.stl")
	require.NoError(t, err, "free-tier quota must still be available after the lapse")
	res.Body.Close()
	assert.Equal(t, 1, users.recordCalls)
}

func TestDownloadProduct(t *testing.T) {
	u := &user.User{UUID: uuid.New(), Role: user.RoleUser, SubscriptionStatus: user.SubscriptionFree}
	p := &product.Product{
		UUID:      uuid.New(),
		Category:  product.CategoryLaser,
		Name:      "Gears",
		FileKey:   "laser/files/1_gears.svg",
		FileName:  "gears.svg",
		Downloads: 4,
	}

	t.Run("success increments product counter", func(t *testing.T) {
		ds, _, products, _, rabbit := newDownloadFixture(u, p)
		// concurrent downloads bumped the row past the stale catalog read;
		// the event must carry the post-increment value
		products.IncrementDownloadsFunc = func(ctx context.Context, uuid product.UUID) (int64, error) {
			return 7, nil
		}

		res, err := ds.DownloadProduct(context.Background(), &u.UUID, p.UUID)
		require.NoError(t, err)
		defer res.Body.Close()

		assert.Equal(t, "gears.svg", res.FileName)
		assert.Equal(t, 1, products.incrementCalls)

		select {
		case e := <-rabbit.in:
			assert.Equal(t, p.UUID.String(), e.ProductID)
			assert.Equal(t, p.FileKey, e.FileKey)
			assert.Equal(t, int64(7), e.Downloads)
		default:
			t.Fatal("expected a download.recorded event")
		}
	})

	t.Run("unknown product -> ErrProductNotFound before the gate", func(t *testing.T) {
		ds, _, products, storage, _ := newDownloadFixture(u, nil)
		products.FetchProductByIDFunc = func(ctx context.Context, uuid product.UUID) (*product.Product, error) {
			return nil, nil
		}

		res, err := ds.DownloadProduct(context.Background(), &u.UUID, uuid.New())
		require.Error(t, err)
		assert.Nil(t, res)
		assert.ErrorIs(t, err, ErrProductNotFound)
		assert.Zero(t, storage.downloadCalls)
	})

	t.Run("catalog error propagates", func(t *testing.T) {
		ds, _, products, _, _ := newDownloadFixture(u, p)
		products.FetchProductByIDFunc = func(ctx context.Context, uuid product.UUID) (*product.Product, error) {
			return nil, errors.New("db down")
		}

		_, err := ds.DownloadProduct(context.Background(), &u.UUID, p.UUID)
		require.Error(t, err)
	})
}

func TestDownloadProduct_DeniedAfterLookup(t *testing.T) {
	p := &product.Product{UUID: uuid.New(), FileKey: "laser/files/1_x.svg"}
	ds, _, products, storage, _ := newDownloadFixture(nil, p)

	res, err := ds.DownloadProduct(context.Background(), nil, p.UUID)
	require.Error(t, err)
	assert.Nil(t, res)

	var entErr *EntitlementError
	require.ErrorAs(t, err, &entErr)
	assert.Equal(t, entitlement.ReasonAuthenticationRequired, entErr.Reason)
	assert.Zero(t, storage.downloadCalls)
	assert.Zero(t, products.incrementCalls)
}

func TestSignedURL(t *testing.T) {
	u := &user.User{UUID: uuid.New(), Role: user.RoleAdmin}
	ds, users, _, storage, _ := newDownloadFixture(u, nil)

	url, expiresIn, err := ds.SignedURL(context.Background(), &u.UUID, "laser/files/1_a.svg")
	require.NoError(t, err)
	assert.Equal(t, "https://signed.example/laser/files/1_a.svg", url)
	assert.Equal(t, 3600, expiresIn)
	assert.Equal(t, 1, storage.presignCalls)
	assert.Zero(t, users.recordCalls, "signed URLs never charge quota")
}

func TestSignedURL_AnonymousDenied(t *testing.T) {
	ds, _, _, storage, _ := newDownloadFixture(nil, nil)

	url, _, err := ds.SignedURL(context.Background(), nil, "laser/files/1_a.svg")
	require.Error(t, err)
	assert.Empty(t, url)
	assert.Zero(t, storage.presignCalls)
}

func TestDownloadByKey_UnreadableProfileTreatedAsAnonymous(t *testing.T) {
	ds, users, _, storage, _ := newDownloadFixture(nil, nil)
	users.FetchUserByIDFunc = func(ctx context.Context, uuid user.UUID) (*user.User, error) {
		return nil, errors.New("db down")
	}

	id := uuid.New()
	res, err := ds.DownloadByKey(context.Background(), &id, "laser/files/1_a.svg")
	require.Error(t, err)
	assert.Nil(t, res)

	var entErr *EntitlementError
	require.ErrorAs(t, err, &entErr)
	assert.Equal(t, entitlement.ReasonAuthenticationRequired, entErr.Reason)
	assert.Zero(t, storage.downloadCalls)
}
