package services

import (
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"design-market-api/config"
	"design-market-api/internal/application/ports"
	"design-market-api/internal/domain/entitlement"
	"design-market-api/internal/domain/product"
	"design-market-api/internal/domain/user"
	"design-market-api/internal/infrastructure/mq"
)

var ErrProductNotFound = errors.New("product not found")

// EntitlementError is the typed denial a handler maps onto a status code
// and a machine-readable reason.
type EntitlementError struct {
	Reason entitlement.DenyReason
}

func (e *EntitlementError) Error() string {
	return fmt.Sprintf("download denied: %s", e.Reason)
}

// DownloadService enforces the check -> fetch -> record ordering: the gate
// runs before any storage call, and counters move only after the storage
// fetch succeeded server-side. Client receipt is not awaited; that weaker
// guarantee is the accepted policy.
type DownloadService struct {
	evaluator         *entitlement.Evaluator
	userRepository    user.Repository
	productRepository product.Repository
	s3                ports.StorageClient
	mq                ports.RabbitMQ
	signedURLTTL      time.Duration
	mCounter          *prometheus.CounterVec
	logger            *zap.Logger
}

func NewDownloadService(
	evaluator *entitlement.Evaluator,
	userRepository user.Repository,
	productRepository product.Repository,
	s3Client ports.StorageClient,
	rabbit ports.RabbitMQ,
	limits config.Limits,
	mCounter *prometheus.CounterVec,
	logger *zap.Logger,
) ports.DownloadService {
	return &DownloadService{
		evaluator:         evaluator,
		userRepository:    userRepository,
		productRepository: productRepository,
		s3:                s3Client,
		mq:                rabbit,
		signedURLTTL:      limits.SignedURLTTL,
		mCounter:          mCounter,
		logger:            logger,
	}
}

// gate loads the profile (nil when unauthenticated or unloadable) and runs
// the evaluator. A profile that cannot be read is treated as no-session
// rather than handed a free pass.
func (ds *DownloadService) gate(ctx context.Context, userUUID *user.UUID, now time.Time) (*user.User, entitlement.Decision, error) {
	var profile *user.User
	if userUUID != nil {
		var err error
		profile, err = ds.userRepository.FetchUserByID(ctx, *userUUID)
		if err != nil {
			ds.logger.Error("failed to load profile for entitlement check", zap.Error(err))
			profile = nil
		}
	}

	decision := ds.evaluator.Evaluate(profile, now)
	if !decision.Allow {
		ds.mCounter.WithLabelValues("downloads_denied_total").Inc()
		return nil, decision, &EntitlementError{Reason: decision.Reason}
	}

	ds.mCounter.WithLabelValues("downloads_allowed_total").Inc()

	return profile, decision, nil
}

// record charges the approved download after a successful fetch. Admin
// downloads never touch counters; subscriber downloads move total_downloads
// only, so the daily quota is untouched should the subscription lapse.
func (ds *DownloadService) record(ctx context.Context, profile *user.User, decision entitlement.Decision, p *product.Product, now time.Time) {
	var totalDownloads int64

	if decision.CountTotal && profile != nil {
		var updated *user.User
		var err error
		if decision.ChargeQuota {
			today := now.UTC().Format(entitlement.DateLayout)
			updated, err = ds.userRepository.RecordDownload(ctx, profile.UUID, today)
		} else {
			updated, err = ds.userRepository.RecordTotalDownload(ctx, profile.UUID)
		}
		if err != nil {
			ds.logger.Error("failed to record download", zap.Error(err), zap.Stringer("user_uuid", profile.UUID))
		} else if updated != nil {
			totalDownloads = updated.TotalDownloads
		}
	}

	var productID, fileKey string
	var productDownloads int64
	if p != nil {
		productDownloads = p.Downloads + 1
		if n, err := ds.productRepository.IncrementDownloads(ctx, p.UUID); err != nil {
			ds.logger.Error("failed to increment product downloads", zap.Error(err), zap.Stringer("product_uuid", p.UUID))
		} else {
			productDownloads = n
		}
		productID = p.UUID.String()
		fileKey = p.FileKey
	}

	var userID string
	if profile != nil {
		userID = profile.UUID.String()
	}

	ds.mq.GetInputChan() <- mq.Event{
		Id:         uuid.New(),
		TS:         now,
		Route:      mq.RouteDownloadRecorded,
		UserID:     userID,
		ProductID:  productID,
		FileKey:    fileKey,
		Downloads:  productDownloads,
		TotalCount: totalDownloads,
	}
	ds.mCounter.WithLabelValues("downloads_recorded_total").Inc()
}

func (ds *DownloadService) DownloadByKey(ctx context.Context, userUUID *user.UUID, key string) (*ports.DownloadResult, error) {
	now := time.Now()

	profile, decision, err := ds.gate(ctx, userUUID, now)
	if err != nil {
		return nil, err
	}

	body, contentType, contentLength, err := ds.s3.Download(ctx, key)
	if err != nil {
		return nil, err
	}

	ds.record(ctx, profile, decision, nil, now)

	return &ports.DownloadResult{
		Body:          body,
		ContentType:   contentType,
		ContentLength: contentLength,
		FileName:      path.Base(key),
	}, nil
}

func (ds *DownloadService) DownloadProduct(ctx context.Context, userUUID *user.UUID, productUUID product.UUID) (*ports.DownloadResult, error) {
	now := time.Now()

	p, err := ds.productRepository.FetchProductByID(ctx, productUUID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}

	profile, decision, err := ds.gate(ctx, userUUID, now)
	if err != nil {
		return nil, err
	}

	body, contentType, contentLength, err := ds.s3.Download(ctx, p.FileKey)
	if err != nil {
		return nil, err
	}

	ds.record(ctx, profile, decision, p, now)

	fileName := p.FileName
	if fileName == "" {
		fileName = path.Base(p.FileKey)
	}

	return &ports.DownloadResult{
		Body:          body,
		ContentType:   contentType,
		ContentLength: contentLength,
		FileName:      fileName,
	}, nil
}

// SignedURL gates like a download but does not charge quota: the signed URL
// path serves the admin file manager, and the fetch it authorizes happens
// outside the proxy.
func (ds *DownloadService) SignedURL(ctx context.Context, userUUID *user.UUID, key string) (string, int, error) {
	now := time.Now()

	if _, _, err := ds.gate(ctx, userUUID, now); err != nil {
		return "", 0, err
	}

	url, err := ds.s3.PresignDownload(ctx, key, path.Base(key), ds.signedURLTTL)
	if err != nil {
		return "", 0, err
	}

	return url, int(ds.signedURLTTL.Seconds()), nil
}
