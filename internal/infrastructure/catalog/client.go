package catalog

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"net"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sangkips/scanpay/internal/config"
	"github.com/sangkips/scanpay/internal/domain/entity"
	"github.com/sangkips/scanpay/internal/domain/enum"
	"github.com/sangkips/scanpay/internal/domain/repository"
	"github.com/sangkips/scanpay/pkg/money"
	"github.com/sangkips/scanpay/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// maxBodyBytes caps how much of a response is read
const maxBodyBytes = 4 << 20

type client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
	limiter *rate.Limiter
	log     *zap.Logger
}

// NewClient returns a CatalogRepository talking HTTP/JSON to the service at
// cfg.BaseURL. Each call is bounded by cfg.Timeout.
func NewClient(cfg *config.CatalogConfig, log *zap.Logger) repository.CatalogRepository {
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &client{
		baseURL: cfg.BaseURL,
		timeout: cfg.Timeout,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(limit, burst),
		log:     log.Named("catalog"),
	}
}

func (c *client) ListProducts(ctx context.Context) ([]entity.Product, error) {
	var body []productBody
	if _, err := c.do(ctx, http.MethodGet, "/api/products", nil, &body); err != nil {
		return nil, err
	}
	products := make([]entity.Product, 0, len(body))
	for _, p := range body {
		products = append(products, p.toEntity())
	}
	return products, nil
}

func (c *client) Popularity(ctx context.Context) ([]entity.Popularity, error) {
	var body popularityBody
	if _, err := c.do(ctx, http.MethodGet, "/api/purchase/popularity", nil, &body); err != nil {
		return nil, err
	}
	if body.Data == nil {
		return []entity.Popularity{}, nil
	}
	return body.Data, nil
}

// ResolveScan succeeds whenever the body carries a product, whatever the status code
func (c *client) ResolveScan(ctx context.Context, qrCodeID string) (*repository.ScanOutcome, error) {
	var body scanBody
	if _, err := c.do(ctx, http.MethodPost, "/api/purchase/scan", scanRequest{QRCodeID: qrCodeID}, &body); err != nil {
		return nil, err
	}
	if body.Product == nil {
		return &repository.ScanOutcome{Kind: enum.OutcomeNotFound, Message: body.Message}, nil
	}
	return &repository.ScanOutcome{
		Kind:    enum.OutcomeSuccess,
		Product: entity.NewProductRef(body.Product.Name, body.Product.Price, qrCodeID),
	}, nil
}

// Pay is accepted only on a 2xx status with success set and a bill present
func (c *client) Pay(ctx context.Context, qrCodeID string, quantity int) (*repository.PaymentOutcome, error) {
	var body payBody
	status, err := c.do(ctx, http.MethodPost, "/api/purchase/pay", payRequest{QRCodeID: qrCodeID, Quantity: quantity}, &body)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 || !body.Success || body.Bill == nil {
		return &repository.PaymentOutcome{Kind: enum.OutcomeRejected, Message: body.Message}, nil
	}
	return &repository.PaymentOutcome{Kind: enum.OutcomeSuccess, Bill: body.Bill.toEntity()}, nil
}

func (c *client) PurchaseHistory(ctx context.Context) ([]entity.ServerPurchase, error) {
	var body historyBody
	if _, err := c.do(ctx, http.MethodGet, "/api/purchase/history", nil, &body); err != nil {
		return nil, err
	}
	purchases := make([]entity.ServerPurchase, 0, len(body.Purchases))
	if !body.Success {
		return purchases, nil
	}
	for _, p := range body.Purchases {
		purchases = append(purchases, entity.ServerPurchase{
			ID:        p.ID,
			Name:      p.Name,
			Price:     money.UnitPrice(p.Price),
			Timestamp: p.Timestamp,
		})
	}
	return purchases, nil
}

// do sends one request and decodes the JSON body into out regardless of the
// status code, which is returned for the caller to judge.
func (c *client) do(ctx context.Context, method, path string, in, out interface{}) (int, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if err := c.limiter.Wait(ctx); err != nil {
		// the limiter refuses up front when the wait would outlast the deadline
		if stderrors.Is(ctx.Err(), context.Canceled) {
			return 0, errors.Wrapf(repository.ErrCatalogUnavailable, "%s %s: %v", method, path, err)
		}
		return 0, errors.Wrapf(repository.ErrCatalogTimeout, "%s %s: %v", method, path, err)
	}

	var reqBody io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return 0, errors.Wrapf(err, "encode %s %s", method, path)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return 0, errors.Wrapf(repository.ErrCatalogUnavailable, "build %s %s: %v", method, path, err)
	}
	requestID := utils.RequestIDFrom(ctx)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(utils.RequestIDHeader, requestID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("catalog request failed",
			zap.String("request_id", requestID),
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return 0, classify(ctx, err, method, path)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, classify(ctx, err, method, path)
	}

	c.log.Debug("catalog request",
		zap.String("request_id", requestID),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if err := json.Unmarshal(data, out); err != nil {
		return resp.StatusCode, errors.Wrapf(repository.ErrCatalogUnavailable,
			"decode %s %s (status %d): %v", method, path, resp.StatusCode, err)
	}
	return resp.StatusCode, nil
}

func classify(ctx context.Context, err error, method, path string) error {
	var netErr net.Error
	if stderrors.Is(err, context.DeadlineExceeded) ||
		stderrors.Is(ctx.Err(), context.DeadlineExceeded) ||
		(stderrors.As(err, &netErr) && netErr.Timeout()) {
		return errors.Wrapf(repository.ErrCatalogTimeout, "%s %s: %v", method, path, err)
	}
	return errors.Wrapf(repository.ErrCatalogUnavailable, "%s %s: %v", method, path, err)
}
