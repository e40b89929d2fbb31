package routes

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sangkips/scanpay/internal/application/service"
	"github.com/sangkips/scanpay/internal/config"
	"github.com/sangkips/scanpay/internal/infrastructure/catalog"
	"github.com/sangkips/scanpay/internal/infrastructure/kvstore"
	"github.com/sangkips/scanpay/internal/infrastructure/repository"
	"github.com/sangkips/scanpay/internal/presentation/http/handler"
	"github.com/sangkips/scanpay/internal/presentation/http/middleware"
	"github.com/sangkips/scanpay/pkg/printer"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Title   string              `json:"title"`
	Kind    string              `json:"kind"`
	Warning string              `json:"warning"`
	Data    jsoniter.RawMessage `json:"data"`
	Meta    struct {
		RequestID string `json:"request_id"`
	} `json:"meta"`
}

type gateway struct {
	router   *gin.Engine
	payCalls *int32
}

// fakeService mimics the remote catalog/purchase API
func fakeService(t *testing.T, payCalls *int32) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/products", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"_id":"1","name":"Milk","price":45.5,"stock":3,"location":{"row":1,"column":2,"drawer":3}},{"_id":"2","name":"Tea","price":"12"}]`)
	})
	mux.HandleFunc("/api/purchase/popularity", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"data":[{"_id":"Milk","count":4}]}`)
	})
	mux.HandleFunc("/api/purchase/scan", func(w http.ResponseWriter, r *http.Request) {
		var body struct{ QRCodeID string `json:"qrCodeId"` }
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.QRCodeID == "P100" {
			io.WriteString(w, `{"product":{"name":"Milk","price":45.5}}`)
			return
		}
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"message":"Product not found"}`)
	})
	mux.HandleFunc("/api/purchase/pay", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(payCalls, 1)
		var body struct {
			QRCodeID string `json:"qrCodeId"`
			Quantity int    `json:"quantity"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.QRCodeID != "P100" {
			w.WriteHeader(http.StatusBadRequest)
			io.WriteString(w, `{"success":false,"message":"Unknown product"}`)
			return
		}
		io.WriteString(w, `{"success":true,"bill":{"item":"Milk","total":91,"quantity":2,"paymentMode":"UPI","status":"PAID"}}`)
	})
	mux.HandleFunc("/api/purchase/history", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"success":true,"purchases":[{"_id":"a","name":"Milk","price":45.5,"timestamp":"2024-05-01T10:00:00Z"}]}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newGateway(t *testing.T) *gateway {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var payCalls int32
	srv := fakeService(t, &payCalls)

	cfg := &config.Config{
		App:     config.AppConfig{Name: "scanpay-storefront"},
		Catalog: config.CatalogConfig{BaseURL: srv.URL, Timeout: 2 * time.Second},
		Store:   config.StoreConfig{Driver: "memory", Key: "payments"},
	}
	log := zap.NewNop()

	client := catalog.NewClient(&cfg.Catalog, log)
	receipts := repository.NewReceiptRepository(kvstore.NewMemoryStore(), cfg.Store.Key, log)
	t.Cleanup(func() { _ = receipts.Close() })

	printerService := service.NewPrinterService(printer.NewNullPrinter(), receipts, service.PrinterOptions{Type: "none"}, log)
	handlers := &Handlers{
		Catalog: handler.NewCatalogHandler(service.NewCatalogService(client, log)),
		Scan:    handler.NewScanHandler(service.NewScanService(client, log)),
		Payment: handler.NewPaymentHandler(service.NewPaymentService(client, receipts, log)),
		History: handler.NewHistoryHandler(service.NewHistoryService(receipts, client, log)),
		Printer: handler.NewPrinterHandler(printerService),
	}

	limiter := middleware.NewClientRateLimiter(middleware.RateLimiterConfigFrom(1000, 1))
	t.Cleanup(limiter.Stop)

	return &gateway{
		router:   Setup(handlers, &Deps{Cfg: cfg, Log: log, RateLimiter: limiter}),
		payCalls: &payCalls,
	}
}

func (g *gateway) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	g.router.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func TestHealth(t *testing.T) {
	g := newGateway(t)
	w, _ := g.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"store_driver":"memory"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestProductsAndStoreMap(t *testing.T) {
	g := newGateway(t)

	w, env := g.do(t, http.MethodGet, "/api/v1/products", "")
	require.Equal(t, http.StatusOK, w.Code)
	var cards []struct {
		Name       string  `json:"name"`
		Price      float64 `json:"price"`
		Popularity int     `json:"popularity"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &cards))
	require.Len(t, cards, 2)
	assert.Equal(t, 4, cards[0].Popularity)
	assert.Equal(t, 0, cards[1].Popularity)
	assert.Equal(t, 12.0, cards[1].Price)

	w, env = g.do(t, http.MethodGet, "/api/v1/store-map", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"label":"R1-C2-D3"`)
}

func TestScanThenPayThenHistory(t *testing.T) {
	g := newGateway(t)

	w, env := g.do(t, http.MethodPost, "/api/v1/scan", `{"data":"{\"qrCodeId\":\"P100\"}"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"name":"Milk","price":45.5,"qrCodeId":"P100"}`, string(env.Data))

	w, env = g.do(t, http.MethodPost, "/api/v1/scan", `{"data":"{\"qrCodeId\":\"P100\"}"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "scan_in_progress", env.Kind)

	w, env = g.do(t, http.MethodPost, "/api/v1/payments", `{"qrCodeId":"P100","quantity":"2"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, env.Success)

	w, env = g.do(t, http.MethodGet, "/api/v1/history", "")
	require.Equal(t, http.StatusOK, w.Code)
	var view struct {
		Items []struct {
			Name     string `json:"name"`
			Price    string `json:"price"`
			Quantity int    `json:"quantity"`
		} `json:"items"`
		Total     float64 `json:"total"`
		TotalText string  `json:"totalText"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &view))
	require.Len(t, view.Items, 1)
	assert.Equal(t, "Milk", view.Items[0].Name)
	assert.Equal(t, "91.00", view.Items[0].Price)
	assert.Equal(t, 2, view.Items[0].Quantity)
	assert.Equal(t, "91.00", view.TotalText)

	w, _ = g.do(t, http.MethodPost, "/api/v1/scan/reset", "")
	assert.Equal(t, http.StatusOK, w.Code)
	w, env = g.do(t, http.MethodGet, "/api/v1/scan/state", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"state":"Idle"}`, string(env.Data))
}

func TestScanErrorsRenderAsNotifications(t *testing.T) {
	g := newGateway(t)

	w, env := g.do(t, http.MethodPost, "/api/v1/scan", `{"data":"not json"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "malformed_payload", env.Kind)
	assert.Equal(t, "Invalid QR", env.Title)
	assert.Equal(t, "QR code data is not valid JSON.", env.Message)

	w, env = g.do(t, http.MethodPost, "/api/v1/scan", `{"data":"{\"qrCodeId\":\"nope\"}"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "product_not_found", env.Kind)
	assert.Equal(t, "Product not found", env.Message)
}

func TestPaymentValidation(t *testing.T) {
	g := newGateway(t)

	for _, body := range []string{
		`{"qrCodeId":"P100","quantity":"abc"}`,
		`{"qrCodeId":"P100","quantity":0}`,
		`{"qrCodeId":"","quantity":1}`,
		`{"qrCodeId":"P100"}`,
	} {
		w, env := g.do(t, http.MethodPost, "/api/v1/payments", body)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code, body)
		assert.Equal(t, "Please enter valid quantity and QR code", env.Message, body)
	}
	assert.Zero(t, atomic.LoadInt32(g.payCalls))

	w, env := g.do(t, http.MethodPost, "/api/v1/payments", `{"qrCodeId":"P999","quantity":1}`)
	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Equal(t, "Unknown product", env.Message)
	assert.Equal(t, "Payment Failed", env.Title)
}

func TestClearHistoryNeedsConfirmation(t *testing.T) {
	g := newGateway(t)
	_, _ = g.do(t, http.MethodPost, "/api/v1/payments", `{"qrCodeId":"P100","quantity":1}`)

	w, env := g.do(t, http.MethodDelete, "/api/v1/history", "")
	assert.Equal(t, http.StatusPreconditionRequired, w.Code)
	assert.Equal(t, "confirmation_required", env.Kind)

	w, _ = g.do(t, http.MethodDelete, "/api/v1/history?confirm=true", "")
	assert.Equal(t, http.StatusOK, w.Code)

	_, env = g.do(t, http.MethodGet, "/api/v1/history", "")
	assert.Contains(t, string(env.Data), `"items":[]`)
	assert.Contains(t, string(env.Data), `"total":0`)
}

func TestExportAndServerHistory(t *testing.T) {
	g := newGateway(t)
	_, _ = g.do(t, http.MethodPost, "/api/v1/payments", `{"qrCodeId":"P100","quantity":2}`)

	w, _ := g.do(t, http.MethodGet, "/api/v1/history/export", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "name,price,quantity,date\nMilk,91.00,2,"))

	w, env := g.do(t, http.MethodGet, "/api/v1/history/server", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"name":"Milk"`)
}

func TestPrinterRoutes(t *testing.T) {
	g := newGateway(t)

	w, env := g.do(t, http.MethodGet, "/api/v1/printer/status", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"configured":false,"connected":false,"type":"none"}`, string(env.Data))

	w, env = g.do(t, http.MethodPost, "/api/v1/printer/receipts/0", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", env.Kind)

	_, _ = g.do(t, http.MethodPost, "/api/v1/payments", `{"qrCodeId":"P100","quantity":1}`)
	w, env = g.do(t, http.MethodPost, "/api/v1/printer/receipts/0", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, env.Warning)

	w, _ = g.do(t, http.MethodPost, "/api/v1/printer/receipts/x", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
