package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	checkoutapp "github.com/partsshop/storefront/internal/application/checkout"
	reportapp "github.com/partsshop/storefront/internal/application/report"
	shippingapp "github.com/partsshop/storefront/internal/application/shipping"
	"github.com/partsshop/storefront/internal/domain/shipping"
	"github.com/partsshop/storefront/internal/infrastructure/auth"
	"github.com/partsshop/storefront/internal/infrastructure/cache"
	"github.com/partsshop/storefront/internal/infrastructure/config"
	"github.com/partsshop/storefront/internal/infrastructure/persistence"
	"github.com/partsshop/storefront/internal/interfaces/http/dto"
	"github.com/partsshop/storefront/internal/interfaces/http/handler"
	"github.com/partsshop/storefront/internal/interfaces/http/middleware"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
)

const testAdminPassword = "correct-horse-battery"

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *dto.ErrorInfo  `json:"error"`
	Meta    *dto.Meta       `json:"meta"`
}

type testAPI struct {
	t      *testing.T
	engine *gin.Engine
	token  string
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "storefront", Env: "test"},
		HTTP: config.HTTPConfig{
			MaxBodySize:      1 << 20,
			CORSAllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			CORSAllowHeaders: []string{"Content-Type", "Authorization"},
		},
		JWT: config.JWTConfig{
			Secret:                "test-secret-that-is-long-enough-for-hs256",
			AccessTokenExpiration: time.Hour,
			Issuer:                "storefront",
		},
	}
}

// newTestAPI wires the real services over SQLite and in-memory stores
func newTestAPI(t *testing.T, guards func(*Guards)) *testAPI {
	t.Helper()
	cfg := testConfig()

	db, err := persistence.Open(sqlite.Open(":memory:"))
	require.NoError(t, err)
	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate())
	t.Cleanup(func() { _ = db.Close() })

	sessions := cache.NewInMemorySessionStore(time.Hour)
	idempotency := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() {
		_ = sessions.Close()
		_ = idempotency.Close()
	})

	resolver := shipping.NewResolver(shipping.DefaultTables())
	orders := persistence.NewGormOrderRepository(db.DB)
	shippingService := shippingapp.NewService(resolver, zap.NewNop())
	checkoutService := checkoutapp.NewService(sessions, orders, resolver, idempotency, zap.NewNop())
	reportService := reportapp.NewShippingReportService(orders)

	hash, err := bcrypt.GenerateFromPassword([]byte(testAdminPassword), bcrypt.MinCost)
	require.NoError(t, err)
	authenticator := auth.NewAdminAuthenticator("admin", string(hash),
		auth.NewJWTService(cfg.JWT), auth.NewInMemoryRevocationList())

	engine, err := NewEngine(cfg, zap.NewNop())
	require.NoError(t, err)

	g := Guards{AdminAuth: middleware.AdminAuth(authenticator, zap.NewNop())}
	if guards != nil {
		guards(&g)
	}
	NewRouter(engine).Register(StorefrontGroups(Handlers{
		Shipping: handler.NewShippingHandler(shippingService),
		Checkout: handler.NewCheckoutHandler(checkoutService),
		Orders:   handler.NewOrderHandler(checkoutService),
		Admin:    handler.NewAdminHandler(shippingService, reportService, authenticator),
	}, g)...).Setup()

	return &testAPI{t: t, engine: engine}
}

func (a *testAPI) do(method, path string, body any) (int, envelope) {
	a.t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(a.t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, "/api/v1"+path, reader)
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w.Code, env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func TestAPI_ShippingCalculator(t *testing.T) {
	api := newTestAPI(t, nil)

	code, env := api.do(http.MethodPost, "/shipping/calculate", `{"postcode":"3220","weight":2}`)
	require.Equal(t, http.StatusOK, code)
	quote := decode[shippingapp.QuoteResponse](t, env)
	assert.Equal(t, shipping.ZoneGeelongMetro, quote.Zone.ID)
	assert.True(t, decimal.NewFromInt(10).Equal(quote.Cost))

	code, env = api.do(http.MethodPost, "/shipping/calculate",
		`{"postcode":"3000","weight":25,"items":[{"price":60,"quantity":2}]}`)
	require.Equal(t, http.StatusOK, code)
	quote = decode[shippingapp.QuoteResponse](t, env)
	assert.True(t, quote.Cost.IsZero())
	assert.True(t, quote.DiscountApplied)

	code, env = api.do(http.MethodPost, "/shipping/calculate", `{"postcode":"3220"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, dto.ErrCodeInvalidInput, env.Error.Code)
	require.Len(t, env.Error.Details, 1)
	assert.Equal(t, "weight", env.Error.Details[0].Field)

	code, env = api.do(http.MethodPost, "/shipping/calculate", `{"postcode":`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, dto.ErrCodeBadRequest, env.Error.Code)

	code, env = api.do(http.MethodGet, "/shipping/methods", nil)
	require.Equal(t, http.StatusOK, code)
	methods := decode[[]shippingapp.MethodResponse](t, env)
	require.Len(t, methods, 2)
	assert.Equal(t, "standard", methods[0].Code)
}

func TestAPI_CheckoutToOrder(t *testing.T) {
	api := newTestAPI(t, nil)
	customerID := uuid.New()

	code, env := api.do(http.MethodPost, "/checkout", gin.H{
		"customerId": customerID,
		"items": []gin.H{
			{"productId": uuid.New(), "name": "Brake pads", "unitPrice": "40", "quantity": 1, "unitWeight": "1.5"},
			{"productId": uuid.New(), "name": "Oil filter", "unitPrice": "5", "quantity": 2, "unitWeight": "0.5"},
		},
	})
	require.Equal(t, http.StatusCreated, code)
	session := decode[checkoutapp.SessionResponse](t, env)
	assert.Equal(t, "INFORMATION", session.Stage)
	base := "/checkout/" + session.ID.String()

	code, env = api.do(http.MethodPost, base+"/continue", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, dto.ErrCodeValidation, env.Error.Code)
	fields := make([]string, len(env.Error.Details))
	for i, d := range env.Error.Details {
		fields[i] = d.Field
	}
	assert.Contains(t, fields, "email")

	steps := []struct {
		method, path string
		body         any
		stage        string
	}{
		{http.MethodPut, "/contact", gin.H{"email": "jamie@example.com"}, "INFORMATION"},
		{http.MethodPut, "/address", gin.H{
			"firstName": "Jamie", "lastName": "Smith", "street": "12 Moorabool St",
			"city": "Geelong", "state": "VIC", "postcode": "3220",
		}, "INFORMATION"},
		{http.MethodPost, "/continue", nil, "SHIPPING"},
		{http.MethodPut, "/shipping-method", gin.H{"method": "express"}, "SHIPPING"},
		{http.MethodPost, "/continue", nil, "PAYMENT"},
		{http.MethodPut, "/payment", gin.H{"method": "paypal"}, "PAYMENT"},
		{http.MethodPost, "/continue", nil, "REVIEW"},
	}
	for _, step := range steps {
		code, env = api.do(step.method, base+step.path, step.body)
		require.Equal(t, http.StatusOK, code, "%s %s: %+v", step.method, step.path, env.Error)
		assert.Equal(t, step.stage, decode[checkoutapp.SessionResponse](t, env).Stage)
	}

	code, env = api.do(http.MethodPost, base+"/place", gin.H{"acceptTerms": false})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, dto.ErrCodeValidation, env.Error.Code)

	code, env = api.do(http.MethodPost, base+"/place", gin.H{"acceptTerms": true})
	require.Equal(t, http.StatusCreated, code, "%+v", env.Error)
	order := decode[checkoutapp.OrderResponse](t, env)
	assert.True(t, strings.HasPrefix(order.OrderNumber, "PS-"))
	assert.Equal(t, "express", order.ShippingMethod)
	assert.True(t, decimal.NewFromInt(25).Equal(order.ShippingCost))
	assert.True(t, decimal.NewFromInt(75).Equal(order.Total))

	code, env = api.do(http.MethodPost, base+"/place", gin.H{"acceptTerms": true})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, dto.ErrCodeAlreadyPlaced, env.Error.Code)

	code, _ = api.do(http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusConflict, code)

	code, env = api.do(http.MethodGet, "/orders/"+order.OrderNumber, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, order.ID, decode[checkoutapp.OrderResponse](t, env).ID)

	code, env = api.do(http.MethodGet, "/orders/"+order.ID.String(), nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, order.OrderNumber, decode[checkoutapp.OrderResponse](t, env).OrderNumber)

	code, env = api.do(http.MethodGet, "/orders?customerId="+customerID.String(), nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]checkoutapp.OrderResponse](t, env), 1)
	require.NotNil(t, env.Meta)
	assert.Equal(t, int64(1), env.Meta.Total)
	assert.Equal(t, 20, env.Meta.PageSize)
}

func TestAPI_CheckoutErrors(t *testing.T) {
	api := newTestAPI(t, nil)

	code, env := api.do(http.MethodGet, "/checkout/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, dto.ErrCodeBadRequest, env.Error.Code)

	code, env = api.do(http.MethodGet, "/checkout/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, dto.ErrCodeNotFound, env.Error.Code)

	code, env = api.do(http.MethodPost, "/checkout", gin.H{"items": []gin.H{}})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, dto.ErrCodeValidation, env.Error.Code)
	require.NotEmpty(t, env.Error.Details)
	assert.Equal(t, "items", env.Error.Details[0].Field)

	code, env = api.do(http.MethodGet, "/orders/PS-20261019-9999", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, env = api.do(http.MethodGet, "/orders?customerId=nope", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, dto.ErrCodeBadRequest, env.Error.Code)

	code, env = api.do(http.MethodPost, "/checkout", gin.H{
		"items": []gin.H{{"productId": uuid.New(), "name": "Spark plug", "unitPrice": "8", "quantity": 4, "unitWeight": "0.1"}},
	})
	require.Equal(t, http.StatusCreated, code)
	id := decode[checkoutapp.SessionResponse](t, env).ID

	code, env = api.do(http.MethodPost, "/checkout/"+id.String()+"/back", gin.H{"stage": "done"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, dto.ErrCodeInvalidInput, env.Error.Code)

	code, _ = api.do(http.MethodDelete, "/checkout/"+id.String(), nil)
	assert.Equal(t, http.StatusNoContent, code)
	code, _ = api.do(http.MethodGet, "/checkout/"+id.String(), nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestAPI_Admin(t *testing.T) {
	api := newTestAPI(t, nil)

	code, env := api.do(http.MethodGet, "/admin/shipping/zones", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, dto.ErrCodeTokenInvalid, env.Error.Code)

	code, env = api.do(http.MethodPost, "/admin/auth/token", gin.H{"username": "admin", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, dto.ErrCodeUnauthorized, env.Error.Code)

	code, env = api.do(http.MethodPost, "/admin/auth/token", gin.H{"username": "admin", "password": testAdminPassword})
	require.Equal(t, http.StatusOK, code)
	token := decode[auth.Token](t, env)
	require.NotEmpty(t, token.AccessToken)
	api.token = token.AccessToken

	code, env = api.do(http.MethodGet, "/admin/shipping/zones", nil)
	require.Equal(t, http.StatusOK, code)
	zones := decode[[]shippingapp.ZoneResponse](t, env)
	require.Len(t, zones, 4)
	assert.True(t, zones[3].CatchAll)

	code, env = api.do(http.MethodGet, "/admin/shipping/rates?zoneId=zone-1&method=standard", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]shippingapp.RateResponse](t, env), 3)

	code, _ = api.do(http.MethodGet, "/admin/shipping/rates?zoneId=zone-9", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, env = api.do(http.MethodGet, "/admin/reports/shipping", nil)
	require.Equal(t, http.StatusOK, code)
	report := decode[reportapp.ShippingReportResponse](t, env)
	assert.Zero(t, report.TotalOrders)

	code, _ = api.do(http.MethodGet, "/admin/reports/shipping?from=19-10-2026", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = api.do(http.MethodPost, "/admin/auth/logout", nil)
	assert.Equal(t, http.StatusNoContent, code)

	code, env = api.do(http.MethodGet, "/admin/shipping/zones", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, dto.ErrCodeTokenInvalid, env.Error.Code)
}

func TestAPI_ValidateTables(t *testing.T) {
	api := newTestAPI(t, nil)
	code, env := api.do(http.MethodPost, "/admin/auth/token", gin.H{"username": "admin", "password": testAdminPassword})
	require.Equal(t, http.StatusOK, code)
	token := decode[auth.Token](t, env).AccessToken

	post := func(contentType string, body []byte) (int, envelope) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/shipping/tables/validate", bytes.NewReader(body))
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		api.engine.ServeHTTP(w, req)
		var env envelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		return w.Code, env
	}

	valid, err := os.ReadFile("../../../domain/shipping/testdata/tables.yaml")
	require.NoError(t, err)
	code, env = post("application/x-yaml", valid)
	require.Equal(t, http.StatusOK, code, "%+v", env.Error)
	result := decode[shippingapp.ValidateTablesResponse](t, env)
	assert.True(t, result.Valid)
	assert.Equal(t, 2, result.Zones)

	gap, err := os.ReadFile("../../../domain/shipping/testdata/gap.yaml")
	require.NoError(t, err)
	code, env = post("application/yaml", gap)
	require.Equal(t, http.StatusOK, code, "%+v", env.Error)
	result = decode[shippingapp.ValidateTablesResponse](t, env)
	assert.False(t, result.Valid)
	assert.NotEmpty(t, result.Violations)

	doc, err := json.Marshal(shipping.DefaultTables().Document())
	require.NoError(t, err)
	code, env = post("application/json", doc)
	require.Equal(t, http.StatusOK, code, "%+v", env.Error)
	assert.True(t, decode[shippingapp.ValidateTablesResponse](t, env).Valid)

	code, env = post("application/json", []byte(`{"methods":[],"zones":[]}`))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, dto.ErrCodeValidation, env.Error.Code)
}

func TestAPI_RateLimits(t *testing.T) {
	limiter := middleware.NewRateLimiter(2, time.Minute)
	t.Cleanup(limiter.Stop)
	api := newTestAPI(t, func(g *Guards) {
		g.LoginLimit = middleware.RateLimit(limiter)
	})

	creds := gin.H{"username": "admin", "password": "wrong-password"}
	for i := 0; i < 2; i++ {
		code, _ := api.do(http.MethodPost, "/admin/auth/token", creds)
		assert.Equal(t, http.StatusUnauthorized, code)
	}
	code, env := api.do(http.MethodPost, "/admin/auth/token", creds)
	assert.Equal(t, http.StatusTooManyRequests, code)
	assert.Equal(t, dto.ErrCodeRateLimited, env.Error.Code)

	code, _ = api.do(http.MethodGet, "/shipping/methods", nil)
	assert.Equal(t, http.StatusOK, code)
}
