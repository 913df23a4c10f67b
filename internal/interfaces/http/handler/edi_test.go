package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	ediapp "github.com/tradelink/backend/internal/application/edi"
	"github.com/tradelink/backend/internal/domain/catalog"
	"github.com/tradelink/backend/internal/domain/edi"
	"github.com/tradelink/backend/internal/domain/edifact"
	"github.com/tradelink/backend/internal/domain/shared"
	"github.com/tradelink/backend/internal/interfaces/http/middleware"
)

// MockInterchangeRepository is a mock implementation of edi.InterchangeRepository
type MockInterchangeRepository struct {
	mock.Mock
}

func (m *MockInterchangeRepository) FindByID(ctx context.Context, id uuid.UUID) (*edi.Interchange, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*edi.Interchange), args.Error(1)
}

func (m *MockInterchangeRepository) FindByMessageRef(ctx context.Context, messageRef string) (*edi.Interchange, error) {
	args := m.Called(ctx, messageRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*edi.Interchange), args.Error(1)
}

func (m *MockInterchangeRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]edi.Interchange, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]edi.Interchange), args.Error(1)
}

func (m *MockInterchangeRepository) FindPending(ctx context.Context, limit int) ([]edi.Interchange, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]edi.Interchange), args.Error(1)
}

func (m *MockInterchangeRepository) FindByStatus(ctx context.Context, status edi.InterchangeStatus, filter shared.Filter) ([]edi.Interchange, error) {
	args := m.Called(ctx, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]edi.Interchange), args.Error(1)
}

func (m *MockInterchangeRepository) FindAll(ctx context.Context, filter shared.Filter) ([]edi.Interchange, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]edi.Interchange), args.Error(1)
}

func (m *MockInterchangeRepository) Save(ctx context.Context, interchange *edi.Interchange) error {
	args := m.Called(ctx, interchange)
	return args.Error(0)
}

func (m *MockInterchangeRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInterchangeRepository) CountByStatus(ctx context.Context, status edi.InterchangeStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInterchangeRepository) ExistsByMessageRef(ctx context.Context, messageRef string) (bool, error) {
	args := m.Called(ctx, messageRef)
	return args.Bool(0), args.Error(1)
}

// MockInterchangePublisher is a mock implementation of edi.InterchangePublisher
type MockInterchangePublisher struct {
	mock.Mock
}

func (m *MockInterchangePublisher) Publish(ctx context.Context, interchange *edi.Interchange, payload string) error {
	args := m.Called(ctx, interchange, payload)
	return args.Error(0)
}

// MockInterchangeArchive is a mock implementation of edi.InterchangeArchive
type MockInterchangeArchive struct {
	mock.Mock
}

func (m *MockInterchangeArchive) Store(ctx context.Context, interchange *edi.Interchange, payload string) (string, error) {
	args := m.Called(ctx, interchange, payload)
	return args.String(0), args.Error(1)
}

func (m *MockInterchangeArchive) Retrieve(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

// MockIdempotencyStore is a mock implementation of shared.IdempotencyStore
type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// Test helpers

const (
	ediTestBuyerParty  = "4399902000007"
	ediTestSellerParty = "7301234000009"
)

type ediTestFixture struct {
	orders       *MockPurchaseOrderRepository
	partners     *MockTradingPartnerRepository
	products     *MockProductRepository
	interchanges *MockInterchangeRepository
	publisher    *MockInterchangePublisher
	archive      *MockInterchangeArchive
	dedup        *MockIdempotencyStore
	handler      *EDIHandler
}

func setupEDITestRouter(opts ...func(*ediapp.ExchangeServiceConfig)) (*gin.Engine, *ediTestFixture) {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()

	f := &ediTestFixture{
		orders:       new(MockPurchaseOrderRepository),
		partners:     new(MockTradingPartnerRepository),
		products:     new(MockProductRepository),
		interchanges: new(MockInterchangeRepository),
		publisher:    new(MockInterchangePublisher),
		archive:      new(MockInterchangeArchive),
		dedup:        new(MockIdempotencyStore),
	}
	config := ediapp.ExchangeServiceConfig{
		OrderRepo:       f.orders,
		PartnerRepo:     f.partners,
		ProductRepo:     f.products,
		InterchangeRepo: f.interchanges,
		Publisher:       f.publisher,
		Archive:         f.archive,
		Idempotency:     f.dedup,
	}
	for _, opt := range opts {
		opt(&config)
	}
	f.handler = NewEDIHandler(ediapp.NewExchangeService(config))

	return gin.New(), f
}

// encodeInboundPayload renders a wire message through the encoder so the
// fixture text always matches the grammar.
func encodeInboundPayload(t *testing.T, ref string) string {
	t.Helper()
	doc := edifact.Order{
		Number:    "ORD-IN-2026-00077",
		BuyerID:   ediTestBuyerParty,
		SellerID:  ediTestSellerParty,
		OrderDate: time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC),
		Items: []edifact.OrderItem{
			{LineNumber: 1, ProductCode: "SKU-1001", Quantity: 10, UnitPrice: decimal.NewFromFloat(24.90)},
		},
	}
	encoder := edifact.NewEncoder(edifact.WithReferenceGenerator(func() string { return ref }))
	message, err := encoder.Encode(doc)
	if err != nil {
		t.Fatalf("encode fixture payload: %v", err)
	}
	return message.String()
}

func postJSON(router *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// Tests

func TestEDIHandler_ValidateMessage(t *testing.T) {
	t.Run("well-formed message validates clean", func(t *testing.T) {
		router, f := setupEDITestRouter()
		router.POST("/edi/validate", f.handler.ValidateMessage)

		payload := encodeInboundPayload(t, "REF00001")

		w := postJSON(router, "/edi/validate", ediapp.ValidateMessageRequest{Payload: payload})

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		data := response["data"].(map[string]interface{})
		assert.True(t, data["valid"].(bool))
	})

	t.Run("malformed message reports findings with 200", func(t *testing.T) {
		router, f := setupEDITestRouter()
		router.POST("/edi/validate", f.handler.ValidateMessage)

		w := postJSON(router, "/edi/validate", ediapp.ValidateMessageRequest{Payload: "this is not EDIFACT"})

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		data := response["data"].(map[string]interface{})
		assert.False(t, data["valid"].(bool))
		assert.NotEmpty(t, data["errors"])
	})

	t.Run("missing payload field is a bad request", func(t *testing.T) {
		router, f := setupEDITestRouter()
		router.POST("/edi/validate", f.handler.ValidateMessage)

		w := postJSON(router, "/edi/validate", map[string]interface{}{})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestEDIHandler_ProcessInbound(t *testing.T) {
	t.Run("accepted message creates an order", func(t *testing.T) {
		router, f := setupEDITestRouter()
		router.POST("/edi/inbound", f.handler.ProcessInbound)

		buyer := createTestPartner("ACME", ediTestBuyerParty)
		seller := createTestPartner("NORDIC", ediTestSellerParty)
		product := createTestProduct("SKU-1001")
		payload := encodeInboundPayload(t, "REF00042")

		f.dedup.On("MarkProcessed", mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
		f.partners.On("FindByPartyID", mock.Anything, ediTestBuyerParty).Return(buyer, nil)
		f.partners.On("FindByPartyID", mock.Anything, ediTestSellerParty).Return(seller, nil)
		f.orders.On("ExistsByOrderNumber", mock.Anything, "ORD-IN-2026-00077").Return(false, nil)
		f.products.On("FindBySKUs", mock.Anything, []string{"SKU-1001"}).Return([]catalog.Product{*product}, nil)
		f.archive.On("Store", mock.Anything, mock.AnythingOfType("*edi.Interchange"), payload).
			Return("interchanges/inbound/REF00042.edi", nil)
		f.orders.On("Save", mock.Anything, mock.AnythingOfType("*trade.PurchaseOrder")).Return(nil)
		f.interchanges.On("Save", mock.Anything, mock.AnythingOfType("*edi.Interchange")).Return(nil)

		w := postJSON(router, "/edi/inbound", ediapp.ProcessInboundRequest{Payload: payload})

		assert.Equal(t, http.StatusCreated, w.Code)

		var response map[string]interface{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		data := response["data"].(map[string]interface{})
		assert.Equal(t, "REF00042", data["message_ref"])
		assert.Equal(t, "ORD-IN-2026-00077", data["order_number"])
		assert.Equal(t, float64(1), data["line_count"])

		f.orders.AssertExpectations(t)
		f.interchanges.AssertExpectations(t)
	})

	t.Run("replayed message reference returns 409", func(t *testing.T) {
		router, f := setupEDITestRouter()
		router.POST("/edi/inbound", f.handler.ProcessInbound)

		payload := encodeInboundPayload(t, "REF00042")
		f.dedup.On("MarkProcessed", mock.Anything, mock.Anything, mock.Anything).Return(false, nil)

		w := postJSON(router, "/edi/inbound", ediapp.ProcessInboundRequest{Payload: payload})

		assert.Equal(t, http.StatusConflict, w.Code)

		var response map[string]interface{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		errObj := response["error"].(map[string]interface{})
		assert.Equal(t, "DUPLICATE_MESSAGE", errObj["code"])
	})

	t.Run("unknown buyer is rejected with diagnostics", func(t *testing.T) {
		router, f := setupEDITestRouter()
		router.POST("/edi/inbound", f.handler.ProcessInbound)

		seller := createTestPartner("NORDIC", ediTestSellerParty)
		payload := encodeInboundPayload(t, "REF00043")

		f.dedup.On("MarkProcessed", mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
		f.partners.On("FindByPartyID", mock.Anything, ediTestBuyerParty).Return(nil, shared.ErrNotFound)
		f.partners.On("FindByPartyID", mock.Anything, ediTestSellerParty).Return(seller, nil)
		f.orders.On("ExistsByOrderNumber", mock.Anything, "ORD-IN-2026-00077").Return(false, nil)
		f.archive.On("Store", mock.Anything, mock.AnythingOfType("*edi.Interchange"), payload).
			Return("interchanges/inbound/REF00043.edi", nil)
		f.interchanges.On("Save", mock.Anything, mock.AnythingOfType("*edi.Interchange")).Return(nil)

		w := postJSON(router, "/edi/inbound", ediapp.ProcessInboundRequest{Payload: payload})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		var response map[string]interface{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		errObj := response["error"].(map[string]interface{})
		assert.Equal(t, "ERR_COMPLIANCE_FAILURE", errObj["code"])
		assert.Contains(t, errObj["message"], "not a registered trading partner")

		f.interchanges.AssertExpectations(t)
	})

	t.Run("structurally broken message returns 422", func(t *testing.T) {
		router, f := setupEDITestRouter()
		router.POST("/edi/inbound", f.handler.ProcessInbound)

		w := postJSON(router, "/edi/inbound", ediapp.ProcessInboundRequest{Payload: "UNB+rubbish"})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		var response map[string]interface{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		errObj := response["error"].(map[string]interface{})
		assert.Equal(t, "ERR_STRUCTURAL_VIOLATION", errObj["code"])
	})

	t.Run("oversized payload returns 413", func(t *testing.T) {
		router, f := setupEDITestRouter(func(config *ediapp.ExchangeServiceConfig) {
			config.MaxMessageSize = 64
		})
		router.POST("/edi/inbound", f.handler.ProcessInbound)

		payload := encodeInboundPayload(t, "REF00044")

		w := postJSON(router, "/edi/inbound", ediapp.ProcessInboundRequest{Payload: payload})

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

		var response map[string]interface{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		errObj := response["error"].(map[string]interface{})
		assert.Equal(t, "ERR_PAYLOAD_TOO_LARGE", errObj["code"])
	})
}

func TestEDIHandler_EncodeOrder(t *testing.T) {
	t.Run("should return 400 for malformed order ID", func(t *testing.T) {
		router, f := setupEDITestRouter()
		router.POST("/edi/orders/:id/encode", f.handler.EncodeOrder)

		req, _ := http.NewRequest(http.MethodPost, "/edi/orders/not-a-uuid/encode", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("compliance findings return 422", func(t *testing.T) {
		router, f := setupEDITestRouter()
		router.POST("/edi/orders/:id/encode", f.handler.EncodeOrder)

		buyer := createTestPartner("ACME", ediTestBuyerParty)
		seller := createTestPartner("NORDIC", ediTestSellerParty)
		_ = seller.Suspend()

		order := createTestOrder("ORD-2026-00042")
		order.BuyerPartnerID = buyer.ID
		order.SellerPartnerID = seller.ID
		product := createTestProduct("SKU-1001")
		_, _ = order.AddItem(product.ID, product.SKU, product.Name, 10, product.UnitPrice)
		_ = order.Confirm()

		f.orders.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		f.partners.On("FindByID", mock.Anything, buyer.ID).Return(buyer, nil)
		f.partners.On("FindByID", mock.Anything, seller.ID).Return(seller, nil)
		f.products.On("FindBySKUs", mock.Anything, []string{"SKU-1001"}).Return([]catalog.Product{*product}, nil)

		req, _ := http.NewRequest(http.MethodPost, "/edi/orders/"+order.ID.String()+"/encode", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		var response map[string]interface{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		errObj := response["error"].(map[string]interface{})
		assert.Equal(t, "ERR_COMPLIANCE_FAILURE", errObj["code"])
		f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("encodes and transmits a confirmed order", func(t *testing.T) {
		router, f := setupEDITestRouter()
		router.POST("/edi/orders/:id/encode", f.handler.EncodeOrder)

		buyer := createTestPartner("ACME", ediTestBuyerParty)
		seller := createTestPartner("NORDIC", ediTestSellerParty)

		order := createTestOrder("ORD-2026-00042")
		order.BuyerPartnerID = buyer.ID
		order.SellerPartnerID = seller.ID
		product := createTestProduct("SKU-1001")
		_, _ = order.AddItem(product.ID, product.SKU, product.Name, 10, product.UnitPrice)
		_ = order.Confirm()

		f.orders.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		f.partners.On("FindByID", mock.Anything, buyer.ID).Return(buyer, nil)
		f.partners.On("FindByID", mock.Anything, seller.ID).Return(seller, nil)
		f.products.On("FindBySKUs", mock.Anything, []string{"SKU-1001"}).Return([]catalog.Product{*product}, nil)
		f.archive.On("Store", mock.Anything, mock.AnythingOfType("*edi.Interchange"), mock.AnythingOfType("string")).
			Return("interchanges/outbound/test.edi", nil)
		f.interchanges.On("Save", mock.Anything, mock.AnythingOfType("*edi.Interchange")).Return(nil)
		f.publisher.On("Publish", mock.Anything, mock.AnythingOfType("*edi.Interchange"), mock.AnythingOfType("string")).Return(nil)
		f.orders.On("SaveWithLock", mock.Anything, order).Return(nil)

		req, _ := http.NewRequest(http.MethodPost, "/edi/orders/"+order.ID.String()+"/encode", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		data := response["data"].(map[string]interface{})
		assert.True(t, data["transmitted"].(bool))
		assert.NotEmpty(t, data["message_ref"])
		assert.Contains(t, data["payload"], "BGM+220+ORD-2026-00042+9'")

		f.publisher.AssertExpectations(t)
	})
}

func TestEDIHandler_Interchanges(t *testing.T) {
	t.Run("should list with default paging", func(t *testing.T) {
		router, f := setupEDITestRouter()
		router.GET("/edi/interchanges", f.handler.ListInterchanges)

		interchange, _ := edi.NewOutboundInterchange(uuid.New(), uuid.New(), uuid.New(), "REF00042", 512, 11)
		f.interchanges.On("FindAll", mock.Anything, mock.MatchedBy(func(filter shared.Filter) bool {
			return filter.Page == 1 && filter.PageSize == 20
		})).Return([]edi.Interchange{*interchange}, nil)
		f.interchanges.On("Count", mock.Anything, mock.Anything).Return(int64(1), nil)

		req, _ := http.NewRequest(http.MethodGet, "/edi/interchanges", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		f.interchanges.AssertExpectations(t)
	})

	t.Run("should reject an unknown direction filter", func(t *testing.T) {
		router, f := setupEDITestRouter()
		router.GET("/edi/interchanges", f.handler.ListInterchanges)

		req, _ := http.NewRequest(http.MethodGet, "/edi/interchanges?direction=SIDEWAYS", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("should get interchange by message reference", func(t *testing.T) {
		router, f := setupEDITestRouter()
		router.GET("/edi/interchanges/ref/:ref", f.handler.GetInterchangeByRef)

		interchange, _ := edi.NewOutboundInterchange(uuid.New(), uuid.New(), uuid.New(), "REF00042", 512, 11)
		f.interchanges.On("FindByMessageRef", mock.Anything, "REF00042").Return(interchange, nil)

		req, _ := http.NewRequest(http.MethodGet, "/edi/interchanges/ref/REF00042", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		data := response["data"].(map[string]interface{})
		assert.Equal(t, "REF00042", data["message_ref"])
	})

	t.Run("should serve the archived payload", func(t *testing.T) {
		router, f := setupEDITestRouter()
		router.GET("/edi/interchanges/:id/payload", f.handler.GetInterchangePayload)

		interchange, _ := edi.NewOutboundInterchange(uuid.New(), uuid.New(), uuid.New(), "REF00042", 512, 11)
		interchange.SetArchiveKey("interchanges/outbound/REF00042.edi")
		f.interchanges.On("FindByID", mock.Anything, interchange.ID).Return(interchange, nil)
		f.archive.On("Retrieve", mock.Anything, "interchanges/outbound/REF00042.edi").Return("UNB+UNOC:3+...", nil)

		req, _ := http.NewRequest(http.MethodGet, "/edi/interchanges/"+interchange.ID.String()+"/payload", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		data := response["data"].(map[string]interface{})
		assert.Equal(t, "REF00042", data["message_ref"])
		assert.Equal(t, "UNB+UNOC:3+...", data["payload"])
	})

	t.Run("unarchived interchange returns 422", func(t *testing.T) {
		router, f := setupEDITestRouter()
		router.GET("/edi/interchanges/:id/payload", f.handler.GetInterchangePayload)

		interchange, _ := edi.NewOutboundInterchange(uuid.New(), uuid.New(), uuid.New(), "REF00042", 512, 11)
		f.interchanges.On("FindByID", mock.Anything, interchange.ID).Return(interchange, nil)

		req, _ := http.NewRequest(http.MethodGet, "/edi/interchanges/"+interchange.ID.String()+"/payload", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		var response map[string]interface{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		errObj := response["error"].(map[string]interface{})
		assert.Equal(t, "NOT_ARCHIVED", errObj["code"])
	})
}

func TestEDIHandler_DispatchPending(t *testing.T) {
	t.Run("reports dispatched and failed counts", func(t *testing.T) {
		router, f := setupEDITestRouter()
		router.POST("/edi/dispatch", f.handler.DispatchPending)

		first, _ := edi.NewOutboundInterchange(uuid.New(), uuid.New(), uuid.New(), "REF00051", 512, 11)
		first.SetArchiveKey("interchanges/outbound/REF00051.edi")
		second, _ := edi.NewOutboundInterchange(uuid.New(), uuid.New(), uuid.New(), "REF00052", 512, 11)
		second.SetArchiveKey("interchanges/outbound/REF00052.edi")

		f.interchanges.On("FindPending", mock.Anything, 50).Return([]edi.Interchange{*first, *second}, nil)
		f.archive.On("Retrieve", mock.Anything, "interchanges/outbound/REF00051.edi").Return("UNB+ok", nil)
		f.archive.On("Retrieve", mock.Anything, "interchanges/outbound/REF00052.edi").Return("UNB+ok", nil)
		f.publisher.On("Publish", mock.Anything, mock.MatchedBy(func(i *edi.Interchange) bool {
			return i.MessageRef == "REF00051"
		}), mock.Anything).Return(nil)
		f.publisher.On("Publish", mock.Anything, mock.MatchedBy(func(i *edi.Interchange) bool {
			return i.MessageRef == "REF00052"
		}), mock.Anything).Return(errors.New("transport unavailable"))
		f.interchanges.On("Save", mock.Anything, mock.MatchedBy(func(i *edi.Interchange) bool {
			return i.MessageRef == "REF00051"
		})).Return(nil)

		req, _ := http.NewRequest(http.MethodPost, "/edi/dispatch", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		data := response["data"].(map[string]interface{})
		assert.Equal(t, float64(1), data["dispatched"])
		assert.Equal(t, float64(1), data["failed"])
	})

	t.Run("rejects a non-numeric limit", func(t *testing.T) {
		router, f := setupEDITestRouter()
		router.POST("/edi/dispatch", f.handler.DispatchPending)

		req, _ := http.NewRequest(http.MethodPost, "/edi/dispatch?limit=many", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
