package trade

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tradelink/backend/internal/domain/shared"
)

// Test helpers for PurchaseOrder
func createTestPurchaseOrder(t *testing.T) *PurchaseOrder {
	buyerID := uuid.New()
	sellerID := uuid.New()
	orderDate := time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC)
	order, err := NewPurchaseOrder("ORD-2023-001", buyerID, sellerID, orderDate)
	require.NoError(t, err)
	return order
}

func addTestItem(t *testing.T, order *PurchaseOrder, productCode string, quantity int, price string) *PurchaseOrderItem {
	productID := uuid.New()
	item, err := order.AddItem(productID, productCode, "Test Product", quantity, decimal.RequireFromString(price))
	require.NoError(t, err)
	return item
}

func testReceivedLines() []ReceivedLine {
	return []ReceivedLine{
		{LineNumber: 1, ProductCode: "SKU-1001", Quantity: 10, UnitPrice: decimal.RequireFromString("49.99")},
		{LineNumber: 2, ProductCode: "SKU-1002", Quantity: 5, UnitPrice: decimal.RequireFromString("12.50")},
	}
}

// ============================================
// PurchaseOrderStatus Tests
// ============================================

func TestPurchaseOrderStatus_IsValid(t *testing.T) {
	tests := []struct {
		status  PurchaseOrderStatus
		isValid bool
	}{
		{PurchaseOrderStatusDraft, true},
		{PurchaseOrderStatusConfirmed, true},
		{PurchaseOrderStatusTransmitted, true},
		{PurchaseOrderStatusAcknowledged, true},
		{PurchaseOrderStatusCancelled, true},
		{PurchaseOrderStatus("INVALID"), false},
		{PurchaseOrderStatus(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.status.IsValid())
		})
	}
}

func TestPurchaseOrderStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from     PurchaseOrderStatus
		to       PurchaseOrderStatus
		canTrans bool
	}{
		{PurchaseOrderStatusDraft, PurchaseOrderStatusConfirmed, true},
		{PurchaseOrderStatusDraft, PurchaseOrderStatusCancelled, true},
		{PurchaseOrderStatusDraft, PurchaseOrderStatusTransmitted, false},
		{PurchaseOrderStatusDraft, PurchaseOrderStatusAcknowledged, false},
		{PurchaseOrderStatusConfirmed, PurchaseOrderStatusTransmitted, true},
		{PurchaseOrderStatusConfirmed, PurchaseOrderStatusCancelled, true},
		{PurchaseOrderStatusConfirmed, PurchaseOrderStatusDraft, false},
		{PurchaseOrderStatusConfirmed, PurchaseOrderStatusAcknowledged, false},
		{PurchaseOrderStatusTransmitted, PurchaseOrderStatusAcknowledged, true},
		{PurchaseOrderStatusTransmitted, PurchaseOrderStatusCancelled, false},
		{PurchaseOrderStatusTransmitted, PurchaseOrderStatusDraft, false},
		{PurchaseOrderStatusAcknowledged, PurchaseOrderStatusCancelled, false},
		{PurchaseOrderStatusAcknowledged, PurchaseOrderStatusDraft, false},
		{PurchaseOrderStatusCancelled, PurchaseOrderStatusDraft, false},
		{PurchaseOrderStatusCancelled, PurchaseOrderStatusConfirmed, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.canTrans, tt.from.CanTransitionTo(tt.to))
		})
	}
}

// ============================================
// PurchaseOrder Creation Tests
// ============================================

func TestNewPurchaseOrder(t *testing.T) {
	buyerID := uuid.New()
	sellerID := uuid.New()
	orderDate := time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC)

	order, err := NewPurchaseOrder("ORD-2023-001", buyerID, sellerID, orderDate)

	require.NoError(t, err)
	assert.Equal(t, "ORD-2023-001", order.OrderNumber)
	assert.Equal(t, OrderDirectionOutbound, order.Direction)
	assert.Equal(t, buyerID, order.BuyerPartnerID)
	assert.Equal(t, sellerID, order.SellerPartnerID)
	assert.Equal(t, orderDate, order.OrderDate)
	assert.Equal(t, PurchaseOrderStatusDraft, order.Status)
	assert.True(t, order.TotalAmount.IsZero())
	assert.Empty(t, order.Items)
	assert.NotEqual(t, uuid.Nil, order.ID)

	events := order.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeOrderCreated, events[0].EventType())
}

func TestNewPurchaseOrder_Validation(t *testing.T) {
	buyerID := uuid.New()
	sellerID := uuid.New()
	orderDate := time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		orderNumber string
		buyerID     uuid.UUID
		sellerID    uuid.UUID
		orderDate   time.Time
		wantCode    string
	}{
		{"empty order number", "", buyerID, sellerID, orderDate, "INVALID_ORDER_NUMBER"},
		{"order number too long", strings.Repeat("X", 36), buyerID, sellerID, orderDate, "INVALID_ORDER_NUMBER"},
		{"nil buyer", "ORD-1", uuid.Nil, sellerID, orderDate, "INVALID_BUYER"},
		{"nil seller", "ORD-1", buyerID, uuid.Nil, orderDate, "INVALID_SELLER"},
		{"zero order date", "ORD-1", buyerID, sellerID, time.Time{}, "INVALID_ORDER_DATE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPurchaseOrder(tt.orderNumber, tt.buyerID, tt.sellerID, tt.orderDate)
			require.Error(t, err)
			var domainErr *shared.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, tt.wantCode, domainErr.Code)
		})
	}
}

func TestNewPurchaseOrder_OrderNumberAtLimit(t *testing.T) {
	order, err := NewPurchaseOrder(strings.Repeat("X", 35), uuid.New(), uuid.New(), time.Now())
	require.NoError(t, err)
	assert.Len(t, order.OrderNumber, 35)
}

// ============================================
// Received PurchaseOrder Tests
// ============================================

func TestNewReceivedPurchaseOrder(t *testing.T) {
	buyerID := uuid.New()
	sellerID := uuid.New()
	orderDate := time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC)

	order, err := NewReceivedPurchaseOrder("ORD-IN-001", buyerID, sellerID, orderDate, "1a2b3c4d", testReceivedLines())

	require.NoError(t, err)
	assert.Equal(t, OrderDirectionInbound, order.Direction)
	assert.Equal(t, PurchaseOrderStatusConfirmed, order.Status)
	assert.Equal(t, "1a2b3c4d", order.InterchangeRef)
	assert.NotNil(t, order.ConfirmedAt)
	assert.True(t, order.IsInbound())
	require.Len(t, order.Items, 2)
	assert.Equal(t, 1, order.Items[0].LineNumber)
	assert.Equal(t, "SKU-1001", order.Items[0].ProductCode)
	assert.Nil(t, order.Items[0].ProductID)

	// 10 * 49.99 + 5 * 12.50 = 499.90 + 62.50 = 562.40
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("562.40")),
		"expected 562.40, got %s", order.TotalAmount)

	events := order.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeOrderReceived, events[0].EventType())
}

func TestNewReceivedPurchaseOrder_NoLines(t *testing.T) {
	_, err := NewReceivedPurchaseOrder("ORD-IN-002", uuid.New(), uuid.New(), time.Now(), "ref1", nil)
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NO_ITEMS", domainErr.Code)
}

func TestNewReceivedPurchaseOrder_DuplicateLineNumber(t *testing.T) {
	lines := []ReceivedLine{
		{LineNumber: 1, ProductCode: "SKU-1", Quantity: 1, UnitPrice: decimal.New(1, 0)},
		{LineNumber: 1, ProductCode: "SKU-2", Quantity: 1, UnitPrice: decimal.New(1, 0)},
	}
	_, err := NewReceivedPurchaseOrder("ORD-IN-003", uuid.New(), uuid.New(), time.Now(), "ref1", lines)
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "DUPLICATE_LINE", domainErr.Code)
}

func TestNewReceivedPurchaseOrder_CannotAddItems(t *testing.T) {
	order, err := NewReceivedPurchaseOrder("ORD-IN-004", uuid.New(), uuid.New(), time.Now(), "ref1", testReceivedLines())
	require.NoError(t, err)

	_, err = order.AddItem(uuid.New(), "SKU-9", "Extra", 1, decimal.New(1, 0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "received order")
}

// ============================================
// PurchaseOrder Line Tests
// ============================================

func TestPurchaseOrder_AddItem(t *testing.T) {
	order := createTestPurchaseOrder(t)

	item := addTestItem(t, order, "SKU-1001", 10, "49.99")

	assert.Equal(t, 1, item.LineNumber)
	assert.Equal(t, "SKU-1001", item.ProductCode)
	assert.Equal(t, 10, item.Quantity)
	assert.True(t, item.Amount.Equal(decimal.RequireFromString("499.90")))
	assert.Len(t, order.Items, 1)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("499.90")))
}

func TestPurchaseOrder_AddItem_SequentialLineNumbers(t *testing.T) {
	order := createTestPurchaseOrder(t)

	first := addTestItem(t, order, "SKU-1", 1, "10")
	second := addTestItem(t, order, "SKU-2", 2, "20")
	third := addTestItem(t, order, "SKU-3", 3, "30")

	assert.Equal(t, 1, first.LineNumber)
	assert.Equal(t, 2, second.LineNumber)
	assert.Equal(t, 3, third.LineNumber)
}

func TestPurchaseOrder_AddItem_LineNumberAfterRemoval(t *testing.T) {
	order := createTestPurchaseOrder(t)

	addTestItem(t, order, "SKU-1", 1, "10")
	second := addTestItem(t, order, "SKU-2", 2, "20")

	require.NoError(t, order.RemoveItem(second.ID))

	// Line numbers keep increasing so the wire never reuses one
	third := addTestItem(t, order, "SKU-3", 3, "30")
	assert.Equal(t, 2, third.LineNumber)
}

func TestPurchaseOrder_AddItem_Validation(t *testing.T) {
	order := createTestPurchaseOrder(t)
	productID := uuid.New()

	tests := []struct {
		name      string
		productID uuid.UUID
		code      string
		quantity  int
		price     decimal.Decimal
		wantCode  string
	}{
		{"nil product", uuid.Nil, "SKU-1", 1, decimal.New(1, 0), "INVALID_PRODUCT"},
		{"empty code", productID, "", 1, decimal.New(1, 0), "INVALID_PRODUCT_CODE"},
		{"zero quantity", productID, "SKU-1", 0, decimal.New(1, 0), "INVALID_QUANTITY"},
		{"negative quantity", productID, "SKU-1", -5, decimal.New(1, 0), "INVALID_QUANTITY"},
		{"negative price", productID, "SKU-1", 1, decimal.New(-1, 0), "INVALID_PRICE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := order.AddItem(tt.productID, tt.code, "Product", tt.quantity, tt.price)
			require.Error(t, err)
			var domainErr *shared.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, tt.wantCode, domainErr.Code)
		})
	}
}

func TestPurchaseOrder_AddItem_DuplicateProduct(t *testing.T) {
	order := createTestPurchaseOrder(t)
	productID := uuid.New()

	_, err := order.AddItem(productID, "SKU-1", "Product", 1, decimal.New(1, 0))
	require.NoError(t, err)

	_, err = order.AddItem(productID, "SKU-1", "Product", 2, decimal.New(1, 0))
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "DUPLICATE_PRODUCT", domainErr.Code)
}

func TestPurchaseOrder_AddItem_NotDraft(t *testing.T) {
	order := createTestPurchaseOrder(t)
	addTestItem(t, order, "SKU-1", 1, "10")
	require.NoError(t, order.Confirm())

	_, err := order.AddItem(uuid.New(), "SKU-2", "Product", 1, decimal.New(1, 0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-draft")
}

func TestPurchaseOrder_UpdateItemQuantity(t *testing.T) {
	order := createTestPurchaseOrder(t)
	item := addTestItem(t, order, "SKU-1", 10, "49.99")

	require.NoError(t, order.UpdateItemQuantity(item.ID, 20))

	updated := order.GetItem(item.ID)
	require.NotNil(t, updated)
	assert.Equal(t, 20, updated.Quantity)
	assert.True(t, updated.Amount.Equal(decimal.RequireFromString("999.80")))
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("999.80")))
}

func TestPurchaseOrder_UpdateItemQuantity_Errors(t *testing.T) {
	order := createTestPurchaseOrder(t)
	item := addTestItem(t, order, "SKU-1", 10, "49.99")

	err := order.UpdateItemQuantity(uuid.New(), 5)
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ITEM_NOT_FOUND", domainErr.Code)

	err = order.UpdateItemQuantity(item.ID, 0)
	require.Error(t, err)
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_QUANTITY", domainErr.Code)
}

func TestPurchaseOrder_RemoveItem(t *testing.T) {
	order := createTestPurchaseOrder(t)
	first := addTestItem(t, order, "SKU-1", 1, "10")
	addTestItem(t, order, "SKU-2", 2, "20")

	require.NoError(t, order.RemoveItem(first.ID))

	assert.Len(t, order.Items, 1)
	assert.Nil(t, order.GetItem(first.ID))
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("40")))
}

func TestPurchaseOrder_RemoveItem_NotFound(t *testing.T) {
	order := createTestPurchaseOrder(t)

	err := order.RemoveItem(uuid.New())
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ITEM_NOT_FOUND", domainErr.Code)
}

// ============================================
// Lifecycle Tests
// ============================================

func TestPurchaseOrder_Confirm(t *testing.T) {
	order := createTestPurchaseOrder(t)
	addTestItem(t, order, "SKU-1", 10, "49.99")
	order.ClearDomainEvents()

	require.NoError(t, order.Confirm())

	assert.Equal(t, PurchaseOrderStatusConfirmed, order.Status)
	assert.NotNil(t, order.ConfirmedAt)
	assert.True(t, order.IsConfirmed())

	events := order.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeOrderConfirmed, events[0].EventType())
}

func TestPurchaseOrder_Confirm_WithoutItems(t *testing.T) {
	order := createTestPurchaseOrder(t)

	err := order.Confirm()
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NO_ITEMS", domainErr.Code)
	assert.Equal(t, PurchaseOrderStatusDraft, order.Status)
}

func TestPurchaseOrder_Confirm_AlreadyConfirmed(t *testing.T) {
	order := createTestPurchaseOrder(t)
	addTestItem(t, order, "SKU-1", 1, "10")
	require.NoError(t, order.Confirm())

	err := order.Confirm()
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
}

func TestPurchaseOrder_MarkTransmitted(t *testing.T) {
	order := createTestPurchaseOrder(t)
	addTestItem(t, order, "SKU-1", 10, "49.99")
	require.NoError(t, order.Confirm())
	order.ClearDomainEvents()

	require.NoError(t, order.MarkTransmitted("1a2b3c4d"))

	assert.Equal(t, PurchaseOrderStatusTransmitted, order.Status)
	assert.Equal(t, "1a2b3c4d", order.InterchangeRef)
	assert.NotNil(t, order.TransmittedAt)
	assert.True(t, order.IsTransmitted())

	events := order.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeOrderTransmitted, events[0].EventType())

	transmitted, ok := events[0].(*PurchaseOrderTransmittedEvent)
	require.True(t, ok)
	assert.Equal(t, "1a2b3c4d", transmitted.InterchangeRef)
}

func TestPurchaseOrder_MarkTransmitted_Errors(t *testing.T) {
	t.Run("draft order", func(t *testing.T) {
		order := createTestPurchaseOrder(t)
		addTestItem(t, order, "SKU-1", 1, "10")

		err := order.MarkTransmitted("ref1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DRAFT")
	})

	t.Run("empty reference", func(t *testing.T) {
		order := createTestPurchaseOrder(t)
		addTestItem(t, order, "SKU-1", 1, "10")
		require.NoError(t, order.Confirm())

		err := order.MarkTransmitted("")
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_REFERENCE", domainErr.Code)
	})

	t.Run("inbound order", func(t *testing.T) {
		order, err := NewReceivedPurchaseOrder("ORD-IN-005", uuid.New(), uuid.New(), time.Now(), "ref1", testReceivedLines())
		require.NoError(t, err)

		err = order.MarkTransmitted("ref2")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "outbound")
	})
}

func TestPurchaseOrder_Acknowledge(t *testing.T) {
	order := createTestPurchaseOrder(t)
	addTestItem(t, order, "SKU-1", 10, "49.99")
	require.NoError(t, order.Confirm())
	require.NoError(t, order.MarkTransmitted("1a2b3c4d"))
	order.ClearDomainEvents()

	require.NoError(t, order.Acknowledge())

	assert.Equal(t, PurchaseOrderStatusAcknowledged, order.Status)
	assert.NotNil(t, order.AcknowledgedAt)
	assert.True(t, order.IsAcknowledged())
	assert.True(t, order.IsTerminal())

	events := order.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeOrderAcknowledged, events[0].EventType())
}

func TestPurchaseOrder_Acknowledge_NotTransmitted(t *testing.T) {
	order := createTestPurchaseOrder(t)
	addTestItem(t, order, "SKU-1", 1, "10")
	require.NoError(t, order.Confirm())

	err := order.Acknowledge()
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
}

func TestPurchaseOrder_Cancel(t *testing.T) {
	t.Run("from draft", func(t *testing.T) {
		order := createTestPurchaseOrder(t)
		order.ClearDomainEvents()

		require.NoError(t, order.Cancel("ordered by mistake"))

		assert.Equal(t, PurchaseOrderStatusCancelled, order.Status)
		assert.Equal(t, "ordered by mistake", order.CancelReason)
		assert.NotNil(t, order.CancelledAt)
		assert.True(t, order.IsCancelled())
		assert.True(t, order.IsTerminal())

		events := order.GetDomainEvents()
		require.Len(t, events, 1)
		cancelled, ok := events[0].(*PurchaseOrderCancelledEvent)
		require.True(t, ok)
		assert.False(t, cancelled.WasConfirmed)
	})

	t.Run("from confirmed", func(t *testing.T) {
		order := createTestPurchaseOrder(t)
		addTestItem(t, order, "SKU-1", 1, "10")
		require.NoError(t, order.Confirm())
		order.ClearDomainEvents()

		require.NoError(t, order.Cancel("partner closed"))

		events := order.GetDomainEvents()
		require.Len(t, events, 1)
		cancelled, ok := events[0].(*PurchaseOrderCancelledEvent)
		require.True(t, ok)
		assert.True(t, cancelled.WasConfirmed)
	})

	t.Run("after transmission", func(t *testing.T) {
		order := createTestPurchaseOrder(t)
		addTestItem(t, order, "SKU-1", 1, "10")
		require.NoError(t, order.Confirm())
		require.NoError(t, order.MarkTransmitted("ref1"))

		err := order.Cancel("too late")
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})

	t.Run("without reason", func(t *testing.T) {
		order := createTestPurchaseOrder(t)

		err := order.Cancel("")
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_REASON", domainErr.Code)
	})
}

func TestPurchaseOrder_FullLifecycle(t *testing.T) {
	order := createTestPurchaseOrder(t)
	assert.True(t, order.CanModify())

	addTestItem(t, order, "SKU-1001", 10, "49.99")
	addTestItem(t, order, "SKU-1002", 5, "12.50")

	require.NoError(t, order.Confirm())
	assert.False(t, order.CanModify())

	require.NoError(t, order.MarkTransmitted("1a2b3c4d"))
	require.NoError(t, order.Acknowledge())

	assert.True(t, order.IsTerminal())

	eventTypes := make([]string, 0)
	for _, event := range order.GetDomainEvents() {
		eventTypes = append(eventTypes, event.EventType())
	}
	assert.Equal(t, []string{
		EventTypeOrderCreated,
		EventTypeOrderConfirmed,
		EventTypeOrderTransmitted,
		EventTypeOrderAcknowledged,
	}, eventTypes)
}

// ============================================
// Document Mapping Tests
// ============================================

func TestPurchaseOrder_AsDocument(t *testing.T) {
	order := createTestPurchaseOrder(t)
	addTestItem(t, order, "SKU-1001", 10, "49.99")
	addTestItem(t, order, "SKU-1002", 5, "12.50")

	doc := order.AsDocument("5412345000176", "4098765000104")

	assert.Equal(t, order.OrderNumber, doc.Number)
	assert.Equal(t, "5412345000176", doc.BuyerID)
	assert.Equal(t, "4098765000104", doc.SellerID)
	assert.Equal(t, order.OrderDate, doc.OrderDate)
	require.Len(t, doc.Items, 2)
	assert.Equal(t, 1, doc.Items[0].LineNumber)
	assert.Equal(t, "SKU-1001", doc.Items[0].ProductCode)
	assert.Equal(t, 10, doc.Items[0].Quantity)
	assert.True(t, doc.Items[0].UnitPrice.Equal(decimal.RequireFromString("49.99")))
}

// ============================================
// Helper Method Tests
// ============================================

func TestPurchaseOrder_GetItemByCode(t *testing.T) {
	order := createTestPurchaseOrder(t)
	addTestItem(t, order, "SKU-1001", 10, "49.99")

	found := order.GetItemByCode("SKU-1001")
	require.NotNil(t, found)
	assert.Equal(t, "SKU-1001", found.ProductCode)

	assert.Nil(t, order.GetItemByCode("SKU-MISSING"))
}

func TestPurchaseOrder_ItemCount(t *testing.T) {
	order := createTestPurchaseOrder(t)
	assert.Equal(t, 0, order.ItemCount())

	addTestItem(t, order, "SKU-1", 1, "10")
	addTestItem(t, order, "SKU-2", 2, "20")
	assert.Equal(t, 2, order.ItemCount())
}

func TestPurchaseOrder_VersionIncrements(t *testing.T) {
	order := createTestPurchaseOrder(t)
	initial := order.Version

	addTestItem(t, order, "SKU-1", 1, "10")
	require.NoError(t, order.Confirm())
	require.NoError(t, order.MarkTransmitted("ref1"))

	assert.Equal(t, initial+3, order.Version)
}
