package partner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tradelink/backend/internal/domain/shared"
	"github.com/tradelink/backend/internal/domain/shared/valueobject"
)

func createTestPartner(t *testing.T) *TradingPartner {
	partner, err := NewTradingPartner("ACME", "ACME Industrial GmbH", "5412345000176", valueobject.EUR)
	require.NoError(t, err)
	return partner
}

func TestNewTradingPartner(t *testing.T) {
	t.Run("creates partner with valid inputs", func(t *testing.T) {
		partner, err := NewTradingPartner("acme", "ACME Industrial GmbH", "5412345000176", valueobject.EUR)
		require.NoError(t, err)
		require.NotNil(t, partner)

		assert.Equal(t, "ACME", partner.Code)
		assert.Equal(t, "ACME Industrial GmbH", partner.Name)
		assert.Equal(t, "5412345000176", partner.PartyID)
		assert.Equal(t, valueobject.EUR, partner.Currency)
		assert.Equal(t, PartnerStatusActive, partner.Status)
		assert.True(t, partner.CanTrade())

		events := partner.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypePartnerCreated, events[0].EventType())
	})

	t.Run("rejects invalid inputs", func(t *testing.T) {
		tests := []struct {
			name     string
			code     string
			partner  string
			partyID  string
			currency valueobject.Currency
			wantCode string
		}{
			{"empty code", "", "Partner", "12345", valueobject.EUR, "INVALID_CODE"},
			{"code with spaces", "AC ME", "Partner", "12345", valueobject.EUR, "INVALID_CODE"},
			{"empty name", "ACME", "", "12345", valueobject.EUR, "INVALID_NAME"},
			{"empty party id", "ACME", "Partner", "", valueobject.EUR, "INVALID_PARTY_ID"},
			{"party id too long", "ACME", "Partner", strings.Repeat("1", 36), valueobject.EUR, "INVALID_PARTY_ID"},
			{"unsupported currency", "ACME", "Partner", "12345", valueobject.Currency("XXX"), "INVALID_CURRENCY"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := NewTradingPartner(tt.code, tt.partner, tt.partyID, tt.currency)
				require.Error(t, err)
				var domainErr *shared.DomainError
				require.ErrorAs(t, err, &domainErr)
				assert.Equal(t, tt.wantCode, domainErr.Code)
			})
		}
	})

	t.Run("party id at wire limit", func(t *testing.T) {
		partner, err := NewTradingPartner("ACME", "Partner", strings.Repeat("1", 35), valueobject.EUR)
		require.NoError(t, err)
		assert.Len(t, partner.PartyID, 35)
	})
}

func TestTradingPartner_UpdatePartyID(t *testing.T) {
	partner := createTestPartner(t)
	partner.ClearDomainEvents()

	require.NoError(t, partner.UpdatePartyID("4098765000104"))

	assert.Equal(t, "4098765000104", partner.PartyID)

	events := partner.GetDomainEvents()
	require.Len(t, events, 1)
	changed, ok := events[0].(*TradingPartnerPartyIDChangedEvent)
	require.True(t, ok)
	assert.Equal(t, "5412345000176", changed.OldPartyID)
	assert.Equal(t, "4098765000104", changed.NewPartyID)
}

func TestTradingPartner_UpdateCurrency(t *testing.T) {
	partner := createTestPartner(t)

	require.NoError(t, partner.UpdateCurrency(valueobject.USD))
	assert.Equal(t, valueobject.USD, partner.Currency)

	err := partner.UpdateCurrency(valueobject.Currency("BTC"))
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_CURRENCY", domainErr.Code)
}

func TestTradingPartner_SetContact(t *testing.T) {
	partner := createTestPartner(t)

	require.NoError(t, partner.SetContact("Jan Vermeer", "jan@acme.example", "+49 30 1234567"))
	assert.Equal(t, "Jan Vermeer", partner.ContactName)
	assert.Equal(t, "jan@acme.example", partner.Email)

	err := partner.SetContact("Jan", "not-an-email", "")
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_EMAIL", domainErr.Code)

	err = partner.SetContact("Jan", "", "phone#bad")
	require.Error(t, err)
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_PHONE", domainErr.Code)
}

func TestTradingPartner_StatusTransitions(t *testing.T) {
	t.Run("suspend halts trading", func(t *testing.T) {
		partner := createTestPartner(t)

		require.NoError(t, partner.Suspend())
		assert.True(t, partner.IsSuspended())
		assert.False(t, partner.CanTrade())

		require.NoError(t, partner.Activate())
		assert.True(t, partner.CanTrade())
	})

	t.Run("deactivate halts trading", func(t *testing.T) {
		partner := createTestPartner(t)

		require.NoError(t, partner.Deactivate())
		assert.False(t, partner.IsActive())
		assert.False(t, partner.CanTrade())
	})

	t.Run("repeated transitions rejected", func(t *testing.T) {
		partner := createTestPartner(t)

		err := partner.Activate()
		require.Error(t, err)

		require.NoError(t, partner.Suspend())
		err = partner.Suspend()
		require.Error(t, err)
	})

	t.Run("status change event carries both statuses", func(t *testing.T) {
		partner := createTestPartner(t)
		partner.ClearDomainEvents()

		require.NoError(t, partner.Suspend())

		events := partner.GetDomainEvents()
		require.Len(t, events, 1)
		changed, ok := events[0].(*TradingPartnerStatusChangedEvent)
		require.True(t, ok)
		assert.Equal(t, PartnerStatusActive, changed.OldStatus)
		assert.Equal(t, PartnerStatusSuspended, changed.NewStatus)
	})
}
