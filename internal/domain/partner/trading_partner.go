package partner

import (
	"regexp"
	"strings"
	"time"

	"github.com/tradelink/backend/internal/domain/shared"
	"github.com/tradelink/backend/internal/domain/shared/valueobject"
)

// maxPartyIDLength matches the an..35 party identification element of the
// wire format.
const maxPartyIDLength = 35

// PartnerStatus represents the status of a trading partner
type PartnerStatus string

const (
	PartnerStatusActive   PartnerStatus = "active"
	PartnerStatusInactive PartnerStatus = "inactive"
	PartnerStatusSuspended PartnerStatus = "suspended" // Suspended, no document exchange
)

// TradingPartner represents a company we exchange electronic orders with.
// It is the aggregate root for partner-related operations. A partner can
// appear as buyer or seller on any order.
type TradingPartner struct {
	shared.BaseAggregateRoot
	Code string `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name string `gorm:"type:varchar(200);not null"`
	// PartyID is the identifier carried in the party segments of
	// transmitted documents, usually the partner's GLN.
	PartyID string `gorm:"type:varchar(35);not null;uniqueIndex"`
	// Currency is the settlement currency implied for amounts exchanged
	// with this partner; the wire format itself carries none.
	Currency    valueobject.Currency `gorm:"type:varchar(3);not null;default:'EUR'"`
	Status      PartnerStatus        `gorm:"type:varchar(20);not null;default:'active'"`
	ContactName string               `gorm:"type:varchar(100)"`
	Email       string               `gorm:"type:varchar(200);index"`
	Phone       string               `gorm:"type:varchar(50)"`
	Notes       string               `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (TradingPartner) TableName() string {
	return "trading_partners"
}

// NewTradingPartner creates a new trading partner
func NewTradingPartner(code, name, partyID string, currency valueobject.Currency) (*TradingPartner, error) {
	if err := validatePartnerCode(code); err != nil {
		return nil, err
	}
	if err := validatePartnerName(name); err != nil {
		return nil, err
	}
	if err := validatePartyID(partyID); err != nil {
		return nil, err
	}
	if !currency.IsValid() {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Unsupported settlement currency")
	}

	partner := &TradingPartner{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		PartyID:           partyID,
		Currency:          currency,
		Status:            PartnerStatusActive,
	}

	partner.AddDomainEvent(NewTradingPartnerCreatedEvent(partner))

	return partner, nil
}

// Update updates the partner's basic information
func (p *TradingPartner) Update(name string) error {
	if err := validatePartnerName(name); err != nil {
		return err
	}

	p.Name = name
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewTradingPartnerUpdatedEvent(p))

	return nil
}

// UpdatePartyID changes the partner's wire identifier
// Note: pending interchanges keep the identifier they were encoded with
func (p *TradingPartner) UpdatePartyID(partyID string) error {
	if err := validatePartyID(partyID); err != nil {
		return err
	}

	oldPartyID := p.PartyID
	p.PartyID = partyID
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewTradingPartnerPartyIDChangedEvent(p, oldPartyID))

	return nil
}

// UpdateCurrency changes the implied settlement currency
func (p *TradingPartner) UpdateCurrency(currency valueobject.Currency) error {
	if !currency.IsValid() {
		return shared.NewDomainError("INVALID_CURRENCY", "Unsupported settlement currency")
	}

	p.Currency = currency
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewTradingPartnerUpdatedEvent(p))

	return nil
}

// SetContact sets the partner's contact details
func (p *TradingPartner) SetContact(contactName, email, phone string) error {
	if contactName != "" && len(contactName) > 100 {
		return shared.NewDomainError("INVALID_CONTACT", "Contact name cannot exceed 100 characters")
	}
	if email != "" {
		if err := validatePartnerEmail(email); err != nil {
			return err
		}
	}
	if phone != "" {
		if err := validatePartnerPhone(phone); err != nil {
			return err
		}
	}

	p.ContactName = contactName
	p.Email = email
	p.Phone = phone
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetNotes sets free-form notes on the partner
func (p *TradingPartner) SetNotes(notes string) {
	p.Notes = notes
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Activate activates the partner
func (p *TradingPartner) Activate() error {
	if p.Status == PartnerStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Partner is already active")
	}

	oldStatus := p.Status
	p.Status = PartnerStatusActive
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewTradingPartnerStatusChangedEvent(p, oldStatus, PartnerStatusActive))

	return nil
}

// Deactivate deactivates the partner
func (p *TradingPartner) Deactivate() error {
	if p.Status == PartnerStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Partner is already inactive")
	}

	oldStatus := p.Status
	p.Status = PartnerStatusInactive
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewTradingPartnerStatusChangedEvent(p, oldStatus, PartnerStatusInactive))

	return nil
}

// Suspend halts document exchange with the partner
func (p *TradingPartner) Suspend() error {
	if p.Status == PartnerStatusSuspended {
		return shared.NewDomainError("ALREADY_SUSPENDED", "Partner is already suspended")
	}

	oldStatus := p.Status
	p.Status = PartnerStatusSuspended
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewTradingPartnerStatusChangedEvent(p, oldStatus, PartnerStatusSuspended))

	return nil
}

// IsActive returns true if the partner is active
func (p *TradingPartner) IsActive() bool {
	return p.Status == PartnerStatusActive
}

// IsSuspended returns true if the partner is suspended
func (p *TradingPartner) IsSuspended() bool {
	return p.Status == PartnerStatusSuspended
}

// CanTrade returns true if documents may be exchanged with the partner
func (p *TradingPartner) CanTrade() bool {
	return p.Status == PartnerStatusActive
}

// Validation functions

func validatePartnerCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Partner code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Partner code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_CODE", "Partner code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

func validatePartnerName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Partner name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Partner name cannot exceed 200 characters")
	}
	return nil
}

func validatePartyID(partyID string) error {
	if partyID == "" {
		return shared.NewDomainError("INVALID_PARTY_ID", "Party ID cannot be empty")
	}
	if len(partyID) > maxPartyIDLength {
		return shared.NewDomainError("INVALID_PARTY_ID", "Party ID cannot exceed 35 characters")
	}
	return nil
}

func validatePartnerPhone(phone string) error {
	if len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone number cannot exceed 50 characters")
	}
	// Basic phone validation - allow digits, spaces, hyphens, parentheses, and plus sign
	validPhone := regexp.MustCompile(`^[\d\s\-\(\)\+]+$`)
	if !validPhone.MatchString(phone) {
		return shared.NewDomainError("INVALID_PHONE", "Invalid phone number format")
	}
	return nil
}

func validatePartnerEmail(email string) error {
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	// Basic email validation
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}
