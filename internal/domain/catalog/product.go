package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tradelink/backend/internal/domain/shared"
	"github.com/tradelink/backend/internal/domain/shared/valueobject"
	"github.com/tradelink/backend/internal/domain/standards"
)

// ProductStatus represents the status of a product
type ProductStatus string

const (
	ProductStatusActive       ProductStatus = "active"
	ProductStatusInactive     ProductStatus = "inactive"
	ProductStatusDiscontinued ProductStatus = "discontinued"
)

// ComplianceFinding names one reason a product cannot go out on an
// electronic order line.
type ComplianceFinding struct {
	Field   string `json:"field"`
	Problem string `json:"problem"`
}

// String returns the finding as "field: problem"
func (f ComplianceFinding) String() string {
	return fmt.Sprintf("%s: %s", f.Field, f.Problem)
}

// Product represents a product/SKU in the catalog
// It is the aggregate root for product-related operations
type Product struct {
	shared.BaseAggregateRoot
	SKU         string `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name        string `gorm:"type:varchar(200);not null"`
	Description string `gorm:"type:text"`
	// GTIN is the GTIN-14 article number transmitted to trading partners.
	// Optional until the product appears on an outbound order.
	GTIN string `gorm:"type:varchar(14);index"`
	// Eclass is the 8-digit eCl@ss classification code
	Eclass    string          `gorm:"type:varchar(8)"`
	Unit      string          `gorm:"type:varchar(20);not null"` // Base unit (e.g., "pcs", "kg", "box")
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status    ProductStatus   `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(sku, name, unit string, unitPrice decimal.Decimal) (*Product, error) {
	if err := validateSKU(sku); err != nil {
		return nil, err
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if err := validateUnit(unit); err != nil {
		return nil, err
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SKU:               strings.ToUpper(sku),
		Name:              name,
		Unit:              unit,
		UnitPrice:         unitPrice,
		Status:            ProductStatusActive,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update updates the product's basic information
func (p *Product) Update(name, description string) error {
	if err := validateProductName(name); err != nil {
		return err
	}

	p.Name = name
	p.Description = description
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

// UpdateSKU updates the product's SKU
// Note: This should be used with caution as transmitted orders reference the SKU
func (p *Product) UpdateSKU(sku string) error {
	if err := validateSKU(sku); err != nil {
		return err
	}

	p.SKU = strings.ToUpper(sku)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

// SetGTIN assigns the product's GTIN-14. An empty string clears it;
// anything else must carry a correct check digit.
func (p *Product) SetGTIN(gtin string) error {
	if gtin != "" && !standards.IsValidGTIN(gtin) {
		return shared.NewDomainError("INVALID_GTIN", "GTIN must be 14 digits with a valid check digit")
	}

	oldGTIN := p.GTIN
	p.GTIN = gtin
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductIdentifiersChangedEvent(p, oldGTIN, p.Eclass))

	return nil
}

// SetEclass assigns the product's eCl@ss classification code. An empty
// string clears it; anything else must be a valid 8-digit code.
func (p *Product) SetEclass(code string) error {
	if code != "" && !standards.IsValidEclass(code) {
		return shared.NewDomainError("INVALID_ECLASS", "eCl@ss code must be 8 digits with version 10-12")
	}

	oldEclass := p.Eclass
	p.Eclass = code
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductIdentifiersChangedEvent(p, p.GTIN, oldEclass))

	return nil
}

// UpdatePrice updates the unit price
func (p *Product) UpdatePrice(price valueobject.Money) error {
	if price.Amount().IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	oldPrice := p.UnitPrice
	p.UnitPrice = price.Amount()
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductPriceChangedEvent(p, oldPrice))

	return nil
}

// Activate activates the product
func (p *Product) Activate() error {
	if p.Status == ProductStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Product is already active")
	}
	if p.Status == ProductStatusDiscontinued {
		return shared.NewDomainError("CANNOT_ACTIVATE", "Cannot activate a discontinued product")
	}

	oldStatus := p.Status
	p.Status = ProductStatusActive
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductStatusChangedEvent(p, oldStatus, ProductStatusActive))

	return nil
}

// Deactivate deactivates the product
func (p *Product) Deactivate() error {
	if p.Status == ProductStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Product is already inactive")
	}
	if p.Status == ProductStatusDiscontinued {
		return shared.NewDomainError("CANNOT_DEACTIVATE", "Cannot deactivate a discontinued product")
	}

	oldStatus := p.Status
	p.Status = ProductStatusInactive
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductStatusChangedEvent(p, oldStatus, ProductStatusInactive))

	return nil
}

// Discontinue marks the product as discontinued
// A discontinued product cannot be reactivated
func (p *Product) Discontinue() error {
	if p.Status == ProductStatusDiscontinued {
		return shared.NewDomainError("ALREADY_DISCONTINUED", "Product is already discontinued")
	}

	oldStatus := p.Status
	p.Status = ProductStatusDiscontinued
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductStatusChangedEvent(p, oldStatus, ProductStatusDiscontinued))

	return nil
}

// EDICompliance lists everything that keeps the product off an outbound
// order. An empty result means the product can be transmitted.
func (p *Product) EDICompliance() []ComplianceFinding {
	findings := make([]ComplianceFinding, 0)

	if p.Status != ProductStatusActive {
		findings = append(findings, ComplianceFinding{Field: "status", Problem: "product is not active"})
	}
	if p.GTIN == "" {
		findings = append(findings, ComplianceFinding{Field: "gtin", Problem: "product has no GTIN assigned"})
	} else if !standards.IsValidGTIN(p.GTIN) {
		findings = append(findings, ComplianceFinding{Field: "gtin", Problem: "GTIN is not a valid GTIN-14"})
	}
	if p.Eclass == "" {
		findings = append(findings, ComplianceFinding{Field: "eclass", Problem: "product has no eCl@ss classification"})
	} else if !standards.IsValidEclass(p.Eclass) {
		findings = append(findings, ComplianceFinding{Field: "eclass", Problem: "eCl@ss code is not valid"})
	}
	if !p.UnitPrice.IsPositive() {
		findings = append(findings, ComplianceFinding{Field: "unit_price", Problem: "unit price must be positive"})
	}

	return findings
}

// IsEDIReady returns true if the product passes every compliance check
func (p *Product) IsEDIReady() bool {
	return len(p.EDICompliance()) == 0
}

// IsActive returns true if the product is active
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// IsInactive returns true if the product is inactive
func (p *Product) IsInactive() bool {
	return p.Status == ProductStatusInactive
}

// IsDiscontinued returns true if the product is discontinued
func (p *Product) IsDiscontinued() bool {
	return p.Status == ProductStatusDiscontinued
}

// GetUnitPriceMoney returns the unit price as Money value object
func (p *Product) GetUnitPriceMoney() valueobject.Money {
	return valueobject.NewMoneyEUR(p.UnitPrice)
}

// validateSKU validates the product SKU
func validateSKU(sku string) error {
	if sku == "" {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if len(sku) > 50 {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot exceed 50 characters")
	}
	// SKU should be alphanumeric with underscores and hyphens
	for _, r := range sku {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_SKU", "SKU can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

// validateProductName validates the product name
func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}

// validateUnit validates the unit
func validateUnit(unit string) error {
	if unit == "" {
		return shared.NewDomainError("INVALID_UNIT", "Unit cannot be empty")
	}
	if len(unit) > 20 {
		return shared.NewDomainError("INVALID_UNIT", "Unit cannot exceed 20 characters")
	}
	return nil
}
