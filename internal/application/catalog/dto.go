package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradelink/backend/internal/domain/catalog"
)

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	SKU         string           `json:"sku" binding:"required,min=1,max=50"`
	Name        string           `json:"name" binding:"required,min=1,max=200"`
	Description string           `json:"description" binding:"max=2000"`
	GTIN        string           `json:"gtin" binding:"omitempty,gtin"`
	Eclass      string           `json:"eclass" binding:"omitempty,eclass"`
	Unit        string           `json:"unit" binding:"required,min=1,max=20"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Name        *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Description *string          `json:"description" binding:"omitempty,max=2000"`
	GTIN        *string          `json:"gtin" binding:"omitempty,gtin"`
	Eclass      *string          `json:"eclass" binding:"omitempty,eclass"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
}

// UpdateProductSKURequest represents a request to update a product's SKU
type UpdateProductSKURequest struct {
	SKU string `json:"sku" binding:"required,min=1,max=50"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID          uuid.UUID       `json:"id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	GTIN        string          `json:"gtin"`
	Eclass      string          `json:"eclass"`
	Unit        string          `json:"unit"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Status      string          `json:"status"`
	EDIReady    bool            `json:"edi_ready"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Version     int             `json:"version"`
}

// ProductListResponse represents a list item for products
type ProductListResponse struct {
	ID        uuid.UUID       `json:"id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	GTIN      string          `json:"gtin"`
	Eclass    string          `json:"eclass"`
	Unit      string          `json:"unit"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Status    string          `json:"status"`
	EDIReady  bool            `json:"edi_ready"`
	CreatedAt time.Time       `json:"created_at"`
}

// ProductComplianceResponse reports whether a product can appear on an
// outbound order and why not
type ProductComplianceResponse struct {
	ProductID uuid.UUID                   `json:"product_id"`
	SKU       string                      `json:"sku"`
	Ready     bool                        `json:"ready"`
	Findings  []catalog.ComplianceFinding `json:"findings"`
}

// ProductListFilter represents filter options for product list
type ProductListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=active inactive discontinued"`
	Unit     string `form:"unit"`
	HasGTIN  *bool  `form:"has_gtin"`
	Page     int    `form:"page" binding:"min=1"`
	PageSize int    `form:"page_size" binding:"min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		GTIN:        p.GTIN,
		Eclass:      p.Eclass,
		Unit:        p.Unit,
		UnitPrice:   p.UnitPrice,
		Status:      string(p.Status),
		EDIReady:    p.IsEDIReady(),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Version:     p.Version,
	}
}

// ToProductListResponse converts a domain Product to ProductListResponse
func ToProductListResponse(p *catalog.Product) ProductListResponse {
	return ProductListResponse{
		ID:        p.ID,
		SKU:       p.SKU,
		Name:      p.Name,
		GTIN:      p.GTIN,
		Eclass:    p.Eclass,
		Unit:      p.Unit,
		UnitPrice: p.UnitPrice,
		Status:    string(p.Status),
		EDIReady:  p.IsEDIReady(),
		CreatedAt: p.CreatedAt,
	}
}

// ToProductListResponses converts a slice of domain Products to ProductListResponses
func ToProductListResponses(products []catalog.Product) []ProductListResponse {
	responses := make([]ProductListResponse, len(products))
	for i, p := range products {
		responses[i] = ToProductListResponse(&p)
	}
	return responses
}

// ToProductComplianceResponse builds the compliance report for a product
func ToProductComplianceResponse(p *catalog.Product) ProductComplianceResponse {
	findings := p.EDICompliance()
	return ProductComplianceResponse{
		ProductID: p.ID,
		SKU:       p.SKU,
		Ready:     len(findings) == 0,
		Findings:  findings,
	}
}
