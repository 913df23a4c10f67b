package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradelink/backend/internal/domain/catalog"
	"github.com/tradelink/backend/internal/domain/shared"
	"github.com/tradelink/backend/internal/domain/shared/valueobject"
)

// ProductService handles product-related business operations
type ProductService struct {
	productRepo catalog.ProductRepository
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	// SKUs are stored upper-cased
	if err := s.requireUniqueSKU(ctx, strings.ToUpper(req.SKU)); err != nil {
		return nil, err
	}
	if req.GTIN != "" {
		if err := s.requireUniqueGTIN(ctx, req.GTIN); err != nil {
			return nil, err
		}
	}

	unitPrice := decimal.Zero
	if req.UnitPrice != nil {
		unitPrice = *req.UnitPrice
	}

	product, err := catalog.NewProduct(req.SKU, req.Name, req.Unit, unitPrice)
	if err != nil {
		return nil, err
	}

	if req.Description != "" {
		if err := product.Update(req.Name, req.Description); err != nil {
			return nil, err
		}
	}
	if req.GTIN != "" {
		if err := product.SetGTIN(req.GTIN); err != nil {
			return nil, err
		}
	}
	if req.Eclass != "" {
		if err := product.SetEclass(req.Eclass); err != nil {
			return nil, err
		}
	}

	return s.save(ctx, product)
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	return productResponse(product)
}

// GetBySKU retrieves a product by SKU
func (s *ProductService) GetBySKU(ctx context.Context, sku string) (*ProductResponse, error) {
	product, err := s.productRepo.FindBySKU(ctx, strings.ToUpper(sku))
	if err != nil {
		return nil, err
	}
	return productResponse(product)
}

// GetByGTIN retrieves a product by GTIN
func (s *ProductService) GetByGTIN(ctx context.Context, gtin string) (*ProductResponse, error) {
	product, err := s.productRepo.FindByGTIN(ctx, gtin)
	if err != nil {
		return nil, err
	}
	return productResponse(product)
}

// List retrieves a list of products with filtering and pagination
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductListResponse, int64, error) {
	domainFilter := filter.toDomainFilter()

	products, err := s.productRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.productRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToProductListResponses(products), total, nil
}

func (f ProductListFilter) toDomainFilter() shared.Filter {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = 20
	}
	if f.OrderBy == "" {
		f.OrderBy = "sku"
	}
	if f.OrderDir == "" {
		f.OrderDir = "asc"
	}

	domainFilter := shared.Filter{
		Page:     f.Page,
		PageSize: f.PageSize,
		OrderBy:  f.OrderBy,
		OrderDir: f.OrderDir,
		Search:   f.Search,
		Filters:  make(map[string]interface{}),
	}

	if f.Status != "" {
		domainFilter.Filters["status"] = f.Status
	}
	if f.Unit != "" {
		domainFilter.Filters["unit"] = f.Unit
	}
	if f.HasGTIN != nil {
		domainFilter.Filters["has_gtin"] = *f.HasGTIN
	}
	return domainFilter
}

// Update updates a product
func (s *ProductService) Update(ctx context.Context, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Description != nil {
		name := product.Name
		if req.Name != nil {
			name = *req.Name
		}
		description := product.Description
		if req.Description != nil {
			description = *req.Description
		}
		if err := product.Update(name, description); err != nil {
			return nil, err
		}
	}

	if req.GTIN != nil {
		// Assigning an in-use GTIN would break inbound order matching
		if *req.GTIN != "" && *req.GTIN != product.GTIN {
			if err := s.requireUniqueGTIN(ctx, *req.GTIN); err != nil {
				return nil, err
			}
		}
		if err := product.SetGTIN(*req.GTIN); err != nil {
			return nil, err
		}
	}

	if req.Eclass != nil {
		if err := product.SetEclass(*req.Eclass); err != nil {
			return nil, err
		}
	}

	if req.UnitPrice != nil {
		if err := product.UpdatePrice(valueobject.NewMoneyEUR(*req.UnitPrice)); err != nil {
			return nil, err
		}
	}

	return s.save(ctx, product)
}

// UpdateSKU updates a product's SKU
func (s *ProductService) UpdateSKU(ctx context.Context, productID uuid.UUID, newSKU string) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	sku := strings.ToUpper(newSKU)
	if sku != product.SKU {
		if err := s.requireUniqueSKU(ctx, sku); err != nil {
			return nil, err
		}
	}

	if err := product.UpdateSKU(newSKU); err != nil {
		return nil, err
	}

	return s.save(ctx, product)
}

// Delete deletes a product
func (s *ProductService) Delete(ctx context.Context, productID uuid.UUID) error {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return err
	}

	// TODO: Block deletion while purchase order items still reference the product

	return s.productRepo.Delete(ctx, productID)
}

// Activate activates a product
func (s *ProductService) Activate(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	return s.transition(ctx, productID, (*catalog.Product).Activate)
}

// Deactivate deactivates a product
func (s *ProductService) Deactivate(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	return s.transition(ctx, productID, (*catalog.Product).Deactivate)
}

// Discontinue discontinues a product
func (s *ProductService) Discontinue(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	return s.transition(ctx, productID, (*catalog.Product).Discontinue)
}

// GetCompliance reports the product's readiness for electronic ordering
func (s *ProductService) GetCompliance(ctx context.Context, productID uuid.UUID) (*ProductComplianceResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	response := ToProductComplianceResponse(product)
	return &response, nil
}

// CountByStatus returns product counts by status
func (s *ProductService) CountByStatus(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64)
	var total int64

	for label, status := range map[string]catalog.ProductStatus{
		"active":       catalog.ProductStatusActive,
		"inactive":     catalog.ProductStatusInactive,
		"discontinued": catalog.ProductStatusDiscontinued,
	} {
		count, err := s.productRepo.CountByStatus(ctx, status)
		if err != nil {
			return nil, err
		}
		counts[label] = count
		total += count
	}
	counts["total"] = total

	return counts, nil
}

// transition loads the product, applies the lifecycle change, and
// persists the result.
func (s *ProductService) transition(ctx context.Context, productID uuid.UUID, change func(*catalog.Product) error) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if err := change(product); err != nil {
		return nil, err
	}

	return s.save(ctx, product)
}

func (s *ProductService) save(ctx context.Context, product *catalog.Product) (*ProductResponse, error) {
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	return productResponse(product)
}

func (s *ProductService) requireUniqueSKU(ctx context.Context, sku string) error {
	exists, err := s.productRepo.ExistsBySKU(ctx, sku)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "Product with this SKU already exists")
	}
	return nil
}

func (s *ProductService) requireUniqueGTIN(ctx context.Context, gtin string) error {
	exists, err := s.productRepo.ExistsByGTIN(ctx, gtin)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "Product with this GTIN already exists")
	}
	return nil
}

func productResponse(product *catalog.Product) (*ProductResponse, error) {
	response := ToProductResponse(product)
	return &response, nil
}
