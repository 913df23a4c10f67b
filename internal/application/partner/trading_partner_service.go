package partner

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/tradelink/backend/internal/domain/partner"
	"github.com/tradelink/backend/internal/domain/shared"
	"github.com/tradelink/backend/internal/domain/shared/valueobject"
)

// TradingPartnerService handles trading partner business operations
type TradingPartnerService struct {
	partnerRepo partner.TradingPartnerRepository
}

// NewTradingPartnerService creates a new TradingPartnerService
func NewTradingPartnerService(partnerRepo partner.TradingPartnerRepository) *TradingPartnerService {
	return &TradingPartnerService{
		partnerRepo: partnerRepo,
	}
}

// Create registers a new trading partner
func (s *TradingPartnerService) Create(ctx context.Context, req CreateTradingPartnerRequest) (*TradingPartnerResponse, error) {
	// Partner codes are stored upper-cased
	code := strings.ToUpper(req.Code)

	exists, err := s.partnerRepo.ExistsByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Partner with this code already exists")
	}

	// The party identifier must be unique so inbound documents resolve to
	// exactly one partner
	exists, err = s.partnerRepo.ExistsByPartyID(ctx, req.PartyID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Partner with this party identifier already exists")
	}

	currency := valueobject.DefaultCurrency
	if req.Currency != "" {
		currency = valueobject.Currency(strings.ToUpper(req.Currency))
	}

	p, err := partner.NewTradingPartner(req.Code, req.Name, req.PartyID, currency)
	if err != nil {
		return nil, err
	}

	// Set optional fields
	if req.ContactName != "" || req.Email != "" || req.Phone != "" {
		if err := p.SetContact(req.ContactName, req.Email, req.Phone); err != nil {
			return nil, err
		}
	}

	if req.Notes != "" {
		p.SetNotes(req.Notes)
	}

	// Save the partner
	if err := s.partnerRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	response := ToTradingPartnerResponse(p)
	return &response, nil
}

// GetByID retrieves a partner by ID
func (s *TradingPartnerService) GetByID(ctx context.Context, partnerID uuid.UUID) (*TradingPartnerResponse, error) {
	p, err := s.partnerRepo.FindByID(ctx, partnerID)
	if err != nil {
		return nil, err
	}

	response := ToTradingPartnerResponse(p)
	return &response, nil
}

// GetByCode retrieves a partner by code
func (s *TradingPartnerService) GetByCode(ctx context.Context, code string) (*TradingPartnerResponse, error) {
	p, err := s.partnerRepo.FindByCode(ctx, strings.ToUpper(code))
	if err != nil {
		return nil, err
	}

	response := ToTradingPartnerResponse(p)
	return &response, nil
}

// GetByPartyID retrieves a partner by its wire identifier
func (s *TradingPartnerService) GetByPartyID(ctx context.Context, partyID string) (*TradingPartnerResponse, error) {
	p, err := s.partnerRepo.FindByPartyID(ctx, partyID)
	if err != nil {
		return nil, err
	}

	response := ToTradingPartnerResponse(p)
	return &response, nil
}

// List retrieves a list of partners with filtering and pagination
func (s *TradingPartnerService) List(ctx context.Context, filter TradingPartnerListFilter) ([]TradingPartnerListResponse, int64, error) {
	// Set defaults
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "code"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "asc"
	}

	// Build domain filter
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}

	// Add specific filters
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.Currency != "" {
		domainFilter.Filters["currency"] = strings.ToUpper(filter.Currency)
	}

	// Get partners
	partners, err := s.partnerRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	// Get total count
	total, err := s.partnerRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToTradingPartnerListResponses(partners), total, nil
}

// Update updates a trading partner
func (s *TradingPartnerService) Update(ctx context.Context, partnerID uuid.UUID, req UpdateTradingPartnerRequest) (*TradingPartnerResponse, error) {
	p, err := s.partnerRepo.FindByID(ctx, partnerID)
	if err != nil {
		return nil, err
	}

	// Update name
	if req.Name != nil {
		if err := p.Update(*req.Name); err != nil {
			return nil, err
		}
	}

	// Update party identifier
	if req.PartyID != nil {
		// Check for duplicate party identifier
		if *req.PartyID != p.PartyID {
			exists, err := s.partnerRepo.ExistsByPartyID(ctx, *req.PartyID)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, shared.NewDomainError("ALREADY_EXISTS", "Partner with this party identifier already exists")
			}
		}
		if err := p.UpdatePartyID(*req.PartyID); err != nil {
			return nil, err
		}
	}

	// Update settlement currency
	if req.Currency != nil {
		if err := p.UpdateCurrency(valueobject.Currency(strings.ToUpper(*req.Currency))); err != nil {
			return nil, err
		}
	}

	// Update contact details
	if req.ContactName != nil || req.Email != nil || req.Phone != nil {
		contactName := p.ContactName
		email := p.Email
		phone := p.Phone

		if req.ContactName != nil {
			contactName = *req.ContactName
		}
		if req.Email != nil {
			email = *req.Email
		}
		if req.Phone != nil {
			phone = *req.Phone
		}

		if err := p.SetContact(contactName, email, phone); err != nil {
			return nil, err
		}
	}

	// Update notes
	if req.Notes != nil {
		p.SetNotes(*req.Notes)
	}

	// Save the partner
	if err := s.partnerRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	response := ToTradingPartnerResponse(p)
	return &response, nil
}

// Delete deletes a trading partner
func (s *TradingPartnerService) Delete(ctx context.Context, partnerID uuid.UUID) error {
	// Verify partner exists
	_, err := s.partnerRepo.FindByID(ctx, partnerID)
	if err != nil {
		return err
	}

	// TODO: Block deletion while orders or interchanges reference the partner

	return s.partnerRepo.Delete(ctx, partnerID)
}

// Activate activates a partner
func (s *TradingPartnerService) Activate(ctx context.Context, partnerID uuid.UUID) (*TradingPartnerResponse, error) {
	p, err := s.partnerRepo.FindByID(ctx, partnerID)
	if err != nil {
		return nil, err
	}

	if err := p.Activate(); err != nil {
		return nil, err
	}

	if err := s.partnerRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	response := ToTradingPartnerResponse(p)
	return &response, nil
}

// Deactivate deactivates a partner
func (s *TradingPartnerService) Deactivate(ctx context.Context, partnerID uuid.UUID) (*TradingPartnerResponse, error) {
	p, err := s.partnerRepo.FindByID(ctx, partnerID)
	if err != nil {
		return nil, err
	}

	if err := p.Deactivate(); err != nil {
		return nil, err
	}

	if err := s.partnerRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	response := ToTradingPartnerResponse(p)
	return &response, nil
}

// Suspend suspends a partner, stopping document exchange in both directions
func (s *TradingPartnerService) Suspend(ctx context.Context, partnerID uuid.UUID) (*TradingPartnerResponse, error) {
	p, err := s.partnerRepo.FindByID(ctx, partnerID)
	if err != nil {
		return nil, err
	}

	if err := p.Suspend(); err != nil {
		return nil, err
	}

	if err := s.partnerRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	response := ToTradingPartnerResponse(p)
	return &response, nil
}

// CountByStatus returns partner counts by status
func (s *TradingPartnerService) CountByStatus(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64)

	statuses := []partner.PartnerStatus{
		partner.PartnerStatusActive,
		partner.PartnerStatusInactive,
		partner.PartnerStatusSuspended,
	}

	var total int64
	for _, status := range statuses {
		filter := shared.Filter{
			Filters: map[string]interface{}{"status": string(status)},
		}
		count, err := s.partnerRepo.Count(ctx, filter)
		if err != nil {
			return nil, err
		}
		counts[string(status)] = count
		total += count
	}
	counts["total"] = total

	return counts, nil
}
