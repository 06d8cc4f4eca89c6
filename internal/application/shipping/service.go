package shipping

import (
	"context"
	"errors"
	"math"

	"github.com/partsshop/storefront/internal/domain/shared"
	"github.com/partsshop/storefront/internal/domain/shared/valueobject"
	"github.com/partsshop/storefront/internal/domain/shipping"
	"github.com/partsshop/storefront/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Service exposes rate calculation and the reference tables
type Service struct {
	resolver *shipping.Resolver
	logger   *zap.Logger
	metrics  *telemetry.StoreMetrics
}

// NewService creates a new shipping Service
func NewService(resolver *shipping.Resolver, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		resolver: resolver,
		logger:   logger,
	}
}

// SetMetrics enables quote counters
func (s *Service) SetMetrics(metrics *telemetry.StoreMetrics) {
	s.metrics = metrics
}

// Resolver returns the resolver backing this service
func (s *Service) Resolver() *shipping.Resolver {
	return s.resolver
}

// Calculate resolves the shipping cost for a destination and weight
func (s *Service) Calculate(ctx context.Context, req CalculateRequest) (*QuoteResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "shipping", "calculate",
		attribute.String(telemetry.SpanAttrPostcode, req.Postcode))
	defer span.End()

	quoteReq, err := toQuoteRequest(req)
	if err != nil {
		s.recordFailure(ctx, err)
		return nil, err
	}

	quote, err := s.resolver.Resolve(quoteReq)
	if err != nil {
		s.recordFailure(ctx, err)
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrZoneID, quote.Zone.ID,
		telemetry.SpanAttrShippingMethod, quote.Method.String(),
		telemetry.SpanAttrShippingCost, quote.Cost.StringFixed(2),
	)
	if s.metrics != nil {
		s.metrics.RecordQuote(ctx, quote.Zone.ID, quote.Method.String(), quote.DiscountApplied)
	}

	resp := ToQuoteResponse(quote)
	return &resp, nil
}

func (s *Service) recordFailure(ctx context.Context, err error) {
	var cfgErr *shipping.ConfigurationError
	kind := telemetry.QuoteErrorInvalidInput
	if errors.As(err, &cfgErr) {
		kind = telemetry.QuoteErrorConfiguration
		s.logger.Error("Shipping tables cannot price destination",
			zap.String("zone_id", cfgErr.ZoneID),
			zap.String("method", cfgErr.Method.String()),
			zap.String("postcode", cfgErr.Postcode),
			zap.String("weight", cfgErr.Weight.String()),
			zap.String("reason", cfgErr.Reason),
		)
	} else {
		s.logger.Debug("Rejected shipping calculation", zap.Error(err))
	}
	if s.metrics != nil {
		s.metrics.RecordQuoteError(ctx, kind)
	}
}

func toQuoteRequest(req CalculateRequest) (shipping.QuoteRequest, error) {
	if req.Weight == nil {
		return shipping.QuoteRequest{}, &shipping.InvalidInputError{Field: "weight", Reason: "weight is required"}
	}
	if math.IsNaN(*req.Weight) || math.IsInf(*req.Weight, 0) {
		return shipping.QuoteRequest{}, &shipping.InvalidInputError{Field: "weight", Reason: "weight must be a finite number"}
	}
	items := make([]shipping.CartItem, 0, len(req.Items))
	for _, it := range req.Items {
		if math.IsNaN(it.Price) || math.IsInf(it.Price, 0) {
			return shipping.QuoteRequest{}, &shipping.InvalidInputError{Field: "items.price", Reason: "price must be a finite number"}
		}
		items = append(items, shipping.CartItem{
			Price:    valueobject.NewMoneyAUDFromFloat(it.Price),
			Quantity: it.Quantity,
		})
	}
	return shipping.QuoteRequest{
		Postcode: req.Postcode,
		Weight:   decimal.NewFromFloat(*req.Weight),
		Items:    items,
		Method:   shipping.ParseMethod(req.Method),
	}, nil
}

// ListZones returns the zones in resolution order
func (s *Service) ListZones(ctx context.Context) []ZoneResponse {
	zones := s.resolver.Tables().Zones()
	out := make([]ZoneResponse, len(zones))
	for i, z := range zones {
		out[i] = ToZoneResponse(z)
	}
	return out
}

// ListRates returns the bands for a zone and method. An empty zoneID
// lists every zone; an empty method lists every method.
func (s *Service) ListRates(ctx context.Context, zoneID, method string) ([]RateResponse, error) {
	tables := s.resolver.Tables()
	if zoneID != "" {
		if _, ok := tables.Zone(zoneID); !ok {
			return nil, shared.NewDomainError(shared.CodeNotFound, "Shipping zone not found")
		}
	}
	var m shipping.Method
	if method != "" {
		m = shipping.ParseMethod(method)
		if _, ok := tables.Method(m); !ok {
			return nil, shared.NewDomainError(shared.CodeInvalidInput, "Unknown shipping method")
		}
	}

	out := []RateResponse{}
	for _, b := range tables.AllBands() {
		if zoneID != "" && b.ZoneID != zoneID {
			continue
		}
		if m != "" && b.Method != m {
			continue
		}
		out = append(out, ToRateResponse(b))
	}
	return out, nil
}

// ListMethods returns the shipping methods offered at checkout
func (s *Service) ListMethods(ctx context.Context) []MethodResponse {
	methods := s.resolver.Tables().Methods()
	out := make([]MethodResponse, len(methods))
	for i, m := range methods {
		out[i] = MethodResponse{
			Code:              m.Code.String(),
			Name:              m.Name,
			Description:       m.Description,
			EstimatedDelivery: m.Estimate,
		}
	}
	return out
}

// ValidateTables checks a candidate tables document without installing it
func (s *Service) ValidateTables(ctx context.Context, doc shipping.TablesDocument) (*ValidateTablesResponse, error) {
	tables, err := doc.Build()
	if err != nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, err.Error())
	}
	violations := tables.Validate()
	resp := &ValidateTablesResponse{
		Valid:      len(violations) == 0,
		Zones:      len(tables.Zones()),
		Bands:      len(tables.AllBands()),
		Violations: make([]string, len(violations)),
	}
	for i, v := range violations {
		resp.Violations[i] = v.String()
	}
	if !resp.Valid {
		s.logger.Info("Candidate shipping tables rejected", zap.Int("violations", len(violations)))
	}
	return resp, nil
}
