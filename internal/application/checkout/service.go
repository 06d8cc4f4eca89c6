package checkout

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/partsshop/storefront/internal/domain/checkout"
	"github.com/partsshop/storefront/internal/domain/shared"
	"github.com/partsshop/storefront/internal/domain/shared/valueobject"
	"github.com/partsshop/storefront/internal/domain/shipping"
	"github.com/partsshop/storefront/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// DefaultPlacementTTL is how long a placement key blocks a second attempt
const DefaultPlacementTTL = 24 * time.Hour

// maxOrderNumberAttempts bounds how often Place draws a new order number
const maxOrderNumberAttempts = 3

// Service drives checkout sessions through to placed orders
type Service struct {
	sessions       checkout.SessionRepository
	orders         checkout.OrderRepository
	resolver       checkout.QuoteResolver
	idempotency    shared.IdempotencyStore
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	placementTTL   time.Duration
}

// NewService creates a new checkout Service
func NewService(
	sessions checkout.SessionRepository,
	orders checkout.OrderRepository,
	resolver checkout.QuoteResolver,
	idempotency shared.IdempotencyStore,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		sessions:     sessions,
		orders:       orders,
		resolver:     resolver,
		idempotency:  idempotency,
		logger:       logger,
		placementTTL: DefaultPlacementTTL,
	}
}

// SetEventPublisher sets the publisher for OrderPlaced events
func (s *Service) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetPlacementTTL overrides how long placement keys are remembered
func (s *Service) SetPlacementTTL(ttl time.Duration) {
	if ttl > 0 {
		s.placementTTL = ttl
	}
}

// Start creates a session from a cart snapshot
func (s *Service) Start(ctx context.Context, req StartCheckoutRequest) (*SessionResponse, error) {
	lines := make([]checkout.CartLine, 0, len(req.Items))
	for _, item := range req.Items {
		weight, err := valueobject.NewWeight(item.UnitWeight)
		if err != nil {
			return nil, shared.NewDomainError(shared.CodeInvalidInput, "Unit weight cannot be negative")
		}
		line, err := checkout.NewCartLine(item.ProductID, item.Name, valueobject.NewMoneyAUD(item.UnitPrice), item.Quantity, weight)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	session, err := checkout.NewSession(req.CustomerID, lines)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info("Checkout started",
		zap.String("session_id", session.ID.String()),
		zap.Int("items", session.Cart.ItemCount()),
	)
	resp := ToSessionResponse(session)
	return &resp, nil
}

// Get returns a session
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*SessionResponse, error) {
	session, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToSessionResponse(session)
	return &resp, nil
}

// UpdateContact records contact details
func (s *Service) UpdateContact(ctx context.Context, id uuid.UUID, req UpdateContactRequest) (*SessionResponse, error) {
	return s.mutate(ctx, id, func(session *checkout.Session) error {
		return session.SetContactInfo(checkout.ContactInfo{
			Email:      req.Email,
			Phone:      req.Phone,
			Newsletter: req.Newsletter,
		})
	})
}

// UpdateAddress records the delivery address
func (s *Service) UpdateAddress(ctx context.Context, id uuid.UUID, req UpdateAddressRequest) (*SessionResponse, error) {
	return s.mutate(ctx, id, func(session *checkout.Session) error {
		return session.SetShippingAddress(checkout.ShippingAddress{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Street:    req.Street,
			City:      req.City,
			State:     req.State,
			Postcode:  req.Postcode,
			Country:   req.Country,
		})
	})
}

// SelectShipping chooses and prices a shipping method
func (s *Service) SelectShipping(ctx context.Context, id uuid.UUID, req SelectShippingRequest) (*SessionResponse, error) {
	return s.mutate(ctx, id, func(session *checkout.Session) error {
		return session.SelectShippingMethod(shipping.ParseMethod(req.Method), s.resolver)
	})
}

// UpdatePayment records payment details
func (s *Service) UpdatePayment(ctx context.Context, id uuid.UUID, req UpdatePaymentRequest) (*SessionResponse, error) {
	return s.mutate(ctx, id, func(session *checkout.Session) error {
		return session.SetPaymentInfo(checkout.PaymentInfo{
			Method:     checkout.PaymentMethod(req.Method),
			CardNumber: req.CardNumber,
			Expiry:     req.Expiry,
			CVV:        req.CVV,
			NameOnCard: req.NameOnCard,
		})
	})
}

// Continue advances the session to its next stage
func (s *Service) Continue(ctx context.Context, id uuid.UUID) (*SessionResponse, error) {
	return s.mutate(ctx, id, func(session *checkout.Session) error {
		return session.Continue(s.resolver)
	})
}

// Back returns the session to an earlier stage
func (s *Service) Back(ctx context.Context, id uuid.UUID, req BackRequest) (*SessionResponse, error) {
	target := checkout.Stage(strings.ToUpper(strings.TrimSpace(req.Stage)))
	if !target.IsValid() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Unknown checkout stage")
	}
	return s.mutate(ctx, id, func(session *checkout.Session) error {
		return session.Back(target)
	})
}

// mutate loads a session, applies fn and saves the result. The session
// is also saved when fn fails with a ValidationError, since re-pricing
// may have replaced the stored quote.
func (s *Service) mutate(ctx context.Context, id uuid.UUID, fn func(*checkout.Session) error) (*SessionResponse, error) {
	session, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := fn(session); err != nil {
		var validationErr *checkout.ValidationError
		if errors.As(err, &validationErr) {
			if saveErr := s.sessions.Save(ctx, session); saveErr != nil {
				return nil, saveErr
			}
		}
		s.logFailure(session, err)
		return nil, err
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	resp := ToSessionResponse(session)
	return &resp, nil
}

func (s *Service) logFailure(session *checkout.Session, err error) {
	var cfgErr *shipping.ConfigurationError
	if errors.As(err, &cfgErr) {
		s.logger.Error("Shipping tables cannot price checkout",
			zap.String("session_id", session.ID.String()),
			zap.String("zone_id", cfgErr.ZoneID),
			zap.String("method", cfgErr.Method.String()),
			zap.String("postcode", cfgErr.Postcode),
			zap.String("weight", cfgErr.Weight.String()),
			zap.String("reason", cfgErr.Reason),
		)
		return
	}
	s.logger.Debug("Checkout step rejected",
		zap.String("session_id", session.ID.String()),
		zap.String("stage", session.Stage.String()),
		zap.Error(err),
	)
}

// Place converts the session into an order. A session can be placed once;
// concurrent or repeated attempts fail with ALREADY_PLACED.
func (s *Service) Place(ctx context.Context, id uuid.UUID, req PlaceOrderRequest) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "checkout", "place",
		attribute.String(telemetry.SpanAttrSessionID, id.String()))
	defer span.End()

	session, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			if _, findErr := s.orders.FindBySessionID(ctx, id); findErr == nil {
				return nil, shared.ErrAlreadyPlaced
			}
		}
		return nil, err
	}
	if session.IsPlaced() {
		return nil, shared.ErrAlreadyPlaced
	}

	orderNumber, err := s.orders.NextOrderNumber(ctx, time.Now())
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	order, err := session.Place(req.AcceptTerms, s.resolver, orderNumber)
	if err != nil {
		var validationErr *checkout.ValidationError
		if errors.As(err, &validationErr) {
			if saveErr := s.sessions.Save(ctx, session); saveErr != nil {
				return nil, saveErr
			}
		}
		s.logFailure(session, err)
		return nil, err
	}

	key := placementKey(id)
	marked, err := s.idempotency.MarkProcessed(ctx, key, s.placementTTL)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if !marked {
		return nil, shared.ErrAlreadyPlaced
	}

	if err := s.saveOrder(ctx, order); err != nil {
		s.release(ctx, key)
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		s.logger.Warn("Failed to save placed checkout session",
			zap.String("session_id", session.ID.String()),
			zap.Error(err),
		)
	}

	s.publish(ctx, order)

	telemetry.SetAttributes(span,
		telemetry.SpanAttrOrderNumber, order.OrderNumber,
		telemetry.SpanAttrZoneID, order.Summary.ShippingZoneID,
		telemetry.SpanAttrShippingCost, order.Summary.ShippingCost.StringFixed(2),
	)
	s.logger.Info("Order placed",
		zap.String("order_number", order.OrderNumber),
		zap.String("session_id", session.ID.String()),
		zap.String("zone_id", order.Summary.ShippingZoneID),
		zap.String("shipping_cost", order.Summary.ShippingCost.StringFixed(2)),
		zap.String("total", order.Summary.Total.StringFixed(2)),
	)

	resp := ToOrderResponse(order)
	return &resp, nil
}

// saveOrder persists order, drawing a fresh number when a concurrent
// placement took the one it was given
func (s *Service) saveOrder(ctx context.Context, order *checkout.Order) error {
	for attempt := 1; ; attempt++ {
		err := s.orders.Save(ctx, order)
		if err == nil || !errors.Is(err, shared.ErrConcurrencyConflict) || attempt == maxOrderNumberAttempts {
			return err
		}
		s.logger.Warn("Order number taken, retrying",
			zap.String("order_number", order.OrderNumber),
			zap.Int("attempt", attempt),
		)
		next, err := s.orders.NextOrderNumber(ctx, order.PlacedAt)
		if err != nil {
			return err
		}
		if err := order.Renumber(next); err != nil {
			return err
		}
	}
}

func placementKey(sessionID uuid.UUID) string {
	return "checkout:place:" + sessionID.String()
}

func (s *Service) release(ctx context.Context, key string) {
	if err := s.idempotency.Release(ctx, key); err != nil {
		s.logger.Error("Failed to release placement key", zap.String("key", key), zap.Error(err))
	}
}

func (s *Service) publish(ctx context.Context, order *checkout.Order) {
	events := order.GetDomainEvents()
	order.ClearDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		// The order is already persisted; subscribers are best effort.
		s.logger.Error("Failed to publish order events",
			zap.String("order_number", order.OrderNumber),
			zap.Error(err),
		)
	}
}

// Abandon discards a session that has not been placed
func (s *Service) Abandon(ctx context.Context, id uuid.UUID) error {
	session, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if session.IsPlaced() {
		return shared.ErrAlreadyPlaced
	}
	return s.sessions.Delete(ctx, id)
}

// GetOrder returns a placed order by ID
func (s *Service) GetOrder(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// GetOrderByNumber returns a placed order by its order number
func (s *Service) GetOrderByNumber(ctx context.Context, orderNumber string) (*OrderResponse, error) {
	order, err := s.orders.FindByOrderNumber(ctx, strings.TrimSpace(orderNumber))
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// ListCustomerOrders returns a customer's order history, newest first
func (s *Service) ListCustomerOrders(ctx context.Context, customerID uuid.UUID, filter OrderListFilter) ([]OrderResponse, int64, error) {
	orders, total, err := s.orders.FindByCustomer(ctx, customerID, checkout.OrderFilter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}.Normalize())
	if err != nil {
		return nil, 0, err
	}
	out := make([]OrderResponse, len(orders))
	for i := range orders {
		out[i] = ToOrderResponse(&orders[i])
	}
	return out, total, nil
}
