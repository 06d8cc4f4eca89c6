package report

import (
	"context"
	"time"

	"github.com/partsshop/storefront/internal/domain/checkout"
	"github.com/partsshop/storefront/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ShippingReportFilter bounds the report period. Zero values default to
// the last 30 days.
type ShippingReportFilter struct {
	From time.Time `form:"from" time_format:"2006-01-02"`
	To   time.Time `form:"to" time_format:"2006-01-02"`
}

// ZoneShippingResponse is one row of the shipping report
type ZoneShippingResponse struct {
	ZoneID             string          `json:"zoneId"`
	ZoneName           string          `json:"zoneName"`
	Method             string          `json:"method"`
	Orders             int64           `json:"orders"`
	FreeShippingOrders int64           `json:"freeShippingOrders"`
	ShippingCharged    decimal.Decimal `json:"shippingCharged"`
	AverageShipping    decimal.Decimal `json:"averageShipping"`
	OrderValue         decimal.Decimal `json:"orderValue"`
}

// ShippingReportResponse summarizes shipping across placed orders
type ShippingReportResponse struct {
	PeriodStart     time.Time              `json:"periodStart"`
	PeriodEnd       time.Time              `json:"periodEnd"`
	TotalOrders     int64                  `json:"totalOrders"`
	ShippingCharged decimal.Decimal        `json:"shippingCharged"`
	Zones           []ZoneShippingResponse `json:"zones"`
}

// ShippingReportService reports shipping charged on persisted orders
type ShippingReportService struct {
	repo checkout.ShippingReportRepository
	now  func() time.Time
}

// NewShippingReportService creates a new ShippingReportService
func NewShippingReportService(repo checkout.ShippingReportRepository) *ShippingReportService {
	return &ShippingReportService{repo: repo, now: time.Now}
}

// Summary aggregates shipping by zone and method for the period
func (s *ShippingReportService) Summary(ctx context.Context, filter ShippingReportFilter) (*ShippingReportResponse, error) {
	to := filter.To
	if to.IsZero() {
		to = s.now()
	} else {
		// inclusive end date
		to = to.AddDate(0, 0, 1)
	}
	from := filter.From
	if from.IsZero() {
		from = to.AddDate(0, 0, -30)
	}
	if !from.Before(to) {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Report start must be before its end")
	}

	totals, err := s.repo.SummarizeShipping(ctx, from, to)
	if err != nil {
		return nil, err
	}

	resp := &ShippingReportResponse{
		PeriodStart:     from,
		PeriodEnd:       to,
		ShippingCharged: decimal.Zero,
		Zones:           make([]ZoneShippingResponse, 0, len(totals)),
	}
	for _, t := range totals {
		row := ZoneShippingResponse{
			ZoneID:             t.ZoneID,
			ZoneName:           t.ZoneName,
			Method:             t.Method.String(),
			Orders:             t.Orders,
			FreeShippingOrders: t.FreeShippingOrders,
			ShippingCharged:    t.ShippingCharged.Amount(),
			AverageShipping:    decimal.Zero,
			OrderValue:         t.OrderValue.Amount(),
		}
		if t.Orders > 0 {
			row.AverageShipping = row.ShippingCharged.Div(decimal.NewFromInt(t.Orders)).Round(2)
		}
		resp.TotalOrders += t.Orders
		resp.ShippingCharged = resp.ShippingCharged.Add(row.ShippingCharged)
		resp.Zones = append(resp.Zones, row)
	}
	return resp, nil
}
