package service

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/shopbridge/mollie-gateway/internal/api/dto"
	"github.com/shopbridge/mollie-gateway/internal/config"
	"github.com/shopbridge/mollie-gateway/internal/domain/coupon"
	"github.com/shopbridge/mollie-gateway/internal/domain/molliepayment"
	"github.com/shopbridge/mollie-gateway/internal/domain/order"
	ierr "github.com/shopbridge/mollie-gateway/internal/errors"
	"github.com/shopbridge/mollie-gateway/internal/idempotency"
	"github.com/shopbridge/mollie-gateway/internal/integration/mollie"
	"github.com/shopbridge/mollie-gateway/internal/session"
	"github.com/shopbridge/mollie-gateway/internal/types"
)

const methodCreditCard = "creditcard"

var (
	htmlTag         = regexp.MustCompile(`<[^>]*>`)
	couponCodeTitle = regexp.MustCompile(`\(([^()]+)\)\s*$`)
)

// CheckoutService starts payment attempts for storefront orders
type CheckoutService interface {
	CreatePayment(ctx context.Context, orderID int, req *dto.CreatePaymentRequest) (*dto.CreatePaymentResponse, error)
	SetIssuer(ctx context.Context, req *dto.SetIssuerRequest) error
	ListPaymentMethods(ctx context.Context, orderID int) ([]*dto.PaymentMethodResponse, error)
	ReportError(ctx context.Context, req *dto.ReportErrorRequest) error
}

type checkoutService struct {
	ServiceParams
	composer  *OrderLineComposer
	builder   *RequestBuilder
	customers CustomerService
}

func NewCheckoutService(params ServiceParams) CheckoutService {
	return &checkoutService{
		ServiceParams: params,
		composer:      NewOrderLineComposer(NewTaxCalculator(params), params.Logger),
		builder:       NewRequestBuilder(params.Config),
		customers:     NewCustomerService(params),
	}
}

func (s *checkoutService) CreatePayment(ctx context.Context, orderID int, req *dto.CreatePaymentRequest) (*dto.CreatePaymentResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	o, err := s.OrderRepo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	settings := s.settings(o)

	sess, err := s.Session.Load(ctx)
	if err != nil {
		return nil, err
	}
	pinnedValue, err := s.pinnedCurrencyValue(ctx, o)
	if err != nil {
		return nil, err
	}

	in := &PaymentRequestInput{
		Order:               o,
		Settings:            settings,
		PinnedCurrencyValue: pinnedValue,
		Method:              req.Method,
		Issuer:              lo.CoalesceOrEmpty(req.Issuer, sess.Issuer),
		CardToken:           lo.CoalesceOrEmpty(req.CardToken, sess.CardToken),
		Language:            lo.CoalesceOrEmpty(sess.Language, o.LanguageCode, settings.Language),
		SingleClick:         settings.SingleClickPayment && req.Method == methodCreditCard,
		ShippingRequired:    o.ShippingMethod != "",
		Now:                 time.Now(),
	}

	subscriptions, err := s.OrderRepo.ListSubscriptions(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	in.HasSubscription = len(subscriptions) > 0

	if in.HasSubscription || in.SingleClick {
		if in.CustomerID, err = s.customers.EnsureCustomer(ctx, o); err != nil {
			return nil, s.checkoutError(ctx, o, err)
		}
		if in.SingleClick {
			if in.HasMandate, err = s.customers.HasUsableMandate(ctx, in.CustomerID); err != nil {
				return nil, s.checkoutError(ctx, o, err)
			}
		}
	}

	attempt, err := s.nextAttempt(ctx, o.ID)
	if err != nil {
		return nil, err
	}

	m := orderMoney(o, settings, pinnedValue)
	record := &molliepayment.Record{
		OrderID:     o.ID,
		Method:      req.Method,
		BankAccount: in.Issuer,
		Amount:      m.convert(o.Total),
		Currency:    m.currency,
	}

	kind := ResourceKindFor(req.Method, settings.UsePaymentsAPI)
	var checkoutURL string

	switch kind {
	case types.ResourceKindOrder:
		lineInput, err := s.lineInput(ctx, o, settings, req.CouponCode, req.SuperCouponActive)
		if err != nil {
			return nil, err
		}
		lineInput.PinnedCurrencyValue = pinnedValue
		if in.Lines, err = s.composer.Compose(ctx, lineInput); err != nil {
			return nil, err
		}

		orderReq, err := s.builder.BuildOrderRequest(in)
		if err != nil {
			return nil, err
		}
		remote, err := s.Gateway.CreateOrder(ctx, orderReq, s.IdemGen.ForAttempt(idempotency.ScopeCreateOrder, o.ID, attempt))
		if err != nil {
			return nil, s.checkoutError(ctx, o, err)
		}

		record.MollieOrderID = remote.ID
		record.BankStatus = string(remote.Status)
		if p := remote.FirstPayment(); p != nil {
			record.TransactionID = p.ID
		}
		checkoutURL = remote.CheckoutURL()
	default:
		paymentReq, err := s.builder.BuildPaymentRequest(in)
		if err != nil {
			return nil, err
		}
		remote, err := s.Gateway.CreatePayment(ctx, paymentReq, s.IdemGen.ForAttempt(idempotency.ScopeCreatePayment, o.ID, attempt))
		if err != nil {
			return nil, s.checkoutError(ctx, o, err)
		}

		record.TransactionID = remote.ID
		record.BankStatus = string(remote.Status)
		checkoutURL = remote.CheckoutURL()
	}

	if err := s.PaymentRecordRepo.Create(ctx, record); err != nil {
		return nil, err
	}

	if err := s.Session.Update(ctx, func(d *session.Data) {
		d.OrderID = o.ID
	}); err != nil {
		s.Logger.Warnw("failed to remember order in session", "order_id", o.ID, "error", err)
	}

	s.Logger.Infow("created payment attempt",
		"order_id", o.ID,
		"payment_attempt", record.PaymentAttempt,
		"resource_kind", kind,
		"mollie_order_id", record.MollieOrderID,
		"transaction_id", record.TransactionID,
	)

	return &dto.CreatePaymentResponse{
		OrderID:        o.ID,
		PaymentAttempt: record.PaymentAttempt,
		ResourceKind:   kind,
		MollieID:       lo.CoalesceOrEmpty(record.MollieOrderID, record.TransactionID),
		CheckoutURL:    checkoutURL,
	}, nil
}

// nextAttempt is one past the last attempt recorded for the order
func (s *checkoutService) nextAttempt(ctx context.Context, orderID int) (int, error) {
	latest, err := s.PaymentRecordRepo.GetLatestByOrderID(ctx, orderID)
	if err != nil {
		if ierr.IsNotFound(err) {
			return 1, nil
		}
		return 0, err
	}
	return latest.PaymentAttempt + 1, nil
}

// checkoutError turns a gateway failure into a message the customer may see and report
func (s *checkoutService) checkoutError(ctx context.Context, o *order.Order, err error) error {
	gwErr, ok := mollie.AsGatewayError(err)
	if !ok {
		return err
	}

	s.Logger.Errorw("gateway rejected checkout",
		"order_id", o.ID,
		"status_code", gwErr.StatusCode,
		"error", gwErr.Error(),
	)
	s.Sentry.CaptureException(ctx, err, map[string]string{"flow": "checkout"})

	message := strings.TrimSpace(htmlTag.ReplaceAllString(gwErr.Detail, ""))
	if message == "" {
		message = "The payment could not be started"
	}
	return ierr.WithError(err).
		WithHint(message).
		WithReportableDetails(map[string]any{
			"report_error": true,
			"field":        gwErr.Field,
		}).
		Mark(ierr.ErrHTTPClient)
}

// lineInput gathers what the order line composer reads from the stored order
func (s *checkoutService) lineInput(ctx context.Context, o *order.Order, settings config.StoreSettings, couponCode string, superCoupon bool) (*OrderLineInput, error) {
	products, err := s.OrderRepo.ListProducts(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	totals, err := s.OrderRepo.ListTotals(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	vouchers, err := s.OrderRepo.ListVouchers(ctx, o.ID)
	if err != nil {
		return nil, err
	}

	in := &OrderLineInput{
		Order:             o,
		Settings:          settings,
		Products:          products,
		Totals:            totals,
		Vouchers:          vouchers,
		SuperCouponActive: superCoupon && settings.SuperCouponsEnabled,
		CartProducts: lo.Map(products, func(p *order.Product, _ int) CartProduct {
			return CartProduct{
				ProductID:  p.ProductID,
				Total:      p.Price.Mul(p.Quantity),
				TaxClassID: p.TaxClassID,
				Points:     p.Reward,
			}
		}),
	}

	if t, ok := findTotal(totals, TotalCodeShipping); ok {
		in.Shipping = &ShippingSelection{
			Title:      t.Title,
			Cost:       t.Value,
			TaxClassID: settings.TotalTaxClass(TotalCodeShipping),
		}
	}

	if t, ok := findTotal(totals, TotalCodeCoupon); ok {
		code := couponCode
		if code == "" {
			if match := couponCodeTitle.FindStringSubmatch(t.Title); match != nil {
				code = match[1]
			}
		}
		if in.Coupon, err = s.findCoupon(ctx, code); err != nil {
			return nil, err
		}
	}
	return in, nil
}

func (s *checkoutService) findCoupon(ctx context.Context, code string) (*coupon.Coupon, error) {
	if code == "" {
		return nil, nil
	}
	c, err := s.CouponRepo.GetByCode(ctx, code)
	if err != nil {
		if ierr.IsNotFound(err) {
			s.Logger.Debugw("coupon no longer exists", "code", code)
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

func (s *checkoutService) SetIssuer(ctx context.Context, req *dto.SetIssuerRequest) error {
	return s.Session.Update(ctx, func(d *session.Data) {
		d.Issuer = strings.TrimSpace(req.Issuer)
	})
}

func (s *checkoutService) ListPaymentMethods(ctx context.Context, orderID int) ([]*dto.PaymentMethodResponse, error) {
	o, err := s.OrderRepo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	m, err := s.orderMoney(ctx, o)
	if err != nil {
		return nil, err
	}

	methods := ListAvailableMethods(m.convert(o.Total), m.currency)
	return lo.Map(methods, func(pm PaymentMethod, _ int) *dto.PaymentMethodResponse {
		return &dto.PaymentMethodResponse{
			ID:            pm.ID,
			Name:          pm.Name,
			ForceOrderAPI: pm.ForceOrderAPI,
			MinAmount:     pm.MinAmount,
			MaxAmount:     pm.MaxAmount,
			HasIssuers:    pm.HasIssuers,
		}
	}), nil
}

func (s *checkoutService) ReportError(ctx context.Context, req *dto.ReportErrorRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	s.Logger.Warnw("checkout error reported by customer",
		"order_id", req.OrderID,
		"message", req.Message,
	)
	s.Sentry.CaptureMessage(ctx, req.Message, map[string]string{
		"flow":     "checkout",
		"order_id": strconv.Itoa(req.OrderID),
	})
	return nil
}
