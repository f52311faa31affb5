package repository

import (
	"github.com/shopbridge/mollie-gateway/internal/domain/coupon"
	"github.com/shopbridge/mollie-gateway/internal/domain/currency"
	"github.com/shopbridge/mollie-gateway/internal/domain/customer"
	"github.com/shopbridge/mollie-gateway/internal/domain/molliepayment"
	"github.com/shopbridge/mollie-gateway/internal/domain/order"
	"github.com/shopbridge/mollie-gateway/internal/domain/paymentlink"
	"github.com/shopbridge/mollie-gateway/internal/domain/refund"
	"github.com/shopbridge/mollie-gateway/internal/domain/subscription"
	"github.com/shopbridge/mollie-gateway/internal/domain/tax"
	"github.com/shopbridge/mollie-gateway/internal/logger"
	"github.com/shopbridge/mollie-gateway/internal/postgres"
	postgresRepo "github.com/shopbridge/mollie-gateway/internal/repository/postgres"
)

func NewMolliePaymentRepository(db *postgres.DB, logger *logger.Logger) molliepayment.Repository {
	return postgresRepo.NewMolliePaymentRepository(db, logger)
}

func NewRefundRepository(db *postgres.DB, logger *logger.Logger) refund.Repository {
	return postgresRepo.NewRefundRepository(db, logger)
}

func NewSubscriptionPaymentRepository(db *postgres.DB, logger *logger.Logger) subscription.Repository {
	return postgresRepo.NewSubscriptionPaymentRepository(db, logger)
}

func NewCustomerRepository(db *postgres.DB, logger *logger.Logger) customer.Repository {
	return postgresRepo.NewCustomerRepository(db, logger)
}

func NewPaymentLinkRepository(db *postgres.DB, logger *logger.Logger) paymentlink.Repository {
	return postgresRepo.NewPaymentLinkRepository(db, logger)
}

func NewOrderRepository(db *postgres.DB, logger *logger.Logger) order.Repository {
	return postgresRepo.NewOrderRepository(db, logger)
}

func NewCouponRepository(db *postgres.DB, logger *logger.Logger) coupon.Repository {
	return postgresRepo.NewCouponRepository(db, logger)
}

func NewTaxRepository(db *postgres.DB, logger *logger.Logger) tax.Repository {
	return postgresRepo.NewTaxRepository(db, logger)
}

func NewCurrencyRepository(db *postgres.DB, logger *logger.Logger) currency.Repository {
	return postgresRepo.NewCurrencyRepository(db, logger)
}
