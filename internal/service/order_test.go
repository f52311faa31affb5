package service

import (
	"testing"

	"github.com/shopbridge/mollie-gateway/internal/api/dto"
	"github.com/shopbridge/mollie-gateway/internal/domain/order"
	ierr "github.com/shopbridge/mollie-gateway/internal/errors"
	"github.com/shopbridge/mollie-gateway/internal/integration/mollie"
	"github.com/shopbridge/mollie-gateway/internal/testutil"
	"github.com/shopbridge/mollie-gateway/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type OrderServiceSuite struct {
	serviceSuite
	service   OrderService
	shipments ShipmentService
}

func TestOrderService(t *testing.T) {
	suite.Run(t, new(OrderServiceSuite))
}

func (s *OrderServiceSuite) SetupTest() {
	s.serviceSuite.SetupTest()
	s.service = NewOrderService(s.params)
	s.shipments = NewShipmentService(s.params)
}

// seedTwoLineOrder stores an order of two taxed products
func (s *OrderServiceSuite) seedTwoLineOrder(id int) {
	o := s.seedOrder(id, "72.60")
	products := []*order.Product{
		{OrderProductID: id*10 + 1, ProductID: 7, Name: "Beans", Quantity: decimal.NewFromInt(2), Price: d("10"), Tax: d("2.10"), Total: d("20"), Subtract: true},
		{OrderProductID: id*10 + 2, ProductID: 8, Name: "Mill", Quantity: decimal.NewFromInt(1), Price: d("40"), Tax: d("8.40"), Total: d("40"), Subtract: true},
	}
	totals := []*order.Total{
		{Code: TotalCodeSubTotal, Title: "Sub-Total", Value: d("60"), SortOrder: 1},
		{Code: TotalCodeShipping, Title: "Flat rate", Value: d("0"), SortOrder: 3},
		{Code: TotalCodeTax, Title: "VAT 21%", Value: d("12.60"), SortOrder: 5},
		{Code: TotalCodeTotal, Title: "Total", Value: d("72.60"), SortOrder: 9},
	}
	s.GetStores().OrderRepo.Seed(o, products, totals)
}

func (s *OrderServiceSuite) TestCreditWholeOrder() {
	s.seedTwoLineOrder(120)

	resp, err := s.service.CreditOrder(s.GetContext(), 120, &dto.CreditOrderRequest{})
	s.Require().NoError(err)
	s.NotZero(resp.CreditOrderID)
	s.True(resp.Total.Equal(d("-72.60")), resp.Total.String())

	credit := s.reloadOrder(resp.CreditOrderID)
	s.Equal(testutil.StatusPending, credit.OrderStatusID)
	s.Equal("Anna@Example.test", credit.Email)

	products, err := s.GetStores().OrderRepo.ListProducts(s.GetContext(), resp.CreditOrderID)
	s.Require().NoError(err)
	s.Require().Len(products, 2)
	s.True(products[0].Quantity.Equal(decimal.NewFromInt(-2)))
	s.True(products[0].Total.Equal(d("-20")))
	s.True(products[0].StockMutation)

	totals, err := s.GetStores().OrderRepo.ListTotals(s.GetContext(), resp.CreditOrderID)
	s.Require().NoError(err)
	s.Require().Len(totals, 3)
	value, ok := order.TotalValue(totals, TotalCodeTax)
	s.True(ok)
	s.True(value.Equal(d("-12.60")))

	history := s.GetStores().OrderRepo.History(resp.CreditOrderID)
	s.Require().Len(history, 1)
	s.Equal("Credit order for order #120", history[0].Comment)

	// the original order is untouched
	s.Equal(testutil.StatusPending, s.reloadOrder(120).OrderStatusID)
	s.Empty(s.GetStores().OrderRepo.History(120))
}

func (s *OrderServiceSuite) TestCreditSelectedLines() {
	s.seedTwoLineOrder(121)

	resp, err := s.service.CreditOrder(s.GetContext(), 121, &dto.CreditOrderRequest{
		Lines: []dto.CreditLineRequest{
			{OrderProductID: 1211, Quantity: 1},
			{OrderProductID: 1212, Quantity: 0},
		},
	})
	s.Require().NoError(err)
	s.True(resp.Total.Equal(d("-12.10")), resp.Total.String())

	products, err := s.GetStores().OrderRepo.ListProducts(s.GetContext(), resp.CreditOrderID)
	s.Require().NoError(err)
	s.Require().Len(products, 1)
	s.Equal("Beans", products[0].Name)
	s.False(products[0].StockMutation)
}

func (s *OrderServiceSuite) TestCreditUnknownLines() {
	s.seedTwoLineOrder(122)

	_, err := s.service.CreditOrder(s.GetContext(), 122, &dto.CreditOrderRequest{
		Lines: []dto.CreditLineRequest{{OrderProductID: 999, Quantity: 1}},
	})
	s.True(ierr.IsValidation(err))
}

func (s *OrderServiceSuite) TestListHistoryStatuses() {
	o := s.seedOrder(123, "10.00")
	s.Require().NoError(s.params.addHistory(s.GetContext(), o, testutil.StatusProcessing, "", false))
	s.Require().NoError(s.params.addHistory(s.GetContext(), o, testutil.StatusShipped, "", false))
	s.Require().NoError(s.params.addHistory(s.GetContext(), o, testutil.StatusProcessing, "", false))

	resp, err := s.service.ListHistoryStatuses(s.GetContext(), 123)
	s.Require().NoError(err)
	s.ElementsMatch([]int{testutil.StatusProcessing, testutil.StatusShipped}, resp.StatusIDs)
}

func (s *OrderServiceSuite) TestStockRebalance() {
	s.seedTwoLineOrder(124)
	s.Require().NoError(s.GetStores().OrderRepo.SetStockMutation(s.GetContext(), 1242, true))
	ctx := s.GetContext()

	// pending to processing takes stock
	s.Require().NoError(s.service.AdjustStockOnStatusChange(ctx, 124, &dto.StatusChangeRequest{
		PreviousStatusID: testutil.StatusPending,
		OrderStatusID:    testutil.StatusProcessing,
	}))
	s.True(s.GetStores().OrderRepo.Stock(7).Equal(decimal.NewFromInt(2)))
	s.True(s.GetStores().OrderRepo.Stock(8).IsZero())

	// moving between active statuses does nothing
	s.Require().NoError(s.service.AdjustStockOnStatusChange(ctx, 124, &dto.StatusChangeRequest{
		PreviousStatusID: testutil.StatusProcessing,
		OrderStatusID:    testutil.StatusComplete,
	}))
	s.True(s.GetStores().OrderRepo.Stock(7).Equal(decimal.NewFromInt(2)))

	s.Require().NoError(s.service.AdjustStockOnStatusChange(ctx, 124, &dto.StatusChangeRequest{
		PreviousStatusID: testutil.StatusComplete,
		OrderStatusID:    testutil.StatusCanceled,
	}))
	s.True(s.GetStores().OrderRepo.Stock(7).IsZero())

	err := s.service.AdjustStockOnStatusChange(ctx, 124, &dto.StatusChangeRequest{})
	s.True(ierr.IsValidation(err))
}

// paidRemoteOrder checks out an order and marks its remote order paid
func (s *OrderServiceSuite) paidRemoteOrder(orderID int) string {
	s.seedOrder(orderID, "30.00")
	resp, err := NewCheckoutService(s.params).CreatePayment(s.GetContext(), orderID, &dto.CreatePaymentRequest{Method: "ideal"})
	s.Require().NoError(err)
	s.GetGateway().Orders[resp.MollieID].Status = types.PaymentStatusAuthorized
	return resp.MollieID
}

func (s *OrderServiceSuite) TestShipmentOnCompleteStatus() {
	id := s.paidRemoteOrder(125)

	resp, err := s.shipments.OnStatusChange(s.GetContext(), 125, &dto.StatusChangeRequest{OrderStatusID: testutil.StatusShipped})
	s.Require().NoError(err)
	s.False(resp.Created)

	resp, err = s.shipments.OnStatusChange(s.GetContext(), 125, &dto.StatusChangeRequest{OrderStatusID: testutil.StatusComplete})
	s.Require().NoError(err)
	s.True(resp.Created)
	s.NotEmpty(resp.ShipmentID)

	calls := s.GetGateway().CallsTo("CreateShipment")
	s.Require().Len(calls, 1)
	req := calls[0].Request.(*mollie.CreateShipmentRequest)
	s.Require().Len(req.Lines, 1)
	s.Equal("odl_"+id+"_1", req.Lines[0].ID)
}

func (s *OrderServiceSuite) TestShipmentOnConfiguredStatus() {
	s.GetConfig().Store.CreateShipment = int(types.ShipmentModeOnStatus)
	s.GetConfig().Store.CreateShipmentStatusID = testutil.StatusShipped
	s.paidRemoteOrder(126)

	resp, err := s.shipments.OnStatusChange(s.GetContext(), 126, &dto.StatusChangeRequest{OrderStatusID: testutil.StatusComplete})
	s.Require().NoError(err)
	s.False(resp.Created)

	resp, err = s.shipments.OnStatusChange(s.GetContext(), 126, &dto.StatusChangeRequest{OrderStatusID: testutil.StatusShipped})
	s.Require().NoError(err)
	s.True(resp.Created)
}

func (s *OrderServiceSuite) TestShipmentSkipsUnpaidAndPaymentResources() {
	s.seedOrder(127, "30.00")
	_, err := NewCheckoutService(s.params).CreatePayment(s.GetContext(), 127, &dto.CreatePaymentRequest{Method: "ideal"})
	s.Require().NoError(err)

	resp, err := s.shipments.OnStatusChange(s.GetContext(), 127, &dto.StatusChangeRequest{OrderStatusID: testutil.StatusComplete})
	s.Require().NoError(err)
	s.False(resp.Created)

	s.GetConfig().Store.UsePaymentsAPI = true
	s.seedOrder(128, "30.00")
	_, err = NewCheckoutService(s.params).CreatePayment(s.GetContext(), 128, &dto.CreatePaymentRequest{Method: "ideal"})
	s.Require().NoError(err)

	resp, err = s.shipments.OnStatusChange(s.GetContext(), 128, &dto.StatusChangeRequest{OrderStatusID: testutil.StatusComplete})
	s.Require().NoError(err)
	s.False(resp.Created)

	s.Empty(s.GetGateway().CallsTo("CreateShipment"))
}
