package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/navafv/familyplus/internal/models"
	"github.com/navafv/familyplus/internal/repository"
)

var ErrOrderNotPaid = errors.New("order is not paid yet")

// ReceiptService renders PDF receipts for paid orders
type ReceiptService struct {
	orders    repository.OrderRepositoryInterface
	storeName string
}

// NewReceiptService creates a receipt service
func NewReceiptService(orders repository.OrderRepositoryInterface, storeName string) *ReceiptService {
	return &ReceiptService{orders: orders, storeName: storeName}
}

// ReceiptFilename is the download name of an order's receipt
func ReceiptFilename(orderNumber string) string {
	return fmt.Sprintf("receipt-%s.pdf", orderNumber)
}

// GenerateReceipt builds the PDF receipt of a paid order. Orders of other
// users are reported as not found.
func (s *ReceiptService) GenerateReceipt(ctx context.Context, userID, orderNumber string) ([]byte, error) {
	if userID == "" {
		return nil, ErrUserRequired
	}
	order, err := s.orders.GetOrderByNumber(ctx, strings.TrimSpace(orderNumber))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order.UserID != userID {
		return nil, ErrOrderNotFound
	}
	if !order.IsOrdered {
		return nil, ErrOrderNotPaid
	}
	return s.renderPDF(order)
}

func (s *ReceiptService) renderPDF(order *models.Order) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageNumber().
		WithLeftMargin(10).
		WithTopMargin(15).
		WithRightMargin(10).
		Build()

	m := maroto.New(cfg)

	s.addHeader(m, order)
	s.addCustomer(m, order)
	s.addItems(m, order)
	s.addTotals(m, order)

	pdfDoc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return pdfDoc.GetBytes(), nil
}

func (s *ReceiptService) addHeader(m core.Maroto, order *models.Order) {
	m.AddRow(20,
		col.New(6).Add(
			text.New(s.storeName, props.Text{Size: 16, Style: fontstyle.Bold, Align: align.Left}),
		),
		col.New(6).Add(
			text.New("RECEIPT", props.Text{Size: 20, Style: fontstyle.Bold, Align: align.Right}),
			text.New(fmt.Sprintf("# %s", order.OrderNumber), props.Text{Size: 10, Top: 9, Align: align.Right}),
		),
	)
	m.AddRow(5, line.NewCol(12))

	status := ""
	method := ""
	if order.Payment != nil {
		status = order.Payment.Status
		method = order.Payment.PaymentMethod
	}
	m.AddRow(14,
		col.New(6).Add(
			text.New(fmt.Sprintf("Order #: %s", order.OrderNumber), props.Text{Size: 10, Align: align.Left}),
			text.New(fmt.Sprintf("Date: %s", order.CreatedAt.Format("Jan 02, 2006")), props.Text{Size: 10, Top: 5, Align: align.Left}),
		),
		col.New(6).Add(
			text.New(fmt.Sprintf("Payment: %s", method), props.Text{Size: 10, Align: align.Right}),
			text.New(fmt.Sprintf("Status: %s", status), props.Text{Size: 10, Top: 5, Align: align.Right}),
		),
	)
}

func (s *ReceiptService) addCustomer(m core.Maroto, order *models.Order) {
	shipTo := strings.Join([]string{
		order.FullAddress(),
		fmt.Sprintf("%s, %s, %s", order.City, order.State, order.Country),
	}, "\n")

	m.AddRow(26,
		col.New(6).Add(
			text.New("BILL TO:", props.Text{Size: 10, Style: fontstyle.Bold}),
			text.New(order.FullName(), props.Text{Size: 10, Top: 5}),
			text.New(order.Email, props.Text{Size: 9, Top: 10}),
			text.New(order.Phone, props.Text{Size: 9, Top: 15}),
		),
		col.New(6).Add(
			text.New("SHIP TO:", props.Text{Size: 10, Style: fontstyle.Bold}),
			text.New(shipTo, props.Text{Size: 9, Top: 5}),
		),
	)
	if order.OrderNote != "" {
		m.AddRow(8, col.New(12).Add(
			text.New("Note: "+order.OrderNote, props.Text{Size: 9, Style: fontstyle.Italic}),
		))
	}
	m.AddRow(5, line.NewCol(12))
}

func (s *ReceiptService) addItems(m core.Maroto, order *models.Order) {
	header := props.Text{Size: 10, Style: fontstyle.Bold}
	m.AddRow(8,
		col.New(7).Add(text.New("Item", header)),
		col.New(1).Add(text.New("Qty", props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Center})),
		col.New(2).Add(text.New("Price", props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right})),
		col.New(2).Add(text.New("Total", props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right})),
	)
	m.AddRow(2, line.NewCol(12))

	for _, item := range order.Items {
		name := fmt.Sprintf("Product %d", item.ProductID)
		if item.Product != nil {
			name = item.Product.Name
		}
		rowHeight := 8.0
		if len(item.VariationLabels) > 0 {
			name += "\n" + strings.Join(item.VariationLabels, ", ")
			rowHeight = 12
		}

		m.AddRow(rowHeight,
			col.New(7).Add(text.New(name, props.Text{Size: 9})),
			col.New(1).Add(text.New(fmt.Sprintf("%d", item.Quantity), props.Text{Size: 9, Align: align.Center})),
			col.New(2).Add(text.New(formatAmount(item.ProductPrice), props.Text{Size: 9, Align: align.Right})),
			col.New(2).Add(text.New(formatAmount(item.LineTotal()), props.Text{Size: 9, Align: align.Right})),
		)
	}
	m.AddRow(3, line.NewCol(12))
}

func (s *ReceiptService) addTotals(m core.Maroto, order *models.Order) {
	var subtotal int64
	for i := range order.Items {
		subtotal += order.Items[i].LineTotal()
	}

	rows := []struct {
		label string
		value int64
	}{
		{"Subtotal:", subtotal},
		{"Shipping:", order.Shipping},
	}
	for _, r := range rows {
		m.AddRow(6,
			col.New(8),
			col.New(2).Add(text.New(r.label, props.Text{Size: 10, Align: align.Right})),
			col.New(2).Add(text.New(formatAmount(r.value), props.Text{Size: 10, Align: align.Right})),
		)
	}

	m.AddRow(2, col.New(8), line.NewCol(4))
	m.AddRow(8,
		col.New(8),
		col.New(2).Add(text.New("TOTAL:", props.Text{Size: 12, Style: fontstyle.Bold, Align: align.Right})),
		col.New(2).Add(text.New(formatAmount(order.OrderTotal), props.Text{Size: 12, Style: fontstyle.Bold, Align: align.Right})),
	)
}
