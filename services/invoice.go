package services

import (
	"context"
	"fmt"
	"strings"

	"facturacion-backend/models"

	"github.com/shopspring/decimal"
)

// TaxRate is the ITBIS rate applied to the discounted subtotal.
var TaxRate = decimal.RequireFromString("0.18")

// Payment methods that produce change. Compared case-insensitively.
var cashMethods = []string{"efectivo", "cash"}

type LineInput struct {
	ProductoID     uint
	Cantidad       int
	PrecioUnitario decimal.Decimal
}

// InvoiceInput is a sale as submitted by the operator. Descuento and
// MontoRecibido are zero when the client omits them.
type InvoiceInput struct {
	ClienteID     uint
	MetodoPago    string
	MontoRecibido decimal.Decimal
	Descuento     decimal.Decimal
	Lines         []LineInput
}

type Totals struct {
	Subtotal   decimal.Decimal
	Descuento  decimal.Decimal
	Itbis      decimal.Decimal
	Total      decimal.Decimal
	Cambio     decimal.Decimal
	LineTotals []decimal.Decimal
}

// IsCashPayment reports whether change is owed for the payment method.
func IsCashPayment(method string) bool {
	for _, m := range cashMethods {
		if strings.EqualFold(method, m) {
			return true
		}
	}
	return false
}

// Calculate derives the invoice amounts:
//
//	subtotal = Σ cantidad × precio_unitario
//	itbis    = (subtotal − descuento) × TaxRate
//	total    = subtotal − descuento + itbis
//	cambio   = monto_recibido − total for cash, 0 otherwise
//
// A discount above the subtotal or a cash payment below the total yields
// negative amounts; they are returned as computed.
func Calculate(in InvoiceInput) (Totals, error) {
	if len(in.Lines) == 0 {
		return Totals{}, ErrEmptyInvoice
	}

	t := Totals{
		Subtotal:   decimal.Zero,
		Descuento:  in.Descuento,
		Cambio:     decimal.Zero,
		LineTotals: make([]decimal.Decimal, len(in.Lines)),
	}
	for i, l := range in.Lines {
		if l.Cantidad <= 0 {
			return Totals{}, fmt.Errorf("%w: item %d: cantidad must be positive", ErrInvalidLine, i+1)
		}
		if l.PrecioUnitario.IsNegative() {
			return Totals{}, fmt.Errorf("%w: item %d: precio_unitario must not be negative", ErrInvalidLine, i+1)
		}
		lineTotal := l.PrecioUnitario.Mul(decimal.NewFromInt(int64(l.Cantidad)))
		t.LineTotals[i] = lineTotal
		t.Subtotal = t.Subtotal.Add(lineTotal)
	}

	taxable := t.Subtotal.Sub(t.Descuento)
	t.Itbis = taxable.Mul(TaxRate)
	t.Total = taxable.Add(t.Itbis)
	if IsCashPayment(in.MetodoPago) {
		t.Cambio = in.MontoRecibido.Sub(t.Total)
	}
	return t, nil
}

// InvoiceStore persists an invoice header and its lines atomically.
type InvoiceStore interface {
	CreateInvoice(ctx context.Context, invoice *models.Invoice) error
}

type InvoiceEngine struct {
	store InvoiceStore
}

func NewInvoiceEngine(store InvoiceStore) *InvoiceEngine {
	return &InvoiceEngine{store: store}
}

// CreateInvoice computes the totals and stores the invoice. The returned
// invoice carries the generated ID and timestamp. Store errors are returned
// unchanged; nothing is persisted when one occurs.
func (e *InvoiceEngine) CreateInvoice(ctx context.Context, in InvoiceInput) (*models.Invoice, error) {
	totals, err := Calculate(in)
	if err != nil {
		return nil, err
	}

	invoice := &models.Invoice{
		ClienteID:     in.ClienteID,
		Subtotal:      totals.Subtotal,
		Descuento:     totals.Descuento,
		Itbis:         totals.Itbis,
		Total:         totals.Total,
		MetodoPago:    in.MetodoPago,
		MontoRecibido: in.MontoRecibido,
		Cambio:        totals.Cambio,
		Lines:         make([]models.InvoiceLine, len(in.Lines)),
	}
	for i, l := range in.Lines {
		invoice.Lines[i] = models.InvoiceLine{
			ProductoID:     l.ProductoID,
			Cantidad:       l.Cantidad,
			PrecioUnitario: l.PrecioUnitario,
			Total:          totals.LineTotals[i],
		}
	}

	if err := e.store.CreateInvoice(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}
