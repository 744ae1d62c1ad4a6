package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"facturacion-backend/logger"
	"facturacion-backend/metrics"
	"facturacion-backend/models"
	"facturacion-backend/services"
	"facturacion-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type InvoiceCreator interface {
	CreateInvoice(ctx context.Context, in services.InvoiceInput) (*models.Invoice, error)
}

type InvoiceFinder interface {
	FindByID(ctx context.Context, id uint) (*models.Invoice, error)
}

type InvoiceItemInput struct {
	ProductoID     uint             `json:"producto_id" binding:"required"`
	Cantidad       int              `json:"cantidad" binding:"required,gt=0"`
	PrecioUnitario *decimal.Decimal `json:"precio_unitario" binding:"required"`
}

// CreateInvoiceInput mirrors the sale form. Missing monto_recibido and
// descuento count as zero.
type CreateInvoiceInput struct {
	ClienteID     uint               `json:"cliente_id" binding:"required"`
	MetodoPago    string             `json:"metodo_pago" binding:"required"`
	MontoRecibido *decimal.Decimal   `json:"monto_recibido"`
	Descuento     *decimal.Decimal   `json:"descuento"`
	Items         []InvoiceItemInput `json:"items" binding:"required,min=1,dive"`
}

type InvoiceLineResponse struct {
	ID             uint    `json:"id"`
	ProductoID     uint    `json:"producto_id"`
	Cantidad       int     `json:"cantidad"`
	PrecioUnitario float64 `json:"precio_unitario"`
	Total          float64 `json:"total"`
}

type InvoiceResponse struct {
	ID            uint                  `json:"id"`
	ClienteID     uint                  `json:"cliente_id"`
	Fecha         time.Time             `json:"fecha"`
	Subtotal      float64               `json:"subtotal"`
	Descuento     float64               `json:"descuento"`
	Itbis         float64               `json:"itbis"`
	Total         float64               `json:"total"`
	MetodoPago    string                `json:"metodo_pago"`
	MontoRecibido float64               `json:"monto_recibido"`
	Cambio        float64               `json:"cambio"`
	Items         []InvoiceLineResponse `json:"items"`
}

type InvoiceController struct {
	engine   InvoiceCreator
	invoices InvoiceFinder
}

func NewInvoiceController(engine InvoiceCreator, invoices InvoiceFinder) *InvoiceController {
	return &InvoiceController{engine: engine, invoices: invoices}
}

// CreateInvoice computes totals server-side and stores header and items in
// one transaction.
func (ic *InvoiceController) CreateInvoice(c *gin.Context) {
	var input CreateInvoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondWithBindError(c, err)
		return
	}

	in := services.InvoiceInput{
		ClienteID:  input.ClienteID,
		MetodoPago: input.MetodoPago,
		Lines:      make([]services.LineInput, len(input.Items)),
	}
	if input.MontoRecibido != nil {
		in.MontoRecibido = *input.MontoRecibido
	}
	if input.Descuento != nil {
		in.Descuento = *input.Descuento
	}
	for i, item := range input.Items {
		in.Lines[i] = services.LineInput{
			ProductoID:     item.ProductoID,
			Cantidad:       item.Cantidad,
			PrecioUnitario: *item.PrecioUnitario,
		}
	}

	invoice, err := ic.engine.CreateInvoice(c.Request.Context(), in)
	if err != nil {
		respondWithServiceError(c, err)
		return
	}

	metrics.RecordInvoice(services.IsCashPayment(invoice.MetodoPago), invoice.Total)
	logger.FromGin(c).Info("invoice created",
		zap.Uint("factura_id", invoice.ID),
		zap.Uint("cliente_id", invoice.ClienteID),
		zap.String("total", invoice.Total.String()),
	)

	c.JSON(http.StatusCreated, gin.H{
		"mensaje":    "Factura creada",
		"factura_id": invoice.ID,
		"total":      invoice.Total.InexactFloat64(),
		"cambio":     invoice.Cambio.InexactFloat64(),
	})
}

func (ic *InvoiceController) GetInvoice(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "ID de factura inválido")
		return
	}

	invoice, err := ic.invoices.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		respondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toInvoiceResponse(invoice))
}

func toInvoiceResponse(inv *models.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		ID:            inv.ID,
		ClienteID:     inv.ClienteID,
		Fecha:         inv.Fecha,
		Subtotal:      inv.Subtotal.InexactFloat64(),
		Descuento:     inv.Descuento.InexactFloat64(),
		Itbis:         inv.Itbis.InexactFloat64(),
		Total:         inv.Total.InexactFloat64(),
		MetodoPago:    inv.MetodoPago,
		MontoRecibido: inv.MontoRecibido.InexactFloat64(),
		Cambio:        inv.Cambio.InexactFloat64(),
		Items:         make([]InvoiceLineResponse, len(inv.Lines)),
	}
	for i, l := range inv.Lines {
		resp.Items[i] = InvoiceLineResponse{
			ID:             l.ID,
			ProductoID:     l.ProductoID,
			Cantidad:       l.Cantidad,
			PrecioUnitario: l.PrecioUnitario.InexactFloat64(),
			Total:          l.Total.InexactFloat64(),
		}
	}
	return resp
}
