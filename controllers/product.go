package controllers

import (
	"context"
	"net/http"
	"strings"

	"facturacion-backend/models"
	"facturacion-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type ProductStore interface {
	Create(ctx context.Context, product *models.Product) error
	List(ctx context.Context) ([]models.Product, error)
}

type CreateProductInput struct {
	Nombre string           `json:"nombre" binding:"required"`
	Precio *decimal.Decimal `json:"precio" binding:"required"`
}

type ProductResponse struct {
	ID     uint    `json:"id"`
	Nombre string  `json:"nombre"`
	Precio float64 `json:"precio"`
}

type ProductController struct {
	products ProductStore
}

func NewProductController(products ProductStore) *ProductController {
	return &ProductController{products: products}
}

func (pc *ProductController) CreateProduct(c *gin.Context) {
	var input CreateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondWithBindError(c, err)
		return
	}
	if input.Precio.IsNegative() {
		utils.RespondWithError(c, http.StatusBadRequest, "El precio no puede ser negativo")
		return
	}

	product := models.Product{
		Nombre: strings.TrimSpace(input.Nombre),
		Precio: *input.Precio,
	}
	if err := pc.products.Create(c.Request.Context(), &product); err != nil {
		respondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"mensaje": "Producto creado",
		"id":      product.ID,
	})
}

// ListProducts returns the whole catalogue, an empty array when there is none.
func (pc *ProductController) ListProducts(c *gin.Context) {
	products, err := pc.products.List(c.Request.Context())
	if err != nil {
		respondWithServiceError(c, err)
		return
	}

	out := make([]ProductResponse, len(products))
	for i, p := range products {
		out[i] = ProductResponse{ID: p.ID, Nombre: p.Nombre, Precio: p.Precio.InexactFloat64()}
	}
	c.JSON(http.StatusOK, out)
}
