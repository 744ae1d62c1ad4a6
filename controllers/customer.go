package controllers

import (
	"context"
	"errors"
	"net/http"

	"facturacion-backend/models"
	"facturacion-backend/repository"
	"facturacion-backend/utils"

	"github.com/gin-gonic/gin"
)

type CustomerStore interface {
	Create(ctx context.Context, customer *models.Customer) error
	FindByDocument(ctx context.Context, documento string) (*models.Customer, error)
}

type CreateCustomerInput struct {
	Nombre    string `json:"nombre" binding:"required"`
	Documento string `json:"documento" binding:"required,documento"`
	Direccion string `json:"direccion" binding:"required"`
}

type CustomerController struct {
	customers CustomerStore
}

func NewCustomerController(customers CustomerStore) *CustomerController {
	return &CustomerController{customers: customers}
}

// CreateCustomer registers a customer. Documento must be unique.
func (cc *CustomerController) CreateCustomer(c *gin.Context) {
	var input CreateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondWithBindError(c, err)
		return
	}

	// Stored as typed; lookups by documento are exact matches.
	customer := models.Customer{
		Nombre:    input.Nombre,
		Documento: input.Documento,
		Direccion: input.Direccion,
	}
	if err := cc.customers.Create(c.Request.Context(), &customer); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			utils.RespondWithError(c, http.StatusConflict, "Ya existe un cliente con ese documento")
			return
		}
		respondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"mensaje": "Cliente creado",
		"id":      customer.ID,
	})
}

func (cc *CustomerController) GetCustomerByDocument(c *gin.Context) {
	customer, err := cc.customers.FindByDocument(c.Request.Context(), c.Param("documento"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Cliente no encontrado")
			return
		}
		respondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":        customer.ID,
		"nombre":    customer.Nombre,
		"direccion": customer.Direccion,
	})
}
