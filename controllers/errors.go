package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"facturacion-backend/logger"
	"facturacion-backend/repository"
	"facturacion-backend/services"
	"facturacion-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// respondWithServiceError maps service and repository errors to a status and
// a message safe to show the operator. Anything unrecognised is logged and
// reported as a 500.
func respondWithServiceError(c *gin.Context, err error) {
	log := logger.FromGin(c)

	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.RespondWithError(c, http.StatusBadRequest, "Credenciales inválidas")
	case errors.Is(err, services.ErrInvalidToken):
		c.Header("WWW-Authenticate", "Bearer")
		utils.RespondWithError(c, http.StatusUnauthorized, "Token inválido")
	case errors.Is(err, services.ErrEmptyInvoice):
		utils.RespondWithError(c, http.StatusBadRequest, "La factura debe tener al menos un artículo")
	case errors.Is(err, services.ErrInvalidLine):
		utils.RespondWithError(c, http.StatusBadRequest, "Artículo inválido: "+err.Error())
	case errors.Is(err, repository.ErrNotFound):
		utils.RespondWithError(c, http.StatusNotFound, "Registro no encontrado")
	case errors.Is(err, repository.ErrReferentialIntegrity):
		utils.RespondWithError(c, http.StatusBadRequest, "Cliente o producto inexistente")
	case errors.Is(err, repository.ErrDuplicate):
		utils.RespondWithError(c, http.StatusConflict, "El registro ya existe")
	case errors.Is(err, repository.ErrUnavailable):
		log.Error("database unavailable", zap.Error(err))
		utils.RespondWithError(c, http.StatusServiceUnavailable, "Servicio no disponible")
	default:
		log.Error("unexpected error", zap.Error(err))
		utils.RespondWithError(c, http.StatusInternalServerError, "Error interno del servidor")
	}
}

// respondWithBindError names the offending JSON field at most. Decoder and
// validator messages carry Go type names and stay in the debug log.
func respondWithBindError(c *gin.Context, err error) {
	logger.FromGin(c).Debug("request binding failed", zap.Error(err))

	msg := "Datos inválidos"
	if field := invalidField(err); field != "" {
		msg += ": campo '" + field + "'"
	}
	utils.RespondWithError(c, http.StatusBadRequest, msg)
}

func invalidField(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0].Field()
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return typeErr.Field
	}
	return ""
}
