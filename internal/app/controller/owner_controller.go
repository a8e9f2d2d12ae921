package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/tallerix/taller-backend/internal/app/service"
	apperrors "github.com/tallerix/taller-backend/internal/errors"
	"github.com/tallerix/taller-backend/internal/middleware"
)

type OwnerController struct {
	ownerService service.OwnerCompanyService
}

func NewOwnerController(ownerService service.OwnerCompanyService) *OwnerController {
	return &OwnerController{
		ownerService: ownerService,
	}
}

type CreateOwnerRequest struct {
	Name             string          `json:"name" binding:"required"`
	ProfitPercentage decimal.Decimal `json:"profit_percentage"`
}

type UpdateProfitRequest struct {
	ProfitPercentage decimal.Decimal `json:"profit_percentage"`
}

// CreateOwner registers an owner company
// POST /api/v1/owners
func (ctrl *OwnerController) CreateOwner(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateOwnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	owner, err := ctrl.ownerService.CreateOwner(req.Name, req.ProfitPercentage)
	if err != nil {
		if errors.Is(err, service.ErrInvalidProfitPercentage) {
			apperrors.BadRequest(c, apperrors.OwnerInvalidProfit, "El porcentaje de utilidad no puede ser negativo")
			return
		}
		log.Error("Failed to create owner company", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"owner": owner})
}

// GetOwner returns one owner company
// GET /api/v1/owners/:id
func (ctrl *OwnerController) GetOwner(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	owner, err := ctrl.ownerService.GetOwner(id)
	if err != nil {
		if errors.Is(err, service.ErrOwnerNotFound) {
			apperrors.NotFound(c, apperrors.OwnerNotFound, "No se encontró la empresa propietaria")
			return
		}
		log.Error("Failed to fetch owner company", err, map[string]interface{}{
			"owner_company_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"owner": owner})
}

// UpdateProfit updates the owner's profit percentage and cascades the
// recompute across its catalog
// PUT /api/v1/owners/:id/profit
func (ctrl *OwnerController) UpdateProfit(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	var req UpdateProfitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	owner, err := ctrl.ownerService.UpdateProfitPercentage(id, req.ProfitPercentage)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOwnerNotFound):
			apperrors.NotFound(c, apperrors.OwnerNotFound, "No se encontró la empresa propietaria")
		case errors.Is(err, service.ErrInvalidProfitPercentage):
			apperrors.BadRequest(c, apperrors.OwnerInvalidProfit, "El porcentaje de utilidad no puede ser negativo")
		default:
			log.Error("Failed to update profit percentage", err, map[string]interface{}{
				"owner_company_id": id,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"owner": owner})
}

// parseIDParam reads a positive integer path parameter, answering the request
// itself when the value is malformed.
func parseIDParam(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "El identificador no es válido")
		return 0, errors.New("invalid id param")
	}
	return uint(id), nil
}

// bindingError answers a failed ShouldBindJSON, listing the offending fields
// when the binder reports per-field validation errors.
func bindingError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[strings.ToLower(fe.Field())] = fmt.Sprintf("no cumple la regla '%s'", fe.Tag())
		}
		apperrors.RespondWithValidationError(c, fields)
		return
	}
	apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Los datos enviados no son válidos")
}
