package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/tallerix/taller-backend/internal/app/service"
	apperrors "github.com/tallerix/taller-backend/internal/errors"
	"github.com/tallerix/taller-backend/internal/middleware"
)

type MaterialController struct {
	materialService service.MaterialService
}

func NewMaterialController(materialService service.MaterialService) *MaterialController {
	return &MaterialController{
		materialService: materialService,
	}
}

type CreateMaterialRequest struct {
	Name           string          `json:"name" binding:"required"`
	PurchasePrice  decimal.Decimal `json:"purchase_price"`
	MaterialTypeID uint            `json:"material_type_id" binding:"required"`
}

type UpdateMaterialRequest struct {
	Name           *string          `json:"name"`
	PurchasePrice  *decimal.Decimal `json:"purchase_price"`
	MaterialTypeID *uint            `json:"material_type_id"`
}

// ListMaterials returns the material catalog
// GET /api/v1/materials
func (ctrl *MaterialController) ListMaterials(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	materials, err := ctrl.materialService.ListMaterials()
	if err != nil {
		log.Error("Failed to list materials", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"materials": materials,
		"count":     len(materials),
	})
}

// ListMaterialTypes returns the costing modes
// GET /api/v1/material-types
func (ctrl *MaterialController) ListMaterialTypes(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	types, err := ctrl.materialService.ListMaterialTypes()
	if err != nil {
		log.Error("Failed to list material types", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"material_types": types})
}

// CreateMaterial adds a material to the catalog
// POST /api/v1/materials
func (ctrl *MaterialController) CreateMaterial(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	material, err := ctrl.materialService.CreateMaterial(req.Name, req.PurchasePrice, req.MaterialTypeID)
	if err != nil {
		if errors.Is(err, service.ErrMaterialTypeNotFound) {
			apperrors.NotFound(c, apperrors.MaterialTypeNotFound, "No se encontró el tipo de material")
			return
		}
		log.Error("Failed to create material", err, nil)
		apperrors.ParseAndRespond(c, err, "material")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"material": material})
}

// GetMaterial returns one material
// GET /api/v1/materials/:id
func (ctrl *MaterialController) GetMaterial(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	material, err := ctrl.materialService.GetMaterial(id)
	if err != nil {
		if errors.Is(err, service.ErrMaterialNotFound) {
			apperrors.NotFound(c, apperrors.MaterialNotFound, "No se encontró el material")
			return
		}
		log.Error("Failed to fetch material", err, map[string]interface{}{
			"material_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"material": material})
}

// UpdateMaterial edits a material; a price or type change cascades the
// recompute to every accessory that references it
// PUT /api/v1/materials/:id
func (ctrl *MaterialController) UpdateMaterial(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	var req UpdateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	material, err := ctrl.materialService.UpdateMaterial(id, service.UpdateMaterialInput{
		Name:           req.Name,
		PurchasePrice:  req.PurchasePrice,
		MaterialTypeID: req.MaterialTypeID,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMaterialNotFound):
			apperrors.NotFound(c, apperrors.MaterialNotFound, "No se encontró el material")
		case errors.Is(err, service.ErrMaterialTypeNotFound):
			apperrors.NotFound(c, apperrors.MaterialTypeNotFound, "No se encontró el tipo de material")
		default:
			log.Error("Failed to update material", err, map[string]interface{}{
				"material_id": id,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"material": material})
}

// DeleteMaterial removes a material from the catalog
// DELETE /api/v1/materials/:id
func (ctrl *MaterialController) DeleteMaterial(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	if err := ctrl.materialService.DeleteMaterial(id); err != nil {
		if errors.Is(err, service.ErrMaterialNotFound) {
			apperrors.NotFound(c, apperrors.MaterialNotFound, "No se encontró el material")
			return
		}
		log.Error("Failed to delete material", err, map[string]interface{}{
			"material_id": id,
		})
		apperrors.ParseAndRespond(c, err, "material")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Material eliminado"})
}
