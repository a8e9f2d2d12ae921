package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/tallerix/taller-backend/internal/app/service"
	apperrors "github.com/tallerix/taller-backend/internal/errors"
	"github.com/tallerix/taller-backend/internal/middleware"
)

type AccessoryController struct {
	accessoryService service.AccessoryService
	linkService      service.AccessoryMaterialService
	componentService service.ComponentService
}

func NewAccessoryController(
	accessoryService service.AccessoryService,
	linkService service.AccessoryMaterialService,
	componentService service.ComponentService,
) *AccessoryController {
	return &AccessoryController{
		accessoryService: accessoryService,
		linkService:      linkService,
		componentService: componentService,
	}
}

type CreateAccessoryRequest struct {
	Name           string `json:"name" binding:"required"`
	Description    string `json:"description"`
	OwnerCompanyID uint   `json:"owner_company_id" binding:"required"`
}

type UpdateAccessoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type AddMaterialRequest struct {
	MaterialID uint             `json:"material_id" binding:"required"`
	Quantity   decimal.Decimal  `json:"quantity"`
	Width      *decimal.Decimal `json:"width"`
	Length     *decimal.Decimal `json:"length"`
}

type ReplaceComponentsRequest struct {
	Components []service.ComponentInput `json:"components"`
}

// ListAccessories returns an owner's accessories
// GET /api/v1/accessories?owner_id=N
func (ctrl *AccessoryController) ListAccessories(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	ownerID, err := strconv.ParseUint(c.Query("owner_id"), 10, 32)
	if err != nil || ownerID == 0 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "El parámetro owner_id no es válido")
		return
	}

	accessories, err := ctrl.accessoryService.ListAccessories(uint(ownerID))
	if err != nil {
		log.Error("Failed to list accessories", err, map[string]interface{}{
			"owner_company_id": ownerID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accessories": accessories,
		"count":       len(accessories),
	})
}

// CreateAccessory registers an accessory
// POST /api/v1/accessories
func (ctrl *AccessoryController) CreateAccessory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateAccessoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	accessory, err := ctrl.accessoryService.CreateAccessory(req.Name, req.Description, req.OwnerCompanyID)
	if err != nil {
		if errors.Is(err, service.ErrOwnerNotFound) {
			apperrors.NotFound(c, apperrors.OwnerNotFound, "No se encontró la empresa propietaria")
			return
		}
		log.Error("Failed to create accessory", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"accessory": accessory})
}

// GetAccessory returns one accessory
// GET /api/v1/accessories/:id
func (ctrl *AccessoryController) GetAccessory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	accessory, err := ctrl.accessoryService.GetAccessory(id)
	if err != nil {
		if errors.Is(err, service.ErrAccessoryNotFound) {
			apperrors.NotFound(c, apperrors.AccessoryNotFound, "No se encontró el accesorio")
			return
		}
		log.Error("Failed to fetch accessory", err, map[string]interface{}{
			"accessory_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"accessory": accessory})
}

// UpdateAccessory edits name/description
// PUT /api/v1/accessories/:id
func (ctrl *AccessoryController) UpdateAccessory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	var req UpdateAccessoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	accessory, err := ctrl.accessoryService.UpdateAccessory(id, req.Name, req.Description)
	if err != nil {
		if errors.Is(err, service.ErrAccessoryNotFound) {
			apperrors.NotFound(c, apperrors.AccessoryNotFound, "No se encontró el accesorio")
			return
		}
		log.Error("Failed to update accessory", err, map[string]interface{}{
			"accessory_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"accessory": accessory})
}

// DeleteAccessory removes the accessory and its dependent rows
// DELETE /api/v1/accessories/:id
func (ctrl *AccessoryController) DeleteAccessory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	if err := ctrl.accessoryService.DeleteAccessory(id); err != nil {
		if errors.Is(err, service.ErrAccessoryNotFound) {
			apperrors.NotFound(c, apperrors.AccessoryNotFound, "No se encontró el accesorio")
			return
		}
		log.Error("Failed to delete accessory", err, map[string]interface{}{
			"accessory_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Accesorio eliminado"})
}

// GetMaterials lists the accessory's material links with snapshots
// GET /api/v1/accessories/:id/materials
func (ctrl *AccessoryController) GetMaterials(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	links, err := ctrl.linkService.GetMaterialsForAccessory(id)
	if err != nil {
		log.Error("Failed to fetch accessory materials", err, map[string]interface{}{
			"accessory_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"materials": links,
		"count":     len(links),
	})
}

// AddMaterial attaches a material usage to the accessory
// POST /api/v1/accessories/:id/materials
func (ctrl *AccessoryController) AddMaterial(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	var req AddMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	accessory, err := ctrl.accessoryService.GetAccessory(id)
	if err != nil {
		if errors.Is(err, service.ErrAccessoryNotFound) {
			apperrors.NotFound(c, apperrors.AccessoryNotFound, "No se encontró el accesorio")
			return
		}
		log.Error("Failed to fetch accessory", err, map[string]interface{}{
			"accessory_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	link, err := ctrl.linkService.AddMaterialToAccessory(service.AddMaterialInput{
		AccessoryID:    id,
		MaterialID:     req.MaterialID,
		OwnerCompanyID: accessory.OwnerCompanyID,
		Quantity:       req.Quantity,
		Width:          req.Width,
		Length:         req.Length,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMaterialNotFound):
			apperrors.NotFound(c, apperrors.MaterialNotFound, "No se encontró el material")
		case errors.Is(err, service.ErrMaterialTypeNotFound):
			apperrors.NotFound(c, apperrors.MaterialTypeNotFound, "No se encontró el tipo de material")
		case errors.Is(err, service.ErrInvalidQuantity):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "La cantidad no puede ser negativa")
		default:
			log.Error("Failed to add material to accessory", err, map[string]interface{}{
				"accessory_id": id,
				"material_id":  req.MaterialID,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"link": link})
}

// RemoveMaterial detaches a material link. Pricing is not re-aggregated
// automatically; call the recompute endpoint afterwards.
// DELETE /api/v1/accessories/:id/materials/:linkId
func (ctrl *AccessoryController) RemoveMaterial(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	linkID, err := parseIDParam(c, "linkId")
	if err != nil {
		return
	}

	if err := ctrl.linkService.RemoveMaterialFromAccessory(linkID); err != nil {
		if errors.Is(err, service.ErrLinkNotFound) {
			apperrors.NotFound(c, apperrors.AccessoryLinkNotFound, "No se encontró el material del accesorio")
			return
		}
		log.Error("Failed to remove material link", err, map[string]interface{}{
			"link_id": linkID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Material eliminado del accesorio"})
}

// GetComponents returns the component list with on-demand cost/price detail
// GET /api/v1/accessories/:id/components
func (ctrl *AccessoryController) GetComponents(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	accessory, err := ctrl.accessoryService.GetAccessory(id)
	if err != nil {
		if errors.Is(err, service.ErrAccessoryNotFound) {
			apperrors.NotFound(c, apperrors.AccessoryNotFound, "No se encontró el accesorio")
			return
		}
		log.Error("Failed to fetch accessory", err, map[string]interface{}{
			"accessory_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	details, err := ctrl.componentService.GetComponentsDetailed(id, accessory.OwnerCompanyID)
	if err != nil {
		if errors.Is(err, service.ErrComponentCycle) {
			apperrors.Conflict(c, apperrors.ComponentCycle, "El grafo de componentes contiene un ciclo")
			return
		}
		log.Error("Failed to fetch accessory components", err, map[string]interface{}{
			"accessory_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"components": details,
		"count":      len(details),
	})
}

// ReplaceComponents swaps the accessory's full component list
// PUT /api/v1/accessories/:id/components
func (ctrl *AccessoryController) ReplaceComponents(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	var req ReplaceComponentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	components, err := ctrl.componentService.ReplaceComponents(id, req.Components)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAccessoryNotFound):
			apperrors.NotFound(c, apperrors.AccessoryNotFound, "No se encontró el accesorio")
		case errors.Is(err, service.ErrInvalidComponentInput):
			apperrors.BadRequest(c, apperrors.ComponentInvalid, "La lista de componentes no es válida")
		case errors.Is(err, service.ErrSelfReferenceComponent):
			apperrors.BadRequest(c, apperrors.ComponentSelfReference, "Un accesorio no puede ser componente de sí mismo")
		case errors.Is(err, service.ErrComponentCycle):
			apperrors.Conflict(c, apperrors.ComponentCycle, "La lista de componentes crearía un ciclo")
		default:
			log.Error("Failed to replace accessory components", err, map[string]interface{}{
				"accessory_id": id,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"components": components,
		"count":      len(components),
	})
}

// RemoveComponent deletes one component edge
// DELETE /api/v1/accessories/:id/components/:componentId
func (ctrl *AccessoryController) RemoveComponent(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	componentID, err := parseIDParam(c, "componentId")
	if err != nil {
		return
	}

	if err := ctrl.componentService.RemoveComponent(componentID); err != nil {
		if errors.Is(err, service.ErrComponentNotFound) {
			apperrors.NotFound(c, apperrors.ComponentNotFound, "No se encontró el componente")
			return
		}
		log.Error("Failed to remove component", err, map[string]interface{}{
			"component_id": componentID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Componente eliminado"})
}
