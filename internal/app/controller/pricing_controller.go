package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tallerix/taller-backend/internal/app/service"
	apperrors "github.com/tallerix/taller-backend/internal/errors"
	"github.com/tallerix/taller-backend/internal/middleware"
)

type PricingController struct {
	pricingService   service.PricingService
	accessoryService service.AccessoryService
	reportService    service.ReportService
}

func NewPricingController(
	pricingService service.PricingService,
	accessoryService service.AccessoryService,
	reportService service.ReportService,
) *PricingController {
	return &PricingController{
		pricingService:   pricingService,
		accessoryService: accessoryService,
		reportService:    reportService,
	}
}

// GetPricing returns the persisted pricing row, without recomputing
// GET /api/v1/accessories/:id/pricing
func (ctrl *PricingController) GetPricing(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	pricing, err := ctrl.pricingService.GetAccessoryPricing(id)
	if err != nil {
		if errors.Is(err, service.ErrPricingNotFound) {
			apperrors.NotFound(c, apperrors.PricingNotFound, "El accesorio aún no tiene precio calculado")
			return
		}
		log.Error("Failed to fetch accessory pricing", err, map[string]interface{}{
			"accessory_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"pricing": pricing})
}

// Recompute re-aggregates the accessory and its whole component subgraph
// POST /api/v1/accessories/:id/pricing/recompute
func (ctrl *PricingController) Recompute(c *gin.Context) {
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

	totals, err := ctrl.pricingService.UpdateAccessoryPrice(id, accessory.OwnerCompanyID)
	if err != nil {
		if errors.Is(err, service.ErrComponentCycle) {
			apperrors.Conflict(c, apperrors.ComponentCycle, "El grafo de componentes contiene un ciclo")
			return
		}
		log.Error("Failed to recompute accessory pricing", err, map[string]interface{}{
			"accessory_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"totals": totals})
}

// Export streams the accessory's cost breakdown as an XLSX workbook
// GET /api/v1/accessories/:id/pricing/export
func (ctrl *PricingController) Export(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	data, filename, err := ctrl.reportService.ExportAccessoryBreakdown(id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAccessoryNotFound):
			apperrors.NotFound(c, apperrors.AccessoryNotFound, "No se encontró el accesorio")
		case errors.Is(err, service.ErrComponentCycle):
			apperrors.Conflict(c, apperrors.ComponentCycle, "El grafo de componentes contiene un ciclo")
		default:
			log.Error("Failed to export accessory breakdown", err, map[string]interface{}{
				"accessory_id": id,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// RefreshAll re-aggregates the whole catalog
// POST /api/v1/pricing/refresh
func (ctrl *PricingController) RefreshAll(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	updated, err := ctrl.pricingService.RefreshAll()
	if err != nil {
		var refreshErr *service.RefreshAllError
		if errors.As(err, &refreshErr) {
			c.JSON(http.StatusMultiStatus, gin.H{
				"updated": updated,
				"failed":  refreshErr.Failed,
				"error":   apperrors.PricingCascadePartial,
			})
			return
		}
		log.Error("Failed to refresh catalog pricing", err)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": updated})
}
