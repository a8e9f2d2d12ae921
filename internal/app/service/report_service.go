package service

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/tallerix/taller-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
)

// ReportService renders an accessory's full cost breakdown (direct materials,
// components and persisted totals) as an XLSX workbook.
type ReportService interface {
	ExportAccessoryBreakdown(accessoryID uint) ([]byte, string, error)
}

type reportService struct {
	accessoryService AccessoryService
	linkService      AccessoryMaterialService
	componentService ComponentService
	pricingService   PricingService
}

func NewReportService(
	accessoryService AccessoryService,
	linkService AccessoryMaterialService,
	componentService ComponentService,
	pricingService PricingService,
) ReportService {
	return &reportService{
		accessoryService: accessoryService,
		linkService:      linkService,
		componentService: componentService,
		pricingService:   pricingService,
	}
}

// ExportAccessoryBreakdown returns the workbook bytes and a suggested filename.
func (s *reportService) ExportAccessoryBreakdown(accessoryID uint) ([]byte, string, error) {
	accessory, err := s.accessoryService.GetAccessory(accessoryID)
	if err != nil {
		return nil, "", err
	}

	links, err := s.linkService.GetMaterialsForAccessory(accessoryID)
	if err != nil {
		return nil, "", err
	}

	components, err := s.componentService.GetComponentsDetailed(accessoryID, accessory.OwnerCompanyID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Desglose"
	f.SetSheetName(f.GetSheetName(0), sheet)

	f.SetCellValue(sheet, "A1", "Accesorio")
	f.SetCellValue(sheet, "B1", accessory.Name)
	f.SetCellValue(sheet, "A2", "Descripción")
	f.SetCellValue(sheet, "B2", accessory.Description)

	row := 4
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Materiales directos")
	row++
	headers := []string{"Material", "Tipo", "Cantidad", "Ancho", "Largo", "Costo proporcional", "Precio de venta"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		f.SetCellValue(sheet, cell, h)
	}
	row++

	for i := range links {
		link := &links[i]
		width, length := "", ""
		if link.Usage != nil {
			width = link.Usage.Width.String()
			length = link.Usage.Length.String()
		}
		values := []interface{}{
			link.Material.Name,
			link.Material.MaterialType.Name,
			link.Quantity.String(),
			width,
			length,
			link.ProportionalCost.String(),
			link.SalePrice.String(),
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			f.SetCellValue(sheet, cell, v)
		}
		row++
	}

	row++
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Componentes")
	row++
	headers = []string{"Componente", "Cantidad", "Costo unitario", "Precio unitario", "Costo total", "Precio total"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		f.SetCellValue(sheet, cell, h)
	}
	row++

	for _, component := range components {
		values := []interface{}{
			component.ChildName,
			component.Quantity.String(),
			component.UnitCost.String(),
			component.UnitPrice.String(),
			component.TotalCost.String(),
			component.TotalPrice.String(),
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			f.SetCellValue(sheet, cell, v)
		}
		row++
	}

	// Persisted totals, when the accessory has been aggregated at least once.
	pricing, err := s.pricingService.GetAccessoryPricing(accessoryID)
	if err != nil && !errors.Is(err, ErrPricingNotFound) {
		return nil, "", err
	}
	if err == nil {
		row++
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Costo total de materiales")
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), pricing.TotalMaterialsPrice.String())
		row++
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Porcentaje de utilidad")
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), pricing.MarkupPercentage.String())
		row++
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Precio total")
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), pricing.TotalPrice.String())
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		logger.Error("Failed to render accessory breakdown workbook", err, map[string]interface{}{
			"accessory_id": accessoryID,
		})
		return nil, "", err
	}

	filename := fmt.Sprintf("accesorio_%d_desglose.xlsx", accessoryID)
	logger.Info("Accessory breakdown exported", map[string]interface{}{
		"accessory_id": accessoryID,
		"bytes":        buf.Len(),
	})
	return buf.Bytes(), filename, nil
}
