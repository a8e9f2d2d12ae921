package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tallerix/taller-backend/config"
	"github.com/tallerix/taller-backend/internal/app/model"
	"github.com/tallerix/taller-backend/internal/app/repository"
	"github.com/tallerix/taller-backend/internal/db"
	"github.com/xuri/excelize/v2"
)

// Imports a material catalog from an XLSX file.
// Expected columns: Nombre | Tipo | Precio de compra
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	// Make sure the material type rows exist before resolving names.
	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	materialTypeRepo := repository.NewMaterialTypeRepository(db.GetDB())
	materialRepo := repository.NewMaterialRepository(db.GetDB())

	types, err := materialTypeRepo.FindAll()
	if err != nil {
		log.Fatal("Failed to load material types:", err)
	}
	typeByName := make(map[string]uint, len(types))
	for _, t := range types {
		typeByName[strings.ToLower(t.Name)] = t.ID
	}

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	materials, skipped, err := readMaterialsFromXLSX(filePath, typeByName)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total materials to import: %d (skipped %d rows)\n", len(materials), skipped)

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	imported := 0
	for i := range materials {
		if err := materialRepo.Create(&materials[i]); err != nil {
			fmt.Printf("Failed to import %q: %v\n", materials[i].Name, err)
			continue
		}
		imported++
	}

	fmt.Println("Import completed.")
	fmt.Printf("Total materials imported: %d\n", imported)
}

func readMaterialsFromXLSX(filePath string, typeByName map[string]uint) ([]model.Material, int, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, 0, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read rows: %w", err)
	}

	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("no data found in XLSX file")
	}

	var materials []model.Material
	seen := make(map[string]bool)
	skipped := 0

	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}

		if len(row) < 3 {
			skipped++
			continue
		}

		name := strings.TrimSpace(row[0])
		typeName := strings.TrimSpace(row[1])
		priceStr := strings.TrimSpace(row[2])

		if name == "" || typeName == "" || priceStr == "" {
			skipped++
			continue
		}

		if seen[strings.ToLower(name)] {
			skipped++
			continue
		}

		typeID, ok := typeByName[strings.ToLower(typeName)]
		if !ok {
			fmt.Printf("Row %d: unknown material type %q, skipping\n", i+1, typeName)
			skipped++
			continue
		}

		price, err := decimal.NewFromString(strings.ReplaceAll(priceStr, ",", ""))
		if err != nil || price.IsNegative() {
			fmt.Printf("Row %d: invalid price %q, skipping\n", i+1, priceStr)
			skipped++
			continue
		}

		seen[strings.ToLower(name)] = true
		materials = append(materials, model.Material{
			Name:           name,
			PurchasePrice:  price,
			MaterialTypeID: typeID,
		})
	}

	return materials, skipped, nil
}
