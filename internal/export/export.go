// Package export renders the inventory and movement log as an XLSX workbook.
package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"labtrack/internal/config"
	"labtrack/internal/domain"
	"labtrack/internal/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

const (
	SheetInventory = "Inventario"
	SheetMovements = "Movimientos"

	dateFormat = "02/01/2006"
)

var (
	inventoryHeaders = []interface{}{
		"ID", "Nombre", "Categoría", "Estado", "Campus", "Edificio", "Laboratorio",
		"Tipo de Lab", "Fecha Adquisición", "Último Mantenimiento", "Proveedor", "Costo",
	}
	movementHeaders = []interface{}{
		"ID", "Fecha", "Tipo", "Item", "Nombre", "Origen", "Destino", "Responsable", "Motivo",
	}
)

type Exporter struct {
	inventory domain.InventoryRepository
	movements domain.MovementRepository
	cfg       config.ExportConfig
	location  *time.Location
	logger    *zerolog.Logger
}

func NewExporter(
	inventory domain.InventoryRepository,
	movements domain.MovementRepository,
	cfg config.ExportConfig,
	location *time.Location,
	logger *zerolog.Logger,
) *Exporter {
	if location == nil {
		location = time.Local
	}
	return &Exporter{
		inventory: inventory,
		movements: movements,
		cfg:       cfg,
		location:  location,
		logger:    logger,
	}
}

// Write streams a fresh workbook to w.
func (e *Exporter) Write(ctx context.Context, w io.Writer) error {
	f, err := e.build(ctx)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Save writes the workbook into the configured export directory and returns its path.
func (e *Exporter) Save(ctx context.Context, now time.Time) (string, error) {
	if err := os.MkdirAll(e.cfg.Path, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %w", err)
	}

	f, err := e.build(ctx)
	if err != nil {
		return "", err
	}
	defer f.Close()

	fileName := fmt.Sprintf("inventario_%s.xlsx", now.In(e.location).Format("2006-01-02_150405"))
	filePath := filepath.Join(e.cfg.Path, fileName)
	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %w", err)
	}

	e.logger.Info().Str("file_path", filePath).Msg("Excel file created")
	return filePath, nil
}

func (e *Exporter) build(ctx context.Context) (*excelize.File, error) {
	items, err := e.inventory.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting inventory: %w", err)
	}
	movements, err := e.movements.GetAll(ctx, domain.MovementFilters{})
	if err != nil {
		return nil, fmt.Errorf("error getting movements: %w", err)
	}
	return Workbook(items, movements, e.location)
}

// Workbook builds the two-sheet workbook. Callers must Close it.
func Workbook(items []models.InventoryItem, movements []models.Movement, loc *time.Location) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", SheetInventory); err != nil {
		f.Close()
		return nil, fmt.Errorf("error renaming sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetMovements); err != nil {
		f.Close()
		return nil, fmt.Errorf("error creating sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("error creating style: %w", err)
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("error creating style: %w", err)
	}

	if err := writeInventory(f, items, loc, headerStyle, moneyStyle); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeMovements(f, movements, loc, headerStyle); err != nil {
		f.Close()
		return nil, err
	}

	f.SetActiveSheet(0)
	return f, nil
}

func writeInventory(f *excelize.File, items []models.InventoryItem, loc *time.Location, headerStyle, moneyStyle int) error {
	if err := writeHeader(f, SheetInventory, inventoryHeaders, headerStyle); err != nil {
		return err
	}

	for i, item := range items {
		row := i + 2
		cell, _ := excelize.CoordinatesToCellName(1, row)
		values := []interface{}{
			item.ID, item.Nombre, string(item.Categoria), string(item.Estado),
			item.Campus, item.Edificio, item.Laboratorio, string(item.TipoDeLab),
			formatDate(item.FechaAdquisicion, loc), formatDate(item.UltimoMantenimiento, loc),
			item.Proveedor, item.CostOrZero().InexactFloat64(),
		}
		if err := f.SetSheetRow(SheetInventory, cell, &values); err != nil {
			return fmt.Errorf("error writing item %s: %w", item.ID, err)
		}
		costCell, _ := excelize.CoordinatesToCellName(len(values), row)
		_ = f.SetCellStyle(SheetInventory, costCell, costCell, moneyStyle)
	}

	_ = f.SetColWidth(SheetInventory, "A", "A", 14)
	_ = f.SetColWidth(SheetInventory, "B", "B", 30)
	_ = f.SetColWidth(SheetInventory, "C", "L", 18)
	return nil
}

func writeMovements(f *excelize.File, movements []models.Movement, loc *time.Location, headerStyle int) error {
	if err := writeHeader(f, SheetMovements, movementHeaders, headerStyle); err != nil {
		return err
	}

	for i, m := range movements {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		destino := "-"
		if m.Destino != nil {
			destino = formatLocation(*m.Destino)
		}
		values := []interface{}{
			m.ID, m.Fecha.In(loc).Format(dateFormat + " 15:04"), string(m.Tipo), m.ItemID, m.ItemNombre,
			formatLocation(m.Origen), destino, m.Responsable, m.Motivo,
		}
		if err := f.SetSheetRow(SheetMovements, cell, &values); err != nil {
			return fmt.Errorf("error writing movement %s: %w", m.ID, err)
		}
	}

	_ = f.SetColWidth(SheetMovements, "A", "A", 14)
	_ = f.SetColWidth(SheetMovements, "B", "E", 20)
	_ = f.SetColWidth(SheetMovements, "F", "G", 40)
	_ = f.SetColWidth(SheetMovements, "H", "I", 25)
	return nil
}

func writeHeader(f *excelize.File, sheet string, headers []interface{}, style int) error {
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return fmt.Errorf("error writing header of %s: %w", sheet, err)
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	return f.SetCellStyle(sheet, "A1", last, style)
}

func formatDate(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	return t.In(loc).Format(dateFormat)
}

func formatLocation(l models.LocationSnapshot) string {
	return fmt.Sprintf("%s / %s / %s", l.Campus, l.Edificio, l.Laboratorio)
}
