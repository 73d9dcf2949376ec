package services

import (
	"bytes"
	"context"
	"fmt"

	"staffing-system/internal/dto"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const fichajesSheet = "Fichajes"

var fichajesHeaders = []string{
	"Camarero", "Entrada", "Salida", "Duración", "Estado", "Editado a mano", "Nota",
}

type ReportServiceInterface interface {
	// ExportFichajes renders the order's time-clock sheet as xlsx and
	// returns it with a suggested file name.
	ExportFichajes(ctx context.Context, pedidoID string) (*bytes.Buffer, string, error)
}

type ReportService struct {
	fichajes FichajeServiceInterface
	logger   *zap.Logger
}

func NewReportService(fichajes FichajeServiceInterface, logger *zap.Logger) *ReportService {
	return &ReportService{fichajes: fichajes, logger: logger}
}

func fichajeRow(f dto.FichajeDTO) []interface{} {
	manual := "No"
	if f.EditadoManual {
		manual = "Sí"
	}
	return []interface{}{
		f.Nombre,
		formatNullTime(f.Entrada),
		formatNullTime(f.Salida),
		f.Duracion,
		f.Estado,
		manual,
		f.Nota.String,
	}
}

func (s *ReportService) ExportFichajes(ctx context.Context, pedidoID string) (*bytes.Buffer, string, error) {
	list, err := s.fichajes.ListFichajes(ctx, pedidoID)
	if err != nil {
		return nil, "", err
	}
	resumen, err := s.fichajes.Resumen(ctx, pedidoID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", fichajesSheet); err != nil {
		return nil, "", err
	}
	if err := f.SetSheetRow(fichajesSheet, "A1", &fichajesHeaders); err != nil {
		return nil, "", err
	}
	bold, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	_ = f.SetCellStyle(fichajesSheet, "A1", "G1", bold)

	for i, item := range list {
		row := fichajeRow(item)
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(fichajesSheet, cell, &row); err != nil {
			return nil, "", err
		}
	}

	totalRow := len(list) + 3
	labelCell, _ := excelize.CoordinatesToCellName(1, totalRow)
	valueCell, _ := excelize.CoordinatesToCellName(4, totalRow)
	_ = f.SetCellValue(fichajesSheet, labelCell, "Total")
	_ = f.SetCellValue(fichajesSheet, valueCell, resumen.Total)
	_ = f.SetCellStyle(fichajesSheet, labelCell, valueCell, bold)

	_ = f.SetColWidth(fichajesSheet, "A", "A", 30)
	_ = f.SetColWidth(fichajesSheet, "B", "C", 20)
	_ = f.SetColWidth(fichajesSheet, "G", "G", 50)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("error generando el xlsx: %w", err)
	}

	s.logger.Debug("Fichajes exportados", zap.String("pedido_id", pedidoID), zap.Int("filas", len(list)))
	return buf, fmt.Sprintf("fichajes_%s.xlsx", pedidoID), nil
}
