package service

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"stockledger/internal/model"
)

// ExportService builds the multi-sheet XLSX stock report: one balance
// sheet plus a sheet each for inbound and outbound entries.
type ExportService struct{}

func NewExportService() *ExportService {
	return &ExportService{}
}

const (
	sheetBalance = "Inventory Balance"
	sheetInbound = "Stock Entries (IN)"
	sheetIssues  = "Stock Issues (OUT)"
)

// BuildWorkbook renders the given (already visibility-filtered) data
// into a workbook and returns the encoded file.
func (s *ExportService) BuildWorkbook(products []model.Product, transactions []model.Transaction, department string, now time.Time) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := s.writeBalanceSheet(f, products, department, now); err != nil {
		return nil, err
	}
	if err := s.writeMovementSheet(f, sheetInbound, model.MovementIn, transactions, department, now); err != nil {
		return nil, err
	}
	if err := s.writeMovementSheet(f, sheetIssues, model.MovementOut, transactions, department, now); err != nil {
		return nil, err
	}

	// excelize creates "Sheet1" by default; the report has its own sheets
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}
	idx, err := f.GetSheetIndex(sheetBalance)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)

	return f.WriteToBuffer()
}

func (s *ExportService) writeHeading(f *excelize.File, sheet, title, department string, now time.Time) error {
	scope := department
	if scope == "" {
		scope = model.DepartmentAll
	}
	rows := [][]interface{}{
		{fmt.Sprintf("%s - %s", title, scope)},
		{fmt.Sprintf("Generated on: %s", now.Format("02 Jan 2006 15:04"))},
		{},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func (s *ExportService) writeBalanceSheet(f *excelize.File, products []model.Product, department string, now time.Time) error {
	if _, err := f.NewSheet(sheetBalance); err != nil {
		return err
	}
	if err := s.writeHeading(f, sheetBalance, "Inventory Balance Report", department, now); err != nil {
		return err
	}

	header := []interface{}{"SKU", "Name", "Category", "Department", "Unit", "Price", "Balance", "Total Received", "Total Issued", "Min Stock", "Location", "Supplier"}
	if err := f.SetSheetRow(sheetBalance, "A4", &header); err != nil {
		return err
	}

	for i, p := range products {
		row := []interface{}{
			p.SKU, p.Name, p.Category, p.Department, string(p.Unit),
			p.Price.InexactFloat64(), p.Quantity, p.TotalReceived, p.TotalIssued,
			p.MinStock, p.Location, p.Supplier,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+5)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetBalance, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func (s *ExportService) writeMovementSheet(f *excelize.File, sheet string, mvType model.MovementType, transactions []model.Transaction, department string, now time.Time) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	title := "Stock Entries Report"
	if mvType == model.MovementOut {
		title = "Stock Issues Report"
	}
	if err := s.writeHeading(f, sheet, title, department, now); err != nil {
		return err
	}

	header := []interface{}{"Date", "Product", "Quantity", "Department", "User", "Reference", "Remarks", "Price At Time"}
	if err := f.SetSheetRow(sheet, "A4", &header); err != nil {
		return err
	}

	rowIdx := 5
	for _, tx := range transactions {
		if tx.Type != mvType {
			continue
		}
		row := []interface{}{
			tx.CreatedAt.Format("02 Jan 2006 15:04"),
			tx.ProductName, tx.Quantity, tx.Department, tx.UserName,
			tx.Reference, tx.Remarks, tx.PriceAtTime.InexactFloat64(),
		}
		cell, err := excelize.CoordinatesToCellName(1, rowIdx)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
		rowIdx++
	}
	return nil
}
