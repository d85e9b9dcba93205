// Package reports renders local exports of client-held data: the KPI
// dashboard and the caja closing report to XLSX, and the caja report and
// guide receipt to PDF. Server-rendered reports come through
// api.DownloadReport instead.
package reports

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
	"github.com/xuri/excelize/v2"

	"github.com/pminsight/client/internal/api"
	"github.com/pminsight/client/internal/cashbox"
	"github.com/pminsight/client/internal/models"
)

// BuildDashboardXLSX renders the KPI summary to a workbook.
func BuildDashboardXLSX(summary *api.DashboardSummary) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "resumen"
	f.SetSheetName("Sheet1", sheet)

	_ = f.SetCellValue(sheet, "A1", "PMInsight - Resumen de solicitudes")
	_ = f.SetCellValue(sheet, "A3", "Pendientes de atención")
	_ = f.SetCellValue(sheet, "B3", summary.PendingAttention)
	_ = f.SetCellValue(sheet, "A4", "Pendientes de liquidación")
	_ = f.SetCellValue(sheet, "B4", summary.PendingLiquidation)
	_ = f.SetCellValue(sheet, "A5", "Pendientes de aprobación")
	_ = f.SetCellValue(sheet, "B5", summary.SubmittedApproval)
	_ = f.SetCellValue(sheet, "A6", "Aprobadas")
	_ = f.SetCellValue(sheet, "B6", summary.Approved)
	_ = f.SetCellValue(sheet, "A7", "Rechazadas")
	_ = f.SetCellValue(sheet, "B7", summary.Rejected)
	_ = f.SetCellValue(sheet, "A8", "Total S/.")
	_ = f.SetCellValue(sheet, "B8", summary.TotalSoles.StringFixed(2))
	_ = f.SetCellValue(sheet, "A9", "Total US$")
	_ = f.SetCellValue(sheet, "B9", summary.TotalDolares.StringFixed(2))

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildCashBoxXLSX renders a cash box with its movements and recomputed
// totals.
func BuildCashBoxXLSX(box models.CashBox) ([]byte, error) {
	ledger := cashbox.New(box, models.PrincipalRef{})

	f := excelize.NewFile()
	sheet := "caja"
	f.SetSheetName("Sheet1", sheet)

	_ = f.SetCellValue(sheet, "A1", "Caja chica "+box.Date)
	_ = f.SetCellValue(sheet, "A2", "Monto inicial")
	_ = f.SetCellValue(sheet, "B2", box.OpeningBalance.StringFixed(2))

	_ = f.SetCellValue(sheet, "A4", "Tipo")
	_ = f.SetCellValue(sheet, "B4", "Concepto")
	_ = f.SetCellValue(sheet, "C4", "Monto")
	_ = f.SetCellValue(sheet, "D4", "Usuario")
	_ = f.SetCellValue(sheet, "E4", "Fecha")
	for i, m := range box.Movements {
		row := i + 5
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), string(m.Type))
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), m.Concept)
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), m.Amount.StringFixed(2))
		_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", row), m.Actor.DisplayName)
		_ = f.SetCellValue(sheet, fmt.Sprintf("E%d", row), m.CreatedAt.Format("2006-01-02 15:04"))
	}

	base := len(box.Movements) + 6
	_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", base), "Ingresos")
	_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", base), ledger.Ingresos().StringFixed(2))
	_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", base+1), "Egresos")
	_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", base+1), ledger.Egresos().StringFixed(2))
	_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", base+2), "Saldo")
	_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", base+2), ledger.Saldo().StringFixed(2))

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildCashBoxPDF renders the caja closing report.
func BuildCashBoxPDF(box models.CashBox) ([]byte, error) {
	ledger := cashbox.New(box, models.PrincipalRef{})

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Caja chica "+box.Date)
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Monto inicial: %s", box.OpeningBalance.StringFixed(2)))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(30, 6, "Tipo", "1", 0, "C", false, 0, "")
	pdf.CellFormat(80, 6, "Concepto", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Monto", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 6, "Fecha", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, m := range box.Movements {
		pdf.CellFormat(30, 6, string(m.Type), "1", 0, "C", false, 0, "")
		pdf.CellFormat(80, 6, m.Concept, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, m.Amount.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, m.CreatedAt.Format("2006-01-02 15:04"), "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.Cell(0, 6, fmt.Sprintf("Ingresos: %s", ledger.Ingresos().StringFixed(2)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Egresos: %s", ledger.Egresos().StringFixed(2)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Saldo: %s", ledger.Saldo().StringFixed(2)))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildGuidePDF renders an outbound guide receipt with a QR code of its
// tracking code for scanning at destination.
func BuildGuidePDF(guide models.Guide) ([]byte, error) {
	qr, err := qrcode.Encode(guide.Tracking, qrcode.Medium, 256)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Guía de salida "+guide.Tracking)
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Origen: %s", guide.Origin))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Destino: %s", guide.Destination))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Responsable: %s", guide.Responsible))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Estado: %s", guide.State))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Emitida: %s", guide.CreatedAt.Format(time.RFC3339)))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(30, 6, "Cantidad", "1", 0, "C", false, 0, "")
	pdf.CellFormat(120, 6, "Descripción", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, item := range guide.Items {
		pdf.CellFormat(30, 6, fmt.Sprintf("%d", item.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(120, 6, item.Description, "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("guide-qr", opts, bytes.NewReader(qr))
	pdf.ImageOptions("guide-qr", 160, 15, 30, 30, false, opts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
