package infra

// pdf.go: close-of-day cash report using go-pdf/fpdf.
// A4 portrait with:
//   - Restaurant header, session id, cashier and shift
//   - Opening / closing timestamps
//   - Per-bucket table: sales, income, expense
//   - Expected vs counted cash and the variance classification
//   - Manual movement log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"restopos/internal/model"
	"restopos/internal/money"

	"github.com/go-pdf/fpdf"
)

// GenerateCierrePDF writes the close report of s to storagePath/cierre_{id}.pdf
// and returns the file path. The directory is created if needed.
func GenerateCierrePDF(restaurante string, s *model.SesionCaja, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	filePath := filepath.Join(storagePath, fmt.Sprintf("cierre_%s.pdf", s.ID))

	pdf := buildCierrePDF(restaurante, s)
	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}

// WriteCierrePDF streams the close report of s to w.
func WriteCierrePDF(w io.Writer, restaurante string, s *model.SesionCaja) error {
	if err := buildCierrePDF(restaurante, s).Output(w); err != nil {
		return fmt.Errorf("pdf: render: %w", err)
	}
	return nil
}

func buildCierrePDF(restaurante string, s *model.SesionCaja) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, tr(restaurante), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	titulo := "Cierre de caja"
	if !s.Cerrada {
		titulo = "Caja abierta (parcial)"
	}
	pdf.CellFormat(contentW, 6, tr(titulo), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// ── Session info ─────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 9)
	info := [][2]string{
		{"Sesión", s.ID},
		{"Cajero", s.Cajero},
		{"Turno", s.Turno},
		{"Apertura", s.AperturaEn.Format("02/01/2006 15:04")},
	}
	if s.CierreEn != nil {
		info = append(info, [2]string{"Cierre", s.CierreEn.Format("02/01/2006 15:04")})
	}
	for _, row := range info {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(30, 5, tr(row[0]+":"), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(contentW-30, 5, tr(row[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// ── Buckets ──────────────────────────────────────────────────────────────
	col := contentW / 4
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for _, h := range []string{"Medio", "Ventas", "Ingresos", "Egresos"} {
		pdf.CellFormat(col, 6, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, b := range model.Buckets {
		pdf.CellFormat(col, 6, string(b), "1", 0, "L", false, 0, "")
		pdf.CellFormat(col, 6, money.Format(s.VentasPorMetodo[b]), "1", 0, "R", false, 0, "")
		pdf.CellFormat(col, 6, money.Format(s.IngresosPorMetodo[b]), "1", 0, "R", false, 0, "")
		pdf.CellFormat(col, 6, money.Format(s.EgresosPorMetodo[b]), "1", 1, "R", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col, 6, "Total", "1", 0, "L", false, 0, "")
	pdf.CellFormat(col, 6, money.Format(s.VentasTotal), "1", 0, "R", false, 0, "")
	pdf.CellFormat(col, 6, money.Format(s.IngresosTotal), "1", 0, "R", false, 0, "")
	pdf.CellFormat(col, 6, money.Format(s.EgresosTotal), "1", 1, "R", false, 0, "")
	pdf.Ln(5)

	// ── Reconciliation ───────────────────────────────────────────────────────
	esperado, final := s.EfectivoEsperado, s.Final
	if !s.Cerrada {
		esperado, final = s.EfectivoEsperadoAhora(), s.FinalAhora()
	}
	lines := [][2]string{
		{"Apertura", money.Format(s.Apertura)},
		{"Efectivo esperado", money.Format(esperado)},
	}
	if s.Cerrada {
		lines = append(lines,
			[2]string{"Efectivo contado", money.Format(s.Conteo)},
			[2]string{"Diferencia", money.Format(s.DiferenciaEfectivo)},
		)
		if s.ClasificacionDesvio != "" {
			lines = append(lines, [2]string{"Desvío", s.ClasificacionDesvio})
		}
	}
	lines = append(lines, [2]string{"Total final", money.Format(final)})

	for _, l := range lines {
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(contentW*0.6, 6, tr(l[0]), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(contentW*0.4, 6, tr(l[1]), "", 1, "R", false, 0, "")
	}
	if s.Observaciones != nil && *s.Observaciones != "" {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "I", 9)
		pdf.MultiCell(contentW, 5, tr("Observaciones: "+*s.Observaciones), "", "L", false)
	}

	// ── Movements ────────────────────────────────────────────────────────────
	if len(s.Movimientos) > 0 {
		pdf.Ln(5)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(contentW, 6, "Movimientos manuales", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 8)
		for _, m := range s.Movimientos {
			pdf.CellFormat(25, 5, m.Fecha.Format("15:04"), "", 0, "L", false, 0, "")
			pdf.CellFormat(20, 5, string(m.Tipo), "", 0, "L", false, 0, "")
			pdf.CellFormat(30, 5, tr(m.Medio), "", 0, "L", false, 0, "")
			pdf.CellFormat(contentW-105, 5, tr(m.Descripcion), "", 0, "L", false, 0, "")
			pdf.CellFormat(30, 5, money.Format(m.Monto), "", 1, "R", false, 0, "")
		}
	}
	return pdf
}
