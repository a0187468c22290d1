package infra

// pdf.go — reporte PDF del historial de producción usando go-pdf/fpdf.
// Genera un A4 apaisado con:
//   - Encabezado con título y fecha de emisión
//   - Línea de filtros aplicados
//   - Tabla de lotes (código, número, producto, cliente, pallets, litros, fechas)
//   - Pie con totales del período

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/mattygrunge/planproduccion/internal/dto"
)

// GenerateHistorialPDF writes the production history report and returns the
// absolute path to the generated file.
func GenerateHistorialPDF(items []dto.HistorialExport, stats dto.HistorialEstadisticas, filtros string, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("historial_%s.pdf", time.Now().Format("20060102_150405"))
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 20

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, "Historial de Producción", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Emitido: "+time.Now().Format("02/01/2006 15:04"), "", 1, "C", false, 0, "")
	if filtros != "" {
		pdf.CellFormat(contentW, 5, "Filtros: "+filtros, "", 1, "C", false, 0, "")
	}
	pdf.Ln(3)

	// ── Table header ─────────────────────────────────────────────────────────
	cols := []struct {
		w     float64
		label string
		align string
	}{
		{contentW * 0.09, "Código", "L"},
		{contentW * 0.11, "Lote", "L"},
		{contentW * 0.24, "Producto", "L"},
		{contentW * 0.16, "Cliente", "L"},
		{contentW * 0.07, "Pallets", "R"},
		{contentW * 0.07, "Parc.", "R"},
		{contentW * 0.10, "Litros", "R"},
		{contentW * 0.08, "Prod.", "C"},
		{contentW * 0.08, "Venc.", "C"},
	}

	pdf.SetFont("Helvetica", "B", 7)
	for _, c := range cols {
		pdf.CellFormat(c.w, 6, c.label, "B", 0, c.align, false, 0, "")
	}
	pdf.Ln(-1)

	// ── Rows ─────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 7)
	trunc := func(s string, n int) string {
		if len(s) > n {
			return s[:n-1] + "…"
		}
		return s
	}
	for _, it := range items {
		venc := "-"
		if it.FechaVencimiento != nil {
			venc = it.FechaVencimiento.Format("02/01/2006")
		}
		pdf.CellFormat(cols[0].w, 5, it.Codigo, "", 0, "L", false, 0, "")
		pdf.CellFormat(cols[1].w, 5, trunc(it.NumeroLote, 16), "", 0, "L", false, 0, "")
		pdf.CellFormat(cols[2].w, 5, trunc(it.Producto, 34), "", 0, "L", false, 0, "")
		pdf.CellFormat(cols[3].w, 5, trunc(it.Cliente, 22), "", 0, "L", false, 0, "")
		pdf.CellFormat(cols[4].w, 5, fmt.Sprintf("%d", it.Pallets), "", 0, "R", false, 0, "")
		pdf.CellFormat(cols[5].w, 5, fmt.Sprintf("%d", it.Parciales), "", 0, "R", false, 0, "")
		pdf.CellFormat(cols[6].w, 5, it.LitrosTotales.StringFixed(1), "", 0, "R", false, 0, "")
		pdf.CellFormat(cols[7].w, 5, it.FechaProduccion.Format("02/01/2006"), "", 0, "C", false, 0, "")
		pdf.CellFormat(cols[8].w, 5, venc, "", 1, "C", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(10, pdf.GetY(), pageW-10, pdf.GetY())
	pdf.Ln(2)

	// ── Totals ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 8)
	resumen := fmt.Sprintf("Lotes: %d    Litros: %s    Pallets: %d    Productos distintos: %d",
		stats.TotalLotes, stats.TotalLitros.StringFixed(1), stats.TotalPallets, stats.ProductosDistintos)
	pdf.CellFormat(contentW, 6, resumen, "", 1, "R", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
