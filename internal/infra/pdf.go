package infra

// pdf.go — boleta PDF generation using go-pdf/fpdf.
// Thermal receipt-style layout:
//   - Business name header
//   - Boleta number and timestamp
//   - Item table (product name, quantity, subtotal)
//   - Net / IVA breakdown and bold total
//   - Payment method, amount tendered and change
//
// The output file is saved to storagePath/boleta_{numero}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"tiendapos/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateBoletaPDF renders the printable boleta for a completed Venta.
// storagePath is the directory where the PDF will be written (created if
// needed). Returns the absolute path to the generated file.
func GenerateBoletaPDF(venta *model.Venta, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("boleta_%d.pdf", venta.NumeroBoleta)
	filePath := filepath.Join(storagePath, fileName)

	// A7 ≈ 74mm × 105mm, close to thermal receipt paper
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8 // total margins = 8mm

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, "TiendaPOS", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Boleta Electrónica", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Boleta N° %d", venta.NumeroBoleta), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, venta.CreatedAt.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	col1 := contentW * 0.52 // product name
	col2 := contentW * 0.16 // qty
	col3 := contentW * 0.32 // subtotal

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Producto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Cant", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Subtotal", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	for _, item := range venta.Items {
		nombre := "Producto Eliminado"
		if item.Producto != nil {
			nombre = item.Producto.Nombre
		}
		if len(nombre) > 22 {
			nombre = nombre[:21] + "…"
		}
		pdf.CellFormat(col1, 5, nombre, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, "x"+item.Cantidad.String(), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, "$"+item.Subtotal.StringFixed(0), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(col1+col2, 4, "Neto:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 4, "$"+venta.Neto.StringFixed(0), "", 1, "R", false, 0, "")
	pdf.CellFormat(col1+col2, 4, "IVA:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 4, "$"+venta.IVA.StringFixed(0), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1+col2, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, "$"+venta.Total.StringFixed(0), "", 1, "R", false, 0, "")

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(col1+col2, 4, "Pago ("+venta.MetodoPago+"):", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 4, "$"+venta.Pagado.StringFixed(0), "", 1, "R", false, 0, "")
	if venta.Vuelto.IsPositive() {
		pdf.CellFormat(col1+col2, 4, "Vuelto:", "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 4, "$"+venta.Vuelto.StringFixed(0), "", 1, "R", false, 0, "")
	}

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, "¡Gracias por su compra!", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
