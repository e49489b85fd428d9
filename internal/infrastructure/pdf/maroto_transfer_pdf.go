// Package pdf implementa la generación de la guía de traslado imprimible.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre del negocio  │  N° Guía + Fecha             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ORIGEN: sucursal de salida                                  │
//	│  DESTINO: sucursal de entrada                                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Código | Producto | Cantidad                         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: estado + fechas de confirmación/recepción           │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	apptransfer "github.com/gestionapp/negocio-api/internal/application/transfer"
	"github.com/gestionapp/negocio-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ apptransfer.TransferPDFGenerator = (*MarotoTransferPDFGenerator)(nil)

// MarotoTransferPDFGenerator implementa transfer.TransferPDFGenerator usando Maroto v2.
type MarotoTransferPDFGenerator struct{}

// NewMarotoTransferPDFGenerator construye el generador.
func NewMarotoTransferPDFGenerator() *MarotoTransferPDFGenerator { return &MarotoTransferPDFGenerator{} }

// GenerateTransferPDF genera el PDF de la guía y devuelve sus bytes.
func (g *MarotoTransferPDFGenerator) GenerateTransferPDF(
	_ context.Context,
	t *entity.StockTransfer,
	business *entity.Business,
	origin, destination *entity.Branch,
	lines []apptransfer.TransferLineForPDF,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Guía de Traslado", true).
		WithAuthor(business.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(t, business))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(branchRow("SUCURSAL ORIGEN", origin))
	m.AddRows(branchRow("SUCURSAL DESTINO", destination))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableLineRows(lines) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(t))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre del negocio (izq) y N° de guía + fecha (der).
func headerRow(t *entity.StockTransfer, business *entity.Business) core.Row {
	numero := shortID(t.ID)
	fecha := t.CreatedAt.Format("02/01/2006")

	return row.New(18).Add(
		col.New(7).Add(
			text.New(business.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New("GUÍA DE TRASLADO ENTRE SUCURSALES", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("N° "+numero, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// branchRow: bloque de una sucursal (origen o destino).
func branchRow(label string, branch *entity.Branch) core.Row {
	name := branch.Name
	if branch.IsMain {
		name += " (principal)"
	}
	return row.New(12).Add(
		col.New(12).Add(
			text.New(label, props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(name, props.Text{Size: 10, Top: 7}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Código", 2, align.Left),
		h("Producto", 7, align.Left),
		h("Cantidad", 3, align.Right),
	)
}

// tableLineRows: una fila por línea del traslado.
func tableLineRows(lines []apptransfer.TransferLineForPDF) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(
				l.ProductCode,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(7).Add(text.New(
				l.ProductName,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(3).Add(text.New(
				l.Quantity,
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// footerRow: estado del traslado y fechas de transición.
func footerRow(t *entity.StockTransfer) core.Row {
	parts := []string{"Estado: " + statusLabel(t.Status)}
	if t.ConfirmedAt != nil {
		parts = append(parts, "Confirmado: "+formatDateTime(*t.ConfirmedAt))
	}
	if t.ReceivedAt != nil {
		parts = append(parts, "Recibido: "+formatDateTime(*t.ReceivedAt))
	}
	return row.New(10).Add(
		col.New(12).Add(
			text.New(strings.Join(parts, "   |   "), props.Text{
				Size: 8, Top: 2, Color: colorGray,
			}),
		),
	)
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func statusLabel(status string) string {
	switch status {
	case entity.TransferStatusDraft:
		return "Borrador"
	case entity.TransferStatusConfirmed:
		return "Confirmado"
	case entity.TransferStatusReceived:
		return "Recibido"
	case entity.TransferStatusCancelled:
		return "Cancelado"
	}
	return status
}

func formatDateTime(ts time.Time) string {
	return ts.Format("02/01/2006 15:04")
}

// shortID toma el primer bloque del UUID como número legible de la guía.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return strings.ToUpper(id[:i])
	}
	return strings.ToUpper(id)
}
