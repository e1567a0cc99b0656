// Package pdf genera la nota de entrega imprimible.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Systemair + título  │  N° entrega + fecha + estado  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESPONSABLES: comercial / logística / cliente               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Producto | Código de barras | Ref.            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FIRMAS + QR con el id de la entrega                         │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
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

	"github.com/jhoicas/systemair-inventario/internal/application/usecase"
	"github.com/jhoicas/systemair-inventario/internal/domain/entity"
)

var _ usecase.DeliveryNoteGenerator = (*MarotoDeliveryNoteGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 84, Blue: 159}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var statusLabels = map[string]string{
	entity.DeliveryStatusPending:   "PENDIENTE",
	entity.DeliveryStatusCompleted: "COMPLETADA",
	entity.DeliveryStatusCancelled: "CANCELADA",
}

// MarotoDeliveryNoteGenerator implementa usecase.DeliveryNoteGenerator con Maroto v2.
type MarotoDeliveryNoteGenerator struct {
	company string
}

// NewMarotoDeliveryNoteGenerator construye el generador; company aparece en la cabecera.
func NewMarotoDeliveryNoteGenerator(company string) *MarotoDeliveryNoteGenerator {
	return &MarotoDeliveryNoteGenerator{company: company}
}

// GenerateDeliveryNote genera el PDF y devuelve sus bytes.
func (g *MarotoDeliveryNoteGenerator) GenerateDeliveryNote(
	_ context.Context,
	d *entity.Delivery,
	lines []usecase.DeliveryNoteLine,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Nota de entrega "+d.ID, true).
		WithAuthor(g.company, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(d))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(managersRow(d))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableRows(lines)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(lines))

	m.AddRows(line.NewRow(6))
	m.AddRows(signatureRow(d))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar nota de entrega: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *MarotoDeliveryNoteGenerator) headerRow(d *entity.Delivery) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(g.company, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("NOTA DE ENTREGA", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("N° "+d.ID, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 1,
			}),
			text.New("Fecha: "+d.Date.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 7, Color: colorGray,
			}),
			text.New(nonEmpty(statusLabels[d.Status], d.Status), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 12, Color: colorPrimary,
			}),
		),
	)
}

func managersRow(d *entity.Delivery) core.Row {
	return row.New(14).Add(
		col.New(4).Add(
			text.New("RESPONSABLE COMERCIAL", props.Text{Style: fontstyle.Bold, Size: 7, Color: colorPrimary, Top: 1}),
			text.New(d.CommercialManager, props.Text{Size: 9, Top: 6}),
		),
		col.New(4).Add(
			text.New("RESPONSABLE LOGÍSTICO", props.Text{Style: fontstyle.Bold, Size: 7, Color: colorPrimary, Top: 1}),
			text.New(d.LogisticsManager, props.Text{Size: 9, Top: 6}),
		),
		col.New(4).Add(
			text.New("CLIENTE", props.Text{Style: fontstyle.Bold, Size: 7, Color: colorPrimary, Top: 1}),
			text.New(nonEmpty(d.CustomerName, "—"), props.Text{Size: 9, Top: 6}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Producto", 6, align.Left),
		h("Código de barras", 3, align.Left),
		h("Ref.", 2, align.Right),
	)
}

func tableRows(lines []usecase.DeliveryNoteLine) []core.Row {
	rows := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, row.New(7).Add(
			col.New(1).Add(text.New(strconv.Itoa(l.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(6).Add(text.New(nonEmpty(l.ProductName, "(producto "+l.ProductID+")"), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New(nonEmpty(l.Barcode, "—"), props.Text{Size: 8, Top: 1, Left: 1, Color: colorGray})),
			col.New(2).Add(text.New(shorten(l.ProductID, 8), props.Text{Size: 7, Align: align.Right, Top: 1, Right: 1, Color: colorGray})),
		))
	}
	return rows
}

func totalRow(lines []usecase.DeliveryNoteLine) core.Row {
	total := 0
	for _, l := range lines {
		total += l.Quantity
	}
	return row.New(8).Add(
		col.New(8),
		col.New(4).Add(text.New(fmt.Sprintf("Total unidades: %d", total), props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: colorPrimary, Top: 2, Right: 1,
		})),
	)
}

func signatureRow(d *entity.Delivery) core.Row {
	return row.New(40).Add(
		col.New(4).Add(
			text.New("Firma comercial", props.Text{Size: 8, Top: 28, Align: align.Center, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("Firma logística", props.Text{Size: 8, Top: 28, Align: align.Center, Color: colorGray}),
		),
		col.New(4).Add(code.NewQr(d.ID, props.Rect{Percent: 80, Center: true})),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func shorten(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
