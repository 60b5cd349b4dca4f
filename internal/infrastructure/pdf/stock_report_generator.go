// Package pdf genera el reporte de estado de stock.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título                  │  Fecha de generación      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: productos / stock / valor / conteo por estado      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA BAJO STOCK: Producto | Ubicación | Actual | Mín | ... │
//	│  TABLA SIN STOCK                                             │
//	│  TABLA ÚLTIMOS MOVIMIENTOS                                   │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"

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

	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ ledger.StockReportGenerator = (*StockReportGenerator)(nil)

// StockReportGenerator implementa ledger.StockReportGenerator usando Maroto v2.
type StockReportGenerator struct{}

// NewStockReportGenerator construye el generador.
func NewStockReportGenerator() *StockReportGenerator { return &StockReportGenerator{} }

// GenerateStockReport genera el PDF y devuelve sus bytes.
func (g *StockReportGenerator) GenerateStockReport(_ context.Context, report *ledger.StockReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(report.Title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRows(report.Stats)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionRow("PRODUCTOS CON BAJO STOCK", len(report.LowStock)))
	m.AddRows(accountTable(report.LowStock)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(sectionRow("PRODUCTOS SIN STOCK", len(report.OutOfStock)))
	m.AddRows(accountTable(report.OutOfStock)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(sectionRow("ÚLTIMOS MOVIMIENTOS", len(report.Recent)))
	m.AddRows(transactionTable(report.Recent)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(report *ledger.StockReport) core.Row {
	return row.New(14).Add(
		col.New(8).Add(
			text.New(nonEmpty(report.Title, "Reporte de stock"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+report.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 3, Color: colorGray,
			}),
		),
	)
}

// summaryRows: dos filas de indicadores.
func summaryRows(s *ledger.Statistics) []core.Row {
	kpi := func(label, value string, color *props.Color) core.Col {
		return col.New(3).Add(
			text.New(label, props.Text{Size: 7, Color: colorGray, Top: 1, Align: align.Center}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 11, Color: color, Top: 5, Align: align.Center}),
		)
	}
	return []core.Row{
		row.New(13).Add(
			kpi("Productos", strconv.Itoa(s.TotalProducts), colorPrimary),
			kpi("Unidades en stock", formatThousands(strconv.FormatInt(s.TotalStock, 10)), colorPrimary),
			kpi("Unidades reservadas", formatThousands(strconv.FormatInt(s.TotalReserved, 10)), colorPrimary),
			kpi("Valor del inventario", "$"+formatThousands(s.TotalValue.StringFixed(0)), colorPrimary),
		),
		row.New(13).Add(
			kpi("Activos", strconv.Itoa(s.ActiveCount), colorPrimary),
			kpi("Bajo stock", strconv.Itoa(s.LowStockCount), colorAlert),
			kpi("Sin stock", strconv.Itoa(s.OutOfStockCount), colorAlert),
			kpi("Descontinuados", strconv.Itoa(s.DiscontinuedCount), colorGray),
		),
	}
}

func sectionRow(title string, count int) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(fmt.Sprintf("%s (%d)", title, count), props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
		}),
	))
}

func headerCell(label string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(label, props.Text{
		Style: fontstyle.Bold, Size: 7.5, Align: a, Top: 1, Left: 1, Right: 1,
	}))
}

func cell(value string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(value, props.Text{
		Size: 7.5, Align: a, Top: 1, Left: 1, Right: 1,
	}))
}

func emptyRow() core.Row {
	return row.New(6).Add(col.New(12).Add(
		text.New("Sin registros", props.Text{Size: 7.5, Color: colorGray, Top: 1, Left: 1}),
	))
}

func accountTable(accounts []*entity.StockAccount) []core.Row {
	if len(accounts) == 0 {
		return []core.Row{emptyRow()}
	}
	rows := make([]core.Row, 0, len(accounts)+1)
	rows = append(rows, row.New(6).Add(
		headerCell("Producto", 4, align.Left),
		headerCell("Ubicación", 2, align.Left),
		headerCell("Actual", 1, align.Right),
		headerCell("Reserv.", 1, align.Right),
		headerCell("Mín.", 1, align.Right),
		headerCell("Estado", 3, align.Left),
	))
	for _, a := range accounts {
		rows = append(rows, row.New(5).Add(
			cell(a.ProductID+" · "+a.ProductName, 4, align.Left),
			cell(nonEmpty(a.WarehouseLocation, "-"), 2, align.Left),
			cell(strconv.Itoa(a.CurrentStock), 1, align.Right),
			cell(strconv.Itoa(a.ReservedStock), 1, align.Right),
			cell(strconv.Itoa(a.MinStock), 1, align.Right),
			cell(string(a.Status), 3, align.Left),
		))
	}
	return rows
}

func transactionTable(txs []*entity.StockTransaction) []core.Row {
	if len(txs) == 0 {
		return []core.Row{emptyRow()}
	}
	rows := make([]core.Row, 0, len(txs)+1)
	rows = append(rows, row.New(6).Add(
		headerCell("#", 1, align.Right),
		headerCell("Fecha", 2, align.Left),
		headerCell("Producto", 3, align.Left),
		headerCell("Tipo", 2, align.Left),
		headerCell("Cant.", 1, align.Right),
		headerCell("Antes -> Después", 3, align.Right),
	))
	for _, t := range txs {
		rows = append(rows, row.New(5).Add(
			cell(strconv.FormatInt(t.ID, 10), 1, align.Right),
			cell(t.CreatedAt.Format("02/01 15:04"), 2, align.Left),
			cell(t.ProductID, 3, align.Left),
			cell(string(t.Type), 2, align.Left),
			cell(strconv.Itoa(t.Quantity), 1, align.Right),
			cell(fmt.Sprintf("%d -> %d", t.BeforeStock, t.AfterStock), 3, align.Right),
		))
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatThousands inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "-1000000" → "-1.000.000"
func formatThousands(s string) string {
	sign := ""
	if len(s) > 0 && s[0] == '-' {
		sign, s = "-", s[1:]
	}
	n := len(s)
	if n <= 3 {
		return sign + s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf)
}
