package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/ledger"
)

// ReportHandler estadísticas agregadas y reporte PDF del inventario.
type ReportHandler struct {
	stats  *ledger.StatisticsUseCase
	report *ledger.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(stats *ledger.StatisticsUseCase, report *ledger.ReportUseCase) *ReportHandler {
	return &ReportHandler{stats: stats, report: report}
}

// GetStatistics godoc
// @Summary      Estadísticas del inventario
// @Description  Totales de productos, stock, reservado y valor, más conteos por estado.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StatisticsResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/stock/statistics [get]
func (h *ReportHandler) GetStatistics(c *fiber.Ctx) error {
	stats, err := h.stats.GetStatistics(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewStatisticsResponse(stats))
}

// DownloadPDF godoc
// @Summary      Reporte PDF de stock
// @Description  Resumen, productos con bajo stock o agotados y últimos movimientos.
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}    binary
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/stock/report.pdf [get]
func (h *ReportHandler) DownloadPDF(c *fiber.Ctx) error {
	doc, filename, err := h.report.GeneratePDF(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(doc)
}
