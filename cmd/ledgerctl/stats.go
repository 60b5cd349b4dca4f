package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Muestra las estadísticas del inventario",
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := services.Stats.GetStatistics(commandContext(cmd))
		if err != nil {
			return fmt.Errorf("estadísticas: %w", err)
		}
		if jsonOutput {
			return printJSON(dto.NewStatisticsResponse(stats))
		}
		fmt.Printf("Productos:      %d\n", stats.TotalProducts)
		fmt.Printf("Stock total:    %d\n", stats.TotalStock)
		fmt.Printf("Reservado:      %d\n", stats.TotalReserved)
		fmt.Printf("Valor:          %s\n", stats.TotalValue.StringFixed(2))
		fmt.Printf("Activos:        %d\n", stats.ActiveCount)
		fmt.Printf("Bajo stock:     %d\n", stats.LowStockCount)
		fmt.Printf("Sin stock:      %d\n", stats.OutOfStockCount)
		fmt.Printf("Descontinuados: %d\n", stats.DiscontinuedCount)
		return nil
	},
}
