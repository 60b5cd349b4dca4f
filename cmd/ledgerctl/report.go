package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var reportOut string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Genera el reporte PDF de stock",
	Long: `Escribe el reporte (resumen, bajo stock, agotados y últimos movimientos) en un archivo.

Ejemplo:
  ledgerctl report --out reporte.pdf`,
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, filename, err := services.Report.GeneratePDF(commandContext(cmd))
		if err != nil {
			return fmt.Errorf("generar reporte: %w", err)
		}
		out := reportOut
		if out == "" {
			out = filename
		}
		if err := os.WriteFile(out, doc, 0o644); err != nil {
			return fmt.Errorf("escribir %s: %w", out, err)
		}
		fmt.Printf("reporte escrito en %s (%d bytes)\n", out, len(doc))
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportOut, "out", "", "archivo de salida (default: stock-report-<fecha>.pdf)")
}
