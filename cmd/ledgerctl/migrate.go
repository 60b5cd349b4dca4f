package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/stock-ledger/pkg/config"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Aplica las migraciones de PostgreSQL",
	Long: `Crea las tablas stock_accounts y stock_transactions si no existen.
Los scripts son idempotentes. Con almacenamiento en memoria no hace nada.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// bootstrap.New ya migró en PersistentPreRunE
		if services.Driver() != config.StoreDriverPostgres {
			fmt.Println("almacenamiento en memoria: no hay migraciones")
			return nil
		}
		fmt.Println("migraciones aplicadas")
		return nil
	},
}
