// ledgerctl opera el ledger de stock desde la terminal: migraciones, carga inicial,
// estadísticas, conciliación y reporte PDF.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/stock-ledger/internal/bootstrap"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

var (
	// jsonOutput lo activa --json.
	jsonOutput bool
	// storeDriver sobrescribe STORE_DRIVER si viene --store.
	storeDriver string

	services *bootstrap.Services
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ledgerctl",
	Short: "Herramienta de administración del ledger de stock",
	Long: `ledgerctl usa la misma configuración que la API (variables de entorno o .env).
Con STORE_DRIVER=memory los datos viven solo durante el comando.`,
	SilenceUsage:      true,
	PersistentPreRunE: initServices,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if services != nil {
			services.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "salida en JSON")
	rootCmd.PersistentFlags().StringVar(&storeDriver, "store", "", "almacenamiento: memory | postgres (default: STORE_DRIVER)")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(reconcileCmd)
	rootCmd.AddCommand(reportCmd)
}

// initServices carga configuración y conecta el almacenamiento. migrate lo hace por su cuenta.
func initServices(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}
	if storeDriver != "" {
		cfg.Store.Driver = storeDriver
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Out: os.Stderr})

	services, err = bootstrap.New(commandContext(cmd), cfg, log, cmd.Name() == migrateCmd.Name())
	if err != nil {
		return err
	}
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
