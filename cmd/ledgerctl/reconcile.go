package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile [product_id...]",
	Short: "Concilia el stock reservado contra el log de transacciones",
	Long: `Suma RESERVE - RELEASE del log y lo compara con reserved_stock de la cuenta.
Sin argumentos concilia todas las cuentas. Termina con error si alguna no cuadra.

Ejemplo:
  ledgerctl reconcile SKU-001 SKU-002
  ledgerctl reconcile --json`,
	RunE: runReconcile,
}

func runReconcile(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	productIDs := args
	if len(productIDs) == 0 {
		accounts, err := services.Query.List(ctx, repository.AccountFilter{})
		if err != nil {
			return fmt.Errorf("listar cuentas: %w", err)
		}
		for _, a := range accounts {
			productIDs = append(productIDs, a.ProductID)
		}
	}

	var results []dto.ReconciliationResponse
	mismatches := 0
	for _, id := range productIDs {
		rec, err := services.Ledger.Reconcile(ctx, id)
		if err != nil {
			return fmt.Errorf("conciliar %s: %w", id, err)
		}
		if !rec.ReservedMatches {
			mismatches++
		}
		results = append(results, dto.NewReconciliationResponse(rec))
	}

	if jsonOutput {
		if err := printJSON(results); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			mark := "OK"
			if !r.ReservedMatches {
				mark = "DESCUADRE"
			}
			fmt.Printf("%-20s reservado=%-6d log=%-6d movimientos=%-5d %s\n",
				r.ProductID, r.ReservedStock, r.NetReserved, r.TransactionCount, mark)
		}
	}
	if mismatches > 0 {
		return fmt.Errorf("%d cuenta(s) con descuadre", mismatches)
	}
	return nil
}
