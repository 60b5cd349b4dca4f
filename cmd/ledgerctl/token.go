package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/jwt"
)

var (
	tokenUserID string
	tokenName   string
	tokenRole   string
)

// tokenCmd no necesita almacenamiento: solo firma con JWT_SECRET.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Emite un Bearer Token para un operador",
	Long: `Firma un JWT con JWT_SECRET. El user_id y el nombre quedan en cada transacción
registrada con ese token.

Ejemplo:
  ledgerctl token --user-id op-17 --name "Ana Pérez" --role operador`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("cargar configuración: %w", err)
		}
		switch tokenRole {
		case jwt.RoleAdmin, jwt.RoleOperator, jwt.RoleViewer:
		default:
			return fmt.Errorf("rol inválido %q (%s|%s|%s)", tokenRole, jwt.RoleAdmin, jwt.RoleOperator, jwt.RoleViewer)
		}
		tok, err := jwt.Generate(cfg.JWT.Secret, tokenUserID, tokenName, tokenRole, cfg.JWT.Issuer, cfg.JWT.Expiration)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(map[string]any{"token": tok, "expires_in_minutes": cfg.JWT.Expiration})
		}
		fmt.Println(tok)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenUserID, "user-id", "", "identificador del operador (requerido)")
	tokenCmd.Flags().StringVar(&tokenName, "name", "", "nombre del operador")
	tokenCmd.Flags().StringVar(&tokenRole, "role", jwt.RoleOperator, "admin | operador | consulta")
	_ = tokenCmd.MarkFlagRequired("user-id")
	rootCmd.AddCommand(tokenCmd)
}
