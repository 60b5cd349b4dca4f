package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

var (
	seedCharset    string
	seedSkipExists bool
)

var seedCmd = &cobra.Command{
	Use:   "seed <archivo.csv>",
	Short: "Crea cuentas de stock desde un CSV",
	Long: `Columnas (con encabezado, en cualquier orden):
  product_id, product_name, category, current_stock, min_stock, max_stock,
  unit_price, warehouse_location, status

Las exportaciones de hojas de cálculo suelen venir en ISO-8859-1: usar --charset latin1.

Ejemplo:
  ledgerctl seed inventario.csv --charset latin1 --skip-existing`,
	Args: cobra.ExactArgs(1),
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedCharset, "charset", "utf-8", "codificación del archivo: utf-8 | latin1")
	seedCmd.Flags().BoolVar(&seedSkipExists, "skip-existing", false, "omitir productos que ya tienen cuenta")
}

func runSeed(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("abrir CSV: %w", err)
	}
	defer f.Close()

	r, err := decodeCharset(f, seedCharset)
	if err != nil {
		return err
	}
	inputs, err := parseSeedCSV(r)
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	created, skipped := 0, 0
	for _, in := range inputs {
		if _, err := services.Ledger.CreateAccount(ctx, in); err != nil {
			if seedSkipExists && errors.Is(err, domain.ErrDuplicateAccount) {
				skipped++
				continue
			}
			return fmt.Errorf("crear %s: %w", in.ProductID, err)
		}
		created++
	}
	fmt.Printf("cuentas creadas: %d, omitidas: %d\n", created, skipped)
	return nil
}

// decodeCharset envuelve r para leer el archivo como UTF-8.
func decodeCharset(r io.Reader, charset string) (io.Reader, error) {
	switch strings.ToLower(strings.ReplaceAll(charset, "-", "")) {
	case "", "utf8":
		return r, nil
	case "latin1", "iso88591":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	case "windows1252", "cp1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("charset no soportado: %q", charset)
	}
}

var requiredSeedColumns = []string{"product_id", "product_name", "current_stock", "max_stock", "unit_price"}

// parseSeedCSV lee el CSV a inputs de CreateAccount. Los errores indican la línea.
func parseSeedCSV(r io.Reader) ([]ledger.CreateAccountInput, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("leer encabezado: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, c := range requiredSeedColumns {
		if _, ok := cols[c]; !ok {
			return nil, fmt.Errorf("falta la columna %q", c)
		}
	}

	var out []ledger.CreateAccountInput
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		field := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		in := ledger.CreateAccountInput{
			ProductID:         field("product_id"),
			ProductName:       field("product_name"),
			Category:          field("category"),
			WarehouseLocation: field("warehouse_location"),
		}
		if s := field("status"); s != "" {
			in.Status = entity.AccountStatus(strings.ToUpper(s))
		}
		if in.CurrentStock, err = atoiField(field("current_stock")); err != nil {
			return nil, fmt.Errorf("línea %d: current_stock: %w", line, err)
		}
		if in.MinStock, err = atoiField(field("min_stock")); err != nil {
			return nil, fmt.Errorf("línea %d: min_stock: %w", line, err)
		}
		if in.MaxStock, err = atoiField(field("max_stock")); err != nil {
			return nil, fmt.Errorf("línea %d: max_stock: %w", line, err)
		}
		price := strings.ReplaceAll(field("unit_price"), ",", ".")
		if in.UnitPrice, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("línea %d: unit_price: %w", line, err)
		}
		out = append(out, in)
	}
	return out, nil
}

func atoiField(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
