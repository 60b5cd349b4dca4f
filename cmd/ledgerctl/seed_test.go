package main

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

func TestParseSeedCSV_ColumnasEnCualquierOrden(t *testing.T) {
	csv := "unit_price,product_id,product_name,current_stock,max_stock,min_stock,status\n" +
		"2,SKU-1,Tornillo,100,1000,10,\n" +
		"\"1,75\",SKU-2,Tuerca,0,500,5,discontinued\n"

	inputs, err := parseSeedCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, inputs, 2)

	assert.Equal(t, "SKU-1", inputs[0].ProductID)
	assert.Equal(t, 100, inputs[0].CurrentStock)
	assert.Equal(t, 10, inputs[0].MinStock)
	assert.True(t, decimal.NewFromInt(2).Equal(inputs[0].UnitPrice))
	assert.Empty(t, inputs[0].Status)

	assert.True(t, decimal.RequireFromString("1.75").Equal(inputs[1].UnitPrice))
	assert.Equal(t, entity.AccountStatus("DISCONTINUED"), inputs[1].Status)
}

func TestParseSeedCSV_FaltaColumna(t *testing.T) {
	_, err := parseSeedCSV(strings.NewReader("product_id,product_name\nSKU-1,X\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "current_stock")
}

func TestParseSeedCSV_NumeroInvalidoIndicaLinea(t *testing.T) {
	csv := "product_id,product_name,current_stock,max_stock,unit_price\n" +
		"SKU-1,X,10,100,1\n" +
		"SKU-2,Y,diez,100,1\n"
	_, err := parseSeedCSV(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "línea 3")
}

func TestDecodeCharset_Latin1(t *testing.T) {
	// "Ñandú" en ISO-8859-1
	raw := []byte{0xD1, 'a', 'n', 'd', 0xFA}
	r, err := decodeCharset(bytes.NewReader(raw), "ISO-8859-1")
	require.NoError(t, err)
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "Ñandú", string(out))
}

func TestDecodeCharset_Desconocido(t *testing.T) {
	_, err := decodeCharset(strings.NewReader(""), "ebcdic")
	assert.Error(t, err)
}
