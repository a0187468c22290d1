package lotecalc

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtraerNumero(t *testing.T) {
	cases := []struct {
		in   string
		n    int
		ok   bool
	}{
		{"2024001", 2024001, true},
		{"L-001", 1, true},
		{"LOTE-2024-0005", 5, true},
		{"ABC123XYZ", 123, true},
		{"SIN-NUMERO", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		n, ok := ExtraerNumero(c.in)
		assert.Equal(t, c.ok, ok, c.in)
		assert.Equal(t, c.n, n, c.in)
	}
}

func TestSugerirSiguiente(t *testing.T) {
	assert.Equal(t, "", SugerirSiguiente(""), "historial vacío no sugiere nada")
	assert.Equal(t, "L-004", SugerirSiguiente("L-003"), "conserva el cero-padding")
	assert.Equal(t, "2024002", SugerirSiguiente("2024001"))
	assert.Equal(t, "LOTE-2024-0010", SugerirSiguiente("LOTE-2024-0009"))
	assert.Equal(t, "L-100", SugerirSiguiente("L-099"))
	// Sin dígitos al final: sufijo incremental
	assert.Equal(t, "ABC123XYZ-2", SugerirSiguiente("ABC123XYZ"))
	assert.Equal(t, "SIN-NUMERO-2", SugerirSiguiente("SIN-NUMERO"))
}

func TestDetectarSalto(t *testing.T) {
	hay, esperado := DetectarSalto("L-005", "L-003")
	assert.True(t, hay)
	assert.Equal(t, "L-004", esperado)

	hay, _ = DetectarSalto("L-004", "L-003")
	assert.False(t, hay, "el siguiente consecutivo no es salto")

	hay, _ = DetectarSalto("L-002", "L-003")
	assert.False(t, hay, "retroceder no es salto (lo cubre el duplicado)")

	// Primer lote del producto
	hay, esperado = DetectarSalto("L-007", "")
	assert.True(t, hay)
	assert.Equal(t, "1", esperado)

	hay, _ = DetectarSalto("L-001", "")
	assert.False(t, hay)

	// Números no extraíbles nunca generan salto
	hay, _ = DetectarSalto("SIN-NUMERO", "L-003")
	assert.False(t, hay)
	hay, _ = DetectarSalto("L-005", "SIN-NUMERO")
	assert.False(t, hay)
}

func TestValidarFechaProduccion(t *testing.T) {
	hoy := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)

	assert.Empty(t, ValidarFechaProduccion(hoy, hoy), "hoy no genera advertencias")
	assert.Empty(t, ValidarFechaProduccion(hoy.AddDate(0, 0, -30), hoy), "30 días atrás es el límite")

	adv := ValidarFechaProduccion(hoy.AddDate(0, 0, -31), hoy)
	require.Len(t, adv, 1)
	assert.Equal(t, AdvFechaMuyAntigua, adv[0].Tipo)

	adv = ValidarFechaProduccion(hoy.AddDate(0, 0, 3), hoy)
	require.Len(t, adv, 1)
	assert.Equal(t, AdvFechaFutura, adv[0].Tipo)
	assert.Contains(t, adv[0].Mensaje, "3 día(s)")
}

func TestCalcularLitrosTotales(t *testing.T) {
	lpu := decimal.RequireFromString("20.5")

	total := CalcularLitrosTotales(3, 7, 48, lpu)
	// (3*48 + 7) * 20.5 = 151 * 20.5 = 3095.5
	assert.True(t, total.Equal(decimal.RequireFromString("3095.5")), total.String())

	// Idempotente: recomputar con las mismas entradas da lo mismo
	assert.True(t, total.Equal(CalcularLitrosTotales(3, 7, 48, lpu)))

	assert.True(t, CalcularLitrosTotales(0, 0, 48, lpu).IsZero())
	assert.True(t, CalcularLitrosTotales(2, 0, 0, lpu).IsZero(), "sin unidades por pallet no hay volumen")
}

func TestCalcularFechaVencimiento(t *testing.T) {
	fp := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2027, 3, 10, 0, 0, 0, 0, time.UTC), CalcularFechaVencimiento(fp, 2))

	// 29 de febrero + 1 año normaliza a 1 de marzo
	bisiesto := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), CalcularFechaVencimiento(bisiesto, 1))

	// 29 de febrero + 4 años cae de nuevo en 29 de febrero
	assert.Equal(t, time.Date(2028, 2, 29, 0, 0, 0, 0, time.UTC), CalcularFechaVencimiento(bisiesto, 4))

	assert.Equal(t, fp, CalcularFechaVencimiento(fp, 0))
}

func TestTieneAdvertencia(t *testing.T) {
	adv := []Advertencia{DescribirAdvertenciaDuplicado("L-001")}
	assert.True(t, TieneAdvertencia(adv, AdvLoteDuplicado))
	assert.False(t, TieneAdvertencia(adv, AdvSaltoLote))
	assert.False(t, TieneAdvertencia(nil, AdvLoteDuplicado))
}
