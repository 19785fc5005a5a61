package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/revendedor/painel-backend/pkg/enums"
)

func TestDerivedResolveThresholds(t *testing.T) {
	t.Parallel()

	cases := []struct {
		qty      int
		label    string
		severity enums.StockSeverity
	}{
		{qty: -3, label: "Sem estoque", severity: enums.StockSeverityCritical},
		{qty: 0, label: "Sem estoque", severity: enums.StockSeverityCritical},
		{qty: 1, label: "Estoque baixo", severity: enums.StockSeverityWarning},
		{qty: 5, label: "Estoque baixo", severity: enums.StockSeverityWarning},
		{qty: 20, label: "Estoque baixo", severity: enums.StockSeverityWarning},
		{qty: 21, label: "Em estoque", severity: enums.StockSeverityNormal},
	}
	for _, tc := range cases {
		display, severity := Derived{Quantity: tc.qty}.Resolve()
		assert.Equal(t, tc.label, display, "qty %d", tc.qty)
		assert.Equal(t, tc.severity, severity, "qty %d", tc.qty)
	}
}

func TestStoredLabelWinsOverQuantity(t *testing.T) {
	t.Parallel()

	label := "Sem estoque"
	display, severity := StatusOf(&label, 50).Resolve()
	assert.Equal(t, "Sem estoque", display)
	assert.Equal(t, enums.StockSeverityCritical, severity)
}

func TestStoredLabelSeverityBySubstring(t *testing.T) {
	t.Parallel()

	cases := map[string]enums.StockSeverity{
		"SEM ESTOQUE":        enums.StockSeverityCritical,
		"Estoque Baixo":      enums.StockSeverityWarning,
		"Em estoque":         enums.StockSeverityNormal,
		"Reservado p/ feira": enums.StockSeverityNormal,
	}
	for label, want := range cases {
		display, severity := Stored{Label: label}.Resolve()
		assert.Equal(t, label, display)
		assert.Equal(t, want, severity, label)
	}
}

func TestStatusOfBlankLabelDerives(t *testing.T) {
	t.Parallel()

	blank := "   "
	assert.Equal(t, Derived{Quantity: 7}, StatusOf(&blank, 7))
	assert.Equal(t, Derived{Quantity: 30}, StatusOf(nil, 30))
}
