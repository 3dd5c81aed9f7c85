package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalize(t *testing.T) {
	tr, err := New()
	require.NoError(t, err)

	tests := []struct {
		name  string
		id    string
		data  map[string]interface{}
		langs []string
		want  string
	}{
		{"english default", "product_not_found", nil, nil, "Product not found."},
		{"spanish accept-language", "product_not_found", nil, []string{"es-AR,es;q=0.9,en;q=0.8"}, "Producto no encontrado."},
		{"unsupported language falls back", "sale_not_found", nil, []string{"fr"}, "Sale not found."},
		{"template data", "insufficient_stock", map[string]interface{}{"Name": "Yerba", "Available": 2}, []string{"es"}, "Stock insuficiente para Yerba (disponible 2)."},
		{"unknown id uses fallback", "does_not_exist", nil, []string{"en"}, "fallback"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tr.Localize(tt.id, "fallback", tt.data, tt.langs...)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLocalize_NilTranslator(t *testing.T) {
	var tr *Translator
	assert.Equal(t, "plain", tr.Localize("product_not_found", "plain", nil))
}

func TestNew_LoadsEveryLocale(t *testing.T) {
	tr, err := New()
	require.NoError(t, err)
	assert.Len(t, tr.bundle.LanguageTags(), len(localeFiles))
}
