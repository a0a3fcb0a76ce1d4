package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeuristicCategoryKeywords(t *testing.T) {
	cases := map[string]string{
		"leche entera 1l":            "Lácteos",
		"queso gauda laminado":       "Lácteos",
		"pollo entero congelado":     "Carnes", // carnes precede congelados
		"salmón fresco filete":       "Pescados y Mariscos",
		"tomate pomarola malla":      "Frutas y Verduras",
		"pan batido kg":              "Panadería",
		"arroz grado 1":              "Abarrotes",
		"bebida cola 3l":             "Bebidas",
		"helado crema vainilla":      "Lácteos", // "crema" wins, rules are ordered
		"hielo en cubos":             "Congelados",
		"detergente matic 3kg":       "Aseo y Limpieza",
		"vaso plastico 250cc":        "Desechables",
		"gas licuado 15kg":           "Gas y Combustibles",
		"producto misterioso":        "Sin categoría",
		"te ceylan 20 bolsitas":      "Abarrotes",
		"panal desechable talla g":   "Desechables", // "pan " needs the space, "desechable" matches
		"salsa de tomate tarro":      "Frutas y Verduras",
		// Word-final keywords also match a name ending in the bare word.
		"pan":              "Panadería",
		"marraqueta y pan": "Panadería",
		"te":               "Abarrotes",
		"sobre de sal":     "Abarrotes",
	}
	for name, want := range cases {
		assert.Equal(t, want, heuristicCategory(name), "product %q", name)
	}
}

func TestHeuristicCategoryDeterministic(t *testing.T) {
	for i := 0; i < 10; i++ {
		assert.Equal(t, "Lácteos", heuristicCategory("mantequilla con sal"))
	}
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "leche entera 1l", normalizeName("  Leche Entera 1L  "))
	assert.Equal(t, "", normalizeName("   "))
}
