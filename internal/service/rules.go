package service

import "strings"

// FallbackCategory is returned when no manual override exists and no keyword
// rule matches. The heuristic promotion never persists it.
const FallbackCategory = "Sin categoría"

// categoryRule pairs a category with the keywords that route a product into
// it. Matching is case-insensitive substring search.
type categoryRule struct {
	category string
	keywords []string
}

// categoryRules is evaluated strictly in order and the first match wins.
// The order is load-bearing: moving a rule changes how ambiguous names
// (e.g. "crema", "helado de leche") classify, so entries are only ever
// appended within their category, never reordered.
var categoryRules = []categoryRule{
	{"Lácteos", []string{"leche", "queso", "quesillo", "yogur", "yoghurt", "mantequilla", "crema", "manjar"}},
	{"Carnes", []string{"carne", "pollo", "vacuno", "cerdo", "pavo", "longaniza", "vienesa", "hamburguesa", "tocino", "jamon", "jamón"}},
	{"Pescados y Mariscos", []string{"pescado", "salmon", "salmón", "atun", "atún", "merluza", "reineta", "camaron", "camarón", "chorito", "marisco"}},
	{"Frutas y Verduras", []string{"tomate", "lechuga", "papa", "cebolla", "palta", "limon", "limón", "manzana", "platano", "plátano", "zanahoria", "pimenton", "pimentón", "fruta", "verdura", "cilantro", "ajo"}},
	{"Panadería", []string{"pan ", "marraqueta", "hallulla", "masa", "empanada", "tortilla"}},
	{"Abarrotes", []string{"arroz", "fideo", "pasta", "harina", "azucar", "azúcar", "aceite", "sal ", "salsa", "conserva", "poroto", "lenteja", "garbanzo", "cafe", "café", "te ", "té "}},
	{"Bebidas", []string{"bebida", "jugo", "agua", "cerveza", "vino", "pisco", "gaseosa", "nectar", "néctar"}},
	{"Congelados", []string{"congelado", "helado", "hielo"}},
	{"Aseo y Limpieza", []string{"detergente", "cloro", "lavaloza", "jabon", "jabón", "papel higienico", "papel higiénico", "servilleta", "toalla", "esponja", "desinfectante"}},
	{"Desechables", []string{"vaso", "bolsa", "envase", "contenedor", "desechable", "film", "aluminio", "bandeja", "pocillo"}},
	{"Gas y Combustibles", []string{"gas ", "carbon", "carbón", "leña", "parafina"}},
}

// normalizeName case-folds a product name for use as a catalog key.
func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// heuristicCategory runs the ordered keyword rules over a normalized product
// name. First match wins; no match falls back to FallbackCategory.
func heuristicCategory(normalized string) string {
	// Short keywords carry a trailing space ("pan ", "te ") so they only hit
	// whole words; padding the name lets them match at the end of it too.
	padded := normalized + " "
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(padded, kw) {
				return rule.category
			}
		}
	}
	return FallbackCategory
}
