package entity

// StockItemRef identifica lo que se rastrea en inventario: un producto o una
// variante concreta de un producto. VariantID vacío = producto sin variante.
// Inmutable una vez que un movimiento lo referencia.
type StockItemRef struct {
	ProductID string
	VariantID string
}

// IsZero indica si la referencia está vacía.
func (r StockItemRef) IsZero() bool { return r.ProductID == "" }

// Equals compara dos referencias de ítem.
func (r StockItemRef) Equals(other StockItemRef) bool {
	return r.ProductID == other.ProductID && r.VariantID == other.VariantID
}
