package model

// EntityKind identifies which owning entity family a cost line or price
// schema belongs to. Products and services share every pricing rule; only
// their tables differ.
type EntityKind string

const (
	KindProduct EntityKind = "product"
	KindService EntityKind = "service"
)

// Valid reports whether k is a known kind.
func (k EntityKind) Valid() bool {
	return k == KindProduct || k == KindService
}

// EntityTable is the table holding the owning entities.
func (k EntityKind) EntityTable() string {
	if k == KindService {
		return "services"
	}
	return "products"
}

// CostTable is the table holding the entity's cost lines.
func (k EntityKind) CostTable() string {
	if k == KindService {
		return "service_costs"
	}
	return "product_costs"
}

// SchemaTable is the table holding the entity's price schema levels.
func (k EntityKind) SchemaTable() string {
	if k == KindService {
		return "service_price_schemas"
	}
	return "product_price_schemas"
}

// Label is the human-readable name used in messages.
func (k EntityKind) Label() string {
	if k == KindService {
		return "Service"
	}
	return "Product"
}
