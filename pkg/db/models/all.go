package models

// All lists every table model in dependency order; used for sqlite schema
// bootstrapping where the postgres migrations do not apply.
func All() []any {
	return []any{
		&User{},
		&Reseller{},
		&Package{},
		&Order{},
		&OrderItem{},
		&InventoryItem{},
		&Customer{},
		&OutboxEvent{},
	}
}
