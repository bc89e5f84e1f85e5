package models

// All lists every persisted model, in dependency order, for AutoMigrate on the
// SQLite development database. Postgres is migrated by the goose scripts.
func All() []any {
	return []any{
		&User{},
		&Store{},
		&UserStore{},
		&Product{},
		&StoreProduct{},
	}
}
