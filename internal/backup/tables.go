package backup

// TableSpec names a backed-up table and its fetch ordering. Ordering
// failures fall back to an unordered fetch before the table is recorded
// empty.
type TableSpec struct {
	Name    string
	OrderBy string
}

// Specs lists every table in the snapshot. The restore side walks the
// same list, which is already in dependency order.
var Specs = []TableSpec{
	{Name: "base_categories", OrderBy: "created_at DESC"},
	{Name: "categories", OrderBy: "created_at DESC"},
	{Name: "tags", OrderBy: "name ASC"},
	{Name: "products", OrderBy: "created_at DESC"},
	{Name: "product_tags", OrderBy: "created_at DESC"},
	{Name: "profiles", OrderBy: "created_at DESC"},
	{Name: "invoice_settings", OrderBy: "created_at DESC"},
	{Name: "orders", OrderBy: "created_at DESC"},
	{Name: "order_items", OrderBy: "created_at DESC"},
}

// identityTables reference auth identities through user_id. Restore
// skips them entirely when the snapshot carries no usable references.
var identityTables = map[string]bool{
	"profiles":         true,
	"invoice_settings": true,
	"orders":           true,
}

// nameUniqueTables carry a unique name column. Restore ignores
// duplicate rows for them instead of upserting.
var nameUniqueTables = map[string]bool{
	"base_categories": true,
	"categories":      true,
	"tags":            true,
}
