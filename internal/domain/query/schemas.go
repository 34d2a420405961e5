package query

// Users lists user accounts.
var Users = NewSchema("users",
	ref("id", "id"),
	text("email", "email"),
	text("username", "username"),
	text("role", "role"),
	text("account_type", "account_type"),
	text("first_name", "first_name"),
	text("last_name", "last_name"),
	text("city", "city"),
	timestamp("created_at", "created_at"),
	timestamp("updated_at", "updated_at"),
).WithProjection(
	"email", "username", "role", "account_type", "first_name", "last_name",
	"phones", "avatar", "city", "created_at", "updated_at",
)

// Stores lists stores.
var Stores = NewSchema("stores",
	ref("id", "id"),
	ref("owner", "owner_id"),
	text("name", "name"),
	text("slug", "slug"),
	text("email", "email"),
	text("status", "status"),
	text("city", "address_city"),
	text("state", "address_state"),
	boolean("live_tracking", "live_tracking"),
	number("average_rating", "average_rating"),
	timestamp("created_at", "created_at"),
	timestamp("updated_at", "updated_at"),
	Field{
		Name: "workers", Column: "id", Kind: KindUUID, Filterable: true,
		Through: &Through{Table: "store_workers", Key: "store_id", Value: "user_id"},
	},
).WithProjection(
	"owner", "name", "slug", "email", "description", "phones", "website",
	"cover_image", "account_number", "license_number", "landmark",
	"physical_address", "address", "location", "live_tracking",
	"average_rating", "status", "workers", "created_at", "updated_at",
)

// Products lists products. Pricing fields are reachable by both their short
// and their nested names.
var Products = NewSchema("products",
	ref("id", "id"),
	ref("store", "store_id"),
	text("name", "name"),
	text("tradename", "tradename"),
	text("manufacturer", "manufacturer"),
	number("price", "price"),
	number("pricing.price", "price"),
	number("discount", "discount"),
	number("pricing.discount", "discount"),
	text("currency", "currency"),
	text("pricing.currency", "currency"),
	number("rating", "rating"),
	timestamp("created_at", "created_at"),
	timestamp("updated_at", "updated_at"),
	Field{
		Name: "categories", Column: "id", Kind: KindUUID, Filterable: true,
		Through: &Through{Table: "product_categories", Key: "product_id", Value: "category_id"},
	},
).WithProjection(
	"store", "name", "tradename", "catch_phrase", "description", "directions",
	"prescription", "caution", "manufacturer", "tags", "categories",
	"packaging", "images", "image", "pricing", "actual_price", "rating",
	"created_at", "updated_at",
)

// Orders lists orders.
var Orders = NewSchema("orders",
	ref("id", "id"),
	ref("user", "user_id"),
	ref("store", "store_id"),
	text("status", "status"),
	number("total", "total"),
	text("currency", "currency"),
	text("payment_mode", "payment_mode"),
	timestamp("created_at", "created_at"),
	timestamp("updated_at", "updated_at"),
).WithProjection(
	"user", "store", "order_items", "total", "currency", "status",
	"shipping_address", "payment_mode", "created_at", "updated_at",
)

// Categories lists categories.
var Categories = NewSchema("categories",
	ref("id", "id"),
	text("name", "name"),
	ref("parent", "parent_id"),
	boolean("featured", "featured"),
	timestamp("created_at", "created_at"),
	timestamp("updated_at", "updated_at"),
).WithProjection(
	"name", "description", "parent", "icon", "image", "featured",
	"created_at", "updated_at",
)
