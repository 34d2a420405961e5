// Package model holds the GORM persistence models. Each model maps one table.
package model

import "github.com/google/uuid"

// newID returns a time-ordered UUID so primary keys index well.
func newID() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}

	return id
}

// ImageModel is the stored form of a published media object.
type ImageModel struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// All lists every model in migration order.
func All() []any {
	return []any{
		&UserModel{},
		&StoreModel{},
		&StoreWorkerModel{},
		&CategoryModel{},
		&ProductModel{},
		&ProductCategoryModel{},
		&OrderModel{},
		&OrderItemModel{},
		&OrderEventLogModel{},
	}
}
