package model

import "time"

type ResourceKind string

const (
	// ResourceKindZone is an exclusive resource: at most one non-cancelled
	// reservation may cover any instant.
	ResourceKindZone ResourceKind = "zone"
	// ResourceKindMaterial is a quantity-pooled resource: concurrent
	// reservation amounts may not exceed TotalQuantity.
	ResourceKindMaterial ResourceKind = "material"
)

type Resource struct {
	ID            string       `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name          string       `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Kind          ResourceKind `json:"kind" bson:"kind" validate:"required,oneof=zone material"`
	TotalQuantity int          `json:"total_quantity" bson:"total_quantity" validate:"min=0"`
	Active        bool         `json:"active" bson:"active"`
	CreatedAt     time.Time    `json:"created_at" bson:"created_at" validate:"omitempty"`
}

func (r *Resource) Exclusive() bool {
	return r.Kind == ResourceKindZone
}

type ResourceUpdate struct {
	Name          string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	TotalQuantity *int   `json:"total_quantity,omitempty" validate:"omitempty,min=0"`
	Active        *bool  `json:"active,omitempty"`
}
