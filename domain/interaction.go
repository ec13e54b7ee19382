package domain

import (
	"time"
)

// CREATE TABLE public.customer_interactions (
//     id               BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     customer_id      BIGINT NOT NULL,
//     product_id       BIGINT NOT NULL,
//     date             DATE NOT NULL,
//     brand_id         BIGINT NOT NULL,
//     gender           SMALLINT NOT NULL, -- 0=women, 1=men, 2=other
//     views            BIGINT NOT NULL DEFAULT 0,
//     purchased        BOOLEAN NOT NULL DEFAULT FALSE,
//     add_to_cart      BOOLEAN NOT NULL DEFAULT FALSE,
//     add_to_wishlist  BOOLEAN NOT NULL DEFAULT FALSE,
//     time_on_page     NUMERIC NOT NULL DEFAULT 0
// );

// InteractionEvent is one raw implicit-feedback row, one per
// customer-product-day. Rows are immutable; scoring produces derived tables.
type InteractionEvent struct {
	ID            uint64    `gorm:"primaryKey;autoIncrement"`
	CustomerID    uint64    `gorm:"column:customer_id"`
	ProductID     uint64    `gorm:"column:product_id"`
	Date          time.Time `gorm:"column:date"`
	BrandID       int       `gorm:"column:brand_id"`
	Gender        int8      `gorm:"column:gender"`
	Views         int       `gorm:"column:views"`
	Purchased     bool      `gorm:"column:purchased"`
	AddToCart     bool      `gorm:"column:add_to_cart"`
	AddToWishlist bool      `gorm:"column:add_to_wishlist"`
	TimeOnPage    float64   `gorm:"column:time_on_page;type:numeric"`
}

func (InteractionEvent) TableName() string {
	return "customer_interactions"
}

// ScoredInteraction is the decayed, weighted affinity of one customer for
// one brand/gender segment. Key (MemberID, BrandGender) is unique per run.
type ScoredInteraction struct {
	MemberID    uint64  `json:"memberID"`
	BrandGender string  `json:"b_g"`
	TotalHits   float64 `json:"total_hits"`
}
