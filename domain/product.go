package domain

// CREATE TABLE public.product_information (
//     id          BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     product_id  BIGINT NOT NULL,
//     brand_id    BIGINT NOT NULL,
//     gender      SMALLINT NOT NULL,
//     category    TEXT,
//     description TEXT
// );

// ProductInfo is the product attribute row handed to the content-based
// trainer. The core passes it through without interpreting it.
type ProductInfo struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement"`
	ProductID   uint64 `gorm:"column:product_id"`
	BrandID     int    `gorm:"column:brand_id"`
	Gender      int8   `gorm:"column:gender"`
	Category    string `gorm:"column:category;type:text"`
	Description string `gorm:"column:description;type:text"`
}

func (ProductInfo) TableName() string {
	return "product_information"
}
