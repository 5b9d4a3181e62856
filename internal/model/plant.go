package model

// Plant represents a catalog entry for a plant offered for sale.  This
// struct corresponds to a row in the `plants` table and is also the JSON
// shape returned by the API.
//
// Fields:
//  ID        – primary key identifier, assigned by the database.
//  Name      – display name of the plant.
//  Image     – URL or path of the plant picture.
//  Price     – unit price.
//  IsInStock – whether the plant can currently be ordered.
//
// IsInStock has no gorm default tag; the create-time default of true is
// applied by the repository so an explicit false is stored as false.
type Plant struct {
	ID        uint64  `gorm:"primaryKey;autoIncrement" json:"id"`  // plants.id
	Name      string  `gorm:"not null" json:"name"`                // plants.name
	Image     string  `gorm:"not null" json:"image"`               // plants.image
	Price     float64 `gorm:"not null" json:"price"`               // plants.price
	IsInStock bool    `gorm:"not null" json:"is_in_stock"`         // plants.is_in_stock
}

// TableName pins the table name so it does not depend on gorm's pluralizer.
func (Plant) TableName() string {
	return "plants"
}
