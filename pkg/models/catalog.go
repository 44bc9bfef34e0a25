package models

type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"type:varchar(100);not null" json:"name"`
}

func (Category) TableName() string {
	return "categories"
}

type MenuItem struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	Name       string  `gorm:"type:varchar(120);not null" json:"name"`
	Price      float64 `gorm:"type:decimal(10,2);not null" json:"price"`
	CategoryID *uint   `gorm:"index" json:"category_id"`
}

func (MenuItem) TableName() string {
	return "menu_items"
}
