// internal/models/product.go
package models

type Product struct {
	BaseModel
	Name          string        `json:"name" gorm:"size:255;not null"`
	Series        string        `json:"series" gorm:"size:100;index"`
	Category      string        `json:"category" gorm:"size:100;index"`
	Description   string        `json:"description" gorm:"type:text"`
	Story         string        `json:"story" gorm:"type:text"`
	Price         float64       `json:"price" gorm:"not null;default:0"`
	Stock         int           `json:"stock" gorm:"not null;default:0"`
	Sizes         SizeList      `json:"sizes"`
	Fit           string        `json:"fit" gorm:"size:100"`
	Material      string        `json:"material" gorm:"size:255"`
	Images        StringList    `json:"images"`
	PurchaseLinks PurchaseLinks `json:"purchase_links"`
	IsFeatured    bool          `json:"is_featured"`
	IsActive      bool          `json:"is_active" gorm:"index"`
}

type Series struct {
	BaseModel
	Slug         string `json:"slug" gorm:"size:100;uniqueIndex;not null"`
	Name         string `json:"name" gorm:"size:255;not null"`
	Description  string `json:"description" gorm:"type:text"`
	ThemePrimary string `json:"theme_primary" gorm:"size:20"`
	ThemeAccent  string `json:"theme_accent" gorm:"size:20"`
	CoverImage   string `json:"cover_image" gorm:"size:500"`
}

func (Series) TableName() string {
	return "series"
}

type Accessory struct {
	BaseModel
	Name        string     `json:"name" gorm:"size:255;not null"`
	Category    string     `json:"category" gorm:"size:100;index"`
	Description string     `json:"description" gorm:"type:text"`
	Price       float64    `json:"price" gorm:"not null;default:0"`
	Stock       int        `json:"stock" gorm:"not null;default:0"`
	Images      StringList `json:"images"`
}

type ProductAttribute struct {
	BaseModel
	Type      AttributeType `json:"type" gorm:"size:20;not null;index:idx_product_attributes_type_value"`
	Value     string        `json:"value" gorm:"size:100;not null;index:idx_product_attributes_type_value"`
	Label     string        `json:"label" gorm:"size:255"`
	SortOrder int           `json:"sort_order" gorm:"default:0"`
}
