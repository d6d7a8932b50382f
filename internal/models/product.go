package models

// Product 商品（后端权威数据的本地快照）
type Product struct {
	ID           string  `json:"_id"`
	User         string  `json:"user,omitempty"` // 所属农户ID
	Name         string  `json:"name"`
	Image        string  `json:"image"`
	Description  string  `json:"description,omitempty"`
	Category     string  `json:"category,omitempty"`
	Price        Money   `json:"price"`
	CountInStock int     `json:"countInStock"`
	Rating       float64 `json:"rating,omitempty"`
	NumReviews   int     `json:"numReviews,omitempty"`
}

// ProductPage 分页商品列表
type ProductPage struct {
	Products []Product `json:"products"`
	Page     int       `json:"page"`
	Pages    int       `json:"pages"`
}
