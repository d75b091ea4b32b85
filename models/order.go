package models

// OrderFact represents one line item in the warehouse order-fact table.
// An order may span multiple line items, so OrderID is indexed but not unique.
type OrderFact struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	OrderID      string  `gorm:"not null;index" json:"order_id"`
	OrderDate    string  `json:"order_date"` // calendar date, YYYY-MM-DD
	ShipDate     string  `json:"ship_date"`
	Category     string  `json:"category"`
	SubCategory  string  `json:"sub_category"`
	Segment      string  `json:"segment"`
	City         string  `json:"city"`
	ProductName  string  `json:"product_name"`
	Sales        float64 `json:"sales"`
	Profit       float64 `json:"profit"`
	Discount     float64 `json:"discount"`
	ShippingCost float64 `json:"shipping_cost"`
}

// TableName specifies the table name for the OrderFact model
func (OrderFact) TableName() string {
	return "order_facts"
}
