package models

import "github.com/shopspring/decimal"

// ShopItem is a catalog entry. The catalog has unlimited stock; purchases
// never decrement anything here.
type ShopItem struct {
	Name                string // unique key
	Price               decimal.Decimal
	RequiresCustomInput bool
	Description         string
}
