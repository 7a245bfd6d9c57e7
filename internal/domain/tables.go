package domain

var Tables = []interface{}{
	// System
	&SysConfig{},
	&SysOpr{},
	&SysOprLog{},
	&SysScheduler{},
	// Catalog
	&Product{},
	&Category{},
	&Brand{},
	// Cart
	&Cart{},
	&CartItem{},
	// Order
	&Order{},
	&OrderItem{},
	// Promotion
	&FlashDeal{},
	&Banner{},
	&Campaign{},
	// Review
	&Review{},
}
