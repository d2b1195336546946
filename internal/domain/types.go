package domain

// DefaultCurrency is the only currency the demo storefront sells in.
const DefaultCurrency = "usd"

// Product is a purchasable catalog entry. Prices are whole currency units;
// conversion to minor units happens only when building checkout line items.
type Product struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// CartItem pairs a product reference with a purchase quantity. Carts live in
// the browser session and reach the server only inside checkout requests.
type CartItem struct {
	ProductID int64 `json:"id"`
	Quantity  int64 `json:"quantity"`
}

// CheckoutLineItem is the read-only projection of a CartItem joined with its
// Product, shaped for the payment gateway's integer-minor-unit contract.
// It is derived fresh on every checkout request and never cached.
type CheckoutLineItem struct {
	Name       string
	Currency   string
	UnitAmount int64
	Quantity   int64
}

// DefaultCatalog returns the fixed demo catalog. Callers receive a fresh
// slice so the canonical set stays immutable after startup.
func DefaultCatalog() []Product {
	return []Product{
		{ID: 1, Name: "Product 1", Price: 100},
		{ID: 2, Name: "Product 2", Price: 200},
		{ID: 3, Name: "Product 3", Price: 300},
		{ID: 4, Name: "Product 4", Price: 400},
		{ID: 5, Name: "Product 5", Price: 500},
	}
}
