package domain

import "github.com/shopspring/decimal"

// CartLineItem is one product in the cart. Quantity is always >= 1.
type CartLineItem struct {
	ID       string  `json:"id"       msgpack:"id"`
	Name     string  `json:"name"     msgpack:"name"`
	Image    string  `json:"image"    msgpack:"image"`
	Price    float64 `json:"price"    msgpack:"price"`
	Slug     string  `json:"slug"     msgpack:"slug"`
	Quantity int     `json:"quantity" msgpack:"quantity"`
}

// Cart is an ordered list of line items, at most one per product id.
type Cart struct {
	Items []CartLineItem `json:"items" msgpack:"items"`
}

func (c *Cart) indexOf(id string) int {
	for i := range c.Items {
		if c.Items[i].ID == id {
			return i
		}
	}
	return -1
}

// AddItem appends item or, if the product is already in the cart, raises its
// quantity by quantity.
func (c *Cart) AddItem(item CartLineItem, quantity int) {
	if quantity < 1 {
		return
	}
	if i := c.indexOf(item.ID); i >= 0 {
		c.Items[i].Quantity += quantity
		return
	}
	item.Quantity = quantity
	c.Items = append(c.Items, item)
}

func (c *Cart) IncrementQuantity(id string) {
	if i := c.indexOf(id); i >= 0 {
		c.Items[i].Quantity++
	}
}

// DecrementQuantity lowers the quantity by one. A line at quantity 1 is
// removed instead of reaching zero.
func (c *Cart) DecrementQuantity(id string) {
	i := c.indexOf(id)
	if i < 0 {
		return
	}
	if c.Items[i].Quantity <= 1 {
		c.removeAt(i)
		return
	}
	c.Items[i].Quantity--
}

func (c *Cart) RemoveItem(id string) {
	if i := c.indexOf(id); i >= 0 {
		c.removeAt(i)
	}
}

func (c *Cart) removeAt(i int) {
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
}

func (c *Cart) Clear() {
	c.Items = nil
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Total is the sum of quantity x unit price over all lines.
func (c Cart) Total() float64 {
	total := decimal.Zero
	for _, item := range c.Items {
		line := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(line)
	}
	f, _ := total.Float64()
	return f
}

func (c Cart) ItemCount() int {
	n := 0
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}
