package cart

// Action is the closed set of cart mutations. The unexported method keeps
// other packages from adding variants.
type Action interface {
	Type() string
	apply(items []Line) []Line
}

const (
	TypeAddItem        = "ADD_ITEM"
	TypeUpdateQuantity = "UPDATE_QUANTITY"
	TypeRemoveItem     = "REMOVE_ITEM"
	TypeClearCart      = "CLEAR_CART"
)

// AddItem merges into an existing line by id or appends a new line with
// quantity 1.
type AddItem struct {
	Item Product
}

// UpdateQuantity sets a line's quantity. Zero or less removes the line.
// Unknown ids are ignored.
type UpdateQuantity struct {
	ID       int
	Quantity int
}

type RemoveItem struct {
	ID int
}

type ClearCart struct{}

func (AddItem) Type() string        { return TypeAddItem }
func (UpdateQuantity) Type() string { return TypeUpdateQuantity }
func (RemoveItem) Type() string     { return TypeRemoveItem }
func (ClearCart) Type() string      { return TypeClearCart }

func (a AddItem) apply(items []Line) []Line {
	for i := range items {
		if items[i].ID == a.Item.ID {
			items[i].Quantity++
			return items
		}
	}
	return append(items, Line{
		ID:       a.Item.ID,
		Name:     a.Item.Name,
		Price:    a.Item.Price,
		Image:    a.Item.Image,
		Artist:   a.Item.Artist,
		Quantity: 1,
	})
}

func (a UpdateQuantity) apply(items []Line) []Line {
	for i := range items {
		if items[i].ID != a.ID {
			continue
		}
		if a.Quantity <= 0 {
			return append(items[:i], items[i+1:]...)
		}
		items[i].Quantity = a.Quantity
		return items
	}
	return items
}

func (a RemoveItem) apply(items []Line) []Line {
	for i := range items {
		if items[i].ID == a.ID {
			return append(items[:i], items[i+1:]...)
		}
	}
	return items
}

func (ClearCart) apply([]Line) []Line {
	return []Line{}
}

// Reduce applies a to s and returns the new state. s is not modified.
func Reduce(s State, a Action) State {
	next := s.clone()
	if a == nil {
		return withTotal(next.Items)
	}
	return withTotal(a.apply(next.Items))
}
