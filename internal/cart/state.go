package cart

// Product is what the storefront hands over when adding to the cart.
type Product struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Price  int64  `json:"price"`
	Image  string `json:"image"`
	Artist string `json:"artist"`
}

type Line struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Image    string `json:"image"`
	Artist   string `json:"artist"`
	Quantity int    `json:"quantity"`
}

// State is a cart snapshot. Total is derived from Items and is recomputed by
// every path that produces a State.
type State struct {
	Items []Line `json:"items"`
	Total int64  `json:"total"`
}

func Empty() State {
	return State{Items: []Line{}}
}

// Restore rebuilds a state from stored lines: non-positive quantities are
// dropped and duplicate ids are merged into the first occurrence.
func Restore(lines []Line) State {
	items := make([]Line, 0, len(lines))
	index := make(map[int]int, len(lines))
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		if i, ok := index[l.ID]; ok {
			items[i].Quantity += l.Quantity
			continue
		}
		index[l.ID] = len(items)
		items = append(items, l)
	}
	return withTotal(items)
}

func (s State) IsEmpty() bool {
	return len(s.Items) == 0
}

// ItemCount is the number of distinct lines.
func (s State) ItemCount() int {
	return len(s.Items)
}

// Quantity is the number of units across all lines.
func (s State) Quantity() int {
	n := 0
	for _, l := range s.Items {
		n += l.Quantity
	}
	return n
}

func (s State) Line(id int) (Line, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.Items[i], true
	}
	return Line{}, false
}

func (s State) clone() State {
	items := make([]Line, len(s.Items))
	copy(items, s.Items)
	return State{Items: items, Total: s.Total}
}

func (s State) indexOf(id int) int {
	for i := range s.Items {
		if s.Items[i].ID == id {
			return i
		}
	}
	return -1
}

func withTotal(items []Line) State {
	var total int64
	for _, l := range items {
		total += l.Price * int64(l.Quantity)
	}
	return State{Items: items, Total: total}
}
