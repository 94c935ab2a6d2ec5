package book

// Iterator walks a tree depth-first: a chapter is returned before its
// sub-items, which come before the chapter's next sibling. It never modifies
// the tree; request a new one from Book.Iter to start over.
type Iterator struct {
	// pending items; the last element is returned next
	stack []Item
}

func newIterator(items []Item) *Iterator {
	stack := make([]Item, 0, len(items))
	for i := len(items) - 1; i >= 0; i-- {
		stack = append(stack, items[i])
	}
	return &Iterator{stack: stack}
}

// Next returns the next item, or false once the tree is exhausted.
func (it *Iterator) Next() (Item, bool) {
	if len(it.stack) == 0 {
		return nil, false
	}
	item := it.stack[len(it.stack)-1]
	it.stack = it.stack[:len(it.stack)-1]

	if ch, ok := item.(*Chapter); ok {
		for i := len(ch.SubItems) - 1; i >= 0; i-- {
			it.stack = append(it.stack, ch.SubItems[i])
		}
	}
	return item, true
}
