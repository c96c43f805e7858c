package glisp

// List is an ordered sequence of objects. An unquoted list is code, a quoted
// one is data and evaluates to itself.
type List struct {
	items  []Object
	quoted bool
}

func (*List) Kind() Kind { return KindList }
func (*List) object()    {}

// NewList builds an unquoted list
func NewList(items ...Object) *List {
	return &List{items: items}
}

// NewData builds a quoted list
func NewData(items ...Object) *List {
	return &List{items: items, quoted: true}
}

// Quote wraps x in a single-element quoted list, as 'x does
func Quote(x Object) *List {
	return &List{items: []Object{x}, quoted: true}
}

func (l *List) Quoted() bool    { return l.quoted }
func (l *List) Len() int        { return len(l.items) }
func (l *List) Items() []Object { return l.items }

// Nth returns the i-th element; negative indexes count from the end
func (l *List) Nth(i int) (Object, error) {
	idx, err := resolveIndex(i, len(l.items))
	if err != nil {
		return nil, err
	}
	return l.items[idx], nil
}

// SetNth replaces the i-th element in place
func (l *List) SetNth(i int, v Object) error {
	idx, err := resolveIndex(i, len(l.items))
	if err != nil {
		return err
	}
	l.items[idx] = v
	return nil
}

func resolveIndex(i, n int) (int, error) {
	idx := i
	if idx < 0 {
		idx += n
	}
	if idx < 0 || idx >= n {
		return 0, newError(IndexOutOfRange, "index %d out of range for list of length %d", i, n)
	}
	return idx, nil
}

func (l *List) Append(items ...Object) {
	l.items = append(l.items, items...)
}

func (l *List) PopFront() (Object, error) {
	if len(l.items) == 0 {
		return nil, newError(IndexOutOfRange, "pop from empty list")
	}
	v := l.items[0]
	l.items = l.items[1:]
	return v, nil
}

func (l *List) PopBack() (Object, error) {
	if len(l.items) == 0 {
		return nil, newError(IndexOutOfRange, "pop from empty list")
	}
	v := l.items[len(l.items)-1]
	l.items = l.items[:len(l.items)-1]
	return v, nil
}

// Head is the first element, or Nil for an empty list
func (l *List) Head() Object {
	if len(l.items) == 0 {
		return Nil
	}
	return l.items[0]
}

// Tail is everything after the head. It shares the backing array and keeps
// the quoted flag.
func (l *List) Tail() *List {
	if len(l.items) == 0 {
		return &List{quoted: l.quoted}
	}
	return &List{items: l.items[1:len(l.items):len(l.items)], quoted: l.quoted}
}

// Unquote strips one level of quoting. A quoted single-element list yields
// its element; any other list yields the same items as code.
func (l *List) Unquote() Object {
	if l.quoted && len(l.items) == 1 {
		return l.items[0]
	}
	return &List{items: l.items}
}

// Data returns the items viewed as data, looking through a quote wrapper
// around an unquoted list so that '(1 2 3) and [1 2 3] index the same way.
func (l *List) Data() []Object {
	if l.quoted && len(l.items) == 1 {
		if inner, ok := l.items[0].(*List); ok && !inner.quoted {
			return inner.items
		}
	}
	return l.items
}

// Copy returns a list with its own backing array
func (l *List) Copy() *List {
	items := make([]Object, len(l.items))
	copy(items, l.items)
	return &List{items: items, quoted: l.quoted}
}

// detach copies l for a write. The copy keeps the quote wrapper, if any, and
// its data items live in a fresh array, returned as the second value.
func (l *List) detach() (*List, *List) {
	data := l.dataList()
	fresh := data.Copy()
	if data == l {
		return fresh, fresh
	}
	return &List{items: []Object{fresh}, quoted: l.quoted}, fresh
}

// dataList is the list that actually holds the data items
func (l *List) dataList() *List {
	if l.quoted && len(l.items) == 1 {
		if inner, ok := l.items[0].(*List); ok && !inner.quoted {
			return inner
		}
	}
	return l
}
