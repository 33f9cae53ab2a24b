package enum

// Enum is object with relationships of enumerates and strings values.
// The declaration order of values is kept.
type Enum[T comparable] struct {
	mapIndexString map[T]string
	mapStringIndex map[string]T
	order          []T
}

// New creates enumeration
func New[T comparable]() *Enum[T] {
	return &Enum[T]{
		mapIndexString: make(map[T]string),
		mapStringIndex: make(map[string]T),
	}
}

// Add new relationship of a enumeration and a string value
func (e *Enum[T]) Add(index T, str string) *Enum[T] {
	if _, ok := e.mapIndexString[index]; !ok {
		e.order = append(e.order, index)
	}

	e.mapIndexString[index] = str
	e.mapStringIndex[str] = index
	return e
}

// GetByString returns a enumeration value by string key
func (e *Enum[T]) GetByString(val string) (T, bool) {
	index, ok := e.mapStringIndex[val]
	return index, ok
}

// GetByIndex returns a string value by a enumeration value
func (e *Enum[T]) GetByIndex(val T) (string, bool) {
	str, ok := e.mapIndexString[val]
	return str, ok
}

// Values returns enumeration values in declaration order
func (e *Enum[T]) Values() []T {

	list := make([]T, len(e.order))
	copy(list, e.order)
	return list
}

// StringKeys returns all strings keys of enumeration in declaration order
func (e *Enum[T]) StringKeys() []string {

	list := make([]string, 0, len(e.order))
	for _, index := range e.order {
		list = append(list, e.mapIndexString[index])
	}
	return list
}
