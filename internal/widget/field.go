package widget

// Field is a plain Input holding a single value, used by the line-mode runner.
type Field struct {
	value string
}

// NewField returns a Field preset to value.
func NewField(value string) *Field {
	return &Field{value: value}
}

func (f *Field) Value() string { return f.value }

func (f *Field) SetValue(value string) { f.value = value }
