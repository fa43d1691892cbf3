package table

// ColumnType is the type assigned to a column when the data is loaded.
type ColumnType int

const (
	// TypeText is the generic type for columns holding strings or a mix of kinds.
	TypeText ColumnType = iota
	TypeInt
	TypeFloat
	TypeBool
	TypeDateTime
)

func (t ColumnType) String() string {
	switch t {
	case TypeText:
		return "text"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeBool:
		return "bool"
	case TypeDateTime:
		return "datetime"
	default:
		return "unknown"
	}
}

// Column describes one column of a Table.
type Column struct {
	Name string
	Type ColumnType
}

// Class is the cleaning classification of a column.
type Class int

const (
	// ClassOther covers numeric, boolean and datetime columns.
	ClassOther Class = iota
	// ClassText marks text-like columns, which are normalized.
	ClassText
)

func (c Class) String() string {
	if c == ClassText {
		return "text"
	}
	return "other"
}

// Class returns the column's classification.
func (c Column) Class() Class {
	if c.Type == TypeText {
		return ClassText
	}
	return ClassOther
}

// Classify returns the classification of every column of t, in column order.
func Classify(t *Table) []Class {
	classes := make([]Class, len(t.columns))
	for i, col := range t.columns {
		classes[i] = col.Class()
	}
	return classes
}
