package plist

import "time"

// Kind identifies the type of a property-list node.
type Kind uint8

const (
	Invalid Kind = iota
	Dict
	Array
	String
	Integer
	Real
	Bool
	Data
	Date
	UID
)

var kindNames = [...]string{
	Invalid: "invalid",
	Dict:    "dict",
	Array:   "array",
	String:  "string",
	Integer: "integer",
	Real:    "real",
	Bool:    "bool",
	Data:    "data",
	Date:    "date",
	UID:     "uid",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "invalid"
}

// Scalar reports whether nodes of kind k carry no children.
func (k Kind) Scalar() bool {
	return k != Dict && k != Array && k != Invalid
}

// Member is one key/value pair of a dict value.
type Member struct {
	Key   string
	Value Value
}

// Value is a detached property-list value. It is used to build nodes
// (Add, SetValue, New) and to read subtrees back out of a Document.
type Value struct {
	Kind    Kind
	Str     string
	Int     int64
	Real    float64
	Bool    bool
	Bytes   []byte
	Time    time.Time
	UID     uint64
	Members []Member
	Items   []Value
}

func StringValue(s string) Value { return Value{Kind: String, Str: s} }
func IntegerValue(n int64) Value { return Value{Kind: Integer, Int: n} }
func RealValue(f float64) Value { return Value{Kind: Real, Real: f} }
func BoolValue(b bool) Value { return Value{Kind: Bool, Bool: b} }
func DataValue(b []byte) Value { return Value{Kind: Data, Bytes: b} }
func DateValue(t time.Time) Value { return Value{Kind: Date, Time: t} }
func UIDValue(i uint64) Value { return Value{Kind: UID, UID: i} }
func ArrayValue(items ...Value) Value { return Value{Kind: Array, Items: items} }

// DictValue builds a dict value from members, in order.
func DictValue(members ...Member) Value {
	return Value{Kind: Dict, Members: members}
}

