package plist

import (
	"fmt"
	"sort"
	"time"

	hplist "howett.net/plist"
)

// Format selects a serialisation.
type Format int

const (
	XMLFormat Format = iota
	BinaryFormat
)

func (f Format) String() string {
	switch f {
	case XMLFormat:
		return "xml"
	case BinaryFormat:
		return "binary"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Marshal serialises the document.
func (d *Document) Marshal(format Format) ([]byte, error) {
	return Marshal(d.Value(d.root), format)
}

// Marshal serialises a detached value.
func Marshal(v Value, format Format) ([]byte, error) {
	switch format {
	case XMLFormat:
		return encodeXML(v), nil
	case BinaryFormat:
		return hplist.Marshal(toNative(v), hplist.BinaryFormat)
	}
	return nil, fmt.Errorf("unsupported format %s", format)
}

// decodeOther handles binary, OpenStep and GNUstep encodings.
func decodeOther(data []byte) (Value, error) {
	var raw interface{}
	if _, err := hplist.Unmarshal(data, &raw); err != nil {
		return Value{}, err
	}
	return fromNative(raw)
}

func toNative(v Value) interface{} {
	switch v.Kind {
	case Dict:
		m := make(map[string]interface{}, len(v.Members))
		for _, mem := range v.Members {
			m[mem.Key] = toNative(mem.Value)
		}
		return m
	case Array:
		items := make([]interface{}, len(v.Items))
		for i, item := range v.Items {
			items[i] = toNative(item)
		}
		return items
	case String:
		return v.Str
	case Integer:
		return v.Int
	case Real:
		return v.Real
	case Bool:
		return v.Bool
	case Data:
		return v.Bytes
	case Date:
		return v.Time
	case UID:
		return hplist.UID(v.UID)
	}
	return ""
}

// fromNative converts decoder output. Dict keys come back unordered and are
// sorted so the result is deterministic.
func fromNative(raw interface{}) (Value, error) {
	switch t := raw.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		members := make([]Member, 0, len(keys))
		for _, k := range keys {
			v, err := fromNative(t[k])
			if err != nil {
				return Value{}, err
			}
			members = append(members, Member{Key: k, Value: v})
		}
		return DictValue(members...), nil
	case []interface{}:
		items := make([]Value, 0, len(t))
		for _, item := range t {
			v, err := fromNative(item)
			if err != nil {
				return Value{}, err
			}
			items = append(items, v)
		}
		return ArrayValue(items...), nil
	case string:
		return StringValue(t), nil
	case int64:
		return IntegerValue(t), nil
	case uint64:
		return IntegerValue(int64(t)), nil
	case int:
		return IntegerValue(int64(t)), nil
	case float64:
		return RealValue(t), nil
	case float32:
		return RealValue(float64(t)), nil
	case bool:
		return BoolValue(t), nil
	case []byte:
		return DataValue(t), nil
	case time.Time:
		return DateValue(t.UTC()), nil
	case hplist.UID:
		return UIDValue(uint64(t)), nil
	}
	return Value{}, fmt.Errorf("unsupported value of type %T", raw)
}
