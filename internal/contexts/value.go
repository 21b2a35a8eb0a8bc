package contexts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"
)

// Kind identifies which variant a Value holds
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindObject
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return "null"
	}
}

// Object is an insertion-ordered mapping of field names to values
type Object = orderedmap.OrderedMap[string, Value]

// Value holds one piece of context data: null, string, number, bool, object or array.
// The zero Value is null.
type Value struct {
	kind Kind
	s    string // string payload, or the number literal
	b    bool
	obj  *Object
	arr  []Value
}

// Null returns the null value
func Null() Value { return Value{} }

// StringValue wraps a string
func StringValue(s string) Value { return Value{kind: KindString, s: s} }

// NumberValue wraps a float
func NumberValue(f float64) Value {
	return Value{kind: KindNumber, s: strconv.FormatFloat(f, 'f', -1, 64)}
}

// IntValue wraps an int
func IntValue(i int64) Value { return Value{kind: KindNumber, s: strconv.FormatInt(i, 10)} }

// BoolValue wraps a bool
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

// ArrayValue wraps a list of values
func ArrayValue(items ...Value) Value {
	arr := make([]Value, len(items))
	copy(arr, items)
	return Value{kind: KindArray, arr: arr}
}

// ObjectValue wraps an ordered object. A nil object becomes an empty one.
func ObjectValue(obj *Object) Value {
	if obj == nil {
		obj = NewObject()
	}
	return Value{kind: KindObject, obj: obj}
}

// NewObject creates an empty ordered object
func NewObject() *Object {
	return orderedmap.New[string, Value]()
}

// EmptyObject returns an object value with no fields
func EmptyObject() Value { return ObjectValue(nil) }

// Parse decodes a JSON document into a Value, keeping object key order
func Parse(data []byte) (Value, error) {
	var v Value
	if err := json.Unmarshal(data, &v); err != nil {
		return Value{}, err
	}
	return v, nil
}

// MustParse is like Parse but panics on malformed input. Intended for fixtures.
func MustParse(doc string) Value {
	v, err := Parse([]byte(doc))
	if err != nil {
		panic(fmt.Sprintf("contexts: invalid JSON %q: %v", doc, err))
	}
	return v
}

// Kind reports the variant held by v
func (v Value) Kind() Kind { return v.kind }

// Defined reports whether v is anything other than null
func (v Value) Defined() bool { return v.kind != KindNull }

// IsZero reports whether v is null. Lets yaml omitempty drop null values.
func (v Value) IsZero() bool { return v.kind == KindNull }

// Truthy follows JavaScript truthiness: false, 0, NaN, "" and null are falsy
func (v Value) Truthy() bool {
	switch v.kind {
	case KindString:
		return v.s != ""
	case KindNumber:
		f, _ := v.Float()
		return f != 0 && !math.IsNaN(f)
	case KindBool:
		return v.b
	case KindObject, KindArray:
		return true
	default:
		return false
	}
}

// Str returns the string payload if v is a string
func (v Value) Str() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

// Float returns the numeric payload if v is a number
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	f, err := strconv.ParseFloat(v.s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Bool returns the payload if v is a bool
func (v Value) Bool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// Items returns the elements if v is an array
func (v Value) Items() []Value {
	if v.kind != KindArray {
		return nil
	}
	return v.arr
}

// Get returns the field named key, or null when v is not an object or lacks the field
func (v Value) Get(key string) Value {
	if v.kind != KindObject || v.obj == nil {
		return Value{}
	}
	field, _ := v.obj.Get(key)
	return field
}

// Has reports whether the object v carries the field key (even if null)
func (v Value) Has(key string) bool {
	if v.kind != KindObject || v.obj == nil {
		return false
	}
	_, ok := v.obj.Get(key)
	return ok
}

// Keys returns object field names in source order
func (v Value) Keys() []string {
	if v.kind != KindObject || v.obj == nil {
		return nil
	}
	keys := make([]string, 0, v.obj.Len())
	for pair := v.obj.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Len is the number of object fields or array items
func (v Value) Len() int {
	switch v.kind {
	case KindObject:
		if v.obj == nil {
			return 0
		}
		return v.obj.Len()
	case KindArray:
		return len(v.arr)
	default:
		return 0
	}
}

// String renders v for display: strings verbatim, scalars in JSON form,
// containers as compact JSON, null as the empty string.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindNumber:
		return v.s
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindObject, KindArray:
		data, err := v.MarshalJSON()
		if err != nil {
			return ""
		}
		return string(data)
	default:
		return ""
	}
}

// Equal reports deep equality. Object comparison is order sensitive.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return v.s == o.s
	case KindNumber:
		a, _ := v.Float()
		b, _ := o.Float()
		return a == b
	case KindBool:
		return v.b == o.b
	case KindArray:
		if len(v.arr) != len(o.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(o.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		ak, bk := v.Keys(), o.Keys()
		if len(ak) != len(bk) {
			return false
		}
		for i, key := range ak {
			if key != bk[i] || !v.Get(key).Equal(o.Get(key)) {
				return false
			}
		}
		return true
	}
	return false
}

// MarshalJSON implements json.Marshaler, keeping object key order
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindString:
		return json.Marshal(v.s)
	case KindNumber:
		return []byte(v.s), nil
	case KindBool:
		return json.Marshal(v.b)
	case KindArray:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, item := range v.arr {
			if i > 0 {
				buf.WriteByte(',')
			}
			data, err := item.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(data)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	case KindObject:
		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, key := range v.Keys() {
			if i > 0 {
				buf.WriteByte(',')
			}
			k, err := json.Marshal(key)
			if err != nil {
				return nil, err
			}
			buf.Write(k)
			buf.WriteByte(':')
			data, err := v.Get(key).MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(data)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("contexts: unknown value kind %d", v.kind)
}

// UnmarshalJSON implements json.Unmarshaler
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		*v = Value{}
		return nil
	}

	switch data[0] {
	case 'n':
		*v = Value{}
		return nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = BoolValue(b)
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = StringValue(s)
	case '[':
		var items []Value
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*v = Value{kind: KindArray, arr: items}
	case '{':
		obj := NewObject()
		if err := obj.UnmarshalJSON(data); err != nil {
			return err
		}
		*v = Value{kind: KindObject, obj: obj}
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*v = Value{kind: KindNumber, s: n.String()}
	}
	return nil
}

// MarshalYAML implements yaml.Marshaler, keeping object key order
func (v Value) MarshalYAML() (interface{}, error) {
	return v.yamlNode(), nil
}

func (v Value) yamlNode() *yaml.Node {
	switch v.kind {
	case KindString:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.s}
	case KindNumber:
		tag := "!!float"
		if _, err := strconv.ParseInt(v.s, 10, 64); err == nil {
			tag = "!!int"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: v.s}
	case KindBool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v.b)}
	case KindArray:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v.arr {
			node.Content = append(node.Content, item.yamlNode())
		}
		return node
	case KindObject:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, key := range v.Keys() {
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
				v.Get(key).yamlNode(),
			)
		}
		return node
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}
