// Package plist holds property-list documents as an ordered tree.
//
// Nodes live in an arena owned by the Document and are addressed by
// NodeID. Keyed-archive object references (CF$UID) are UID nodes that store
// only the integer index into the root "$objects" pool; they are resolved
// on demand with Resolve or Object and never alias nodes across documents.
package plist

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"base16builder/model"
)

// ObjectsKey is the root key of the keyed-archive object pool.
const ObjectsKey = "$objects"

// NodeID addresses a node inside a Document.
type NodeID int

// NoNode is the zero handle returned alongside failed lookups.
const NoNode NodeID = -1

type node struct {
	kind     Kind
	keys     []string // dict keys, parallel to children
	children []NodeID
	str      string
	integer  int64
	real     float64
	boolean  bool
	data     []byte
	date     time.Time
	uid      uint64
}

// Document is a property-list tree.
type Document struct {
	nodes []node
	root  NodeID
}

// New creates a document whose root is v.
func New(root Value) *Document {
	d := &Document{}
	d.root = d.insert(root)
	return d
}

// Load reads and parses the property list at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", model.ErrSourceRead, path, err)
	}
	d, err := Parse(data)
	if err != nil {
		if pe, ok := err.(*ParseError); ok {
			pe.Path = path
		}
		return nil, err
	}
	return d, nil
}

// Parse decodes an XML or binary property list. Other textual encodings
// (OpenStep, GNUstep) are accepted as well but lose dict key order.
func Parse(data []byte) (*Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, &ParseError{Err: fmt.Errorf("empty document")}
	}
	var (
		root Value
		err  error
	)
	switch {
	case bytes.HasPrefix(trimmed, []byte("<")):
		root, err = decodeXML(trimmed)
	default:
		root, err = decodeOther(data)
	}
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	return New(root), nil
}

// Root returns the root node.
func (d *Document) Root() NodeID { return d.root }

// Kind returns the kind of id, or Invalid for an unknown handle.
func (d *Document) Kind(id NodeID) Kind {
	if !d.valid(id) {
		return Invalid
	}
	return d.nodes[id].kind
}

func (d *Document) valid(id NodeID) bool {
	return id >= 0 && int(id) < len(d.nodes)
}

// Get looks up key in the dict id.
func (d *Document) Get(id NodeID, key string) (NodeID, bool) {
	if d.Kind(id) != Dict {
		return NoNode, false
	}
	n := &d.nodes[id]
	for i, k := range n.keys {
		if k == key {
			return n.children[i], true
		}
	}
	return NoNode, false
}

// Index returns element i of the array id.
func (d *Document) Index(id NodeID, i int) (NodeID, bool) {
	if d.Kind(id) != Array {
		return NoNode, false
	}
	n := &d.nodes[id]
	if i < 0 || i >= len(n.children) {
		return NoNode, false
	}
	return n.children[i], true
}

// Len returns the number of children of a dict or array node.
func (d *Document) Len(id NodeID) int {
	if !d.valid(id) {
		return 0
	}
	return len(d.nodes[id].children)
}

// Keys returns the keys of the dict id in document order.
func (d *Document) Keys(id NodeID) []string {
	if d.Kind(id) != Dict {
		return nil
	}
	return append([]string(nil), d.nodes[id].keys...)
}

// Add inserts key into the dict id. It fails with *DuplicateKeyError if the
// key is already present; callers check Get first.
func (d *Document) Add(id NodeID, key string, v Value) (NodeID, error) {
	if k := d.Kind(id); k != Dict {
		return NoNode, &KindError{Op: "add " + key, Want: Dict, Got: k}
	}
	if _, ok := d.Get(id, key); ok {
		return NoNode, &DuplicateKeyError{Key: key}
	}
	child := d.insert(v)
	n := &d.nodes[id]
	n.keys = append(n.keys, key)
	n.children = append(n.children, child)
	return child, nil
}

// SetValue replaces the content of id with v. The kind may change.
func (d *Document) SetValue(id NodeID, v Value) error {
	if !d.valid(id) {
		return fmt.Errorf("set value: invalid node %d", id)
	}
	n := d.build(v)
	d.nodes[id] = n
	return nil
}

// Value returns a detached copy of the subtree at id.
func (d *Document) Value(id NodeID) Value {
	if !d.valid(id) {
		return Value{}
	}
	n := &d.nodes[id]
	v := Value{Kind: n.kind}
	switch n.kind {
	case Dict:
		v.Members = make([]Member, len(n.keys))
		for i, k := range n.keys {
			v.Members[i] = Member{Key: k, Value: d.Value(n.children[i])}
		}
	case Array:
		v.Items = make([]Value, len(n.children))
		for i, c := range n.children {
			v.Items[i] = d.Value(c)
		}
	case String:
		v.Str = n.str
	case Integer:
		v.Int = n.integer
	case Real:
		v.Real = n.real
	case Bool:
		v.Bool = n.boolean
	case Data:
		v.Bytes = append([]byte(nil), n.data...)
	case Date:
		v.Time = n.date
	case UID:
		v.UID = n.uid
	}
	return v
}

// Object resolves entry i of the root object pool.
func (d *Document) Object(i int) (NodeID, error) {
	pool, ok := d.Get(d.root, ObjectsKey)
	if !ok {
		return NoNode, fmt.Errorf("%w: no %s array", ErrNoObject, ObjectsKey)
	}
	id, ok := d.Index(pool, i)
	if !ok {
		return NoNode, fmt.Errorf("%w: %s[%d]", ErrNoObject, ObjectsKey, i)
	}
	return id, nil
}

// Resolve follows a UID reference into the object pool. Non-UID nodes are
// returned unchanged.
func (d *Document) Resolve(id NodeID) (NodeID, error) {
	if d.Kind(id) != UID {
		return id, nil
	}
	return d.Object(int(d.nodes[id].uid))
}

// Clone returns a deep copy of d. Nodes no longer reachable from the root
// are dropped.
func (d *Document) Clone() *Document {
	return New(d.Value(d.root))
}

func (d *Document) insert(v Value) NodeID {
	id := NodeID(len(d.nodes))
	d.nodes = append(d.nodes, node{})
	n := d.build(v)
	d.nodes[id] = n
	return id
}

// build materialises v, inserting its children into the arena.
func (d *Document) build(v Value) node {
	n := node{kind: v.Kind}
	switch v.Kind {
	case Dict:
		n.keys = make([]string, 0, len(v.Members))
		n.children = make([]NodeID, 0, len(v.Members))
		for _, m := range v.Members {
			n.keys = append(n.keys, m.Key)
			n.children = append(n.children, d.insert(m.Value))
		}
	case Array:
		n.children = make([]NodeID, 0, len(v.Items))
		for _, item := range v.Items {
			n.children = append(n.children, d.insert(item))
		}
	case String:
		n.str = v.Str
	case Integer:
		n.integer = v.Int
	case Real:
		n.real = v.Real
	case Bool:
		n.boolean = v.Bool
	case Data:
		n.data = append([]byte(nil), v.Bytes...)
	case Date:
		n.date = v.Time
	case UID:
		n.uid = v.UID
	}
	return n
}
