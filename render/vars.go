package render

// Vars is an ordered string->string variable set.
type Vars struct {
	keys   []string
	values map[string]string
}

// NewVars returns an empty variable set.
func NewVars() *Vars {
	return &Vars{values: make(map[string]string)}
}

// Set assigns name. A new name is appended to the key order; an existing
// name keeps its position.
func (v *Vars) Set(name, value string) {
	if v.values == nil {
		v.values = make(map[string]string)
	}
	if _, ok := v.values[name]; !ok {
		v.keys = append(v.keys, name)
	}
	v.values[name] = value
}

// Get looks up name.
func (v *Vars) Get(name string) (string, bool) {
	if v == nil {
		return "", false
	}
	s, ok := v.values[name]
	return s, ok
}

// Keys returns the variable names in insertion order.
func (v *Vars) Keys() []string {
	if v == nil {
		return nil
	}
	return append([]string(nil), v.keys...)
}

// Len returns the number of variables.
func (v *Vars) Len() int {
	if v == nil {
		return 0
	}
	return len(v.keys)
}
