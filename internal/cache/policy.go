package cache

// FieldContext describes the field a read policy is resolving.
type FieldContext struct {
	EntityID  string
	TypeName  string
	FieldName string
}

// FieldReadFunc resolves a field. existing is the stored value, or nil when
// nothing was written for the field.
type FieldReadFunc func(existing any, ctx FieldContext) any

// FieldPolicy customizes one field of a type.
type FieldPolicy struct {
	// Read, when set, is consulted on every read of the field and its result
	// is returned instead of stored data.
	Read FieldReadFunc
}

// TypePolicy customizes identity and field reads for one __typename.
type TypePolicy struct {
	// KeyFields replaces the default id/_id identity.
	KeyFields []string
	Fields    map[string]FieldPolicy
}

// TypePolicies maps __typename to its policy.
type TypePolicies map[string]TypePolicy

func (p TypePolicies) readFunc(typeName, field string) FieldReadFunc {
	tp, ok := p[typeName]
	if !ok {
		return nil
	}
	return tp.Fields[field].Read
}

// BoolGetter is satisfied by state.Var[bool].
type BoolGetter interface {
	Get() bool
}

// IsLoggedInField is the root query field resolved from the login flag.
const IsLoggedInField = "isLoggedIn"

// NewIsLoggedInPolicies returns the policies resolving Query.isLoggedIn from flag.
// Values written for the field by a server response are ignored on read.
func NewIsLoggedInPolicies(flag BoolGetter) TypePolicies {
	return TypePolicies{
		"Query": {
			Fields: map[string]FieldPolicy{
				IsLoggedInField: {
					Read: func(any, FieldContext) any {
						return flag.Get()
					},
				},
			},
		},
	}
}

// Merge returns a copy of p with other's type policies added.
// Field policies of the same type are merged; other wins on conflicts.
func (p TypePolicies) Merge(other TypePolicies) TypePolicies {
	out := make(TypePolicies, len(p)+len(other))
	for name, tp := range p {
		out[name] = tp.clone()
	}
	for name, tp := range other {
		cur, ok := out[name]
		if !ok {
			out[name] = tp.clone()
			continue
		}
		if len(tp.KeyFields) > 0 {
			cur.KeyFields = append([]string(nil), tp.KeyFields...)
		}
		if cur.Fields == nil {
			cur.Fields = make(map[string]FieldPolicy, len(tp.Fields))
		}
		for f, fp := range tp.Fields {
			cur.Fields[f] = fp
		}
		out[name] = cur
	}
	return out
}

func (tp TypePolicy) clone() TypePolicy {
	c := TypePolicy{KeyFields: append([]string(nil), tp.KeyFields...)}
	if tp.Fields != nil {
		c.Fields = make(map[string]FieldPolicy, len(tp.Fields))
		for f, fp := range tp.Fields {
			c.Fields[f] = fp
		}
	}
	return c
}
