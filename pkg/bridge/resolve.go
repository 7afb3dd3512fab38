package bridge

import (
	"reflect"

	"github.com/modern-go/reflect2"
)

type direction uint8

const (
	toJSON direction = iota
	fromJSON
)

type resolutionKey struct {
	tag uintptr
	dir direction
}

// typeTag is the stable identifier mappings are keyed by.
func typeTag(t reflect.Type) uintptr {
	return reflect2.Type2(t).RType()
}

// resolve finds the mapping that applies to t, memoising the answer (including
// a miss) until the next registration.
func (b *Bridge) resolve(t reflect.Type, dir direction) *mapping {
	b.mu.RLock()
	defer b.mu.RUnlock()

	key := resolutionKey{tag: typeTag(t), dir: dir}
	if m, ok := b.resolved.Get(key); ok {
		return m
	}

	m := b.lookup(t, dir)
	b.resolved.Add(key, m)
	return m
}

// resolveValue resolves the declared type first and, when the declared type
// is an interface with no mapping of its own, the dynamic type of v.
func (b *Bridge) resolveValue(v any, t reflect.Type) *mapping {
	if m := b.resolve(t, toJSON); m != nil {
		return m
	}
	if t.Kind() != reflect.Interface || v == nil {
		return nil
	}
	return b.resolve(reflect.TypeOf(v), toJSON)
}

// lookup applies the resolution rules against the registration table:
// an exact match always wins; otherwise the first mapping in registration
// order whose model is related to t.
//
// When writing, t must implement the registered model interface. When
// reading, the registered model must implement t, which must be a non-empty
// interface so that requesting `any` never picks an arbitrary mapping.
func (b *Bridge) lookup(t reflect.Type, dir direction) *mapping {
	if idx, ok := b.index[typeTag(t)]; ok {
		return b.mappings[idx]
	}

	for _, m := range b.mappings {
		switch dir {
		case toJSON:
			if m.model.Kind() == reflect.Interface && t.Implements(m.model) {
				return m
			}
		case fromJSON:
			if t.Kind() == reflect.Interface && t.NumMethod() > 0 && m.model.Implements(t) {
				return m
			}
		}
	}

	return nil
}
