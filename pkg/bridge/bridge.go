// Package bridge associates public model types with the wire DTOs that back
// them, so that either representation (or a slice/array of it) can be written
// to and read from JSON through a single pair of calls.
package bridge

import (
	"bytes"
	"fmt"
	"log/slog"
	"reflect"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/modern-go/reflect2"

	"github.com/NethermindEth/tweetbridge/pkg/utils/metrics"
)

const defaultResolutionCacheSize = 256

type Config struct {
	// Codec encodes and decodes values that need no conversion. Defaults to a
	// JSONCodec without extensions.
	Codec Codec
	// Metrics, when set, receives one counter per operation and per failure.
	Metrics *metrics.MetricsCollector
	// ResolutionCacheSize bounds the number of memoised type lookups.
	ResolutionCacheSize int
}

// MappingInfo describes a registered mapping.
type MappingInfo struct {
	Model string
	Dto   string
}

type mapping struct {
	model   reflect.Type
	dto     reflect.Type
	extract func(v any) (any, error)
	restore func(json string) (any, error)
}

// Bridge is the mapping registry. Registration is expected at startup, but is
// safe to call concurrently with conversions.
type Bridge struct {
	mu       sync.RWMutex
	mappings []*mapping
	index    map[uintptr]int

	codec    Codec
	metrics  *metrics.MetricsCollector
	resolved *lru.Cache[resolutionKey, *mapping]
}

func New(config *Config) *Bridge {
	if config == nil {
		config = &Config{}
	}
	if config.Codec == nil {
		config.Codec = NewJSONCodec()
	}
	if config.ResolutionCacheSize <= 0 {
		config.ResolutionCacheSize = defaultResolutionCacheSize
	}

	// lru.New only fails on a non-positive size.
	resolved, _ := lru.New[resolutionKey, *mapping](config.ResolutionCacheSize)

	return &Bridge{
		index:    make(map[uintptr]int),
		codec:    config.Codec,
		metrics:  config.Metrics,
		resolved: resolved,
	}
}

// Codec returns the codec used for unmapped values.
func (b *Bridge) Codec() Codec {
	return b.codec
}

// Register records how to turn a model M into its DTO D and how to rebuild M
// from DTO JSON. Registering M again replaces the previous callbacks while
// keeping M's position in the lookup order.
func Register[M, D any](b *Bridge, extract func(M) (D, error), restore func(json string) (M, error)) {
	model := reflect.TypeFor[M]()

	b.register(&mapping{
		model: model,
		dto:   reflect.TypeFor[D](),
		extract: func(v any) (any, error) {
			source, ok := v.(M)
			if !ok {
				return nil, fmt.Errorf("%w: %T is not %s", ErrNotAssignable, v, model)
			}
			dto, err := extract(source)
			if err != nil {
				return nil, err
			}
			return dto, nil
		},
		restore: func(json string) (any, error) {
			m, err := restore(json)
			if err != nil {
				return nil, err
			}
			return m, nil
		},
	})
}

func (b *Bridge) register(m *mapping) {
	b.mu.Lock()
	defer b.mu.Unlock()

	tag := typeTag(m.model)
	if idx, ok := b.index[tag]; ok {
		slog.Debug("replacing json mapping", "model", m.model.String(), "dto", m.dto.String())
		b.mappings[idx] = m
	} else {
		b.index[tag] = len(b.mappings)
		b.mappings = append(b.mappings, m)
	}

	b.resolved.Purge()
}

// Mappings returns the registered mappings in registration order.
func (b *Bridge) Mappings() []MappingInfo {
	b.mu.RLock()
	defer b.mu.RUnlock()

	infos := make([]MappingInfo, 0, len(b.mappings))
	for _, m := range b.mappings {
		infos = append(infos, MappingInfo{Model: m.model.String(), Dto: m.dto.String()})
	}
	return infos
}

// Serialize writes v as JSON, converting mapped models (or sequences of them)
// to their DTOs first.
func Serialize[T any](b *Bridge, v T) (string, error) {
	return b.SerializeValue(v, reflect.TypeFor[T]())
}

// Deserialize reads json into T, building mapped models (or sequences of
// them) through their registered restore callbacks.
func Deserialize[T any](b *Bridge, json string) (T, error) {
	var zero T

	t := reflect.TypeFor[T]()
	v, err := b.DeserializeType(json, t)
	if err != nil || v == nil {
		return zero, err
	}

	out, ok := v.(T)
	if !ok {
		return zero, newDeserializationError(t, StageRestore, json, fmt.Errorf("%w: %T", ErrNotAssignable, v))
	}
	return out, nil
}

// SerializeValue is the non-generic form of Serialize; t is the declared type of v.
func (b *Bridge) SerializeValue(v any, t reflect.Type) (string, error) {
	json, err := b.serialize(v, t)
	b.count(metrics.MetricBridgeSerialize, err)
	return json, err
}

// DeserializeType is the non-generic form of Deserialize.
func (b *Bridge) DeserializeType(json string, t reflect.Type) (any, error) {
	v, err := b.deserialize(json, t)
	b.count(metrics.MetricBridgeDeserialize, err)
	return v, err
}

func (b *Bridge) serialize(v any, t reflect.Type) (string, error) {
	if elem, ok := sequenceElem(t); ok {
		if m := b.resolve(elem, toJSON); m != nil {
			items, err := extractAll(v, m)
			if err != nil {
				return "", newSerializationError(t, StageExtract, err)
			}
			return b.encode(items, t)
		}
	}

	if m := b.resolveValue(v, t); m != nil {
		if reflect2.IsNil(v) {
			return b.encode(nil, t)
		}
		dto, err := m.extract(v)
		if err != nil {
			return "", newSerializationError(t, StageExtract, err)
		}
		return b.encode(dto, t)
	}

	return b.encode(v, t)
}

func (b *Bridge) encode(v any, t reflect.Type) (string, error) {
	json, err := b.codec.Encode(v)
	if err != nil {
		return "", newSerializationError(t, StageEncode, err)
	}
	return json, nil
}

// extractAll converts every element of a slice or array. A nil slice stays nil
// so that it encodes as null.
func extractAll(v any, m *mapping) ([]any, error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || (rv.Kind() == reflect.Slice && rv.IsNil()) {
		return nil, nil
	}

	items := make([]any, rv.Len())
	for i := range items {
		elem := rv.Index(i).Interface()
		if reflect2.IsNil(elem) {
			continue
		}

		dto, err := m.extract(elem)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		items[i] = dto
	}
	return items, nil
}

func (b *Bridge) deserialize(json string, t reflect.Type) (any, error) {
	if elem, ok := sequenceElem(t); ok {
		if m := b.resolve(elem, fromJSON); m != nil {
			return b.restoreAll(json, t, elem, m)
		}
	}

	if m := b.resolve(t, fromJSON); m != nil {
		v, err := m.restore(json)
		if err != nil {
			return nil, newDeserializationError(t, StageRestore, json, err)
		}
		if v != nil && !reflect.TypeOf(v).AssignableTo(t) {
			return nil, newDeserializationError(t, StageRestore, json, fmt.Errorf("%w: %T", ErrNotAssignable, v))
		}
		return v, nil
	}

	ptr := reflect.New(t)
	if err := b.codec.Decode(json, ptr.Interface()); err != nil {
		return nil, newDeserializationError(t, StageDecode, json, err)
	}
	return ptr.Elem().Interface(), nil
}

// restoreAll decodes a JSON array element by element into a slice or array of
// type t. Any failing element fails the whole call.
func (b *Bridge) restoreAll(json string, t, elem reflect.Type, m *mapping) (any, error) {
	var raws []jsoniter.RawMessage
	if err := b.codec.Decode(json, &raws); err != nil {
		return nil, newDeserializationError(t, StageDecode, json, err)
	}
	if raws == nil && t.Kind() == reflect.Slice {
		return reflect.Zero(t).Interface(), nil
	}

	var out reflect.Value
	if t.Kind() == reflect.Array {
		if len(raws) != t.Len() {
			return nil, newDeserializationError(t, StageShape, json,
				fmt.Errorf("%w: got %d elements for %s", ErrShapeMismatch, len(raws), t))
		}
		out = reflect.New(t).Elem()
	} else {
		out = reflect.MakeSlice(t, len(raws), len(raws))
	}

	for i, raw := range raws {
		if isJSONNull(raw) {
			continue
		}

		v, err := m.restore(string(raw))
		if err != nil {
			return nil, newDeserializationError(t, StageRestore, json, fmt.Errorf("element %d: %w", i, err))
		}
		if v == nil {
			continue
		}

		rv := reflect.ValueOf(v)
		if !rv.Type().AssignableTo(elem) {
			return nil, newDeserializationError(t, StageRestore, json,
				fmt.Errorf("element %d: %w: %s", i, ErrNotAssignable, rv.Type()))
		}
		out.Index(i).Set(rv)
	}

	return out.Interface(), nil
}

func (b *Bridge) count(name string, err error) {
	if b.metrics == nil {
		return
	}
	b.metrics.IncrementCounter(name)
	if err != nil {
		b.metrics.IncrementCounter(name + "_error")
	}
}

func sequenceElem(t reflect.Type) (reflect.Type, bool) {
	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		return t.Elem(), true
	}
	return nil, false
}

var jsonNull = []byte("null")

// isJSONNull reports whether raw is a null element. jsoniter leaves a
// RawMessage empty when it decodes null.
func isJSONNull(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, jsonNull)
}
