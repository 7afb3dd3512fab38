package bridge

import (
	"reflect"
	"time"
	"unsafe"

	jsoniter "github.com/json-iterator/go"
	"github.com/modern-go/reflect2"
)

// Codec is the generic JSON encoder/decoder the bridge delegates to.
type Codec interface {
	Encode(v any) (string, error)
	Decode(json string, v any) error
}

var _ Codec = (*JSONCodec)(nil)

// JSONCodec is a Codec backed by a frozen jsoniter configuration.
type JSONCodec struct {
	api jsoniter.API
}

// NewJSONCodec creates a codec with the given extensions installed. Extensions
// must be supplied here since jsoniter caches encoders on first use.
func NewJSONCodec(extensions ...jsoniter.Extension) *JSONCodec {
	api := jsoniter.Config{
		EscapeHTML:             true,
		ValidateJsonRawMessage: true,
	}.Froze()

	for _, ext := range extensions {
		api.RegisterExtension(ext)
	}

	return &JSONCodec{api: api}
}

func (c *JSONCodec) Encode(v any) (string, error) {
	return c.api.MarshalToString(v)
}

func (c *JSONCodec) Decode(json string, v any) error {
	return c.api.UnmarshalFromString(json, v)
}

var timeType = reflect.TypeOf(time.Time{})

// TimeFormatExtension reads and writes every time.Time with a fixed layout
// instead of RFC 3339.
type TimeFormatExtension struct {
	jsoniter.DummyExtension
	Layout string
}

func (ext *TimeFormatExtension) CreateDecoder(typ reflect2.Type) jsoniter.ValDecoder {
	if typ.Type1() == timeType {
		return &timeCodec{layout: ext.Layout}
	}
	return nil
}

func (ext *TimeFormatExtension) CreateEncoder(typ reflect2.Type) jsoniter.ValEncoder {
	if typ.Type1() == timeType {
		return &timeCodec{layout: ext.Layout}
	}
	return nil
}

type timeCodec struct {
	layout string
}

func (c *timeCodec) IsEmpty(ptr unsafe.Pointer) bool {
	return (*(*time.Time)(ptr)).IsZero()
}

func (c *timeCodec) Encode(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	stream.WriteString((*(*time.Time)(ptr)).Format(c.layout))
}

func (c *timeCodec) Decode(ptr unsafe.Pointer, iter *jsoniter.Iterator) {
	if iter.ReadNil() {
		*((*time.Time)(ptr)) = time.Time{}
		return
	}

	t, err := time.Parse(c.layout, iter.ReadString())
	if err != nil {
		iter.ReportError("decode time", err.Error())
		return
	}
	*((*time.Time)(ptr)) = t
}
