package bridge

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stamped struct {
	At  time.Time  `json:"at"`
	Opt *time.Time `json:"opt,omitempty"`
}

func TestTimeFormatExtension(t *testing.T) {
	codec := NewJSONCodec(&TimeFormatExtension{Layout: "Mon Jan 02 15:04:05 -0700 2006"})
	at := time.Date(2023, 11, 5, 8, 4, 59, 0, time.FixedZone("", 2*60*60))

	json, err := codec.Encode(stamped{At: at})
	require.NoError(t, err)
	assert.Equal(t, `{"at":"Sun Nov 05 08:04:59 +0200 2023"}`, json)

	var decoded stamped
	require.NoError(t, codec.Decode(json, &decoded))
	assert.True(t, at.Equal(decoded.At))
	assert.Nil(t, decoded.Opt)

	require.NoError(t, codec.Decode(`{"at":null}`, &decoded))
	assert.True(t, decoded.At.IsZero())

	err = codec.Decode(`{"at":"2023-11-05T08:04:59Z"}`, &decoded)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode time")
}

func TestJSONCodec_DefaultTimeFormat(t *testing.T) {
	codec := NewJSONCodec()
	at := time.Date(2023, 11, 5, 8, 4, 59, 0, time.UTC)

	json, err := codec.Encode(stamped{At: at})
	require.NoError(t, err)
	assert.Equal(t, `{"at":"2023-11-05T08:04:59Z"}`, json)
}

func TestJSONCodec_EscapesHTML(t *testing.T) {
	json, err := NewJSONCodec().Encode(map[string]string{"text": "<b>&</b>"})
	require.NoError(t, err)
	assert.Equal(t, `{"text":"\u003cb\u003e\u0026\u003c/b\u003e"}`, json)
}

func TestDeserializationError_TruncatesFragment(t *testing.T) {
	long := make([]byte, maxFragmentLength*2)
	for i := range long {
		long[i] = 'x'
	}

	err := newDeserializationError(timeType, StageDecode, string(long), ErrShapeMismatch)
	assert.Len(t, err.Fragment, maxFragmentLength+3)
	assert.ErrorIs(t, err, ErrShapeMismatch)
	assert.Contains(t, err.Error(), "time.Time")
}

func TestDeserializationError_TruncatesOnRuneBoundary(t *testing.T) {
	json := strings.Repeat("x", maxFragmentLength-1) + strings.Repeat("é", 8)

	err := newDeserializationError(timeType, StageDecode, json, ErrShapeMismatch)
	assert.True(t, utf8.ValidString(err.Fragment))
	assert.Equal(t, strings.Repeat("x", maxFragmentLength-1)+"...", err.Fragment)
}

func TestIsJSONNull(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{raw: "null", want: true},
		{raw: " null\n", want: true},
		{raw: "", want: true},
		{raw: "{}", want: false},
		{raw: `"null"`, want: false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, isJSONNull([]byte(tt.raw)), "%q", tt.raw)
	}
}

func TestResolve_CachesMisses(t *testing.T) {
	b := New(nil)

	assert.Nil(t, b.resolve(timeType, fromJSON))
	assert.Equal(t, 1, b.resolved.Len())

	Register(b,
		func(v time.Time) (string, error) { return v.String(), nil },
		func(json string) (time.Time, error) { return time.Time{}, nil },
	)
	assert.Equal(t, 0, b.resolved.Len())
	assert.NotNil(t, b.resolve(timeType, fromJSON))
}
