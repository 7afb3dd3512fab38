package bridge_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NethermindEth/tweetbridge/pkg/bridge"
	"github.com/NethermindEth/tweetbridge/pkg/utils/metrics"
)

type identified interface {
	ID() int64
}

type post interface {
	identified
	Text() string
	DTO() *postDTO
}

type author interface {
	identified
	Handle() string
	DTO() *authorDTO
}

type postDTO struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type authorDTO struct {
	ID     int64  `json:"id"`
	Handle string `json:"screen_name"`
}

type postModel struct{ dto *postDTO }

func (p *postModel) ID() int64 { return p.dto.ID }
func (p *postModel) Text() string { return p.dto.Text }
func (p *postModel) DTO() *postDTO { return p.dto }

type authorModel struct{ dto *authorDTO }

func (a *authorModel) ID() int64 { return a.dto.ID }
func (a *authorModel) Handle() string { return a.dto.Handle }
func (a *authorModel) DTO() *authorDTO { return a.dto }

type plain struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

const twitterLayout = "Mon Jan 02 15:04:05 -0700 2006"

func newBridge(t *testing.T) *bridge.Bridge {
	t.Helper()

	codec := bridge.NewJSONCodec(&bridge.TimeFormatExtension{Layout: twitterLayout})
	b := bridge.New(&bridge.Config{Codec: codec})

	bridge.Register(b,
		func(p post) (*postDTO, error) { return p.DTO(), nil },
		func(json string) (post, error) {
			var dto postDTO
			if err := codec.Decode(json, &dto); err != nil {
				return nil, err
			}
			return &postModel{dto: &dto}, nil
		},
	)
	bridge.Register(b,
		func(a author) (*authorDTO, error) { return a.DTO(), nil },
		func(json string) (author, error) {
			var dto authorDTO
			if err := codec.Decode(json, &dto); err != nil {
				return nil, err
			}
			return &authorModel{dto: &dto}, nil
		},
	)

	return b
}

func newPost(id int64) post {
	return &postModel{dto: &postDTO{
		ID:        id,
		Text:      fmt.Sprintf("post %d", id),
		CreatedAt: time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC),
	}}
}

func TestBridge_SingleRoundTrip(t *testing.T) {
	b := newBridge(t)
	original := newPost(42)

	json, err := bridge.Serialize(b, original)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":42,"text":"post 42","created_at":"Fri Mar 01 12:30:00 +0000 2024"}`, json)

	restored, err := bridge.Deserialize[post](b, json)
	require.NoError(t, err)
	assert.Equal(t, original.ID(), restored.ID())
	assert.Equal(t, original.Text(), restored.Text())
	assert.True(t, original.DTO().CreatedAt.Equal(restored.DTO().CreatedAt))
}

func TestBridge_CollectionRoundTrip(t *testing.T) {
	b := newBridge(t)
	postA := newPost(7)

	json, err := bridge.Serialize(b, []post{postA, postA})
	require.NoError(t, err)

	var shapes []map[string]any
	require.NoError(t, jsoniter.UnmarshalFromString(json, &shapes))
	require.Len(t, shapes, 2)
	for _, shape := range shapes {
		assert.EqualValues(t, 7, shape["id"])
		assert.Contains(t, shape, "created_at")
	}

	asArray, err := bridge.Deserialize[[2]post](b, json)
	require.NoError(t, err)
	assert.Equal(t, int64(7), asArray[1].ID())

	asSlice, err := bridge.Deserialize[[]post](b, json)
	require.NoError(t, err)
	require.Len(t, asSlice, 2)
	assert.Equal(t, int64(7), asSlice[0].ID())
	assert.Equal(t, int64(7), asSlice[1].ID())
}

func TestBridge_CollectionPreservesOrder(t *testing.T) {
	b := newBridge(t)

	posts := make([]post, 0, 10)
	for i := int64(1); i <= 10; i++ {
		posts = append(posts, newPost(i))
	}

	json, err := bridge.Serialize(b, posts)
	require.NoError(t, err)

	restored, err := bridge.Deserialize[[]post](b, json)
	require.NoError(t, err)
	require.Len(t, restored, len(posts))
	for i := range posts {
		assert.Equal(t, posts[i].ID(), restored[i].ID())
	}
}

func TestBridge_FixedArraySerialize(t *testing.T) {
	b := newBridge(t)

	json, err := bridge.Serialize(b, [3]post{newPost(1), newPost(2), newPost(3)})
	require.NoError(t, err)

	restored, err := bridge.Deserialize[[]post](b, json)
	require.NoError(t, err)
	require.Len(t, restored, 3)
	assert.Equal(t, int64(3), restored[2].ID())
}

func TestBridge_NilElements(t *testing.T) {
	b := newBridge(t)

	json, err := bridge.Serialize(b, []post{newPost(1), nil})
	require.NoError(t, err)

	var raw []any
	require.NoError(t, jsoniter.UnmarshalFromString(json, &raw))
	require.Len(t, raw, 2)
	assert.Nil(t, raw[1])

	restored, err := bridge.Deserialize[[]post](b, json)
	require.NoError(t, err)
	require.Len(t, restored, 2)
	assert.Nil(t, restored[1])

	json, err = bridge.Serialize[[]post](b, nil)
	require.NoError(t, err)
	assert.Equal(t, "null", json)

	var nilPost post
	json, err = bridge.Serialize(b, nilPost)
	require.NoError(t, err)
	assert.Equal(t, "null", json)
}

func TestBridge_NullElementsRestoreAsZero(t *testing.T) {
	b := newBridge(t)
	json := `[null, {"id":1,"text":"a","created_at":"Fri Mar 01 12:30:00 +0000 2024"}, null]`

	restored, err := bridge.Deserialize[[]post](b, json)
	require.NoError(t, err)
	require.Len(t, restored, 3)
	assert.Nil(t, restored[0])
	assert.Equal(t, int64(1), restored[1].ID())
	assert.Nil(t, restored[2])

	fixed, err := bridge.Deserialize[[3]post](b, json)
	require.NoError(t, err)
	assert.Nil(t, fixed[0])
	assert.Equal(t, "a", fixed[1].Text())
}

func TestBridge_SupertypeResolutionIsDeterministic(t *testing.T) {
	b := newBridge(t)
	json := `{"id":5,"text":"hello","screen_name":"hello"}`

	for i := 0; i < 20; i++ {
		v, err := bridge.Deserialize[identified](b, json)
		require.NoError(t, err)
		_, isPost := v.(*postModel)
		assert.True(t, isPost, "first registered mapping must win")
		assert.Equal(t, int64(5), v.ID())
	}
}

func TestBridge_SerializeThroughMappedInterface(t *testing.T) {
	b := newBridge(t)

	// *postModel has no mapping of its own but implements post.
	concrete := newPost(3).(*postModel)
	json, err := bridge.Serialize(b, concrete)
	require.NoError(t, err)

	var dto postDTO
	require.NoError(t, b.Codec().Decode(json, &dto))
	assert.Equal(t, int64(3), dto.ID)

	// A value held as `any` is resolved through its dynamic type.
	var boxed any = newPost(4)
	json, err = bridge.Serialize(b, boxed)
	require.NoError(t, err)
	require.NoError(t, b.Codec().Decode(json, &dto))
	assert.Equal(t, int64(4), dto.ID)
}

func TestBridge_UnmappedPassthrough(t *testing.T) {
	b := newBridge(t)
	value := plain{Name: "n", Count: 2}

	json, err := bridge.Serialize(b, value)
	require.NoError(t, err)
	direct, err := b.Codec().Encode(value)
	require.NoError(t, err)
	assert.Equal(t, direct, json)

	restored, err := bridge.Deserialize[plain](b, json)
	require.NoError(t, err)
	assert.Equal(t, value, restored)

	list, err := bridge.Deserialize[[]plain](b, `[{"name":"a"},{"name":"b"}]`)
	require.NoError(t, err)
	assert.Equal(t, []plain{{Name: "a"}, {Name: "b"}}, list)

	dto, err := bridge.Deserialize[*postDTO](b, `{"id":9,"text":"dto"}`)
	require.NoError(t, err)
	assert.Equal(t, int64(9), dto.ID)

	anything, err := bridge.Deserialize[any](b, `{"id":1}`)
	require.NoError(t, err)
	assert.IsType(t, map[string]any{}, anything)
}

func TestBridge_ReRegistrationReplaces(t *testing.T) {
	b := newBridge(t)

	bridge.Register(b,
		func(p post) (*postDTO, error) {
			return &postDTO{ID: p.ID() * 10, Text: "replaced"}, nil
		},
		func(json string) (post, error) {
			return &postModel{dto: &postDTO{ID: -1}}, nil
		},
	)

	json, err := bridge.Serialize(b, newPost(2))
	require.NoError(t, err)
	assert.Contains(t, json, `"id":20`)
	assert.Contains(t, json, `"replaced"`)

	restored, err := bridge.Deserialize[post](b, json)
	require.NoError(t, err)
	assert.Equal(t, int64(-1), restored.ID())

	mappings := b.Mappings()
	require.Len(t, mappings, 2)
	assert.Contains(t, mappings[0].Model, "post")
	assert.Contains(t, mappings[1].Model, "author")
}

func TestBridge_Errors(t *testing.T) {
	b := newBridge(t)
	failure := errors.New("boom")

	t.Run("malformed json", func(t *testing.T) {
		_, err := bridge.Deserialize[post](b, `{"id":`)
		var derr *bridge.DeserializationError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, bridge.StageRestore, derr.Stage)
		assert.Contains(t, derr.Error(), "post")
	})

	t.Run("object where array expected", func(t *testing.T) {
		_, err := bridge.Deserialize[[]post](b, `{"id":1}`)
		var derr *bridge.DeserializationError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, bridge.StageDecode, derr.Stage)
	})

	t.Run("array length mismatch", func(t *testing.T) {
		_, err := bridge.Deserialize[[3]post](b, `[{"id":1}]`)
		require.ErrorIs(t, err, bridge.ErrShapeMismatch)
	})

	t.Run("unmapped decode failure", func(t *testing.T) {
		_, err := bridge.Deserialize[plain](b, `[1,2]`)
		var derr *bridge.DeserializationError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, bridge.StageDecode, derr.Stage)
		assert.Equal(t, `[1,2]`, derr.Fragment)
	})

	t.Run("extract failure", func(t *testing.T) {
		local := newBridge(t)
		bridge.Register(local,
			func(p post) (*postDTO, error) { return nil, failure },
			func(json string) (post, error) { return nil, failure },
		)
		_, err := bridge.Serialize(local, newPost(1))
		var serr *bridge.SerializationError
		require.ErrorAs(t, err, &serr)
		assert.Equal(t, bridge.StageExtract, serr.Stage)
		assert.ErrorIs(t, err, failure)
	})

	t.Run("encode failure", func(t *testing.T) {
		_, err := bridge.Serialize(b, map[string]any{"ch": make(chan int)})
		var serr *bridge.SerializationError
		require.ErrorAs(t, err, &serr)
		assert.Equal(t, bridge.StageEncode, serr.Stage)
	})

	t.Run("long fragment is truncated", func(t *testing.T) {
		long := `{"id":` + fmt.Sprintf("%0100d", 1)
		_, err := bridge.Deserialize[post](b, long)
		var derr *bridge.DeserializationError
		require.ErrorAs(t, err, &derr)
		assert.Less(t, len(derr.Fragment), len(long))
	})
}

func TestBridge_CollectionIsAllOrNothing(t *testing.T) {
	b := newBridge(t)
	failure := errors.New("element rejected")

	bridge.Register(b,
		func(p post) (*postDTO, error) {
			if p.ID() == 2 {
				return nil, failure
			}
			return p.DTO(), nil
		},
		func(json string) (post, error) {
			var dto postDTO
			if err := b.Codec().Decode(json, &dto); err != nil {
				return nil, err
			}
			if dto.ID == 2 {
				return nil, failure
			}
			return &postModel{dto: &dto}, nil
		},
	)

	json, err := bridge.Serialize(b, []post{newPost(1), newPost(2), newPost(3)})
	require.ErrorIs(t, err, failure)
	assert.Empty(t, json)

	restored, err := bridge.Deserialize[[]post](b, `[{"id":1},{"id":2},{"id":3}]`)
	require.ErrorIs(t, err, failure)
	assert.Nil(t, restored)
}

func TestBridge_Metrics(t *testing.T) {
	collector := metrics.NewMetricsCollector()
	b := bridge.New(&bridge.Config{Metrics: collector})

	_, err := bridge.Serialize(b, plain{Name: "x"})
	require.NoError(t, err)
	_, err = bridge.Deserialize[plain](b, `not json`)
	require.Error(t, err)

	assert.Equal(t, int64(1), collector.Counter(metrics.MetricBridgeSerialize))
	assert.Equal(t, int64(1), collector.Counter(metrics.MetricBridgeDeserialize))
	assert.Equal(t, int64(1), collector.Counter(metrics.MetricBridgeDeserialize+"_error"))
	assert.Equal(t, int64(0), collector.Counter(metrics.MetricBridgeSerialize+"_error"))
}

func TestBridge_ConcurrentUse(t *testing.T) {
	b := newBridge(t)

	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			json, err := bridge.Serialize(b, []post{newPost(id)})
			if err != nil {
				errs <- err
				return
			}
			restored, err := bridge.Deserialize[[]post](b, json)
			if err != nil {
				errs <- err
				return
			}
			if restored[0].ID() != id {
				errs <- fmt.Errorf("got id %d, want %d", restored[0].ID(), id)
			}
		}(int64(i))
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}
