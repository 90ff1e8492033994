package boxed_test

import (
	"encoding/json"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renkon/renkon/boxed"
)

func TestPrimitiveRoundTrip(t *testing.T) {
	cases := []boxed.Value{
		boxed.Null(),
		boxed.Bool(true),
		boxed.Bool(false),
		boxed.Int(-42),
		boxed.Int(0),
		boxed.Float(3.5),
		boxed.Double(2.71828),
		boxed.String("hello"),
		boxed.Bytes([]byte{0x00, 0x01, 0xff}),
		boxed.Array(boxed.Int(1), boxed.String("two"), boxed.Bool(true)),
		boxed.Dict(map[string]boxed.Value{"a": boxed.Int(1), "b": boxed.String("x")}),
	}

	for _, v := range cases {
		data, err := json.Marshal(v)
		require.NoError(t, err)

		var decoded boxed.Value
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.True(t, boxed.Equal(v, decoded), "round trip mismatch for kind %v", v.Kind())
	}
}

func TestIntegerNarrowing(t *testing.T) {
	v := boxed.Int(1 << 40)
	_, ok := v.AsInt32()
	assert.False(t, ok, "out-of-range int32 unbox must miss, not truncate")

	v2 := boxed.Int(42)
	n, ok := v2.AsInt32()
	assert.True(t, ok)
	assert.Equal(t, int32(42), n)
}

func TestBoolCoercion(t *testing.T) {
	b, ok := boxed.Int(7).AsBool()
	assert.True(t, ok)
	assert.True(t, b, "nonzero int coerces to true")

	b, ok = boxed.Int(0).AsBool()
	assert.True(t, ok)
	assert.False(t, b)

	b, ok = boxed.String("TRUE").AsBool()
	assert.True(t, ok)
	assert.True(t, b, "string bool coercion is case-insensitive")

	b, ok = boxed.String("1").AsBool()
	assert.True(t, ok)
	assert.True(t, b)

	_, ok = boxed.String("maybe").AsBool()
	assert.False(t, ok)
}

func TestTimeRoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
	v := boxed.Time(now)
	decoded, ok := v.AsTime()
	require.True(t, ok)
	assert.True(t, now.Equal(decoded))
}

func TestURLRoundTrip(t *testing.T) {
	u, err := url.Parse("https://example.com/path?q=1")
	require.NoError(t, err)

	v := boxed.URL(u)
	decoded, ok := v.AsURL()
	require.True(t, ok)
	assert.Equal(t, u.String(), decoded.String())
}

func TestCodableRoundTrip(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
		N    int    `json:"n"`
	}
	in := payload{Name: "x", N: 7}
	v, err := boxed.Codable(in)
	require.NoError(t, err)

	var out payload
	require.True(t, v.AsCodable(&out))
	assert.Equal(t, in, out)
}

func TestEqualDicts(t *testing.T) {
	a := map[string]boxed.Value{"x": boxed.Int(1), "y": boxed.String("s")}
	b := map[string]boxed.Value{"y": boxed.String("s"), "x": boxed.Int(1)}
	assert.True(t, boxed.EqualDicts(a, b), "dict equality must be order-independent")

	c := map[string]boxed.Value{"x": boxed.Int(2), "y": boxed.String("s")}
	assert.False(t, boxed.EqualDicts(a, c))
}
