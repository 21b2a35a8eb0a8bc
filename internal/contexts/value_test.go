package contexts

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParse_PreservesKeyOrder(t *testing.T) {
	v, err := Parse([]byte(`{"z":1,"a":{"y":true,"b":null},"m":[1,"two",false]}`))
	require.NoError(t, err)

	assert.Equal(t, KindObject, v.Kind())
	assert.Equal(t, []string{"z", "a", "m"}, v.Keys())
	assert.Equal(t, []string{"y", "b"}, v.Get("a").Keys())
	assert.True(t, v.Get("a").Has("b"))
	assert.False(t, v.Get("a").Get("b").Defined())
	assert.Len(t, v.Get("m").Items(), 3)

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":{"y":true,"b":null},"m":[1,"two",false]}`, string(out))
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte(`{"a":`))
	assert.Error(t, err)
}

func TestValue_Truthy(t *testing.T) {
	tests := []struct {
		doc  string
		want bool
	}{
		{`null`, false},
		{`""`, false},
		{`"x"`, true},
		{`0`, false},
		{`0.0`, false},
		{`-1`, true},
		{`false`, false},
		{`true`, true},
		{`{}`, true},
		{`[]`, true},
	}

	for _, tt := range tests {
		t.Run(tt.doc, func(t *testing.T) {
			assert.Equal(t, tt.want, MustParse(tt.doc).Truthy())
		})
	}
}

func TestValue_NumbersKeepLiteral(t *testing.T) {
	v := MustParse(`{"big":12345678901234567890,"f":1.50}`)
	assert.Equal(t, "12345678901234567890", v.Get("big").String())
	assert.Equal(t, "1.50", v.Get("f").String())

	f, ok := v.Get("f").Float()
	assert.True(t, ok)
	assert.Equal(t, 1.5, f)
}

func TestValue_AccessorsOnWrongKind(t *testing.T) {
	s := StringValue("x")
	assert.False(t, s.Get("a").Defined())
	assert.Nil(t, s.Keys())
	assert.Nil(t, s.Items())
	_, ok := s.Float()
	assert.False(t, ok)
	_, ok = IntValue(1).Str()
	assert.False(t, ok)
	_, ok = Null().Bool()
	assert.False(t, ok)
}

func TestValue_Equal(t *testing.T) {
	assert.True(t, MustParse(`{"a":[1,{"b":2}]}`).Equal(MustParse(`{"a":[1.0,{"b":2}]}`)))
	assert.False(t, MustParse(`{"a":1,"b":2}`).Equal(MustParse(`{"b":2,"a":1}`)))
	assert.False(t, StringValue("1").Equal(IntValue(1)))
	assert.True(t, Null().Equal(Value{}))
}

func TestValue_MarshalYAML(t *testing.T) {
	v := MustParse(`{"z":"text","a":2,"n":null,"list":[true,1.5]}`)

	out, err := yaml.Marshal(v)
	require.NoError(t, err)

	text := string(out)
	assert.Less(t, strings.Index(text, "z:"), strings.Index(text, "a:"))

	var decoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal(out, &decoded))
	assert.Equal(t, "text", decoded["z"])
	assert.Equal(t, 2, decoded["a"])
	assert.Nil(t, decoded["n"])
	assert.Equal(t, []interface{}{true, 1.5}, decoded["list"])
}
