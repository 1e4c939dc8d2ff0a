package binding

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func TestInterpolate(t *testing.T) {
	data := decode(t, `{"user":{"name":"Ada","site":"ada.dev"},"links":["go.dev","x.com"],"count":3,"ratio":0.5}`)

	cases := map[string]string{
		"hi ${user.name}":             "hi Ada",
		"visit ${ user.site } now":    "visit ada.dev now",
		"${links[1]}":                 "x.com",
		"${count} items, ${ratio}":    "3 items, 0.5",
		"${missing}":                  "${missing}",
		"${missing|example.com}":      "example.com",
		"${user.name|nobody}":         "Ada",
		"${links[9]|none}":            "none",
		"no placeholders example.com": "no placeholders example.com",
	}
	for in, want := range cases {
		assert.Equal(t, want, Interpolate(in, data), in)
	}
}

func TestInterpolateWithoutData(t *testing.T) {
	assert.Equal(t, "${a}", Interpolate("${a}", nil))
	assert.Equal(t, "b", Interpolate("${a|b}", nil))
}

func TestPlaceholders(t *testing.T) {
	got := Placeholders("${a} ${b.c|x} ${a} ${ }")
	assert.Equal(t, []string{"a", "b.c"}, got)
	assert.Empty(t, Placeholders("plain text"))
}
