package style_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/linklabel/linkify"
	"github.com/ByLCY/linklabel/style"
)

func TestParseColor(t *testing.T) {
	cases := []struct {
		in   string
		want style.Color
	}{
		{"#0000ff", style.Blue},
		{"#00F", style.Blue},
		{"blue", style.Blue},
		{"Red", style.Color{R: 255, A: 255}},
		{"#0a84ff80", style.Color{R: 0x0a, G: 0x84, B: 0xff, A: 0x80}},
	}
	for _, tc := range cases {
		got, err := style.ParseColor(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	_, err := style.ParseColor("not-a-colour")
	assert.True(t, errors.Is(err, style.ErrUnknownColor))
	_, err = style.ParseColor("")
	assert.True(t, errors.Is(err, style.ErrUnknownColor))
}

func TestColorHex(t *testing.T) {
	assert.Equal(t, "#0000ff", style.Blue.Hex())
	assert.Equal(t, "#01020380", style.Color{R: 1, G: 2, B: 3, A: 0x80}.Hex())
}

func TestDefaults(t *testing.T) {
	cfg := style.DefaultConfig()
	assert.True(t, cfg.Underline)
	assert.Equal(t, style.Blue, cfg.Color)
	font := cfg.LinkFont()
	assert.Equal(t, style.DefaultFontSize, font.Size)
	assert.Equal(t, "embed:goregular", font.Src)
}

func TestFontResolved(t *testing.T) {
	f := style.FontDescriptor{Style: "bold"}.Resolved()
	assert.Equal(t, "embed:goregular", f.Src)
	assert.Equal(t, "bold", f.Style)
	assert.Equal(t, style.DefaultFontSize, f.Size)

	f = style.FontDescriptor{Src: "embed:gomono", Size: 12}.Resolved()
	assert.Equal(t, 12.0, f.Size)
}

func TestAnnotateScopesStyleToSpans(t *testing.T) {
	text := "go to x.com and also x.com again"
	spans := linkify.Find(nil, text)
	require.Len(t, spans, 2)

	red := style.Color{R: 255, A: 255}
	mono := style.FontDescriptor{Name: "mono", Src: "embed:gomono", Size: 14}
	got := style.Annotate(text, spans, style.Config{Underline: true, Color: red, Font: &mono})

	assert.Equal(t, text, got.Text)
	require.Len(t, got.Runs, 2)
	for i, r := range got.Runs {
		assert.Equal(t, spans[i], r.Span)
		assert.Equal(t, red, r.Attrs.Foreground)
		assert.Equal(t, red, r.Attrs.UnderlineColor)
		assert.Equal(t, style.UnderlineSingle, r.Attrs.Underline)
		assert.Equal(t, mono, r.Attrs.Font)
	}

	_, ok := got.RunAt(0)
	assert.False(t, ok)
	r, ok := got.RunAt(22)
	require.True(t, ok)
	assert.Equal(t, 21, r.Start)
}

func TestAnnotateIdempotent(t *testing.T) {
	text := "visit example.com today"
	spans := linkify.Find(nil, text)
	cfg := style.DefaultConfig()

	first := style.Annotate(text, spans, cfg)
	second := style.Annotate(text, spans, cfg)
	assert.True(t, first.Equal(second))
	assert.Len(t, second.Runs, len(spans))
}

func TestAnnotateRederivesFromSpans(t *testing.T) {
	text := "visit example.com today"
	spans := linkify.Find(nil, text)

	on := style.Annotate(text, spans, style.DefaultConfig())
	cfg := style.DefaultConfig()
	cfg.Underline = false
	off := style.Annotate(text, spans, cfg)

	require.Len(t, off.Runs, 1)
	assert.Equal(t, style.UnderlineNone, off.Runs[0].Attrs.Underline)
	assert.Equal(t, style.UnderlineSingle, on.Runs[0].Attrs.Underline)
	assert.False(t, on.Equal(off))
}

func TestAnnotateSkipsInvalidSpans(t *testing.T) {
	got := style.Annotate("abc", []linkify.Span{{Start: 2, End: 9}, {Start: 1, End: 1}}, style.DefaultConfig())
	assert.Empty(t, got.Runs)
	assert.Nil(t, got.Spans())
	assert.Equal(t, 3, got.Len())
}
