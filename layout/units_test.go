package layout

import (
	"math"
	"testing"
)

// TestPtMmRoundTrip 验证 pt↔mm 换算的往返精度（允许极小的浮点误差）。
func TestPtMmRoundTrip(t *testing.T) {
	samples := []float64{0, 0.001, 1, 12, 14.4, 72, 96, 144, 1000}
	for _, pt := range samples {
		mm := pt * PtToMm
		back := mm * MmToPt
		if diff := math.Abs(back - pt); diff > 1e-9 {
			t.Fatalf("pt→mm→pt 往返误差过大: in=%gpt mm=%g back=%g diff=%g", pt, mm, back, diff)
		}
	}
}

// TestLengthConversions 覆盖常见单位到 pt/mm 的换算。
func TestLengthConversions(t *testing.T) {
	if got := (Length{Value: 1, Unit: UnitIN}).ToPT(); math.Abs(got-72) > 1e-9 {
		t.Fatalf("1in 转 pt 期望 72，实际 %g", got)
	}
	if got := (Length{Value: 2.54, Unit: UnitCM}).ToMM(); math.Abs(got-25.4) > 1e-9 {
		t.Fatalf("2.54cm 转 mm 期望 25.4，实际 %g", got)
	}
	if got := (Length{Value: 10, Unit: UnitMM}).ToPT(); math.Abs(got-10*MmToPt) > 1e-9 {
		t.Fatalf("10mm 转 pt 期望 %g，实际 %g", 10*MmToPt, got)
	}
	if got := (Length{Value: 12, Unit: UnitPT}).ToMM(); math.Abs(got-12*PtToMm) > 1e-9 {
		t.Fatalf("12pt 转 mm 期望 %g，实际 %g", 12*PtToMm, got)
	}
}

func TestParseLength(t *testing.T) {
	cases := []struct {
		in   string
		want Length
	}{
		{"320", Length{Value: 320, Unit: UnitPT}},
		{"17pt", Length{Value: 17, Unit: UnitPT}},
		{" 40 mm ", Length{Value: 40, Unit: UnitMM}},
		{"2.5CM", Length{Value: 2.5, Unit: UnitCM}},
		{"1in", Length{Value: 1, Unit: UnitIN}},
		{"40cell", Length{Value: 40, Unit: UnitCell}},
	}
	for _, c := range cases {
		got, err := ParseLength(c.in)
		if err != nil {
			t.Fatalf("ParseLength(%q) 返回错误: %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("ParseLength(%q) = %+v，期望 %+v", c.in, got, c.want)
		}
	}
	for _, bad := range []string{"", "wide", "pt"} {
		if _, err := ParseLength(bad); err == nil {
			t.Fatalf("ParseLength(%q) 期望报错", bad)
		}
	}
	if s := (Length{Value: 12.5, Unit: UnitMM}).String(); s != "12.5mm" {
		t.Fatalf("String() = %q", s)
	}
}
