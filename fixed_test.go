package wad

import "testing"

func TestFixed(t *testing.T) {
	if got := FixedMul(IntToFixed(3), IntToFixed(-2)); got != IntToFixed(-6) {
		t.Errorf("FixedMul(3, -2) = %v", got.Float())
	}
	if got := FixedMul(FloatToFixed(1.5), FloatToFixed(0.5)); got != FloatToFixed(0.75) {
		t.Errorf("FixedMul(1.5, 0.5) = %v", got.Float())
	}
	if got := IntToFixed(-1).Int(); got != -1 {
		t.Errorf("Int() = %d, want -1", got)
	}
	if got := FloatToFixed(-0.5).Int(); got != -1 {
		t.Errorf("Int() of -0.5 = %d, want -1", got)
	}
	if got := IntToFixed(int16(-128)); got != -128*FracUnit {
		t.Errorf("IntToFixed(int16) = %d", got)
	}
}
