package geometry

import "testing"

func TestToleranceComparisons(t *testing.T) {
	if !AreFloatsEqual(1, 1+1e-7) {
		t.Errorf("AreFloatsEqual should accept differences below tolerance")
	}
	if AreFloatsEqual(1, 1.001) {
		t.Errorf("AreFloatsEqual should reject differences above tolerance")
	}
	if !IsLessOrEqual(2, 2) || !IsLessOrEqual(1, 2) || IsLessOrEqual(3, 2) {
		t.Errorf("IsLessOrEqual failed")
	}
	if !IsGreaterOrEqual(2, 2) || !IsGreaterOrEqual(3, 2) || IsGreaterOrEqual(1, 2) {
		t.Errorf("IsGreaterOrEqual failed")
	}
}
