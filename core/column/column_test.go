package column

import (
	"reflect"
	"testing"
)

func TestShiftWrapsOntoLastRows(t *testing.T) {
	got := Shift(5, 2)
	want := []int{3, 4, 0, 1, 2}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Shift(5,2)=%v want %v", got, want)
	}
	if got := Shift(0, 2); len(got) != 0 {
		t.Fatalf("Shift(0,2)=%v want empty", got)
	}
}

func TestLookupEvaluatesOncePerKey(t *testing.T) {
	calls := 0
	out := Lookup([]int{3, 1, 3, 3, 1}, func(k int) int {
		calls++
		return k * 10
	})
	if calls != 2 {
		t.Fatalf("fn called %d times, want 2", calls)
	}
	if !reflect.DeepEqual(out, []int{30, 10, 30, 30, 10}) {
		t.Fatalf("bad lookup %v", out)
	}
}

func TestMaskAlgebra(t *testing.T) {
	a := []bool{true, true, false, false}
	b := []bool{true, false, true, false}
	if got := And(a, b); !reflect.DeepEqual(got, []bool{true, false, false, false}) {
		t.Errorf("And=%v", got)
	}
	if got := Or(a, b); !reflect.DeepEqual(got, []bool{true, true, true, false}) {
		t.Errorf("Or=%v", got)
	}
	if got := Not(a); !reflect.DeepEqual(got, []bool{false, false, true, true}) {
		t.Errorf("Not=%v", got)
	}
	if Count(a) != 2 || Differ(a, b) != 2 {
		t.Errorf("Count/Differ wrong")
	}
}

func TestFillWhereFilter(t *testing.T) {
	col := []int{1, 2, 3}
	mask := []bool{false, true, false}
	if got := Fill(col, mask, 0); !reflect.DeepEqual(got, []int{1, 0, 3}) {
		t.Errorf("Fill=%v", got)
	}
	if col[1] != 2 {
		t.Errorf("Fill modified its input")
	}
	if got := Where(mask, []int{9, 9, 9}, col); !reflect.DeepEqual(got, []int{1, 9, 3}) {
		t.Errorf("Where=%v", got)
	}
	if got := Filter(col, mask); !reflect.DeepEqual(got, []int{2}) {
		t.Errorf("Filter=%v", got)
	}
}
