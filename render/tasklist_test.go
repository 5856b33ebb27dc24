package render

import (
	"slices"
	"testing"
)

func record(order *[]int, n int) Task {
	return func() { *order = append(*order, n) }
}

func TestTaskListIDsStartAtOne(t *testing.T) {
	var l TaskList
	for want := TaskID(1); want <= 3; want++ {
		if got := l.Add(func() {}); got != want {
			t.Errorf("Add() = %d, want %d", got, want)
		}
	}
	l.RunAll()
	if got := l.Add(func() {}); got != 1 {
		t.Errorf("Add() after RunAll = %d, want 1", got)
	}
}

func TestTaskListRunsLastAddedFirst(t *testing.T) {
	var l TaskList
	var order []int
	for i := 1; i <= 3; i++ {
		l.Add(record(&order, i))
	}
	l.RunAll()
	if !slices.Equal(order, []int{3, 2, 1}) {
		t.Errorf("execution order = %v, want [3 2 1]", order)
	}
	if l.Len() != 0 {
		t.Errorf("Len() after RunAll = %d, want 0", l.Len())
	}
}

func TestTaskListDiscard(t *testing.T) {
	tests := []struct {
		name    string
		discard []TaskID
		want    []int
	}{
		{"middle", []TaskID{2}, []int{3, 1}},
		{"first and last", []TaskID{1, 3}, []int{2}},
		{"unknown id", []TaskID{9}, []int{3, 2, 1}},
		{"twice", []TaskID{2, 2}, []int{3, 1}},
		{"zero", []TaskID{0}, []int{3, 2, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var l TaskList
			var order []int
			for i := 1; i <= 3; i++ {
				l.Add(record(&order, i))
			}
			for _, id := range tt.discard {
				l.Discard(id)
			}
			l.RunAll()
			if !slices.Equal(order, tt.want) {
				t.Errorf("execution order = %v, want %v", order, tt.want)
			}
		})
	}
}

func TestTaskListTasksAddedWhileRunning(t *testing.T) {
	var l TaskList
	var order []int
	l.Add(record(&order, 1))
	l.Add(func() {
		order = append(order, 2)
		l.Add(record(&order, 4))
	})
	l.Add(record(&order, 3))
	l.RunAll()

	if !slices.Equal(order, []int{3, 2, 4, 1}) {
		t.Errorf("execution order = %v, want [3 2 4 1]", order)
	}
}

func TestTaskListDiscardWhileRunning(t *testing.T) {
	var l TaskList
	var order []int
	first := l.Add(record(&order, 1))
	l.Add(func() {
		order = append(order, 2)
		l.Discard(first)
	})
	l.RunAll()

	if !slices.Equal(order, []int{2}) {
		t.Errorf("execution order = %v, want [2]", order)
	}
}

func TestTaskListNilTask(t *testing.T) {
	var l TaskList
	l.Add(nil)
	l.RunAll()
	if l.Len() != 0 {
		t.Errorf("Len() = %d, want 0", l.Len())
	}
}
