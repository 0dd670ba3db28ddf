package views

import "testing"

func TestPaginator_ScrollsWithCursor(t *testing.T) {
	p := NewPaginator(3)
	p.SetTotal(10)

	for range 4 {
		p.CursorDown()
	}
	if p.Cursor() != 4 {
		t.Fatalf("cursor = %d, want 4", p.Cursor())
	}
	start, end := p.VisibleRange()
	if start > 4 || end <= 4 || end-start != 3 {
		t.Errorf("range = [%d,%d), want a 3 item window around 4", start, end)
	}

	for range 20 {
		p.CursorDown()
	}
	if p.Cursor() != 9 {
		t.Errorf("cursor = %d, want it clamped to 9", p.Cursor())
	}

	p.SetTotal(2)
	if p.Cursor() != 1 {
		t.Errorf("cursor = %d after shrinking, want 1", p.Cursor())
	}
	if start, end := p.VisibleRange(); start != 0 || end != 2 {
		t.Errorf("range = [%d,%d), want [0,2)", start, end)
	}
}

func TestPaginator_Empty(t *testing.T) {
	p := NewPaginator(5)
	p.CursorDown()
	p.CursorUp()

	if p.Cursor() != 0 {
		t.Errorf("cursor = %d, want 0", p.Cursor())
	}
	if start, end := p.VisibleRange(); start != 0 || end != 0 {
		t.Errorf("range = [%d,%d), want empty", start, end)
	}
}
