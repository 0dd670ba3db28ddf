package views

// Paginator keeps a cursor and the visible window of a list
type Paginator struct {
	pageSize   int
	pageOffset int
	cursor     int
	totalItems int
}

// NewPaginator creates a new paginator with the given page size
func NewPaginator(pageSize int) *Paginator {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &Paginator{
		pageSize: pageSize,
	}
}

// SetPageSize changes the window height, e.g. after a resize
func (p *Paginator) SetPageSize(size int) {
	if size <= 0 {
		size = 1
	}
	p.pageSize = size
	p.ensureCursorInPage()
}

// SetTotal sets the total number of items
func (p *Paginator) SetTotal(total int) {
	p.totalItems = total
	if p.cursor >= total {
		p.cursor = max(total-1, 0)
	}
	if p.pageOffset >= total {
		p.pageOffset = 0
	}
	p.ensureCursorInPage()
}

// Total returns the number of items
func (p *Paginator) Total() int {
	return p.totalItems
}

// Cursor returns the current cursor position (absolute index)
func (p *Paginator) Cursor() int {
	return p.cursor
}

// SetCursor sets the cursor position
func (p *Paginator) SetCursor(pos int) {
	if pos >= p.totalItems {
		pos = p.totalItems - 1
	}
	if pos < 0 {
		pos = 0
	}
	p.cursor = pos
	p.ensureCursorInPage()
}

// CursorUp moves the cursor up by one
func (p *Paginator) CursorUp() bool {
	if p.cursor > 0 {
		p.cursor--
		p.ensureCursorInPage()
		return true
	}
	return false
}

// CursorDown moves the cursor down by one
func (p *Paginator) CursorDown() bool {
	if p.cursor < p.totalItems-1 {
		p.cursor++
		p.ensureCursorInPage()
		return true
	}
	return false
}

// VisibleRange returns the start and end indices of the visible window
func (p *Paginator) VisibleRange() (start, end int) {
	start = p.pageOffset
	end = min(p.pageOffset+p.pageSize, p.totalItems)
	return
}

// NextPage moves the cursor one page down
func (p *Paginator) NextPage() bool {
	if p.pageOffset+p.pageSize < p.totalItems {
		p.pageOffset += p.pageSize
		p.cursor = p.pageOffset
		return true
	}
	return false
}

// PrevPage moves the cursor one page up
func (p *Paginator) PrevPage() bool {
	if p.pageOffset > 0 {
		p.pageOffset = max(p.pageOffset-p.pageSize, 0)
		p.cursor = p.pageOffset
		return true
	}
	return false
}

// Reset resets the paginator to its initial state
func (p *Paginator) Reset() {
	p.cursor = 0
	p.pageOffset = 0
	p.totalItems = 0
}

// ensureCursorInPage scrolls the window just enough to show the cursor
func (p *Paginator) ensureCursorInPage() {
	if p.cursor < p.pageOffset {
		p.pageOffset = p.cursor
	} else if p.cursor >= p.pageOffset+p.pageSize {
		p.pageOffset = p.cursor - p.pageSize + 1
	}
}
