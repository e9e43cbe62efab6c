package dashboard

import (
	"html/template"
	"strings"
	"sync"
)

const (
	loadingMessage = "Đang tải dữ liệu..."
	emptyMessage   = "Chưa có đơn hàng nào được tạo thành công."
)

// TableBody is the order table the renderer writes into.
type TableBody interface {
	// ShowMessage replaces the body with a single informational row.
	ShowMessage(text string)
	Clear()
	AppendRow(row Row)
}

// StatusArea holds the status line above the table.
type StatusArea interface {
	SetStatus(text string)
}

// Row is one rendered order.
type Row struct {
	OrderID  int      `json:"order_id"`
	UserName string   `json:"user_name"`
	Items    []string `json:"items"`
	Total    string   `json:"total"`
	Status   string   `json:"status"`
}

// ItemDetails joins the item lines with line breaks, escaping each line.
func (r Row) ItemDetails() template.HTML {
	var b strings.Builder
	for _, line := range r.Items {
		b.WriteString(template.HTMLEscapeString(line))
		b.WriteString("<br>")
	}
	return template.HTML(b.String())
}

// StatusClass is the badge class derived from the literal status value.
func (r Row) StatusClass() string {
	return "status " + r.Status
}

// Page is an in-memory TableBody and StatusArea.
type Page struct {
	mu      sync.Mutex
	status  string
	message string
	rows    []Row
}

func NewPage() *Page {
	return &Page{}
}

func (p *Page) SetStatus(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status = text
}

func (p *Page) ShowMessage(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.message = text
	p.rows = nil
}

func (p *Page) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.message = ""
	p.rows = nil
}

func (p *Page) AppendRow(row Row) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rows = append(p.rows, row)
}

// Snapshot is a copy of the page state, safe to render or encode.
type Snapshot struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Rows    []Row  `json:"rows"`
}

func (p *Page) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	rows := make([]Row, len(p.rows))
	copy(rows, p.rows)
	return Snapshot{Status: p.status, Message: p.message, Rows: rows}
}
