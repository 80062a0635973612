package domain

// 列表排序只放行白名单列，避免把 sort 参数拼进 SQL
var sortColumns = map[string]string{
	"id":        "id",
	"name":      "name",
	"email":     "email",
	"createdAt": "created_at",
}

type PageRequest struct {
	Page int
	Size int
	Sort string
	Desc bool
}

// Normalized 页码从 1 开始；size 默认 10，上限 100
func (p PageRequest) Normalized() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Size <= 0 || p.Size > 100 {
		p.Size = 10
	}
	if _, ok := sortColumns[p.Sort]; !ok {
		p.Sort = "id"
	}
	return p
}

func (p PageRequest) Offset() int { return (p.Page - 1) * p.Size }

func (p PageRequest) SortColumn() string {
	if col, ok := sortColumns[p.Sort]; ok {
		return col
	}
	return "id"
}

type Page[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	TotalPages int   `json:"totalPages"`
}

func NewPage[T any](items []T, total int64, req PageRequest) Page[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if req.Size > 0 {
		pages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}
	return Page[T]{Items: items, Total: total, Page: req.Page, Size: req.Size, TotalPages: pages}
}

// MapPage 实体页转 DTO 页（分页元数据原样保留）
func MapPage[T, U any](p Page[T], fn func(T) U) Page[U] {
	items := make([]U, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, fn(it))
	}
	return Page[U]{Items: items, Total: p.Total, Page: p.Page, Size: p.Size, TotalPages: p.TotalPages}
}
