package recommend

import (
	"errors"
	"sort"
)

// 分页默认值
const (
	DefaultRecommendationPageSize = 20
	DefaultListPageSize           = 15
	MaxPageSize                   = 100
)

var (
	// ErrInvalidPage 页码小于 1 或超过总页数
	ErrInvalidPage = errors.New("invalid page")
	// ErrInvalidPageSize 每页条数小于 1
	ErrInvalidPageSize = errors.New("invalid page size")
)

// PageInfo 分页信息
type PageInfo struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// Rank 按得分降序排序，得分相同按电影 ID 升序
func Rank(list []RankedMovie) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Score != list[j].Score {
			return list[i].Score > list[j].Score
		}
		return list[i].ID < list[j].ID
	})
}

// TotalPages 总页数，空列表也算 1 页
func TotalPages(total, size int) int {
	if size < 1 {
		return 0
	}
	if total == 0 {
		return 1
	}
	return (total + size - 1) / size
}

// Paginate 取第 page 页（从 1 开始）。返回的切片与原列表共享底层数组。
func Paginate[T any](list []T, page, size int) ([]T, PageInfo, error) {
	if size < 1 {
		return nil, PageInfo{}, ErrInvalidPageSize
	}
	totalPages := TotalPages(len(list), size)
	info := PageInfo{
		Page:       page,
		PageSize:   size,
		TotalItems: len(list),
		TotalPages: totalPages,
	}
	if page < 1 || page > totalPages {
		return nil, info, ErrInvalidPage
	}

	start := (page - 1) * size
	end := start + size
	if end > len(list) {
		end = len(list)
	}
	return list[start:end], info, nil
}
