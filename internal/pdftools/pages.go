package pdftools

import (
	"sort"
	"strconv"
	"strings"
)

// ParseRange turns an expression such as "1-3,5,8-10" into the ascending,
// de-duplicated list of 1-based pages it selects within [1, total]. Tokens
// that are malformed or out of range are dropped.
func ParseRange(expr string, total int) []int {
	seen := make(map[int]struct{})
	for _, part := range strings.Split(expr, ",") {
		token := strings.TrimSpace(part)
		if token == "" {
			continue
		}
		if a, b, ok := strings.Cut(token, "-"); ok {
			start, err1 := strconv.Atoi(strings.TrimSpace(a))
			end, err2 := strconv.Atoi(strings.TrimSpace(b))
			if err1 != nil || err2 != nil {
				continue
			}
			lo := max(1, min(start, end))
			hi := min(total, max(start, end))
			for p := lo; p <= hi; p++ {
				seen[p] = struct{}{}
			}
			continue
		}
		n, err := strconv.Atoi(token)
		if err == nil && n >= 1 && n <= total {
			seen[n] = struct{}{}
		}
	}
	pages := make([]int, 0, len(seen))
	for p := range seen {
		pages = append(pages, p)
	}
	sort.Ints(pages)
	return pages
}

// Selection resolves "all" or a range expression.
func Selection(expr string, total int) []int {
	if strings.EqualFold(strings.TrimSpace(expr), "all") {
		pages := make([]int, total)
		for i := range pages {
			pages[i] = i + 1
		}
		return pages
	}
	return ParseRange(expr, total)
}

func pageSelectors(pages []int) []string {
	out := make([]string, len(pages))
	for i, p := range pages {
		out[i] = strconv.Itoa(p)
	}
	return out
}
