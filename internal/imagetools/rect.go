package imagetools

// Rect is a crop rectangle in source pixel space.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// ClampRect brings r inside a maxW x maxH image in one pass: the size is
// clamped to [1, max] first, then the origin to [0, max-size]. It must be
// applied after every edit of any of the four fields.
func ClampRect(r Rect, maxW, maxH int) Rect {
	if maxW <= 0 {
		maxW = max(1, r.Width)
	}
	if maxH <= 0 {
		maxH = max(1, r.Height)
	}
	w := clampInt(r.Width, 1, maxW)
	h := clampInt(r.Height, 1, maxH)
	return Rect{
		X:      clampInt(r.X, 0, max(0, maxW-w)),
		Y:      clampInt(r.Y, 0, max(0, maxH-h)),
		Width:  w,
		Height: h,
	}
}

// DefaultCrop is a centered rectangle half the image size, at least 40px.
func DefaultCrop(naturalW, naturalH int) Rect {
	w := max(40, roundHalf(naturalW))
	h := max(40, roundHalf(naturalH))
	return ClampRect(Rect{
		X:      roundDiv2(naturalW - w),
		Y:      roundDiv2(naturalH - h),
		Width:  w,
		Height: h,
	}, naturalW, naturalH)
}

func roundHalf(n int) int { return (n + 1) / 2 }

// roundDiv2 rounds n/2 half up, also for negative n.
func roundDiv2(n int) int {
	if n >= 0 {
		return (n + 1) / 2
	}
	return -((-n) / 2)
}
