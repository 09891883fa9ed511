package utils

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// ClampPerPage falls back to DefaultPerPage for unset values and caps at MaxPerPage.
func ClampPerPage(perPage int) int {
	switch {
	case perPage < 1:
		return DefaultPerPage
	case perPage > MaxPerPage:
		return MaxPerPage
	}
	return perPage
}

func CalculateTotalPages(total int64, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}

func CalculateOffset(page, perPage int) int {
	if page < 1 {
		return 0
	}
	return (page - 1) * ClampPerPage(perPage)
}
