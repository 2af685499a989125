package library

// TrimLength is the display budget for list item text.
const TrimLength = 160

const ellipsis = "..."

// Trim cuts text longer than TrimLength runes and appends an ellipsis.
func Trim(text string) string {
	return TrimTo(text, TrimLength)
}

// TrimTo is Trim with an explicit budget.
func TrimTo(text string, n int) string {
	if n < 0 {
		n = 0
	}
	count := 0
	for i := range text {
		if count == n {
			return text[:i] + ellipsis
		}
		count++
	}
	return text
}
