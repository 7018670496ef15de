package domain

// CoalesceStr returns the first non-empty string from vals.
func CoalesceStr(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// CoalesceOrigin returns the first non-empty origin from vals.
func CoalesceOrigin(vals ...Origin) Origin {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// PositiveOr returns v when it is positive, otherwise fallback.
func PositiveOr(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}
