package icu

// UnicodeAwareLikeQuery returns a LIKE fragment that applies NOCASE collation
// to both operands. value is not inspected; it is accepted so call sites can
// pass the same arguments as the detection-based builders.
func UnicodeAwareLikeQuery(column, value string) string {
	return column + " COLLATE NOCASE LIKE ? COLLATE NOCASE"
}

// UnicodeAwareEqualityQuery returns an equality fragment that applies NOCASE
// collation to both operands.
func UnicodeAwareEqualityQuery(column string) string {
	return column + " COLLATE NOCASE = ? COLLATE NOCASE"
}
