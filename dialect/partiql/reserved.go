package partiql

// reserved holds the grammar keywords of the statement language.
// Identifiers matching one case-insensitively are quoted during
// rendering, as are identifiers with whitespace or punctuation.
var reserved = make(map[string]bool)

func init() {
	for _, w := range []string{
		"ALL", "AND", "ANY", "AS", "ASC", "AT", "BETWEEN", "BY",
		"CASE", "CAST", "CROSS", "DATE", "DELETE", "DESC", "DISTINCT",
		"ELSE", "END", "ESCAPE", "EXCEPT", "EXISTS", "FALSE", "FROM",
		"FULL", "GROUP", "HAVING", "IN", "INDEX", "INNER", "INSERT",
		"INTERSECT", "INTO", "IS", "JOIN", "LEFT", "LIKE", "LIMIT",
		"MISSING", "NOT", "NULL", "OFFSET", "ON", "OR", "ORDER",
		"OUTER", "PIVOT", "REMOVE", "RETURNING", "RIGHT", "SELECT",
		"SET", "SOME", "THEN", "TIME", "TIMESTAMP", "TRUE", "UNION",
		"UNPIVOT", "UPDATE", "USING", "VALUE", "VALUES", "WHEN",
		"WHERE",
	} {
		reserved[w] = true
	}
}
