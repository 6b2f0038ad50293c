package db

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes LIKE/ILIKE metacharacters in s so user-supplied search
// terms match literally.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}
