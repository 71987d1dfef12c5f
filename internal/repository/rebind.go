package repository

import "regexp"

// Drivers suportados pelo modo duplo de persistência
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var placeholderRe = regexp.MustCompile(`\$\d+`)

// rebind converte placeholders no estilo PostgreSQL ($1, $2...) para o
// estilo posicional do SQLite (?). As consultas são escritas com $N em
// ordem crescente, então a substituição direta preserva a posição dos
// argumentos.
func rebind(driver, query string) string {
	if driver != DriverSQLite {
		return query
	}
	return placeholderRe.ReplaceAllString(query, "?")
}
