// internal/config/database.go
package config

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// Dialect reports which driver the configured database needs.
func (d *DatabaseConfig) Dialect() string {
	u := strings.ToLower(d.URL)
	switch {
	case strings.HasPrefix(u, "file:"), strings.HasPrefix(u, "sqlite:"),
		strings.HasSuffix(u, ".db"), u == ":memory:":
		return DialectSQLite
	default:
		return DialectPostgres
	}
}

func (d *DatabaseConfig) DSN() string {
	if d.URL == "" {
		return fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
		)
	}

	if d.Dialect() == DialectSQLite {
		return strings.TrimPrefix(d.URL, "sqlite:")
	}

	// The auth token is the password for hosted databases that hand out
	// a URL and a token separately.
	if d.AuthToken != "" {
		if parsed, err := url.Parse(d.URL); err == nil {
			user := "default"
			if parsed.User != nil && parsed.User.Username() != "" {
				user = parsed.User.Username()
			}
			parsed.User = url.UserPassword(user, d.AuthToken)
			return parsed.String()
		}
	}

	return d.URL
}
