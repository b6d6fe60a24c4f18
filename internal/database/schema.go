package database

func schemaStatements(dialect string) []string {
	if dialect == DialectSQLite {
		return []string{
			`CREATE TABLE IF NOT EXISTS users (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				email TEXT NOT NULL UNIQUE,
				provider TEXT NOT NULL,
				oauth_id TEXT NOT NULL,
				first_name TEXT NOT NULL DEFAULT '',
				last_name TEXT NOT NULL DEFAULT '',
				is_email_verified BOOLEAN NOT NULL DEFAULT 0,
				created_at DATETIME NOT NULL,
				updated_at DATETIME NOT NULL,
				last_login_at DATETIME NULL
			)`,
			`CREATE UNIQUE INDEX IF NOT EXISTS users_provider_oauth_id ON users (provider, oauth_id)`,
		}
	}

	return []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			email VARCHAR(255) NOT NULL,
			provider VARCHAR(32) NOT NULL,
			oauth_id VARCHAR(255) NOT NULL,
			first_name VARCHAR(255) NOT NULL DEFAULT '',
			last_name VARCHAR(255) NOT NULL DEFAULT '',
			is_email_verified BOOLEAN NOT NULL DEFAULT FALSE,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			last_login_at DATETIME NULL,
			UNIQUE KEY users_email (email),
			UNIQUE KEY users_provider_oauth_id (provider, oauth_id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	}
}
