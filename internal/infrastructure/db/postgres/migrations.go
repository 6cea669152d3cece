package postgres

import (
	migrate "github.com/rubenv/sql-migrate"
)

// Migration returns the schema for the user store. Authority rows are keyed
// by username so they follow the unique parent record; the composite unique
// constraint makes duplicate grants impossible at the storage level as well.
func Migration() *migrate.MemoryMigrationSource {
	return &migrate.MemoryMigrationSource{
		Migrations: []*migrate.Migration{
			{
				Id: "users_01",
				Up: []string{
					`CREATE TABLE IF NOT EXISTS users (
						id       BIGSERIAL PRIMARY KEY,
						username VARCHAR(254) NOT NULL UNIQUE,
						password TEXT NOT NULL,
						name     VARCHAR(254),
						email    VARCHAR(254),
						enabled  BOOLEAN NOT NULL DEFAULT TRUE
					)`,
					`CREATE TABLE IF NOT EXISTS authorities (
						id        BIGSERIAL PRIMARY KEY,
						username  VARCHAR(254) NOT NULL,
						authority VARCHAR(64) NOT NULL,
						UNIQUE (username, authority),
						FOREIGN KEY (username) REFERENCES users (username) ON DELETE CASCADE
					)`,
				},
				Down: []string{
					`DROP TABLE IF EXISTS authorities`,
					`DROP TABLE IF EXISTS users`,
				},
			},
		},
	}
}
