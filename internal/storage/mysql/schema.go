package mysql

import (
	"context"
	"database/sql"
)

const createUsersTableSQL = `
CREATE TABLE IF NOT EXISTS users (
  id            BIGINT       NOT NULL AUTO_INCREMENT,
  username      VARCHAR(64)  NOT NULL,
  password_hash VARCHAR(100) NOT NULL,
  is_admin      TINYINT(1)   NOT NULL DEFAULT 0,
  PRIMARY KEY (id),
  UNIQUE KEY uq_users_username (username)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4
`

const createHotelsTableSQL = `
CREATE TABLE IF NOT EXISTS hotels (
  id           BIGINT       NOT NULL AUTO_INCREMENT,
  name         VARCHAR(200) NOT NULL,
  description  TEXT         NOT NULL,
  address      VARCHAR(300) NOT NULL,
  neighborhood VARCHAR(120) NOT NULL,
  photos       JSON         NOT NULL,
  amenities    JSON         NOT NULL,
  created_at   TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at   TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
  PRIMARY KEY (id),
  KEY idx_hotels_name (name)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4
`

const createReviewsTableSQL = `
CREATE TABLE IF NOT EXISTS reviews (
  id          BIGINT       NOT NULL AUTO_INCREMENT,
  hotel_id    BIGINT       NOT NULL,
  author_name VARCHAR(120) NOT NULL,
  rating      INT          NOT NULL,
  comment     TEXT         NOT NULL,
  is_approved TINYINT(1)   NOT NULL DEFAULT 0,
  created_at  TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP,
  PRIMARY KEY (id),
  KEY idx_reviews_hotel (hotel_id, is_approved, created_at),
  CONSTRAINT fk_reviews_hotel FOREIGN KEY (hotel_id) REFERENCES hotels (id) ON DELETE CASCADE
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4
`

// EnsureSchema creates the tables when they do not exist yet. Order matters
// for the foreign key.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range []string{createUsersTableSQL, createHotelsTableSQL, createReviewsTableSQL} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
