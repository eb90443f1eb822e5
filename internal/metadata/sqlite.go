package metadata

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/leca/showroom-gallery/internal/model"
	_ "modernc.org/sqlite"
)

// Compile-time check that SQLite implements Store.
var _ Store = (*SQLite)(nil)

// SQLite implements Store on an embedded SQLite database. It is the
// drop-in substitution for the JSON document store behind the same
// interface, without the lost-update race.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (or creates) an SQLite database at dsn and runs
// migrations. For in-memory use pass "file::memory:?cache=shared".
func NewSQLite(dsn string) (*SQLite, error) {
	if !strings.Contains(dsn, "?") {
		dsn += "?_journal_mode=WAL&_busy_timeout=5000"
	} else if !strings.Contains(dsn, "_journal_mode") {
		dsn += "&_journal_mode=WAL&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) Append(img *model.Image) error {
	_, err := s.db.Exec(`
		INSERT INTO images (id, section, category, filename, path, caption, width, height, uploaded)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		img.ID, img.Section, img.Category, img.Filename, img.Path,
		img.Caption, img.Width, img.Height, img.UploadDate.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert image: %w", err)
	}
	return nil
}

func (s *SQLite) Get(id string) (*model.Image, error) {
	row := s.db.QueryRow(`
		SELECT id, section, category, filename, path, caption, width, height, uploaded
		FROM images WHERE id = ?`,
		id,
	)
	img, err := scanImage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return img, err
}

func (s *SQLite) List(section string) ([]*model.Image, error) {
	query := `
		SELECT id, section, category, filename, path, caption, width, height, uploaded
		FROM images`
	args := []interface{}{}
	if section != model.SectionAll {
		query += ` WHERE section = ?`
		args = append(args, section)
	}
	query += ` ORDER BY uploaded DESC, id DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	defer rows.Close()

	images := []*model.Image{}
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan image: %w", err)
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

func (s *SQLite) Remove(id string) error {
	res, err := s.db.Exec(`DELETE FROM images WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete image: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanImage(row scanner) (*model.Image, error) {
	img := &model.Image{}
	var uploaded int64
	err := row.Scan(&img.ID, &img.Section, &img.Category, &img.Filename,
		&img.Path, &img.Caption, &img.Width, &img.Height, &uploaded)
	if err != nil {
		return nil, err
	}
	img.UploadDate = time.Unix(0, uploaded).UTC()
	return img, nil
}
