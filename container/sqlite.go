// SPDX-License-Identifier: MIT

package container

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/katalvlaran/lvcov/table"
)

// sqliteMagic is the fixed 16-byte header of every SQLite 3 database.
const sqliteMagic = "SQLite format 3\x00"

const sqliteSchema = `
	CREATE TABLE lvcov_info (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE sections (
		pos         INTEGER PRIMARY KEY,
		name        TEXT NOT NULL UNIQUE,
		compression INTEGER NOT NULL,
		raw_len     INTEGER NOT NULL,
		body        BLOB NOT NULL
	);

	CREATE TABLE headers (
		section INTEGER NOT NULL REFERENCES sections(pos),
		pos     INTEGER NOT NULL,
		key     TEXT NOT NULL,
		value   TEXT NOT NULL,
		PRIMARY KEY (section, pos)
	);
`

// SQLiteAvailable reports whether this build can read and write FormatSQLite.
func SQLiteAvailable() bool { return sqliteAvailable }

func openSQLite(ctx context.Context, path string) (*sql.DB, error) {
	if !sqliteAvailable {
		return nil, fmt.Errorf("sqlite format: %w", ErrUnsupportedOperation)
	}
	db, err := sql.Open(sqliteDriver, path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("opening database: %w", err)
	}

	return db, nil
}

// writeSQLite creates the schema in the (empty) database at path and stores
// every section in one transaction.
func writeSQLite(ctx context.Context, path string, sections []encodedSection, c Compression) (err error) {
	db, err := openSQLite(ctx, path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing database: %w", cerr)
		}
	}()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	info := [][2]string{
		{"format", "lvcov"},
		{"version", strconv.Itoa(frameVersion)},
		{"compression", c.String()},
	}
	for _, kv := range info {
		if _, err = tx.ExecContext(ctx, `INSERT INTO lvcov_info (key, value) VALUES (?, ?)`, kv[0], kv[1]); err != nil {
			return fmt.Errorf("writing info: %w", err)
		}
	}

	for k, s := range sections {
		body, used, cerr := compress(c, s.body)
		if cerr != nil {
			err = cerr
			return err
		}
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO sections (pos, name, compression, raw_len, body) VALUES (?, ?, ?, ?, ?)`,
			k, s.name, int(used), len(s.body), body); err != nil {
			return fmt.Errorf("writing section %q: %w", s.name, err)
		}
		for p, e := range s.header {
			if _, err = tx.ExecContext(ctx,
				`INSERT INTO headers (section, pos, key, value) VALUES (?, ?, ?, ?)`,
				k, p, e.Key, e.Value); err != nil {
				return fmt.Errorf("writing header of %q: %w", s.name, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}

// readSQLite loads all sections in position order.
func readSQLite(ctx context.Context, path string) (_ []encodedSection, _ Compression, err error) {
	db, err := openSQLite(ctx, path)
	if err != nil {
		return nil, 0, err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing database: %w", cerr)
		}
	}()

	var name string
	if err = db.QueryRowContext(ctx, `SELECT value FROM lvcov_info WHERE key = 'compression'`).Scan(&name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, fmt.Errorf("missing lvcov_info: %w", ErrUnknownFormat)
		}
		return nil, 0, fmt.Errorf("reading info: %v: %w", err, ErrUnknownFormat)
	}
	declared, err := ParseCompression(name)
	if err != nil {
		return nil, 0, err
	}

	rows, err := db.QueryContext(ctx, `SELECT pos, name, compression, raw_len, body FROM sections ORDER BY pos`)
	if err != nil {
		return nil, 0, fmt.Errorf("reading sections: %w", err)
	}
	defer rows.Close()

	var out []encodedSection
	byPos := make(map[int]int)
	for rows.Next() {
		var (
			pos, comp, rawLen int
			secName           string
			body              []byte
		)
		if err = rows.Scan(&pos, &secName, &comp, &rawLen, &body); err != nil {
			return nil, 0, fmt.Errorf("scanning section: %w", err)
		}
		if rawLen < 0 || uint64(rawLen) > maxPayload {
			return nil, 0, fmt.Errorf("section %q length %d: %w", secName, rawLen, ErrCorrupt)
		}
		raw, derr := decompress(Compression(comp), body, rawLen)
		if derr != nil {
			return nil, 0, fmt.Errorf("section %q: %w", secName, derr)
		}
		byPos[pos] = len(out)
		out = append(out, encodedSection{name: secName, body: raw})
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("reading sections: %w", err)
	}

	hrows, err := db.QueryContext(ctx, `SELECT section, key, value FROM headers ORDER BY section, pos`)
	if err != nil {
		return nil, 0, fmt.Errorf("reading headers: %w", err)
	}
	defer hrows.Close()
	for hrows.Next() {
		var (
			sec        int
			key, value string
		)
		if err = hrows.Scan(&sec, &key, &value); err != nil {
			return nil, 0, fmt.Errorf("scanning header: %w", err)
		}
		k, ok := byPos[sec]
		if !ok {
			return nil, 0, fmt.Errorf("header for unknown section %d: %w", sec, ErrCorrupt)
		}
		out[k].header = append(out[k].header, table.Entry{Key: key, Value: value})
	}
	if err = hrows.Err(); err != nil {
		return nil, 0, fmt.Errorf("reading headers: %w", err)
	}

	return out, declared, nil
}
