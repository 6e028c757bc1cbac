package database

import (
	"reflect"
	"testing"
)

func TestPostgresRebind(t *testing.T) {
	testCases := map[string]string{
		`SELECT 1`:                                    `SELECT 1`,
		`SELECT * FROM t WHERE id = ?`:                `SELECT * FROM t WHERE id = $1`,
		`INSERT INTO t (a, b, c) VALUES (?, ?, ?)`:    `INSERT INTO t (a, b, c) VALUES ($1, $2, $3)`,
		`UPDATE t SET a = ? WHERE id = ? AND b = 'x'`: `UPDATE t SET a = $1 WHERE id = $2 AND b = 'x'`,
	}
	for in, want := range testCases {
		if got := PostgreSQL.Rebind(in); got != want {
			t.Errorf("Rebind(%q) = %q, want %q", in, got, want)
		}
		if got := SQLite.Rebind(in); got != in {
			t.Errorf("sqlite Rebind changed query: %q", got)
		}
	}
}

func TestDialectFor(t *testing.T) {
	testCases := map[string]Dialect{
		"":           SQLite,
		"sqlite3":    SQLite,
		"sqlite":     SQLite,
		"SQLite3":    SQLite,
		"pgx":        PostgreSQL,
		"postgres":   PostgreSQL,
		"postgresql": PostgreSQL,
		" Postgres ": PostgreSQL,
		"mysql":      MySQL,
		"MYSQL":      MySQL,
	}
	for driver, want := range testCases {
		got, err := DialectFor(driver)
		if err != nil {
			t.Errorf("DialectFor(%q): %v", driver, err)
			continue
		}
		if got != want {
			t.Errorf("DialectFor(%q) = %s, want %s", driver, got.Name(), want.Name())
		}
	}
	if _, err := DialectFor("oracle"); err == nil {
		t.Errorf("DialectFor(oracle) should fail")
	}
}

func TestEmbeddedMigrationsPerDialect(t *testing.T) {
	for _, d := range []Dialect{SQLite, PostgreSQL, MySQL} {
		migrations, err := getEmbeddedMigrationFiles(d.MigrationsDir())
		if err != nil {
			t.Fatalf("%s: %v", d.Name(), err)
		}
		var names []string
		for i, m := range migrations {
			if m.Version != i+1 {
				t.Errorf("%s: migration %s has version %d, want %d", d.Name(), m.FileName, m.Version, i+1)
			}
			names = append(names, m.FileName)
		}
		want := []string{"0001_create_entree_types.sql", "0002_create_entrees.sql"}
		if !reflect.DeepEqual(names, want) {
			t.Errorf("%s: migrations = %v, want %v", d.Name(), names, want)
		}
	}
}

func TestParseMigrationFileName(t *testing.T) {
	m, err := parseMigrationFileName("0002_create_entrees.sql")
	if err != nil {
		t.Fatal(err)
	}
	if m.Version != 2 || m.Description != "create_entrees" {
		t.Errorf("unexpected migration: %+v", m)
	}
	for _, bad := range []string{"create.sql", "abc_create.sql", "0003_.sql"} {
		if _, err := parseMigrationFileName(bad); err == nil {
			t.Errorf("parseMigrationFileName(%q) should fail", bad)
		}
	}
}

func TestSplitStatements(t *testing.T) {
	content := `-- comment; with semicolon
CREATE TABLE a (id INTEGER);

CREATE INDEX i ON a(id);
`
	got := splitStatements(content)
	want := []string{"CREATE TABLE a (id INTEGER)", "CREATE INDEX i ON a(id)"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("splitStatements = %q, want %q", got, want)
	}
}
