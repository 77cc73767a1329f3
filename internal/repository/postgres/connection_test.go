package postgres

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

func TestConfigurePool(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		wantMode pgx.QueryExecMode
	}{
		{
			name:     "direct connection keeps statement cache",
			url:      "postgres://u:p@localhost:5432/ledger",
			wantMode: pgx.QueryExecModeCacheStatement,
		},
		{
			name:     "pgbouncer switches to cache describe",
			url:      "postgres://u:p@pooler.example.com:6543/ledger",
			wantMode: pgx.QueryExecModeCacheDescribe,
		},
		{
			name:     "explicit mode wins",
			url:      "postgres://u:p@pooler.example.com:6543/ledger?default_query_exec_mode=simple_protocol",
			wantMode: pgx.QueryExecModeSimpleProtocol,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := pgxpool.ParseConfig(tt.url)
			if err != nil {
				t.Fatalf("ParseConfig() unexpected error: %v", err)
			}
			configurePool(config)

			if config.MaxConns != 25 || config.MinConns != 5 {
				t.Errorf("pool size = %d/%d", config.MinConns, config.MaxConns)
			}
			if got := config.ConnConfig.DefaultQueryExecMode; got != tt.wantMode {
				t.Errorf("DefaultQueryExecMode = %v, want %v", got, tt.wantMode)
			}
		})
	}
}

func TestTableName(t *testing.T) {
	config := &RepositoryConfig{TablePrefix: "dev_"}
	if got := config.TableName("users"); got != `"dev_users"` {
		t.Errorf("TableName() = %s", got)
	}
	if got := config.TableName(`we"ird`); got != `"dev_we""ird"` {
		t.Errorf("TableName() did not escape quotes: %s", got)
	}
}

func TestDecodeRow(t *testing.T) {
	doc, err := decodeRow("65f1c0ffee0000000000beef", []byte(`{"amount": 5, "email": "a@b.com"}`))
	if err != nil {
		t.Fatalf("decodeRow() unexpected error: %v", err)
	}
	if doc.ID() != "65f1c0ffee0000000000beef" {
		t.Errorf("_id = %v", doc["_id"])
	}
	if doc["amount"] != json.Number("5") {
		t.Errorf("amount = %#v", doc["amount"])
	}

	if _, err := decodeRow("x", []byte(`not json`)); err == nil {
		t.Error("decodeRow() accepted invalid JSON")
	}
}

func TestQuoteLiteral(t *testing.T) {
	tests := map[string]string{
		"email":       `'email'`,
		"o'brien":     `'o''brien'`,
		"a'); drop--": `'a''); drop--'`,
	}
	for in, want := range tests {
		if got := quoteLiteral(in); got != want {
			t.Errorf("quoteLiteral(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestPgErrorHelpers(t *testing.T) {
	undefined := fmt.Errorf("find documents: %w", &pgconn.PgError{Code: "42P01"})
	if !IsPgUndefinedTableError(undefined) {
		t.Error("IsPgUndefinedTableError() missed a wrapped 42P01")
	}
	if IsPgUndefinedTableError(&pgconn.PgError{Code: "23505"}) {
		t.Error("IsPgUndefinedTableError() matched a unique violation")
	}
	if !IsPgNoRowsError(fmt.Errorf("scan: %w", pgx.ErrNoRows)) {
		t.Error("IsPgNoRowsError() missed a wrapped ErrNoRows")
	}
}
