package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/papajo/schemaGenius/internal/isr"
)

func TestSQLParseCreateTable(t *testing.T) {
	input := `
CREATE TABLE users (
    id INT PRIMARY KEY AUTO_INCREMENT,
    email VARCHAR(255) NOT NULL UNIQUE,
    balance DECIMAL(10, 2) DEFAULT 0.0,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);`
	got, err := NewSQL().Parse(input, "")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := &isr.Schema{
		Tables: []*isr.Table{
			{
				Name: "users",
				Columns: []*isr.Column{
					{
						Name: "id",
						Type: isr.GenericTypeInteger,
						Constraints: []*isr.Constraint{
							isr.PrimaryKey(),
							isr.AutoIncrement(),
						},
					},
					{
						Name: "email",
						Type: isr.GenericTypeString,
						Constraints: []*isr.Constraint{
							isr.NotNull(),
							isr.Unique(),
						},
					},
					{
						Name: "balance",
						Type: isr.GenericTypeDecimal,
						Constraints: []*isr.Constraint{
							isr.Default(isr.NumberDefault("0.0")),
						},
					},
					{
						Name: "created_at",
						Type: isr.GenericTypeTimestamp,
						Constraints: []*isr.Constraint{
							isr.Default(isr.StringDefault("CURRENT_TIMESTAMP")),
						},
					},
				},
			},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestSQLParseSerial(t *testing.T) {
	got, err := NewSQL().Parse(`CREATE TABLE t (id SERIAL PRIMARY KEY, big BIGSERIAL);`, "")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := []*isr.Column{
		{
			Name: "id",
			Type: isr.GenericTypeInteger,
			Constraints: []*isr.Constraint{
				isr.AutoIncrement(),
				isr.PrimaryKey(),
			},
		},
		{
			Name: "big",
			Type: isr.GenericTypeBigInteger,
			Constraints: []*isr.Constraint{
				isr.AutoIncrement(),
			},
		},
	}
	if diff := cmp.Diff(want, got.Tables[0].Columns); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
}

func TestSQLParseLenient(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"garbage", "this is not SQL at all"},
		{"empty", ""},
		{"insert only", "INSERT INTO t VALUES (1);"},
		{"create index", "CREATE INDEX idx_users ON users (email);"},
		{"create view", "CREATE OR REPLACE VIEW v AS SELECT 1;"},
		{"no columns", "CREATE TABLE empty ();"},
		{"unbalanced parens", "CREATE TABLE broken (id INT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewSQL().Parse(tt.input, "")
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if len(got.Tables) != 0 {
				t.Errorf("Parse() returned %d tables, want 0", len(got.Tables))
			}
		})
	}
}

func TestSQLParseSkipsTableConstraints(t *testing.T) {
	input := `
CREATE TABLE orders (
    id INT,
    user_id INT,
    PRIMARY KEY (id),
    CONSTRAINT fk_user FOREIGN KEY (user_id) REFERENCES users (id),
    UNIQUE (user_id),
    KEY idx_user (user_id),
    CHECK (id > 0)
);`
	got, err := NewSQL().Parse(input, "")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := []*isr.Column{
		{Name: "id", Type: isr.GenericTypeInteger},
		{Name: "user_id", Type: isr.GenericTypeInteger},
	}
	if diff := cmp.Diff(want, got.Tables[0].Columns); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
}

func TestSQLParseTableNames(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "CREATE TABLE users (id INT);", "users"},
		{"if not exists", "CREATE TABLE IF NOT EXISTS users (id INT);", "users"},
		{"schema qualified", "CREATE TABLE public.users (id INT);", "users"},
		{"backticks", "CREATE TABLE `my db`.`users` (id INT);", "users"},
		{"double quotes", `CREATE TABLE "Users" (id INT);`, "Users"},
		{"temporary", "CREATE TEMPORARY TABLE staging (id INT);", "staging"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewSQL().Parse(tt.input, "")
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if len(got.Tables) != 1 {
				t.Fatalf("got %d tables, want 1", len(got.Tables))
			}
			if got.Tables[0].Name != tt.want {
				t.Errorf("table name = %q, want %q", got.Tables[0].Name, tt.want)
			}
		})
	}
}

func TestSQLTypeMapping(t *testing.T) {
	tests := []struct {
		sqlType string
		want    isr.GenericType
	}{
		{"BIGINT", isr.GenericTypeBigInteger},
		{"INT", isr.GenericTypeInteger},
		{"INTEGER", isr.GenericTypeInteger},
		{"SMALLINT", isr.GenericTypeInteger},
		{"TINYINT", isr.GenericTypeInteger},
		{"TEXT", isr.GenericTypeText},
		{"MEDIUMTEXT", isr.GenericTypeText},
		{"CLOB", isr.GenericTypeText},
		{"VARCHAR", isr.GenericTypeString},
		{"CHAR", isr.GenericTypeString},
		{"CHARACTER", isr.GenericTypeString},
		{"NVARCHAR", isr.GenericTypeString},
		{"DECIMAL", isr.GenericTypeDecimal},
		{"NUMERIC", isr.GenericTypeDecimal},
		{"FLOAT", isr.GenericTypeFloat},
		{"REAL", isr.GenericTypeFloat},
		{"DOUBLE", isr.GenericTypeFloat},
		{"DATETIME", isr.GenericTypeDateTime},
		{"TIMESTAMP", isr.GenericTypeTimestamp},
		{"TIMESTAMPTZ", isr.GenericTypeTimestamp},
		{"DATE", isr.GenericTypeDate},
		{"TIME", isr.GenericTypeTime},
		{"BOOL", isr.GenericTypeBoolean},
		{"BOOLEAN", isr.GenericTypeBoolean},
		{"BLOB", isr.GenericTypeBlob},
		{"VARBINARY", isr.GenericTypeBlob},
		{"BYTEA", isr.GenericTypeBlob},
		{"JSON", isr.GenericTypeJSON},
		{"JSONB", isr.GenericTypeJSON},
		{"UUID", isr.GenericTypeUUID},
		{"GEOMETRY", isr.GenericTypeString},
	}
	for _, tt := range tests {
		t.Run(tt.sqlType, func(t *testing.T) {
			if got := mapSQLType(tt.sqlType); got != tt.want {
				t.Errorf("mapSQLType(%q) = %v, want %v", tt.sqlType, got, tt.want)
			}
		})
	}
}

func TestSQLParseDefaults(t *testing.T) {
	input := `
CREATE TABLE t (
    a VARCHAR(50) DEFAULT 'pending',
    b INT DEFAULT 10,
    c FLOAT DEFAULT 0.0,
    d BOOLEAN DEFAULT TRUE,
    e BOOLEAN DEFAULT false,
    f TIMESTAMP DEFAULT NOW(),
    g INT DEFAULT -5
);`
	got, err := NewSQL().Parse(input, "")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := []*isr.Constraint{
		isr.Default(isr.StringDefault("pending")),
		isr.Default(isr.NumberDefault("10")),
		isr.Default(isr.NumberDefault("0.0")),
		isr.Default(isr.BoolDefault(true)),
		isr.Default(isr.BoolDefault(false)),
		isr.Default(isr.StringDefault("NOW()")),
		isr.Default(isr.NumberDefault("-5")),
	}
	cols := got.Tables[0].Columns
	if len(cols) != len(want) {
		t.Fatalf("got %d columns, want %d", len(cols), len(want))
	}
	for i, col := range cols {
		if diff := cmp.Diff(want[i], col.Constraint(isr.ConstraintTypeDefault)); diff != "" {
			t.Errorf("column %q default mismatch (-want +got):\n%s", col.Name, diff)
		}
	}
}

func TestSQLParseMultipleStatements(t *testing.T) {
	input := `
-- user accounts
CREATE TABLE users (id INT PRIMARY KEY);

/* order history,
   with a 'quoted; semicolon' inside */
CREATE TABLE orders (
    id INT,
    note VARCHAR(100) DEFAULT 'n;a'
);

DROP TABLE legacy;
`
	got, err := NewSQL().Parse(input, "")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if len(got.Tables) != 2 {
		t.Fatalf("got %d tables, want 2", len(got.Tables))
	}
	if got.Tables[0].Name != "users" || got.Tables[1].Name != "orders" {
		t.Errorf("table order = %q, %q, want users, orders", got.Tables[0].Name, got.Tables[1].Name)
	}

	note := got.Tables[1].Column("note")
	if note == nil {
		t.Fatal("orders.note not parsed")
	}
	def := note.Constraint(isr.ConstraintTypeDefault)
	if def == nil || def.Default.String == nil || *def.Default.String != "n;a" {
		t.Errorf("note default = %+v, want \"n;a\"", def)
	}
}

func TestSQLParseMultiWordTypes(t *testing.T) {
	input := `
CREATE TABLE t (
    a DOUBLE PRECISION,
    b CHARACTER VARYING(40) NOT NULL,
    c TIMESTAMP WITH TIME ZONE
);`
	got, err := NewSQL().Parse(input, "")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	cols := got.Tables[0].Columns
	if cols[0].Type != isr.GenericTypeFloat {
		t.Errorf("a type = %v, want %v", cols[0].Type, isr.GenericTypeFloat)
	}
	if cols[1].Type != isr.GenericTypeString {
		t.Errorf("b type = %v, want %v", cols[1].Type, isr.GenericTypeString)
	}
	if !cols[1].HasConstraint(isr.ConstraintTypeNotNull) {
		t.Error("b is missing NOT_NULL")
	}
	if cols[2].Type != isr.GenericTypeTimestamp {
		t.Errorf("c type = %v, want %v", cols[2].Type, isr.GenericTypeTimestamp)
	}
}
