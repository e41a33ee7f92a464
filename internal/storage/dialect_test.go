package storage

import "testing"

func TestRebind(t *testing.T) {
	pg, _ := dialectFor("postgres")
	got := pg.rebind(`UPDATE t SET a = ?, b = ? WHERE id = ?`)
	want := `UPDATE t SET a = $1, b = $2 WHERE id = $3`
	if got != want {
		t.Errorf("rebind = %q, want %q", got, want)
	}

	lite, _ := dialectFor("sqlite")
	q := `SELECT * FROM t WHERE id = ?`
	if lite.rebind(q) != q {
		t.Errorf("sqlite should keep ? placeholders")
	}
}

func TestDialectFor_Unknown(t *testing.T) {
	if _, err := dialectFor("oracle"); err == nil {
		t.Error("expected error for unknown driver")
	}
}

func TestCreateIndex(t *testing.T) {
	my, _ := dialectFor("mysql")
	if got := my.createIndex("idx", "t", "c"); got != "CREATE INDEX idx ON t(c)" {
		t.Errorf("mysql index = %q", got)
	}
	lite, _ := dialectFor("sqlite")
	if got := lite.createIndex("idx", "t", "c"); got != "CREATE INDEX IF NOT EXISTS idx ON t(c)" {
		t.Errorf("sqlite index = %q", got)
	}
}
