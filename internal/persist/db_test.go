package persist

import (
	"testing"
	"time"

	"github.com/l1jgo/eventlistener/internal/config"
)

func TestPoolConfig(t *testing.T) {
	pc, err := poolConfig(config.DatabaseConfig{
		DSN:             "postgres://u:p@db.internal:5433/journal",
		MaxOpenConns:    8,
		MaxIdleConns:    20,
		ConnMaxLifetime: time.Minute,
	})
	if err != nil {
		t.Fatal(err)
	}
	if pc.MaxConns != 8 || pc.MinConns != 8 {
		t.Errorf("conns = %d/%d", pc.MinConns, pc.MaxConns)
	}
	if pc.MaxConnLifetime != time.Minute {
		t.Errorf("lifetime = %s", pc.MaxConnLifetime)
	}
	if pc.ConnConfig.Host != "db.internal" || pc.ConnConfig.Port != 5433 || pc.ConnConfig.Database != "journal" {
		t.Errorf("conn config = %s:%d/%s", pc.ConnConfig.Host, pc.ConnConfig.Port, pc.ConnConfig.Database)
	}
}

func TestPoolConfigKeepsDefaults(t *testing.T) {
	pc, err := poolConfig(config.DatabaseConfig{DSN: "postgres://localhost/x"})
	if err != nil {
		t.Fatal(err)
	}
	if pc.MaxConns <= 0 {
		t.Errorf("default max conns lost: %d", pc.MaxConns)
	}
}

func TestPoolConfigBadDSN(t *testing.T) {
	if _, err := poolConfig(config.DatabaseConfig{DSN: "postgres://%zz"}); err == nil {
		t.Error("bad dsn accepted")
	}
}
