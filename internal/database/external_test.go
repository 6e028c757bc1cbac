package database

import (
	"context"
	"os"
	"testing"

	"github.com/go-while/go-entrees/internal/models"
)

// TestExternalDatabases runs the entree flow against PostgreSQL and MySQL
// when a DSN for a disposable database is provided.
func TestExternalDatabases(t *testing.T) {
	targets := map[string]string{
		"pgx":   os.Getenv("ENTREES_TEST_PG_DSN"),
		"mysql": os.Getenv("ENTREES_TEST_MYSQL_DSN"),
	}
	for driver, dsn := range targets {
		t.Run(driver, func(t *testing.T) {
			if dsn == "" {
				t.Skipf("no DSN for %s", driver)
			}
			ctx := context.Background()
			cfg := DefaultDBConfig()
			cfg.Driver = driver
			cfg.DSN = dsn
			db, err := OpenDatabase(ctx, cfg)
			if err != nil {
				t.Fatalf("OpenDatabase: %v", err)
			}
			defer db.Shutdown()

			soy, err := db.GetEntreeTypeByName(ctx, "Soy")
			if err != nil {
				t.Fatalf("GetEntreeTypeByName: %v", err)
			}
			e := &models.Entree{Name: "Tempeh Bowl", Price: 1375, EntreeTypeID: soy.ID}
			if err := db.CreateEntree(ctx, e); err != nil {
				t.Fatalf("CreateEntree: %v", err)
			}
			listing, err := db.GetEntreeListing(ctx)
			if err != nil {
				t.Fatalf("GetEntreeListing: %v", err)
			}
			var found bool
			for _, l := range listing {
				if l.ID == e.ID {
					found = true
					if l.EntreeTypeName != "Soy" || !l.IsVegetarian || l.Price.String() != "13.75" {
						t.Errorf("unexpected row: %+v", l)
					}
				}
			}
			if !found {
				t.Errorf("created entree %d not listed", e.ID)
			}
		})
	}
}
