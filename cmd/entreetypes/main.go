// Command entreetypes manages the entree type reference data
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/go-while/go-entrees/internal/config"
	"github.com/go-while/go-entrees/internal/database"
	"github.com/go-while/go-entrees/internal/models"
)

var appVersion = "-unset-"

func main() {
	config.AppVersion = appVersion
	log.Printf("go-entrees Entree Type Manager (version: %s)", config.AppVersion)
	var (
		listTypes  = flag.Bool("list", false, "List all entree types")
		addType    = flag.Bool("add", false, "Add an entree type")
		deleteType = flag.Bool("delete", false, "Delete an unused entree type")
		seedTypes  = flag.Bool("seed", false, "Insert missing default entree types")
		name       = flag.String("name", "", "Entree type name for -add and -delete")
		vegetarian = flag.Bool("vegetarian", false, "Mark the new entree type as vegetarian")
		yes        = flag.Bool("yes", false, "Delete without asking for confirmation")
		dbDriver   = flag.String("dbdriver", "", "Database driver: sqlite3, pgx or mysql (default: DB_DRIVER or sqlite3)")
		dbDSN      = flag.String("dbdsn", "", "Database DSN (default: DB_DSN, or a sqlite file in DB_DATA_DIR)")
	)
	flag.Parse()

	if !*listTypes && !*addType && !*deleteType && !*seedTypes {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -list\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -add -name Tofu -vegetarian\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -delete -name Goat\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -seed\n", os.Args[0])
		os.Exit(1)
	}

	mainConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *dbDriver != "" {
		mainConfig.Database.Driver = *dbDriver
	}
	if *dbDSN != "" {
		mainConfig.Database.DSN = *dbDSN
	}
	if err := mainConfig.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx := context.Background()
	dbconfig := database.DBConfigFrom(mainConfig.Database)
	// -seed decides explicitly, an empty table stays empty for the other commands
	dbconfig.SeedDefaults = false
	db, err := database.OpenDatabase(ctx, dbconfig)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Shutdown()

	switch {
	case *listTypes:
		if err := listEntreeTypes(ctx, db, os.Stdout); err != nil {
			log.Fatalf("Failed to list entree types: %v", err)
		}

	case *addType:
		if *name == "" {
			log.Fatal("Name is required to add an entree type")
		}
		et := &models.EntreeType{Name: *name, IsVegetarian: *vegetarian}
		if err := db.AddEntreeType(ctx, et); err != nil {
			log.Fatalf("Failed to add entree type: %v", err)
		}
		fmt.Printf("Added entree type '%s' (ID: %d, vegetarian: %t)\n", et.Name, et.ID, et.IsVegetarian)

	case *deleteType:
		if *name == "" {
			log.Fatal("Name is required to delete an entree type")
		}
		if err := deleteEntreeType(ctx, db, *name, *yes); err != nil {
			log.Fatalf("Failed to delete entree type: %v", err)
		}

	case *seedTypes:
		added, err := db.SeedEntreeTypes(ctx, models.DefaultEntreeTypes)
		if err != nil {
			log.Fatalf("Failed to seed entree types: %v", err)
		}
		fmt.Printf("Seeded %d entree types (%d defaults)\n", added, len(models.DefaultEntreeTypes))
	}
}

func listEntreeTypes(ctx context.Context, db *database.Database, w io.Writer) error {
	types, err := db.GetEntreeTypes(ctx)
	if err != nil {
		return err
	}
	if len(types) == 0 {
		fmt.Fprintln(w, "No entree types found. Use -seed to insert the defaults.")
		return nil
	}
	fmt.Fprintf(w, "%-6s %-30s %s\n", "ID", "Name", "Vegetarian")
	fmt.Fprintf(w, "%-6s %-30s %s\n", "--", "----", "----------")
	for _, et := range types {
		fmt.Fprintf(w, "%-6d %-30s %t\n", et.ID, et.Name, et.IsVegetarian)
	}
	fmt.Fprintf(w, "\nTotal: %d entree types\n", len(types))
	return nil
}

func deleteEntreeType(ctx context.Context, db *database.Database, name string, yes bool) error {
	et, err := db.GetEntreeTypeByName(ctx, name)
	if err != nil {
		return err
	}

	if !yes {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return errors.New("stdin is not a terminal, use -yes to delete without confirmation")
		}
		if !confirm(os.Stdin, fmt.Sprintf("Are you sure you want to delete entree type '%s' (ID: %d)? [y/N]: ", et.Name, et.ID)) {
			fmt.Println("Deletion cancelled")
			return nil
		}
	}

	if err := db.DeleteEntreeType(ctx, et.Name); err != nil {
		if errors.Is(err, database.ErrEntreeTypeInUse) {
			return fmt.Errorf("entree type '%s' is still used by entrees", et.Name)
		}
		return err
	}
	fmt.Printf("Entree type '%s' deleted successfully\n", et.Name)
	return nil
}

// confirm prints prompt and reports whether the answer was yes
func confirm(r io.Reader, prompt string) bool {
	fmt.Print(prompt)
	response, _ := bufio.NewReader(r).ReadString('\n')
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
