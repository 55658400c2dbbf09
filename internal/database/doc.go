// Package database opens the catalog store and migrates its schema.
//
// # Layout
//
//	database/
//	├── database.go      # Driver selection, connection setup, migrations
//	├── catalog/         # Authors, genres, books and book instances
//	└── audit/           # Mutation history
//
// # Using Sub-packages
//
// Open the handle once and hand its *gorm.DB to the repositories:
//
//	db, err := database.NewDatabase(database.Options{Path: "./library.db"})
//
//	repo := catalog.NewRepository(db.DB)
//	events := audit.NewRepository(db.DB)
//
// SQLite is the default driver. Set Driver to "postgres" and URL to a DSN
// to use PostgreSQL instead.
//
// # Interface Implementations
//
//   - catalog.Repository: implements http.CatalogStore and integrity.Store
//   - audit.Repository: backs audit.Service
//
// Foreign keys are not created. Deletes are checked by integrity.Guard.
package database
