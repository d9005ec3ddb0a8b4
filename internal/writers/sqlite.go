// internal/writers/sqlite.go
package writers

import "panama/internal/store"

func init() { RegisterFile("sqlite", WriteSQLite) }

// WriteSQLite stores every table of p in the database at path, creating it
// if needed. Select is ignored; the schema always holds all three tables.
func WriteSQLite(path string, p *Payload) error {
	db, err := store.Open(path)
	if err != nil {
		return err
	}
	if err := db.WriteTables(p.Tables, p.Weights); err != nil {
		db.Close()
		return err
	}
	return db.Close()
}
