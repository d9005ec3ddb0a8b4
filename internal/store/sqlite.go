// Package store persists run, event and particle tables to SQLite.
package store

import (
	"database/sql"
	"fmt"
	"math"
	"strings"

	_ "modernc.org/sqlite"

	"panama-core/table"
)

// DB wraps one SQLite database file.
type DB struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and creates the schema.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA foreign_keys=ON"} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	d := &DB{db: db}
	if err := d.Transaction(createSchema); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

func (d *DB) Close() error { return d.db.Close() }

// SQL exposes the connection for queries.
func (d *DB) SQL() *sql.DB { return d.db }

// Transaction executes fn within a transaction and rolls back on error or
// panic.
func (d *DB) Transaction(fn func(*sql.Tx) error) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

type col struct {
	name, typ string
}

var runCols = []col{
	{"run_number", "INTEGER PRIMARY KEY"},
	{"date", "INTEGER"},
	{"version", "REAL"},
	{"n_observation_levels", "INTEGER"},
	{"observation_height", "REAL"},
	{"energy_spectrum_slope", "REAL"},
	{"energy_min", "REAL"},
	{"energy_max", "REAL"},
	{"energy_cutoff_hadrons", "REAL"},
	{"energy_cutoff_muons", "REAL"},
	{"energy_cutoff_electrons", "REAL"},
	{"energy_cutoff_photons", "REAL"},
	{"n_showers", "INTEGER"},
}

var eventCols = []col{
	{"run_number", "INTEGER NOT NULL REFERENCES runs(run_number)"},
	{"event_number", "INTEGER NOT NULL"},
	{"particle_id", "INTEGER"},
	{"total_energy", "REAL"},
	{"starting_altitude", "REAL"},
	{"first_interaction_height", "REAL"},
	{"px", "REAL"},
	{"py", "REAL"},
	{"pz", "REAL"},
	{"zenith", "REAL"},
	{"azimuth", "REAL"},
	{"low_energy_model", "INTEGER"},
	{"high_energy_model", "INTEGER"},
	{"flux_weight", "REAL"},
}

var particleCols = []col{
	{"run_number", "INTEGER NOT NULL"},
	{"event_number", "INTEGER NOT NULL"},
	{"particle_number", "INTEGER NOT NULL"},
	{"particle_description", "INTEGER"},
	{"px", "REAL"},
	{"py", "REAL"},
	{"pz", "REAL"},
	{"x", "REAL"},
	{"y", "REAL"},
	{"t", "REAL"},
	{"weight", "REAL"},
	{"corsika_id", "INTEGER"},
	{"hadron_gen", "INTEGER"},
	{"obs_level", "INTEGER"},
	{"is_mother", "INTEGER"},
	{"pdgid", "INTEGER"},
	{"mass", "REAL"},
	{"energy", "REAL"},
	{"zenith", "REAL"},
	{"has_mother", "INTEGER"},
	{"mother_hadr_gen", "INTEGER"},
	{"mother_pdgid", "INTEGER"},
	{"mother_energy", "REAL"},
	{"mother_mass", "REAL"},
	{"grandmother_pdgid", "INTEGER"},
	{"mother_pdgid_cleaned", "INTEGER"},
	{"mother_lifetime", "REAL"},
	{"is_prompt", "INTEGER"},
}

func createTable(name string, cols []col, extra string) string {
	defs := make([]string, len(cols))
	for i, c := range cols {
		defs[i] = c.name + " " + c.typ
	}
	if extra != "" {
		defs = append(defs, extra)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", name, strings.Join(defs, ",\n\t"))
}

func createSchema(tx *sql.Tx) error {
	for _, q := range []string{
		createTable("runs", runCols, ""),
		createTable("events", eventCols, "PRIMARY KEY (run_number, event_number)"),
		createTable("particles", particleCols,
			"PRIMARY KEY (run_number, event_number, particle_number),\n\t"+
				"FOREIGN KEY (run_number, event_number) REFERENCES events(run_number, event_number)"),
	} {
		if _, err := tx.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

func insert(name string, cols []col) string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.name
	}
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", name, strings.Join(names, ", "), marks)
}

func insertRows(tx *sql.Tx, name string, cols []col, n int, row func(i int) []any) error {
	stmt, err := tx.Prepare(insert(name, cols))
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i := 0; i < n; i++ {
		if _, err := stmt.Exec(row(i)...); err != nil {
			return fmt.Errorf("insert %s row %d: %w", name, i, err)
		}
	}
	return nil
}

// nullable maps NaN to NULL.
func nullable(v float64) any {
	if math.IsNaN(v) {
		return nil
	}
	return v
}

// WriteTables inserts t in one transaction. weights, when not nil, fill
// the events' flux_weight column. Run numbers already in the database make
// the whole write fail.
func (d *DB) WriteTables(t *table.Tables, weights []float64) error {
	return d.Transaction(func(tx *sql.Tx) error {
		rt := t.Runs
		err := insertRows(tx, "runs", runCols, rt.Len(), func(i int) []any {
			return []any{rt.RunNumber[i], rt.Date[i], rt.Version[i], rt.NObservationLevels[i],
				rt.ObservationHeight[i], rt.Slope[i], rt.EnergyMin[i], rt.EnergyMax[i],
				rt.CutoffHadrons[i], rt.CutoffMuons[i], rt.CutoffElectrons[i], rt.CutoffPhotons[i], rt.NShowers[i]}
		})
		if err != nil {
			return err
		}

		et := t.Events
		err = insertRows(tx, "events", eventCols, et.Len(), func(i int) []any {
			var w any
			if weights != nil {
				w = nullable(weights[i])
			}
			return []any{et.RunNumber[i], et.EventNumber[i], et.ParticleID[i], et.TotalEnergy[i],
				et.StartingAltitude[i], et.FirstInteractionHeight[i], et.Px[i], et.Py[i], et.Pz[i],
				et.Zenith[i], et.Azimuth[i], et.LowEnergyModel[i], et.HighEnergyModel[i], w}
		})
		if err != nil {
			return err
		}

		pt := t.Particles
		return insertRows(tx, "particles", particleCols, pt.Len(), func(i int) []any {
			row := []any{pt.RunNumber[i], pt.EventNumber[i], pt.ParticleNumber[i], pt.Description[i],
				pt.Px[i], pt.Py[i], pt.Pz[i], pt.X[i], pt.Y[i], pt.T[i], pt.Weight[i]}
			if pt.HasAdditional() {
				row = append(row, pt.CorsikaID[i], pt.HadronGen[i], pt.ObsLevel[i], pt.IsMother[i],
					int(pt.PDG[i]), pt.Mass[i], pt.Energy[i], nullable(pt.Zenith[i]))
			} else {
				row = append(row, nil, nil, nil, nil, nil, nil, nil, nil)
			}
			if l := pt.Lineage; l != nil {
				var gen any
				if l.HasMother[i] {
					gen = l.MotherHadrGen[i]
				}
				row = append(row, l.HasMother[i], gen, int(l.MotherPDG[i]), nullable(l.MotherEnergy[i]),
					nullable(l.MotherMass[i]), int(l.GrandmotherPDG[i]), int(l.MotherPDGCleaned[i]),
					l.MotherLifetime[i], pt.IsPrompt[i])
			} else {
				row = append(row, nil, nil, nil, nil, nil, nil, nil, nil, nil)
			}
			return row
		})
	})
}

// Count returns the number of rows in a table.
func (d *DB) Count(name string) (int, error) {
	switch name {
	case "runs", "events", "particles":
	default:
		return 0, fmt.Errorf("store: unknown table %q", name)
	}
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM " + name).Scan(&n)
	return n, err
}
