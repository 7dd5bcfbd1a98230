package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Settings table - stores application settings as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		// Profiles table - stores named calibration profiles. At most
		// one profile is active at a time.
		`CREATE TABLE IF NOT EXISTS profiles (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			cursor_mode TEXT NOT NULL DEFAULT 'absolute' CHECK(cursor_mode IN ('absolute', 'relative')),
			mirror_x INTEGER NOT NULL DEFAULT 1,
			base_sensitivity REAL NOT NULL DEFAULT 1.4,
			in_ratio REAL NOT NULL DEFAULT 0.35,
			out_ratio REAL NOT NULL DEFAULT 0.55,
			baseline_floor_cm REAL NOT NULL DEFAULT 3.0,
			smooth_alpha REAL NOT NULL DEFAULT 0.4,
			active INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_profiles_active ON profiles(active)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
