// internal/common/database/schema.go
package database

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS profiles (
		id                       TEXT PRIMARY KEY,
		user_id                  TEXT NOT NULL,
		renter_type              TEXT NOT NULL DEFAULT 'worker',
		monthly_income           INTEGER NOT NULL DEFAULT 0,
		documents_json           JSONB NOT NULL DEFAULT '[]',
		is_bursary_student       BOOLEAN NOT NULL DEFAULT FALSE,
		guarantor_monthly_income INTEGER NOT NULL DEFAULT 0,
		stated_budget            INTEGER NOT NULL DEFAULT 0,
		updated_at               TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_profiles_user_id ON profiles (user_id)`,
	`CREATE TABLE IF NOT EXISTS evaluations (
		id           UUID PRIMARY KEY,
		user_id      TEXT NOT NULL,
		profile_id   TEXT,
		listing_name TEXT NOT NULL,
		listing_json JSONB NOT NULL,
		score        INTEGER NOT NULL,
		verdict      TEXT NOT NULL,
		confidence   TEXT NOT NULL,
		reasons_json JSONB NOT NULL DEFAULT '[]',
		actions_json JSONB NOT NULL DEFAULT '[]',
		created_at   TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_evaluations_user_created ON evaluations (user_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS audit_log (
		id            BIGSERIAL PRIMARY KEY,
		event_type    TEXT NOT NULL,
		resource_type TEXT NOT NULL,
		resource_id   TEXT NOT NULL,
		details       JSONB,
		created_at    TIMESTAMPTZ NOT NULL
	)`,
}
