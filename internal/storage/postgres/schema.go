// Package postgres provides PostgreSQL implementations of the storage
// interfaces, plus the pgvector-backed state vector store that the SQLite
// backend does not offer.
package postgres

// Schema contains the SQL statements to create the database schema.
// Profile documents use JSONB; everything else mirrors the SQLite layout.
const Schema = `
CREATE TABLE IF NOT EXISTS profiles (
    user_id    TEXT PRIMARY KEY,
    document   JSONB NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS behavior_profiles (
    user_id    TEXT PRIMARY KEY,
    document   JSONB NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS stability_history (
    user_id     TEXT NOT NULL,
    value       REAL NOT NULL,
    recorded_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_stability_user_time
    ON stability_history(user_id, recorded_at);

CREATE TABLE IF NOT EXISTS interactions (
    id               TEXT PRIMARY KEY,
    user_id          TEXT NOT NULL,
    interaction_type TEXT NOT NULL,
    target_user_id   TEXT,
    sentiment        TEXT NOT NULL,
    intensity        REAL NOT NULL,
    context          TEXT,
    timestamp        TIMESTAMP NOT NULL,
    metadata         JSONB
);

CREATE INDEX IF NOT EXISTS idx_interactions_user_time
    ON interactions(user_id, timestamp);

CREATE TABLE IF NOT EXISTS alerts (
    id          TEXT PRIMARY KEY,
    user_id     TEXT NOT NULL,
    rule_id     TEXT NOT NULL,
    level       TEXT NOT NULL,
    message     TEXT NOT NULL,
    details     JSONB,
    status      TEXT NOT NULL DEFAULT 'active',
    created_at  TIMESTAMP NOT NULL,
    resolved_at TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_alerts_user_created
    ON alerts(user_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_alerts_status ON alerts(status);
`

// SchemaVectors contains the pgvector-dependent part of the schema. It is
// applied separately so a database without the vector extension can still run
// everything except similarity lookups.
//
// Dimension 15 matches the prediction feature vector: 2 time-of-day features,
// 5 recent intensities, 5 personality traits, 3 context scalars.
const SchemaVectors = `
CREATE EXTENSION IF NOT EXISTS vector;

CREATE TABLE IF NOT EXISTS state_vectors (
    user_id    TEXT PRIMARY KEY,
    vec        vector(15) NOT NULL,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`
