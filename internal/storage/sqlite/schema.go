// Package sqlite provides SQLite implementations of the storage interfaces.
// It is the default backend: zero external services, single file on disk.
package sqlite

// Schema contains the SQL statements to create the database schema.
//
// Profiles and behavior profiles are stored as JSON documents keyed by user
// ID. The engine always loads the whole aggregate, recomputes every derived
// view in memory, and writes the whole aggregate back, so a document column
// is the natural shape and avoids a wide relational mapping that nothing
// would query partially.
const Schema = `
-- Emotional profiles: one JSON document per user.
CREATE TABLE IF NOT EXISTS profiles (
    user_id    TEXT PRIMARY KEY,
    document   TEXT NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

-- Behavior profiles: one JSON document per user.
CREATE TABLE IF NOT EXISTS behavior_profiles (
    user_id    TEXT PRIMARY KEY,
    document   TEXT NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

-- Stability snapshots: appended on every profile update, read back by the
-- stability-drop alert rule as its historical reference.
CREATE TABLE IF NOT EXISTS stability_history (
    user_id     TEXT NOT NULL,
    value       REAL NOT NULL,
    recorded_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_stability_user_time
    ON stability_history(user_id, recorded_at);

-- Social interactions: append-only event log.
CREATE TABLE IF NOT EXISTS interactions (
    id               TEXT PRIMARY KEY,
    user_id          TEXT NOT NULL,
    interaction_type TEXT NOT NULL,
    target_user_id   TEXT,
    sentiment        TEXT NOT NULL,
    intensity        REAL NOT NULL,
    context          TEXT,
    timestamp        TIMESTAMP NOT NULL,
    metadata         TEXT
);

CREATE INDEX IF NOT EXISTS idx_interactions_user_time
    ON interactions(user_id, timestamp);

-- Alerts raised by rule evaluation.
CREATE TABLE IF NOT EXISTS alerts (
    id          TEXT PRIMARY KEY,
    user_id     TEXT NOT NULL,
    rule_id     TEXT NOT NULL,
    level       TEXT NOT NULL,
    message     TEXT NOT NULL,
    details     TEXT,
    status      TEXT NOT NULL DEFAULT 'active',
    created_at  TIMESTAMP NOT NULL,
    resolved_at TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_alerts_user_created
    ON alerts(user_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_alerts_status ON alerts(status);
`
