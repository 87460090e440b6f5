package archive

// SchemaSQL contains the archive schema initialization SQL.
const SchemaSQL = `
    DEFINE TABLE IF NOT EXISTS archived_episode SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS episode_id ON archived_episode TYPE string;
    DEFINE FIELD IF NOT EXISTS goal ON archived_episode TYPE string;
    DEFINE FIELD IF NOT EXISTS metadata ON archived_episode TYPE option<object> FLEXIBLE;
    DEFINE FIELD IF NOT EXISTS transitions ON archived_episode TYPE array<object> FLEXIBLE;
    REMOVE FIELD IF EXISTS transitions.* ON archived_episode;
    DEFINE FIELD transitions.* ON archived_episode TYPE object FLEXIBLE;
    DEFINE FIELD IF NOT EXISTS total_reward ON archived_episode TYPE float;
    DEFINE FIELD IF NOT EXISTS status ON archived_episode TYPE string;
    DEFINE FIELD IF NOT EXISTS success ON archived_episode TYPE option<bool>;
    DEFINE FIELD IF NOT EXISTS summary ON archived_episode TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS start_time ON archived_episode TYPE datetime;
    DEFINE FIELD IF NOT EXISTS end_time ON archived_episode TYPE option<datetime>;
    DEFINE FIELD IF NOT EXISTS duration_seconds ON archived_episode TYPE float DEFAULT 0;
    DEFINE FIELD IF NOT EXISTS archived_at ON archived_episode TYPE datetime DEFAULT time::now();

    DEFINE INDEX IF NOT EXISTS archived_episode_id ON archived_episode FIELDS episode_id UNIQUE;
    DEFINE INDEX IF NOT EXISTS archived_episode_archived_at ON archived_episode FIELDS archived_at;
`
