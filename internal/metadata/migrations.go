package metadata

// schema is applied in full on startup; all statements are idempotent.
// The uploaded column stores unix nanoseconds so ordering is numeric.
const schema = `
CREATE TABLE IF NOT EXISTS images (
    id       TEXT PRIMARY KEY,
    section  TEXT NOT NULL,
    category TEXT NOT NULL DEFAULT '',
    filename TEXT NOT NULL,
    path     TEXT NOT NULL,
    caption  TEXT NOT NULL DEFAULT '',
    width    INTEGER NOT NULL DEFAULT 0,
    height   INTEGER NOT NULL DEFAULT 0,
    uploaded INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_images_section ON images(section);
CREATE INDEX IF NOT EXISTS idx_images_uploaded ON images(uploaded);
`
