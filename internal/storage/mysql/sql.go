package mysql

// The identity key is unique; a re-registered identity keeps its guest_id and
// active_since, and only non-empty names replace the stored one.
const upsertGuestSQL = `
INSERT INTO guests
  (guest_id, id_type, id_number, full_name, rating, active_since, latest_activity)
VALUES
  (?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  full_name       = COALESCE(NULLIF(VALUES(full_name), ''), guests.full_name),
  rating          = VALUES(rating),
  active_since    = COALESCE(guests.active_since, VALUES(active_since)),
  latest_activity = COALESCE(VALUES(latest_activity), guests.latest_activity),
  updated_at      = CURRENT_TIMESTAMP
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

// Oldest row first so the first registered profile wins.
const findGuestSQL = `
SELECT guest_id, id_type, id_number, full_name, rating,
       DATE_FORMAT(active_since, '%Y-%m-%d'),
       DATE_FORMAT(latest_activity, '%Y-%m-%d')
FROM guests
WHERE id_type = ? AND id_number = ?
ORDER BY created_at ASC
LIMIT 1
`

const countGuestsSQL = `SELECT COUNT(*) FROM guests`
