package mysql

const insertInspectionSQL = `
INSERT INTO inspections
  (room_id, inspector, notes, equipment, inventory, damages,
   score, can_checkout, total_charges, blocking_issues, completed_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, COALESCE(?, CURRENT_TIMESTAMP))
`

const upsertInspectionSQL = `
INSERT INTO inspections
  (id, room_id, inspector, notes, equipment, inventory, damages,
   score, can_checkout, total_charges, blocking_issues, completed_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, COALESCE(?, CURRENT_TIMESTAMP))
ON DUPLICATE KEY UPDATE
  room_id         = VALUES(room_id),
  inspector       = VALUES(inspector),
  notes           = VALUES(notes),
  equipment       = VALUES(equipment),
  inventory       = VALUES(inventory),
  damages         = VALUES(damages),
  score           = VALUES(score),
  can_checkout    = VALUES(can_checkout),
  total_charges   = VALUES(total_charges),
  blocking_issues = VALUES(blocking_issues),
  completed_at    = VALUES(completed_at),
  updated_at      = CURRENT_TIMESTAMP
`

const updateResultSQL = `
UPDATE inspections
SET score = ?, can_checkout = ?, total_charges = ?, blocking_issues = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`

const insertPolicyMissSQL = `
INSERT INTO policy_misses (http_status, reason)
VALUES (?, ?)
ON DUPLICATE KEY UPDATE seen_at = CURRENT_TIMESTAMP
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const inspectionColumns = `
  id, room_id, inspector, notes, equipment, inventory, damages,
  score, can_checkout, total_charges, blocking_issues, completed_at`

const getInspectionSQL = `
SELECT` + inspectionColumns + `
FROM inspections
WHERE id = ?
`

// Newest first; backed by the index on (room_id, completed_at, id).
const listRoomInspectionsSQL = `
SELECT` + inspectionColumns + `
FROM inspections
WHERE room_id = ?
ORDER BY completed_at DESC, id DESC
LIMIT ?
`

const listInspectionIDsSQL = `
SELECT id FROM inspections ORDER BY id
`
