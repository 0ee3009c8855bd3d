package mysql

const insertCacheSQL = `
INSERT INTO asset_caches (name)
VALUES (?)
ON DUPLICATE KEY UPDATE created_at = CURRENT_TIMESTAMP
`

// Entries go in through the batch prefix plus one "(?,?,?,?,?)" group per row.
const insertEntriesPrefix = "INSERT INTO asset_entries\n  (cache_name, path, status, content_type, body)\nVALUES "

const deleteEntriesSQL = `DELETE FROM asset_entries WHERE cache_name = ?`

// Cascades to asset_entries.
const deleteCacheSQL = `DELETE FROM asset_caches WHERE name = ?`

const lookupEntrySQL = `
SELECT e.path, e.status, e.content_type, e.body
FROM asset_entries e
WHERE e.cache_name = ? AND e.path = ?
`

const listCachesSQL = `SELECT name FROM asset_caches ORDER BY name`
