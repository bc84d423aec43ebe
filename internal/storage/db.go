package storage

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"tecex/internal"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
  id TEXT PRIMARY KEY,
  articleCount INTEGER NOT NULL,
  attributeCount INTEGER NOT NULL,
  referenceCount INTEGER NOT NULL,
  vehicleCount INTEGER NOT NULL,
  matchedCount INTEGER NOT NULL,
  unmatchedCount INTEGER NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS articles (
  runId TEXT NOT NULL,
  articleId INTEGER NOT NULL,
  supplierId INTEGER NOT NULL,
  mfrId TEXT,
  brandName TEXT,
  articleNumber TEXT,
  articleName TEXT,
  genericArticleId TEXT,
  genericArticleDescription TEXT,
  categoryPath TEXT,
  categoryNodeIds TEXT,
  imageUrls TEXT,
  pdfUrls TEXT,
  isAccessory TEXT,
  articleStatusId TEXT,
  articleStatusDescription TEXT,
  quantityPerPackage TEXT,
  PRIMARY KEY (runId, articleId),
  FOREIGN KEY(runId) REFERENCES runs(id)
);

CREATE TABLE IF NOT EXISTS attributes (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  runId TEXT NOT NULL,
  articleId INTEGER NOT NULL,
  criteriaId TEXT,
  criteriaDescription TEXT,
  criteriaAbbr TEXT,
  valueRaw TEXT,
  valueFormatted TEXT,
  unit TEXT,
  immediateDisplay TEXT,
  isInterval TEXT,
  FOREIGN KEY(runId) REFERENCES runs(id)
);
CREATE INDEX IF NOT EXISTS idx_attributes_article ON attributes(runId, articleId);

CREATE TABLE IF NOT EXISTS refs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  runId TEXT NOT NULL,
  parentId INTEGER NOT NULL,
  refType TEXT NOT NULL,
  number TEXT NOT NULL,
  sourceName TEXT,
  FOREIGN KEY(runId) REFERENCES runs(id)
);
CREATE INDEX IF NOT EXISTS idx_refs_parent ON refs(runId, parentId);

CREATE TABLE IF NOT EXISTS vehicles (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  runId TEXT NOT NULL,
  parentId INTEGER NOT NULL,
  mfrName TEXT,
  modelSeries TEXT,
  typeName TEXT,
  yearFrom TEXT,
  yearTo TEXT,
  displacementCc TEXT,
  powerHp TEXT,
  fuelType TEXT,
  bodyStyle TEXT,
  driveType TEXT,
  kbaNumbers TEXT,
  engineCode TEXT,
  otherRestrictions TEXT,
  FOREIGN KEY(runId) REFERENCES runs(id)
);
CREATE INDEX IF NOT EXISTS idx_vehicles_parent ON vehicles(runId, parentId);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

// SaveRun persists one complete export run atomically. Row order inside
// each table follows input order, so reading back preserves it via the
// autoincrement id.
func (d *DB) SaveRun(summary internal.RunSummary, articles []internal.ArticleRow, attributes []internal.AttributeRow, refs []internal.Reference, vehicles []internal.VehicleRow) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
INSERT INTO runs (id, articleCount, attributeCount, referenceCount, vehicleCount, matchedCount, unmatchedCount)
VALUES (?, ?, ?, ?, ?, ?, ?)
`, summary.RunID, summary.Articles, summary.Attributes, summary.References, summary.Vehicles, summary.Matched, summary.Unmatched); err != nil {
		return err
	}

	articleStmt, err := tx.Prepare(`
INSERT INTO articles (
  runId, articleId, supplierId, mfrId, brandName, articleNumber, articleName,
  genericArticleId, genericArticleDescription, categoryPath, categoryNodeIds,
  imageUrls, pdfUrls, isAccessory, articleStatusId, articleStatusDescription, quantityPerPackage
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`)
	if err != nil {
		return err
	}
	defer articleStmt.Close()

	for _, a := range articles {
		if _, err := articleStmt.Exec(
			summary.RunID, a.ArticleID, a.SupplierID, a.MfrID, a.BrandName, a.ArticleNumber, a.ArticleName,
			a.GenericArticleID, a.GenericArticleDescription, a.CategoryPath, a.CategoryNodeIDs,
			a.ImageURLs, a.PDFURLs, a.IsAccessory, a.ArticleStatusID, a.ArticleStatusDescription, a.QuantityPerPackage,
		); err != nil {
			return err
		}
	}

	attrStmt, err := tx.Prepare(`
INSERT INTO attributes (
  runId, articleId, criteriaId, criteriaDescription, criteriaAbbr,
  valueRaw, valueFormatted, unit, immediateDisplay, isInterval
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`)
	if err != nil {
		return err
	}
	defer attrStmt.Close()

	for _, a := range attributes {
		if _, err := attrStmt.Exec(
			summary.RunID, a.ArticleID, a.CriteriaID, a.CriteriaDescription, a.CriteriaAbbr,
			a.ValueRaw, a.ValueFormatted, a.Unit, a.ImmediateDisplay, a.IsInterval,
		); err != nil {
			return err
		}
	}

	refStmt, err := tx.Prepare(`
INSERT INTO refs (runId, parentId, refType, number, sourceName) VALUES (?, ?, ?, ?, ?)
`)
	if err != nil {
		return err
	}
	defer refStmt.Close()

	for _, r := range refs {
		if _, err := refStmt.Exec(summary.RunID, r.ParentID, string(r.Type), r.Number, r.SourceName); err != nil {
			return err
		}
	}

	vehicleStmt, err := tx.Prepare(`
INSERT INTO vehicles (
  runId, parentId, mfrName, modelSeries, typeName, yearFrom, yearTo,
  displacementCc, powerHp, fuelType, bodyStyle, driveType, kbaNumbers, engineCode, otherRestrictions
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`)
	if err != nil {
		return err
	}
	defer vehicleStmt.Close()

	for _, v := range vehicles {
		if _, err := vehicleStmt.Exec(
			summary.RunID, v.ParentID, v.MfrName, v.ModelSeries, v.TypeName, v.YearFrom, v.YearTo,
			v.DisplacementCC, v.PowerHP, v.FuelType, v.BodyStyle, v.DriveType, v.KBANumbers, v.EngineCode, v.OtherRestrictions,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (d *DB) GetRun(runID string) (*internal.RunSummary, error) {
	var s internal.RunSummary
	err := d.conn.QueryRow(`
SELECT id, articleCount, attributeCount, referenceCount, vehicleCount, matchedCount, unmatchedCount
FROM runs WHERE id = ?
`, runID).Scan(&s.RunID, &s.Articles, &s.Attributes, &s.References, &s.Vehicles, &s.Matched, &s.Unmatched)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// LatestRunID reports the most recently created run, or "" when the
// database holds none.
func (d *DB) LatestRunID() (string, error) {
	var id string
	err := d.conn.QueryRow(`SELECT id FROM runs ORDER BY createdAt DESC, rowid DESC LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

func (d *DB) ListArticles(runID string) ([]internal.ArticleRow, error) {
	rows, err := d.conn.Query(`
SELECT articleId, supplierId, mfrId, brandName, articleNumber, articleName,
       genericArticleId, genericArticleDescription, categoryPath, categoryNodeIds,
       imageUrls, pdfUrls, isAccessory, articleStatusId, articleStatusDescription, quantityPerPackage
FROM articles WHERE runId = ? ORDER BY rowid ASC
`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.ArticleRow
	for rows.Next() {
		var a internal.ArticleRow
		if err := rows.Scan(
			&a.ArticleID, &a.SupplierID, &a.MfrID, &a.BrandName, &a.ArticleNumber, &a.ArticleName,
			&a.GenericArticleID, &a.GenericArticleDescription, &a.CategoryPath, &a.CategoryNodeIDs,
			&a.ImageURLs, &a.PDFURLs, &a.IsAccessory, &a.ArticleStatusID, &a.ArticleStatusDescription, &a.QuantityPerPackage,
		); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (d *DB) ListAttributes(runID string) ([]internal.AttributeRow, error) {
	rows, err := d.conn.Query(`
SELECT articleId, criteriaId, criteriaDescription, criteriaAbbr,
       valueRaw, valueFormatted, unit, immediateDisplay, isInterval
FROM attributes WHERE runId = ? ORDER BY id ASC
`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.AttributeRow
	for rows.Next() {
		var a internal.AttributeRow
		if err := rows.Scan(
			&a.ArticleID, &a.CriteriaID, &a.CriteriaDescription, &a.CriteriaAbbr,
			&a.ValueRaw, &a.ValueFormatted, &a.Unit, &a.ImmediateDisplay, &a.IsInterval,
		); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (d *DB) ListReferences(runID string) ([]internal.Reference, error) {
	rows, err := d.conn.Query(`
SELECT parentId, refType, number, sourceName FROM refs WHERE runId = ? ORDER BY id ASC
`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.Reference
	for rows.Next() {
		var r internal.Reference
		var refType string
		if err := rows.Scan(&r.ParentID, &refType, &r.Number, &r.SourceName); err != nil {
			return nil, err
		}
		r.Type = internal.RefType(refType)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (d *DB) ListVehicles(runID string) ([]internal.VehicleRow, error) {
	rows, err := d.conn.Query(`
SELECT parentId, mfrName, modelSeries, typeName, yearFrom, yearTo,
       displacementCc, powerHp, fuelType, bodyStyle, driveType, kbaNumbers, engineCode, otherRestrictions
FROM vehicles WHERE runId = ? ORDER BY id ASC
`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.VehicleRow
	for rows.Next() {
		var v internal.VehicleRow
		if err := rows.Scan(
			&v.ParentID, &v.MfrName, &v.ModelSeries, &v.TypeName, &v.YearFrom, &v.YearTo,
			&v.DisplacementCC, &v.PowerHP, &v.FuelType, &v.BodyStyle, &v.DriveType, &v.KBANumbers, &v.EngineCode, &v.OtherRestrictions,
		); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}
