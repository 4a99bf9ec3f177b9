package gpkg

import (
	"bytes"
	"database/sql"
	"encoding/binary"
	"log/slog"
	"math"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	m "limitd.dev/limitd/math"
)

// Writer builds a road GeoPackage: the metadata registry, one feature
// table, and (when the SQLite build allows it) the companion rtree index.
type Writer struct {
	DB       *sql.DB
	HasIndex bool
}

const createMetadata = `
CREATE TABLE gpkg_spatial_ref_sys (
	srs_name TEXT NOT NULL,
	srs_id INTEGER PRIMARY KEY,
	organization TEXT NOT NULL,
	organization_coordsys_id INTEGER NOT NULL,
	definition TEXT NOT NULL,
	description TEXT
);
INSERT INTO gpkg_spatial_ref_sys VALUES
	('Undefined cartesian SRS', -1, 'NONE', -1, 'undefined', NULL),
	('Undefined geographic SRS', 0, 'NONE', 0, 'undefined', NULL),
	('WGS 84', 4326, 'EPSG', 4326, 'GEOGCS["WGS 84",DATUM["WGS_1984"]]', NULL);
CREATE TABLE gpkg_contents (
	table_name TEXT NOT NULL PRIMARY KEY,
	data_type TEXT NOT NULL,
	identifier TEXT UNIQUE,
	description TEXT DEFAULT '',
	last_change DATETIME NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now')),
	min_x DOUBLE, min_y DOUBLE, max_x DOUBLE, max_y DOUBLE,
	srs_id INTEGER
);
CREATE TABLE gpkg_geometry_columns (
	table_name TEXT NOT NULL,
	column_name TEXT NOT NULL,
	geometry_type_name TEXT NOT NULL,
	srs_id INTEGER NOT NULL,
	z TINYINT NOT NULL,
	m TINYINT NOT NULL,
	PRIMARY KEY (table_name, column_name)
);
CREATE TABLE roads (
	fid INTEGER PRIMARY KEY AUTOINCREMENT,
	geom BLOB,
	highway TEXT,
	maxspeed TEXT,
	name TEXT,
	ref TEXT,
	tags TEXT
);
INSERT INTO gpkg_contents (table_name, data_type, identifier, srs_id)
	VALUES ('roads', 'features', 'roads', 4326);
INSERT INTO gpkg_geometry_columns VALUES ('roads', 'geom', 'LINESTRING', 4326, 0, 0);
`

// Create makes a fresh road container at path.
func Create(path string) (*Writer, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "could not create container")
	}

	_, err = db.Exec(createMetadata)
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "could not create container metadata")
	}

	writer := &Writer{DB: db, HasIndex: true}
	_, err = db.Exec(`CREATE VIRTUAL TABLE rtree_roads_geom USING rtree(id, minx, maxx, miny, maxy)`)
	if err != nil {
		// rtree-less SQLite build, readers fall back to a bounded scan
		slog.Warn("could not create spatial index, container will be scanned linearly", "error", err)
		writer.HasIndex = false
	}
	return writer, nil
}

// OpenWriter reopens an existing road container for modification.
func OpenWriter(path string) (*Writer, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "could not open container for writing")
	}

	writer := &Writer{DB: db}
	var name string
	err = db.QueryRow(
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'rtree_roads_geom'`,
	).Scan(&name)
	writer.HasIndex = err == nil
	return writer, nil
}

// AddRoad inserts one road with its geometry and OSM-style tags. Known tags
// go to their columns, everything else lands in the tag blob.
func (w *Writer) AddRoad(line m.Polyline, tags map[string]string) (int64, error) {
	return w.AddRoadBlob(EncodeLineString(line), line.Bounds(), tags)
}

// AddRoadBlob inserts a pre-encoded geometry blob. Tests use it to plant
// corrupt rows.
func (w *Writer) AddRoadBlob(blob []byte, bounds m.Bounds, tags map[string]string) (int64, error) {
	extra := []string{}
	for key, value := range tags {
		switch key {
		case "highway", "maxspeed", "name", "ref":
		default:
			extra = append(extra, key+"="+value)
		}
	}

	result, err := w.DB.Exec(
		`INSERT INTO roads (geom, highway, maxspeed, name, ref, tags) VALUES (?, ?, ?, ?, ?, ?)`,
		blob, tags["highway"], tags["maxspeed"], tags["name"], tags["ref"], strings.Join(extra, ";"))
	if err != nil {
		return 0, errors.Wrap(err, "could not insert road")
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, errors.Wrap(err, "could not read inserted road id")
	}

	if w.HasIndex {
		_, err = w.DB.Exec(
			`INSERT INTO rtree_roads_geom (id, minx, maxx, miny, maxy) VALUES (?, ?, ?, ?, ?)`,
			id, bounds.MinX, bounds.MaxX, bounds.MinY, bounds.MaxY)
		if err != nil {
			return 0, errors.Wrap(err, "could not index road")
		}
	}
	return id, nil
}

// DropIndex removes the spatial index, forcing readers onto the scan path.
func (w *Writer) DropIndex() error {
	_, err := w.DB.Exec(`DROP TABLE IF EXISTS rtree_roads_geom`)
	if err != nil {
		return errors.Wrap(err, "could not drop spatial index")
	}
	w.HasIndex = false
	return nil
}

func (w *Writer) Close() error {
	return w.DB.Close()
}

// EncodeLineString renders a polyline as a GeoPackage geometry blob:
// little-endian header without envelope, WGS 84, plain XY WKB linestring.
func EncodeLineString(line m.Polyline) []byte {
	var buf bytes.Buffer

	buf.WriteByte('G')
	buf.WriteByte('P')
	buf.WriteByte(0)    // version
	buf.WriteByte(0x01) // little endian, no envelope

	le := binary.LittleEndian
	var scratch [8]byte
	le.PutUint32(scratch[:4], uint32(m.SRS_WGS84))
	buf.Write(scratch[:4])

	buf.WriteByte(1) // wkb little endian
	le.PutUint32(scratch[:4], wkbLineString)
	buf.Write(scratch[:4])
	le.PutUint32(scratch[:4], uint32(len(line)))
	buf.Write(scratch[:4])

	for _, coordinate := range line {
		le.PutUint64(scratch[:], math.Float64bits(coordinate.X))
		buf.Write(scratch[:])
		le.PutUint64(scratch[:], math.Float64bits(coordinate.Y))
		buf.Write(scratch[:])
	}
	return buf.Bytes()
}
