package boundaries

import (
	"archive/zip"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonas-p/go-shp"
)

const (
	codeField = "UNIT_CODE"
	nameField = "UNIT_NAME"
)

// ErrNoShapefile is returned when an archive holds no .shp file
var ErrNoShapefile = errors.New("no .shp file in archive")

// NeedsProvisioning reports whether the boundary table is missing
func NeedsProvisioning(db *sql.DB) (bool, error) {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking for %s table: %w", table, err)
	}
	return count == 0, nil
}

// Provision loads park boundaries into db from source, which is a .shp file,
// a .zip holding one, or an http(s) URL to such a zip. It does nothing when
// the table already exists.
func Provision(ctx context.Context, db *sql.DB, source string) error {
	needed, err := NeedsProvisioning(db)
	if err != nil {
		return err
	}
	if !needed {
		return nil
	}

	slog.Info("park boundaries table not found, provisioning", "source", source)

	workDir, err := os.MkdirTemp("", "park-boundaries")
	if err != nil {
		return fmt.Errorf("creating work directory: %w", err)
	}
	defer os.RemoveAll(workDir)

	shapefilePath := source
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		zipPath := filepath.Join(workDir, "boundaries.zip")
		slog.Info("downloading park boundaries", "url", source)
		if err := downloadFile(ctx, zipPath, source); err != nil {
			return fmt.Errorf("downloading shapefile: %w", err)
		}
		source = zipPath
	}
	if strings.EqualFold(filepath.Ext(source), ".zip") {
		if shapefilePath, err = unzipShapefile(source, workDir); err != nil {
			return fmt.Errorf("extracting shapefile: %w", err)
		}
	}

	count, err := buildTable(ctx, db, shapefilePath)
	if err != nil {
		return fmt.Errorf("building boundaries: %w", err)
	}

	slog.Info("provisioned park boundaries", "parks", count)
	return nil
}

func downloadFile(ctx context.Context, path, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status: %s", resp.Status)
	}

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, resp.Body)
	return err
}

// unzipShapefile extracts src into dest and returns the path of the first .shp
func unzipShapefile(src, dest string) (string, error) {
	r, err := zip.OpenReader(src)
	if err != nil {
		return "", err
	}
	defer r.Close()

	shapefile := ""
	for _, f := range r.File {
		fpath := filepath.Join(dest, f.Name)

		// ZipSlip
		if !strings.HasPrefix(fpath, filepath.Clean(dest)+string(os.PathSeparator)) {
			return "", fmt.Errorf("illegal file path: %s", fpath)
		}

		if f.FileInfo().IsDir() {
			os.MkdirAll(fpath, os.ModePerm)
			continue
		}
		if err := os.MkdirAll(filepath.Dir(fpath), os.ModePerm); err != nil {
			return "", err
		}
		if err := extractFile(f, fpath); err != nil {
			return "", err
		}

		if shapefile == "" && strings.EqualFold(filepath.Ext(fpath), ".shp") {
			shapefile = fpath
		}
	}

	if shapefile == "" {
		return "", ErrNoShapefile
	}
	return shapefile, nil
}

func extractFile(f *zip.File, path string) error {
	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode())
	if err != nil {
		return err
	}
	defer out.Close()

	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	_, err = io.Copy(out, rc)
	return err
}

// fieldIndex finds an attribute column by name
func fieldIndex(fields []shp.Field, name string) (int, error) {
	for i, f := range fields {
		if strings.EqualFold(strings.TrimRight(string(f.Name[:]), "\x00"), name) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("shapefile has no %s field", name)
}

// attribute cleans a .dbf value; writers pad fixed-width fields with spaces or NULs
func attribute(v string) string {
	return strings.TrimSpace(strings.Trim(v, "\x00"))
}

// largestRing returns the part of polygon with the most points as [lon, lat] pairs
func largestRing(polygon *shp.Polygon) [][]float64 {
	partEnd := func(i int) int {
		if i+1 < len(polygon.Parts) {
			return int(polygon.Parts[i+1])
		}
		return len(polygon.Points)
	}

	largest, largestSize := 0, -1
	for i := range polygon.Parts {
		if size := partEnd(i) - int(polygon.Parts[i]); size > largestSize {
			largest, largestSize = i, size
		}
	}
	if largestSize <= 0 {
		return nil
	}

	coords := make([][]float64, 0, largestSize)
	for i := int(polygon.Parts[largest]); i < partEnd(largest); i++ {
		p := polygon.Points[i]
		coords = append(coords, []float64{p.X, p.Y})
	}
	return coords
}

func buildTable(ctx context.Context, db *sql.DB, shapefilePath string) (int, error) {
	shape, err := shp.Open(shapefilePath)
	if err != nil {
		return 0, fmt.Errorf("opening shapefile: %w", err)
	}
	defer shape.Close()

	fields := shape.Fields()
	codeIdx, err := fieldIndex(fields, codeField)
	if err != nil {
		return 0, err
	}
	nameIdx, err := fieldIndex(fields, nameField)
	if err != nil {
		return 0, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		CREATE TABLE `+table+` (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			park_code TEXT NOT NULL,
			park_name TEXT,
			geometry TEXT NOT NULL,
			bbox_min_lat REAL NOT NULL,
			bbox_max_lat REAL NOT NULL,
			bbox_min_lon REAL NOT NULL,
			bbox_max_lon REAL NOT NULL,
			center_lat REAL NOT NULL,
			center_lon REAL NOT NULL
		);

		CREATE INDEX idx_boundaries_bbox ON `+table+`(
			bbox_min_lat, bbox_max_lat, bbox_min_lon, bbox_max_lon
		);
		CREATE INDEX idx_boundaries_code ON `+table+`(park_code);
		CREATE INDEX idx_boundaries_center ON `+table+`(center_lat, center_lon);
	`)
	if err != nil {
		return 0, fmt.Errorf("creating table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO `+table+` (
			park_code, park_name, geometry,
			bbox_min_lat, bbox_max_lat, bbox_min_lon, bbox_max_lon,
			center_lat, center_lon
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	count := 0
	for shape.Next() {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		n, p := shape.Shape()
		polygon, ok := p.(*shp.Polygon)
		if !ok {
			continue
		}

		code := strings.ToLower(attribute(shape.ReadAttribute(n, codeIdx)))
		name := attribute(shape.ReadAttribute(n, nameIdx))
		if code == "" {
			continue
		}

		ring := largestRing(polygon)
		if len(ring) == 0 {
			continue
		}
		geometryJSON, err := json.Marshal(ring)
		if err != nil {
			slog.Warn("skipping boundary", "park", code, "error", err)
			continue
		}

		bbox := polygon.BBox()
		_, err = stmt.ExecContext(ctx, code, name, string(geometryJSON),
			bbox.MinY, bbox.MaxY, bbox.MinX, bbox.MaxX,
			(bbox.MinY+bbox.MaxY)/2, (bbox.MinX+bbox.MaxX)/2)
		if err != nil {
			return 0, fmt.Errorf("inserting boundary %s: %w", code, err)
		}

		count++
		if count%100 == 0 {
			slog.Debug("processed boundaries", "count", count)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing boundaries: %w", err)
	}
	return count, nil
}
