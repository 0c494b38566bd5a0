// Package brest integrates the Brest métropole traffic-regulation feed, a
// zipped shapefile published on data.gouv.fr with Lambert-93 geometries.
package brest

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	shp "github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"

	"github.com/sutter-pierre/dialog-integrations/internal/adapter"
	"github.com/sutter-pierre/dialog-integrations/internal/frame"
	"github.com/sutter-pierre/dialog-integrations/internal/geo"
	"github.com/sutter-pierre/dialog-integrations/internal/model"
)

const (
	datasetURL    = "https://www.data.gouv.fr/api/1/datasets/r/3ca7bd06-6489-45a2-aee9-efc6966121b2"
	shapefileName = "DEP_ARR_CIRC_STAT_L_V.shp"
)

// Adapter is the Brest source adapter. Regulations are published directly
// (no draft) and keyed by the natural NOARR identifier.
type Adapter struct {
	adapter.Base
	httpClient *http.Client
	url        string
}

// New creates the Brest adapter
func New() *Adapter {
	return &Adapter{
		Base:       adapter.NewBase("brest", false, rawDataSchema),
		httpClient: &http.Client{Timeout: 120 * time.Second},
		url:        datasetURL,
	}
}

// FetchRawData downloads the zipped shapefile, extracts it and reads every
// record into a raw frame. Attribute columns come from the DBF; the
// geometry column carries each shape reprojected to WGS84 and encoded as
// GeoJSON.
func (a *Adapter) FetchRawData(ctx context.Context) (*frame.Frame, error) {
	slog.Info("downloading shapefile data", "url", a.url)

	tmpDir, err := os.MkdirTemp("", "brest-")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	zipPath := filepath.Join(tmpDir, "data.zip")
	if err := a.download(ctx, zipPath); err != nil {
		return nil, err
	}
	if err := extractZip(zipPath, tmpDir); err != nil {
		return nil, err
	}

	return readShapefile(filepath.Join(tmpDir, shapefileName))
}

// PreprocessRawData casts the OUI/NON columns to booleans (null becomes
// false) and filters rows without an arrêté number.
func (a *Adapter) PreprocessRawData(f *frame.Frame) (*frame.Frame, error) {
	out := frame.New(f.Columns()...)
	for _, row := range f.Rows() {
		if strings.TrimSpace(row.Str("NOARR")) == "" {
			continue
		}
		clone := make(frame.Row, len(row))
		for k, v := range row {
			clone[k] = v
		}
		clone["VELO"] = castBoolean(row["VELO"])
		clone["CYCLO"] = castBoolean(row["CYCLO"])
		out.Append(clone)
	}
	return out, nil
}

// ComputeCleanData converts validated rows into flat regulation-measure
// records. Rows with an unknown DESCRIPTIF, one-way streets in their
// nominal direction and rows without a start date are dropped.
func (a *Adapter) ComputeCleanData(f *frame.Frame) ([]model.FlatRecord, error) {
	var records []model.FlatRecord
	unknownDescription, missingStartDate := 0, 0

	for _, row := range f.Rows() {
		description := row.Str("DESCRIPTIF")
		cfg, ok := descriptionConfig[description]
		if !ok {
			unknownDescription++
			continue
		}
		if description == oneWayDescription && row.Int("SENS") == 1 {
			continue
		}
		if row.IsNull("DT_MAT") {
			missingStartDate++
			continue
		}

		records = append(records, model.FlatRecord{
			RegulationIdentifier:        row.Str("NOARR"),
			RegulationStatus:            a.Status(),
			RegulationCategory:          model.CategoryPermanentRegulation,
			RegulationSubject:           model.SubjectOther,
			RegulationTitle:             description + " – " + row.Str("LIBRU"),
			RegulationOtherCategoryText: "Circulation",
			MeasureType:                 string(cfg.measureType),
			MeasureMaxSpeed:             int(row.Int("VITEMAX")),
			Period: model.Period{
				StartDate:      row.Time("DT_MAT").UTC().Format("2006-01-02T15:04:05Z"),
				RecurrenceType: model.RecurrenceEveryDay,
				IsPermanent:    true,
			},
			Location: model.Location{
				RoadType: model.RoadTypeRawGeoJSON,
				Label:    row.Str("LIBCO") + " – " + row.Str("LIBRU"),
				Geometry: row.Str("geometry"),
			},
			VehicleSet: buildVehicleSet(row, cfg),
		})
	}

	if unknownDescription > 0 {
		slog.Info("dropping rows with unconfigured DESCRIPTIF", "rows", unknownDescription)
	}
	if missingStartDate > 0 {
		slog.Warn("dropping rows with null DT_MAT", "rows", missingStartDate)
	}

	return records, nil
}

// buildVehicleSet assembles the vehicle restrictions of one row: declared
// dimension limits, configured or column-derived exemptions, and the
// heavy-goods restriction implied by a weight limit.
func buildVehicleSet(row frame.Row, cfg measureConfig) model.VehicleSet {
	set := model.VehicleSet{
		HeavyweightMaxWeight: row.Float("POIDS"),
		MaxHeight:            row.Float("HAUTEUR"),
		MaxWidth:             row.Float("LARGEUR"),
		ExemptedTypes:        cfg.exemptedTypes,
		RestrictedTypes:      cfg.restrictedTypes,
	}

	if set.ExemptedTypes == nil {
		if row.Bool("CYCLO") {
			set.ExemptedTypes = append(set.ExemptedTypes, "other")
		}
		if row.Bool("VELO") {
			set.ExemptedTypes = append(set.ExemptedTypes, "bicycle")
		}
	}

	if len(set.ExemptedTypes) > 0 {
		set.OtherExemptedTypeText = "autres véhicules autorisés"
		for _, exempted := range set.ExemptedTypes {
			if exempted == "other" {
				set.OtherExemptedTypeText = "cyclomoteur"
				break
			}
		}
	}

	if set.HeavyweightMaxWeight > 0 {
		set.RestrictedTypes = []string{"heavyGoodsVehicle"}
	}

	set.AllVehicles = len(set.RestrictedTypes) == 0
	return set
}

func castBoolean(v any) bool {
	s, _ := v.(string)
	return strings.EqualFold(strings.TrimSpace(s), "OUI")
}

func (a *Adapter) download(ctx context.Context, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("download zip: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download zip: unexpected status %d", resp.StatusCode)
	}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create zip file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("write zip file: %w", err)
	}
	return nil
}

// extractZip flattens the archive into dir so the .shp/.dbf/.shx siblings
// stay next to each other.
func extractZip(zipPath, dir string) error {
	archive, err := zip.OpenReader(zipPath)
	if err != nil {
		return fmt.Errorf("open zip: %w", err)
	}
	defer archive.Close()

	for _, file := range archive.File {
		if file.FileInfo().IsDir() {
			continue
		}
		src, err := file.Open()
		if err != nil {
			return fmt.Errorf("open zip entry %s: %w", file.Name, err)
		}
		dest, err := os.Create(filepath.Join(dir, filepath.Base(file.Name)))
		if err != nil {
			src.Close()
			return fmt.Errorf("create extracted file: %w", err)
		}
		_, err = io.Copy(dest, src)
		src.Close()
		dest.Close()
		if err != nil {
			return fmt.Errorf("extract zip entry %s: %w", file.Name, err)
		}
	}
	return nil
}

func readShapefile(path string) (*frame.Frame, error) {
	slog.Info("reading shapefile", "path", path)

	reader, err := shp.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open shapefile: %w", err)
	}
	defer reader.Close()

	fields := reader.Fields()
	columns := make([]string, 0, len(fields)+1)
	for _, field := range fields {
		columns = append(columns, field.String())
	}
	columns = append(columns, "geometry")

	f := frame.New(columns...)
	for reader.Next() {
		index, shape := reader.Shape()

		row := make(frame.Row, len(columns))
		for j, field := range fields {
			row[field.String()] = reader.ReadAttribute(index, j)
		}

		geometry, err := shapeToGeoJSON(shape)
		if err != nil {
			slog.Warn("skipping unsupported geometry", "row", index, "error", err)
			row["geometry"] = nil
		} else {
			row["geometry"] = geometry
		}
		f.Append(row)
	}
	if err := reader.Err(); err != nil {
		return nil, fmt.Errorf("read shapefile: %w", err)
	}
	return f, nil
}

// shapeToGeoJSON reprojects a Lambert-93 shape to WGS84 and encodes it as
// GeoJSON.
func shapeToGeoJSON(shape shp.Shape) (string, error) {
	switch s := shape.(type) {
	case *shp.Point:
		lon, lat := geo.Lambert93ToWGS84(s.X, s.Y)
		return geo.EncodeGeometry(orb.Point{lon, lat})
	case *shp.PolyLine:
		lines := splitParts(s.Points, s.Parts)
		if len(lines) == 1 {
			return geo.EncodeGeometry(lines[0])
		}
		return geo.EncodeGeometry(orb.MultiLineString(lines))
	default:
		return "", fmt.Errorf("unsupported shape type %T", shape)
	}
}

func splitParts(points []shp.Point, parts []int32) []orb.LineString {
	if len(parts) == 0 {
		parts = []int32{0}
	}
	lines := make([]orb.LineString, 0, len(parts))
	for i, start := range parts {
		end := len(points)
		if i+1 < len(parts) {
			end = int(parts[i+1])
		}
		segment := make([]orb.Point, 0, end-int(start))
		for _, p := range points[start:end] {
			segment = append(segment, orb.Point{p.X, p.Y})
		}
		lines = append(lines, geo.ProjectLineString(segment))
	}
	return lines
}
