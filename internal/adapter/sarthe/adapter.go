// Package sarthe integrates the Sarthe department speed-limitation feed,
// a semicolon-separated CSV export with GeoJSON geometries.
package sarthe

import (
	"context"
	"crypto/md5"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sutter-pierre/dialog-integrations/internal/adapter"
	"github.com/sutter-pierre/dialog-integrations/internal/frame"
	"github.com/sutter-pierre/dialog-integrations/internal/model"
)

const dataURL = "https://data.sarthe.fr" +
	"/api/explore/v2.1/catalog/datasets/227200029_limitations-vitesse/exports/csv" +
	"?lang=fr&timezone=Europe%2FBerlin&use_labels=true&delimiter=%3B"

// maxSpeed bounds plausible speed limits; rows outside (0, maxSpeed] are
// dropped.
const maxSpeed = 130

// Adapter is the Sarthe source adapter. Regulations are built in draft
// status; identifiers are always derived (MD5 fallback), never natural.
type Adapter struct {
	adapter.Base
	httpClient *http.Client
	url        string
}

// New creates the Sarthe adapter
func New() *Adapter {
	return &Adapter{
		Base:       adapter.NewBase("sarthe", true, rawDataSchema),
		httpClient: &http.Client{Timeout: 60 * time.Second},
		url:        dataURL,
	}
}

// FetchRawData downloads the CSV export and parses it into a raw frame
func (a *Adapter) FetchRawData(ctx context.Context) (*frame.Frame, error) {
	slog.Info("downloading data", "url", a.url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download csv: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download csv: unexpected status %d", resp.StatusCode)
	}

	reader := csv.NewReader(resp.Body)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	f := frame.New(header...)
	malformed := 0
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			malformed++
			continue
		}
		row := make(frame.Row, len(header))
		for i, name := range header {
			if i < len(fields) {
				row[name] = fields[i]
			}
		}
		f.Append(row)
	}
	if malformed > 0 {
		slog.Warn("skipping malformed csv rows", "rows", malformed)
	}
	return f, nil
}

// ComputeCleanData converts validated rows into flat regulation-measure
// records: one speed-limitation measure per row, with a deterministic
// fallback identifier. Rows with an invalid speed or no geometry are
// dropped; rows sharing a fallback identifier are dropped wholesale.
func (a *Adapter) ComputeCleanData(f *frame.Frame) ([]model.FlatRecord, error) {
	type candidate struct {
		id     string
		record model.FlatRecord
	}

	var candidates []candidate
	counts := make(map[string]int)
	invalidSpeed, missingGeometry := 0, 0

	for _, row := range f.Rows() {
		speed := row.Int("VITESSE")
		if row.IsNull("VITESSE") || speed <= 0 || speed > maxSpeed {
			invalidSpeed++
			continue
		}

		geometry := row.Str("geo_shape")
		if geometry == "" {
			missingGeometry++
			continue
		}

		title := row.Str("infobulle")
		if title == "" {
			title = "Inconnu"
		}

		label := row.Str("loc_txt")
		if label == "" {
			label = title
		}

		id := fallbackIdentifier(row)
		counts[id]++
		candidates = append(candidates, candidate{
			id: id,
			record: model.FlatRecord{
				RegulationIdentifier:        id,
				RegulationStatus:            a.Status(),
				RegulationCategory:          model.CategoryPermanentRegulation,
				RegulationSubject:           model.SubjectOther,
				RegulationTitle:             title,
				RegulationOtherCategoryText: "Limitation de vitesse",
				MeasureType:                 string(model.MeasureSpeedLimitation),
				MeasureMaxSpeed:             int(speed),
				Period: model.Period{
					StartDate:      periodStartDate(row),
					RecurrenceType: model.RecurrenceEveryDay,
					IsPermanent:    true,
				},
				Location: model.Location{
					RoadType: model.RoadTypeRawGeoJSON,
					Label:    label,
					Geometry: geometry,
				},
				VehicleSet: model.VehicleSet{AllVehicles: true},
			},
		})
	}

	if invalidSpeed > 0 {
		slog.Info("removing rows with invalid VITESSE", "rows", invalidSpeed)
	}
	if missingGeometry > 0 {
		slog.Warn("dropping rows with null geo_shape", "rows", missingGeometry)
	}

	// duplicated fallback identifiers are dropped wholesale, never
	// disambiguated
	var records []model.FlatRecord
	duplicates := 0
	for _, c := range candidates {
		if counts[c.id] > 1 {
			duplicates++
			continue
		}
		records = append(records, c.record)
	}
	if duplicates > 0 {
		slog.Warn("dropping rows with duplicated fallback identifiers", "rows", duplicates)
	}

	return records, nil
}

// fallbackIdentifier derives a deterministic 32-character identifier from
// (loc_txt, VITESSE, longueur); the feed carries no natural identifier.
func fallbackIdentifier(row frame.Row) string {
	parts := []string{
		row.Str("loc_txt"),
		strconv.FormatInt(row.Int("VITESSE"), 10),
		strconv.FormatFloat(row.Float("longueur"), 'f', -1, 64),
	}
	sum := md5.Sum([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

// periodStartDate uses annee (January 1st) when present, date_modif as
// fallback.
func periodStartDate(row frame.Row) string {
	if !row.IsNull("annee") {
		return fmt.Sprintf("%d-01-01T00:00:00Z", row.Int("annee"))
	}
	return row.Str("date_modif")
}
