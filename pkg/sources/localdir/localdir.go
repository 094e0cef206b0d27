// Package localdir implements the replay collaborator: it reads previously
// captured raw batch files from a directory tree (raw/<source>/*.csv) and
// re-feeds them to the engine in file order. Because canonical records are
// keyed by stable identity, replaying an unchanged batch is an idempotent
// no-op merge, which is how partial-batch failures are recovered.
package localdir

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/agentstation/utc"

	"github.com/outreachworks/dirmerge/pkg/errors"
	"github.com/outreachworks/dirmerge/pkg/logging"
	"github.com/outreachworks/dirmerge/pkg/records"
	"github.com/outreachworks/dirmerge/pkg/sources"
)

// Source replays captured batches for one registry from local CSV files.
type Source struct {
	id  records.SourceID
	dir string
}

// New creates a replay source reading <dir>/*.csv for the given registry.
func New(id records.SourceID, dir string) *Source {
	return &Source{id: id, dir: dir}
}

// ID returns the source tag.
func (s *Source) ID() records.SourceID {
	return s.id
}

// Fetch reads every capture file under the source directory, in lexical file
// order, preserving row order within each file. A missing directory yields
// an empty batch: the validator's zero-result flags surface it, not an error.
func (s *Source) Fetch(ctx context.Context) (*sources.Batch, error) {
	logger := logging.FromContext(ctx)

	paths, err := filepath.Glob(filepath.Join(s.dir, "*.csv"))
	if err != nil {
		return nil, errors.WrapIO("scan", s.dir, err)
	}
	sort.Strings(paths)

	batch := &sources.Batch{Source: s.id}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		recs, err := s.readFile(path)
		if err != nil {
			return nil, err
		}
		logger.Debug().
			Str("source", s.id.String()).
			Str("path", path).
			Int("records", len(recs)).
			Msg("Replayed capture file")
		batch.Records = append(batch.Records, recs...)
	}

	return batch, nil
}

// readFile parses one capture CSV. Column order is header-driven; unknown
// columns are ignored so collaborators can add fields without breaking
// replay.
func (s *Source) readFile(path string) ([]records.RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, &errors.ParseError{Path: path, Message: "reading header", Err: err}
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		// Capture files written on Windows can carry a BOM on the first
		// header cell.
		name = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), "\ufeff")
		cols[name] = i
	}

	var out []records.RawRecord
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, &errors.ParseError{Path: path, Line: line, Message: "reading row", Err: err}
		}

		field := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		rec := records.RawRecord{
			CompanyName:      field("company_name"),
			BusinessActivity: field("business_activity"),
			Phone:            field("phone"),
			Email:            field("email"),
			Source:           s.id,
			Emirate:          field("emirate"),
			ActivityCode:     field("activity_code"),
			SourceURL:        field("source_url"),
			ObservedAt:       s.observedAt(field("observed_at"), field("last_seen_utc")),
		}
		if notes := field("notes"); notes != "" {
			rec.Notes = records.ParseNotes(notes).List()
		}

		out = append(out, rec)
	}

	return out, nil
}

// observedAt parses the capture timestamp, accepting either column name the
// collaborators have used, and falls back to now for files that predate the
// column.
func (s *Source) observedAt(observed, lastSeen string) utc.Time {
	for _, value := range []string{observed, lastSeen} {
		if value == "" {
			continue
		}
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05Z", "2006-01-02"} {
			if t, err := utc.Parse(layout, value); err == nil {
				return t
			}
		}
	}
	return utc.Now()
}
