// Package export writes the reconciled contact list as a delimited UTF-8
// file. Column order is fixed by the output contract; absent fields are
// written empty, never as a placeholder token.
package export

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/outreachworks/dirmerge/pkg/errors"
	"github.com/outreachworks/dirmerge/pkg/records"
)

// Columns is the fixed output header.
var Columns = []string{
	"company_name",
	"business_activity",
	"phone",
	"email",
	"source",
	"emirate",
	"activity_code",
	"source_url",
	"last_seen_utc",
	"notes",
}

// listSeparator joins multi-valued source and activity-code cells.
const listSeparator = ","

// Write renders canonical records, in the order given, to w.
func Write(w io.Writer, recs []*records.CanonicalRecord) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(Columns); err != nil {
		return err
	}

	for _, c := range recs {
		row := []string{
			c.CompanyName,
			c.BusinessActivity,
			c.Phone,
			c.Email,
			joinSources(c.Sources),
			c.Emirate,
			joinCodes(c.ActivityCodes),
			c.SourceURL,
			formatTime(c),
			joinNotes(c.Notes),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteFile renders canonical records to a file, creating parent directories
// as needed.
func WriteFile(path string, recs []*records.CanonicalRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.WrapIO("create", filepath.Dir(path), err)
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	defer f.Close()

	if err := Write(f, recs); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return f.Close()
}

func joinSources(s *records.SourceSet) string {
	if s == nil || s.Len() == 0 {
		return ""
	}
	ids := s.List()
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, listSeparator)
}

func joinCodes(s *records.StringSet) string {
	if s == nil {
		return ""
	}
	return s.Join(listSeparator)
}

func joinNotes(s *records.NoteSet) string {
	if s == nil {
		return ""
	}
	return s.Join()
}

func formatTime(c *records.CanonicalRecord) string {
	if c.LastSeen.IsZero() {
		return ""
	}
	return c.LastSeen.Format("2006-01-02T15:04:05Z")
}
