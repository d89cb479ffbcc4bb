package employee

import (
	"encoding/csv"
	"fmt"
	"sort"
	"strings"

	employeeerrors "go-timeclock/internal/employee/errors"
)

// ImportTemplate is served to admins as the starting point for bulk imports.
const ImportTemplate = "Agent Name,Company,Teams,Location\n" +
	"John Doe,Company A,Sarah Johnson,Office\n" +
	"Jane Smith,Company B,Sarah Johnson,Hybrid\n" +
	"Bob Wilson,Company C,Mike Davis,WFH\n"

const ImportTemplateFilename = "employee-import-template.csv"

var (
	nameAliases     = []string{"agent name", "agent", "name"}
	companyAliases  = []string{"company"}
	managerAliases  = []string{"teams", "team"}
	locationAliases = []string{"location"}
)

// ImportRow is a data line that passed the per-row checks. Line is 1-based
// over the non-blank lines, with the header as line 1.
type ImportRow struct {
	Line     int
	Name     string
	Company  string
	Manager  string
	Location string
}

type ParsedImport struct {
	Rows     []ImportRow
	Rejected []Rejection
}

type columns struct {
	name, company, manager, location int
}

func (c columns) width() int {
	w := c.name
	for _, idx := range []int{c.company, c.manager, c.location} {
		if idx > w {
			w = idx
		}
	}
	return w + 1
}

func resolveColumns(header []string) columns {
	find := func(aliases []string) int {
		for i, h := range header {
			h = strings.ToLower(strings.TrimSpace(h))
			for _, a := range aliases {
				if h == a {
					return i
				}
			}
		}
		return -1
	}
	return columns{
		name:     find(nameAliases),
		company:  find(companyAliases),
		manager:  find(managerAliases),
		location: find(locationAliases),
	}
}

// SplitFields tokenizes one line. Double quotes wrap fields that contain
// commas; a doubled quote inside them is a literal quote.
func SplitFields(line string) ([]string, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	fields, err := r.Read()
	if err != nil {
		return nil, err
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields, nil
}

// NormalizeImportLocation maps WFH to remote and passes anything else through.
func NormalizeImportLocation(v string) string {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, "wfh") {
		return "remote"
	}
	return v
}

func nonBlankLines(raw string) []string {
	raw = strings.TrimPrefix(raw, "\ufeff")
	var out []string
	for _, l := range strings.Split(raw, "\n") {
		l = strings.TrimRight(l, "\r")
		if strings.TrimSpace(l) == "" {
			continue
		}
		out = append(out, l)
	}
	return out
}

// ParseImport reads the header and validates every data line in isolation.
// Name uniqueness is left to Reconcile since it needs the current roster.
func ParseImport(raw string) (ParsedImport, error) {
	lines := nonBlankLines(raw)
	if len(lines) == 0 {
		return ParsedImport{}, employeeerrors.ErrEmptyImport
	}

	header, err := SplitFields(lines[0])
	if err != nil {
		return ParsedImport{}, employeeerrors.ErrImportSchema
	}
	cols := resolveColumns(header)
	if cols.name < 0 {
		return ParsedImport{}, employeeerrors.ErrImportSchema
	}
	width := cols.width()

	var parsed ParsedImport
	for i, line := range lines[1:] {
		lineNo := i + 2

		fields, err := SplitFields(line)
		if err != nil {
			parsed.Rejected = append(parsed.Rejected, Rejection{Line: lineNo, Reason: "Malformed row"})
			continue
		}
		if len(fields) < width {
			parsed.Rejected = append(parsed.Rejected, Rejection{
				Line:   lineNo,
				Reason: fmt.Sprintf("Expected at least %d columns, found %d", width, len(fields)),
			})
			continue
		}

		name := fields[cols.name]
		if name == "" {
			parsed.Rejected = append(parsed.Rejected, Rejection{Line: lineNo, Reason: "Missing agent name"})
			continue
		}

		row := ImportRow{Line: lineNo, Name: name}
		if cols.company >= 0 {
			row.Company = fields[cols.company]
		}
		if cols.manager >= 0 {
			row.Manager = fields[cols.manager]
		}
		if cols.location >= 0 {
			row.Location = NormalizeImportLocation(fields[cols.location])
		}
		parsed.Rows = append(parsed.Rows, row)
	}
	return parsed, nil
}

// Reconcile drops rows whose folded name is already on the roster or was
// taken by an earlier row of the same file.
func Reconcile(rows []ImportRow, existing map[string]bool) (accepted []ImportRow, rejected []Rejection) {
	seen := make(map[string]int, len(rows))
	for _, row := range rows {
		key := NameKey(row.Name)
		if existing[key] {
			rejected = append(rejected, Rejection{
				Line:   row.Line,
				Reason: fmt.Sprintf("Name %q already exists", row.Name),
			})
			continue
		}
		if first, ok := seen[key]; ok {
			rejected = append(rejected, Rejection{
				Line:   row.Line,
				Reason: fmt.Sprintf("Name %q already exists (line %d)", row.Name, first),
			})
			continue
		}
		seen[key] = row.Line
		accepted = append(accepted, row)
	}
	return accepted, rejected
}

func sortRejections(r []Rejection) {
	sort.SliceStable(r, func(i, j int) bool { return r[i].Line < r[j].Line })
}
