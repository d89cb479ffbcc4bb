package employee

import (
	"testing"

	employeeerrors "go-timeclock/internal/employee/errors"

	"github.com/stretchr/testify/assert"
)

func TestSplitFields(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{"plain", "a,b,c", []string{"a", "b", "c"}},
		{"quoted comma", `"Doe, Jane",Acme`, []string{"Doe, Jane", "Acme"}},
		{"escaped quote", `"say ""hi""",x`, []string{`say "hi"`, "x"}},
		{"spaces trimmed", `  a , "b, c",d `, []string{"a", "b, c", "d"}},
		{"empty fields", ",Office", []string{"", "Office"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SplitFields(tt.line)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseImport_DuplicateWithinFile(t *testing.T) {
	parsed, err := ParseImport("Agent Name,Company,Teams,Location\nA,C1,M1,Office\nA,C2,M2,Hybrid")
	assert.NoError(t, err)
	assert.Len(t, parsed.Rows, 2)
	assert.Empty(t, parsed.Rejected)

	accepted, rejected := Reconcile(parsed.Rows, map[string]bool{})
	assert.Len(t, accepted, 1)
	assert.Equal(t, ImportRow{Line: 2, Name: "A", Company: "C1", Manager: "M1", Location: "Office"}, accepted[0])
	assert.Len(t, rejected, 1)
	assert.Equal(t, 3, rejected[0].Line)
	assert.Contains(t, rejected[0].Reason, `"A"`)
}

func TestParseImport_Errors(t *testing.T) {
	_, err := ParseImport("")
	assert.ErrorIs(t, err, employeeerrors.ErrEmptyImport)

	_, err = ParseImport("\n  \r\n\t\n")
	assert.ErrorIs(t, err, employeeerrors.ErrEmptyImport)

	_, err = ParseImport("Company,Location\nAcme,Office")
	assert.ErrorIs(t, err, employeeerrors.ErrImportSchema)
}

func TestParseImport_RowRejections(t *testing.T) {
	raw := "Company,Agent Name,Location\n" +
		"Acme\n" +
		"Acme,,Office\n" +
		"Acme,Bob,wfh\n"

	parsed, err := ParseImport(raw)
	assert.NoError(t, err)

	assert.Equal(t, []Rejection{
		{Line: 2, Reason: "Expected at least 3 columns, found 1"},
		{Line: 3, Reason: "Missing agent name"},
	}, parsed.Rejected)
	assert.Equal(t, []ImportRow{{Line: 4, Name: "Bob", Company: "Acme", Location: "remote"}}, parsed.Rows)
}

func TestParseImport_LineNumbersSkipBlankLines(t *testing.T) {
	parsed, err := ParseImport("\ufeffAgent Name\r\n\r\nAlice\r\n\r\nBob\r\n")
	assert.NoError(t, err)
	assert.Len(t, parsed.Rows, 2)
	assert.Equal(t, 2, parsed.Rows[0].Line)
	assert.Equal(t, 3, parsed.Rows[1].Line)
}

func TestParseImport_HeaderAliases(t *testing.T) {
	parsed, err := ParseImport("TEAM, Agent ,Extra\nLead,Carol,ignored")
	assert.NoError(t, err)
	assert.Equal(t, []ImportRow{{Line: 2, Name: "Carol", Manager: "Lead"}}, parsed.Rows)
}

func TestNormalizeImportLocation(t *testing.T) {
	assert.Equal(t, "remote", NormalizeImportLocation("WFH"))
	assert.Equal(t, "remote", NormalizeImportLocation(" wFh "))
	assert.Equal(t, "Office", NormalizeImportLocation("Office"))
	assert.Equal(t, "Moon", NormalizeImportLocation("Moon"))
}

func TestReconcile_AgainstRoster(t *testing.T) {
	rows := []ImportRow{
		{Line: 2, Name: "jane smith"},
		{Line: 3, Name: "Bob"},
		{Line: 4, Name: "BOB"},
	}
	accepted, rejected := Reconcile(rows, map[string]bool{NameKey("Jane Smith"): true})

	assert.Equal(t, []ImportRow{{Line: 3, Name: "Bob"}}, accepted)
	assert.Len(t, rejected, 2)
	assert.Equal(t, `Name "jane smith" already exists`, rejected[0].Reason)
	assert.Equal(t, 4, rejected[1].Line)
}

func TestNameKeyAndEmail(t *testing.T) {
	assert.Equal(t, NameKey("jane smith"), NameKey("  Jane SMITH "))

	assert.True(t, ValidEmail("jane@example.com"))
	assert.True(t, ValidEmail("a.b+c@sub.example.co"))
	assert.False(t, ValidEmail("jane@example"))
	assert.False(t, ValidEmail("jane.example.com"))
	assert.False(t, ValidEmail("jane doe@example.com"))
}
