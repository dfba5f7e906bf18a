package cli

import (
	"testing"

	"github.com/alexanderramin/opsboard/internal/domain"
	"github.com/alexanderramin/opsboard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFieldValue(t *testing.T) {
	march2 := testutil.Date("2026-03-02")

	tests := []struct {
		name  string
		field domain.Field
		raw   string
		want  any
	}{
		{"title trimmed", domain.FieldTitle, "  Payroll ", "Payroll"},
		{"date", domain.FieldStartDate, "2026-03-02", &march2},
		{"blank date clears", domain.FieldEndDate, " ", nil},
		{"status spelling", domain.FieldStatus, "In Progress", domain.StatusInProgress},
		{"owner with name", domain.FieldOwner, "u1:Dana Scully", domain.Owner{ID: "u1", Name: "Dana Scully"}},
		{"owner id only", domain.FieldOwner, "u1", domain.Owner{ID: "u1"}},
		{"progress with percent", domain.FieldProgress, "40%", 40.0},
		{"tags", domain.FieldTags, "web, ops,,web", []string{"ops", "web"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseFieldValue(tc.field, tc.raw)
			require.NoError(t, err)
			if tc.field == domain.FieldEndDate {
				assert.Nil(t, got)
				return
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseFieldValue_Rejects(t *testing.T) {
	_, err := parseFieldValue(domain.FieldTitle, "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidField)

	_, err = parseFieldValue(domain.FieldStartDate, "next week")
	assert.ErrorIs(t, err, domain.ErrInvalidDate)

	_, err = parseFieldValue(domain.FieldStatus, "archived")
	assert.ErrorIs(t, err, domain.ErrInvalidField)

	_, err = parseFieldValue(domain.FieldProgress, "lots")
	assert.ErrorIs(t, err, domain.ErrInvalidField)

	_, err = parseFieldValue(domain.FieldProgress, "-1")
	assert.ErrorIs(t, err, domain.ErrInvalidProgress)

	for _, raw := range []string{"NaN", "nan%", "Inf", "-Inf"} {
		_, err = parseFieldValue(domain.FieldProgress, raw)
		assert.ErrorIs(t, err, domain.ErrInvalidProgress, raw)
	}

	_, err = parseFieldValue(domain.FieldSubItems, "x")
	assert.ErrorIs(t, err, domain.ErrInvalidField)
}

func TestFormatFieldValue_RoundTrips(t *testing.T) {
	e := testutil.NewTestEntity("Payroll",
		testutil.WithDates("2026-03-02", ""),
		testutil.WithOwner("u1", "Dana"),
		testutil.WithProgress(12.5),
		testutil.WithTags("web", "ops"),
	)

	for _, f := range editableFields {
		raw := formatFieldValue(e, f)
		v, err := parseFieldValue(f, raw)
		if f == domain.FieldEndDate {
			require.NoError(t, err)
			assert.Nil(t, v)
			continue
		}
		require.NoError(t, err, "field %s value %q", f, raw)
		restored := e.Clone()
		require.NoError(t, restored.Set(f, v))
		assert.Equal(t, e, restored, "field %s", f)
	}
}

func TestMatchEntity(t *testing.T) {
	a := testutil.NewTestEntity("Payroll", testutil.WithID("ab12-0001"))
	b := testutil.NewTestEntity("Audit", testutil.WithID("ab12-0002"))
	c := testutil.NewTestEntity("payroll", testutil.WithID("cd34-0001"))
	all := []*domain.Entity{a, b, c}

	id, err := matchEntity(all, "ab12-0002")
	require.NoError(t, err)
	assert.Equal(t, b.ID, id)

	id, err = matchEntity(all, "cd")
	require.NoError(t, err)
	assert.Equal(t, c.ID, id)

	id, err = matchEntity(all, "AUDIT")
	require.NoError(t, err)
	assert.Equal(t, b.ID, id)

	_, err = matchEntity(all, "ab12")
	assert.ErrorContains(t, err, "ambiguous (2 matches)")

	_, err = matchEntity(all, "payroll")
	assert.ErrorContains(t, err, "ambiguous")

	_, err = matchEntity(all, "zz")
	assert.ErrorContains(t, err, "entity not found")
}
