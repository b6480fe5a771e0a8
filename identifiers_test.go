package infraformat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupSurveyAliases(t *testing.T) {
	t.Parallel()

	// Combined names and both sub-names resolve to one shared layout.
	aliasGroups := [][]string{
		{"PA/WST", "PA", "WST"},
		{"SI/FVT", "SI", "FVT"},
		{"CP/CPT", "CP", "CPT"},
		{"CU/CPTU", "CU", "CPTU"},
		{"PS/PMT", "PS", "PMT"},
	}

	for _, group := range aliasGroups {
		canonical, ok := LookupSurvey(group[0])
		require.True(t, ok, "missing survey rule %s", group[0])
		for _, alias := range group[1:] {
			rule, ok := LookupSurvey(alias)
			require.True(t, ok, "missing survey alias %s", alias)
			require.Equal(t, canonical.Rule.Arity(), rule.Rule.Arity())
			for i, field := range canonical.Rule.Fields {
				assert.Equal(t, field, rule.Rule.Fields[i], "%s vs %s field %d", group[0], alias, i)
			}
		}
	}
}

func TestLookupCaseInsensitive(t *testing.T) {
	t.Parallel()

	_, ok := LookupHeader("xy")
	assert.True(t, ok)
	_, ok = LookupInline("hm")
	assert.True(t, ok)
	_, ok = LookupSurvey("pa")
	assert.True(t, ok)
	_, ok = LookupFileHeader("kj")
	assert.True(t, ok)

	_, ok = LookupHeader("NOPE")
	assert.False(t, ok)
}

func TestPhasedSurveyRule(t *testing.T) {
	t.Parallel()

	hp, ok := LookupSurvey("HP")
	require.True(t, ok)
	require.True(t, hp.Phased)

	// The phases differ in the second field only: blow count against
	// static pressure.
	assert.Equal(t, "Blows", hp.H.Fields[1].Name)
	assert.Equal(t, KindInt, hp.H.Fields[1].Kind)
	assert.Equal(t, "Pressure (MN/m^2)", hp.P.Fields[1].Name)
	assert.Equal(t, KindFloat, hp.P.Fields[1].Kind)
	assert.Equal(t, hp.H.Arity(), hp.P.Arity())
}

func TestEveryAbbreviationHasDescription(t *testing.T) {
	t.Parallel()

	// Water level and settlement observation methods have no entry in
	// the published abbreviation list.
	undescribed := map[string]bool{"HV": true, "HU": true, "PM": true}
	for abbreviation := range surveyIdentifiers {
		if undescribed[abbreviation] {
			continue
		}
		_, ok := Abbreviations[abbreviation]
		assert.True(t, ok, "no description for %s", abbreviation)
	}
}

func TestHeaderTagOrderCoversHeaderIdentifiers(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool, len(headerTagOrder))
	for _, tag := range headerTagOrder {
		_, ok := headerIdentifiers[tag]
		assert.True(t, ok, "ordered tag %s has no rule", tag)
		assert.False(t, seen[tag], "tag %s listed twice", tag)
		seen[tag] = true
	}
	for tag := range headerIdentifiers {
		if tag == endingTag {
			continue
		}
		assert.True(t, seen[tag], "rule %s missing from serialization order", tag)
	}
}
