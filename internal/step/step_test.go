package step

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allReferences(papers Papers) []Reference {
	var out []Reference
	for _, y := range EnumerateYearTokens() {
		for _, p := range papers {
			for q := MinQuestion; q <= MaxQuestion; q++ {
				out = append(out, Reference{Year: y, Paper: p, Question: q})
			}
		}
	}
	return out
}

func TestEnumerateYearTokens_Order(t *testing.T) {
	ts := EnumerateYearTokens()
	require.Len(t, ts, 32)
	assert.Equal(t, "Spec", ts[0].Code())
	assert.Equal(t, "87", ts[1].Code())
	assert.Equal(t, "99", ts[13].Code())
	assert.Equal(t, "00", ts[14].Code())
	assert.Equal(t, "18", ts[31].Code())

	// копия — порча результата не ломает пакет
	ts[0] = YearToken{code: "xx"}
	assert.Equal(t, Specimen, EnumerateYearTokens()[0])
}

func TestYearToken_Label(t *testing.T) {
	cases := map[string]string{
		"Spec": "Specimen",
		"87":   "1987",
		"99":   "1999",
		"00":   "2000",
		"05":   "2005",
		"18":   "2018",
	}
	for code, want := range cases {
		y, ok := ParseYearToken(code)
		require.True(t, ok, code)
		assert.Equal(t, want, y.Label(), code)
	}
}

func TestParseYearToken_Rejects(t *testing.T) {
	for _, s := range []string{"", "19", "50", "86", "7", "100", "1997", "spe"} {
		_, ok := ParseYearToken(s)
		assert.False(t, ok, s)
	}
	y, ok := ParseYearToken("specimen")
	require.True(t, ok)
	assert.True(t, y.IsSpecimen())
}

func TestFormatLabel(t *testing.T) {
	y97, _ := ParseYearToken("97")
	y05, _ := ParseYearToken("05")

	assert.Equal(t, "STEP 2 1997, Question 1", FormatLabel(Reference{Year: y97, Paper: 2, Question: 1}))
	assert.Equal(t, "STEP 3 2005, Question 16", FormatLabel(Reference{Year: y05, Paper: 3, Question: 16}))
	assert.Equal(t, "STEP 1 Specimen, Question 4", FormatLabel(Reference{Year: Specimen, Paper: 1, Question: 4}))
}

func TestParse_RoundTrip(t *testing.T) {
	for _, ref := range allReferences(AllPapers) {
		got, err := Parse(ref.String())
		require.NoError(t, err, ref.String())
		assert.Equal(t, ref, got)
	}
}

func TestParse_Accepts(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"97-S2-Q1", "97-S2-Q1"},
		{"Spec-S1-Q4", "Spec-S1-Q4"},
		{"spec-s3-q16", "Spec-S3-Q16"},
		{"97-S2-1", "97-S2-Q1"},
		{"  05-S3-Q7 ", "05-S3-Q7"},
	}
	for _, c := range cases {
		ref, err := Parse(c.in)
		require.NoError(t, err, c.in)
		assert.Equal(t, c.want, ref.String())
	}
}

func TestParse_Malformed(t *testing.T) {
	for _, in := range []string{"bad-input", "", "97", "97-S2", "97-S2-Q1-x", "97-X2-Q1", "97-S2-Qx", "97-S-Q1", "97-S2-", "97-S+2-Q1", "97-S2-Q+1", "97-S2-Q-1", "97-S2-Q1.0", "97-S2-Q１"} {
		_, err := Parse(in)
		require.Error(t, err, in)
		assert.ErrorIs(t, err, ErrMalformedInput, in)

		var pe *ParseError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, MalformedInput, pe.Kind)
	}
}

func TestParse_OutOfRange(t *testing.T) {
	for _, in := range []string{"97-S2-Q99", "97-S2-Q0", "97-S4-Q1", "97-S0-Q1", "50-S2-Q1", "xx-S2-Q1", "1997-S2-Q1", "97-S02-Q1", "97-S2-Q01", "97-S02-Q01"} {
		_, err := Parse(in)
		require.Error(t, err, in)
		assert.ErrorIs(t, err, ErrOutOfRange, in)
		assert.NotErrorIs(t, err, ErrMalformedInput, in)
	}
}

func TestCodec_CustomPapers(t *testing.T) {
	c := Codec{Papers: Papers{2, 3}}

	_, err := c.Parse("97-S1-Q1")
	assert.ErrorIs(t, err, ErrOutOfRange)

	ref, err := c.Parse("97-S3-Q1")
	require.NoError(t, err)
	assert.Equal(t, 3, ref.Paper)
}

func TestPapers_Validate(t *testing.T) {
	assert.NoError(t, AllPapers.Validate())
	assert.NoError(t, DefaultRandomPapers.Validate())
	assert.Error(t, Papers{}.Validate())
	assert.Error(t, Papers{2, 4}.Validate())
}

func TestNewLocator(t *testing.T) {
	_, err := NewLocator("https://example.com/{X}-{Y}.png")
	require.Error(t, err)

	l, err := NewLocator("")
	require.NoError(t, err)
	assert.Equal(t, DefaultURLTemplate, l.Template())
}

func TestBuildURL(t *testing.T) {
	l, err := NewLocator("https://stepdatabase.maths.org/database/db/{X}/{X}-S{Y}-Q{Z}.png")
	require.NoError(t, err)

	ref, err := Parse("97-S2-Q1")
	require.NoError(t, err)
	assert.Equal(t, "https://stepdatabase.maths.org/database/db/97/97-S2-Q1.png", l.BuildURL(ref))

	ref, err = Parse("Spec-S1-Q4")
	require.NoError(t, err)
	assert.Equal(t, "https://stepdatabase.maths.org/database/db/Spec/Spec-S1-Q4.png", l.BuildURL(ref))
}

func TestBuildURL_Injective(t *testing.T) {
	l, err := NewLocator(DefaultURLTemplate)
	require.NoError(t, err)

	seen := make(map[string]Reference)
	for _, ref := range allReferences(AllPapers) {
		u := l.BuildURL(ref)
		if prev, dup := seen[u]; dup {
			t.Fatalf("%v and %v both map to %s", prev, ref, u)
		}
		seen[u] = ref
	}
}
