package skinini

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `[General]
Name: Sample Skin
Author: someone
Version: 2.7

[Colours]
Combo1: 255, 0, 0
Combo2: 0,255,0 // green
//Combo3: 1,2,3
SliderBorder: 255,255,255

[Fonts]
HitCirclePrefix: fonts\numbers
HitCircleOverlap: 4
`

func activeCombos(t *testing.T, text string) []string {
	t.Helper()
	var out []string
	for _, line := range splitLines(text) {
		if _, ok := comboValue(trimEOL(line)); ok {
			out = append(out, trimEOL(line))
		}
	}
	return out
}

func TestParseColors(t *testing.T) {
	got, err := ParseColors(sample)
	require.NoError(t, err)
	assert.Equal(t, []Color{{R: 255}, {G: 255}}, got)
}

func TestParseColorsDefaults(t *testing.T) {
	for _, text := range []string{
		"",
		"[General]\nName: x\n",
		"[Colours]\n// Combo1: 1,2,3\n  //Combo2: 4,5,6\n",
		"ComboBurstRandom: 1\n",
	} {
		got, err := ParseColors(text)
		require.NoError(t, err, text)
		assert.Equal(t, []Color{
			{R: 255, G: 192, B: 0},
			{R: 0, G: 202, B: 0},
			{R: 18, G: 124, B: 255},
			{R: 242, G: 24, B: 57},
		}, got, text)
	}
}

func TestParseColorsDefaultsAreACopy(t *testing.T) {
	got, err := ParseColors("")
	require.NoError(t, err)
	got[0] = Color{}
	assert.Equal(t, Color{R: 255, G: 192}, DefaultColors[0])
}

func TestParseColorsTolerantForms(t *testing.T) {
	tests := []struct {
		line string
		want Color
	}{
		{line: "Combo1: 10,20,30", want: Color{10, 20, 30}},
		{line: "Combo1:10 , 20 ,30", want: Color{10, 20, 30}},
		{line: "  Combo4 : 1, 2, 3   ", want: Color{1, 2, 3}},
		{line: "Combo10: 7,8,9", want: Color{7, 8, 9}},
		{line: "Combo1: 10,20,30 // note", want: Color{10, 20, 30}},
		{line: "Combo1: 10,20,1000", want: Color{10, 20, 100}},
		{line: "Combo1: 10,20,30\r", want: Color{10, 20, 30}},
	}
	for _, tc := range tests {
		got, err := ParseColors(tc.line + "\n")
		require.NoError(t, err, tc.line)
		assert.Equal(t, []Color{tc.want}, got, tc.line)
	}
}

func TestParseColorsMalformed(t *testing.T) {
	for _, text := range []string{
		"Combo1: 10,20\n",
		"Combo1: 10,x0,30\n",
		"Combo1: 10,20,300\n",
		"[Colours]\nCombo1:\n",
		"Combo1: 1,2,3,4\n",
	} {
		_, err := ParseColors(text)
		require.Error(t, err, text)
		assert.ErrorIs(t, err, ErrParse, text)

		var pe *ParseError
		require.ErrorAs(t, err, &pe)
		assert.Positive(t, pe.Line)
		assert.Contains(t, err.Error(), "invalid value")
	}
}

func TestParsePrefix(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{text: sample, want: "fonts/numbers"},
		{text: "HitCirclePrefix: foo\\bar\n", want: "foo/bar"},
		{text: "[Fonts]\n", want: "default"},
		{text: "// HitCirclePrefix: nope\n", want: "default"},
		{text: "//HitCirclePrefix: nope\nHitCirclePrefix: yes\n", want: "yes"},
		{text: "HitCirclePrefix:\n", want: "default"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, ParsePrefix(tc.text), tc.text)
	}
}

func TestParseOverlap(t *testing.T) {
	n, ok, err := ParseOverlap(sample)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 4, n)

	_, ok, err = ParseOverlap("[Fonts]\n//HitCircleOverlap: 3\n")
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = ParseOverlap("HitCircleOverlap: wide\n")
	assert.ErrorIs(t, err, ErrParse)
}

func TestSetPrimaryColorReplacesAllCombos(t *testing.T) {
	c := Color{R: 10, G: 20, B: 30}
	got := SetPrimaryColor(sample, c)

	assert.Equal(t, []string{"Combo1: 10, 20, 30"}, activeCombos(t, got))
	assert.Contains(t, got, "[Colours]\nCombo1: 10, 20, 30\n//Combo3: 1,2,3\nSliderBorder")
	assert.Contains(t, got, "HitCircleOverlap: 4\n")

	cols, err := ParseColors(got)
	require.NoError(t, err)
	assert.Equal(t, []Color{c}, cols)
}

func TestSetPrimaryColorIdempotent(t *testing.T) {
	docs := []string{sample, "", "[General]\nName: x", "[colours]\r\nCombo5: 1,1,1\r\n"}
	colors := []Color{{}, {R: 255, G: 255, B: 255}, {R: 10, G: 20, B: 30}}
	for _, doc := range docs {
		for _, c := range colors {
			once := SetPrimaryColor(doc, c)
			twice := SetPrimaryColor(once, c)
			assert.Equal(t, once, twice)
			assert.Equal(t, []string{"Combo1: " + c.String()}, activeCombos(t, twice))
		}
	}
}

func TestSetPrimaryColorAppendsSection(t *testing.T) {
	got := SetPrimaryColor("[General]\nName: x", Color{R: 1, G: 2, B: 3})
	assert.Equal(t, "[General]\nName: x\n[Colours]\nCombo1: 1, 2, 3\n", got)

	got = SetPrimaryColor("", Color{R: 1, G: 2, B: 3})
	assert.Equal(t, "[Colours]\nCombo1: 1, 2, 3\n", got)
}

func TestSetPrimaryColorOnlyFirstSection(t *testing.T) {
	got := SetPrimaryColor("[Colours]\nCombo1: 1,1,1\n[Colours]\nCombo2: 2,2,2\n", Color{R: 9, G: 9, B: 9})
	assert.Equal(t, "[Colours]\nCombo1: 9, 9, 9\n[Colours]\n", got)
}

func TestSetPrimaryColorKeepsCRLF(t *testing.T) {
	got := SetPrimaryColor("[General]\r\nName: x\r\n[Colours]\r\nCombo1: 1,1,1\r\n", Color{R: 5, G: 6, B: 7})
	assert.Equal(t, "[General]\r\nName: x\r\n[Colours]\r\nCombo1: 5, 6, 7\r\n", got)
}

func TestSetOverlap(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "replace in place",
			text: "[Fonts]\nHitCirclePrefix: d\nHitCircleOverlap: 4\nScoreOverlap: 1\n",
			want: "[Fonts]\nHitCirclePrefix: d\nHitCircleOverlap: 160\nScoreOverlap: 1\n",
		},
		{
			name: "commented directive ignored",
			text: "[Fonts]\n// HitCircleOverlap: 4\n",
			want: "[Fonts]\nHitCircleOverlap: 160\n// HitCircleOverlap: 4\n",
		},
		{
			name: "last line without newline",
			text: "[Fonts]\nHitCircleOverlap: 4",
			want: "[Fonts]\nHitCircleOverlap: 160",
		},
		{
			name: "append section",
			text: "[General]\nName: x",
			want: "[General]\nName: x\n[Fonts]\nHitCircleOverlap: 160\n",
		},
		{
			name: "crlf",
			text: "[Fonts]\r\nHitCircleOverlap: 4\r\n",
			want: "[Fonts]\r\nHitCircleOverlap: 160\r\n",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SetOverlap(tc.text, 160))
		})
	}
}

func TestAddHeaderIdempotent(t *testing.T) {
	once := AddHeader(sample)
	twice := AddHeader(once)
	assert.Equal(t, once, twice)
	assert.True(t, strings.HasPrefix(once, Header+"\n"))
	assert.Equal(t, 1, strings.Count(twice, Header))
}

func TestAddHeaderRecognizesExistingLine(t *testing.T) {
	text := "// instafade skin generated by https://github.com/SnowzNZ/instafader\n[General]\nName: x\n"
	assert.Equal(t, text, AddHeader(text))
}

func TestAddHeaderCRLF(t *testing.T) {
	assert.Equal(t, Header+"\r\n[General]\r\n", AddHeader("[General]\r\n"))
}

func TestParseInfo(t *testing.T) {
	info, err := ParseInfo(AddHeader(sample))
	require.NoError(t, err)
	assert.Equal(t, Info{Name: "Sample Skin", Author: "someone", Version: "2.7"}, info)

	info, err = ParseInfo("")
	require.NoError(t, err)
	assert.Equal(t, Info{}, info)
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("10, 20, 30")
	require.NoError(t, err)
	assert.Equal(t, Color{10, 20, 30}, c)

	c, err = ParseColor("#ff8000")
	require.NoError(t, err)
	assert.Equal(t, Color{255, 128, 0}, c)
	assert.Equal(t, "#ff8000", c.Hex())
	assert.Equal(t, c, FromColorful(c.Colorful()))

	_, err = ParseColor("#zz")
	assert.ErrorIs(t, err, ErrParse)
	_, err = ParseColor("red")
	assert.ErrorIs(t, err, ErrParse)
}

func TestReadFileStripsBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("\xef\xbb\xbf[General]\n"), 0o644))

	text, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[General]\n", text)
}

func TestReadFileUTF16(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	// "[A]\n" in UTF-16LE with BOM.
	data := []byte{0xff, 0xfe, '[', 0, 'A', 0, ']', 0, '\n', 0}
	require.NoError(t, os.WriteFile(path, data, 0o644))

	text, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[A]\n", text)
}

func TestUpdate(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	require.NoError(t, Update(path, func(text string) (string, error) {
		return AddHeader(text), nil
	}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), Header))

	_, err = ReadFile(filepath.Join(t.TempDir(), FileName))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestUpdateErrorLeavesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	boom := assert.AnError
	err := Update(path, func(string) (string, error) { return "", boom })
	assert.ErrorIs(t, err, boom)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sample, string(data))
}
