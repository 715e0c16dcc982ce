package echemplot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChargeLabel(t *testing.T) {
	tests := []struct {
		file  string
		label string
		ok    bool
	}{
		{"CA_pH1_KReO4.txt", "KReO4 (pH 1)", true},
		{"CA_pH4_ NH4ReO4 .txt", "NH4ReO4 (pH 4)", true},
		{"CA_pH6_KReO4 + Na2SO4.txt", "KReO4 + Na2SO4 (pH 6)", true},
		{"CA_Cu.txt", "Cu", true},
		{"CA_pH_KReO4.txt", "", false},
		{"CA_pH1.txt", "", false},
		{"notes.txt", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			label, ok := ChargeLabel(tt.file)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.label, label)
		})
	}
}

func TestClassifyCA(t *testing.T) {
	tests := []struct {
		file string
		want CAFile
		ok   bool
	}{
		{"CA_Cu reference.txt", CAFile{Reference: true, Label: "Cu Reference"}, true},
		{"CA_pH1_KReO4.txt", CAFile{PH: "pH 1", Label: "KReO4"}, true},
		{"CA_pH12 K2ReCl6.txt", CAFile{PH: "pH 12", Label: "CA_pH12 K2ReCl6.txt"}, true},
		{"CA_pH_x.txt", CAFile{}, false},
		{"blank.txt", CAFile{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			got, ok := ClassifyCA(tt.file)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseEISName(t *testing.T) {
	tests := []struct {
		file string
		want EISName
		ok   bool
	}{
		{
			file: "12_KReO4 pH 1 OCP (Nyquist and Bode).txt",
			want: EISName{ID: "12_KReO4 pH 1 OCP", Index: "12", Chemical: "KReO4", PH: "pH 1", Condition: "OCP", View: "Nyquist and Bode"},
			ok:   true,
		},
		{
			file: "3_K2ReCl6 pH 6 FAR (Bode).txt",
			want: EISName{ID: "3_K2ReCl6 pH 6 FAR", Index: "3", Chemical: "K2ReCl6", PH: "pH 6", Condition: "FAR", View: "Bode"},
			ok:   true,
		},
		{
			file: "7_NH4ReO4 CAP (Nyquist).txt",
			want: EISName{ID: "7_NH4ReO4  CAP", Index: "7", Chemical: "NH4ReO4", PH: NoPH, Condition: "CAP", View: "Nyquist"},
			ok:   true,
		},
		{
			file: "EIS/9_KReO4 + Na2SO4 pH 4 CAP (Nyquist).txt",
			want: EISName{ID: "9_KReO4 + Na2SO4 pH 4 CAP", Index: "9", Chemical: "KReO4 + Na2SO4", PH: "pH 4", Condition: "CAP", View: "Nyquist"},
			ok:   true,
		},
		{
			file: "Cu FAR (Nyquist and Bode).txt",
			want: EISName{ID: "Cu_FAR", Chemical: "Cu", PH: NoPH, Condition: "FAR"},
			ok:   true,
		},
		{
			file: "KReO4 + Na2SO4 OCP.txt",
			want: EISName{ID: "KReO4 + Na2SO4_OCP", Chemical: "KReO4 + Na2SO4", PH: NoPH, Condition: "OCP"},
			ok:   true,
		},
		{file: "Cu reference.txt", ok: false},
		{file: "readme.txt", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			got, ok := ParseEISName(tt.file)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLSVNames(t *testing.T) {
	assert.Equal(t, "pH 1", LSVPH("LSV_pH 1_KReO4.txt"))
	assert.Equal(t, "pH4", LSVPH("LSV_pH4_KReO4"))
	assert.Equal(t, "Unknown pH", LSVPH("LSV-pH4-KReO4"))

	assert.True(t, LSVMatch("LSV_pH 1_KReO4.txt", "KReO4"))
	assert.True(t, LSVMatch("LSV_pH 1_KReO4 + Na2SO4.txt", "KReO4"))
	assert.False(t, LSVMatch("LSV_pH 1_K2ReCl6.txt", "KReO4"))
	assert.False(t, LSVMatch("LSV_Reference Cu", "KReO4"))
	assert.True(t, LSVMatch("LSV_pH 6_K[2]ReCl6", "K[2]ReCl6"))
}
