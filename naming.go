package echemplot

import (
	"path"
	"regexp"
	"strings"
)

const NoPH = "N/A"

var (
	phNumber  = regexp.MustCompile(`pH(\d+)`)
	phSuffix  = regexp.MustCompile(`pH\d+_(.*)\.txt`)
	condition = regexp.MustCompile(`(OCP|CAP|FAR)`)
	eisName   = regexp.MustCompile(`^(\d+)_(.+?)\s(?:(pH\s\d+)\s)?(OCP|CAP|FAR)\s\((Nyquist|Bode|Nyquist and Bode)\)`)
)

// ChargeLabel names a chronoamperometry export in the combined charge chart.
// ok is false for files that follow neither the pH nor the copper convention.
func ChargeLabel(filename string) (label string, ok bool) {
	if strings.Contains(filename, "pH") {
		var ph = phNumber.FindStringSubmatch(filename)
		var base = phSuffix.FindStringSubmatch(filename)
		if ph == nil || base == nil {
			return "", false
		}
		return strings.TrimSpace(base[1]) + " (pH " + ph[1] + ")", true
	}
	if strings.Contains(filename, "Cu") {
		return "Cu", true
	}
	return "", false
}

// CAFile classifies a chronoamperometry export for the per-pH charts.
type CAFile struct {
	Reference bool
	PH        string // "pH 4"
	Label     string
}

// ClassifyCA returns ok=false when the file carries neither a copper marker
// nor a pH number.
func ClassifyCA(filename string) (CAFile, bool) {
	if strings.Contains(filename, "Cu") {
		return CAFile{Reference: true, Label: "Cu Reference"}, true
	}
	if !strings.Contains(filename, "pH") {
		return CAFile{}, false
	}
	var ph = phNumber.FindStringSubmatch(filename)
	if ph == nil {
		return CAFile{}, false
	}
	var label = filename
	if m := phSuffix.FindStringSubmatch(filename); m != nil {
		label = strings.TrimSpace(m[1])
	}
	return CAFile{PH: "pH " + ph[1], Label: label}, true
}

// EISName is the parsed form of an impedance export file name.
type EISName struct {
	ID        string
	Index     string
	Chemical  string
	PH        string
	Condition string
	View      string
}

// ParseEISName understands "<n>_<chemical> [pH <n> ]<OCP|CAP|FAR> (<view>)"
// plus the copper and mixed-electrolyte references that omit the index.
func ParseEISName(filename string) (EISName, bool) {
	var base = path.Base(filename)

	if m := eisName.FindStringSubmatch(base); m != nil {
		var n = EISName{
			Index:     m[1],
			Chemical:  strings.TrimSpace(m[2]),
			PH:        m[3],
			Condition: m[4],
			View:      m[5],
		}
		if n.PH == "" {
			n.PH = NoPH
		}
		n.ID = m[1] + "_" + m[2] + " " + m[3] + " " + m[4]
		return n, true
	}

	for _, chem := range []string{"Cu", "KReO4 + Na2SO4"} {
		if !strings.Contains(base, chem) {
			continue
		}
		var c = condition.FindString(base)
		if c == "" {
			// the mixed-electrolyte fallback still applies
			continue
		}
		return EISName{
			ID:        chem + "_" + c,
			Chemical:  chem,
			PH:        NoPH,
			Condition: c,
		}, true
	}
	return EISName{}, false
}

// LSVPH returns the second underscore-separated field, "pH 1" in
// "LSV_pH 1_KReO4.txt".
func LSVPH(filename string) string {
	var parts = strings.Split(filename, "_")
	if len(parts) < 2 {
		return "Unknown pH"
	}
	return parts[1]
}

// LSVMatch reports whether filename belongs to chemical: LSV_pH*_<chemical>*.
func LSVMatch(filename, chemical string) bool {
	var ok, err = path.Match("LSV_pH*_"+escapeGlob(chemical)+"*", filename)
	return err == nil && ok
}

func escapeGlob(s string) string {
	var r = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`)
	return r.Replace(s)
}
