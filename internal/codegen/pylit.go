package codegen

import (
	"math"
	"strconv"
	"strings"

	"rfemassist/internal/model"
)

// pyFloat renders a float the way Python's repr does: a decimal point is
// always present and infinity is spelled float('inf').
func pyFloat(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "float('inf')"
	case math.IsInf(v, -1):
		return "float('-inf')"
	case math.IsNaN(v):
		return "float('nan')"
	}
	abs := math.Abs(v)
	var s string
	if v == 0 || (abs >= 1e-4 && abs < 1e16) {
		s = strconv.FormatFloat(v, 'f', -1, 64)
	} else {
		s = strconv.FormatFloat(v, 'e', -1, 64)
	}
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

func pyString(s string) string { return strconv.Quote(s) }

func pyFloats(vs []float64) string {
	if vs == nil {
		return "None"
	}
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = pyFloat(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func pyInts(vs []int) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.Itoa(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func pyPoint(p model.Point3) string { return pyFloats(p[:]) }

func pyPoints(ps []model.Point3) string {
	if ps == nil {
		return "None"
	}
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = pyPoint(p)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
