package codec

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/example/riskmap/internal/core/coords"
	"github.com/example/riskmap/internal/core/scoring"
	"github.com/example/riskmap/internal/document"
)

// repairer walks the loosely-typed tree produced by the JSON decoder and
// builds a typed document, defaulting field by field.
type repairer struct {
	notes []string
}

func (r *repairer) notef(format string, args ...any) {
	r.notes = append(r.notes, fmt.Sprintf(format, args...))
}

func (r *repairer) document(root map[string]any, defaults Defaults) document.Document {
	doc := document.Document{
		SchemaVersion: document.SchemaVersion,
		Metadata:      defaults.Metadata,
		Settings:      defaults.Settings,
		Labels:        []document.Marker{},
		Rows:          []document.RiskRow{},
	}

	if v, present := root["schemaVersion"]; present {
		if n, ok := asInt(v); ok {
			doc.SchemaVersion = n
		} else {
			r.notef("schemaVersion: expected a number, got %s", kindOf(v))
		}
	}

	if obj, ok := r.object(root, "metadata"); ok {
		doc.Metadata = r.metadata(obj, defaults.Metadata)
	}
	if obj, ok := r.object(root, "settings"); ok {
		doc.Settings = r.settings(obj, defaults.Settings)
	}

	doc.Image = document.Image{DisplayHeight: document.DisplayHeight}
	if obj, ok := r.object(root, "image"); ok {
		doc.Image = r.image(obj)
	}
	doc.Image = doc.Image.WithLayout()

	if items, ok := r.array(root, "labels"); ok {
		for i, item := range items {
			obj, isObj := item.(map[string]any)
			if !isObj {
				r.notef("labels[%d]: expected an object, got %s; dropped", i, kindOf(item))
				continue
			}
			doc.Labels = append(doc.Labels, r.marker(obj, i))
		}
	}

	if items, ok := r.array(root, "rows"); ok {
		for i, item := range items {
			obj, isObj := item.(map[string]any)
			if !isObj {
				r.notef("rows[%d]: expected an object, got %s; dropped", i, kindOf(item))
				continue
			}
			doc.Rows = append(doc.Rows, r.row(obj, i))
		}
	}

	return doc
}

func (r *repairer) metadata(obj map[string]any, def document.Metadata) document.Metadata {
	md := def
	if s, ok := r.str(obj, "title", "metadata.title"); ok {
		md.Title = s
	}
	if s, ok := r.str(obj, "createdAt", "metadata.createdAt"); ok {
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			r.notef("metadata.createdAt: %q is not a timestamp", s)
		} else {
			md.CreatedAt = t
		}
	}
	return md
}

func (r *repairer) settings(obj map[string]any, def document.Settings) document.Settings {
	out := def
	sc, ok := r.object(obj, "scoring")
	if !ok {
		return out
	}

	if s, ok := r.str(sc, "mode", "settings.scoring.mode"); ok {
		switch mode := scoring.Mode(s); mode {
		case scoring.ModeSP, scoring.ModeEOA:
			out.Scoring.Mode = mode
		default:
			r.notef("settings.scoring.mode: unknown mode %q", s)
		}
	}
	if v, present := sc["scale"]; present {
		if n, ok := asInt(v); ok && n > 0 {
			out.Scoring.Scale = n
		} else {
			r.notef("settings.scoring.scale: expected a positive integer")
		}
	}
	if th, ok := r.object(sc, "thresholds"); ok {
		if f, ok := r.num(th, "low", "settings.scoring.thresholds.low"); ok {
			out.Scoring.Thresholds.Low = f
		}
		if f, ok := r.num(th, "medium", "settings.scoring.thresholds.medium"); ok {
			out.Scoring.Thresholds.Medium = f
		}
		if f, ok := r.num(th, "high", "settings.scoring.thresholds.high"); ok {
			out.Scoring.Thresholds.High = f
		}
	}
	return out
}

// image takes the source and natural size; display fields are never read.
func (r *repairer) image(obj map[string]any) document.Image {
	img := document.Image{}
	if s, ok := r.str(obj, "sourceData", "image.sourceData"); ok {
		img.SourceData = s
	}
	if v, present := obj["naturalWidth"]; present {
		if n, ok := asInt(v); ok && n > 0 {
			img.NaturalWidth = n
		}
	}
	if v, present := obj["naturalHeight"]; present {
		if n, ok := asInt(v); ok && n > 0 {
			img.NaturalHeight = n
		}
	}
	return img
}

func (r *repairer) marker(obj map[string]any, i int) document.Marker {
	path := fmt.Sprintf("labels[%d]", i)
	m := document.Marker{}
	m.ID, _ = r.str(obj, "id", path+".id")
	m.HazardType, _ = r.str(obj, "hazardType", path+".hazardType")

	x, okX := r.num(obj, "x", path+".x")
	y, okY := r.num(obj, "y", path+".y")
	if okX && okY {
		c := coords.Clamp(coords.Coord{X: x, Y: y})
		if c.X != x || c.Y != y {
			r.notef("%s: coordinate clamped to [0,1]", path)
		}
		m.X, m.Y = &c.X, &c.Y
	} else if okX || okY {
		r.notef("%s: only one coordinate present; treated as side marker", path)
	}
	return m
}

func (r *repairer) row(obj map[string]any, i int) document.RiskRow {
	path := fmt.Sprintf("rows[%d]", i)
	row := document.RiskRow{}
	row.ID, _ = r.str(obj, "id", path+".id")
	row.MarkerID, _ = r.str(obj, "markerId", path+".markerId")
	row.HazardType, _ = r.str(obj, "hazardType", path+".hazardType")
	row.Scenario, _ = r.str(obj, "scenario", path+".scenario")
	row.Measures, _ = r.str(obj, "measures", path+".measures")
	row.Comments, _ = r.str(obj, "comments", path+".comments")
	row.SeverityBefore = r.score(obj, "severityBefore", path)
	row.ProbabilityBefore = r.score(obj, "probabilityBefore", path)
	row.SeverityAfter = r.score(obj, "severityAfter", path)
	row.ProbabilityAfter = r.score(obj, "probabilityAfter", path)
	return row
}

// object returns obj[key] if it is an object. A present value of another
// kind is noted.
func (r *repairer) object(obj map[string]any, key string) (map[string]any, bool) {
	v, present := obj[key]
	if !present || v == nil {
		return nil, false
	}
	m, ok := v.(map[string]any)
	if !ok {
		r.notef("%s: expected an object, got %s; using defaults", key, kindOf(v))
	}
	return m, ok
}

func (r *repairer) array(obj map[string]any, key string) ([]any, bool) {
	v, present := obj[key]
	if !present || v == nil {
		return nil, false
	}
	a, ok := v.([]any)
	if !ok {
		r.notef("%s: expected an array, got %s; using empty list", key, kindOf(v))
	}
	return a, ok
}

func (r *repairer) str(obj map[string]any, key, path string) (string, bool) {
	v, present := obj[key]
	if !present || v == nil {
		return "", false
	}
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	}
	r.notef("%s: expected a string, got %s", path, kindOf(v))
	return "", false
}

func (r *repairer) num(obj map[string]any, key, path string) (float64, bool) {
	v, present := obj[key]
	if !present || v == nil {
		return 0, false
	}
	if f, ok := asFloat(v); ok {
		return f, true
	}
	r.notef("%s: expected a number, got %s", path, kindOf(v))
	return 0, false
}

// score keeps numbers in canonical form and text as typed.
func (r *repairer) score(obj map[string]any, key, path string) scoring.Score {
	v, present := obj[key]
	if !present || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return scoring.Score(t)
	case json.Number:
		var s scoring.Score
		if err := s.UnmarshalJSON([]byte(t.String())); err == nil {
			return s
		}
	}
	r.notef("%s.%s: unusable score of kind %s", path, key, kindOf(v))
	return ""
}

func asFloat(v any) (float64, bool) {
	n, ok := v.(json.Number)
	if !ok {
		return 0, false
	}
	f, err := n.Float64()
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func asInt(v any) (int, bool) {
	f, ok := asFloat(v)
	if !ok || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "a boolean"
	case json.Number:
		return "a number"
	case string:
		return "a string"
	case []any:
		return "an array"
	case map[string]any:
		return "an object"
	}
	return fmt.Sprintf("%T", v)
}
