package views

import (
	"encoding/json"
	"maps"
	"slices"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/relaxedbase/relaxedbase/storage/model"
)

// DateTimeLayout is the layout of date-time inputs, interpreted in local time
const DateTimeLayout = "2006-01-02T15:04"

// Form holds the raw input of an update form keyed by JSON field name.
// References are given as the id of the referenced employee, booleans as
// "true" or "false" and timestamps in DateTimeLayout. An empty value clears
// a reference or timestamp.
type Form map[string]string

// ParseDateTime converts a local date-time input into a UTC timestamp
func ParseDateTime(v string) (*time.Time, error) {
	t, err := time.ParseInLocation(DateTimeLayout, v, time.Local)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid date-time '%s'", v)
	}
	t = t.UTC()
	return &t, nil
}

// FormatDateTime renders a timestamp as local date-time input; nil renders
// as the empty string
func FormatDateTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.In(time.Local).Format(DateTimeLayout)
}

// DefaultDateTime is the date-time input new records are pre-filled with,
// the start of the current day
func DefaultDateTime(now time.Time) string {
	now = now.In(time.Local)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local).Format(DateTimeLayout)
}

func toMap(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	m := map[string]any{}
	if err = json.Unmarshal(data, &m); err != nil {
		return nil, errors.WithStack(err)
	}
	return m, nil
}

// FormValues renders the editable fields of e as form input
func FormValues[E any, P model.RecordPtr[E]](e *E) (Form, error) {
	if e == nil {
		e = new(E)
	}
	m, err := toMap(e)
	if err != nil {
		return nil, err
	}
	form := Form{}
	for _, col := range P(e).Columns() {
		if col.Field == "id" {
			continue
		}
		v := m[col.Field]
		switch {
		case col.Type == model.ColumnTimestamp:
			form[col.Field] = ""
			if s, ok := v.(string); ok {
				t, err := time.Parse(time.RFC3339Nano, s)
				if err != nil {
					return nil, errors.WithStack(err)
				}
				form[col.Field] = FormatDateTime(&t)
			}
		case col.IsReference():
			form[col.Field] = ""
			if ref, ok := v.(map[string]any); ok {
				if id, ok := ref["id"].(float64); ok {
					form[col.Field] = strconv.FormatInt(int64(id), 10)
				}
			}
		case col.Type == model.ColumnBool:
			b, _ := v.(bool)
			form[col.Field] = strconv.FormatBool(b)
		default:
			s, _ := v.(string)
			form[col.Field] = s
		}
	}
	return form, nil
}

// applyForm returns a copy of base with the form values applied. Fields not
// in the form keep the value of base.
func applyForm[E any, P model.RecordPtr[E]](base *E, form Form) (*E, error) {
	if base == nil {
		base = new(E)
	}
	m, err := toMap(base)
	if err != nil {
		return nil, err
	}
	columns := P(base).Columns()
	for _, field := range slices.Sorted(maps.Keys(form)) {
		raw := form[field]
		col, ok := columns.Lookup(field)
		if !ok || field == "id" {
			return nil, errors.Errorf("%s has no editable field '%s'", P(base).EntityName(), field)
		}
		switch {
		case col.Type == model.ColumnTimestamp:
			if raw == "" {
				delete(m, field)
				continue
			}
			t, err := ParseDateTime(raw)
			if err != nil {
				return nil, errors.Wrap(err, field)
			}
			m[field] = t.Format(time.RFC3339)
		case col.IsReference():
			if raw == "" {
				delete(m, field)
				continue
			}
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "invalid %s id", field)
			}
			m[field] = map[string]any{"id": id}
		case col.Type == model.ColumnBool:
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return nil, errors.Wrap(err, field)
			}
			m[field] = b
		default:
			m[field] = raw
		}
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e := new(E)
	if err = json.Unmarshal(data, e); err != nil {
		return nil, errors.WithStack(err)
	}
	return e, nil
}
