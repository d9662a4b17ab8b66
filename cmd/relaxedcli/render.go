package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/relaxedbase/relaxedbase/client/views"
	"github.com/relaxedbase/relaxedbase/storage/model"
)

func renderList[E any, P model.RecordPtr[E]](w io.Writer, items []E) error {
	switch output {
	case "json", "yaml":
		return renderStructured(w, items)
	case "", "table":
	default:
		return errors.Errorf("unknown output format '%s'", output)
	}
	columns := P(new(E)).Columns()
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, col := range columns {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, col.Field)
	}
	fmt.Fprintln(tw)
	for i := range items {
		values, err := views.FormValues[E, P](&items[i])
		if err != nil {
			return err
		}
		values["id"] = strconv.FormatInt(P(&items[i]).GetID(), 10)
		for j, col := range columns {
			if j > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, values[col.Field])
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

func renderOne[E any, P model.RecordPtr[E]](w io.Writer, e *E) error {
	if e == nil {
		return errors.Errorf("no %s loaded", P(new(E)).EntityName())
	}
	switch output {
	case "", "table", "yaml", "json":
	default:
		return errors.Errorf("unknown output format '%s'", output)
	}
	return renderStructured(w, e)
}

// renderStructured prints v as JSON or, by default, as YAML using the JSON
// field names
func renderStructured(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.WithStack(err)
	}
	if output == "json" {
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
	var generic any
	if err = json.Unmarshal(data, &generic); err != nil {
		return errors.WithStack(err)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err = enc.Encode(generic); err != nil {
		return errors.WithStack(err)
	}
	return enc.Close()
}
