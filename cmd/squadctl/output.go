package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/jrsteele09/squadhub/apierrors"
	apperrors "github.com/jrsteele09/squadhub/internal/errors"
	"github.com/jrsteele09/squadhub/internal/utils"
	"sigs.k8s.io/yaml"
)

type outputFormat string

const (
	formatTable outputFormat = "table"
	formatJSON  outputFormat = "json"
	formatYAML  outputFormat = "yaml"
)

func parseFormat(s string) (outputFormat, error) {
	switch f := outputFormat(strings.ToLower(s)); f {
	case formatTable, formatJSON, formatYAML:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q", s)
}

// table is the tabular rendering of a value.
type table struct {
	header []string
	rows   [][]string
}

func (t *table) add(cells ...string) {
	t.rows = append(t.rows, cells)
}

// render writes v as JSON or YAML, or t when the format is table.
func render(w io.Writer, format outputFormat, v any, t *table) error {
	switch format {
	case formatJSON:
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case formatYAML:
		b, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.header, "\t"))
	for _, row := range t.rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// describe renders err for the terminal, one line per field message.
func describe(err error) string {
	switch {
	case apperrors.Is(err, apperrors.ErrNoSession), apperrors.Is(err, apperrors.ErrUnauthorized):
		return "Not signed in. Run `squadctl login`."
	case apperrors.Is(err, apperrors.ErrForbidden):
		return "You do not have permission to do that."
	case apperrors.Is(err, apperrors.ErrNotFound):
		return "Not found."
	}
	errs := apierrors.FromError(err)
	if errs.Empty() {
		return err.Error()
	}
	var lines []string
	for _, field := range errs.Fields() {
		for _, msg := range errs[field] {
			if field == apierrors.NonFieldErrors {
				lines = append(lines, msg)
				continue
			}
			lines = append(lines, fmt.Sprintf("%s: %s", field, msg))
		}
	}
	return strings.Join(lines, "\n")
}

func deref[T any](p *T) string {
	return utils.OrDash(p, func(v T) string { return fmt.Sprint(v) })
}
