package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kdudkov/datumshift/pkg/coord"
)

type result struct {
	Input string         `json:"input" yaml:"input"`
	Lat   float64        `json:"lat" yaml:"lat"`
	Lon   float64        `json:"lon" yaml:"lon"`
	Datum string         `json:"datum" yaml:"datum"`
	Grid  *coord.GridRef `json:"grid,omitempty" yaml:"grid,omitempty"`
}

type converter struct {
	conv *coord.Converter
	from string
	to   string
	grid bool
}

// convert handles one input line. SK42 grid references are always read as
// WGS84 positions, whatever -from says.
func (c *converter) convert(s string) (*result, error) {
	lat, lon, err := coord.ParseLatLon(s)
	if err != nil {
		return nil, err
	}

	from := c.from
	if coord.IsGridRef(s) {
		from = coord.WGS84.String()
	}

	res, err := c.conv.Shift(lat, lon, from, c.to)
	if err != nil {
		return nil, err
	}

	r := &result{
		Input: strings.TrimSpace(s),
		Lat:   res.Lat,
		Lon:   res.Lon,
		Datum: coord.LookupDatumID(c.to).String(),
	}

	if c.grid {
		// the grid is built from the real longitude, legacy or not
		wgs, err := c.conv.EastPositive().Shift(lat, lon, from, coord.WGS84.String())
		if err != nil {
			return nil, err
		}

		g := coord.WGS84ToGrid(wgs.Lat, wgs.Lon)
		r.Grid = &g
	}

	return r, nil
}

func write(w io.Writer, format string, res []*result) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()

		return enc.Encode(res)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(res)
	case "text", "":
		for _, r := range res {
			if r.Grid != nil {
				fmt.Fprintf(w, "%.8f %.8f %s x%d y%d\n", r.Lat, r.Lon, r.Datum, r.Grid.Northing, r.Grid.Easting)
			} else {
				fmt.Fprintf(w, "%.8f %.8f %s\n", r.Lat, r.Lon, r.Datum)
			}
		}

		return nil
	}

	return fmt.Errorf("unknown format %s", format)
}

// run converts every input and writes the results; bad inputs are reported
// to errw and make the returned error non-nil.
func run(c *converter, inputs []string, format string, w, errw io.Writer) error {
	res := make([]*result, 0, len(inputs))

	var errs []error

	for _, s := range inputs {
		if strings.TrimSpace(s) == "" {
			continue
		}

		r, err := c.convert(s)
		if err != nil {
			fmt.Fprintf(errw, "%s: %s\n", strings.TrimSpace(s), err.Error())
			errs = append(errs, err)

			continue
		}

		res = append(res, r)
	}

	if err := write(w, format, res); err != nil {
		return err
	}

	return errors.Join(errs...)
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	return lines, scanner.Err()
}

func listDatums(w io.Writer) {
	for _, id := range coord.Datums() {
		d := coord.GetDatum(id)
		t := d.Transform
		fmt.Fprintf(w, "%s\ta=%.3f\t1/f=%.9f\t%.5f %.5f %.5f %.8f %.8f %.8f %.8f\n", id, d.Ellipsoid.MajorAxis,
			1/d.Ellipsoid.Flattening, t.Tx, t.Ty, t.Tz, t.S, t.Rx, t.Ry, t.Rz)
	}
}

func main() {
	from := flag.String("from", "WGS84", "datum of the input coordinates")
	to := flag.String("to", "WGS84", "datum to convert to")
	strict := flag.Bool("strict", false, "fail on unknown datums and out of range coordinates")
	legacy := flag.Bool("legacy", false, "east-negative longitude convention")
	format := flag.String("format", "text", "output format: text, yaml or json")
	grid := flag.Bool("grid", false, "add SK42 Gauss-Kruger grid reference")
	datums := flag.Bool("datums", false, "list known datums and exit")
	flag.Parse()

	if *datums {
		listDatums(os.Stdout)
		return
	}

	var opts []coord.Option

	if *strict {
		opts = append(opts, coord.WithStrict())
	}

	if *legacy {
		opts = append(opts, coord.WithLegacyLongitude())
	}

	c := &converter{conv: coord.NewConverter(opts...), from: *from, to: *to, grid: *grid}

	inputs := flag.Args()

	if len(inputs) == 0 {
		var err error

		if inputs, err = readLines(os.Stdin); err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
	}

	if err := run(c, inputs, *format, os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}
