// Command rosterctl parses a roster file and prints its statistics.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/dhyhn5012/tccb/internal/calculator"
	"github.com/dhyhn5012/tccb/internal/config"
	"github.com/dhyhn5012/tccb/internal/exporter"
	"github.com/dhyhn5012/tccb/internal/importer"
	"github.com/dhyhn5012/tccb/internal/store"
)

var (
	file       = flag.String("file", "", "roster file (.xlsx, .xls, .csv)")
	department = flag.String("department", "", "only this department")
	asJSON     = flag.Bool("json", false, "print the report as JSON")
	out        = flag.String("out", "", "also write the xlsx export to this path")
	dataDir    = flag.String("dataDir", "", "record the import in the database of this data directory")
	workers    = flag.Int("workers", 4, "parallel sheet workers")
)

func main() {
	flag.Parse()
	if *file == "" {
		fmt.Fprintln(os.Stderr, "usage: rosterctl -file lich-truc.xlsx [-department NAME] [-json] [-out report.xlsx]")
		os.Exit(2)
	}
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	var logs importer.ImportLogger
	if *dataDir != "" {
		st, err := store.New(filepath.Join(*dataDir, store.DefaultFilename))
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()
		logs = st
	}

	f, err := os.Open(*file)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	coord := importer.NewCoordinator(logs, importer.Config{
		DefaultDepartment: config.DefaultConfig().Roster.DefaultDepartment,
		Workers:           *workers,
	})
	res, err := coord.Import(context.Background(), importer.ImportOptions{Filename: *file, Reader: f}, nil)
	if err != nil {
		return err
	}
	for _, w := range res.Warnings {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}

	roster := res.Roster.FilterDepartment(*department)
	report := calculator.NewCalculator(roster).Analyze(*department)

	if *out != "" {
		xf, err := exporter.NewExporter().ExportRoster(roster, report, nil)
		if err != nil {
			return err
		}
		defer func() { _ = xf.Close() }()
		if err := xf.SaveAs(*out); err != nil {
			return err
		}
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	return printReport(report)
}

func printReport(report *calculator.Report) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, ind := range report.Indicators {
		fmt.Fprintf(w, "%s\t%d\n", ind.Name, ind.Value)
	}
	fmt.Fprintln(w)

	weekend := make(map[calculator.Employee]int, len(report.Weekend))
	for _, e := range report.Weekend {
		weekend[e.Employee] = e.Count
	}
	fmt.Fprintln(w, "Khoa\tHọ và tên\tSố lượt trực\tCuối tuần")
	for _, e := range report.OnCall {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\n", e.Department, e.EmployeeName, e.Count, weekend[e.Employee])
	}
	fmt.Fprintln(w)

	for _, b := range report.Frequency {
		fmt.Fprintf(w, "%s\t%d\n", b.Category, b.Count)
	}
	return w.Flush()
}
