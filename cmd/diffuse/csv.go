package main

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	diffusion "github.com/braxten626/2d-pde-simulation-framework"
)

// RunCSV writes a trajectory as flattened CSV rows with columns
// particle, time, x, y, value, plus a JSON dump of the effective
// configuration next to it.
func RunCSV(conf *Config, tr *diffusion.Trajectory) error {
	if err := os.MkdirAll(filepath.Dir(conf.Output), 0755); err != nil {
		return err
	}

	f, err := os.Create(conf.Output)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"particle", "time", "x", "y", "value"}); err != nil {
		return err
	}
	row := make([]string, 5)
	for i := 0; i < tr.N; i++ {
		for k := 0; k < tr.Steps; k++ {
			p := tr.At(i, k)
			row[0] = strconv.Itoa(i)
			row[1] = strconv.Itoa(k)
			row[2] = strconv.FormatFloat(p.X, 'g', -1, 64)
			row[3] = strconv.FormatFloat(p.Y, 'g', -1, 64)
			row[4] = strconv.FormatFloat(tr.ValAt(i, k), 'g', -1, 64)
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	return writeConfigJSON(conf)
}

// writeConfigJSON saves the configuration next to the CSV output,
// replacing the extension with _config.json.
func writeConfigJSON(conf *Config) error {
	path := strings.TrimSuffix(conf.Output, filepath.Ext(conf.Output)) + "_config.json"
	data, err := json.MarshalIndent(conf, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
