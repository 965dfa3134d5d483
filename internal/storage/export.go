package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"math"
	"strconv"

	"github.com/san-kum/rootlab/internal/root"
)

// Float is a float64 whose JSON form spells NaN and ±Inf as strings, since
// diverged runs carry them and encoding/json rejects them.
type Float float64

func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return json.Marshal(strconv.FormatFloat(v, 'g', -1, 64))
	}
	return json.Marshal(v)
}

func (f *Float) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*f = Float(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = Float(v)
	return nil
}

type exportRow struct {
	Index    int   `json:"k"`
	Estimate Float `json:"x"`
	Residual Float `json:"fx"`
	RelError Float `json:"rel_err"`
}

type ExportData struct {
	RunMetadata
	Trace []exportRow `json:"trace"`
}

// ExportJSON writes metadata and trace as one indented JSON document.
func ExportJSON(w io.Writer, meta *RunMetadata, trace []root.Iteration) error {
	data := ExportData{
		RunMetadata: *meta,
		Trace:       make([]exportRow, len(trace)),
	}
	for i, it := range trace {
		data.Trace[i] = exportRow{
			Index:    it.Index,
			Estimate: Float(it.Estimate),
			Residual: Float(it.Residual),
			RelError: Float(it.RelError),
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// WriteTraceCSV writes the k,x,fx,rel_err table.
func WriteTraceCSV(w io.Writer, trace []root.Iteration) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(traceHeader); err != nil {
		return err
	}
	for _, it := range trace {
		row := []string{
			strconv.Itoa(it.Index),
			strconv.FormatFloat(it.Estimate, 'g', 17, 64),
			strconv.FormatFloat(it.Residual, 'g', 17, 64),
			strconv.FormatFloat(it.RelError, 'g', 17, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
