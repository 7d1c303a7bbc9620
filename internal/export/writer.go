// Package export serializes the observation set into the download formats
// offered by the dashboard: CSV, XLSX and JSON, all with the public
// column names and without the internal n_dims_ok column.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"ici_dashboard/models"
)

// Format is one of the supported download encodings.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatJSON Format = "json"
)

// ParseFormat validates a format coming from a request parameter.
func ParseFormat(s string) (Format, bool) {
	switch Format(s) {
	case FormatCSV, FormatXLSX, FormatJSON:
		return Format(s), true
	}
	return "", false
}

const sheetName = "Complexity Index"

var header = []string{
	"Country Name",
	"Country Code",
	"Year",
	"Socio-Cultural Index",
	"Markets & Business Index",
	"Entrepreneurship Index",
	"Government Efficiency Index",
	"Legal Environment Index",
	"Total Complexity Index",
}

// File is an encoded export ready to be sent as a download or attachment.
type File struct {
	Name string
	MIME string
	Data []byte
}

// Build encodes the observations in the requested format. The filename
// carries the year range of the request.
func Build(format Format, observations []models.Observation, yearFrom, yearTo int) (*File, error) {
	name := fmt.Sprintf("institutional_complexity_index_%d_%d.%s", yearFrom, yearTo, format)

	switch format {
	case FormatCSV:
		data, err := encodeCSV(observations)
		if err != nil {
			return nil, err
		}
		return &File{Name: name, MIME: "text/csv", Data: data}, nil
	case FormatXLSX:
		data, err := encodeXLSX(observations)
		if err != nil {
			return nil, err
		}
		return &File{
			Name: name,
			MIME: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Data: data,
		}, nil
	case FormatJSON:
		data, err := encodeJSON(observations)
		if err != nil {
			return nil, err
		}
		return &File{Name: name, MIME: "application/json", Data: data}, nil
	}
	return nil, fmt.Errorf("unsupported export format %q", format)
}

func encodeCSV(observations []models.Observation) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, o := range observations {
		record := []string{
			o.CountryName,
			o.CountryCode,
			strconv.Itoa(o.Year),
		}
		for _, idx := range models.Indices() {
			record = append(record, formatValue(o, idx))
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeXLSX(observations []models.Observation) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}
	for col, title := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, title); err != nil {
			return nil, err
		}
	}
	for row, o := range observations {
		cells := []interface{}{o.CountryName, o.CountryCode, o.Year}
		for _, idx := range models.Indices() {
			if v, ok := o.Value(idx); ok {
				cells = append(cells, v)
			} else {
				cells = append(cells, nil)
			}
		}
		for col, v := range cells {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// record mirrors the CSV/XLSX column renaming for the JSON export.
type record struct {
	CountryName      string   `json:"Country Name"`
	CountryCode      string   `json:"Country Code"`
	Year             int      `json:"Year"`
	SocioCultural    *float64 `json:"Socio-Cultural Index"`
	MarketsBusiness  *float64 `json:"Markets & Business Index"`
	Entrepreneurship *float64 `json:"Entrepreneurship Index"`
	GovEfficiency    *float64 `json:"Government Efficiency Index"`
	LegalEnvironment *float64 `json:"Legal Environment Index"`
	Total            *float64 `json:"Total Complexity Index"`
}

func encodeJSON(observations []models.Observation) ([]byte, error) {
	records := make([]record, 0, len(observations))
	for _, o := range observations {
		records = append(records, record{
			CountryName:      o.CountryName,
			CountryCode:      o.CountryCode,
			Year:             o.Year,
			SocioCultural:    o.SocioCultural,
			MarketsBusiness:  o.MarketsBusiness,
			Entrepreneurship: o.Entrepreneurship,
			GovEfficiency:    o.GovEfficiency,
			LegalEnvironment: o.LegalEnvironment,
			Total:            o.Total,
		})
	}
	return json.Marshal(records)
}

func formatValue(o models.Observation, idx models.Index) string {
	v, ok := o.Value(idx)
	if !ok {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
