package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/partprop/internal/experiment"
)

type ExportData struct {
	Metadata RunMetadata         `json:"metadata"`
	Records  []experiment.Record `json:"candidates"`
}

func ExportJSON(path string, meta RunMetadata, records []experiment.Record) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteJSON(file, meta, records)
}

func WriteJSON(w io.Writer, meta RunMetadata, records []experiment.Record) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{Metadata: meta, Records: records})
}
