// Package layoutio reads and writes floor plan layouts as JSON files and
// keeps a floor plan in sync with a file on disk.
package layoutio

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"floorplan/internal/domain"
	"floorplan/internal/layout"
)

// Version is the layout file format version written by Export.
const Version = 1

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "mem://floorplan/layout.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("add layout schema: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile(schemaURL)
	})
	return schema, schemaErr
}

// Document is the on-disk layout format.
type Document struct {
	Version      int          `json:"version,omitempty"`
	Name         string       `json:"name"`
	CanvasWidth  float64      `json:"canvasWidth"`
	CanvasHeight float64      `json:"canvasHeight"`
	Tables       []TableEntry `json:"tables"`
}

// TableEntry is one table in a layout file. On import, an ID is kept only
// when it names a table already on the target floor plan.
type TableEntry struct {
	ID       string  `json:"id,omitempty"`
	Number   int     `json:"number,omitempty"`
	Capacity int     `json:"capacity"`
	Shape    string  `json:"shape"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Status   string  `json:"status,omitempty"`
}

// Export builds a Document from a floor plan and its tables.
func Export(fp domain.FloorPlan, tables []domain.Table) Document {
	doc := Document{
		Version:      Version,
		Name:         fp.Name,
		CanvasWidth:  fp.CanvasWidth,
		CanvasHeight: fp.CanvasHeight,
		Tables:       make([]TableEntry, 0, len(tables)),
	}
	for _, t := range tables {
		doc.Tables = append(doc.Tables, TableEntry{
			ID:       t.ID,
			Number:   t.Number,
			Capacity: t.Capacity,
			Shape:    string(t.Shape),
			X:        t.X,
			Y:        t.Y,
			Width:    t.Width,
			Height:   t.Height,
			Status:   string(t.Status),
		})
	}
	return doc
}

// Encode writes doc as indented JSON.
func Encode(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// Decode reads a layout, checks it against the layout schema and then
// against the canvas and collision rules.
func Decode(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	s, err := compiledSchema()
	if err != nil {
		return nil, err
	}
	if err := s.Validate(raw); err != nil {
		return nil, fmt.Errorf("invalid layout: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode layout: %w", err)
	}
	if err := Check(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// DomainTables converts the document's entries into domain tables. Entries without
// a number are numbered after the highest given one.
func (d *Document) DomainTables() []domain.Table {
	next := 0
	for _, e := range d.Tables {
		if e.Number > next {
			next = e.Number
		}
	}
	tables := make([]domain.Table, 0, len(d.Tables))
	for _, e := range d.Tables {
		n := e.Number
		if n == 0 {
			next++
			n = next
		}
		status := domain.TableStatus(e.Status)
		if status == "" {
			status = domain.TableStatusAvailable
		}
		tables = append(tables, domain.Table{
			ID:       e.ID,
			Number:   n,
			Capacity: e.Capacity,
			Shape:    domain.Shape(e.Shape),
			X:        e.X,
			Y:        e.Y,
			Width:    e.Width,
			Height:   e.Height,
			Status:   status,
		})
	}
	return tables
}

// Check reports the first table that leaves the canvas or collides with
// another table.
func Check(doc *Document) error {
	tables := doc.DomainTables()
	for _, t := range tables {
		if !layout.InBounds(t.Placement(), doc.CanvasWidth, doc.CanvasHeight) {
			return fmt.Errorf("table %d at (%.0f, %.0f) leaves the %.0f×%.0f canvas: %w",
				t.Number, t.X, t.Y, doc.CanvasWidth, doc.CanvasHeight, domain.ErrOutOfBounds)
		}
	}
	for i := range tables {
		for j := i + 1; j < len(tables); j++ {
			if layout.Collides(tables[i].Placement(), tables[j].Placement()) {
				return fmt.Errorf("tables %d and %d overlap: %w", tables[i].Number, tables[j].Number, domain.ErrCollision)
			}
		}
	}
	return nil
}
