package catalog

import (
	"fmt"
	"os"

	"github.com/tebeka/atexit"
)

// CSVWriter stores configuration entries into a CSV file.
type CSVWriter struct {
	path string
	file *os.File

	entries    []Entry
	bufferSize int
}

// NewCSVWriter creates a new CSVWriter.
func NewCSVWriter(path string) *CSVWriter {
	return &CSVWriter{
		path:       path,
		bufferSize: 1000,
	}
}

// Init creates the CSV file. If the file already exists, it will be
// overwritten.
func (w *CSVWriter) Init() {
	file, err := os.Create(w.path)
	if err != nil {
		panic(err)
	}
	w.file = file

	fmt.Fprintf(file, "Name, Identifier, Width, "+
		"BankShift, BankMask, RowShift, RowMask, ColShift, ColMask, "+
		"AddrBits, DRAMMatrix, AddrMatrix\n")

	atexit.Register(func() {
		w.Flush()
		err := w.file.Close()
		if err != nil {
			panic(err)
		}
	})
}

// Write stages an entry for the CSV file.
func (w *CSVWriter) Write(e Entry) {
	w.entries = append(w.entries, e)
	if len(w.entries) >= w.bufferSize {
		w.Flush()
	}
}

// Flush writes the staged entries to the CSV file.
func (w *CSVWriter) Flush() {
	for _, e := range w.entries {
		fmt.Fprintf(w.file, "%s, %#010x, %d, %d, %#x, %d, %#x, %d, %#x, %#x, %s, %s\n",
			e.Name,
			e.Identifier,
			e.Width,
			e.BankShift,
			e.BankMask,
			e.RowShift,
			e.RowMask,
			e.ColShift,
			e.ColMask,
			e.AddrBits,
			e.DRAMMatrix,
			e.AddrMatrix,
		)
	}

	w.entries = nil
}
