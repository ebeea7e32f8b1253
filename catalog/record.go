package catalog

import "github.com/sarchlab/drammap/memconfig"

// Record stores every configuration of a table through a Recorder, in
// insertion order. The recorder is flushed once all entries are staged.
func Record(t *memconfig.Table, rec Recorder) {
	rec.CreateTable(TableName, Entry{})

	for _, c := range t.Configs() {
		rec.InsertData(TableName, NewEntry(c))
	}

	rec.Flush()
}
