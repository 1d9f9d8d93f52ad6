package ports

import "pimprep/domain/dataset"

// DatasetReader loads a tabular dataset from an external source (file
// upload, spreadsheet, API payload). Implementations own all I/O; the
// engine only ever sees the returned snapshot.
type DatasetReader interface {
	ReadDataset() (*dataset.Dataset, error)
}
