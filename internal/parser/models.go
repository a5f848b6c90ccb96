package parser

import "errors"

// Field positions in a benchmark data line. The harness writes
// "<structure> <OP> <n> <elapsed> <comparisons> <checksum>".
const (
	StructureField = 0
	OperationField = 1
	KeyField       = 2
	ValueField     = 3

	minRecordFields = ValueField + 1
)

// ErrMalformedRecord is returned for a line that has no key or value field.
var ErrMalformedRecord = errors.New("malformed record")

// Record holds the whitespace-separated fields of one line of a data file.
type Record struct {
	Fields []string
	Line   int // 1-based line number in the source file
}

// Key is the data-size identifier used to align a measurement with its baseline.
func (r Record) Key() string { return r.Fields[KeyField] }

// Value is the raw measurement text.
func (r Record) Value() string { return r.Fields[ValueField] }

func (r Record) Structure() string { return r.Fields[StructureField] }

func (r Record) Operation() string { return r.Fields[OperationField] }

// Dataset is every record of one data file, in file order.
type Dataset struct {
	Name    string
	Records []Record
}

// NewDataset creates an empty dataset for the named file.
func NewDataset(name string) *Dataset {
	return &Dataset{
		Name:    name,
		Records: make([]Record, 0),
	}
}

// RatioLine is one "<key> <ratio>" line of a normalized file.
type RatioLine struct {
	Key   string
	Ratio float64
}
