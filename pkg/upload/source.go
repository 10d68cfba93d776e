package upload

import (
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"sync"
)

// Raw property keys, as the host HTTP layer names them.
const (
	PropName    = "name"
	PropTmpName = "tmp_name"
	PropType    = "type"
	PropSize    = "size"
	PropError   = "error"
)

// ErrorCode is the per-file status reported by the HTTP layer.
type ErrorCode int

const (
	UploadOK           ErrorCode = 0
	UploadErrIniSize   ErrorCode = 1
	UploadErrFormSize  ErrorCode = 2
	UploadErrPartial   ErrorCode = 3
	UploadErrNoFile    ErrorCode = 4
	UploadErrNoTmpDir  ErrorCode = 6
	UploadErrCantWrite ErrorCode = 7
	UploadErrExtension ErrorCode = 8
)

func (c ErrorCode) String() string {
	switch c {
	case UploadOK:
		return "ok"
	case UploadErrIniSize:
		return "file exceeds the server size limit"
	case UploadErrFormSize:
		return "file exceeds the form size limit"
	case UploadErrPartial:
		return "file was only partially uploaded"
	case UploadErrNoFile:
		return "no file was uploaded"
	case UploadErrNoTmpDir:
		return "missing temporary directory"
	case UploadErrCantWrite:
		return "failed to write file to disk"
	case UploadErrExtension:
		return "upload stopped by extension"
	default:
		return "unknown upload error " + strconv.Itoa(int(c))
	}
}

// RawEntry holds one field's upload properties in property-major shape.
// A value is either a scalar (single file) or a slice indexed by file position.
type RawEntry map[string]any

// RawTable maps form field names to their raw upload properties.
type RawTable map[string]RawEntry

// Record is one normalized upload.
type Record struct {
	Name    string
	TmpName string
	Type    string // Client-supplied, untrusted
	Size    int64
	Error   ErrorCode
}

// NormalizedTable maps form field names to their uploads in index order.
type NormalizedTable map[string][]Record

// Normalize reshapes a property-major raw table into per-file records.
// Scalar properties are treated as single-element lists so single- and
// multi-file fields come out with the same shape. Malformed values produce
// zero-valued record fields rather than errors.
func Normalize(raw RawTable) NormalizedTable {
	out := make(NormalizedTable, len(raw))
	for field, entry := range raw {
		out[field] = normalizeEntry(entry)
	}
	return out
}

func normalizeEntry(entry RawEntry) []Record {
	names := asList(entry[PropName])
	tmpNames := asList(entry[PropTmpName])
	types := asList(entry[PropType])
	sizes := asList(entry[PropSize])
	codes := asList(entry[PropError])

	n := max(len(names), len(tmpNames), len(types), len(sizes), len(codes), 1)

	records := make([]Record, n)
	for i := range records {
		records[i] = Record{
			Name:    asString(at(names, i)),
			TmpName: asString(at(tmpNames, i)),
			Type:    asString(at(types, i)),
			Size:    asInt64(at(sizes, i)),
			Error:   ErrorCode(asInt64(at(codes, i))),
		}
	}
	return records
}

func asList(v any) []any {
	if v == nil {
		return nil
	}
	switch list := v.(type) {
	case []any:
		return list
	case []byte:
		return []any{v}
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return []any{v}
	}
	list := make([]any, rv.Len())
	for i := range list {
		list[i] = rv.Index(i).Interface()
	}
	return list
}

func at(list []any, i int) any {
	if i < len(list) {
		return list[i]
	}
	return nil
}

func asString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case []byte:
		return string(s)
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(v)
	}
}

func asInt64(v any) int64 {
	switch n := v.(type) {
	case nil:
		return 0
	case ErrorCode:
		return int64(n)
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0
		}
		return i
	}
	rv := reflect.ValueOf(v)
	switch {
	case rv.CanInt():
		return rv.Int()
	case rv.CanUint():
		return int64(rv.Uint())
	case rv.CanFloat():
		return int64(rv.Float())
	}
	return 0
}

// DataSource is a validated, normalized view of a raw upload table.
type DataSource struct {
	table NormalizedTable
}

// NewDataSource validates raw at the boundary and normalizes it.
// Every field needs a non-empty key and both name and tmp_name properties.
func NewDataSource(raw RawTable) (*DataSource, error) {
	for field, entry := range raw {
		if field == "" {
			return nil, fmt.Errorf("%w: data key is empty", ErrInvalidInput)
		}
		if entry == nil {
			return nil, fmt.Errorf("%w: data key does not have properties: %s", ErrInvalidInput, field)
		}
		if _, ok := entry[PropName]; !ok {
			return nil, fmt.Errorf("%w: data key does not have `name` property: %s", ErrInvalidInput, field)
		}
		if _, ok := entry[PropTmpName]; !ok {
			return nil, fmt.Errorf("%w: data key does not have `tmp_name` property: %s", ErrInvalidInput, field)
		}
	}
	return &DataSource{table: Normalize(raw)}, nil
}

// Get returns the records uploaded under field.
func (ds *DataSource) Get(field string) ([]Record, bool) {
	records, ok := ds.table[field]
	return records, ok
}

// Fields returns the field names in sorted order.
func (ds *DataSource) Fields() []string {
	fields := make([]string, 0, len(ds.table))
	for field := range ds.table {
		fields = append(fields, field)
	}
	slices.Sort(fields)
	return fields
}

// Len returns the number of fields.
func (ds *DataSource) Len() int {
	return len(ds.table)
}

// Table returns the normalized table.
func (ds *DataSource) Table() NormalizedTable {
	return ds.table
}

var (
	defaultSourceMu sync.RWMutex
	defaultSource   *DataSource
)

// SetDefaultSource installs the process-wide data source used by OpenDefault.
// Intended to be set once at request-handling setup, or overridden in tests.
func SetDefaultSource(ds *DataSource) {
	defaultSourceMu.Lock()
	defaultSource = ds
	defaultSourceMu.Unlock()
}

// DefaultSource returns the process-wide data source, or nil when unset.
func DefaultSource() *DataSource {
	defaultSourceMu.RLock()
	defer defaultSourceMu.RUnlock()
	return defaultSource
}

// Open creates a File from the record at index of field.
func Open(ds *DataSource, field string, index int, opts ...Option) (*File, error) {
	if ds == nil {
		return nil, fmt.Errorf("%w: data source is nil", ErrInvalidInput)
	}
	records, ok := ds.Get(field)
	if !ok {
		return nil, fmt.Errorf("%w: file does not exist in data source: %s", ErrInvalidInput, field)
	}
	if index < 0 || index >= len(records) {
		return nil, fmt.Errorf("%w: no file at index %d of %s", ErrInvalidInput, index, field)
	}

	rec := records[index]
	if rec.Error != UploadOK {
		return nil, fmt.Errorf("%w: %s (code %d)", ErrUploadFailed, rec.Error, int(rec.Error))
	}

	return New(rec.TmpName, rec.Name, opts...)
}

// OpenDefault opens the first file of field from the default data source.
func OpenDefault(field string, opts ...Option) (*File, error) {
	return Open(DefaultSource(), field, 0, opts...)
}
