// Rows and documents.
//
// A Row is anything a collection can decode a line into and encode back
// out of. Document is the stock implementation: a JSON object held as a
// field map. Identity lives in the "id" field and is assigned on first
// insert.
package rowfile

import (
	"fmt"
	"maps"
	"math"
	"reflect"
	"time"

	json "github.com/goccy/go-json"
)

// IDField is the field holding a row's identity.
const IDField = "id"

// Row is the capability set a collection needs from its row type.
type Row interface {
	Get(field string) any
	Set(field string, value any)
	Encode() ([]byte, error)
	Decode(data []byte) error
}

// Document is a schemaless row backed by a field map.
type Document struct {
	data   map[string]any
	synced time.Time
}

// NewDocument returns an empty, transient document.
func NewDocument() *Document {
	return &Document{data: map[string]any{}}
}

// NewDocumentFrom returns a document holding a copy of data.
func NewDocumentFrom(data map[string]any) *Document {
	d := NewDocument()
	maps.Copy(d.data, data)
	return d
}

// Get returns a field value, or nil if unset.
func (d *Document) Get(field string) any {
	return d.data[field]
}

// Set assigns a field value.
func (d *Document) Set(field string, value any) {
	if d.data == nil {
		d.data = map[string]any{}
	}
	d.data[field] = value
}

// Data returns the underlying field map.
func (d *Document) Data() map[string]any {
	return d.data
}

// ID returns the document's id and whether it has one.
func (d *Document) ID() (int64, bool) {
	return idOf(d)
}

// Encode serialises the document as a single-line JSON object with keys
// in sorted order.
func (d *Document) Encode() ([]byte, error) {
	if d.data == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(d.data)
}

// Decode replaces the document's fields with the JSON object in data.
func (d *Document) Decode(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	if m == nil {
		return fmt.Errorf("not an object: %.32q", data)
	}
	d.data = m
	return nil
}

// MarkSynced records when the document last matched its stored line.
func (d *Document) MarkSynced(t time.Time) {
	d.synced = t
}

// Synced returns when the document was last loaded or saved, or the zero
// time if never.
func (d *Document) Synced() time.Time {
	return d.synced
}

// String returns the encoded form, for debugging.
func (d *Document) String() string {
	b, err := d.Encode()
	if err != nil {
		return fmt.Sprintf("<%v>", err)
	}
	return string(b)
}

// rowID extracts r's id. A missing or zero-valued id field reports
// ErrNoID. Any other value must be an integral number greater than zero,
// of any Go integer or float kind or a json.Number; anything else reports
// ErrInvalidID.
func rowID(r Row) (int64, error) {
	v := r.Get(IDField)
	if v == nil {
		return 0, ErrNoID
	}
	if n, ok := v.(json.Number); ok {
		id, err := n.Int64()
		if err != nil || id <= 0 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidID, n)
		}
		return id, nil
	}

	rv := reflect.ValueOf(v)
	if rv.IsZero() {
		return 0, ErrNoID
	}
	var id int64
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		id = rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return 0, fmt.Errorf("%w: %d", ErrInvalidID, u)
		}
		id = int64(u)
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if f != math.Trunc(f) || f <= 0 || f >= math.MaxInt64 {
			return 0, fmt.Errorf("%w: %v", ErrInvalidID, v)
		}
		id = int64(f)
	default:
		return 0, fmt.Errorf("%w: %T", ErrInvalidID, v)
	}
	if id <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidID, id)
	}
	return id, nil
}

// idOf is rowID for scans, where a row without a usable id is skipped.
func idOf(r Row) (int64, bool) {
	id, err := rowID(r)
	return id, err == nil
}

// Change is the result of a per-row update decision.
type Change struct {
	op  EditOp
	row Row
}

// Keep leaves the stored line untouched.
func Keep() Change { return Change{op: OpKeep} }

// Drop removes the row.
func Drop() Change { return Change{op: OpDrop} }

// Replace stores row in place of the current one.
func Replace(row Row) Change { return Change{op: OpReplace, row: row} }
