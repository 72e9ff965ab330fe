package weekend

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Record represents one weekend availability entry. The ID doubles as the
// storage key and as a sort token: ids are ISO dates, so lexicographic order
// is chronological order. Fields is an open bag; the store never enforces a
// schema beyond the presence of the id.
type Record struct {
	ID     string
	Fields map[string]interface{}
}

// New creates a record with an empty field set.
func New(id string) Record {
	return Record{ID: id, Fields: make(map[string]interface{})}
}

// Validate checks the single invariant the store cares about.
func (r Record) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("record id is required")
	}
	return nil
}

// Merge applies in's fields on top of r's. Fields present in both take in's
// value; fields only on r survive untouched. The id never changes.
func (r *Record) Merge(in Record) {
	if r.Fields == nil {
		r.Fields = make(map[string]interface{}, len(in.Fields))
	}
	for k, v := range in.Fields {
		r.Fields[k] = v
	}
}

// Clone returns a deep-enough copy for snapshotting: the field map is copied,
// nested values are shared (callers treat them as immutable).
func (r Record) Clone() Record {
	fields := make(map[string]interface{}, len(r.Fields))
	for k, v := range r.Fields {
		fields[k] = v
	}
	return Record{ID: r.ID, Fields: fields}
}

// Body returns the record as a flat document body with the id duplicated in,
// which is the shape persisted to the durable store.
func (r Record) Body() map[string]interface{} {
	body := make(map[string]interface{}, len(r.Fields)+1)
	for k, v := range r.Fields {
		body[k] = v
	}
	body["id"] = r.ID
	return body
}

// FromBody rebuilds a record from a stored document body. If the body lacks
// an id field it is synthesized from the storage key.
func FromBody(key string, body map[string]interface{}) Record {
	rec := Record{ID: key, Fields: make(map[string]interface{}, len(body))}
	for k, v := range body {
		if k == "id" {
			if s, ok := v.(string); ok && s != "" {
				rec.ID = s
			}
			continue
		}
		rec.Fields[k] = v
	}
	return rec
}

// MarshalJSON renders the record as a single flat object, id included.
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Body())
}

// UnmarshalJSON accepts the same flat shape. A missing or non-string id is
// tolerated here and rejected later by Validate.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.ID = ""
	r.Fields = make(map[string]interface{}, len(raw))
	for k, v := range raw {
		if k == "id" {
			if s, ok := v.(string); ok {
				r.ID = s
			}
			continue
		}
		r.Fields[k] = v
	}
	return nil
}

// SortByID orders records ascending by id in place.
func SortByID(records []Record) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].ID < records[j].ID
	})
}
