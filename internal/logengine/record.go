package logengine

import (
	"encoding/json"
	"fmt"
)

// record is the on-disk representation of one log entry. It mirrors a
// tagged union with exactly two variants, Set and Rm, matching the
// wire format fixed by the spec:
//
//	{"Set":{"key":"<K>","value":"<V>"}}
//	{"Rm":{"key":"<K>"}}
//
// Exactly one of the two fields is populated on any well-formed
// record; omitempty keeps Marshal from emitting the unused variant.
type record struct {
	Set *setPayload `json:"Set,omitempty"`
	Rm  *rmPayload  `json:"Rm,omitempty"`
}

type setPayload struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type rmPayload struct {
	Key string `json:"key"`
}

// newSetRecord builds a Set(key, value) record.
func newSetRecord(key, value string) record {
	return record{Set: &setPayload{Key: key, Value: value}}
}

// newRmRecord builds a Remove(key) record.
func newRmRecord(key string) record {
	return record{Rm: &rmPayload{Key: key}}
}

// isSet reports whether r is the Set variant.
func (r record) isSet() bool {
	return r.Set != nil
}

// key returns the key named by whichever variant r is.
func (r record) key() (string, error) {
	switch {
	case r.Set != nil:
		return r.Set.Key, nil
	case r.Rm != nil:
		return r.Rm.Key, nil
	default:
		return "", fmt.Errorf("record has neither Set nor Rm variant populated")
	}
}

// encode serializes r to the exact bytes written to the log.
func (r record) encode() ([]byte, error) {
	return json.Marshal(r)
}

// decodeRecord deserializes one record from data and validates it is
// exactly one of the two known variants.
func decodeRecord(data []byte) (record, error) {
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return record{}, err
	}
	if r.Set == nil && r.Rm == nil {
		return record{}, fmt.Errorf("decoded record matches neither Set nor Rm variant")
	}
	return r, nil
}
