package model

import (
	"encoding/json"
	"fmt"
)

// Result statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ErrorClass tags an error result with the failure stage, for surfaces that
// map results onto transport-specific codes. It never appears on the wire.
type ErrorClass string

const (
	ErrClassValidation ErrorClass = "validation"
	ErrClassTransport  ErrorClass = "transport"
	ErrClassProtocol   ErrorClass = "protocol"
)

// Result is the uniform envelope returned by every query operation. A
// success carries the decoded records and their count; an error carries a
// single message and nothing else.
type Result struct {
	Status string
	Data   []Record
	Count  int
	Err    string
	Cause  ErrorClass
}

// Success wraps decoded records in a success envelope. Count always equals
// len(Data).
func Success(records []Record) *Result {
	if records == nil {
		records = []Record{}
	}
	return &Result{
		Status: StatusSuccess,
		Data:   records,
		Count:  len(records),
	}
}

// Errorf builds an error envelope with the given failure class.
func Errorf(class ErrorClass, format string, a ...any) *Result {
	return &Result{
		Status: StatusError,
		Err:    fmt.Sprintf(format, a...),
		Cause:  class,
	}
}

// OK reports whether the envelope is a success.
func (r *Result) OK() bool { return r.Status == StatusSuccess }

// MarshalJSON emits the wire envelope: success envelopes carry status, count
// and data; error envelopes carry status and error only.
func (r *Result) MarshalJSON() ([]byte, error) {
	if r.Status == StatusError {
		return json.Marshal(struct {
			Status string `json:"status"`
			Error  string `json:"error"`
		}{Status: r.Status, Error: r.Err})
	}
	data := r.Data
	if data == nil {
		data = []Record{}
	}
	return json.Marshal(struct {
		Status string   `json:"status"`
		Count  int      `json:"count"`
		Data   []Record `json:"data"`
	}{Status: r.Status, Count: r.Count, Data: data})
}

// UnmarshalJSON accepts the wire envelope produced by MarshalJSON.
func (r *Result) UnmarshalJSON(data []byte) error {
	var wire struct {
		Status string   `json:"status"`
		Count  *int     `json:"count"`
		Data   []Record `json:"data"`
		Error  string   `json:"error"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	r.Status = wire.Status
	r.Err = wire.Error
	r.Data = wire.Data
	if wire.Count != nil {
		r.Count = *wire.Count
	} else {
		r.Count = len(wire.Data)
	}
	return nil
}
