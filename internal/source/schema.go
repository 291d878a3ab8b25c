package source

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"

	"salarydash/internal/domain"
)

// ErrNotArray is returned when the payload is valid JSON but not an array.
var ErrNotArray = errors.New("payload is not a JSON array")

const (
	fieldYear   = "work_year"
	fieldSalary = "salary_in_usd"
	fieldTitle  = "job_title"
)

// DecodeRecords validates a data API payload. Elements that fail the record
// schema are returned as rejects and never reach the aggregate.
func DecodeRecords(body []byte) ([]domain.Record, []domain.Reject, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, nil, fmt.Errorf("decode payload: %w", ErrNotArray)
	}
	if trimmed[0] != '[' {
		if !json.Valid(trimmed) {
			return nil, nil, errors.New("decode payload: malformed JSON")
		}
		return nil, nil, fmt.Errorf("decode payload: %w", ErrNotArray)
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return nil, nil, fmt.Errorf("decode payload: %w", err)
	}

	records := make([]domain.Record, 0, len(elems))
	var rejects []domain.Reject
	for i, raw := range elems {
		r, err := decodeRecord(raw)
		if err != nil {
			rejects = append(rejects, domain.Reject{Index: i, Reason: err.Error()})
			continue
		}
		records = append(records, r)
	}
	return records, rejects, nil
}

func decodeRecord(raw json.RawMessage) (domain.Record, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return domain.Record{}, errors.New("not an object")
	}

	yearRaw, ok := fields[fieldYear]
	if !ok {
		return domain.Record{}, fmt.Errorf("missing %s", fieldYear)
	}
	year, err := parseYear(yearRaw)
	if err != nil {
		return domain.Record{}, fmt.Errorf("%s: %w", fieldYear, err)
	}

	salary, err := salaryText(fields[fieldSalary])
	if err != nil {
		return domain.Record{}, fmt.Errorf("%s: %w", fieldSalary, err)
	}

	titleRaw, ok := fields[fieldTitle]
	if !ok {
		return domain.Record{}, fmt.Errorf("missing %s", fieldTitle)
	}
	var title string
	if err := json.Unmarshal(titleRaw, &title); err != nil || isNull(titleRaw) {
		return domain.Record{}, fmt.Errorf("%s: want string", fieldTitle)
	}

	delete(fields, fieldYear)
	delete(fields, fieldSalary)
	delete(fields, fieldTitle)
	if len(fields) == 0 {
		fields = nil
	}

	return domain.Record{Year: year, Salary: salary, Title: title, Extra: fields}, nil
}

// parseYear accepts an integer-valued JSON number or numeric string so that
// 2021 and "2021" land on the same key.
func parseYear(raw json.RawMessage) (int, error) {
	if isNull(raw) {
		return 0, errors.New("null")
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, errors.New("want number or numeric string")
	}
	if i, err := strconv.ParseInt(n.String(), 10, 32); err == nil {
		return int(i), nil
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, fmt.Errorf("not an integer year: %s", n)
	}
	return int(f), nil
}

// salaryText keeps the salary as text. Strings pass through, numbers keep
// their literal, a missing or null value becomes empty.
func salaryText(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || isNull(raw) {
		return "", nil
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	case '{', '[', 't', 'f':
		return "", errors.New("want number or string")
	default:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return "", err
		}
		return n.String(), nil
	}
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

// EncodeRecords renders records back into the data API wire shape.
func EncodeRecords(records []domain.Record) ([]byte, error) {
	out := make([]map[string]any, 0, len(records))
	for _, r := range records {
		m := make(map[string]any, len(r.Extra)+3)
		for k, v := range r.Extra {
			m[k] = v
		}
		m[fieldYear] = r.Year
		m[fieldSalary] = r.Salary
		m[fieldTitle] = r.Title
		out = append(out, m)
	}
	return json.Marshal(out)
}
