package records

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

// Coerción de tipos al decodificar requests:
// - int: número entero, float sin parte decimal (30.0) o string numérico ("30")
// - float: número o string numérico finito
// - string: solo string JSON
// null siempre equivale a "no enviado". Campos desconocidos se ignoran.

var (
	errNotInteger   = errors.New("value is not a valid integer")
	errIntegerRange = errors.New("integer out of range")
	errNotNumber    = errors.New("value is not a valid number")
	errNotString    = errors.New("value is not a valid string")
)

// DecodeSubmitInput parsea el body de /submit.
// Body que no es un objeto JSON -> ErrMalformedBody; tipos incoercibles o
// name/email ausentes -> *ValidationError.
func DecodeSubmitInput(body []byte) (SubmitInput, error) {
	raw, err := decodeObject(body)
	if err != nil {
		return SubmitInput{}, err
	}

	verr := &ValidationError{}
	var in SubmitInput

	if name, err := stringField(raw, "name"); err != nil {
		verr.add("name", err.Error())
	} else if name == nil {
		verr.add("name", "field required")
	} else {
		in.Name = *name
	}

	if email, err := stringField(raw, "email"); err != nil {
		verr.add("email", err.Error())
	} else if email == nil {
		verr.add("email", "field required")
	} else {
		in.Email = *email
	}

	in.Age = collect(verr, "age", intField, raw)
	in.Weight = collect(verr, "weight", floatField, raw)
	in.Height = collect(verr, "height", floatField, raw)
	in.BloodPressure = collect(verr, "blood_pressure", stringField, raw)
	in.Notes = collect(verr, "notes", stringField, raw)

	if err := verr.orNil(); err != nil {
		return SubmitInput{}, err
	}
	return in, nil
}

// DecodeQuery parsea el body de /search. Body vacío = query sin criterios.
func DecodeQuery(body []byte) (Query, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return Query{}, nil
	}

	raw, err := decodeObject(body)
	if err != nil {
		return Query{}, err
	}

	verr := &ValidationError{}
	q := Query{
		Name: collect(verr, "name", stringField, raw),
		Age:  collect(verr, "age", intField, raw),
	}
	if err := verr.orNil(); err != nil {
		return Query{}, err
	}
	return q, nil
}

func decodeObject(body []byte) (map[string]json.RawMessage, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, ErrMalformedBody
	}
	if raw == nil {
		// body "null"
		return nil, ErrMalformedBody
	}
	return raw, nil
}

func collect[T any](verr *ValidationError, key string, parse func(map[string]json.RawMessage, string) (*T, error), raw map[string]json.RawMessage) *T {
	v, err := parse(raw, key)
	if err != nil {
		verr.add(key, err.Error())
		return nil
	}
	return v
}

func isNull(v json.RawMessage) bool {
	return len(v) == 0 || string(bytes.TrimSpace(v)) == "null"
}

func stringField(raw map[string]json.RawMessage, key string) (*string, error) {
	v, ok := raw[key]
	if !ok || isNull(v) {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return nil, errNotString
	}
	return &s, nil
}

func intField(raw map[string]json.RawMessage, key string) (*int, error) {
	v, ok := raw[key]
	if !ok || isNull(v) {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(v))
	dec.UseNumber()
	var val any
	if err := dec.Decode(&val); err != nil {
		return nil, errNotInteger
	}

	var n int
	switch t := val.(type) {
	case json.Number:
		if i, err := strconv.Atoi(t.String()); err == nil {
			n = i
			break
		}
		f, err := t.Float64()
		if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
			return nil, errNotInteger
		}
		n = int(f)
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return nil, errNotInteger
		}
		n = i
	default:
		return nil, errNotInteger
	}

	// las columnas SQL son INTEGER (32 bits)
	if n > math.MaxInt32 || n < math.MinInt32 {
		return nil, errIntegerRange
	}
	return &n, nil
}

func floatField(raw map[string]json.RawMessage, key string) (*float64, error) {
	v, ok := raw[key]
	if !ok || isNull(v) {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(v))
	dec.UseNumber()
	var val any
	if err := dec.Decode(&val); err != nil {
		return nil, errNotNumber
	}

	var s string
	switch t := val.(type) {
	case json.Number:
		s = t.String()
	case string:
		s = strings.TrimSpace(t)
	default:
		return nil, errNotNumber
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, errNotNumber
	}
	return &f, nil
}
