package records

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/pretty"

	"health-records/internal/platform/logger"
)

// Indent de 4 espacios, igual que el data.json histórico.
var documentOptions = &pretty.Options{
	Width:  80,
	Indent: "    ",
}

var errNotObject = errors.New("element is not a json object")

// DecodeIssue describe un elemento del documento que no se leyó completo.
// Con Err != nil el elemento se saltó; si no, solo se ignoraron los campos Dropped.
type DecodeIssue struct {
	Index   int
	Err     error
	Dropped []string
}

// EncodeDocument serializa la colección completa como array JSON indentado.
// Una colección vacía se escribe como "[]".
func EncodeDocument(items []Record) ([]byte, error) {
	elems := make([]json.RawMessage, 0, len(items))
	for _, r := range items {
		b, err := json.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("encode record: %w", err)
		}
		elems = append(elems, b)
	}
	return EncodeElements(elems)
}

// EncodeElements escribe elementos ya serializados tal cual (un append no
// reinterpreta lo que había antes en el documento).
func EncodeElements(elems []json.RawMessage) ([]byte, error) {
	if elems == nil {
		elems = []json.RawMessage{}
	}
	raw, err := json.Marshal(elems)
	if err != nil {
		return nil, fmt.Errorf("encode records document: %w", err)
	}
	return pretty.PrettyOptions(raw, documentOptions), nil
}

// SplitDocument separa el documento en sus elementos sin decodificarlos.
// Vacío (o solo espacios) y "null" son una colección vacía; lo que no sea un
// array JSON es error.
func SplitDocument(b []byte) ([]json.RawMessage, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return []json.RawMessage{}, nil
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(b, &elems); err != nil {
		return nil, fmt.Errorf("decode records document: %w", err)
	}
	if elems == nil {
		elems = []json.RawMessage{}
	}
	return elems, nil
}

// DecodeDocument parsea el documento persistido elemento por elemento.
// Un elemento ilegible no invalida al resto: se reporta en issues y se saltea.
// err solo se devuelve si el documento en sí no es un array.
func DecodeDocument(b []byte) (items []Record, issues []DecodeIssue, err error) {
	elems, err := SplitDocument(b)
	if err != nil {
		return nil, nil, err
	}

	items = make([]Record, 0, len(elems))
	for i, el := range elems {
		r, dropped, err := DecodeRecord(el)
		if err != nil {
			issues = append(issues, DecodeIssue{Index: i, Err: err})
			continue
		}
		if len(dropped) > 0 {
			issues = append(issues, DecodeIssue{Index: i, Dropped: dropped})
		}
		items = append(items, r)
	}
	return items, issues, nil
}

// DecodeRecord lee un registro guardado con la misma coerción que los requests
// (30.0 y "30" son la edad 30). Un opcional incoercible se ignora y se devuelve
// en dropped; name o email con tipo incorrecto hacen ilegible al elemento.
func DecodeRecord(el json.RawMessage) (r Record, dropped []string, err error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(el, &raw); err != nil || raw == nil {
		return Record{}, nil, errNotObject
	}

	name, err := stringField(raw, "name")
	if err != nil {
		return Record{}, nil, fmt.Errorf("name: %w", err)
	}
	email, err := stringField(raw, "email")
	if err != nil {
		return Record{}, nil, fmt.Errorf("email: %w", err)
	}
	if name != nil {
		r.Name = *name
	}
	if email != nil {
		r.Email = *email
	}

	verr := &ValidationError{}
	r.Age = collect(verr, "age", intField, raw)
	r.Weight = collect(verr, "weight", floatField, raw)
	r.Height = collect(verr, "height", floatField, raw)
	r.BloodPressure = collect(verr, "blood_pressure", stringField, raw)
	r.Notes = collect(verr, "notes", stringField, raw)

	for _, k := range []string{"age", "weight", "height", "blood_pressure", "notes"} {
		if _, bad := verr.Fields[k]; bad {
			dropped = append(dropped, k)
		}
	}
	return r, dropped, nil
}

// LogDecodeIssues deja un warn por elemento salteado o campo ignorado.
func LogDecodeIssues(log logger.Logger, issues []DecodeIssue) {
	for _, issue := range issues {
		if issue.Err != nil {
			log.Warn("skipping unreadable record", logger.Fields{"index": issue.Index, "err": issue.Err})
			continue
		}
		log.Warn("ignoring unreadable record fields", logger.Fields{"index": issue.Index, "fields": issue.Dropped})
	}
}
