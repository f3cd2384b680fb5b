package api

import (
	"sort"
	"strings"
)

type ErrorKind int

const (
	// KindConnection covers unreachable servers and undecodable responses.
	KindConnection ErrorKind = iota
	// KindField carries server validation messages keyed by input name.
	KindField
	// KindMessage is a non-field error: {detail: …} or {non_field_errors: […]}.
	KindMessage
	// KindAuthorization marks 401/403 responses from protected endpoints.
	KindAuthorization
)

type Error struct {
	Kind   ErrorKind
	Status int
	Detail string
	Fields map[string][]string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	if len(e.Fields) > 0 {
		names := make([]string, 0, len(e.Fields))
		for name := range e.Fields {
			names = append(names, name)
		}
		sort.Strings(names)
		return "invalid fields: " + strings.Join(names, ", ")
	}
	return "Ошибка подключения к серверу"
}

func (e *Error) FieldMessages(name string) []string {
	return e.Fields[name]
}

func (e *Error) HasField(name string) bool {
	return len(e.Fields[name]) > 0
}
