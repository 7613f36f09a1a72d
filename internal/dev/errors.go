package dev

import (
	"time"

	"github.com/nu7hatch/gouuid"
)

// Error is an investigation record for failures that indicate
// desynchronization rather than caller mistakes, e.g. an oracle
// fulfillment for an unknown request id.
type Error struct {
	Id        string                 `json:"id"`
	Time      time.Time              `json:"time"`
	Component string                 `json:"component"`
	Name      string                 `json:"name"`
	Error     string                 `json:"error"`
	Extra     map[string]interface{} `json:"extra"`
}

func (e Error) Slug() string {
	return "audit-error-" + e.Id
}

func NewError(component, name string, err error, extra map[string]interface{}) Error {
	u, _ := uuid.NewV4()

	return Error{
		Id:        u.String(),
		Time:      time.Now(),
		Component: component,
		Name:      name,
		Error:     err.Error(),
		Extra:     extra,
	}
}
