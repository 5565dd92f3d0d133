package errors

import (
	"errors"
	"fmt"
)

type ErrorDump struct {
	TopMessage string `json:"top_message"`
	Code       Code   `json:"code,omitempty"`

	Chain []string `json:"chain,omitempty"`

	BackendStatus  int    `json:"backend_status,omitempty"`
	BackendCode    string `json:"backend_code,omitempty"`
	BackendMessage string `json:"backend_message,omitempty"`
}

// BackendError is implemented by errors decoded from a non-2xx backend response.
type BackendError interface {
	error
	StatusCode() int
	BackendCode() string
	BackendMessage() string
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{
		TopMessage: err.Error(),
	}

	if te := As(err); te != nil {
		d.Code = te.Code()
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	var be BackendError
	if errors.As(err, &be) {
		d.BackendStatus = be.StatusCode()
		d.BackendCode = be.BackendCode()
		d.BackendMessage = be.BackendMessage()
	}

	return d
}
