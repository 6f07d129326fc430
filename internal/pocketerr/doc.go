// Package pocketerr maps the numeric error codes returned by Pocket nodes to
// named errors and unwraps successful relay and transaction responses.
//
// Every rejection is returned as an *Error carrying the original code and
// message. It matches its named sentinel (ErrAppNotFound, ErrOverService, ...)
// and ErrPocketCore through errors.Is.
package pocketerr
