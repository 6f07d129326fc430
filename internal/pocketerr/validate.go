package pocketerr

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

type relayError struct {
	Code    json.Number `json:"code"`
	Message string      `json:"message"`
}

// ValidateRelayResponse unwraps a relay response body.
//
// A body with both response and signature yields the response value. A body
// with neither response nor error is already unwrapped and is returned as is.
// Anything else is a rejection and is returned as an *Error.
func ValidateRelayResponse(raw []byte) (json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		// not an object: nothing to unwrap
		return json.RawMessage(raw), nil
	}
	response, hasResponse := fields["response"]
	_, hasSignature := fields["signature"]
	errRaw, hasError := fields["error"]

	switch {
	case hasResponse && hasSignature:
		return response, nil
	case !hasResponse && !hasError:
		return json.RawMessage(raw), nil
	case !hasError || isNull(errRaw):
		return nil, &Error{Code: 0, Message: "relay response is not signed", kind: ErrPocketCore}
	}

	var re relayError
	dec := json.NewDecoder(bytes.NewReader(errRaw))
	dec.UseNumber()
	if err := dec.Decode(&re); err != nil {
		return nil, &Error{Code: 0, Message: fmt.Sprintf("malformed relay error: %s", errRaw), kind: ErrPocketCore}
	}
	code, err := parseCode(re.Code)
	if err != nil {
		return nil, &Error{Code: 0, Message: re.Message, kind: ErrPocketCore}
	}
	return nil, New(code, re.Message)
}

// TransactionResponse is a successfully submitted transaction.
type TransactionResponse struct {
	Logs   json.RawMessage `json:"logs"`
	TxHash string          `json:"txHash"`
}

type rawTxResponse struct {
	Code   *json.Number    `json:"code"`
	RawLog *string         `json:"raw_log"`
	Logs   json.RawMessage `json:"logs"`
	TxHash string          `json:"txhash"`
}

// ValidateTransactionResponse interprets a /v1/client/rawtx response body.
//
// A body without a non-zero code and without raw_log is a success. Code 4 is
// ErrSignatureVerificationFailed; any other failure is a generic *Error with
// raw_log as its message.
func ValidateTransactionResponse(raw []byte) (*TransactionResponse, error) {
	var r rawTxResponse
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&r); err != nil {
		return nil, fmt.Errorf("decode transaction response: %w", err)
	}

	var code Code
	if r.Code != nil {
		c, err := parseCode(*r.Code)
		if err != nil {
			return nil, fmt.Errorf("decode transaction response code: %w", err)
		}
		code = c
	}
	if code == 0 && r.RawLog == nil {
		return &TransactionResponse{Logs: r.Logs, TxHash: r.TxHash}, nil
	}

	var msg string
	if r.RawLog != nil {
		msg = *r.RawLog
	}
	if code == CodeSignatureVerificationFailed {
		return nil, &Error{Code: code, Message: msg, kind: ErrSignatureVerificationFailed}
	}
	return nil, &Error{Code: code, Message: msg, kind: ErrPocketCore}
}

func parseCode(n json.Number) (Code, error) {
	s := strings.Trim(n.String(), `"`)
	if s == "" {
		return 0, nil
	}
	c, err := json.Number(s).Int64()
	if err != nil {
		return 0, err
	}
	return Code(c), nil
}

func isNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || string(bytes.TrimSpace(raw)) == "null"
}
