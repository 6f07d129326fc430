package pocketerr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pocketrelay/internal/pocketerr"
)

func TestValidateRelayResponse_SignedResponseIsUnwrapped(t *testing.T) {
	got, err := pocketerr.ValidateRelayResponse([]byte(`{"response":"x","signature":"y"}`))
	require.NoError(t, err)
	assert.Equal(t, `"x"`, string(got))
}

func TestValidateRelayResponse_AlreadyUnwrapped(t *testing.T) {
	for _, body := range []string{
		`{"jsonrpc":"2.0","id":1,"result":"0x10"}`,
		`"plain"`,
		`[1,2,3]`,
	} {
		got, err := pocketerr.ValidateRelayResponse([]byte(body))
		require.NoError(t, err, body)
		assert.Equal(t, body, string(got))
	}
}

func TestValidateRelayResponse_CodeTable(t *testing.T) {
	tests := []struct {
		code int
		want error
	}{
		{45, pocketerr.ErrAppNotFound},
		{37, pocketerr.ErrDuplicateProof},
		{25, pocketerr.ErrEmptyPayloadData},
		{90, pocketerr.ErrEvidenceSealed},
		{60, pocketerr.ErrInvalidBlockHeight},
		{71, pocketerr.ErrOverService},
		{74, pocketerr.ErrRequestHash},
		{76, pocketerr.ErrUnsupportedBlockchain},
		{28, pocketerr.ErrHTTPExecution},
	}
	for _, tt := range tests {
		t.Run(tt.want.Error(), func(t *testing.T) {
			body := fmt.Sprintf(`{"error":{"code":%d,"codespace":"pocketcore","message":"m"}}`, tt.code)
			got, err := pocketerr.ValidateRelayResponse([]byte(body))
			require.Nil(t, got)
			require.ErrorIs(t, err, tt.want)
			require.ErrorIs(t, err, pocketerr.ErrPocketCore)

			var pe *pocketerr.Error
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, pocketerr.Code(tt.code), pe.Code)
			assert.Equal(t, "m", pe.Message)
			assert.Equal(t, tt.want, pe.Kind())
		})
	}
}

func TestValidateRelayResponse_UnmappedCodeIsGeneric(t *testing.T) {
	_, err := pocketerr.ValidateRelayResponse([]byte(`{"error":{"code":999,"message":"boom"}}`))

	var pe *pocketerr.Error
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, pocketerr.Code(999), pe.Code)
	assert.Equal(t, "boom", pe.Message)
	assert.Equal(t, pocketerr.ErrPocketCore, pe.Kind())
	assert.False(t, errors.Is(err, pocketerr.ErrAppNotFound))
}

func TestValidateRelayResponse_ResponseWithoutSignature(t *testing.T) {
	_, err := pocketerr.ValidateRelayResponse([]byte(`{"response":"x"}`))
	require.ErrorIs(t, err, pocketerr.ErrPocketCore)
}

func TestValidateTransactionResponse_Success(t *testing.T) {
	got, err := pocketerr.ValidateTransactionResponse([]byte(`{"height":"0","logs":null,"txhash":"ABCDEF"}`))
	require.NoError(t, err)
	assert.Equal(t, "ABCDEF", got.TxHash)
	assert.Equal(t, "null", string(got.Logs))
}

func TestValidateTransactionResponse_SignatureVerificationFailed(t *testing.T) {
	_, err := pocketerr.ValidateTransactionResponse([]byte(`{"code":4,"raw_log":"unauthorized: signature verification failed","txhash":"AB"}`))
	require.ErrorIs(t, err, pocketerr.ErrSignatureVerificationFailed)

	var pe *pocketerr.Error
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, pocketerr.CodeSignatureVerificationFailed, pe.Code)
	assert.Equal(t, "unauthorized: signature verification failed", pe.Message)
}

func TestValidateTransactionResponse_GenericFailure(t *testing.T) {
	_, err := pocketerr.ValidateTransactionResponse([]byte(`{"code":10,"raw_log":"insufficient funds","txhash":"AB"}`))

	var pe *pocketerr.Error
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, pocketerr.Code(10), pe.Code)
	assert.Equal(t, "insufficient funds", pe.Message)
	assert.False(t, errors.Is(err, pocketerr.ErrSignatureVerificationFailed))
}

func TestValidateTransactionResponse_RawLogOnlyIsFailure(t *testing.T) {
	_, err := pocketerr.ValidateTransactionResponse([]byte(`{"raw_log":"ERROR: bad tx","txhash":"AB"}`))
	require.ErrorIs(t, err, pocketerr.ErrPocketCore)
}

func TestValidateTransactionResponse_Malformed(t *testing.T) {
	_, err := pocketerr.ValidateTransactionResponse([]byte(`nope`))
	require.Error(t, err)
}
