package crypto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pocketrelay/internal/crypto"
)

func TestAddressFromPublicKey_KnownVector(t *testing.T) {
	addr, err := crypto.AddressFromPublicKey("b243b27bc9fbe5580457a46370ae5f03a6f6753633e51efdaf2cf534fdc26cc3")
	require.NoError(t, err)
	assert.Equal(t, "b50a6e20d3733fb89631ae32385b3c85c533c560", addr)

	again, err := crypto.AddressFromPublicKey("B243B27BC9FBE5580457A46370AE5F03A6F6753633E51EFDAF2CF534FDC26CC3")
	require.NoError(t, err)
	assert.Equal(t, addr, again)
}

func TestAddressFromPublicKey_BadHex(t *testing.T) {
	_, err := crypto.AddressFromPublicKey("nothex")
	require.Error(t, err)
}

func TestMarshalJSON_KeepsOrderAndDoesNotEscapeHTML(t *testing.T) {
	v := struct {
		B string `json:"b"`
		A string `json:"a"`
	}{B: "<&>", A: "x"}

	b, err := crypto.MarshalJSON(v)
	require.NoError(t, err)
	assert.Equal(t, `{"b":"<&>","a":"x"}`, string(b))
}

func TestSHA3Hex_KnownVector(t *testing.T) {
	v := struct {
		A string `json:"a"`
	}{A: "<&>"}

	h, err := crypto.SHA3Hex(v)
	require.NoError(t, err)
	assert.Equal(t, "e0913f8bfaef5905f48f0de5b1c6244bbfcafb6221bf25952a31fc808962fbe2", h)
}

func TestSHA3_Empty(t *testing.T) {
	assert.Equal(t, "a7ffc6f8bf1ed76651c14756a061d662f580ff4de43b49fa82d80a4b80f8434a", crypto.Hex(crypto.SHA3(nil)))
}

func TestMarshalJSON_WritesLineSeparatorsRaw(t *testing.T) {
	b, err := crypto.MarshalJSON(map[string]string{"k": "a\u2028b\u2029c\\u2028"})
	require.NoError(t, err)
	assert.Equal(t, "{\"k\":\"a\u2028b\u2029c\\\\u2028\"}", string(b))
}
