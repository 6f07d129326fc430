package signer_test

import (
	"encoding/base64"
	"encoding/json"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pocketrelay/internal/domain"
	"pocketrelay/internal/signer"
)

func exportKnown(t *testing.T, password, hint string) []byte {
	t.Helper()
	ppk, err := signer.ExportPPK(privateKey, password, hint)
	require.NoError(t, err)
	b, err := json.Marshal(ppk)
	require.NoError(t, err)
	return b
}

func TestPPK_RoundTripKnownKey(t *testing.T) {
	raw := exportKnown(t, "vapenayshal", "nayshal")

	km, err := signer.FromPPK("vapenayshal", raw)
	require.NoError(t, err)
	assert.Equal(t, privateKey, km.PrivateKey())
	assert.Equal(t, publicKey, km.PublicKey())
	assert.Equal(t, address, km.Address())
}

func TestPPK_RoundTripRandomKey(t *testing.T) {
	km, err := signer.CreateRandom()
	require.NoError(t, err)

	ppk, err := km.ExportPPK("vapenayshal", "")
	require.NoError(t, err)

	got, err := signer.FromPPKRecord("vapenayshal", ppk)
	require.NoError(t, err)
	assert.Equal(t, km.Account(), got.Account())
}

func TestPPK_ExportShape(t *testing.T) {
	ppk, err := signer.ExportPPK(privateKey, "pw", "the hint")
	require.NoError(t, err)

	assert.Equal(t, "scrypt", ppk.KDF)
	assert.Equal(t, "12", ppk.SecParam)
	assert.Equal(t, "the hint", ppk.Hint)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{32}$`), ppk.Salt)

	ct, err := base64.StdEncoding.DecodeString(ppk.CipherText)
	require.NoError(t, err)
	// hex private key plus a 16 byte GCM tag
	assert.Len(t, ct, len(privateKey)+16)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(exportKnown(t, "pw", ""), &fields))
	assert.IsType(t, "", fields["secparam"], "secparam is serialized as a string")
}

func TestPPK_FreshSaltPerExport(t *testing.T) {
	a, err := signer.ExportPPK(privateKey, "pw", "")
	require.NoError(t, err)
	b, err := signer.ExportPPK(privateKey, "pw", "")
	require.NoError(t, err)
	assert.NotEqual(t, a.Salt, b.Salt)
	assert.NotEqual(t, a.CipherText, b.CipherText)
}

func TestPPK_WrongPassword(t *testing.T) {
	raw := exportKnown(t, "right", "")

	_, err := signer.FromPPK("wrong", raw)
	require.ErrorIs(t, err, signer.ErrDecrypt)
}

func TestPPK_TamperedCiphertext(t *testing.T) {
	ppk, err := signer.ExportPPK(privateKey, "pw", "")
	require.NoError(t, err)

	ct, err := base64.StdEncoding.DecodeString(ppk.CipherText)
	require.NoError(t, err)
	ct[0] ^= 0x01
	ppk.CipherText = base64.StdEncoding.EncodeToString(ct)

	_, err = signer.FromPPKRecord("pw", ppk)
	require.ErrorIs(t, err, signer.ErrDecrypt)
}

func TestPPK_SecParamAsNumberIsAccepted(t *testing.T) {
	ppk, err := signer.ExportPPK(privateKey, "pw", "")
	require.NoError(t, err)

	raw := []byte(`{"kdf":"scrypt","salt":"` + ppk.Salt + `","secparam":12,"hint":"","ciphertext":"` + ppk.CipherText + `"}`)
	km, err := signer.FromPPK("pw", raw)
	require.NoError(t, err)
	assert.Equal(t, address, km.Address())
}

func TestPPK_InvalidRecordsRejectedBeforeDecryption(t *testing.T) {
	valid, err := signer.ExportPPK(privateKey, "pw", "")
	require.NoError(t, err)

	mutate := func(f func(p *domain.PPK)) []byte {
		p := valid
		f(&p)
		b, err := json.Marshal(p)
		require.NoError(t, err)
		return b
	}

	tests := []struct {
		name string
		raw  []byte
	}{
		{"not json", []byte(`{`)},
		{"missing kdf", []byte(`{"salt":"00","secparam":"12","ciphertext":"AA=="}`)},
		{"missing salt", []byte(`{"kdf":"scrypt","secparam":"12","ciphertext":"AA=="}`)},
		{"missing secparam", []byte(`{"kdf":"scrypt","salt":"00","ciphertext":"AA=="}`)},
		{"missing ciphertext", []byte(`{"kdf":"scrypt","salt":"00","secparam":"12"}`)},
		{"wrong kdf", mutate(func(p *domain.PPK) { p.KDF = "pbkdf2" })},
		{"non hex salt", mutate(func(p *domain.PPK) { p.Salt = "xyz" })},
		{"zero secparam", mutate(func(p *domain.PPK) { p.SecParam = "0" })},
		{"negative secparam", mutate(func(p *domain.PPK) { p.SecParam = "-4" })},
		{"secparam past key length", mutate(func(p *domain.PPK) { p.SecParam = "33" })},
		{"empty ciphertext", mutate(func(p *domain.PPK) { p.CipherText = "" })},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, signer.ValidatePPK(tt.raw), signer.ErrInvalidPPK)

			_, err := signer.FromPPK("pw", tt.raw)
			require.ErrorIs(t, err, signer.ErrInvalidPPK)
		})
	}
}

func TestParsePPK_NormalizesNumericSecParam(t *testing.T) {
	ppk, err := signer.ExportPPK(privateKey, "pw", "h")
	require.NoError(t, err)

	raw := []byte(`{"kdf":"scrypt","salt":"` + ppk.Salt + `","secparam":12,"hint":"h","ciphertext":"` + ppk.CipherText + `"}`)
	got, err := signer.ParsePPK(raw)
	require.NoError(t, err)
	assert.Equal(t, ppk, got)
}
