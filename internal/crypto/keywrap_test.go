package crypto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barrow/internal/crypto"
	"barrow/internal/domain"
)

func testKeys(t *testing.T) (domain.RepoID, *domain.KeyMaterial) {
	t.Helper()
	id, err := crypto.GenerateRepoID()
	require.NoError(t, err)
	km, err := crypto.GenerateKeyMaterial()
	require.NoError(t, err)
	return id, km
}

func TestWrapUnwrap_Roundtrip(t *testing.T) {
	id, km := testKeys(t)

	rec, err := crypto.WrapKeys([]byte("open sesame"), id, km)
	require.NoError(t, err)
	assert.Equal(t, id.Hex(), rec.RepoID)
	assert.Equal(t, "argon2id", rec.KDF.ID)
	assert.NotEmpty(t, rec.KDF.Salt)

	got, err := crypto.UnwrapKeys([]byte("open sesame"), rec)
	require.NoError(t, err)
	defer got.Release()
	assert.Equal(t, km.EncKey, got.EncKey)
	assert.Equal(t, km.MACKey, got.MACKey)
}

func TestUnwrap_WrongPassphrase(t *testing.T) {
	id, km := testKeys(t)

	rec, err := crypto.WrapKeys([]byte("correct"), id, km)
	require.NoError(t, err)

	got, err := crypto.UnwrapKeys([]byte("wrong"), rec)
	require.ErrorIs(t, err, domain.ErrInvalidPassphrase)
	assert.Nil(t, got)
}

func TestUnwrap_TamperedRecord(t *testing.T) {
	id, km := testKeys(t)

	rec, err := crypto.WrapKeys([]byte("secret"), id, km)
	require.NoError(t, err)
	rec.Wrapped[0] ^= 0x01

	_, err = crypto.UnwrapKeys([]byte("secret"), rec)
	require.ErrorIs(t, err, domain.ErrInvalidPassphrase)
}

func TestUnwrap_MalformedRecord(t *testing.T) {
	id, km := testKeys(t)

	base, err := crypto.WrapKeys([]byte("secret"), id, km)
	require.NoError(t, err)

	// Hand-edited on-disk records must fail like a wrong passphrase, not
	// crash the unlock.
	mutations := map[string]func(rec *domain.KeyRecord){
		"truncated nonce": func(rec *domain.KeyRecord) { rec.Nonce = rec.Nonce[:4] },
		"oversized nonce": func(rec *domain.KeyRecord) { rec.Nonce = append(rec.Nonce, 0xff) },
		"empty nonce":     func(rec *domain.KeyRecord) { rec.Nonce = nil },
		"short wrapped":   func(rec *domain.KeyRecord) { rec.Wrapped = rec.Wrapped[:8] },
		"empty wrapped":   func(rec *domain.KeyRecord) { rec.Wrapped = nil },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			rec := base
			rec.Nonce = append([]byte(nil), base.Nonce...)
			rec.Wrapped = append([]byte(nil), base.Wrapped...)
			mutate(&rec)

			got, err := crypto.UnwrapKeys([]byte("secret"), rec)
			require.ErrorIs(t, err, domain.ErrInvalidPassphrase)
			assert.Nil(t, got)
		})
	}
}

func TestUnwrap_UnsupportedVersion(t *testing.T) {
	id, km := testKeys(t)

	rec, err := crypto.WrapKeys([]byte("secret"), id, km)
	require.NoError(t, err)
	rec.Version = 99

	_, err = crypto.UnwrapKeys([]byte("secret"), rec)
	require.ErrorIs(t, err, domain.ErrInvalidRecord)
}

func TestWrap_FreshSaltAndNonce(t *testing.T) {
	id, km := testKeys(t)

	a, err := crypto.WrapKeys([]byte("pw"), id, km)
	require.NoError(t, err)
	b, err := crypto.WrapKeys([]byte("pw"), id, km)
	require.NoError(t, err)

	assert.NotEqual(t, a.KDF.Salt, b.KDF.Salt)
	assert.NotEqual(t, a.Nonce, b.Nonce)
	assert.NotEqual(t, a.Wrapped, b.Wrapped)
}

func TestDeriveKEK_Deterministic(t *testing.T) {
	params, err := crypto.NewKDFParams()
	require.NoError(t, err)

	a, err := crypto.DeriveKEK([]byte("pw"), params)
	require.NoError(t, err)
	b, err := crypto.DeriveKEK([]byte("pw"), params)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := crypto.DeriveKEK([]byte("other"), params)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestDeriveKEK_UnknownKDF(t *testing.T) {
	params, err := crypto.NewKDFParams()
	require.NoError(t, err)
	params.ID = "pbkdf2"

	_, err = crypto.DeriveKEK([]byte("pw"), params)
	require.ErrorIs(t, err, domain.ErrInvalidRecord)
}

func TestKeyMaterial_Release(t *testing.T) {
	_, km := testKeys(t)
	km.Release()
	assert.Equal(t, [32]byte{}, km.EncKey)
	assert.Equal(t, [32]byte{}, km.MACKey)
	km.Release() // idempotent
}
