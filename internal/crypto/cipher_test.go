package crypto_test

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barrow/internal/crypto"
	"barrow/internal/domain"
)

func newSealer(t *testing.T, mode domain.Mode, km *domain.KeyMaterial) *crypto.Sealer {
	t.Helper()
	suite, err := crypto.ResolveSuite(mode)
	require.NoError(t, err)
	s, err := crypto.NewSealer(suite, km)
	require.NoError(t, err)
	return s
}

func TestSealOpen_RoundtripAllModes(t *testing.T) {
	_, km := testKeys(t)
	plaintexts := [][]byte{
		nil,
		{},
		[]byte("hello"),
		make([]byte, 1<<16),
	}

	for _, mode := range domain.Modes() {
		t.Run(string(mode), func(t *testing.T) {
			s := newSealer(t, mode, km)
			for _, pt := range plaintexts {
				id, rec, err := s.Seal(pt)
				require.NoError(t, err)
				assert.Equal(t, s.ChunkID(pt), id)

				got, err := s.Open(rec)
				require.NoError(t, err)
				assert.Equal(t, append([]byte(nil), pt...), got)
			}
		})
	}
}

func TestOpen_TamperDetected(t *testing.T) {
	_, km := testKeys(t)

	for _, mode := range []domain.Mode{
		domain.ModeAuthenticated,
		domain.ModeRepokey,
		domain.ModeRepokeyBlake2,
	} {
		t.Run(string(mode), func(t *testing.T) {
			s := newSealer(t, mode, km)
			_, rec, err := s.Seal([]byte("the quick brown fox"))
			require.NoError(t, err)

			flipCT := rec
			flipCT.Ciphertext = append([]byte(nil), rec.Ciphertext...)
			flipCT.Ciphertext[0] ^= 0x80
			_, err = s.Open(flipCT)
			require.ErrorIs(t, err, domain.ErrAuthenticationFailed)

			flipTag := rec
			flipTag.Tag = append([]byte(nil), rec.Tag...)
			flipTag.Tag[0] ^= 0x01
			_, err = s.Open(flipTag)
			require.ErrorIs(t, err, domain.ErrAuthenticationFailed)

			// The tag covers the nonce too; a flipped nonce must not
			// reach decryption.
			if len(rec.Nonce) > 0 {
				flipNonce := rec
				flipNonce.Nonce = append([]byte(nil), rec.Nonce...)
				flipNonce.Nonce[0] ^= 0x40
				_, err = s.Open(flipNonce)
				require.ErrorIs(t, err, domain.ErrAuthenticationFailed)
			}
		})
	}
}

func TestChunkID_BoundToKey(t *testing.T) {
	_, kmA := testKeys(t)
	_, kmB := testKeys(t)
	pt := []byte("identical content")

	for _, mode := range []domain.Mode{
		domain.ModeAuthenticated,
		domain.ModeRepokey,
		domain.ModeRepokeyBlake2,
	} {
		t.Run(string(mode), func(t *testing.T) {
			a1 := newSealer(t, mode, kmA)
			a2 := newSealer(t, mode, kmA)
			b := newSealer(t, mode, kmB)

			// Deterministic under one key, distinct across keys.
			assert.Equal(t, a1.ChunkID(pt), a2.ChunkID(pt))
			assert.NotEqual(t, a1.ChunkID(pt), b.ChunkID(pt))
		})
	}
}

func TestChunkID_NoneIsPlainSHA256(t *testing.T) {
	s := newSealer(t, domain.ModeNone, nil)
	want := sha256.Sum256([]byte("data"))
	assert.Equal(t, domain.ChunkID(want), s.ChunkID([]byte("data")))
}

func TestSeal_NonceUniquePerChunk(t *testing.T) {
	_, km := testKeys(t)
	s := newSealer(t, domain.ModeRepokey, km)

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		_, rec, err := s.Seal([]byte("same plaintext every time"))
		require.NoError(t, err)
		require.Len(t, rec.Nonce, 16)
		require.False(t, seen[string(rec.Nonce)], "nonce reused")
		seen[string(rec.Nonce)] = true
	}
}

func TestSeal_CiphertextDiffersFromPlaintext(t *testing.T) {
	_, km := testKeys(t)
	s := newSealer(t, domain.ModeRepokey, km)

	pt := []byte("confidential payload")
	_, rec, err := s.Seal(pt)
	require.NoError(t, err)
	assert.NotEqual(t, pt, rec.Ciphertext)

	// Unencrypted modes pass plaintext through.
	auth := newSealer(t, domain.ModeAuthenticated, km)
	_, rec, err = auth.Seal(pt)
	require.NoError(t, err)
	assert.Equal(t, pt, rec.Ciphertext)
	assert.Empty(t, rec.Nonce)
}

func TestNewSealer_MissingKeys(t *testing.T) {
	suite, err := crypto.ResolveSuite(domain.ModeRepokey)
	require.NoError(t, err)
	_, err = crypto.NewSealer(suite, nil)
	require.Error(t, err)
}

func TestSealedRecord_EncodeDecode(t *testing.T) {
	_, km := testKeys(t)
	s := newSealer(t, domain.ModeKeyfileBlake2, km)

	_, rec, err := s.Seal([]byte("frame me"))
	require.NoError(t, err)

	got, err := crypto.DecodeSealed(crypto.EncodeSealed(rec))
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	pt, err := s.Open(got)
	require.NoError(t, err)
	assert.Equal(t, []byte("frame me"), pt)
}

func TestDecodeSealed_Malformed(t *testing.T) {
	_, err := crypto.DecodeSealed([]byte{1})
	require.ErrorIs(t, err, domain.ErrInvalidRecord)

	_, err = crypto.DecodeSealed([]byte{9, 0, 0})
	require.ErrorIs(t, err, domain.ErrInvalidRecord)

	// Claims a 16-byte nonce it does not carry.
	_, err = crypto.DecodeSealed([]byte{1, 16, 32, 0xaa})
	require.ErrorIs(t, err, domain.ErrInvalidRecord)
}
