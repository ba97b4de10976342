package crypto

import (
	"fmt"

	"barrow/internal/domain"
)

// Binary framing for sealed chunks, used by the storage engine when it
// persists chunk blobs: version || nonceLen || tagLen || nonce || tag ||
// ciphertext. Lengths are single bytes; both nonce and tag are far below 255.
const sealedRecordVersion = 1

// EncodeSealed packs rec into its binary frame.
func EncodeSealed(rec domain.SealedChunk) []byte {
	out := make([]byte, 0, 3+len(rec.Nonce)+len(rec.Tag)+len(rec.Ciphertext))
	out = append(out, sealedRecordVersion, byte(len(rec.Nonce)), byte(len(rec.Tag)))
	out = append(out, rec.Nonce...)
	out = append(out, rec.Tag...)
	out = append(out, rec.Ciphertext...)
	return out
}

// DecodeSealed reverses EncodeSealed. Truncated or unversioned input is
// rejected before any cryptographic processing.
func DecodeSealed(b []byte) (domain.SealedChunk, error) {
	if len(b) < 3 {
		return domain.SealedChunk{}, fmt.Errorf("%w: sealed record too short", domain.ErrInvalidRecord)
	}
	if b[0] != sealedRecordVersion {
		return domain.SealedChunk{}, fmt.Errorf("%w: unsupported sealed record version %d",
			domain.ErrInvalidRecord, b[0])
	}
	nonceLen, tagLen := int(b[1]), int(b[2])
	rest := b[3:]
	if len(rest) < nonceLen+tagLen {
		return domain.SealedChunk{}, fmt.Errorf("%w: sealed record truncated", domain.ErrInvalidRecord)
	}
	rec := domain.SealedChunk{
		Ciphertext: append([]byte(nil), rest[nonceLen+tagLen:]...),
		Tag:        append([]byte(nil), rest[nonceLen:nonceLen+tagLen]...),
	}
	if nonceLen > 0 {
		rec.Nonce = append([]byte(nil), rest[:nonceLen]...)
	}
	return rec, nil
}
