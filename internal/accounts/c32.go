package accounts

import (
	"crypto/sha256"
	"math/big"
	"strings"
)

// c32 implements Stacks' c32check address encoding (a Crockford base32
// variant with a version byte and a 4-byte double-sha256 checksum). No
// example in the retrieval pack implements or imports a Stacks address
// codec — internal/txcodec and internal/clarity are explicitly stubbed
// per spec §6 — so this stays on the standard library rather than
// inventing a third-party dependency that doesn't exist in the corpus.
const c32Alphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

func c32Address(version byte, hash160 []byte) string {
	payload := append([]byte{version}, hash160...)
	checksum := doubleSha256(payload)[:4]
	data := append(append([]byte{}, hash160...), checksum...)

	encoded := c32Encode(data)
	return "S" + string(c32CheckPrefix(version)) + encoded
}

// c32CheckPrefix maps the version byte to the single c32 character
// c32check prepends (e.g. 26 -> 'T'), matching the table used by every
// Stacks address version.
func c32CheckPrefix(version byte) byte {
	return c32Alphabet[version%32]
}

func doubleSha256(b []byte) []byte {
	first := sha256.Sum256(b)
	second := sha256.Sum256(first[:])
	return second[:]
}

func c32Encode(data []byte) string {
	n := new(big.Int).SetBytes(data)
	if n.Sign() == 0 {
		return strings.Repeat("0", (len(data)*8+4)/5)
	}

	var out []byte
	base := big.NewInt(32)
	mod := new(big.Int)
	for n.Sign() > 0 {
		n.DivMod(n, base, mod)
		out = append(out, c32Alphabet[mod.Int64()])
	}

	// Preserve leading zero-bytes as leading '0' characters, matching
	// c32's requirement that encoding round-trips through leading zeros.
	for _, b := range data {
		if b != 0 {
			break
		}
		out = append(out, '0')
	}

	reverse(out)
	return string(out)
}

func reverse(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}
