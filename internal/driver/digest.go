package driver

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"

	"fortio.org/safecast"

	"spin/internal/version"
)

// Digest - фиксированный 256 битный хеш (совместим с source.File.Hash)
type Digest [32]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// IsZero reports an unset digest.
func (d Digest) IsZero() bool { return d == Digest{} }

// Combine строит хеш: H( content || part1 || part2 ... ). Порядок частей важен.
func Combine(content Digest, parts ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, p := range parts {
		_, _ = h.Write(p[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

func digestOf(s string) Digest { return sha256.Sum256([]byte(s)) }

// CacheKey identifies the diagnostics of one manifest: its content, the
// registry that classified its words, the tool version and the per-file
// diagnostic cap.
func CacheKey(content [32]byte, opts Options) Digest {
	var limit [8]byte
	n, err := safecast.Conv[uint64](opts.MaxDiagnostics)
	if err != nil {
		n = 0 // отрицательный лимит считаем нулём
	}
	binary.BigEndian.PutUint64(limit[:], n)
	return Combine(Digest(content),
		digestOf(opts.registry().Fingerprint()),
		digestOf(version.Version),
		sha256.Sum256(limit[:]),
	)
}
