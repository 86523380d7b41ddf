// Package checksum computes and refreshes the MD5 digests that
// prefix each slot payload and the UserData10 region. It is the only
// place in eldensave where concurrency is introduced deliberately:
// each slot's digest is computed over a disjoint range of the save's
// raw buffer, so the per-slot digests are fanned out across
// goroutines and joined before the caller proceeds, grounded on the
// same golang.org/x/sync/errgroup dependency the wider example pack
// already carries for bounded concurrent fan-out.
package checksum

import (
	"context"
	"crypto/md5"

	"golang.org/x/sync/errgroup"
)

// Size is the length in bytes of an MD5 digest.
const Size = 16

// Sum computes the MD5 digest of payload.
func Sum(payload []byte) [Size]byte {
	return md5.Sum(payload)
}

// Verify reports whether want equals the MD5 digest of payload.
func Verify(want [Size]byte, payload []byte) bool {
	return Sum(payload) == want
}

// Region describes one checksummed range: PrefixOffset is the
// absolute offset of the 16-byte digest, PayloadOffset/PayloadLen
// describe the range the digest is computed over.
type Region struct {
	PrefixOffset  int
	PayloadOffset int
	PayloadLen    int
}

// RefreshAll recomputes the MD5 digest for every region and writes it
// back into raw at each region's PrefixOffset. Regions are processed
// concurrently via errgroup since each covers a disjoint, already
// up-to-date range of raw and no region's digest depends on another's.
func RefreshAll(raw []byte, regions []Region) error {
	g, _ := errgroup.WithContext(context.Background())
	for _, region := range regions {
		region := region
		g.Go(func() error {
			sum := Sum(raw[region.PayloadOffset : region.PayloadOffset+region.PayloadLen])
			copy(raw[region.PrefixOffset:region.PrefixOffset+Size], sum[:])
			return nil
		})
	}
	return g.Wait()
}
