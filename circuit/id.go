package circuit

import (
	"crypto/sha256"
	"encoding/hex"
)

// ID is the content-addressed identity of a circuit: the hex-encoded sha256
// of its canonical text form. Independently sampled circuits with identical
// content share one ID, which is what makes pool deduplication possible.
type ID string

func contentID(c *Circuit) ID {
	sum := sha256.Sum256([]byte(c.String()))

	return ID(hex.EncodeToString(sum[:]))
}
