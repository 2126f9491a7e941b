package crypto

import (
	"crypto/cipher"
	"fmt"
	"sync"

	"github.com/awnumar/memguard"
)

// keyHandle is an algorithm-ready key: its digest and one AEAD per algorithm.
type keyHandle struct {
	digest string
	aeads  map[Algorithm]cipher.AEAD
}

func newKeyHandle(key []byte) (keyHandle, error) {
	h := keyHandle{
		digest: Digest(key),
		aeads:  make(map[Algorithm]cipher.AEAD, len(algorithms)),
	}
	for _, alg := range algorithms {
		aead, err := newAEAD(alg, key)
		if err != nil {
			return keyHandle{}, err
		}
		h.aeads[alg] = aead
	}
	return h, nil
}

// keySet holds an ordered list of keys and derives their handles on first use.
//
// Raw key bytes are sealed in memguard enclaves until derivation. Derivation
// runs at most once; concurrent first callers wait for the same result, and the
// handle table is never modified afterwards. It is safe for concurrent use.
type keySet struct {
	enclaves []*memguard.Enclave
	load     func() ([]keyHandle, error)
}

// newKeySet validates every key eagerly and seals a copy of each.
// The caller may zero the given slices after construction.
func newKeySet(keys [][]byte) (*keySet, error) {
	if len(keys) == 0 {
		return nil, ErrEmptyKeyList
	}
	for i, k := range keys {
		if len(k) != KeySize {
			return nil, fmt.Errorf("%w: key %d has %d bytes", ErrInvalidKeyLength, i, len(k))
		}
	}

	ks := &keySet{enclaves: make([]*memguard.Enclave, 0, len(keys))}
	for _, k := range keys {
		b := make([]byte, KeySize)
		copy(b, k)
		// NewEnclave wipes b.
		ks.enclaves = append(ks.enclaves, memguard.NewEnclave(b))
	}
	ks.load = sync.OnceValues(ks.derive)
	return ks, nil
}

func (ks *keySet) derive() ([]keyHandle, error) {
	handles := make([]keyHandle, 0, len(ks.enclaves))
	for i, e := range ks.enclaves {
		buf, err := e.Open()
		if err != nil {
			return nil, fmt.Errorf("crypto: failed to open key %d: %w", i, err)
		}
		h, err := newKeyHandle(buf.Bytes())
		buf.Destroy()
		if err != nil {
			return nil, err
		}
		handles = append(handles, h)
	}
	return handles, nil
}

// handles returns the derived handles in configured order.
func (ks *keySet) handles() ([]keyHandle, error) {
	return ks.load()
}

// lookup returns every handle whose digest equals digest, in configured order.
func (ks *keySet) lookup(digest string) ([]keyHandle, error) {
	all, err := ks.load()
	if err != nil {
		return nil, err
	}
	var matched []keyHandle
	for _, h := range all {
		if h.digest == digest {
			matched = append(matched, h)
		}
	}
	return matched, nil
}
