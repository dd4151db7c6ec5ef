package index

import (
	"github.com/minio/highwayhash"
)

var key = []byte("i18nlens-source-fingerprint-key!")

// Hash returns highwayhash-64 of data
func Hash(data []byte) (uint64, error) {
	hash, err := highwayhash.New64(key)
	if err != nil {
		return 0, err
	}
	_, err = hash.Write(data)
	return hash.Sum64(), err
}
