package tagmap

import murmur "github.com/aviddiviner/go-murmur"

// AlbumIdentity hashes a release identifier into the non-negative 63-bit
// album identity domain (MurmurHash64A, seed 0).
func AlbumIdentity(raw string) int64 {
	return int64(murmur.MurmurHash64A([]byte(raw), 0) >> 1)
}
