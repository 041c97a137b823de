package utils

import (
	"github.com/prysmaticlabs/go-bitfield"
)

func BitAtVector(b []byte, i int) bool {
	bb := b[i/8]
	return (bb & (1 << uint(i%8))) > 0
}

// BitvectorParticipation returns the share of set bits in a fixed size bitvector (eg. sync committee bits)
func BitvectorParticipation(bits []byte) float64 {
	if len(bits) == 0 {
		return 0
	}
	if len(bits) == 64 {
		bv := bitfield.Bitvector512(bits)
		return float64(bv.Count()) / float64(bv.Len())
	}

	participating := 0
	for i := 0; i < len(bits)*8; i++ {
		if BitAtVector(bits, i) {
			participating++
		}
	}
	return float64(participating) / float64(len(bits)*8)
}

// BitlistParticipation returns the number of set bits and the bitlist length of a ssz bitlist
func BitlistParticipation(bits []byte) (uint64, uint64) {
	if len(bits) == 0 || bits[len(bits)-1] == 0 {
		return 0, 0
	}
	bl := bitfield.Bitlist(bits)
	return bl.Count(), bl.Len()
}
