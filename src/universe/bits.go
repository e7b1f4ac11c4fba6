package universe

import "math/bits"

//bufLen returns the number of bytes needed to hold n cells
func bufLen(n int) int {
	return (n + 7) / 8
}

//getBit reads cell i: bit i%8 (LSB first) of byte i/8
func getBit(buf []byte, i int) bool {
	return buf[i>>3]&(1<<uint(i&7)) != 0
}

func setBit(buf []byte, i int, alive bool) {
	if alive {
		buf[i>>3] |= 1 << uint(i&7)
	} else {
		buf[i>>3] &^= 1 << uint(i&7)
	}
}

//popCount counts the set bits in buf, padding bits are always zero
func popCount(buf []byte) int {
	n := 0
	for _, b := range buf {
		n += bits.OnesCount8(b)
	}
	return n
}

//wrap maps v onto [0,n) with the euclidean modulus, works for any offset magnitude
func wrap(v int, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

func gcd(a int, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
