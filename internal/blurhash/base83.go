package blurhash

import "errors"

// ErrInvalidCharacter is returned when decoding a string that contains a
// byte outside the base-83 alphabet.
var ErrInvalidCharacter = errors.New("blurhash: invalid base83 character")

// Alphabet is the base-83 digit set in value order.  The order is part of
// the hash format and is shared by every BlurHash implementation.
const Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz#$%*+,-.:;=?@[]^_{|}~"

var digitValue [256]int8

func init() {
	for i := range digitValue {
		digitValue[i] = -1
	}
	for i := 0; i < len(Alphabet); i++ {
		digitValue[Alphabet[i]] = int8(i)
	}
}

// EncodeBase83 renders value as exactly digits base-83 characters, most
// significant first.  Values that do not fit are truncated to their low
// digits; negative values are reinterpreted as unsigned.  digits <= 0
// yields "".
func EncodeBase83(value, digits int) string {
	if digits <= 0 {
		return ""
	}
	return string(appendBase83(make([]byte, 0, digits), value, digits))
}

func appendBase83(dst []byte, value, digits int) []byte {
	if digits <= 0 {
		return dst
	}
	start := len(dst)
	for i := 0; i < digits; i++ {
		dst = append(dst, 0)
	}
	v := uint(value)
	for i := start + digits - 1; i >= start; i-- {
		dst[i] = Alphabet[v%83]
		v /= 83
	}
	return dst
}

// DecodeBase83 parses a base-83 string into its integer value.
func DecodeBase83(s string) (int, error) {
	var v int
	for i := 0; i < len(s); i++ {
		d := digitValue[s[i]]
		if d < 0 {
			return 0, ErrInvalidCharacter
		}
		v = v*83 + int(d)
	}
	return v, nil
}
