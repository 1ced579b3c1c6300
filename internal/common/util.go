package common

// WipeByteArray overwrites b with zeros. Used to drop plaintext secrets
// read from the terminal as soon as they have been sent.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
