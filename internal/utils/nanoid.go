package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

// codeAlphabet matches the access codes handed out to clients:
// uppercase letters and digits only, so codes can be read over the phone.
const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const codeLength = 8

func GenerateNanoID() (string, error) {
	return gonanoid.New()
}

// GenerateAccessCode returns an 8-character single-use access code.
func GenerateAccessCode() (string, error) {
	return gonanoid.Generate(codeAlphabet, codeLength)
}
