package services

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"
)

// accessCodeAlphabet excludes visually ambiguous characters (0/O, 1/I) so
// codes survive being read over the phone or copied from paper.
const accessCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const accessCodeGroupLen = 4

// accessCodeRegex matches the RX-XXXX-XXXX format over the unambiguous alphabet
var accessCodeRegex = regexp.MustCompile(`^RX-[A-HJ-NP-Z2-9]{4}-[A-HJ-NP-Z2-9]{4}$`)

// GenerateAccessCode returns a fresh verification code in the form
// RX-XXXX-XXXX. Codes are drawn from a uniform non-cryptographic source;
// they are human-readable references, not secrets, and global uniqueness is
// enforced by the persistence layer, not here. Call once per finalize action
// and attach the result to the prescription before rendering, so preview,
// print and export all show the same code.
func GenerateAccessCode() string {
	return fmt.Sprintf("RX-%s-%s", randomCodeGroup(), randomCodeGroup())
}

func randomCodeGroup() string {
	var b strings.Builder
	b.Grow(accessCodeGroupLen)
	for i := 0; i < accessCodeGroupLen; i++ {
		b.WriteByte(accessCodeAlphabet[rand.IntN(len(accessCodeAlphabet))])
	}
	return b.String()
}

// IsValidAccessCode checks whether a string is a well-formed access code
func IsValidAccessCode(code string) bool {
	return accessCodeRegex.MatchString(code)
}
