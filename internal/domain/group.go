package domain

import (
	"math/rand/v2"
	"strings"
)

const (
	DefaultGroupCapacity = 4
	DefaultCodeLength    = 6

	codeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

type GroupCode string

// NewGroupCode draws an uppercase base36 code. Not for anything secret.
func NewGroupCode(n int) GroupCode {
	if n <= 0 {
		n = DefaultCodeLength
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = codeAlphabet[rand.IntN(len(codeAlphabet))]
	}
	return GroupCode(b)
}

// NormalizeCode applies the join-form rules: surrounding space dropped, upper case.
func NormalizeCode(raw string) GroupCode {
	return GroupCode(strings.ToUpper(strings.TrimSpace(raw)))
}

type Group struct {
	Code     GroupCode `json:"code"`
	Members  []Member  `json:"members"`
	Capacity int       `json:"capacity"`
}

func (g Group) Full() bool { return len(g.Members) >= g.Capacity }
