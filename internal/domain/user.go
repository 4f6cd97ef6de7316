// Package domain contains entity without logic, just meta-data
package domain

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

const (
	MaxNameLen   = 64
	MaxPhoneLen  = 32
	MaxAvatarLen = 512

	avatarBaseURL = "https://api.dicebear.com/7.x/avataaars/svg?seed="
)

type UserProfile struct {
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	AvatarURL string `json:"avatar_url"`
}

// DefaultAvatarURL is the generated avatar used when the user supplies none.
func DefaultAvatarURL(name string) string {
	return avatarBaseURL + url.QueryEscape(name)
}

// NewUserProfile validates the auth form fields. An empty avatar falls back to
// the generated one seeded by the name.
func NewUserProfile(name, phone, avatar string) (*UserProfile, error) {
	p := &UserProfile{}
	if err := p.apply(name, phone, avatar); err != nil {
		return nil, err
	}
	if p.AvatarURL == "" {
		p.AvatarURL = DefaultAvatarURL(p.Name)
	}
	return p, nil
}

// Update replaces the profile from the edit form. An empty avatar keeps the
// current one. On error the profile is left untouched.
func (p *UserProfile) Update(name, phone, avatar string) error {
	next := *p
	if err := next.apply(name, phone, avatar); err != nil {
		return err
	}
	if next.AvatarURL == "" {
		next.AvatarURL = p.AvatarURL
	}
	*p = next
	return nil
}

func (p *UserProfile) apply(name, phone, avatar string) error {
	name = cleanField(name)
	phone = cleanField(phone)
	avatar = strings.TrimSpace(avatar)

	if name == "" {
		return fmt.Errorf("name: %w", ErrMissingField)
	}
	if phone == "" {
		return fmt.Errorf("phone: %w", ErrMissingField)
	}
	if utf8.RuneCountInString(name) > MaxNameLen {
		return fmt.Errorf("name: %w", ErrFieldTooLong)
	}
	if utf8.RuneCountInString(phone) > MaxPhoneLen {
		return fmt.Errorf("phone: %w", ErrFieldTooLong)
	}
	if len(avatar) > MaxAvatarLen {
		return fmt.Errorf("avatar: %w", ErrFieldTooLong)
	}

	p.Name = name
	p.Phone = phone
	p.AvatarURL = avatar
	return nil
}

// Initial is the fallback glyph shown when the avatar image cannot load.
func (p UserProfile) Initial() string {
	r, _ := utf8.DecodeRuneInString(p.Name)
	if r == utf8.RuneError {
		return "?"
	}
	return string(r)
}

func cleanField(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
