package domain

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUserProfile(t *testing.T) {
	tests := []struct {
		name, in, phone, avatar string
		wantErr                 error
		wantAvatar              string
	}{
		{"defaults avatar", "Anna", "+7 999 111 22 33", "", nil, DefaultAvatarURL("Anna")},
		{"keeps avatar", "Anna", "+7 999", "https://example.com/a.jpg", nil, "https://example.com/a.jpg"},
		{"empty name", "", "+7 999", "", ErrMissingField, ""},
		{"blank name", "   ", "+7 999", "", ErrMissingField, ""},
		{"empty phone", "Anna", "", "", ErrMissingField, ""},
		{"long name", strings.Repeat("a", MaxNameLen+1), "1", "", ErrFieldTooLong, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, err := NewUserProfile(tc.in, tc.phone, tc.avatar)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, p)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantAvatar, p.AvatarURL)
		})
	}
}

func TestDefaultAvatarURL_EscapesSeed(t *testing.T) {
	assert.Equal(t, "https://api.dicebear.com/7.x/avataaars/svg?seed=Anna+S%26co", DefaultAvatarURL("Anna S&co"))
}

func TestUserProfileUpdate(t *testing.T) {
	p, err := NewUserProfile("Anna", "+7 999", "https://example.com/a.jpg")
	require.NoError(t, err)

	require.NoError(t, p.Update(" Boris ", "+7 000", ""))
	assert.Equal(t, "Boris", p.Name)
	assert.Equal(t, "+7 000", p.Phone)
	assert.Equal(t, "https://example.com/a.jpg", p.AvatarURL)

	err = p.Update("", "+7 111", "")
	assert.ErrorIs(t, err, ErrMissingField)
	assert.Equal(t, "Boris", p.Name)
	assert.Equal(t, "+7 000", p.Phone)
}

func TestInitial(t *testing.T) {
	assert.Equal(t, "А", UserProfile{Name: "Анна"}.Initial())
	assert.Equal(t, "?", UserProfile{}.Initial())
}

func TestNewGroupCode(t *testing.T) {
	for i := 0; i < 100; i++ {
		code := NewGroupCode(DefaultCodeLength)
		require.Len(t, string(code), DefaultCodeLength)
		for _, c := range code {
			assert.Contains(t, codeAlphabet, string(c))
		}
	}
	assert.Len(t, string(NewGroupCode(0)), DefaultCodeLength)
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, GroupCode("ABC123"), NormalizeCode("  abc123 "))
}

func TestParsePage(t *testing.T) {
	p, ok := ParsePage("profile")
	assert.True(t, ok)
	assert.Equal(t, PageProfile, p)
	_, ok = ParsePage("admin")
	assert.False(t, ok)
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, "group-full", ErrorCode(fmt.Errorf("join ABCDEF: %w", ErrGroupFull)))
	assert.Equal(t, "missing-required-field", ErrorCode(ErrMissingField))
	assert.Equal(t, "internal", ErrorCode(fmt.Errorf("boom")))
}
