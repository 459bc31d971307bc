package domain_test

import (
	"net/url"
	"testing"

	"github.com/boddenberg/urbanhand-directory-go/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvatarURL(t *testing.T) {
	assert.Equal(t,
		"https://api.dicebear.com/9.x/notionists/svg?seed=FixItFast",
		domain.AvatarURL("Fix It Fast"))
	assert.Equal(t, domain.AvatarURL("Fix It Fast"), domain.AvatarURL("FixIt Fast"))

	u, err := url.Parse(domain.AvatarURL("A&B Plumbing #1"))
	require.NoError(t, err)
	assert.Equal(t, "A&BPlumbing#1", u.Query().Get("seed"))
	assert.Empty(t, u.Fragment)
	assert.Len(t, u.Query(), 1)
}
