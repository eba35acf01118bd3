package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectNormalizeSplitsTechnologies(t *testing.T) {
	p := Project{Technologies: []string{"Go, Gin ,", "React"}}
	require.NoError(t, p.Normalize())
	assert.Equal(t, []string{"Go", "Gin", "React"}, []string(p.Technologies))
}

func TestSkillNormalize(t *testing.T) {
	url := "https://cdn/icon.png"
	s := Skill{Name: "Go", IconType: IconTypeEmoji, IconURL: &url}
	require.NoError(t, s.Normalize())
	assert.Equal(t, DefaultSkillIcon, s.Icon)
	assert.Equal(t, DefaultSkillColor, s.Color)
	assert.Equal(t, DefaultSkillCategory, s.Category)
	assert.Nil(t, s.IconURL)
	assert.Empty(t, s.MediaURLs())

	s.UseImage(url, "icon.png")
	require.NoError(t, s.Normalize())
	assert.Equal(t, []string{url}, s.MediaURLs())
}

func TestProfileNormalizeParsesSocial(t *testing.T) {
	p := DefaultProfile()
	p.SocialJSON = `{"github":"https://github.com/me"}`
	require.NoError(t, p.Normalize())
	assert.Equal(t, "https://github.com/me", p.Social.Github)

	p.SocialJSON = "{"
	assert.Error(t, p.Normalize())
}

func TestAssignmentMembership(t *testing.T) {
	a := Assignment{Members: []AssignmentMember{
		{UserID: "u1", MemberType: MemberTypeMember},
		{UserID: "u2", MemberType: MemberTypeLead},
	}}
	require.NoError(t, a.Normalize())

	assert.Equal(t, "|u1|u2|", a.MemberKey)
	assert.Contains(t, a.MemberKey, MemberToken("u2"))
	assert.True(t, a.HasMember("u1"))
	assert.False(t, a.HasMember("u3"))
	require.NotNil(t, a.Lead())
	assert.Equal(t, "u2", a.Lead().UserID)
	assert.Len(t, a.OtherMembers(), 1)
}

func TestStampKeepsCreatedAt(t *testing.T) {
	first := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	later := first.Add(time.Hour)

	var b Base
	b.Stamp(first)
	b.Stamp(later)
	assert.Equal(t, first, b.CreatedAt)
	assert.Equal(t, later, b.UpdatedAt)
}
