package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileUpdateFromPairs(t *testing.T) {
	tests := []struct {
		name    string
		in      []string
		want    ProfileUpdate
		wantErr bool
	}{
		{name: "single", in: []string{"full_name=Ada Lovelace"}, want: ProfileUpdate{"full_name": "Ada Lovelace"}},
		{name: "value with equals", in: []string{"avatar_url=https://x/a?b=c"}, want: ProfileUpdate{"avatar_url": "https://x/a?b=c"}},
		{name: "trims", in: []string{" phone = +34 600 "}, want: ProfileUpdate{"phone": "+34 600"}},
		{name: "empty list", in: nil, want: ProfileUpdate{}},
		{name: "missing equals", in: []string{"full_name"}, wantErr: true},
		{name: "empty name", in: []string{"=x"}, wantErr: true},
		{name: "unknown field", in: []string{"role=admin"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ProfileUpdateFromPairs(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUser_DisplayName(t *testing.T) {
	var nilUser *User
	assert.Equal(t, "", nilUser.DisplayName())
	assert.Equal(t, "a@b.c", (&User{Email: "a@b.c"}).DisplayName())
	assert.Equal(t, "Ada", (&User{Email: "a@b.c", FullName: "Ada"}).DisplayName())
}

func TestTokenPair_Complete(t *testing.T) {
	assert.True(t, TokenPair{AccessToken: "a", RefreshToken: "r"}.Complete())
	assert.False(t, TokenPair{AccessToken: "a"}.Complete())
	assert.False(t, TokenPair{RefreshToken: "r"}.Complete())
}

func TestNewTask_WithDefaults(t *testing.T) {
	got := NewTask{Title: "write report"}.WithDefaults()

	assert.Equal(t, "Media", got.Priority)
	assert.Equal(t, "todo", got.Status)
	assert.Equal(t, "#9254DE", got.StatusBadgeColor)
	assert.Equal(t, "09:00", got.DueTime)
	require.NotNil(t, got.CreateReminder)
	assert.True(t, *got.CreateReminder)
	assert.Equal(t, 1, got.ReminderDaysBefore)

	off := false
	kept := NewTask{Title: "x", Priority: "Alta", CreateReminder: &off}.WithDefaults()
	assert.Equal(t, "Alta", kept.Priority)
	assert.False(t, *kept.CreateReminder)
}

func TestNewTask_NullableFieldsEncodeAsNull(t *testing.T) {
	b, err := json.Marshal(NewTask{Title: "x"}.WithDefaults())
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Contains(t, m, "description")
	assert.Nil(t, m["description"])
	assert.Nil(t, m["board_id"])
}

func TestNewBoard_WithDefaults(t *testing.T) {
	got := NewBoard{Name: "Home"}.WithDefaults()
	assert.Equal(t, NewBoard{Name: "Home", Color: "#1890FF", Icon: "📊", Type: "personal"}, got)
}

func TestTaskFilter_Query(t *testing.T) {
	done := false
	q := TaskFilter{BoardID: 3, Status: "todo", Completed: &done, Page: 2, PageSize: 50}.Query()

	assert.Equal(t, "board_id=3&completed=false&page=2&page_size=50&status=todo", q.Encode())
	assert.Empty(t, TaskFilter{}.Query().Encode())
}

func TestRegistration_PhoneNullWhenUnset(t *testing.T) {
	b, err := json.Marshal(Registration{Email: "a@b.c", Password: "p", FullName: "A"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"email":"a@b.c","password":"p","full_name":"A","phone":null}`, string(b))
}
