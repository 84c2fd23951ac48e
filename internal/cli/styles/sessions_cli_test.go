package styles_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tabnest/tabnest/internal/cli/styles"
	"github.com/tabnest/tabnest/internal/config"
	"github.com/tabnest/tabnest/internal/session"
	"github.com/tabnest/tabnest/internal/tabs"
)

func TestSessionsCLIRenderer(t *testing.T) {
	theme := styles.NewTheme(config.DefaultConfig())
	r := styles.NewSessionsCLIRenderer(theme)

	out := r.RenderEmptyList()
	require.Contains(t, out, "No saved sessions found.")

	now := time.Now().UTC()
	states := []*session.State{
		{
			ID:        "20260210_120000_abcd",
			UpdatedAt: now,
			Tabs: []tabs.TabSnapshot{
				{ProfileName: "Default"},
				{ProfileName: "Work"},
				{ProfileName: "Notes"},
			},
		},
		{
			ID:        "20260209_090000_ef01",
			UpdatedAt: now.Add(-2 * time.Hour),
			Tabs:      []tabs.TabSnapshot{{ProfileName: "Default"}},
		},
	}
	out = r.RenderList(states, 20)
	require.Contains(t, out, "Sessions")
	require.Contains(t, out, "20260210_120000_abcd")
	require.Contains(t, out, "3 tabs")
	require.Contains(t, out, "next restore")
	require.Contains(t, out, "2h ago")

	require.Contains(t, r.RenderRestoreQueued("20260209_090000_ef01"), "restored on the next launch")
	require.Contains(t, r.RenderDeleted("20260209_090000_ef01"), "deleted")

	errOut := r.RenderError(errors.New("boom"))
	require.Contains(t, errOut, "boom")
}

func TestRelativeTime(t *testing.T) {
	now := time.Now()
	cases := []struct {
		t    time.Time
		want string
	}{
		{now.Add(-10 * time.Second), "just now"},
		{now.Add(-5 * time.Minute), "5m ago"},
		{now.Add(-3 * time.Hour), "3h ago"},
		{now.Add(-50 * time.Hour), "2d ago"},
		{now.Add(-9 * 24 * time.Hour), "1w ago"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, styles.RelativeTime(tc.t))
	}
}
