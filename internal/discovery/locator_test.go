package discovery_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/tabnest/tabnest/internal/discovery"
	"github.com/tabnest/tabnest/internal/winsys"
	mock_winsys "github.com/tabnest/tabnest/internal/winsys/mocks"
)

func testContext() context.Context {
	log := zerolog.Nop()
	return log.WithContext(context.Background())
}

func TestFindAfterRepeatedAttempts(t *testing.T) {
	fake := winsys.NewFake()

	// The window appears during the 37th sleep, so the 37th scan is the
	// first one that can see it.
	var sleeps int
	loc := discovery.NewLocator(fake, discovery.Options{
		Sleep: func(time.Duration) {
			sleeps++
			if sleeps == 37 {
				fake.AddWindow(900, 4242, "Neovide", "Window Class", winsys.Rect{Width: 640, Height: 480})
			}
		},
	})

	id, attempts, err := loc.Find(testContext(), 4242, discovery.MatchTitleClass("Neovide", "Window Class"))
	require.NoError(t, err)
	assert.Equal(t, winsys.WindowID(900), id)
	assert.Equal(t, 37, attempts)
	assert.Equal(t, 37, fake.EnumCalls)
}

func TestFindTimeout(t *testing.T) {
	fake := winsys.NewFake()

	loc := discovery.NewLocator(fake, discovery.Options{
		MaxAttempts: 25,
		Sleep:       func(time.Duration) {},
	})

	id, attempts, err := loc.Find(testContext(), 4242, discovery.MatchTitleClass("Neovide", "Window Class"))
	require.ErrorIs(t, err, discovery.ErrTimeout)
	assert.Zero(t, id)
	assert.Equal(t, 25, attempts)
	assert.Equal(t, 25, fake.EnumCalls)
}

func TestFindDefaultBudget(t *testing.T) {
	fake := winsys.NewFake()

	loc := discovery.NewLocator(fake, discovery.Options{Sleep: func(time.Duration) {}})

	_, attempts, err := loc.Find(testContext(), 1, discovery.MatchTitleClass("x", "y"))
	require.ErrorIs(t, err, discovery.ErrTimeout)
	assert.Equal(t, discovery.DefaultMaxAttempts, attempts)
}

func TestFindFirstMatchWins(t *testing.T) {
	fake := winsys.NewFake()
	fake.AddWindow(10, 4242, "Neovide", "Window Class", winsys.Rect{})
	fake.AddWindow(20, 4242, "Neovide", "Window Class", winsys.Rect{})

	var inspected []winsys.WindowID
	match := func(info winsys.WindowInfo) bool {
		inspected = append(inspected, info.ID)
		return info.Title == "Neovide"
	}

	loc := discovery.NewLocator(fake, discovery.Options{Sleep: func(time.Duration) {}})

	id, _, err := loc.Find(testContext(), 4242, match)
	require.NoError(t, err)
	assert.Equal(t, winsys.WindowID(10), id)
	assert.Equal(t, []winsys.WindowID{10}, inspected, "scan should stop at the first match")
}

func TestFindChecksPID(t *testing.T) {
	fake := winsys.NewFake()
	fake.AddWindow(10, 1111, "Neovide", "Window Class", winsys.Rect{})
	fake.AddWindow(20, 2222, "Neovide", "Window Class", winsys.Rect{})

	loc := discovery.NewLocator(fake, discovery.Options{Sleep: func(time.Duration) {}})

	id, _, err := loc.Find(testContext(), 2222, discovery.MatchTitleClass("Neovide", "Window Class"))
	require.NoError(t, err)
	assert.Equal(t, winsys.WindowID(20), id)
}

func TestFindCanceled(t *testing.T) {
	fake := winsys.NewFake()
	ctx, cancel := context.WithCancel(testContext())

	var sleeps int
	loc := discovery.NewLocator(fake, discovery.Options{
		Sleep: func(time.Duration) {
			sleeps++
			if sleeps == 5 {
				cancel()
			}
		},
	})

	_, attempts, err := loc.Find(ctx, 4242, discovery.MatchTitleClass("Neovide", "Window Class"))
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 5, attempts)
}

func TestFindRetriesEnumerationErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	ws := mock_winsys.NewMockWindowSystem(ctrl)

	target := winsys.WindowInfo{ID: 7, PID: 4242, Title: "Neovide", Class: "Window Class"}
	gomock.InOrder(
		ws.EXPECT().EnumWindows(gomock.Any()).Return(errors.New("desktop busy")).Times(2),
		ws.EXPECT().EnumWindows(gomock.Any()).DoAndReturn(func(visit func(winsys.WindowInfo) bool) error {
			visit(target)
			return nil
		}),
	)

	loc := discovery.NewLocator(ws, discovery.Options{Sleep: func(time.Duration) {}})

	id, attempts, err := loc.Find(testContext(), 4242, discovery.MatchTitleClass("Neovide", "Window Class"))
	require.NoError(t, err)
	assert.Equal(t, winsys.WindowID(7), id)
	assert.Equal(t, 3, attempts)
}

func TestMatchTitleClass(t *testing.T) {
	match := discovery.MatchTitleClass("Neovide", "Window Class")

	assert.True(t, match(winsys.WindowInfo{Title: "Neovide", Class: "Window Class"}))
	assert.False(t, match(winsys.WindowInfo{Title: "neovide", Class: "Window Class"}))
	assert.False(t, match(winsys.WindowInfo{Title: "Neovide - main.go", Class: "Window Class"}))
	assert.False(t, match(winsys.WindowInfo{Title: "Neovide", Class: "GLFW30"}))
}
