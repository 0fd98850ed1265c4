package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newTestPathService(t *testing.T, ws *mockWorkspace) (*PathServiceImpl, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.InfoLevel)
	svc, err := NewPathService(ws, ws, DefaultPathSettings(), zap.New(core))
	require.NoError(t, err)
	return svc, logs
}

func addDirs(ws *mockWorkspace, dirs ...string) {
	for _, d := range dirs {
		ws.dirs[d] = true
	}
}

func TestDetectRoot_SolutionFile(t *testing.T) {
	ws := newMockWorkspace()
	addDirs(ws, "/src/shop", "/src/shop/tools", "/src/shop/tools/slicer")
	ws.files["/src/shop/Shop.sln"] = nil

	svc, _ := newTestPathService(t, ws)
	got, err := svc.DetectRoot(context.Background(), "/src/shop/tools/slicer")
	require.NoError(t, err)

	assert.Equal(t, "/src/shop", got.Path)
	assert.True(t, got.Confident)
	assert.Contains(t, got.Reason, "Shop.sln")
}

func TestDetectRoot_Indicators(t *testing.T) {
	ws := newMockWorkspace()
	addDirs(ws, "/src/shop", "/src/shop/Shop.Platform", "/src/shop/Shop.WebPortal", "/src/shop/tools")

	svc, _ := newTestPathService(t, ws)
	got, err := svc.DetectRoot(context.Background(), "/src/shop/tools")
	require.NoError(t, err)
	assert.Equal(t, "/src/shop", got.Path)
	assert.True(t, got.Confident)
}

func TestDetectRoot_FallbackIsNotConfident(t *testing.T) {
	ws := newMockWorkspace()
	addDirs(ws, "/src/shop", "/src/shop/tools", "/src/shop/Shop.Platform")

	svc, logs := newTestPathService(t, ws)
	got, err := svc.DetectRoot(context.Background(), "/src/shop/tools")
	require.NoError(t, err)

	assert.Equal(t, "/src/shop", got.Path)
	assert.False(t, got.Confident)
	assert.Equal(t, 1, logs.FilterMessage("could not detect solution root, using fallback").Len())
}

func TestDetectProjectPaths(t *testing.T) {
	ws := newMockWorkspace()
	addDirs(ws,
		"/src/shop",
		"/src/shop/Shop.Platform",
		"/src/shop/Shop.Platform/Shop.ServiceContracts",
		"/src/shop/Shop.Platform/Shop.Server.DataServices",
		"/src/shop/Shop.Platform/Shop.Razor",
		"/src/shop/Shop.WebPortal",
		"/src/shop/Shop.WebPortal/Shop.WebPortal.Client",
		"/src/shop/docs",
	)

	svc, _ := newTestPathService(t, ws)
	paths, err := svc.DetectProjectPaths(context.Background(), "/src/shop")
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"Shop.ServiceContracts":    "Shop.Platform/Shop.ServiceContracts",
		"Shop.Server.DataServices": "Shop.Platform/Shop.Server.DataServices",
		"Shop.Razor":               "Shop.Platform/Shop.Razor",
		"Shop.WebPortal.Client":    "Shop.WebPortal/Shop.WebPortal.Client",
	}, paths)

	v, err := svc.ValidateDetectedPaths(context.Background(), "/src/shop", paths)
	require.NoError(t, err)
	assert.True(t, v.RootExists)
	assert.True(t, v.Valid)
	assert.Equal(t, 2, v.ExpectedFound)
}

func TestValidateDetectedPaths_Failures(t *testing.T) {
	ws := newMockWorkspace()
	addDirs(ws, "/src/shop")
	svc, _ := newTestPathService(t, ws)

	v, err := svc.ValidateDetectedPaths(context.Background(), "/missing", nil)
	require.NoError(t, err)
	assert.False(t, v.RootExists)
	assert.False(t, v.Valid)

	v, err = svc.ValidateDetectedPaths(context.Background(), "/src/shop", map[string]string{"Docs": "docs"})
	require.NoError(t, err)
	assert.True(t, v.RootExists)
	assert.False(t, v.Valid)
}

func TestNewPathService_BadPattern(t *testing.T) {
	settings := DefaultPathSettings()
	settings.ProjectPatterns = []string{"[unclosed"}
	_, err := NewPathService(newMockWorkspace(), newMockWorkspace(), settings, nil)
	require.Error(t, err)
}
