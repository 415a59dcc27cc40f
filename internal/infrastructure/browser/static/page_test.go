package static

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"a11y-bot/internal/application/port/output"
	"a11y-bot/internal/domain/entity"
	"a11y-bot/internal/infrastructure/logger"
	"a11y-bot/internal/usecase/audit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const modalHTML = `<!DOCTYPE html>
<html>
<body>
	<a href="/home" id="home">Home</a>
	<div role="dialog" id="modal">
		<button id="first">First</button>
		<span tabindex="-1">skip</span>
		<input id="name" type="text">
	</div>
	<button id="after">After</button>
</body>
</html>`

func mustPage(t *testing.T, body string) *Page {
	t.Helper()
	page, err := NewPage("memory://test", strings.NewReader(body))
	require.NoError(t, err)
	return page
}

func TestPage_QueryAllDocumentOrder(t *testing.T) {
	page := mustPage(t, modalHTML)
	ctx := context.Background()

	els, err := page.QueryAll(ctx, "button, a")
	require.NoError(t, err)
	require.Len(t, els, 3)

	var ids []string
	for _, el := range els {
		id, _, err := page.Attribute(ctx, el, "id")
		require.NoError(t, err)
		ids = append(ids, id)
	}
	assert.Equal(t, []string{"home", "first", "after"}, ids)
}

func TestPage_QueryWithinExcludesContainer(t *testing.T) {
	page := mustPage(t, modalHTML)
	ctx := context.Background()

	modals, err := page.QueryAll(ctx, audit.ModalSelector)
	require.NoError(t, err)
	require.Len(t, modals, 1)

	focusable, err := page.QueryWithin(ctx, modals[0], audit.FocusableSelector)
	require.NoError(t, err)
	assert.Len(t, focusable, 2)
}

func TestPage_InvalidSelector(t *testing.T) {
	_, err := mustPage(t, modalHTML).QueryAll(context.Background(), "[[")
	assert.Error(t, err)
}

func TestPage_ComputedStyleFromInlineStyles(t *testing.T) {
	page := mustPage(t, `<body>
		<div style="color: rgb(10, 20, 30)">
			<p id="child" style="background-color: rgb(1, 2, 3) !important">text</p>
		</div>
		<p id="bare">text</p>
	</body>`)
	ctx := context.Background()

	child, err := page.QueryAll(ctx, "#child")
	require.NoError(t, err)
	style, err := page.ComputedStyle(ctx, child[0])
	require.NoError(t, err)
	assert.Equal(t, entity.ComputedStyle{Color: "rgb(10, 20, 30)", BackgroundColor: "rgb(1, 2, 3)"}, style)

	bare, err := page.QueryAll(ctx, "#bare")
	require.NoError(t, err)
	style, err = page.ComputedStyle(ctx, bare[0])
	require.NoError(t, err)
	assert.Equal(t, entity.ComputedStyle{}, style)
}

func TestPage_Describe(t *testing.T) {
	page := mustPage(t, `<body><ul><li>a</li><li>b</li></ul><p id="x"><span>s</span></p></body>`)
	ctx := context.Background()

	items, err := page.QueryAll(ctx, "li")
	require.NoError(t, err)
	ref, err := page.Describe(ctx, items[1])
	require.NoError(t, err)
	assert.Equal(t, entity.ElementRef{Tag: "li", Selector: "html > body > ul > li:nth-of-type(2)"}, ref)

	spans, err := page.QueryAll(ctx, "span")
	require.NoError(t, err)
	ref, err = page.Describe(ctx, spans[0])
	require.NoError(t, err)
	assert.Equal(t, "#x > span", ref.Selector)
}

func TestPage_TabOrder(t *testing.T) {
	page := mustPage(t, `<body>
		<button id="b1">1</button>
		<a id="nohref">not focusable</a>
		<input id="late" tabindex="2">
		<input id="early" tabindex="1">
		<input id="hidden" type="hidden">
		<button id="b2" disabled>2</button>
		<div id="d" tabindex="0">d</div>
	</body>`)
	ctx := context.Background()

	var visited []string
	for i := 0; i < 5; i++ {
		require.NoError(t, page.DispatchKey(ctx, "Tab"))
		active, ok, err := page.ActiveElement(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		id, _, _ := page.Attribute(ctx, active, "id")
		visited = append(visited, id)
	}

	assert.Equal(t, []string{"early", "late", "b1", "d", "early"}, visited)
	assert.ErrorIs(t, page.DispatchKey(ctx, "Enter"), ErrUnsupported)
}

func TestPage_ActiveElementDefaultsToBody(t *testing.T) {
	page := mustPage(t, modalHTML)

	active, ok, err := page.ActiveElement(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	ref, err := page.Describe(context.Background(), active)
	require.NoError(t, err)
	assert.Equal(t, "body", ref.Tag)
}

func TestPage_ForeignHandle(t *testing.T) {
	page := mustPage(t, modalHTML)
	_, err := page.Describe(context.Background(), 42)
	assert.ErrorIs(t, err, ErrForeignHandle)
}

func TestPage_FullAuditDetectsEscape(t *testing.T) {
	page := mustPage(t, modalHTML)

	report, err := audit.New(logger.NewNop()).RunAudit(context.Background(), page, entity.ConformanceResult{Skipped: true})
	require.NoError(t, err)

	issues := report.FocusTrap().Issues
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0], "<button>")
}

func TestOpener_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(path, []byte(modalHTML), 0o644))

	page, err := NewOpener(0, path).Open(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, path, page.URL())

	page, err = NewOpener(0, path).Open(context.Background(), "file://"+path)
	require.NoError(t, err)
	assert.Equal(t, "file://"+path, page.URL())

	_, err = page.Screenshot(context.Background())
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestOpener_RefusesUnlistedFiles(t *testing.T) {
	dir := t.TempDir()
	allowed := filepath.Join(dir, "page.html")
	private := filepath.Join(dir, "private.html")
	require.NoError(t, os.WriteFile(allowed, []byte(modalHTML), 0o644))
	require.NoError(t, os.WriteFile(private, []byte(`<img src="/internal/token=abc123" alt="">`), 0o600))

	opener := NewOpener(0, allowed)
	for _, target := range []string{private, "file://" + private, "/etc/definitely-missing", filepath.Join(dir, "..", filepath.Base(dir), "private.html")} {
		_, err := opener.Open(context.Background(), target)
		require.ErrorIs(t, err, output.ErrTargetNotAllowed, target)
		assert.NotContains(t, err.Error(), "no such file")
	}

	_, err := NewOpener(0).Open(context.Background(), allowed)
	assert.ErrorIs(t, err, output.ErrTargetNotAllowed)
}

func TestOpener_HTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, modalHTML)
	}))
	defer server.Close()

	page, err := NewOpener(0).Open(context.Background(), server.URL+"/")
	require.NoError(t, err)
	els, err := page.QueryAll(context.Background(), "button")
	require.NoError(t, err)
	assert.Len(t, els, 2)

	_, err = NewOpener(0).Open(context.Background(), server.URL+"/missing")
	assert.Error(t, err)
}
