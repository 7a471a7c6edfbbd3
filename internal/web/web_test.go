package web_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/linemk/topup-store/internal/catalog"
	"github.com/linemk/topup-store/internal/domain/models"
	"github.com/linemk/topup-store/internal/service"
	"github.com/linemk/topup-store/internal/storefront"
	"github.com/linemk/topup-store/internal/web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLookup struct{ body string }

func (s stubLookup) CheckID(ctx context.Context, q service.LookupQuery) (json.RawMessage, error) {
	return json.RawMessage(s.body), nil
}

type stubSubmitter struct{}

func (stubSubmitter) Submit(ctx context.Context, order models.OrderPayload) error { return nil }

func newRenderer(t *testing.T) *web.Renderer {
	r, err := web.NewRenderer(web.Meta{StoreName: "Test Store", HeroName: "Miya", ModelPath: "/static/hero.glb"})
	require.NoError(t, err)
	return r
}

func TestRenderer_Page(t *testing.T) {
	r := newRenderer(t)
	page := storefront.NewPage(catalog.Default(), stubLookup{}, stubSubmitter{}, storefront.Options{})

	var buf bytes.Buffer
	require.NoError(t, r.Page(&buf, page.Snapshot()))

	html := buf.String()
	assert.Contains(t, html, "<title>Test Store</title>")
	assert.Contains(t, html, `id="selector"`)
	assert.Contains(t, html, `id="checker"`)
	assert.Contains(t, html, `id="checkout"`)
	assert.Contains(t, html, `id="notices"`)
	assert.Contains(t, html, "WEEKLY PASS")
	assert.Contains(t, html, "/static/hero.glb")
	assert.Contains(t, html, "Please select a package")
}

func TestRenderer_FragmentsFollowState(t *testing.T) {
	r := newRenderer(t)
	lookup := stubLookup{body: `{"data":{"id":"555","server":"2001","username":"Alice","region":"PH","shop_events":[{"title":"Starlight","goods":[{"title":"Skin","reached_limit":true}]}]}}`}
	page := storefront.NewPage(catalog.Default(), lookup, stubSubmitter{}, storefront.Options{})

	require.NoError(t, page.SelectPackage("WEEKLY PASS"))
	require.NoError(t, page.CheckID(context.Background(), "555", "2001"))
	v := page.Snapshot()

	selector, err := r.Fragment(web.FragmentSelector, v)
	require.NoError(t, err)
	assert.Contains(t, selector, "package selected")

	checker, err := r.Fragment(web.FragmentChecker, v)
	require.NoError(t, err)
	assert.Contains(t, checker, "Alice")
	assert.Contains(t, checker, "Philippines (PH)")
	assert.Contains(t, checker, "Limit reached")

	checkout, err := r.Fragment(web.FragmentCheckout, v)
	require.NoError(t, err)
	assert.Contains(t, checkout, "WEEKLY PASS")
	assert.NotContains(t, checkout, "disabled")

	notices, err := r.Fragment(web.FragmentNotices, v)
	require.NoError(t, err)
	assert.Contains(t, notices, "Lookup complete")
}

func TestRenderer_EmptyEvents(t *testing.T) {
	r := newRenderer(t)
	page := storefront.NewPage(catalog.Default(), stubLookup{body: `{"username":"Bob"}`}, stubSubmitter{}, storefront.Options{})
	require.NoError(t, page.CheckID(context.Background(), "1", "2"))

	checker, err := r.Fragment(web.FragmentChecker, page.Snapshot())
	require.NoError(t, err)
	assert.Contains(t, checker, "No shop events available.")
}

func TestRenderer_UnknownFragment(t *testing.T) {
	r := newRenderer(t)
	_, err := r.Fragment("missing", storefront.View{})
	assert.Error(t, err)
}

func TestRenderer_PageWithoutModel(t *testing.T) {
	r, err := web.NewRenderer(web.Meta{StoreName: "Test Store", HeroName: "Miya"})
	require.NoError(t, err)
	page := storefront.NewPage(catalog.Default(), stubLookup{}, stubSubmitter{}, storefront.Options{})

	var buf bytes.Buffer
	require.NoError(t, r.Page(&buf, page.Snapshot()))

	assert.NotContains(t, buf.String(), "<model-viewer")
	assert.Contains(t, buf.String(), "Miya")
}
