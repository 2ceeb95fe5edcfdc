package templates

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/proposal-pages/internal/types"
)

func TestLoad_AllTemplates(t *testing.T) {
	for _, name := range types.Templates() {
		t.Run(string(name), func(t *testing.T) {
			page, err := Load(name)
			require.NoError(t, err)
			require.NotNil(t, page.Doc)
			require.NotNil(t, page.Bindings)
			assert.Equal(t, name, page.Name)
			assert.Equal(t, "#flash-template-loading", page.Bindings.Reveal.Loading)
			assert.Equal(t, "#flash-template-content", page.Bindings.Reveal.Content)
		})
	}
}

func TestBindings_DocumentAnchorsExist(t *testing.T) {
	for _, name := range types.Templates() {
		t.Run(string(name), func(t *testing.T) {
			page, err := Load(name)
			require.NoError(t, err)
			for _, sel := range page.Bindings.DocumentAnchors() {
				assert.Positive(t, page.Doc.Find(sel).Length(), "anchor %s missing", sel)
			}
		})
	}
}

func TestBindings_ListsShipOneCloneTemplate(t *testing.T) {
	for _, name := range types.Templates() {
		t.Run(string(name), func(t *testing.T) {
			page, err := Load(name)
			require.NoError(t, err)
			for section, l := range page.Bindings.Lists() {
				container := page.Doc.Find(l.Container)
				require.Equal(t, 1, container.Length(), "%s container", section)
				assert.Equal(t, 1, container.Find(l.Item).Length(), "%s must ship exactly one example item", section)
			}

			inc := page.Bindings.Plans.Included
			item := page.Doc.Find(page.Bindings.Plans.List.Item).First()
			assert.Equal(t, 1, item.Find(inc.Container).Find(inc.Item).Length(), "plan included items")
		})
	}
}

func TestMinimal_HasNoTeamRegion(t *testing.T) {
	b, err := LoadBindings(types.TemplateMinimal)
	require.NoError(t, err)
	assert.Empty(t, b.Team.List.Container)
	assert.NotContains(t, b.Lists(), "team")
	assert.Contains(t, b.Lists(), "faq")
}

func TestLoad_ReturnsFreshDocuments(t *testing.T) {
	first, err := Load(types.TemplateFlash)
	require.NoError(t, err)
	first.Doc.Find("#flash-introduction-title").SetText("changed")

	second, err := Load(types.TemplateFlash)
	require.NoError(t, err)
	assert.Equal(t, "Sua proposta comercial", second.Doc.Find("#flash-introduction-title").Text())
	assert.Same(t, first.Bindings, second.Bindings)
}

func TestLoad_UnknownTemplate(t *testing.T) {
	_, err := Load("neon")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownTemplate))

	_, err = Source("")
	assert.ErrorIs(t, err, ErrUnknownTemplate)
}

func TestRender(t *testing.T) {
	page, err := Load(types.TemplateMinimal)
	require.NoError(t, err)
	out, err := Render(page.Doc)
	require.NoError(t, err)
	assert.Contains(t, out, "<!DOCTYPE html>")
	assert.Contains(t, out, `id="flash-template-content"`)
}
