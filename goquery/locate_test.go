package goquery_test

import (
	"strings"
	"testing"

	gq "github.com/PuerkitoBio/goquery"
	"github.com/awitkowski/articlemd"
	"github.com/awitkowski/articlemd/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseDoc(t *testing.T, html string) *gq.Document {
	t.Helper()

	doc, err := gq.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestMainContent(t *testing.T) {
	t.Parallel()

	t.Run("article tag wins unconditionally", func(t *testing.T) {
		t.Parallel()

		// The content-named sibling is far larger; article priority is absolute.
		doc := parseDoc(t, `<html><body>
			<div class="content">`+strings.Repeat("filler text ", 200)+`</div>
			<article><p>Short article body.</p></article>
		</body></html>`)

		sel, err := goquery.MainContent(doc, 0)

		require.NoError(t, err)
		assert.Equal(t, "article", gq.NodeName(sel))
		assert.Contains(t, sel.Text(), "Short article body.")
	})

	t.Run("landmark accepted above text floor", func(t *testing.T) {
		t.Parallel()

		doc := parseDoc(t, `<html><body>
			<main><p>`+strings.Repeat("substantial content ", 50)+`</p></main>
		</body></html>`)

		sel, err := goquery.MainContent(doc, 500)

		require.NoError(t, err)
		assert.Equal(t, "main", gq.NodeName(sel))
	})

	t.Run("near-empty landmark rejected", func(t *testing.T) {
		t.Parallel()

		doc := parseDoc(t, `<html><body>
			<div id="main-content">tiny</div>
			<div class="post">`+strings.Repeat("real body text ", 40)+`</div>
		</body></html>`)

		sel, err := goquery.MainContent(doc, 500)

		require.NoError(t, err)
		// Falls through to the candidate scan and picks the longest div.
		assert.Contains(t, sel.AttrOr("class", ""), "post")
	})

	t.Run("content-named candidates preferred over plain ones", func(t *testing.T) {
		t.Parallel()

		doc := parseDoc(t, `<html><body>
			<div>`+strings.Repeat("plain but long ", 100)+`</div>
			<div class="article-text">shorter but content-named, still long enough to matter</div>
		</body></html>`)

		sel, err := goquery.MainContent(doc, 500)

		require.NoError(t, err)
		assert.Equal(t, "article-text", sel.AttrOr("class", ""))
	})

	t.Run("longest candidate wins with ties to first", func(t *testing.T) {
		t.Parallel()

		doc := parseDoc(t, `<html><body>
			<section class="content-a">short</section>
			<section class="content-b">a much longer run of body text here</section>
		</body></html>`)

		sel, err := goquery.MainContent(doc, 500)

		require.NoError(t, err)
		assert.Equal(t, "content-b", sel.AttrOr("class", ""))
	})

	t.Run("no block candidates reports no content", func(t *testing.T) {
		t.Parallel()

		doc := parseDoc(t, `<html><body><p>bare paragraph</p></body></html>`)

		_, err := goquery.MainContent(doc, 0)

		require.Error(t, err)
		assert.Equal(t, articlemd.ENOCONTENT, articlemd.ErrorCode(err))
	})

	t.Run("empty document reports no content", func(t *testing.T) {
		t.Parallel()

		doc := parseDoc(t, ``)

		_, err := goquery.MainContent(doc, 0)

		require.Error(t, err)
		assert.Equal(t, articlemd.ENOCONTENT, articlemd.ErrorCode(err))
	})
}

func TestStripBoilerplate(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `<html><body>
		<nav>menu</nav>
		<header>site header</header>
		<article><p>kept</p></article>
		<script>alert(1)</script>
		<footer>footer</footer>
	</body></html>`)

	goquery.StripBoilerplate(doc)

	assert.Equal(t, 0, doc.Find("nav, header, footer, script").Length())
	assert.Equal(t, 1, doc.Find("article").Length())
}
