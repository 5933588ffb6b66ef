package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<html><head><title>T</title><style>p{}</style></head><body>
<div id="job"><h2>Вимоги</h2><ul><li>Go</li><li>SQL</li></ul><p>one<br>two</p><!-- note --></div>
<script>var x = 1;</script>
</body></html>`

func mustDoc(t *testing.T, s string) *Document {
	t.Helper()
	doc, err := ParseString(s)
	require.NoError(t, err)
	return doc
}

func TestElementBasics(t *testing.T) {
	doc := mustDoc(t, page)

	job := doc.First("#job")
	require.NotNil(t, job)
	assert.Equal(t, "div", job.Tag())
	id, ok := job.Attr("id")
	assert.True(t, ok)
	assert.Equal(t, "job", id)

	children := job.Children()
	require.Len(t, children, 3)
	assert.Equal(t, []string{"h2", "ul", "p"}, []string{children[0].Tag(), children[1].Tag(), children[2].Tag()})

	sibs := children[0].NextSiblings()
	require.Len(t, sibs, 2)
	assert.Equal(t, "ul", sibs[0].Tag())

	items := job.Find("li")
	require.Len(t, items, 2)
	assert.Equal(t, "SQL", items[1].Text(" "))

	assert.Equal(t, "one\ntwo", children[2].Text("\n"))
	assert.Contains(t, job.HTML(), `<li>Go</li>`)
}

func TestDocumentTextSkipsScriptsAndComments(t *testing.T) {
	doc := mustDoc(t, page)
	text := doc.Text()
	assert.Contains(t, text, "Вимоги")
	assert.NotContains(t, text, "var x")
	assert.NotContains(t, text, "p{}")
	assert.NotContains(t, text, "note")
}

func TestFirstMissing(t *testing.T) {
	doc := mustDoc(t, page)
	assert.Nil(t, doc.First("h1"))
}

func TestAfter(t *testing.T) {
	doc := mustDoc(t, `<body><h1>Title <span>inner</span></h1><p>a</p><div><b>b</b></div></body>`)
	h1 := doc.First("h1")
	require.NotNil(t, h1)

	after := doc.After(h1, 10)
	tags := make([]string, 0, len(after))
	for _, el := range after {
		tags = append(tags, el.Tag())
	}
	assert.Equal(t, []string{"span", "p", "div", "b"}, tags)

	assert.Len(t, doc.After(h1, 2), 2)
	assert.Empty(t, doc.After(h1, 0))
}
