package jsonrepair

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepairIsNoOpOnValidJSON(t *testing.T) {
	inputs := []string{
		`{}`,
		`[]`,
		`{"score": 5}`,
		`{"a": [1, 2, {"b": null}], "c": "x, y: z", "d": true}`,
		`[{"k": "it's fine"}, {"k": "// not a comment"}, {"k": "/* nor this */"}]`,
		"{\n  \"nested\": {\n    \"deep\": [\"\\\"quoted\\\"\", \"tab\\tescape\"]\n  }\n}",
		`{"unicode": "naïve café ✓", "num": -1.5e3}`,
		`"just a string"`,
		`42`,
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			require.True(t, json.Valid([]byte(in)), "fixture must be valid JSON")
			assert.Equal(t, in, Repair(in))
		})
	}
}

func TestStripCommentsPreservesStringContent(t *testing.T) {
	in := `{
  // leading comment with a "quote" and an apostrophe's
  "url": "https://example.com/path", /* block */
  "note": "keep /* this */ and // this"
}`
	out := StripComments(in)

	assert.NotContains(t, out, "leading comment")
	assert.NotContains(t, out, "block")
	assert.Contains(t, out, `"https://example.com/path"`)
	assert.Contains(t, out, `"keep /* this */ and // this"`)

	var doc map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "keep /* this */ and // this", doc["note"])
}

func TestStripCommentsKeepsSingleQuotedStrings(t *testing.T) {
	in := `{'url': 'http://x.com', 'score': 5} // trailing`
	assert.Equal(t, `{'url': 'http://x.com', 'score': 5} `, StripComments(in))

	got, err := ParseModelJSON[map[string]any](`{'url': 'http://example.com', 'score': 5}`)
	require.NoError(t, err)
	assert.Equal(t, "http://example.com", got["url"])
	assert.EqualValues(t, 5, got["score"])
}

func TestQuoteKeys(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"flat", `{score: 5, label: "ok"}`, `{"score": 5, "label": "ok"}`},
		{"nested", `{a: {b: {c: 1}}}`, `{"a": {"b": {"c": 1}}}`},
		{"array of objects", `[{type: "x"}, {type: "y"}]`, `[{"type": "x"}, {"type": "y"}]`},
		{"inside string untouched", `{"text": "a, b: c"}`, `{"text": "a, b: c"}`},
		{"already quoted", `{"a": 1}`, `{"a": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, QuoteKeys(tt.in))
		})
	}
}

func TestNormalizeQuotes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"single quoted pairs", `{'a': 'b'}`, `{"a": "b"}`},
		{"apostrophe in double quotes", `{"a": "it's here"}`, `{"a": "it's here"}`},
		{"double quote inside single", `{'a': 'say "hi"'}`, `{"a": "say \"hi\""}`},
		{"escaped apostrophe", `{'a': 'don\'t'}`, `{"a": "don't"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeQuotes(tt.in)
			assert.Equal(t, tt.want, got)
			assert.True(t, json.Valid([]byte(got)))
		})
	}
}

func TestRemoveTrailingCommas(t *testing.T) {
	assert.Equal(t, `{"a": [1, 2 ], "b": 3 }`, RemoveTrailingCommas(`{"a": [1, 2, ], "b": 3, }`))
	assert.Equal(t, `{"a": "x, }"}`, RemoveTrailingCommas(`{"a": "x, }"}`))
}

func TestEscapeControlChars(t *testing.T) {
	in := "{\"a\": \"line one\nline two\tend\r\"}\n"
	out := EscapeControlChars(in)

	assert.Equal(t, "{\"a\": \"line one\\nline two\\tend\\r\"}\n", out)
	assert.True(t, json.Valid([]byte(out)))
}

func TestCloseUnclosedBracketsRecoversTruncation(t *testing.T) {
	out := CloseUnclosedBrackets(`{"a": {"b": [1,2`)
	assert.Equal(t, `{"a": {"b": [1,2]}}`, out)

	var doc struct {
		A struct {
			B []int `json:"b"`
		} `json:"a"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, []int{1, 2}, doc.A.B)
}

func TestCloseUnclosedBracketsEdgeCases(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"unterminated string", `{"a": "trunc`, `{"a": "trunc"}`},
		{"dangling comma", `{"a": [1, 2,`, `{"a": [1, 2]}`},
		{"dangling colon", `{"a":`, `{"a": null}`},
		{"brackets inside strings ignored", `{"a": "[{"`, `{"a": "[{"}`},
		{"dangling backslash in string", `{"a": "abc\`, `{"a": "abc"}`},
		{"closer skips an open array", `{"a": [1, 2}`, `{"a": [1, 2]}`},
		{"closer skips nested opens", `{"a": [{"b": 1]}`, `{"a": [{"b": 1}]}`},
		{"stray closer dropped", `{"a": 1}}`, `{"a": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CloseUnclosedBrackets(tt.in)
			assert.Equal(t, tt.want, got)
			assert.True(t, json.Valid([]byte(got)), "got %s", got)
		})
	}
}

func TestRepairCombined(t *testing.T) {
	in := `{
  // model commentary
  score: 72,
  label: 'strong',
  factors: [
    {type: 'rare_skill', evidence: "it's \"rare\"",},
  ],
  summary: "first line
second line"`

	out := Repair(in)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc), "repaired: %s", out)
	assert.EqualValues(t, 72, doc["score"])
	assert.Equal(t, "strong", doc["label"])
	assert.Equal(t, "first line\nsecond line", doc["summary"])
	factors := doc["factors"].([]any)
	require.Len(t, factors, 1)
	assert.Equal(t, `it's "rare"`, factors[0].(map[string]any)["evidence"])
}
