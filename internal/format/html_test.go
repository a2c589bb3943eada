package format_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hal9000y/gmail-reply/internal/format"
)

func TestHTML2Text(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name: "paragraphs line breaks and lists",
			input: `<html><head><title>Newsletter</title><style>p { color: red; }</style></head><body>
				<p>Hi <b>Bob</b>,</p>
				<p>Line1<br>Line2</p>
				<ul>
					<li>one</li>
					<li>two</li>
				</ul>
				<script>alert(1)</script>
			</body></html>`,
			expected: "Hi Bob,\n\nLine1\nLine2\n\n- one\n- two",
		},
		{
			name: "layout tables flatten to rows",
			input: `<table id="main"><tbody>
				<tr><td>Name:</td><td>Alice</td></tr>
				<tr><td>Date:</td><td>Monday</td></tr>
			</tbody></table>`,
			expected: "Name: Alice\nDate: Monday",
		},
		{
			name:     "inline markup keeps spacing",
			input:    `<div>Please <a href="https://example.com">confirm</a> by <i>Friday</i>.<!-- tracking --></div>`,
			expected: "Please confirm by Friday.",
		},
		{
			name:     "entities are decoded",
			input:    `<p>Tom &amp; Jerry &lt;3</p>`,
			expected: "Tom & Jerry <3",
		},
		{
			name:     "plain text passes through",
			input:    "just   some\n text",
			expected: "just some text",
		},
	}

	cnv := format.Converter{}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := cnv.HTML2Text([]byte(tc.input))
			require.NoError(t, err)
			assert.Equal(t, tc.expected, result)
		})
	}
}
