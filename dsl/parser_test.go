package dsl_test

import (
	"strings"
	"testing"

	"github.com/ByLCY/linklabel/dsl"
)

const sampleDSL = `
doc Labels v1 {
  meta {
    title: "Links"
    keywords: [
      "demo"
      "internal"
    ]
  }

  resources {
    font Body {
      src: "embed:goregular"
    }
    font Mono { src: "embed:gomono" }

    color Accent = #0A84FF
  }

  // 欢迎标签
  label welcome width 320 height 120 {
    text: "Visit example.com or https://go.dev, ${user.site} today"
    font: Body
    font-size: 17pt
    link-font: Mono
    link-color: Accent
    underline: true
    wrap: break-word
    max-lines: 0
  }

  label footer width 80mm height 20mm {
    text {
      "line one"
      "line two"
    }
  }
}
`

func TestParseDocument(t *testing.T) {
	doc, err := dsl.ParseString(sampleDSL)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if doc.Name != "Labels" {
		t.Fatalf("expected document name Labels, got %s", doc.Name)
	}
	if doc.Version != "v1" {
		t.Fatalf("expected version v1, got %s", doc.Version)
	}
	if len(doc.Sections) != 4 {
		t.Fatalf("expected 4 sections, got %d", len(doc.Sections))
	}
	kinds := []string{}
	for _, s := range doc.Sections {
		kinds = append(kinds, s.Kind())
	}
	if got := strings.Join(kinds, ","); got != "meta,resources,label,label" {
		t.Fatalf("unexpected section kinds: %s", got)
	}

	meta := doc.Sections[0].Meta
	title := meta.Block.Statements[0].Assignment
	if title == nil || title.Key != "title" || title.Value.Text() != "Links" {
		t.Fatalf("expected title assignment, got %+v", meta.Block.Statements[0])
	}
	keywords := meta.Block.Statements[1].Assignment
	if got := keywords.Value.Strings(); len(got) != 2 || got[0] != "demo" {
		t.Fatalf("unexpected keywords: %v", got)
	}

	res := doc.Sections[1].Resources
	if len(res.Block.Statements) != 3 {
		t.Fatalf("expected 3 resource statements, got %d", len(res.Block.Statements))
	}
	color := res.Block.Statements[2].Command
	if color == nil || color.Name != "color" || tokensToString(color.Args) != "Accent = #0A84FF" {
		t.Fatalf("unexpected color declaration: %+v", res.Block.Statements[2])
	}
}

func TestParseLabels(t *testing.T) {
	doc, err := dsl.ParseString(sampleDSL)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	labels := doc.Labels()
	if len(labels) != 2 {
		t.Fatalf("expected 2 labels, got %d", len(labels))
	}

	welcome := labels[0]
	if welcome.Name != "welcome" {
		t.Fatalf("expected label welcome, got %s", welcome.Name)
	}
	if w, ok := welcome.Param("width"); !ok || w != "320" {
		t.Fatalf("unexpected width param: %q %v", w, ok)
	}
	if h, _ := welcome.Param("height"); h != "120" {
		t.Fatalf("unexpected height param: %q", h)
	}
	if _, ok := welcome.Param("depth"); ok {
		t.Fatalf("unexpected depth param")
	}

	props := map[string]string{}
	for _, st := range welcome.Block.Statements {
		if st.Assignment != nil {
			props[st.Assignment.Key] = st.Assignment.Value.Text()
		}
	}
	want := map[string]string{
		"text":       "Visit example.com or https://go.dev, ${user.site} today",
		"font":       "Body",
		"font-size":  "17pt",
		"link-font":  "Mono",
		"link-color": "Accent",
		"underline":  "true",
		"wrap":       "break-word",
		"max-lines":  "0",
	}
	for k, v := range want {
		if props[k] != v {
			t.Fatalf("property %s: expected %q, got %q", k, v, props[k])
		}
	}

	footer := labels[1]
	if w, _ := footer.Param("width"); w != "80mm" {
		t.Fatalf("unexpected footer width: %q", w)
	}
	textCmd := footer.Block.Statements[0].Command
	if textCmd == nil || textCmd.Name != "text" {
		t.Fatalf("expected text command, got %+v", footer.Block.Statements[0])
	}
	if got := strings.Join(textCmd.Block.TextLines(), "|"); got != "line one|line two" {
		t.Fatalf("unexpected text lines: %s", got)
	}
}

func TestParseRejectsUnknownSection(t *testing.T) {
	if _, err := dsl.ParseString(`doc X v1 { page A4 { } }`); err == nil {
		t.Fatalf("expected error for unknown section")
	}
}

func tokensToString(parts []*dsl.Lexeme) string {
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		values = append(values, p.Value)
	}
	return strings.Join(values, " ")
}
