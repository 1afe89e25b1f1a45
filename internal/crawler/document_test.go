package crawler

import (
	"strings"
	"testing"
)

func TestParseDocument(t *testing.T) {
	t.Parallel()

	t.Run("finds elements by tag in document order", func(t *testing.T) {
		t.Parallel()

		doc, err := ParseDocument(strings.NewReader(`<html><body>
			<img src="/first.png">
			<p><img src="/second.png"></p>
			<img src="/third.png">
		</body></html>`))
		if err != nil {
			t.Fatalf("failed to parse: %v", err)
		}

		imgs := doc.ElementsByTag("img")
		if len(imgs) != 3 {
			t.Fatalf("expected 3 img elements, got %d", len(imgs))
		}

		want := []string{"/first.png", "/second.png", "/third.png"}
		for i, img := range imgs {
			src, ok := img.Attr("src")
			if !ok {
				t.Fatalf("img %d has no src", i)
			}
			if src != want[i] {
				t.Errorf("img %d: expected src %q, got %q", i, want[i], src)
			}
		}
	})

	t.Run("matches uppercase tag names", func(t *testing.T) {
		t.Parallel()

		doc, err := ParseDocument(strings.NewReader(`<html><body><IMG SRC="/a.png"></body></html>`))
		if err != nil {
			t.Fatalf("failed to parse: %v", err)
		}

		if len(doc.ElementsByTag("img")) != 1 {
			t.Error("expected uppercase IMG to match img lookup")
		}
	})

	t.Run("missing attribute reports absence", func(t *testing.T) {
		t.Parallel()

		doc, err := ParseDocument(strings.NewReader(`<html><body><a>no href</a></body></html>`))
		if err != nil {
			t.Fatalf("failed to parse: %v", err)
		}

		anchors := doc.ElementsByTag("a")
		if len(anchors) != 1 {
			t.Fatalf("expected 1 anchor, got %d", len(anchors))
		}
		if _, ok := anchors[0].Attr("href"); ok {
			t.Error("expected href to be absent")
		}
	})

	t.Run("text gathers descendant text nodes", func(t *testing.T) {
		t.Parallel()

		doc, err := ParseDocument(strings.NewReader(`<html><body>
			<script>var a = 'one'; // <b>bold</b> is not parsed inside script
			</script>
			<div>outer <span>inner</span></div>
		</body></html>`))
		if err != nil {
			t.Fatalf("failed to parse: %v", err)
		}

		scripts := doc.ElementsByTag("script")
		if len(scripts) != 1 {
			t.Fatalf("expected 1 script, got %d", len(scripts))
		}
		if !strings.Contains(scripts[0].Text(), "var a = 'one';") {
			t.Errorf("unexpected script text %q", scripts[0].Text())
		}

		divs := doc.ElementsByTag("div")
		if len(divs) != 1 {
			t.Fatalf("expected 1 div, got %d", len(divs))
		}
		if got := divs[0].Text(); got != "outer inner" {
			t.Errorf("expected %q, got %q", "outer inner", got)
		}
	})

	t.Run("malformed html yields best-effort tree", func(t *testing.T) {
		t.Parallel()

		doc, err := ParseDocument(strings.NewReader(`<html><body><img src="/a.png"<p>broken`))
		if err != nil {
			t.Fatalf("malformed input should not error: %v", err)
		}
		// Whatever the recovery produced, querying must not panic.
		_ = doc.ElementsByTag("img")
		_ = doc.ElementsByTag("p")
	})
}
