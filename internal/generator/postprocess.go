package generator

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	openFenceExpr  = regexp.MustCompile("^```[a-zA-Z]*\n?")
	closeFenceExpr = regexp.MustCompile("\n?```$")
)

// StripFences removes a leading/trailing markdown code fence if present.
func StripFences(raw string) string {
	out := strings.TrimSpace(raw)
	out = openFenceExpr.ReplaceAllString(out, "")
	out = closeFenceExpr.ReplaceAllString(out, "")
	return out
}

// LooksLikeDocument reports whether the text carries a recognizable
// document root marker.
func LooksLikeDocument(html string) bool {
	lower := strings.ToLower(html)
	return strings.Contains(lower, "<!doctype html") || strings.Contains(lower, "<html")
}

// FallbackPage is the minimal document substituted when the text service
// fails or returns something that is not a full page.
func FallbackPage(name, phone string) string {
	return fmt.Sprintf(
		"<!DOCTYPE html><html><body style='padding:20px; font-family:sans-serif;'><h1>%s</h1><p>Contact: %s</p></body></html>",
		name, phone,
	)
}

// imageGuardScript replaces any image that fails to load with a styled
// placeholder panel. Each image is instrumented at most once (the
// data-imgguard attribute) and images added after initial load are picked
// up by a MutationObserver.
const imageGuardScript = `<script>
(function () {
  function guard(img) {
    if (img.dataset.imgguard) return;
    img.dataset.imgguard = "1";
    img.addEventListener("error", function () {
      var panel = document.createElement("div");
      panel.style.cssText = "display:flex;align-items:center;justify-content:center;" +
        "background:linear-gradient(135deg,#e8eaf0,#cfd4e0);color:#667;" +
        "min-height:180px;width:100%;font-family:sans-serif;font-size:14px;border-radius:8px;";
      panel.textContent = img.alt || "Imagine indisponibila";
      if (img.parentNode) img.parentNode.replaceChild(panel, img);
    });
    if (img.complete && img.naturalWidth === 0 && img.src) {
      img.dispatchEvent(new Event("error"));
    }
  }
  function guardAll(root) {
    (root.querySelectorAll ? root.querySelectorAll("img") : []).forEach(guard);
  }
  guardAll(document);
  new MutationObserver(function (muts) {
    muts.forEach(function (m) {
      m.addedNodes.forEach(function (n) {
        if (n.nodeType !== 1) return;
        if (n.tagName === "IMG") guard(n);
        else guardAll(n);
      });
    });
  }).observe(document.documentElement, { childList: true, subtree: true });
})();
</script>`

// InjectImageGuard inserts the broken-image handler immediately before
// the closing body tag, creating one when the document lacks it.
func InjectImageGuard(html string) string {
	if strings.Contains(html, "imgguard") {
		return html
	}
	lower := strings.ToLower(html)
	if idx := strings.LastIndex(lower, "</body>"); idx >= 0 {
		return html[:idx] + imageGuardScript + "\n" + html[idx:]
	}
	return html + "\n" + imageGuardScript + "\n</body>"
}

// Postprocess runs the full pipeline on a raw model response:
// fence stripping, document validation, image-guard injection. The ok
// result is false when the text had to be discarded for the fallback.
func Postprocess(raw, name, phone string) (string, bool) {
	html := StripFences(raw)
	if !LooksLikeDocument(html) {
		return InjectImageGuard(FallbackPage(name, phone)), false
	}
	return InjectImageGuard(html), true
}
