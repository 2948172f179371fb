package theme

import (
	"encoding/json"
	"strings"
)

// DefaultStorageKey is the localStorage key used by BootstrapScript.
const DefaultStorageKey = "folio-theme"

const bootstrapTemplate = `(function () {
  var KEY = __KEY__;
  var root = document.documentElement;
  var listeners = [];
  function valid(t) { return t === "light" || t === "dark"; }
  function stored() {
    try { var v = localStorage.getItem(KEY); return valid(v) ? v : null; } catch (e) { return null; }
  }
  function preferred() {
    return window.matchMedia && window.matchMedia("(prefers-color-scheme: dark)").matches ? "dark" : "light";
  }
  function apply(t) {
    root.classList.remove("light", "dark");
    root.classList.add(t);
    root.setAttribute("data-theme", t);
    root.style.colorScheme = t;
  }
  var server = root.getAttribute("data-theme");
  var current = stored() || (valid(server) ? server : null) || preferred();
  apply(current);
  function persist(t) {
    var meta = document.querySelector('meta[name="csrf-token"]');
    var body = new URLSearchParams({ theme: t });
    fetch("/theme/", {
      method: "POST",
      credentials: "same-origin",
      headers: { "X-CSRF-Token": meta ? meta.content : "", "HX-Request": "true" },
      body: body
    }).catch(function () {});
  }
  window.folioTheme = {
    get: function () { return current; },
    set: function (t) {
      if (!valid(t)) { throw new Error("invalid theme: " + t); }
      try { localStorage.setItem(KEY, t); } catch (e) {}
      persist(t);
      if (t === current) { return; }
      current = t;
      apply(t);
      listeners.slice().forEach(function (fn) { fn(t); });
    },
    toggle: function () { this.set(current === "dark" ? "light" : "dark"); return current; },
    subscribe: function (fn) {
      listeners.push(fn);
      return function () { listeners = listeners.filter(function (l) { return l !== fn; }); };
    }
  };
})();`

// BootstrapScript returns the inline script that applies the stored or
// preferred theme before first paint and exposes window.folioTheme. An
// empty key selects DefaultStorageKey.
func BootstrapScript(key string) string {
	if key == "" {
		key = DefaultStorageKey
	}
	quoted, _ := json.Marshal(key)
	return strings.Replace(bootstrapTemplate, "__KEY__", string(quoted), 1)
}
