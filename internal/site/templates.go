package site

// layoutTemplate wraps every page. Each page kind supplies a "main" block.
const layoutTemplate = `<!DOCTYPE html>
<html lang="{{.Site.Language}}" data-theme="light">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{if .Title}}{{.Title}} · {{end}}{{.Site.Title}}</title>
  {{if .Description}}<meta name="description" content="{{.Description}}">{{end}}
  <link rel="stylesheet" href="{{.Assets.Style}}">
</head>
<body{{if .LiveReload}} data-live-reload="{{.LiveReload}}"{{end}} data-page="{{.PagePath}}">
  <div class="reading-bar" id="reading-bar"></div>
  <header class="site-header">
    <a class="site-title" href="index.html">{{.Site.Title}}</a>
    <nav class="site-nav">
      {{range .Nav}}<a href="{{.Href}}"{{if .Active}} class="active"{{end}}{{if .External}} target="_blank" rel="noopener"{{end}}>{{.Title}}</a>
      {{end}}
      {{if .Site.GitHubURL}}<a href="{{.Site.GitHubURL}}" target="_blank" rel="noopener">GitHub</a>{{end}}
    </nav>
    <input type="search" id="search-input" placeholder="Suchen…" autocomplete="off">
    <button class="theme-toggle" id="theme-toggle" aria-label="Farbschema wechseln">◐</button>
  </header>
  <div class="search-results" id="search-results" hidden></div>
  <div class="layout">
    {{if .TOC}}<aside class="toc" id="toc"><h2>Inhalt</h2>{{.TOC}}</aside>{{end}}
    <main class="content">
      {{template "main" .}}
    </main>
  </div>
  <footer class="site-footer">
    {{if .Site.Author}}<span>{{.Site.Author}}</span>{{end}}
    <a href="glossar.html">Glossar</a>
    <a href="{{.ReferencesPage}}">Literatur</a>
  </footer>
  <div class="tooltip" id="glossary-tooltip" role="tooltip" hidden></div>
  <script src="{{.Assets.Script}}"></script>
</body>
</html>`

const indexMain = `{{define "main"}}
<section class="hero">
  <h1>{{.Site.Title}}</h1>
  {{if .Site.Subtitle}}<p class="subtitle">{{.Site.Subtitle}}</p>{{end}}
  {{if .Site.Author}}<p class="author">{{.Site.Author}}</p>{{end}}
  <p class="stats">{{.WordCount}} Wörter · ca. {{.ReadingTime}} Min. Lesezeit</p>
  <a class="resume" id="resume-reading" hidden>Weiterlesen</a>
</section>
<ul class="page-list">
  {{range .Pages}}<li>
    <a href="{{.Href}}"><h2>{{.Title}}</h2></a>
    {{if .Description}}<p>{{.Description}}</p>{{end}}
    <p class="meta">{{.Sections}} Kapitel · ca. {{.ReadingTime}} Min.</p>
  </li>
  {{end}}
</ul>
{{end}}`

const pageMain = `{{define "main"}}
<h1>{{.Title}}</h1>
{{if .Description}}<p class="lead">{{.Description}}</p>{{end}}
<p class="meta">ca. {{.ReadingTime}} Min. Lesezeit</p>
{{range .Sections}}
<section class="thesis-section" id="{{.ID}}" data-section-id="{{.ID}}" data-section-title="{{.Title}}">
  <h2>{{if .Number}}<span class="section-number">{{.Number}}</span> {{end}}{{.Title}}</h2>
  <p class="meta">{{.WordCount}} Wörter · ca. {{.ReadingTime}} Min.</p>
  {{.Body}}
  {{range .Figures}}<figure id="fig-{{.ID}}">
    <img src="{{.Src}}" alt="{{.Alt}}" loading="lazy">
    <figcaption>{{.Caption}}</figcaption>
  </figure>
  {{end}}
  {{range .Subsections}}
  <section class="thesis-subsection" id="{{.ID}}" data-section-id="{{.ID}}" data-section-title="{{.Title}}">
    <h3>{{if .Number}}<span class="section-number">{{.Number}}</span> {{end}}{{.Title}}</h3>
    {{.Body}}
  </section>
  {{end}}
</section>
{{end}}
{{end}}`

const glossaryMain = `{{define "main"}}
<h1>Glossar</h1>
<dl class="glossary">
  {{range .Terms}}<dt id="{{.Anchor}}">{{.Term}}</dt>
  <dd>{{.Definition}}</dd>
  {{end}}
</dl>
{{end}}`

const referencesMain = `{{define "main"}}
<h1>Literaturverzeichnis</h1>
<ol class="references">
  {{range .References}}<li id="ref-{{.ID}}">
    {{.Authors}} ({{.Year}}). <span class="ref-title">{{.Title}}</span>.{{if .Source}} <em>{{.Source}}</em>.{{end}}{{if .DOI}} <a href="https://doi.org/{{.DOI}}">doi:{{.DOI}}</a>{{else if .URL}} <a href="{{.URL}}">{{.URL}}</a>{{end}}
    {{if .Cited}}<span class="ref-cited">{{.Cited}}× zitiert</span>{{end}}
  </li>
  {{end}}
</ol>
{{end}}`

const downloadsMain = `{{define "main"}}
<h1>Downloads</h1>
<ul class="downloads">
  {{range .Site.Downloads}}<li><a href="{{.Href}}" download>{{.Title}}</a>{{if .Description}}<p>{{.Description}}</p>{{end}}</li>
  {{else}}<li>Keine Downloads verfügbar.</li>
  {{end}}
</ul>
{{end}}`

// cssContent styles the generated site. Syntax highlighting rules are
// appended at build time.
const cssContent = `:root {
  --bg: #ffffff;
  --bg-muted: #f6f7f9;
  --text: #1f2328;
  --text-muted: #6a737d;
  --border: #e1e4e8;
  --accent: #2557a7;
  --accent-light: #e8f0fb;
  --measure: 44rem;
  --header-height: 3.5rem;
}

[data-theme="dark"] {
  --bg: #16181d;
  --bg-muted: #1e2128;
  --text: #d8dee9;
  --text-muted: #8b93a1;
  --border: #2c313a;
  --accent: #82aaff;
  --accent-light: #1e2a40;
}

*, *::before, *::after { box-sizing: border-box; }

body {
  margin: 0;
  font-family: Georgia, "Times New Roman", serif;
  line-height: 1.7;
  color: var(--text);
  background: var(--bg);
}

a { color: var(--accent); }

.reading-bar {
  position: fixed;
  top: 0;
  left: 0;
  height: 3px;
  width: 0;
  background: var(--accent);
  z-index: 30;
}

.site-header {
  position: sticky;
  top: 0;
  display: flex;
  align-items: center;
  gap: 1.5rem;
  height: var(--header-height);
  padding: 0 1.5rem;
  background: var(--bg);
  border-bottom: 1px solid var(--border);
  font-family: system-ui, sans-serif;
  z-index: 20;
}

.site-title { font-weight: 700; text-decoration: none; color: var(--text); }
.site-nav { display: flex; gap: 1rem; flex: 1; }
.site-nav a { text-decoration: none; color: var(--text-muted); }
.site-nav a.active, .site-nav a:hover { color: var(--accent); }

#search-input {
  padding: 0.35rem 0.6rem;
  border: 1px solid var(--border);
  border-radius: 4px;
  background: var(--bg-muted);
  color: var(--text);
}

.theme-toggle { background: none; border: none; font-size: 1.2rem; cursor: pointer; color: var(--text); }

.search-results {
  position: fixed;
  top: var(--header-height);
  right: 1.5rem;
  width: 24rem;
  max-height: 60vh;
  overflow-y: auto;
  background: var(--bg);
  border: 1px solid var(--border);
  box-shadow: 0 4px 12px rgba(0, 0, 0, 0.12);
  z-index: 25;
}
.search-results a { display: block; padding: 0.6rem 0.8rem; text-decoration: none; color: var(--text); border-bottom: 1px solid var(--border); }
.search-results a small { display: block; color: var(--text-muted); }

.layout { display: flex; gap: 2rem; max-width: 72rem; margin: 0 auto; padding: 2rem 1.5rem; }

.toc {
  position: sticky;
  top: calc(var(--header-height) + 1rem);
  align-self: flex-start;
  width: 16rem;
  font-family: system-ui, sans-serif;
  font-size: 0.9rem;
}
.toc ul { list-style: none; padding-left: 0.8rem; margin: 0; }
.toc a { text-decoration: none; color: var(--text-muted); }
.toc a.active { color: var(--accent); font-weight: 600; }
.toc-number { font-variant-numeric: tabular-nums; }

.content { flex: 1; max-width: var(--measure); }
.lead { font-size: 1.15rem; color: var(--text-muted); }
.meta { font-family: system-ui, sans-serif; font-size: 0.85rem; color: var(--text-muted); }
.section-number { color: var(--accent); margin-right: 0.3rem; }

.thesis-section { scroll-margin-top: calc(var(--header-height) + 1rem); margin-bottom: 3rem; }
.thesis-subsection { scroll-margin-top: calc(var(--header-height) + 1rem); }

blockquote { border-left: 4px solid var(--accent); margin-left: 0; padding-left: 1rem; font-style: italic; }

figure { margin: 2rem 0; }
figure img { max-width: 100%; border: 1px solid var(--border); }
figcaption { font-size: 0.9rem; color: var(--text-muted); }

pre.chroma { padding: 1rem; overflow-x: auto; background: var(--bg-muted); border-radius: 4px; }

abbr.glossary-term {
  text-decoration: underline dotted var(--accent);
  cursor: help;
}
abbr.glossary-term:focus { outline: 2px solid var(--accent); outline-offset: 2px; }

a.citation { text-decoration: none; border-bottom: 1px dotted var(--accent); }

.tooltip {
  position: absolute;
  max-width: 20rem;
  padding: 0.6rem 0.8rem;
  background: var(--text);
  color: var(--bg);
  border-radius: 4px;
  font-family: system-ui, sans-serif;
  font-size: 0.85rem;
  line-height: 1.4;
  z-index: 40;
}
.tooltip strong { display: block; margin-bottom: 0.2rem; }

.hero { margin-bottom: 2rem; }
.subtitle { font-size: 1.2rem; color: var(--text-muted); }
.resume { display: inline-block; margin-top: 1rem; padding: 0.5rem 1rem; background: var(--accent); color: var(--bg); border-radius: 4px; text-decoration: none; }
.page-list { list-style: none; padding: 0; }
.page-list li { padding: 1rem 0; border-bottom: 1px solid var(--border); }
.page-list h2 { margin: 0; }

.glossary dt { font-weight: 700; margin-top: 1rem; }
.glossary dd { margin-left: 0; color: var(--text-muted); }

.references li { margin-bottom: 0.8rem; scroll-margin-top: calc(var(--header-height) + 1rem); }
.references li:target { background: var(--accent-light); }
.ref-cited { font-family: system-ui, sans-serif; font-size: 0.75rem; color: var(--text-muted); margin-left: 0.4rem; }

.site-footer { display: flex; gap: 1rem; justify-content: center; padding: 2rem; border-top: 1px solid var(--border); font-family: system-ui, sans-serif; font-size: 0.85rem; }

@media (max-width: 800px) {
  .toc { display: none; }
  .site-nav { display: none; }
}
`

// jsContent drives the client side: glossary tooltips, reading progress in
// localStorage, search over search-index.json, the theme toggle and live
// reload during preview.
const jsContent = `(function() {
  "use strict";

  var PROGRESS_KEY = "reading-progress";
  var THEME_KEY = "thesis-theme";
  var root = document.documentElement;

  function storageGet(key) {
    try { return localStorage.getItem(key); } catch (e) { return null; }
  }
  function storageSet(key, value) {
    try { localStorage.setItem(key, value); } catch (e) {}
  }

  function throttle(fn, delay) {
    var last = 0, timer = null, pendingArgs = null;
    return function() {
      var now = Date.now();
      var args = arguments, self = this;
      if (now - last >= delay) {
        last = now;
        fn.apply(self, args);
        return;
      }
      pendingArgs = args;
      if (!timer) {
        timer = setTimeout(function() {
          timer = null;
          fn.apply(self, pendingArgs);
        }, delay - (now - last));
      }
    };
  }

  // ===== Theme =====
  var storedTheme = storageGet(THEME_KEY);
  if (storedTheme) {
    root.setAttribute("data-theme", storedTheme);
  } else if (window.matchMedia && window.matchMedia("(prefers-color-scheme: dark)").matches) {
    root.setAttribute("data-theme", "dark");
  }
  var themeToggle = document.getElementById("theme-toggle");
  if (themeToggle) {
    themeToggle.addEventListener("click", function() {
      var next = root.getAttribute("data-theme") === "dark" ? "light" : "dark";
      root.setAttribute("data-theme", next);
      storageSet(THEME_KEY, next);
    });
  }

  // ===== Glossary tooltips =====
  var tooltip = document.getElementById("glossary-tooltip");

  function showTooltip(el) {
    if (!tooltip) return;
    tooltip.innerHTML = "";
    var head = document.createElement("strong");
    head.textContent = el.getAttribute("data-glossary-term");
    var body = document.createElement("span");
    body.textContent = el.getAttribute("data-glossary-definition");
    tooltip.appendChild(head);
    tooltip.appendChild(body);
    tooltip.hidden = false;
    var rect = el.getBoundingClientRect();
    tooltip.style.left = (window.scrollX + rect.left) + "px";
    tooltip.style.top = (window.scrollY + rect.bottom + 6) + "px";
  }
  function hideTooltip() {
    if (tooltip) tooltip.hidden = true;
  }

  document.querySelectorAll("abbr.glossary-term").forEach(function(el) {
    el.addEventListener("mouseenter", function() { showTooltip(el); });
    el.addEventListener("focus", function() { showTooltip(el); });
    el.addEventListener("mouseleave", hideTooltip);
    el.addEventListener("blur", hideTooltip);
  });
  document.addEventListener("keydown", function(e) {
    if (e.key === "Escape") hideTooltip();
  });

  // ===== Reading progress =====
  var page = document.body.getAttribute("data-page");
  var sections = document.querySelectorAll("[data-section-id]");
  var bar = document.getElementById("reading-bar");
  var tocLinks = document.querySelectorAll("[data-toc-target]");

  function currentSection() {
    var current = null;
    sections.forEach(function(s) {
      if (s.getBoundingClientRect().top <= 120) current = s;
    });
    return current || sections[0];
  }

  function percentRead() {
    var max = document.documentElement.scrollHeight - window.innerHeight;
    if (max <= 0) return 100;
    return Math.min(100, Math.max(0, Math.round(window.scrollY / max * 100)));
  }

  var saveProgress = throttle(function() {
    var s = currentSection();
    if (!s || !page) return;
    storageSet(PROGRESS_KEY, JSON.stringify({
      page: page,
      sectionId: s.getAttribute("data-section-id"),
      sectionTitle: s.getAttribute("data-section-title"),
      timestamp: Date.now(),
      progress: percentRead()
    }));
  }, 1000);

  function onScroll() {
    var pct = percentRead();
    if (bar) bar.style.width = pct + "%";
    var s = currentSection();
    if (s) {
      var id = s.getAttribute("data-section-id");
      tocLinks.forEach(function(a) {
        a.classList.toggle("active", a.getAttribute("data-toc-target") === id);
      });
    }
    saveProgress();
  }

  if (sections.length > 0) {
    window.addEventListener("scroll", onScroll, { passive: true });
    onScroll();
  }

  var resume = document.getElementById("resume-reading");
  if (resume) {
    try {
      var saved = JSON.parse(storageGet(PROGRESS_KEY));
      if (saved && saved.page) {
        resume.href = saved.page + (saved.sectionId ? "#" + saved.sectionId : "");
        resume.textContent = "Weiterlesen: " + (saved.sectionTitle || saved.page) + " (" + saved.progress + "%)";
        resume.hidden = false;
      }
    } catch (e) {}
  }

  // ===== Search =====
  var searchInput = document.getElementById("search-input");
  var searchResults = document.getElementById("search-results");
  var searchIndex = null;

  fetch("search-index.json")
    .then(function(r) { return r.json(); })
    .then(function(data) { searchIndex = data; })
    .catch(function() { searchIndex = null; });

  function runSearch(q) {
    var words = q.toLowerCase().split(/\s+/).filter(Boolean);
    if (!searchIndex || words.length === 0) return [];
    return searchIndex.map(function(e) {
      var title = e.title.toLowerCase(), body = e.content.toLowerCase(), score = 0;
      for (var i = 0; i < words.length; i++) {
        var t = title.split(words[i]).length - 1;
        var b = body.split(words[i]).length - 1;
        if (t === 0 && b === 0) return null;
        score += 10 * t + b;
      }
      return { entry: e, score: score };
    }).filter(Boolean).sort(function(a, b) { return b.score - a.score; }).slice(0, 10);
  }

  if (searchInput && searchResults) {
    searchInput.addEventListener("input", throttle(function() {
      var hits = runSearch(searchInput.value);
      searchResults.innerHTML = "";
      hits.forEach(function(h) {
        var a = document.createElement("a");
        a.href = h.entry.path;
        a.textContent = h.entry.title;
        var small = document.createElement("small");
        small.textContent = h.entry.page + " · " + h.entry.summary;
        a.appendChild(small);
        searchResults.appendChild(a);
      });
      searchResults.hidden = hits.length === 0;
    }, 150));
    searchInput.addEventListener("keydown", function(e) {
      if (e.key === "Escape") { searchInput.value = ""; searchResults.hidden = true; }
    });
  }

  // ===== Live reload =====
  var reloadPath = document.body.getAttribute("data-live-reload");
  if (reloadPath && window.WebSocket) {
    var scheme = location.protocol === "https:" ? "wss://" : "ws://";
    var ws = new WebSocket(scheme + location.host + reloadPath);
    ws.onmessage = function(msg) {
      if (msg.data === "reload") location.reload();
    };
  }
})();
`
