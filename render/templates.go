package render

import "html/template"

// The img partial degrades to data-fallback when the primary source fails to load.
const fragmentTemplates = `
{{define "img"}}<img src="{{.Src}}" alt="{{.Alt}}" loading="lazy" data-fallback="{{.Fallback}}" onerror="this.onerror=null;this.src=this.dataset.fallback">{{end}}

{{define "slide"}}<div class="swiper-slide featured-slide">
	<div class="featured-backdrop">{{template "img" .Image}}</div>
	<div class="featured-content">
		<h2 class="featured-title">{{.Title}}</h2>
		<div class="featured-meta">
			<span class="featured-score">{{.Score}}</span>
			<span class="featured-format">{{.Format}}</span>
			<span class="featured-episodes">{{.Episodes}} eps</span>
			<span class="featured-status">{{.Status}}</span>
		</div>
		{{if .Genres}}<p class="featured-genres">{{.Genres}}</p>{{end}}
		{{if .Description}}<p class="featured-description">{{.Description}}</p>{{end}}
		<a class="featured-link" href="{{.Href}}">View Details</a>
	</div>
</div>{{end}}

{{define "slides"}}<div class="swiper hero-swiper" id="hero-carousel">
	<div class="swiper-wrapper">{{range .}}
		{{template "slide" .}}{{end}}
	</div>
	<div class="swiper-pagination"></div>
</div>{{end}}

{{define "card"}}<a class="anime-card" href="{{.Href}}">
	<div class="anime-card-image">{{template "img" .Image}}<span class="anime-card-score">{{.Score}}</span></div>
	<div class="anime-card-body">
		<h3 class="anime-card-title">{{.Title}}</h3>
		<p class="anime-card-meta"><span class="anime-card-format">{{.Format}}</span> · <span class="anime-card-episodes">{{.Episodes}} eps</span></p>
		{{if .Genres}}<p class="anime-card-genres">{{.Genres}}</p>{{end}}
	</div>
</a>{{end}}

{{define "grid"}}<div class="anime-grid">{{range .}}
	{{template "card" .}}{{end}}
</div>{{end}}

{{define "ranked"}}<li class="ranked-item">
	<span class="ranked-number">{{.Rank}}</span>
	<a class="ranked-link" href="{{.Href}}">{{template "img" .Image}}</a>
	<div class="ranked-info">
		<a class="ranked-title" href="{{.Href}}">{{.Title}}</a>
		{{if .Genres}}<p class="ranked-genres">{{.Genres}}</p>{{end}}
		<p class="ranked-stats"><span class="ranked-score">{{.Score}}</span> · <span class="ranked-popularity">{{.Popularity}} users</span></p>
	</div>
</li>{{end}}

{{define "rankedList"}}<ol class="ranked-list">{{range .}}
	{{template "ranked" .}}{{end}}
</ol>{{end}}

{{define "suggestion"}}<a class="suggestion-item" href="{{.Href}}">
	{{template "img" .Image}}
	<div class="suggestion-info"><span class="suggestion-title">{{.Title}}</span><span class="suggestion-format">{{.Format}}</span></div>
</a>{{end}}

{{define "suggestions"}}{{range .}}{{template "suggestion" .}}
{{end}}{{end}}

{{define "message"}}<p class="status-message {{.Kind}}">{{.Text}}</p>{{end}}

{{define "section"}}<section class="catalog-section" id="{{.ID}}">
	<h2 class="section-title">{{.Title}}</h2>
	{{.Body}}
</section>{{end}}

{{define "person"}}<div class="person-card">
	{{template "img" .Image}}
	<div class="person-info"><span class="person-name">{{.Name}}</span><span class="person-role">{{.Role}}</span></div>
</div>{{end}}

{{define "detail"}}<article class="anime-detail">
	<div class="detail-banner">{{template "img" .Banner}}</div>
	<div class="detail-header">
		<div class="detail-cover">{{template "img" .Cover}}</div>
		<div class="detail-heading">
			<h1 class="detail-title">{{.Title}}</h1>
			{{if .Native}}<p class="detail-native">{{.Native}}</p>{{end}}
			{{if .Genres}}<ul class="detail-genres">{{range .Genres}}<li>{{.}}</li>{{end}}</ul>{{end}}
		</div>
	</div>
	<p class="detail-description">{{.Description}}</p>
	<dl class="detail-info">{{range .Info}}
		<div class="info-row"><dt>{{.Label}}</dt><dd>{{.Value}}</dd></div>{{end}}
	</dl>
	{{if .TrailerURL}}<section class="detail-trailer"><h2>Trailer</h2><iframe src="{{.TrailerURL}}" title="Trailer" allowfullscreen></iframe></section>{{end}}
	{{if .Characters}}<section class="detail-characters"><h2>Characters</h2><div class="person-grid">{{range .Characters}}{{template "person" .}}{{end}}</div></section>{{end}}
	{{if .Staff}}<section class="detail-staff"><h2>Staff</h2><div class="person-grid">{{range .Staff}}{{template "person" .}}{{end}}</div></section>{{end}}
	{{if .Relations}}<section class="detail-relations"><h2>Related</h2><div class="relation-grid">{{range .Relations}}
		<div class="relation-card">{{if .Linkable}}<a href="{{.Href}}">{{template "img" .Image}}</a>{{else}}{{template "img" .Image}}{{end}}
			<span class="relation-type">{{.Relation}}</span><span class="relation-title">{{.Title}}</span><span class="relation-format">{{.Format}}</span>
		</div>{{end}}
	</div></section>{{end}}
</article>{{end}}
`

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="utf-8">
	<meta name="viewport" content="width=device-width, initial-scale=1">
	<title>{{if .Title}}{{.Title}} · {{end}}AniCatalog</title>
</head>
<body>
	<header class="site-header">
		<button id="menu-open" class="menu-toggle" type="button" aria-label="Open menu">☰</button>
		<a class="site-logo" href="/">AniCatalog</a>
		<form class="search-form" action="/search" method="get" role="search">
			<input id="search-input" name="q" type="search" value="{{.Query}}" placeholder="Search anime..." autocomplete="off">
			<button id="search-trigger" type="submit" aria-label="Search">Search</button>
			<div id="search-suggestions" class="search-suggestions"></div>
		</form>
	</header>
	<aside id="sidebar" class="sidebar">
		<button id="menu-close" class="menu-close" type="button" aria-label="Close menu">×</button>
		<nav class="sidebar-nav">
			<a href="/"{{if eq .Nav "home"}} class="current"{{end}}>Home</a>
			<a href="/#seasonal">This Season</a>
			<a href="/#top-rated">Top Rated</a>
			<a href="/#upcoming">Upcoming</a>
			<a href="/search"{{if eq .Nav "search"}} class="current"{{end}}>Search</a>
		</nav>
	</aside>
	<div id="sidebar-overlay" class="sidebar-overlay"></div>
	<main class="site-main">
		{{.Content}}
	</main>
</body>
</html>
`

var (
	fragments = template.Must(template.New("fragments").Parse(fragmentTemplates))
	layout    = template.Must(template.New("page").Parse(pageTemplate))
)
