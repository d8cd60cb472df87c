package handler

import (
	"encoding/xml"
	"fmt"
	"go-blog-app/internal/service"
	"net/http"
	"strings"
)

// SeoHandler holds dependencies for SEO-related handlers.
type SeoHandler struct {
	blog    service.BlogServicer
	baseURL string
}

// NewSeoHandler creates a new SeoHandler. baseURL is the public origin of
// the site, e.g. "https://blog.example.com".
func NewSeoHandler(bs service.BlogServicer, baseURL string) *SeoHandler {
	return &SeoHandler{blog: bs, baseURL: strings.TrimRight(baseURL, "/")}
}

// robotsHandler serves a robots.txt pointing at the sitemap.
func (h *SeoHandler) robotsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "User-agent: *")
	fmt.Fprintln(w, "Allow: /")
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "Sitemap: %s/sitemap.xml\n", h.baseURL)
}

const sitemapDateFormat = "2006-01-02"

type sitemapURL struct {
	XMLName xml.Name `xml:"url"`
	Loc     string   `xml:"loc"`
	LastMod string   `xml:"lastmod,omitempty"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// sitemapHandler lists the home page and every published article.
func (h *SeoHandler) sitemapHandler(w http.ResponseWriter, r *http.Request) {
	articles, err := h.blog.PublishedArticles(r.Context())
	if err != nil {
		http.Error(w, "Failed to retrieve articles for sitemap", http.StatusInternalServerError)
		return
	}

	sitemap := urlSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  make([]sitemapURL, 0, len(articles)+1),
	}
	sitemap.URLs = append(sitemap.URLs, sitemapURL{Loc: h.baseURL + "/"})
	for _, a := range articles {
		sitemap.URLs = append(sitemap.URLs, sitemapURL{
			Loc:     h.baseURL + articlePath(a.ID),
			LastMod: a.UpdatedAt.Format(sitemapDateFormat),
		})
	}

	w.Header().Set("Content-Type", "application/xml")
	w.Write([]byte(xml.Header))
	encoder := xml.NewEncoder(w)
	encoder.Indent("", "  ")
	if err := encoder.Encode(sitemap); err != nil {
		http.Error(w, "Failed to generate sitemap XML", http.StatusInternalServerError)
		return
	}
}
