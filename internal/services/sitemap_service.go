package services

import (
	"encoding/xml"
	"fmt"
	"time"

	"inkpress/internal/repositories"
)

type sitemapURL struct {
	Loc        string  `xml:"loc"`
	LastMod    string  `xml:"lastmod,omitempty"`
	ChangeFreq string  `xml:"changefreq,omitempty"`
	Priority   float64 `xml:"priority,omitempty"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

var staticSitemapLinks = []sitemapURL{
	{Loc: "/", ChangeFreq: "daily", Priority: 1.0},
	{Loc: "/blog", ChangeFreq: "weekly", Priority: 0.8},
	{Loc: "/about", ChangeFreq: "monthly", Priority: 0.6},
	{Loc: "/contact", ChangeFreq: "monthly", Priority: 0.5},
	{Loc: "/terms", ChangeFreq: "yearly", Priority: 0.3},
	{Loc: "/privacy", ChangeFreq: "yearly", Priority: 0.3},
	{Loc: "/disclaimer", ChangeFreq: "yearly", Priority: 0.3},
}

// SitemapService renders the sitemap from the static routes plus one entry
// per post.
type SitemapService struct {
	posts   repositories.PostRepository
	siteURL string
}

func NewSitemapService(posts repositories.PostRepository, siteURL string) *SitemapService {
	return &SitemapService{posts: posts, siteURL: siteURL}
}

func (s *SitemapService) Generate() ([]byte, error) {
	set := urlSet{Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9"}

	for _, link := range staticSitemapLinks {
		link.Loc = s.siteURL + link.Loc
		set.URLs = append(set.URLs, link)
	}

	posts, err := s.posts.ListForSitemap()
	if err != nil {
		return nil, err
	}
	for _, p := range posts {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        fmt.Sprintf("%s/news/%s", s.siteURL, p.Slug),
			LastMod:    p.UpdatedAt.Format(time.RFC3339),
			ChangeFreq: "weekly",
			Priority:   0.8,
		})
	}

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal sitemap: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}
